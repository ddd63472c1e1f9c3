package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	cartdom "fisha/internal/domain/cart"
)

func tee(size, color string) cartdom.Line {
	return cartdom.Line{ProductID: "P1", Name: "Tee", UnitPrice: 150, Quantity: 1, ImageRef: "https://img/p1", Size: size, Color: color}
}

func TestCartStore_RestoreMissingIsEmpty(t *testing.T) {
	s := NewCartStore(newFakeKV(), cartdom.StorageKey)
	snap := s.Restore(context.Background())
	assert.Empty(t, snap.Lines)
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.ItemCount)
}

func TestCartStore_RestoreCorruptedIsEmpty(t *testing.T) {
	for _, raw := range []string{
		"{not json",
		`{"id":"P1"}`,
		`[{"id":"P1","name":"Tee","price":150,"quantity":1,"image":"","size":"M"}]`,
		`[{"id":"P1","name":"Tee","price":150,"quantity":1,"image":"","size":"M","color":"black"}]}{not json`,
	} {
		kv := newFakeKV()
		kv.data[cartdom.StorageKey] = raw
		s := NewCartStore(kv, "")

		snap := s.Restore(context.Background())
		assert.Empty(t, snap.Lines, "raw=%q", raw)
		assert.Zero(t, snap.ItemCount)
	}
}

func TestCartStore_RestoreReadFailureIsEmpty(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errBoom
	s := NewCartStore(kv, "")
	assert.Empty(t, s.Restore(context.Background()).Lines)
}

func TestCartStore_AddSameVariantTwice(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := NewCartStore(kv, "")

	s.AddLine(ctx, tee("M", "black"))
	snap := s.AddLine(ctx, tee("M", "black"))

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, 300.0, snap.Total)

	raw, ok := kv.raw(cartdom.StorageKey)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"P1","name":"Tee","price":150,"quantity":2,"image":"https://img/p1","size":"M","color":"black"}]`, raw)
}

func TestCartStore_AddDifferentSize(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore(newFakeKV(), "")
	s.AddLine(ctx, tee("M", "black"))
	snap := s.AddLine(ctx, tee("L", "black"))
	assert.Len(t, snap.Lines, 2)
}

func TestCartStore_UpdateQuantityOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore(newFakeKV(), "")
	s.AddLine(ctx, tee("M", "black"))
	s.AddLine(ctx, tee("M", "black"))
	k := cartdom.NewLineKey("P1", "M", "black")

	assert.Equal(t, 2, s.UpdateQuantity(ctx, k, 0).Lines[0].Quantity)
	assert.Equal(t, 2, s.UpdateQuantity(ctx, k, 11).Lines[0].Quantity)
	assert.Equal(t, 7, s.UpdateQuantity(ctx, k, 7).Lines[0].Quantity)
}

func TestCartStore_RemoveLineKeepsOtherVariants(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore(newFakeKV(), "")
	s.AddLine(ctx, tee("M", "black"))
	s.AddLine(ctx, tee("L", "black"))

	snap := s.RemoveLine(ctx, cartdom.NewLineKey("P1", "L", "black"))
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "M", snap.Lines[0].Size)
	assert.True(t, s.Contains("P1"))
	assert.False(t, s.ContainsLine(cartdom.NewLineKey("P1", "L", "black")))

	snap = s.RemoveProduct(ctx, "P1")
	assert.Empty(t, snap.Lines)
	assert.False(t, s.Contains("P1"))
}

func TestCartStore_ClearRemovesRecordIdempotently(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := NewCartStore(kv, "")
	s.AddLine(ctx, tee("M", "black"))

	snap := s.Clear(ctx)
	assert.Empty(t, snap.Lines)
	assert.Zero(t, snap.Total)
	_, ok := kv.raw(cartdom.StorageKey)
	assert.False(t, ok)

	s.Clear(ctx)
	assert.Equal(t, 2, kv.removes)
}

func TestCartStore_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.setErr = errBoom
	s := NewCartStore(kv, "")

	snap := s.AddLine(ctx, tee("M", "black"))
	assert.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, kv.sets)
	_, ok := kv.raw(cartdom.StorageKey)
	assert.False(t, ok)
}

func TestCartStore_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := NewCartStore(kv, "k")
	s.AddLine(ctx, tee("M", "black"))
	s.AddLine(ctx, tee("M", "black"))
	s.AddLine(ctx, cartdom.Line{ProductID: "P2", Name: "Jeans", UnitPrice: 799.99, Size: "32", Color: "blue"})
	want := s.Snapshot()

	restored := NewCartStore(kv, "k").Restore(ctx)
	assert.Equal(t, want, restored)
}

func TestCartStore_NilKV(t *testing.T) {
	ctx := context.Background()
	s := NewCartStore(nil, "")
	s.Restore(ctx)
	snap := s.AddLine(ctx, tee("M", "black"))
	assert.Len(t, snap.Lines, 1)
	assert.Empty(t, s.Clear(ctx).Lines)
}

func TestCartStore_PropertyPersistedMirrorsMemory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		kv := newFakeKV()
		s := NewCartStore(kv, "")

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			size := rapid.SampledFrom([]string{"S", "M"}).Draw(t, "size")
			color := rapid.SampledFrom([]string{"black", "gold"}).Draw(t, "color")
			k := cartdom.NewLineKey("P1", size, color)
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				s.AddLine(ctx, tee(size, color))
			case 1:
				s.UpdateQuantity(ctx, k, rapid.IntRange(-1, 12).Draw(t, "q"))
			case 2:
				s.RemoveLine(ctx, k)
			case 3:
				if rapid.Bool().Draw(t, "clear") {
					s.Clear(ctx)
				}
			}

			mem := s.Snapshot()
			got := NewCartStore(kv, "").Restore(ctx)
			require.Equal(t, mem, got)
		}
	})
}
