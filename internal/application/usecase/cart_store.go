// internal/application/usecase/cart_store.go
package usecase

import (
	"context"
	"errors"
	"log"
	"sync"

	cartdom "fisha/internal/domain/cart"
)

// CartStore owns one cart and its persisted mirror under a single key.
//
// Every mutator runs mutate -> recompute -> persist under the store mutex and
// returns the resulting snapshot. Nothing here returns an error to the
// caller: rejected inputs are no-ops and storage failures are logged, leaving
// the in-memory cart authoritative.
type CartStore struct {
	mu   sync.Mutex
	kv   cartdom.KVStore
	key  string
	cart *cartdom.Cart
	snap cartdom.Snapshot
}

// NewCartStore returns an empty store. Call Restore to load the persisted cart.
func NewCartStore(kv cartdom.KVStore, key string) *CartStore {
	if key == "" {
		key = cartdom.StorageKey
	}
	c := cartdom.FromLines(nil)
	return &CartStore{kv: kv, key: key, cart: c, snap: c.Snapshot()}
}

func (s *CartStore) Key() string { return s.key }

// Restore replaces the in-memory cart with the persisted record.
// Missing or unreadable records give an empty cart.
func (s *CartStore) Restore(ctx context.Context) cartdom.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cartdom.FromLines(s.load(ctx))
	s.snap = s.cart.Snapshot()
	return s.snap
}

func (s *CartStore) load(ctx context.Context) []cartdom.Line {
	if s.kv == nil {
		return nil
	}
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Printf("[cart_store] WARN: restore read failed key=%s err=%v", s.key, err)
		return nil
	}
	if !ok {
		return nil
	}
	lines, err := cartdom.Decode(raw)
	if err != nil {
		log.Printf("[cart_store] WARN: persisted cart unreadable, starting empty key=%s err=%v", s.key, err)
		return nil
	}
	return lines
}

// AddLine merges candidate by (productId, size, color).
func (s *CartStore) AddLine(ctx context.Context, candidate cartdom.Line) cartdom.Snapshot {
	return s.mutate(ctx, "add", func(c *cartdom.Cart) bool {
		changed, err := c.Add(candidate)
		if err != nil {
			log.Printf("[cart_store] rejected add id=%q size=%q color=%q: %v",
				candidate.ProductID, candidate.Size, candidate.Color, err)
		}
		return changed
	})
}

// RemoveLine removes exactly one variant.
func (s *CartStore) RemoveLine(ctx context.Context, key cartdom.LineKey) cartdom.Snapshot {
	return s.mutate(ctx, "remove", func(c *cartdom.Cart) bool {
		return c.Remove(key)
	})
}

// RemoveProduct removes every variant of productID.
func (s *CartStore) RemoveProduct(ctx context.Context, productID string) cartdom.Snapshot {
	return s.mutate(ctx, "remove_product", func(c *cartdom.Cart) bool {
		return c.RemoveProduct(productID)
	})
}

// UpdateQuantity sets the quantity of one variant. Out of range is ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, key cartdom.LineKey, qty int) cartdom.Snapshot {
	return s.mutate(ctx, "update_quantity", func(c *cartdom.Cart) bool {
		changed, err := c.SetQuantity(key, qty)
		if err != nil {
			log.Printf("[cart_store] rejected quantity=%d id=%q: %v", qty, key.ProductID, err)
		}
		return changed
	})
}

// Clear empties the cart and removes the persisted record.
func (s *CartStore) Clear(ctx context.Context) cartdom.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.snap = s.cart.Snapshot()

	if s.kv != nil {
		if err := s.kv.Remove(ctx, s.key); err != nil {
			log.Printf("[cart_store] WARN: clear failed key=%s err=%v", s.key, err)
		}
	}
	return s.snap
}

func (s *CartStore) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Contains(productID)
}

func (s *CartStore) ContainsLine(key cartdom.LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ContainsLine(key)
}

// Snapshot returns the current lines and totals.
func (s *CartStore) Snapshot() cartdom.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// mutate persists after every call, including no-ops, so the stored record
// always mirrors memory.
func (s *CartStore) mutate(ctx context.Context, op string, fn func(*cartdom.Cart) bool) cartdom.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = fn(s.cart)
	s.snap = s.cart.Snapshot()
	s.persist(ctx, op)
	return s.snap
}

func (s *CartStore) persist(ctx context.Context, op string) {
	if s.kv == nil {
		return
	}
	raw, err := cartdom.Encode(s.snap.Lines)
	if err != nil {
		log.Printf("[cart_store] WARN: encode failed op=%s key=%s err=%v", op, s.key, err)
		return
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[cart_store] persist cancelled op=%s key=%s", op, s.key)
			return
		}
		log.Printf("[cart_store] WARN: persist failed op=%s key=%s err=%v", op, s.key, err)
	}
}
