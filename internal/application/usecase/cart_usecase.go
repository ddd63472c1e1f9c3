// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	cartdom "fisha/internal/domain/cart"
	productdom "fisha/internal/domain/product"
)

var (
	ErrCartInvalidArgument  = errors.New("cart_usecase: invalid argument")
	ErrCartProductNotFound  = errors.New("cart_usecase: product not found")
	ErrCartOptionNotOffered = errors.New("cart_usecase: size/color not offered for product")
)

// ProductLookup is the narrow catalog read the cart needs.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (productdom.Product, error)
}

// CartUsecase serves one CartStore per client session.
// Each call restores the session's persisted cart, applies one operation
// and persists, holding the session lock throughout.
type CartUsecase struct {
	kv       cartdom.KVStore
	products ProductLookup
	locks    *keyedMutex
}

func NewCartUsecase(kv cartdom.KVStore, products ProductLookup) *CartUsecase {
	return &CartUsecase{kv: kv, products: products, locks: newKeyedMutex()}
}

func (uc *CartUsecase) Get(ctx context.Context, sessionID string) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.Snapshot()
	})
}

// AddProduct resolves name, price and image from the catalog and merges
// the chosen variant into the session cart.
func (uc *CartUsecase) AddProduct(ctx context.Context, sessionID, productID, size, color string) (cartdom.Snapshot, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" || uc.products == nil {
		return cartdom.Snapshot{}, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			return cartdom.Snapshot{}, ErrCartProductNotFound
		}
		return cartdom.Snapshot{}, err
	}
	if !p.Offers(size, color) {
		return cartdom.Snapshot{}, ErrCartOptionNotOffered
	}

	return uc.AddLine(ctx, sessionID, cartdom.Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageRef:  p.FirstImage(),
		Size:      size,
		Color:     color,
	})
}

func (uc *CartUsecase) AddLine(ctx context.Context, sessionID string, line cartdom.Line) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.AddLine(ctx, line)
	})
}

func (uc *CartUsecase) RemoveLine(ctx context.Context, sessionID string, key cartdom.LineKey) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.RemoveLine(ctx, key)
	})
}

func (uc *CartUsecase) RemoveProduct(ctx context.Context, sessionID, productID string) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.RemoveProduct(ctx, productID)
	})
}

func (uc *CartUsecase) UpdateQuantity(ctx context.Context, sessionID string, key cartdom.LineKey, qty int) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.UpdateQuantity(ctx, key, qty)
	})
}

func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) (cartdom.Snapshot, error) {
	return uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		return s.Clear(ctx)
	})
}

func (uc *CartUsecase) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	var found bool
	_, err := uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		found = s.Contains(productID)
		return s.Snapshot()
	})
	return found, err
}

// Consume hands the current cart to fn and clears it when fn succeeds.
// The session stays locked for the whole call, so no line can be added
// between reading the cart and clearing it.
func (uc *CartUsecase) Consume(ctx context.Context, sessionID string, fn func(cartdom.Snapshot) error) error {
	var fnErr error
	_, err := uc.with(ctx, sessionID, func(s *CartStore) cartdom.Snapshot {
		if fnErr = fn(s.Snapshot()); fnErr != nil {
			return s.Snapshot()
		}
		return s.Clear(ctx)
	})
	if err != nil {
		return err
	}
	return fnErr
}

func (uc *CartUsecase) with(ctx context.Context, sessionID string, fn func(*CartStore) cartdom.Snapshot) (cartdom.Snapshot, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return cartdom.Snapshot{}, ErrCartInvalidArgument
	}

	unlock := uc.locks.Lock(sid)
	defer unlock()

	s := NewCartStore(uc.kv, cartdom.SessionKey(sid))
	s.Restore(ctx)
	return fn(s), nil
}

// ------------------------------------------------------------
// keyedMutex
// ------------------------------------------------------------

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedEntry{}}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// TryLock acquires key only if nobody holds or waits on it.
func (k *keyedMutex) TryLock(key string) (unlock func(), ok bool) {
	k.mu.Lock()
	if _, held := k.locks[key]; held {
		k.mu.Unlock()
		return nil, false
	}
	e := &keyedEntry{refs: 1}
	e.mu.Lock()
	k.locks[key] = e
	k.mu.Unlock()

	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}, true
}
