// internal/adapters/out/memory/store.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	inventorydom "fisha/internal/domain/inventory"
	orderdom "fisha/internal/domain/order"
	productdom "fisha/internal/domain/product"
)

// Store keeps products and orders in process memory.
// It backs local runs without Firestore and the HTTP tests.
type Store struct {
	mu       sync.RWMutex
	products map[string]productdom.Product
	orders   map[string]orderdom.Order

	subMu sync.Mutex
	subs  map[int]chan struct{}
	next  int
}

func NewStore() *Store {
	return &Store{
		products: map[string]productdom.Product{},
		orders:   map[string]orderdom.Order{},
		subs:     map[int]chan struct{}{},
	}
}

func (s *Store) Products() *ProductRepository     { return &ProductRepository{s: s} }
func (s *Store) Inventory() *InventoryRepository { return &InventoryRepository{s: s} }
func (s *Store) Orders() *OrderRepository         { return &OrderRepository{s: s} }

// ============================================================
// Products
// ============================================================

type ProductRepository struct{ s *Store }

func (r *ProductRepository) List(_ context.Context) ([]productdom.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedProducts(nil), nil
}

func (r *ProductRepository) ListByCategories(_ context.Context, categories []string) ([]productdom.Product, error) {
	set := map[string]struct{}{}
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []productdom.Product{}, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedProducts(func(p productdom.Product) bool {
		_, ok := set[string(p.Category)]
		return ok
	}), nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[strings.TrimSpace(id)]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepository) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	r.s.products[p.ID] = p
	return p, nil
}

func (r *ProductRepository) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	r.s.products[p.ID] = p
	return p, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.products, strings.TrimSpace(id))
	r.s.mu.Unlock()
	return nil
}

func (s *Store) sortedProducts(keep func(productdom.Product) bool) []productdom.Product {
	out := make([]productdom.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ============================================================
// Inventory (the available counter of products)
// ============================================================

type InventoryRepository struct{ s *Store }

func (r *InventoryRepository) GetByID(_ context.Context, id string) (inventorydom.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[strings.TrimSpace(id)]
	if !ok {
		return inventorydom.Record{}, inventorydom.ErrNotFound
	}
	n := p.Available
	if n < 0 {
		n = 0
	}
	return inventorydom.Record{ID: p.ID, Available: n}, nil
}

func (r *InventoryRepository) UpdateAvailable(_ context.Context, id string, available int) error {
	if available < 0 {
		return inventorydom.ErrInvalidAvailable
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[strings.TrimSpace(id)]
	if !ok {
		return inventorydom.ErrNotFound
	}
	p.Available = available
	r.s.products[p.ID] = p
	return nil
}

func (r *InventoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.products, strings.TrimSpace(id))
	r.s.mu.Unlock()
	return nil
}

// ============================================================
// Orders
// ============================================================

type OrderRepository struct{ s *Store }

func (r *OrderRepository) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	r.s.mu.Lock()
	if strings.TrimSpace(o.ID) == "" {
		o.ID = uuid.NewString()
	}
	o.Items = append([]orderdom.Item(nil), o.Items...)
	r.s.orders[o.ID] = o
	r.s.mu.Unlock()

	r.s.broadcast()
	return o, nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[strings.TrimSpace(id)]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *OrderRepository) List(_ context.Context, filter orderdom.Filter) ([]orderdom.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedOrders(filter), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, st orderdom.Status) error {
	if !st.Valid() {
		return orderdom.ErrInvalidStatus
	}
	r.s.mu.Lock()
	o, ok := r.s.orders[strings.TrimSpace(id)]
	if !ok {
		r.s.mu.Unlock()
		return orderdom.ErrNotFound
	}
	o.Status = st
	r.s.orders[o.ID] = o
	r.s.mu.Unlock()

	r.s.broadcast()
	return nil
}

// Watch delivers the current list immediately and again after every change.
func (r *OrderRepository) Watch(ctx context.Context, filter orderdom.Filter, fn func([]orderdom.Order) error) error {
	ch, cancel := r.s.subscribe()
	defer cancel()

	for {
		r.s.mu.RLock()
		list := r.s.sortedOrders(filter)
		r.s.mu.RUnlock()

		if err := fn(list); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

func (s *Store) sortedOrders(filter orderdom.Filter) []orderdom.Order {
	out := make([]orderdom.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func (s *Store) subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// broadcast coalesces: a subscriber that has not consumed the previous
// signal yet keeps just one pending.
func (s *Store) broadcast() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
