package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	inventorydom "fisha/internal/domain/inventory"
	orderdom "fisha/internal/domain/order"
	productdom "fisha/internal/domain/product"
)

var errBoom = errors.New("boom")

// ------------------------------------------------------------
// KV
// ------------------------------------------------------------

type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	sets    int
	removes int
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes++
	delete(f.data, key)
	return nil
}

func (f *fakeKV) raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// ------------------------------------------------------------
// Inventory
// ------------------------------------------------------------

type fakeInventory struct {
	mu        sync.Mutex
	records   map[string]int
	getErr    map[string]error
	updateErr map[string]error
	updates   []string
	deletes   []string
}

func newFakeInventory(records map[string]int) *fakeInventory {
	return &fakeInventory{records: records, getErr: map[string]error{}, updateErr: map[string]error{}}
}

func (f *fakeInventory) GetByID(_ context.Context, id string) (inventorydom.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[id]; err != nil {
		return inventorydom.Record{}, err
	}
	v, ok := f.records[id]
	if !ok {
		return inventorydom.Record{}, inventorydom.ErrNotFound
	}
	return inventorydom.Record{ID: id, Available: v}, nil
}

func (f *fakeInventory) UpdateAvailable(_ context.Context, id string, available int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.records[id] = available
	return nil
}

func (f *fakeInventory) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if err := f.updateErr[id]; err != nil {
		return err
	}
	delete(f.records, id)
	return nil
}

// ------------------------------------------------------------
// Orders
// ------------------------------------------------------------

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]orderdom.Order
	statusErr error
	createErr error
	seq       int
	// block, when set, is waited on inside Create.
	block   chan struct{}
	entered chan struct{}
}

func newFakeOrders() *fakeOrders { return &fakeOrders{orders: map[string]orderdom.Order{}} }

func (f *fakeOrders) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return orderdom.Order{}, f.createErr
	}
	f.seq++
	o.ID = "ord-" + string(rune('0'+f.seq))
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context, filter orderdom.Filter) ([]orderdom.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []orderdom.Order{}
	for _, o := range f.orders {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, s orderdom.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	o, ok := f.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	o.Status = s
	f.orders[id] = o
	return nil
}

func (f *fakeOrders) Watch(ctx context.Context, filter orderdom.Filter, fn func([]orderdom.Order) error) error {
	list, _ := f.List(ctx, filter)
	if err := fn(list); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// ------------------------------------------------------------
// Products
// ------------------------------------------------------------

type fakeProducts struct {
	mu       sync.Mutex
	items    map[string]productdom.Product
	listHits int
	seq      int
}

func newFakeProducts(ps ...productdom.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]productdom.Product{}}
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) sorted(keep func(productdom.Product) bool) []productdom.Product {
	out := []productdom.Product{}
	for _, p := range f.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProducts) List(context.Context) ([]productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	return f.sorted(func(productdom.Product) bool { return true }), nil
}

func (f *fakeProducts) ListByCategories(_ context.Context, cats []string) ([]productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	return f.sorted(func(p productdom.Product) bool {
		for _, c := range cats {
			if string(p.Category) == c {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = "new-" + string(rune('0'+f.seq))
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Save(_ context.Context, p productdom.Product) (productdom.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// ------------------------------------------------------------
// Misc
// ------------------------------------------------------------

type fakeNotifier struct {
	mu   sync.Mutex
	sent []orderdom.Order
	err  error
}

func (f *fakeNotifier) NotifyOrderPlaced(_ context.Context, o orderdom.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, o)
	return f.err
}

type fakeSessions struct {
	mu   sync.Mutex
	data map[string]string
	ttl  time.Duration
}

func newFakeSessions() *fakeSessions { return &fakeSessions{data: map[string]string{}} }

func (f *fakeSessions) Put(_ context.Context, token, email string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[token] = email
	f.ttl = ttl
	return nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[token]
	return v, ok, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, token)
	return nil
}
