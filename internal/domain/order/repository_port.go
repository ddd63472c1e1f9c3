package order

import (
	"context"
	"errors"
)

// Filter for the admin order list. Empty Status means all.
type Filter struct {
	Status Status
	Limit  int
}

// Match applies the filter in memory (used on feed snapshots).
func (f Filter) Match(o Order) bool {
	return f.Status == "" || o.Status == f.Status
}

// Repository defines the persistence port for Order.
//
// List and Watch return orders newest first (by Date).
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, filter Filter) ([]Order, error)

	// UpdateStatus writes only the status field.
	UpdateStatus(ctx context.Context, id string, s Status) error

	// Watch invokes fn with the full current result set on every change
	// until ctx is cancelled or fn returns an error.
	Watch(ctx context.Context, filter Filter, fn func([]Order) error) error
}

// Standard repository errors
var (
	ErrNotFound = errors.New("order: not found")
)
