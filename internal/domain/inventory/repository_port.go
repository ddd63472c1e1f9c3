// internal/domain/inventory/repository_port.go
package inventory

import "context"

// ------------------------------------------------------
// Repository Port for Inventory (stock fields of the products collection)
// ------------------------------------------------------
//
// The catalog owns these records; here they are only mutable counters.
// Writes are not transactional (last-write-wins).
type RepositoryPort interface {
	// GetByID:
	// - Loads the stock for id. Returns ErrNotFound when it does not exist.
	GetByID(ctx context.Context, id string) (Record, error)

	// UpdateAvailable:
	// - Overwrites available only.
	UpdateAvailable(ctx context.Context, id string, available int) error

	// Delete:
	// - Removes the whole record (a product with zero stock leaves the catalog).
	Delete(ctx context.Context, id string) error
}
