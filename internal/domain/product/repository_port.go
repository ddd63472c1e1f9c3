// internal/domain/product/repository_port.go
package product

import "context"

// Repository is the catalog port (products collection).
type Repository interface {
	// Queries
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)

	// ListByCategories queries by equality (one value) or in-set (several)
	// on the stored category field.
	ListByCategories(ctx context.Context, categories []string) ([]Product, error)

	// Commands
	Create(ctx context.Context, p Product) (Product, error)
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
}
