// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "fisha/internal/domain/product"
)

const productsCollection = "products"

// ProductRepositoryFS is a Firestore-based implementation of the product repository.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(productsCollection)
}

// ============================================================
// Queries
// ============================================================

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errNilClient
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return productFromData(snap.Ref.ID, snap.Data()), nil
}

func (r *ProductRepositoryFS) List(ctx context.Context) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}
	return r.collect(r.col().Documents(ctx))
}

// ListByCategories uses "==" for one value and "in" for several.
func (r *ProductRepositoryFS) ListByCategories(ctx context.Context, categories []string) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}

	cats := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, c)
		}
	}

	var q firestore.Query
	switch len(cats) {
	case 0:
		return []productdom.Product{}, nil
	case 1:
		q = r.col().Where("category", "==", cats[0])
	default:
		q = r.col().Where("category", "in", cats)
	}
	return r.collect(q.Documents(ctx))
}

func (r *ProductRepositoryFS) collect(it *firestore.DocumentIterator) ([]productdom.Product, error) {
	defer it.Stop()

	items := []productdom.Product{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		items = append(items, productFromData(doc.Ref.ID, doc.Data()))
	}
	return items, nil
}

// ============================================================
// Commands
// ============================================================

// Create inserts a new product with a Firestore auto-ID.
func (r *ProductRepositoryFS) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errNilClient
	}

	docRef := r.col().NewDoc()
	p.ID = docRef.ID

	if _, err := docRef.Create(ctx, productToData(p)); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

// Save overwrites the stored fields of an existing product.
func (r *ProductRepositoryFS) Save(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errNilClient
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}
	p.ID = id

	if _, err := r.col().Doc(id).Set(ctx, productToData(p), firestore.MergeAll); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrNotFound
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// ============================================================
// Mapping
// ============================================================

// productToData writes every field, empty ones included, so a merge
// clears values removed by an update.
func productToData(p productdom.Product) map[string]any {
	return map[string]any{
		"name":           p.Name,
		"description":    p.Description,
		"price":          p.Price,
		"images":         nonNil(p.Images),
		"sizes":          nonNil(p.Sizes),
		"colors":         nonNil(p.Colors),
		"category":       string(p.Category),
		"menSubcategory": p.Subcategory,
		"stock":          p.Stock,
		"available":      p.Available,
		"status":         p.Status,
		"createdAt":      p.CreatedAt,
		"updatedAt":      p.UpdatedAt,
	}
}

// productFromData is lenient: documents written by older clients may miss
// fields or store numbers as strings.
func productFromData(id string, m map[string]any) productdom.Product {
	p := productdom.Product{
		ID:          id,
		Name:        strings.TrimSpace(asString(m["name"])),
		Description: asString(m["description"]),
		Price:       asFloat(m["price"]),
		Images:      asStringSlice(m["images"]),
		Sizes:       asStringSlice(m["sizes"]),
		Colors:      asStringSlice(m["colors"]),
		Category:    productdom.Category(strings.TrimSpace(asString(m["category"]))),
		Subcategory: strings.TrimSpace(asString(m["menSubcategory"])),
		Stock:       asInt(m["stock"]),
		Status:      asString(m["status"]),
	}
	p.Available = availableFromData(m)
	if t, ok := asTime(m["createdAt"]); ok {
		p.CreatedAt = t.UTC()
	}
	if t, ok := asTime(m["updatedAt"]); ok {
		p.UpdatedAt = t.UTC()
	}
	return p
}

// availableFromData falls back to stock for documents that predate the counter.
func availableFromData(m map[string]any) int {
	if v, ok := m["available"]; ok && v != nil {
		return asInt(v)
	}
	return asInt(m["stock"])
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
