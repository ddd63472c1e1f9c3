// internal/adapters/out/firestore/inventory_repository_fs.go
package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	inventorydom "fisha/internal/domain/inventory"
)

// InventoryRepositoryFS exposes the "available" counter of product documents
// as inventory records.
type InventoryRepositoryFS struct {
	Client *firestore.Client
}

func NewInventoryRepositoryFS(client *firestore.Client) *InventoryRepositoryFS {
	return &InventoryRepositoryFS{Client: client}
}

func (r *InventoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(productsCollection)
}

func (r *InventoryRepositoryFS) GetByID(ctx context.Context, id string) (inventorydom.Record, error) {
	if r == nil || r.Client == nil {
		return inventorydom.Record{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return inventorydom.Record{}, inventorydom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return inventorydom.Record{}, inventorydom.ErrNotFound
		}
		return inventorydom.Record{}, err
	}

	n := availableFromData(snap.Data())
	if n < 0 {
		n = 0
	}
	return inventorydom.Record{ID: id, Available: n}, nil
}

// UpdateAvailable writes only the counter; other product fields stay as they are.
func (r *InventoryRepositoryFS) UpdateAvailable(ctx context.Context, id string, available int) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return inventorydom.ErrInvalidID
	}
	if available < 0 {
		return inventorydom.ErrInvalidAvailable
	}

	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "available", Value: available},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return inventorydom.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *InventoryRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return inventorydom.ErrInvalidID
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}
