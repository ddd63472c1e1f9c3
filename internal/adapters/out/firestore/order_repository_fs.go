// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "fisha/internal/domain/order"
)

const ordersCollection = "orders"

// orderDateLayout matches the ISO strings the storefront has always written
// (UTC, millisecond precision), so "date" sorts as one value type.
const orderDateLayout = "2006-01-02T15:04:05.000Z"

// OrderRepositoryFS is the Firestore implementation of order.Repository.
//
// Status filtering is applied in memory on the date-ordered result so the
// collection needs only the single-field index on "date".
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(ordersCollection)
}

func (r *OrderRepositoryFS) byDate() firestore.Query {
	return r.col().OrderBy("date", firestore.Desc)
}

// ============================================================
// Commands
// ============================================================

func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errNilClient
	}

	docRef := r.col().NewDoc()
	o.ID = docRef.ID
	if _, err := docRef.Create(ctx, orderToData(o)); err != nil {
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryFS) UpdateStatus(ctx context.Context, id string, s orderdom.Status) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.ErrInvalidID
	}
	if !s.Valid() {
		return orderdom.ErrInvalidStatus
	}

	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.ErrNotFound
		}
		return err
	}
	return nil
}

// ============================================================
// Queries
// ============================================================

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errNilClient
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return orderFromData(snap.Ref.ID, snap.Data()), nil
}

func (r *OrderRepositoryFS) List(ctx context.Context, filter orderdom.Filter) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errNilClient
	}

	it := r.byDate().Documents(ctx)
	defer it.Stop()

	var docs []*firestore.DocumentSnapshot
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return ordersFromDocs(docs, filter), nil
}

// Watch streams the date-ordered order list. fn receives the full filtered
// result set on every change. It returns when ctx ends or fn fails.
func (r *OrderRepositoryFS) Watch(ctx context.Context, filter orderdom.Filter, fn func([]orderdom.Order) error) error {
	if r == nil || r.Client == nil {
		return errNilClient
	}

	it := r.byDate().Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
				return context.Canceled
			}
			log.Printf("[order_repo_fs] watch stopped err=%v", err)
			return err
		}

		docs, err := qs.Documents.GetAll()
		if err != nil {
			return err
		}
		if err := fn(ordersFromDocs(docs, filter)); err != nil {
			return err
		}
	}
}

// ============================================================
// Mapping
// ============================================================

func ordersFromDocs(docs []*firestore.DocumentSnapshot, filter orderdom.Filter) []orderdom.Order {
	out := make([]orderdom.Order, 0, len(docs))
	for _, d := range docs {
		o := orderFromData(d.Ref.ID, d.Data())
		if !filter.Match(o) {
			continue
		}
		out = append(out, o)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

func orderToData(o orderdom.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"id":       it.ID,
			"name":     it.Name,
			"price":    it.Price,
			"quantity": it.Quantity,
			"size":     it.Size,
			"color":    it.Color,
		})
	}
	return map[string]any{
		"name":        o.Name,
		"address":     o.Address,
		"phone":       o.Phone,
		"items":       items,
		"subtotal":    o.Subtotal,
		"deliveryFee": o.DeliveryFee,
		"total":       o.Total,
		"status":      string(o.Status),
		"date":        o.Date.UTC().Format(orderDateLayout),
	}
}

func orderFromData(id string, m map[string]any) orderdom.Order {
	o := orderdom.Order{
		ID:          id,
		Name:        asString(m["name"]),
		Address:     asString(m["address"]),
		Phone:       asString(m["phone"]),
		Subtotal:    asFloat(m["subtotal"]),
		DeliveryFee: asFloat(m["deliveryFee"]),
		Total:       asFloat(m["total"]),
		Items:       []orderdom.Item{},
	}

	if s, err := orderdom.ParseStatus(asString(m["status"])); err == nil {
		o.Status = s
	} else {
		o.Status = orderdom.StatusPending
	}
	if t, ok := asTime(m["date"]); ok {
		o.Date = t.UTC()
	}

	if raw, ok := m["items"].([]any); ok {
		for _, x := range raw {
			im, ok := x.(map[string]any)
			if !ok {
				continue
			}
			o.Items = append(o.Items, orderdom.Item{
				ID:       strings.TrimSpace(asString(im["id"])),
				Name:     asString(im["name"]),
				Price:    asFloat(im["price"]),
				Quantity: asInt(im["quantity"]),
				Size:     asString(im["size"]),
				Color:    asString(im["color"]),
			})
		}
	}

	// older documents carry only the grand total
	if o.Subtotal == 0 && o.Total > 0 {
		o.DeliveryFee = orderdom.DeliveryFee
		o.Subtotal = o.Total - orderdom.DeliveryFee
	}
	return o
}
