// internal/application/usecase/order_reconciler.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inventorydom "fisha/internal/domain/inventory"
	orderdom "fisha/internal/domain/order"
)

var (
	ErrReconcileInvalidArgument = errors.New("order_reconciler: invalid argument")
	ErrReconcileStatusWrite     = errors.New("order_reconciler: status update failed")
)

// ReconcileAction describes what happened to one item's inventory.
type ReconcileAction string

const (
	ActionDecremented    ReconcileAction = "decremented"
	ActionDeleted        ReconcileAction = "deleted"
	ActionSkippedMissing ReconcileAction = "skipped_missing"
	ActionSkippedInvalid ReconcileAction = "skipped_invalid"
	ActionFailed         ReconcileAction = "failed"
)

type ItemOutcome struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Before   int             `json:"before"`
	After    int             `json:"after"`
	Action   ReconcileAction `json:"action"`
	Err      string          `json:"error,omitempty"`
}

// ReconcileReport is returned after the status write succeeded.
// Items is empty unless the new status consumed inventory.
type ReconcileReport struct {
	OrderID string          `json:"orderId"`
	Status  orderdom.Status `json:"status"`
	Items   []ItemOutcome   `json:"items"`
}

// Failed counts the items whose inventory could not be read or written.
func (r ReconcileReport) Failed() int {
	n := 0
	for _, it := range r.Items {
		if it.Action == ActionFailed {
			n++
		}
	}
	return n
}

// StatusWriter is the part of the order store the reconciler writes.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id string, s orderdom.Status) error
}

// OrderReconciler applies an order status change and, when the order
// reaches completed, consumes inventory for each item.
//
// There is no atomicity between the status write and the inventory writes,
// nor across items. A failed item is logged and reported; its siblings
// still run.
type OrderReconciler struct {
	orders    StatusWriter
	inventory inventorydom.RepositoryPort
	tracer    trace.Tracer
}

func NewOrderReconciler(orders StatusWriter, inv inventorydom.RepositoryPort) *OrderReconciler {
	return &OrderReconciler{
		orders:    orders,
		inventory: inv,
		tracer:    otel.Tracer("fisha/order_reconciler"),
	}
}

func (r *OrderReconciler) Reconcile(
	ctx context.Context,
	orderID string,
	items []orderdom.Item,
	newStatus orderdom.Status,
) (ReconcileReport, error) {
	oid := strings.TrimSpace(orderID)
	if r == nil || r.orders == nil || oid == "" || !newStatus.Valid() {
		return ReconcileReport{}, ErrReconcileInvalidArgument
	}

	ctx, span := r.tracer.Start(ctx, "order_reconciler.reconcile",
		trace.WithAttributes(
			attribute.String("order.id", oid),
			attribute.String("order.status", string(newStatus)),
			attribute.Int("order.items", len(items)),
		),
	)
	defer span.End()

	if err := r.orders.UpdateStatus(ctx, oid, newStatus); err != nil {
		span.RecordError(err)
		log.Printf("[order_reconciler] status write failed orderId=%s status=%s err=%v", oid, newStatus, err)
		return ReconcileReport{}, fmt.Errorf("%w: %w", ErrReconcileStatusWrite, err)
	}

	rep := ReconcileReport{OrderID: oid, Status: newStatus, Items: []ItemOutcome{}}
	if !newStatus.Fulfilled() {
		return rep, nil
	}
	if r.inventory == nil {
		log.Printf("[order_reconciler] WARN: inventory port not configured, skipping orderId=%s", oid)
		return rep, nil
	}

	for _, it := range items {
		out := r.consume(ctx, it)
		span.AddEvent("item.reconciled", trace.WithAttributes(
			attribute.String("item.id", out.ID),
			attribute.String("item.action", string(out.Action)),
			attribute.Int("item.after", out.After),
		))
		if out.Action == ActionFailed {
			log.Printf("[order_reconciler] item failed orderId=%s itemId=%s qty=%d err=%s", oid, out.ID, out.Quantity, out.Err)
		}
		rep.Items = append(rep.Items, out)
	}

	span.SetAttributes(attribute.Int("reconcile.failed", rep.Failed()))
	log.Printf("[order_reconciler] OK orderId=%s items=%d failed=%d", oid, len(rep.Items), rep.Failed())
	return rep, nil
}

func (r *OrderReconciler) consume(ctx context.Context, it orderdom.Item) ItemOutcome {
	out := ItemOutcome{ID: strings.TrimSpace(it.ID), Quantity: it.Quantity}
	if out.ID == "" || it.Quantity <= 0 {
		out.Action = ActionSkippedInvalid
		return out
	}

	rec, err := r.inventory.GetByID(ctx, out.ID)
	if err != nil {
		if errors.Is(err, inventorydom.ErrNotFound) {
			out.Action = ActionSkippedMissing
			return out
		}
		out.Action = ActionFailed
		out.Err = err.Error()
		return out
	}

	out.Before = rec.Available
	out.After = rec.Consume(it.Quantity)

	if out.After > 0 {
		err = r.inventory.UpdateAvailable(ctx, out.ID, out.After)
		out.Action = ActionDecremented
	} else {
		err = r.inventory.Delete(ctx, out.ID)
		out.Action = ActionDeleted
	}
	if err != nil {
		out.Action = ActionFailed
		out.After = out.Before
		out.Err = err.Error()
	}
	return out
}
