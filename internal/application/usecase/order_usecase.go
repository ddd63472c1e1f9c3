// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	orderdom "fisha/internal/domain/order"
)

var ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")

// OrderUsecase backs the admin order screens.
type OrderUsecase struct {
	repo       orderdom.Repository
	reconciler *OrderReconciler
}

func NewOrderUsecase(repo orderdom.Repository, reconciler *OrderReconciler) *OrderUsecase {
	return &OrderUsecase{repo: repo, reconciler: reconciler}
}

// ParseStatusFilter maps the admin filter value ("all" or "" or a status).
func ParseStatusFilter(v string) (orderdom.Filter, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return orderdom.Filter{}, nil
	}
	s, err := orderdom.ParseStatus(v)
	if err != nil {
		return orderdom.Filter{}, err
	}
	return orderdom.Filter{Status: s}, nil
}

func (uc *OrderUsecase) List(ctx context.Context, filter orderdom.Filter) ([]orderdom.Order, error) {
	return uc.repo.List(ctx, filter)
}

func (uc *OrderUsecase) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}
	return uc.repo.GetByID(ctx, id)
}

// ChangeStatus writes the new status and reconciles inventory.
// An order that is already completed is not consumed a second time.
func (uc *OrderUsecase) ChangeStatus(ctx context.Context, id string, s orderdom.Status) (ReconcileReport, error) {
	if uc.reconciler == nil {
		return ReconcileReport{}, ErrOrderInvalidArgument
	}

	o, err := uc.GetByID(ctx, id)
	if err != nil {
		return ReconcileReport{}, err
	}

	if o.Status == orderdom.StatusCompleted && s == orderdom.StatusCompleted {
		log.Printf("[order_uc] orderId=%s already completed, inventory untouched", o.ID)
		return ReconcileReport{OrderID: o.ID, Status: s, Items: []ItemOutcome{}}, nil
	}

	return uc.reconciler.Reconcile(ctx, o.ID, o.Items, s)
}

// Watch forwards the live order feed until ctx ends.
func (uc *OrderUsecase) Watch(ctx context.Context, filter orderdom.Filter, fn func([]orderdom.Order) error) error {
	return uc.repo.Watch(ctx, filter, fn)
}
