// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	cartdom "fisha/internal/domain/cart"
	orderdom "fisha/internal/domain/order"
)

var (
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	ErrCheckoutEmptyCart    = errors.New("checkout: cart is empty")
	ErrCheckoutInProgress   = errors.New("checkout: another checkout is in progress for this session")
)

// OrderNotifier tells the shop operator about a new order (best-effort).
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, o orderdom.Order) error
}

// OrderCreator is the part of the order store checkout writes.
type OrderCreator interface {
	Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error)
}

// CheckoutInput is the delivery form.
type CheckoutInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Address string `json:"address" validate:"required,min=5,max=300"`
	Phone   string `json:"phone" validate:"required,min=6,max=20"`
}

// CheckoutUsecase turns a session cart into a pending order.
//
// Flow:
//  1. reject a second checkout for the same session while one is running
//  2. validate the form
//  3. build the order from the cart (total = subtotal + delivery fee)
//  4. persist the order, then clear the cart
//  5. notify the operator (failure is logged only)
type CheckoutUsecase struct {
	carts    *CartUsecase
	orders   OrderCreator
	notifier OrderNotifier
	validate *validator.Validate
	inflight *keyedMutex
	tracer   trace.Tracer
	now      func() time.Time
}

func NewCheckoutUsecase(carts *CartUsecase, orders OrderCreator, notifier OrderNotifier) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		orders:   orders,
		notifier: notifier,
		validate: validator.New(),
		inflight: newKeyedMutex(),
		tracer:   otel.Tracer("fisha/checkout"),
		now:      time.Now,
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(carts *CartUsecase, orders OrderCreator, notifier OrderNotifier, now func() time.Time) *CheckoutUsecase {
	uc := NewCheckoutUsecase(carts, orders, notifier)
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *CheckoutUsecase) PlaceOrder(ctx context.Context, sessionID string, in CheckoutInput) (orderdom.Order, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || uc.carts == nil || uc.orders == nil {
		return orderdom.Order{}, ErrCartInvalidArgument
	}

	unlock, ok := uc.inflight.TryLock(sid)
	if !ok {
		return orderdom.Order{}, ErrCheckoutInProgress
	}
	defer unlock()

	ctx, span := uc.tracer.Start(ctx, "checkout.place_order")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := uc.validate.Struct(in); err != nil {
		return orderdom.Order{}, fmt.Errorf("%w: %v", ErrCheckoutInvalidInput, err)
	}

	var placed orderdom.Order
	err := uc.carts.Consume(ctx, sid, func(snap cartdom.Snapshot) error {
		if len(snap.Lines) == 0 {
			return ErrCheckoutEmptyCart
		}

		o, err := orderdom.New(orderdom.Customer{
			Name:    in.Name,
			Address: in.Address,
			Phone:   in.Phone,
		}, itemsFromLines(snap.Lines), uc.now())
		if err != nil {
			return err
		}

		placed, err = uc.orders.Create(ctx, o)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return orderdom.Order{}, err
	}

	span.SetAttributes(
		attribute.String("order.id", placed.ID),
		attribute.Float64("order.total", placed.Total),
	)
	log.Printf("[checkout_uc] OK: order placed orderId=%s items=%d total=%.2f", placed.ID, placed.ItemCount(), placed.Total)

	if uc.notifier != nil {
		if nErr := uc.notifier.NotifyOrderPlaced(ctx, placed); nErr != nil {
			log.Printf("[checkout_uc] WARN: notify failed orderId=%s err=%v", placed.ID, nErr)
		}
	}
	return placed, nil
}

func itemsFromLines(lines []cartdom.Line) []orderdom.Item {
	out := make([]orderdom.Item, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderdom.Item{
			ID:       l.ProductID,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			Size:     l.Size,
			Color:    l.Color,
		})
	}
	return out
}
