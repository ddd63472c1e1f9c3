// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ========================================
// Status
// ========================================

// Status is the closed set of order states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Fulfilled reports whether s is the terminal state that consumes inventory.
func (s Status) Fulfilled() bool { return s == StatusCompleted }

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ========================================
// Entity
// ========================================

// Item is one ordered line. Price is the unit price at checkout time.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
}

type Order struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`

	Items []Item `json:"items"`

	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`

	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
}

// Customer is the contact block collected at checkout.
type Customer struct {
	Name    string
	Address string
	Phone   string
}

// ========================================
// Errors / Policy
// ========================================

var (
	ErrInvalidID       = errors.New("order: invalid id")
	ErrInvalidCustomer = errors.New("order: invalid customer")
	ErrInvalidItems    = errors.New("order: invalid items")
	ErrInvalidItem     = errors.New("order: invalid item")
	ErrInvalidStatus   = errors.New("order: invalid status")
	ErrInvalidDate     = errors.New("order: invalid date")
)

// DeliveryFee is the flat fee added to every order.
const DeliveryFee = 120

var MinItemsRequired = 1

// ========================================
// Constructors
// ========================================

// New builds a pending order (ID assigned by the store).
// Subtotal and Total are computed from items.
func New(c Customer, items []Item, date time.Time) (Order, error) {
	o := Order{
		Name:        strings.TrimSpace(c.Name),
		Address:     strings.TrimSpace(c.Address),
		Phone:       strings.TrimSpace(c.Phone),
		Items:       normalizeItems(items),
		DeliveryFee: DeliveryFee,
		Status:      StatusPending,
		Date:        date.UTC(),
	}
	o.Subtotal, o.Total = computeTotals(o.Items, o.DeliveryFee)

	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Behavior
// ========================================

func (o *Order) SetStatus(s Status) error {
	if !s.Valid() {
		return ErrInvalidStatus
	}
	o.Status = s
	return nil
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.Name == "" || o.Address == "" || o.Phone == "" {
		return ErrInvalidCustomer
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func validateItems(items []Item) error {
	if len(items) < MinItemsRequired {
		return ErrInvalidItems
	}
	for _, it := range items {
		if it.ID == "" || it.Quantity <= 0 || it.Price < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeItems(src []Item) []Item {
	out := make([]Item, 0, len(src))
	for _, it := range src {
		it.ID = strings.TrimSpace(it.ID)
		it.Name = strings.TrimSpace(it.Name)
		it.Size = strings.TrimSpace(it.Size)
		it.Color = strings.TrimSpace(it.Color)
		out = append(out, it)
	}
	return out
}

func computeTotals(items []Item, fee float64) (subtotal, total float64) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64(), sum.Add(decimal.NewFromFloat(fee)).InexactFloat64()
}
