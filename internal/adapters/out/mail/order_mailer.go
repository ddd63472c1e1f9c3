// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	orderdom "fisha/internal/domain/order"
)

// EmailClient abstracts the transport (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer mails the operator a summary of every placed order.
type OrderMailer struct {
	client     EmailClient
	from       string
	operator   string
	consoleURL string
}

func NewOrderMailer(client EmailClient, from, operator, consoleURL string) *OrderMailer {
	return &OrderMailer{
		client:     client,
		from:       strings.TrimSpace(from),
		operator:   strings.TrimSpace(operator),
		consoleURL: strings.TrimRight(strings.TrimSpace(consoleURL), "/"),
	}
}

func (m *OrderMailer) NotifyOrderPlaced(ctx context.Context, o orderdom.Order) error {
	if m == nil || m.client == nil {
		return nil
	}
	if m.operator == "" {
		return fmt.Errorf("order_mailer: operator address is empty")
	}
	subject := fmt.Sprintf("New order %s (%d items, %.2f EGP)", o.ID, o.ItemCount(), o.Total)
	return m.client.Send(ctx, m.from, m.operator, subject, m.body(o))
}

func (m *OrderMailer) body(o orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Date: %s\n\n", o.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Customer: %s\nPhone: %s\nAddress: %s\n\n", o.Name, o.Phone, o.Address)

	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s (%s / %s) x%d @ %.2f\n", it.Name, it.Size, it.Color, it.Quantity, it.Price)
	}

	fmt.Fprintf(&b, "\nSubtotal: %.2f\nDelivery: %.2f\nTotal: %.2f\n", o.Subtotal, o.DeliveryFee, o.Total)
	if m.consoleURL != "" {
		fmt.Fprintf(&b, "\n%s/orders?status=pending\n", m.consoleURL)
	}
	return b.String()
}
