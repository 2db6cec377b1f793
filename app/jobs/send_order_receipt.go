// Package jobs holds the background jobs run by pkg/queue.
package jobs

import (
	"context"
	"fmt"
	"html/template"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/mail"
	"github.com/shashiranjanraj/liftstore/pkg/queue"
)

const SendOrderReceiptName = "send_order_receipt"

// OrderFinder loads an order with its items.
type OrderFinder interface {
	Find(ctx context.Context, id uint) (*models.Order, error)
}

var receiptTmpl = template.Must(template.New("order_receipt").Parse(`<h1>Thank you for your order</h1>
<p>Hi {{if .CustomerName}}{{.CustomerName}}{{else}}there{{end}},</p>
<p>We received payment for order #{{.OrderNumber}}.</p>
<table>
{{range .Items}}<tr><td>{{.ProductName}}{{if .VariantName}} ({{.VariantName}}){{end}}</td><td>{{.Quantity}}</td><td>{{.Price.StringFixed 2}}</td></tr>
{{end}}</table>
<p><strong>Total: {{.TotalAmount.StringFixed 2}} {{.Currency}}</strong></p>
`))

// SendOrderReceipt emails the customer a receipt for a paid order. Only the
// order id is serialised; the order is reloaded when the job runs.
type SendOrderReceipt struct {
	OrderID uint `json:"order_id"`

	orders OrderFinder
	sender mail.Sender
}

func (SendOrderReceipt) JobName() string { return SendOrderReceiptName }

func (j *SendOrderReceipt) Handle(ctx context.Context) error {
	order, err := j.orders.Find(ctx, j.OrderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	if order.CustomerEmail == "" {
		return nil
	}
	msg := mail.To(order.CustomerEmail).
		Subject(fmt.Sprintf("Your LiftStore order #%s", order.OrderNumber)).
		Template(receiptTmpl, order)
	return j.sender.Send(ctx, msg)
}

// Register binds every job type to q with its dependencies.
func Register(q *queue.Manager, orders OrderFinder, sender mail.Sender) {
	q.Register(SendOrderReceiptName, func() queue.Job {
		return &SendOrderReceipt{orders: orders, sender: sender}
	})
}
