package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusRefunded   OrderStatus = "refunded"
	StatusFailed     OrderStatus = "failed"
)

// validNext is the back-office transition table. Webhook refunds bypass it.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusPaid: true, StatusFailed: true},
	StatusPaid:       {StatusProcessing: true, StatusRefunded: true},
	StatusProcessing: {StatusDelivered: true, StatusRefunded: true},
	StatusDelivered:  {StatusRefunded: true},
	StatusRefunded:   {},
	StatusFailed:     {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// StatusFromProvider maps a provider status on an existing order: "paid"
// becomes StatusPaid, anything else is kept verbatim.
func StatusFromProvider(external string) OrderStatus {
	if external == "paid" {
		return StatusPaid
	}
	return OrderStatus(external)
}

// InitialStatus is the status of a newly recorded order.
func InitialStatus(external string) OrderStatus {
	if external == "paid" {
		return StatusPaid
	}
	return StatusPending
}

// Order mirrors one order at the payment provider. ExternalOrderID is the
// idempotency key for webhook deliveries.
type Order struct {
	Model
	OrderNumber     string          `gorm:"size:64;index" json:"order_number"`
	ExternalOrderID string          `gorm:"size:64;not null;uniqueIndex" json:"external_order_id"`
	Status          OrderStatus     `gorm:"size:32;not null;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Currency        string          `gorm:"size:3" json:"currency"`
	CustomerID      string          `gorm:"size:64" json:"customer_id"`
	CustomerEmail   string          `gorm:"size:255;index" json:"customer_email"`
	CustomerName    string          `gorm:"size:255" json:"customer_name"`
	PaidAt          *time.Time      `json:"paid_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	Metadata        datatypes.JSON  `json:"metadata,omitempty"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	Model
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	VariantID   *uint           `gorm:"index" json:"variant_id"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	VariantName string          `gorm:"size:255" json:"variant_name"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
}
