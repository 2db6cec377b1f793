package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"gorm.io/datatypes"
)

// OrderStore is the persistence the reconciler needs. Lookups return an
// apperr NotFound error when the row does not exist.
type OrderStore interface {
	FindOrderByExternalID(ctx context.Context, externalID string) (*models.Order, error)
	// CreateOrder inserts the order and its items atomically unless an order
	// with the same external id already exists. created is false in that case
	// and nothing is written.
	CreateOrder(ctx context.Context, order *models.Order) (created bool, err error)
	UpdateOrderStatus(ctx context.Context, order *models.Order, status models.OrderStatus, at time.Time) error
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindVariant(ctx context.Context, productID, variantID uint) (*models.ProductVariant, error)
}

// Publisher receives order events after the store has committed.
type Publisher interface {
	FireAsync(ctx context.Context, name string, payload any)
}

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderRefunded      = "order.refunded"
)

// OrderEvent is the payload of every order.* event.
type OrderEvent struct {
	Name           string             `json:"event"`
	Order          models.Order       `json:"order"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	// FirstPaid is set on the one event whose write stamped paid_at.
	FirstPaid bool `json:"first_paid,omitempty"`
}

// OrderReconciler applies provider webhook events to the order store. It is
// safe under at-least-once delivery: the external order id is the
// idempotency key and creation is a conditional insert.
type OrderReconciler struct {
	store  OrderStore
	events Publisher
	now    func() time.Time
}

func NewOrderReconciler(store OrderStore, events Publisher) *OrderReconciler {
	return &OrderReconciler{store: store, events: events, now: time.Now}
}

// Handle processes one delivery. raw is kept on new orders for audit.
// Unknown event names are ignored.
func (r *OrderReconciler) Handle(ctx context.Context, eventName string, payload WebhookPayload, raw []byte) error {
	switch eventName {
	case EventOrderCreated:
		return r.orderCreated(ctx, payload, raw)
	case EventOrderRefunded:
		return r.orderRefunded(ctx, payload)
	default:
		logger.WithCtx(ctx).Debug("webhook: ignoring event", "event", eventName)
		return nil
	}
}

func (r *OrderReconciler) orderCreated(ctx context.Context, p WebhookPayload, raw []byte) error {
	externalID := p.Data.ID.String()
	if externalID == "" {
		return apperr.Invalid("data.id", "The data.id field is required.")
	}
	attrs := p.Data.Attributes

	// Fast path for redeliveries; the conditional insert below is what
	// actually guarantees a single order.
	existing, err := r.store.FindOrderByExternalID(ctx, externalID)
	switch {
	case err == nil:
		return r.syncStatus(ctx, existing, attrs.Status)
	case !apperr.Is(err, apperr.KindNotFound):
		return fmt.Errorf("reconcile order %s: %w", externalID, err)
	}

	slug := p.Meta.CustomData.ProductSlug
	product, err := r.store.FindProductBySlug(ctx, slug)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Unrecoverable("product",
				fmt.Sprintf("order %s references unknown product %q", externalID, slug), err)
		}
		return fmt.Errorf("reconcile order %s: %w", externalID, err)
	}

	variant, err := r.resolveVariant(ctx, product.ID, p.Meta.CustomData.VariantID)
	if err != nil {
		return fmt.Errorf("reconcile order %s: %w", externalID, err)
	}

	order := r.buildOrder(externalID, attrs, product, variant, raw)
	created, err := r.store.CreateOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("reconcile order %s: %w", externalID, err)
	}
	if !created {
		// a concurrent delivery inserted it first
		existing, err := r.store.FindOrderByExternalID(ctx, externalID)
		if err != nil {
			return fmt.Errorf("reconcile order %s after conflict: %w", externalID, err)
		}
		return r.syncStatus(ctx, existing, attrs.Status)
	}

	logger.WithCtx(ctx).Info("order recorded",
		"external_order_id", externalID,
		"order_id", order.ID,
		"status", order.Status,
		"product", product.Slug,
	)
	r.publish(ctx, OrderEvent{Name: OrderCreated, Order: *order, FirstPaid: order.PaidAt != nil})
	return nil
}

func (r *OrderReconciler) resolveVariant(ctx context.Context, productID uint, ref FlexString) (*models.ProductVariant, error) {
	id, ok := ref.Uint()
	if !ok {
		return nil, nil
	}
	v, err := r.store.FindVariant(ctx, productID, id)
	if apperr.Is(err, apperr.KindNotFound) {
		logger.WithCtx(ctx).Warn("webhook: variant not found, recording order without it",
			"product_id", productID, "variant_id", id)
		return nil, nil
	}
	return v, err
}

func (r *OrderReconciler) buildOrder(externalID string, attrs OrderAttributes, product *models.Product, variant *models.ProductVariant, raw []byte) *models.Order {
	total := attrs.TotalAmount()
	order := &models.Order{
		OrderNumber:     attrs.OrderNumber.String(),
		ExternalOrderID: externalID,
		Status:          models.InitialStatus(attrs.Status),
		TotalAmount:     total,
		Currency:        attrs.Currency,
		CustomerID:      attrs.CustomerID.String(),
		CustomerEmail:   attrs.CustomerEmail,
		CustomerName:    attrs.UserName,
	}
	if len(raw) > 0 {
		order.Metadata = datatypes.JSON(raw)
	}
	if order.Status == models.StatusPaid {
		now := r.now()
		order.PaidAt = &now
	}

	item := models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    1,
		Price:       total,
	}
	if variant != nil {
		id := variant.ID
		item.VariantID = &id
		item.VariantName = variant.SKU
		if label := variant.Label(); label != variant.SKU {
			item.VariantName += " (" + label + ")"
		}
	}
	order.Items = []models.OrderItem{item}
	return order
}

// syncStatus moves an existing order to the provider's status when they
// differ. Nothing else on the order is touched.
func (r *OrderReconciler) syncStatus(ctx context.Context, order *models.Order, external string) error {
	target := models.StatusFromProvider(external)
	if external == "" || order.Status == target {
		return nil
	}

	previous, unpaid := order.Status, order.PaidAt == nil
	if err := r.store.UpdateOrderStatus(ctx, order, target, r.now()); err != nil {
		return fmt.Errorf("update order %s status: %w", order.ExternalOrderID, err)
	}
	logger.WithCtx(ctx).Info("order status synced",
		"external_order_id", order.ExternalOrderID, "from", previous, "to", target)
	r.publish(ctx, OrderEvent{
		Name:           OrderStatusChanged,
		Order:          *order,
		PreviousStatus: previous,
		FirstPaid:      unpaid && order.PaidAt != nil,
	})
	return nil
}

func (r *OrderReconciler) orderRefunded(ctx context.Context, p WebhookPayload) error {
	externalID := p.Data.ID.String()
	order, err := r.store.FindOrderByExternalID(ctx, externalID)
	if apperr.Is(err, apperr.KindNotFound) {
		logger.WithCtx(ctx).Warn("webhook: refund for unknown order dropped", "external_order_id", externalID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("refund order %s: %w", externalID, err)
	}

	previous := order.Status
	if err := r.store.UpdateOrderStatus(ctx, order, models.StatusRefunded, r.now()); err != nil {
		return fmt.Errorf("refund order %s: %w", externalID, err)
	}
	logger.WithCtx(ctx).Info("order refunded", "external_order_id", externalID, "from", previous)
	r.publish(ctx, OrderEvent{Name: OrderRefunded, Order: *order, PreviousStatus: previous})
	return nil
}

func (r *OrderReconciler) publish(ctx context.Context, evt OrderEvent) {
	if r.events == nil {
		return
	}
	r.events.FireAsync(ctx, evt.Name, evt)
}
