package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status models.OrderStatus
	Email  string
}

// OrderRepository persists orders and also answers the catalog lookups the
// webhook reconciler needs, so it satisfies services.OrderStore on its own.
type OrderRepository struct {
	db       *gorm.DB
	products *ProductRepository
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, products: NewProductRepository(db)}
}

func (r *OrderRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

func (r *OrderRepository) FindOrderByExternalID(ctx context.Context, externalID string) (*models.Order, error) {
	var order models.Order
	err := r.q(ctx).Preload("Items").Where("external_order_id = ?", externalID).First(&order)
	if err != nil {
		return nil, apperr.FromStore("order", err)
	}
	return &order, nil
}

// CreateOrder writes the order and its items in one transaction. If another
// transaction already committed the same external id, nothing is written and
// created is false.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (created bool, err error) {
	err = r.q(ctx).Transaction(func(tx *orm.Query) error {
		inserted, err := tx.CreateOrIgnore(order, "external_order_id")
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if err := tx.Create(&order.Items); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, apperr.FromStore("order", err)
	}
	return created, nil
}

// UpdateOrderStatus sets the status and stamps paid_at / delivered_at the
// first time the order reaches those states. order is updated in place.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, order *models.Order, status models.OrderStatus, at time.Time) error {
	values := map[string]interface{}{"status": status}
	if status == models.StatusPaid && order.PaidAt == nil {
		values["paid_at"] = at
	}
	if status == models.StatusDelivered && order.DeliveredAt == nil {
		values["delivered_at"] = at
	}

	n, err := r.q(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(values)
	if err != nil {
		return apperr.FromStore("order", err)
	}
	if n == 0 {
		return apperr.NotFound("order")
	}

	order.Status = status
	if _, ok := values["paid_at"]; ok {
		order.PaidAt = &at
	}
	if _, ok := values["delivered_at"]; ok {
		order.DeliveredAt = &at
	}
	return nil
}

func (r *OrderRepository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.products.FindBySlug(ctx, slug)
}

func (r *OrderRepository) FindVariant(ctx context.Context, productID, variantID uint) (*models.ProductVariant, error) {
	return r.products.FindVariant(ctx, productID, variantID)
}

// List returns orders newest first, without items.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter, page, limit int) ([]models.Order, orm.Pagination, error) {
	q := r.q(ctx).Model(&models.Order{}).Omit("metadata")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Email != "" {
		q = q.Where("customer_email = ?", f.Email)
	}
	var orders []models.Order
	p, err := q.Order("id desc").Paginate(page, limit, &orders)
	return orders, p, apperr.FromStore("order", err)
}

func (r *OrderRepository) Find(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.q(ctx).Preload("Items").Where("id = ?", id).First(&order); err != nil {
		return nil, apperr.FromStore("order", err)
	}
	return &order, nil
}
