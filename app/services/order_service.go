package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
)

type StatusInput struct {
	Status string `json:"status" validate:"required,in=pending,paid,processing,delivered,refunded,failed"`
}

// OrderService is the back-office view of orders. Unlike webhooks, every
// status change here must follow the transition table.
type OrderService struct {
	orders *repositories.OrderRepository
	events Publisher
	now    func() time.Time
}

func NewOrderService(orders *repositories.OrderRepository, events Publisher) *OrderService {
	return &OrderService{orders: orders, events: events, now: time.Now}
}

func (s *OrderService) List(ctx context.Context, status, email string, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.List(ctx, repositories.OrderFilter{
		Status: models.OrderStatus(status),
		Email:  normaliseEmail(email),
	}, page, limit)
}

func (s *OrderService) Find(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.Find(ctx, id)
}

func (s *OrderService) Transition(ctx context.Context, id uint, to models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	from, unpaid := order.Status, order.PaidAt == nil
	if !models.CanTransition(from, to) {
		return nil, apperr.Invalid("status", fmt.Sprintf("An order cannot move from %s to %s.", from, to))
	}

	if err := s.orders.UpdateOrderStatus(ctx, order, to, s.now()); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("order status changed by admin", "order_id", order.ID, "from", from, "to", to)

	name := OrderStatusChanged
	if to == models.StatusRefunded {
		name = OrderRefunded
	}
	if s.events != nil {
		s.events.FireAsync(ctx, name, OrderEvent{
			Name:           name,
			Order:          *order,
			PreviousStatus: from,
			FirstPaid:      unpaid && order.PaidAt != nil,
		})
	}
	return order, nil
}
