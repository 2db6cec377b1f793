package services

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitions(t *testing.T) {
	db := newServiceDB(t)
	p := createProduct(t, db, "bar")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()
	order := &models.Order{
		ExternalOrderID: "x1", Status: models.StatusPaid, TotalAmount: decimal.NewFromInt(10),
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1}},
	}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewOrderService(repo, pub)
	svc.now = func() time.Time { return fixedNow }

	_, err = svc.Transition(ctx, order.ID, models.StatusDelivered)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Transition(ctx, order.ID, models.StatusProcessing)
	require.NoError(t, err)
	got, err := svc.Transition(ctx, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.True(t, got.DeliveredAt.Equal(fixedNow))

	_, err = svc.Transition(ctx, order.ID, models.StatusRefunded)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, order.ID, models.StatusPaid)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.Equal(t, []string{OrderStatusChanged, OrderStatusChanged, OrderRefunded}, pub.names())

	_, err = svc.Transition(ctx, 999, models.StatusPaid)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAdminMarkPaidIsFirstPaid(t *testing.T) {
	db := newServiceDB(t)
	p := createProduct(t, db, "bar")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()
	order := &models.Order{
		ExternalOrderID: "x2", Status: models.StatusPending, TotalAmount: decimal.NewFromInt(10),
		Items: []models.OrderItem{{ProductID: p.ID, Quantity: 1}},
	}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewOrderService(repo, pub)
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.Transition(ctx, order.ID, models.StatusPaid)
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	_, err = svc.Transition(ctx, order.ID, models.StatusProcessing)
	require.NoError(t, err)

	require.Len(t, pub.events, 2)
	assert.True(t, pub.events[0].FirstPaid)
	assert.False(t, pub.events[1].FirstPaid)
}
