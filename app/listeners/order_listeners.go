// Package listeners reacts to order events fired by the reconciler and the
// admin order service. Nothing here can change a webhook's outcome.
package listeners

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/liftstore/app/jobs"
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/event"
	"github.com/shashiranjanraj/liftstore/pkg/queue"
)

var orderEvents = []string{services.OrderCreated, services.OrderStatusChanged, services.OrderRefunded}

type Broadcaster interface {
	Broadcast(msg []byte) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, key, event string, payload any) error
}

type JobDispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// Deps are optional; a nil field skips that listener.
type Deps struct {
	Feed   Broadcaster
	Broker EventPublisher
	Jobs   JobDispatcher
}

func Register(d *event.Dispatcher, deps Deps) {
	if deps.Feed != nil {
		d.Listen(BroadcastOrder(deps.Feed), orderEvents...)
	}
	if deps.Broker != nil {
		d.Listen(PublishOrder(deps.Broker), orderEvents...)
	}
	if deps.Jobs != nil {
		d.Listen(QueueReceipt(deps.Jobs), services.OrderCreated, services.OrderStatusChanged)
	}
}

// orderFrame is what admin clients and Kafka consumers see. Metadata stays
// server side.
type orderFrame struct {
	Event          string             `json:"event"`
	OrderID        uint               `json:"order_id"`
	ExternalID     string             `json:"external_order_id"`
	OrderNumber    string             `json:"order_number"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	TotalAmount    string             `json:"total_amount"`
	Currency       string             `json:"currency"`
	CustomerEmail  string             `json:"customer_email"`
}

func frameOf(evt services.OrderEvent) orderFrame {
	return orderFrame{
		Event:          evt.Name,
		OrderID:        evt.Order.ID,
		ExternalID:     evt.Order.ExternalOrderID,
		OrderNumber:    evt.Order.OrderNumber,
		Status:         evt.Order.Status,
		PreviousStatus: evt.PreviousStatus,
		TotalAmount:    evt.Order.TotalAmount.StringFixed(2),
		Currency:       evt.Order.Currency,
		CustomerEmail:  evt.Order.CustomerEmail,
	}
}

func orderEvent(name string, payload any) (services.OrderEvent, error) {
	switch evt := payload.(type) {
	case services.OrderEvent:
		return evt, nil
	case *services.OrderEvent:
		return *evt, nil
	}
	return services.OrderEvent{}, fmt.Errorf("%s: unexpected payload %T", name, payload)
}

func BroadcastOrder(feed Broadcaster) event.Listener {
	return func(_ context.Context, name string, payload any) error {
		evt, err := orderEvent(name, payload)
		if err != nil {
			return err
		}
		msg, err := json.Marshal(frameOf(evt))
		if err != nil {
			return err
		}
		feed.Broadcast(msg)
		return nil
	}
}

func PublishOrder(pub EventPublisher) event.Listener {
	return func(ctx context.Context, name string, payload any) error {
		evt, err := orderEvent(name, payload)
		if err != nil {
			return err
		}
		return pub.Publish(ctx, evt.Order.ExternalOrderID, name, frameOf(evt))
	}
}

// QueueReceipt queues a receipt for the write that first stamped paid_at, so
// an order that leaves paid and comes back is not emailed again.
func QueueReceipt(q JobDispatcher) event.Listener {
	return func(ctx context.Context, name string, payload any) error {
		evt, err := orderEvent(name, payload)
		if err != nil {
			return err
		}
		if !evt.FirstPaid || evt.Order.Status != models.StatusPaid {
			return nil
		}
		return q.Dispatch(ctx, &jobs.SendOrderReceipt{OrderID: evt.Order.ID})
	}
}
