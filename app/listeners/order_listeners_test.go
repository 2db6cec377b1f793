package listeners

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/liftstore/app/jobs"
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/event"
	"github.com/shashiranjanraj/liftstore/pkg/queue"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feed struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (f *feed) Broadcast(msg []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return true
}

type published struct{ key, event string }

type broker struct {
	mu  sync.Mutex
	out []published
}

func (b *broker) Publish(_ context.Context, key, event string, _ any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out = append(b.out, published{key, event})
	return nil
}

type jobSink struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (s *jobSink) Dispatch(_ context.Context, j queue.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	return nil
}

func order(status models.OrderStatus) models.Order {
	o := models.Order{
		ExternalOrderID: "ord_1",
		OrderNumber:     "1042",
		Status:          status,
		TotalAmount:     decimal.RequireFromString("125.5"),
		Currency:        "USD",
		CustomerEmail:   "buyer@example.com",
	}
	o.ID = 3
	return o
}

func TestBroadcastFrame(t *testing.T) {
	f := &feed{}
	evt := services.OrderEvent{Name: services.OrderStatusChanged, Order: order(models.StatusRefunded), PreviousStatus: models.StatusPaid}
	require.NoError(t, BroadcastOrder(f)(context.Background(), evt.Name, evt))

	require.Len(t, f.msgs, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(f.msgs[0], &got))
	assert.Equal(t, "order.status_changed", got["event"])
	assert.Equal(t, "refunded", got["status"])
	assert.Equal(t, "paid", got["previous_status"])
	assert.Equal(t, "125.50", got["total_amount"])
	assert.NotContains(t, got, "metadata")
}

func TestPublishKeyedByExternalID(t *testing.T) {
	b := &broker{}
	evt := services.OrderEvent{Name: services.OrderCreated, Order: order(models.StatusPaid)}
	require.NoError(t, PublishOrder(b)(context.Background(), evt.Name, &evt))
	assert.Equal(t, []published{{"ord_1", "order.created"}}, b.out)
}

func TestQueueReceiptOnlyOnFirstPaid(t *testing.T) {
	cases := []struct {
		name      string
		status    models.OrderStatus
		previous  models.OrderStatus
		firstPaid bool
		want      int
	}{
		{"created paid", models.StatusPaid, "", true, 1},
		{"created pending", models.StatusPending, "", false, 0},
		{"pending to paid", models.StatusPaid, models.StatusPending, true, 1},
		{"paid again after fraudulent", models.StatusPaid, "fraudulent", false, 0},
		{"refunded", models.StatusRefunded, models.StatusPaid, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &jobSink{}
			evt := services.OrderEvent{Name: services.OrderCreated, Order: order(tc.status), PreviousStatus: tc.previous, FirstPaid: tc.firstPaid}
			require.NoError(t, QueueReceipt(sink)(context.Background(), evt.Name, evt))
			require.Len(t, sink.jobs, tc.want)
			if tc.want == 1 {
				assert.Equal(t, uint(3), sink.jobs[0].(*jobs.SendOrderReceipt).OrderID)
			}
		})
	}
}

func TestUnexpectedPayload(t *testing.T) {
	assert.Error(t, BroadcastOrder(&feed{})(context.Background(), "order.created", "nope"))
}

func TestRegisterWiresDispatcher(t *testing.T) {
	d := event.NewDispatcher(2, 8)
	defer d.Close()

	f, b, s := &feed{}, &broker{}, &jobSink{}
	Register(d, Deps{Feed: f, Broker: b, Jobs: s})

	evt := services.OrderEvent{Name: services.OrderRefunded, Order: order(models.StatusRefunded), PreviousStatus: models.StatusPaid}
	d.FireAsync(context.Background(), evt.Name, evt)

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(f.msgs) == 1 && len(b.out) == 1
	}, time.Second, 5*time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.jobs, "receipt listener is not bound to order.refunded")
}
