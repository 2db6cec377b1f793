package services

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/crypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func newTestWebhookService(t *testing.T, cfg config.Payments) (*WebhookService, *memoryStore) {
	t.Helper()
	r, store, _ := newTestReconciler(t)
	return NewWebhookService(cfg, r), store
}

func TestReceiveValidSignature(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{WebhookSecret: testSecret})
	body := webhookBody(EventOrderCreated, "7001", "paid", nil)

	outcome, err := svc.Receive(context.Background(), body, crypt.Sign(testSecret, body))
	require.NoError(t, err)
	assert.Equal(t, WebhookProcessed, outcome)
	assert.Len(t, store.orders, 1)
}

func TestReceiveBadSignatureTouchesNothing(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{WebhookSecret: testSecret})
	body := webhookBody(EventOrderCreated, "7002", "paid", nil)

	for _, sig := range []string{"", "deadbeef", crypt.Sign("other-secret", body)} {
		outcome, err := svc.Receive(context.Background(), body, sig)
		assert.Equal(t, WebhookRejected, outcome)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	}
	assert.Empty(t, store.orders)
	assert.Zero(t, store.writes)
}

func TestReceiveSignatureOverDifferentBody(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{WebhookSecret: testSecret})
	signed := webhookBody(EventOrderCreated, "7003", "pending", nil)
	tampered := webhookBody(EventOrderCreated, "7003", "paid", nil)

	outcome, _ := svc.Receive(context.Background(), tampered, crypt.Sign(testSecret, signed))
	assert.Equal(t, WebhookRejected, outcome)
	assert.Zero(t, store.writes)
}

func TestReceiveWithoutSecretFailsClosed(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{})
	body := webhookBody(EventOrderCreated, "7004", "paid", nil)

	outcome, err := svc.Receive(context.Background(), body, "")
	assert.Equal(t, WebhookRejected, outcome)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Zero(t, store.writes)
}

func TestReceiveUnsignedAllowedExplicitly(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{AllowUnsignedWebhooks: true})
	body := webhookBody(EventOrderCreated, "7005", "paid", nil)

	outcome, err := svc.Receive(context.Background(), body, "")
	require.NoError(t, err)
	assert.Equal(t, WebhookProcessed, outcome)
	assert.Len(t, store.orders, 1)
}

func TestReceiveMalformedBody(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{WebhookSecret: testSecret})
	body := []byte(`{"meta":`)

	outcome, err := svc.Receive(context.Background(), body, crypt.Sign(testSecret, body))
	assert.Equal(t, WebhookFailed, outcome)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, store.writes)
}

func TestReceiveUnknownProductFails(t *testing.T) {
	svc, store := newTestWebhookService(t, config.Payments{WebhookSecret: testSecret})
	body := []byte(`{"meta":{"event_name":"order_created","custom_data":{"product_slug":"ghost"}},` +
		`"data":{"id":"7006","attributes":{"status":"paid","total":100}}}`)

	outcome, err := svc.Receive(context.Background(), body, crypt.Sign(testSecret, body))
	assert.Equal(t, WebhookFailed, outcome)
	assert.True(t, apperr.Is(err, apperr.KindUnrecoverable))
	assert.Equal(t, 500, apperr.Status(err))
	assert.Zero(t, store.writes)
}

func TestWebhookOutcomeString(t *testing.T) {
	assert.Equal(t, "processed", WebhookProcessed.String())
	assert.Equal(t, "rejected", WebhookRejected.String())
	assert.Equal(t, "failed", WebhookFailed.String())
}
