package services

import (
	"context"
	"encoding/json"

	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/crypt"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
)

// WebhookOutcome tells the HTTP layer how to acknowledge a delivery.
type WebhookOutcome int

const (
	WebhookProcessed WebhookOutcome = iota
	WebhookRejected                 // bad or missing signature
	WebhookFailed                   // verified, but processing failed
)

func (o WebhookOutcome) String() string {
	switch o {
	case WebhookProcessed:
		return "processed"
	case WebhookRejected:
		return "rejected"
	default:
		return "failed"
	}
}

type WebhookService struct {
	cfg        config.Payments
	reconciler *OrderReconciler
}

func NewWebhookService(cfg config.Payments, reconciler *OrderReconciler) *WebhookService {
	return &WebhookService{cfg: cfg, reconciler: reconciler}
}

// Verify checks the X-Signature header against the raw body. With no secret
// configured every delivery is refused unless unsigned webhooks were
// explicitly allowed.
func (s *WebhookService) Verify(body []byte, signature string) error {
	if s.cfg.SkipsSignature() {
		return nil
	}
	if s.cfg.WebhookSecret == "" {
		return apperr.Unauthorized("webhook secret not configured")
	}
	if !crypt.VerifySignature(s.cfg.WebhookSecret, body, signature) {
		return apperr.Unauthorized("invalid signature")
	}
	return nil
}

// Receive verifies, decodes and reconciles one delivery. The store is never
// touched when verification fails.
func (s *WebhookService) Receive(ctx context.Context, body []byte, signature string) (WebhookOutcome, error) {
	log := logger.WithCtx(ctx)

	if err := s.Verify(body, signature); err != nil {
		log.Warn("webhook: signature rejected", "error", err)
		metrics.WebhookEvents.WithLabelValues("unknown", WebhookRejected.String()).Inc()
		return WebhookRejected, err
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", WebhookFailed.String()).Inc()
		return WebhookFailed, apperr.Wrap(apperr.KindValidation, "malformed webhook payload", err)
	}

	event := payload.Meta.EventName
	if err := s.reconciler.Handle(ctx, event, payload, body); err != nil {
		log.Error("webhook: processing failed", "event", event, "external_order_id", payload.Data.ID, "error", err)
		metrics.WebhookEvents.WithLabelValues(eventLabel(event), WebhookFailed.String()).Inc()
		return WebhookFailed, err
	}

	metrics.WebhookEvents.WithLabelValues(eventLabel(event), WebhookProcessed.String()).Inc()
	return WebhookProcessed, nil
}

// eventLabel keeps metric cardinality bounded to the events we act on.
func eventLabel(event string) string {
	switch event {
	case EventOrderCreated, EventOrderRefunded:
		return event
	default:
		return "other"
	}
}
