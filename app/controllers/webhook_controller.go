package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

const (
	signatureHeader = "X-Signature"
	maxWebhookBytes = 1 << 20
)

type WebhookController struct {
	webhooks *services.WebhookService
}

func NewWebhookController(webhooks *services.WebhookService) *WebhookController {
	return &WebhookController{webhooks: webhooks}
}

// Payments handles POST /api/webhooks/payments. The signature covers the
// exact bytes received, so the body is read raw and never re-encoded.
//
//	processed → 200
//	rejected  → 401
//	failed    → 400 for a malformed body, otherwise 500 so the provider retries
func (c *WebhookController) Payments(x *ctx.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(x.W, x.R.Body, maxWebhookBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			x.Error(http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		x.Error(http.StatusBadRequest, "could not read body")
		return
	}

	outcome, err := c.webhooks.Receive(x.Context(), body, x.Header(signatureHeader))
	switch outcome {
	case services.WebhookProcessed:
		x.Success(map[string]string{"outcome": outcome.String()})
	case services.WebhookRejected:
		x.Unauthorized("invalid signature")
	default:
		if apperr.Is(err, apperr.KindValidation) {
			x.Error(http.StatusBadRequest, "malformed payload")
			return
		}
		x.Fail(err)
	}
}
