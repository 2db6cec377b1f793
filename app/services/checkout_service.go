package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/http"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shopspring/decimal"
)

type CheckoutInput struct {
	ProductSlug string `json:"product_slug" validate:"required,slug"`
	VariantID   *uint  `json:"variant_id"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"max=255"`
}

type CheckoutResult struct {
	URL string `json:"url"`
}

// jsonAPIDoc is the provider's JSON:API envelope for creating a checkout.
type jsonAPIDoc struct {
	Data jsonAPIResource `json:"data"`
}

type jsonAPIResource struct {
	Type          string                     `json:"type"`
	Attributes    checkoutAttributes         `json:"attributes"`
	Relationships map[string]jsonAPIRelation `json:"relationships"`
}

type jsonAPIRelation struct {
	Data struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"data"`
}

type checkoutAttributes struct {
	CustomPrice  int64        `json:"custom_price"`
	CheckoutData checkoutData `json:"checkout_data"`
}

type checkoutData struct {
	Email  string            `json:"email"`
	Name   string            `json:"name,omitempty"`
	Custom map[string]string `json:"custom"`
}

type checkoutResponse struct {
	Data struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

func relation(kind, id string) jsonAPIRelation {
	var r jsonAPIRelation
	r.Data.Type = kind
	r.Data.ID = id
	return r
}

// CheckoutService opens hosted checkouts at the payment provider. The
// product slug and variant id travel as custom data and come back on the
// order webhook.
type CheckoutService struct {
	cfg      config.Payments
	products *repositories.ProductRepository
}

func NewCheckoutService(cfg config.Payments, products *repositories.ProductRepository) *CheckoutService {
	return &CheckoutService{cfg: cfg, products: products}
}

func (s *CheckoutService) Create(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	product, err := s.products.FindPublishedBySlug(ctx, in.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product.ProviderVariantID == "" {
		return nil, apperr.Unprocessable("product is not available for checkout", nil)
	}

	price := product.BasePrice
	custom := map[string]string{"product_slug": product.Slug}
	if in.VariantID != nil {
		v, err := s.products.FindVariant(ctx, product.ID, *in.VariantID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.Invalid("variant_id", "The selected variant does not belong to this product.")
			}
			return nil, err
		}
		price = v.Price
		custom["variant_id"] = strconv.FormatUint(uint64(v.ID), 10)
	}

	doc := jsonAPIDoc{Data: jsonAPIResource{
		Type: "checkouts",
		Attributes: checkoutAttributes{
			CustomPrice: toMinorUnits(price),
			CheckoutData: checkoutData{
				Email:  normaliseEmail(in.Email),
				Name:   in.Name,
				Custom: custom,
			},
		},
		Relationships: map[string]jsonAPIRelation{
			"store":   relation("stores", s.cfg.StoreID),
			"variant": relation("variants", product.ProviderVariantID),
		},
	}}

	resp, err := http.Post(s.cfg.APIURL+"/v1/checkouts").
		WithContext(ctx).
		Bearer(s.cfg.APIKey).
		Header("Accept", "application/vnd.api+json").
		Header("Content-Type", "application/vnd.api+json").
		Body(doc).
		Timeout(10*time.Second).
		Retry(2, 300*time.Millisecond).
		Send()
	if err == nil {
		err = resp.Throw()
	}
	if err != nil {
		var se *http.StatusError
		if errors.As(err, &se) {
			logger.WithCtx(ctx).Error("checkout: provider rejected request", "status", se.StatusCode, "body", se.Body)
		}
		return nil, apperr.Upstream(err)
	}

	var out checkoutResponse
	if err := resp.JSON(&out); err != nil || out.Data.Attributes.URL == "" {
		return nil, apperr.Upstream(errors.New("checkout: provider response has no url"))
	}
	return &CheckoutResult{URL: out.Data.Attributes.URL}, nil
}

// toMinorUnits converts a major-unit price to cents, rounding half away from
// zero.
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
