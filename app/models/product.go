package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	Model
	Name        string          `gorm:"size:255;not null" json:"name"`
	Slug        string          `gorm:"size:191;not null;uniqueIndex" json:"slug"`
	Category    string          `gorm:"size:100;index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"base_price"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	// ProviderVariantID is the payment provider's variant that checkouts for
	// this product are opened against.
	ProviderVariantID string           `gorm:"size:64" json:"provider_variant_id,omitempty"`
	Published         bool             `gorm:"not null;default:false;index" json:"published"`
	Variants          []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// ProductVariant is one sellable capacity/length/connection combination.
// SKUs are unique per product.
type ProductVariant struct {
	Model
	ProductID          uint            `gorm:"not null;uniqueIndex:idx_variants_product_sku,priority:1" json:"product_id"`
	SKU                string          `gorm:"size:64;not null;uniqueIndex:idx_variants_product_sku,priority:2" json:"sku"`
	Capacity           *string         `gorm:"size:50" json:"capacity"`
	Length             *string         `gorm:"size:50" json:"length"`
	EndConnectionStyle *string         `gorm:"size:100" json:"end_connection_style"`
	Price              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Stock              int             `gorm:"not null;default:0" json:"stock"`
}

// Label is the human description used on order lines, e.g.
// "5kg / 2m / clearance lug". Falls back to the SKU.
func (v ProductVariant) Label() string {
	var parts []string
	for _, p := range []*string{v.Capacity, v.Length, v.EndConnectionStyle} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		return v.SKU
	}
	return strings.Join(parts, " / ")
}
