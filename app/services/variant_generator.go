package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VariantOptions is the raw input of one generation run. The three option
// fields are comma-separated lists as typed by a catalog editor.
type VariantOptions struct {
	Capacities       string          `json:"capacities"`
	CapacityUnit     string          `json:"capacity_unit"`
	Lengths          string          `json:"lengths"`
	LengthUnit       string          `json:"length_unit"`
	ConnectionStyles string          `json:"connection_styles"`
	BasePrice        decimal.Decimal `json:"base_price"`
	ProductSlug      string          `json:"-"`
}

// VariantSpec describes one variant to persist.
type VariantSpec struct {
	SKU                string          `json:"sku"`
	Capacity           *string         `json:"capacity"`
	Length             *string         `json:"length"`
	EndConnectionStyle *string         `json:"end_connection_style"`
	Price              decimal.Decimal `json:"price"`
	Stock              int             `json:"stock"`
}

const (
	maxPrefixLen    = 4
	maxStyleCodeLen = 3
)

// styleCodes abbreviates known end-connection styles. Keys are lower-case
// with single spaces.
var styleCodes = map[string]string{
	"clearance lug": "CL",
	"flat lug":      "FL",
	"shackle":       "SH",
	"eye":           "EY",
	"hook":          "HK",
	"swivel hook":   "SWH",
	"clevis":        "CV",
	"turnbuckle":    "TB",
	"spreader beam": "SB",
	"master link":   "ML",
	"threaded end":  "TE",
}

// CountVariants is the number of variants GenerateVariants would return for
// opts, without building them.
func CountVariants(opts VariantOptions) int {
	return len(splitOptions(opts.Capacities)) *
		len(splitOptions(opts.Lengths)) *
		len(splitOptions(opts.ConnectionStyles))
}

// GenerateVariants expands the option lists into every capacity × length ×
// style combination, in that nesting order. An empty list contributes a
// single blank slot, so no options at all yields one variant whose SKU is
// the bare slug prefix. Duplicate SKUs are left for the store to reject.
func GenerateVariants(opts VariantOptions) []VariantSpec {
	capacities := splitOptions(opts.Capacities)
	lengths := splitOptions(opts.Lengths)
	styles := splitOptions(opts.ConnectionStyles)
	prefix := SKUPrefix(opts.ProductSlug)

	out := make([]VariantSpec, 0, len(capacities)*len(lengths)*len(styles))
	for _, capacity := range capacities {
		for _, length := range lengths {
			for _, style := range styles {
				parts := []string{prefix}
				if capacity != "" {
					parts = append(parts, capacity)
				}
				if length != "" {
					parts = append(parts, length)
				}
				if style != "" {
					parts = append(parts, StyleCode(style))
				}

				out = append(out, VariantSpec{
					SKU:                strings.ToUpper(strings.Join(parts, "-")),
					Capacity:           withUnit(capacity, opts.CapacityUnit),
					Length:             withUnit(length, opts.LengthUnit),
					EndConnectionStyle: optional(style),
					Price:              opts.BasePrice,
					Stock:              0,
				})
			}
		}
	}
	return out
}

// SKUPrefix takes the first letter of each hyphen segment of slug,
// upper-cased and capped at four letters: "mid-range-spreader-bars" → "MRSB".
func SKUPrefix(slug string) string {
	var b strings.Builder
	for _, seg := range strings.Split(slug, "-") {
		if seg == "" {
			continue
		}
		b.WriteString(firstRune(seg))
	}
	return truncate(strings.ToUpper(b.String()), maxPrefixLen)
}

// StyleCode abbreviates a connection style via the lookup table, or else
// from the initials of its words, capped at three letters.
func StyleCode(style string) string {
	key := strings.ToLower(strings.Join(strings.Fields(style), " "))
	if code, ok := styleCodes[key]; ok {
		return code
	}

	var b strings.Builder
	for _, word := range strings.Fields(style) {
		b.WriteString(firstRune(word))
	}
	return truncate(strings.ToUpper(b.String()), maxStyleCodeLen)
}

// splitOptions never returns an empty slice; see GenerateVariants.
func splitOptions(raw string) []string {
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func withUnit(value, unit string) *string {
	unit = strings.TrimSpace(unit)
	if value == "" || unit == "" {
		return nil
	}
	s := value + unit
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
