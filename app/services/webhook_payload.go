package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated  = "order_created"
	EventOrderRefunded = "order_refunded"
)

// WebhookPayload is the provider's JSON:API style webhook body.
type WebhookPayload struct {
	Meta struct {
		EventName  string     `json:"event_name"`
		CustomData CustomData `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         FlexString      `json:"id"`
		Attributes OrderAttributes `json:"attributes"`
	} `json:"data"`
}

// CustomData is what the checkout attached to the order.
type CustomData struct {
	ProductSlug string     `json:"product_slug"`
	VariantID   FlexString `json:"variant_id"`
}

type OrderAttributes struct {
	OrderNumber   FlexString `json:"order_number"`
	Status        string     `json:"status"`
	Total         int64      `json:"total"` // minor units
	Currency      string     `json:"currency"`
	CustomerID    FlexString `json:"customer_id"`
	CustomerEmail string     `json:"user_email"`
	UserName      string     `json:"user_name"`
}

// UnmarshalJSON accepts both customer_email and the provider's user_email.
func (a *OrderAttributes) UnmarshalJSON(b []byte) error {
	type plain OrderAttributes
	var aux struct {
		plain
		CustomerEmail string `json:"customer_email"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = OrderAttributes(aux.plain)
	if a.CustomerEmail == "" {
		a.CustomerEmail = aux.CustomerEmail
	}
	return nil
}

// TotalAmount converts the minor-unit total to a decimal amount.
func (a OrderAttributes) TotalAmount() decimal.Decimal {
	return decimal.New(a.Total, -2)
}

// FlexString decodes a JSON string or number into a string. The provider
// sends ids as strings in some places and integers in others.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Uint parses the value as a positive id; ok is false otherwise.
func (f FlexString) Uint() (uint, bool) {
	n, err := strconv.ParseUint(string(f), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
