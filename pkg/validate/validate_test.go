package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/liftstore/pkg/validate"
	"github.com/shopspring/decimal"
)

type productInput struct {
	Name        string          `json:"name"         validate:"required,min=2,max=120"`
	Slug        string          `json:"slug"         validate:"required,slug"`
	BasePrice   decimal.Decimal `json:"base_price"   validate:"required,money"`
	ImageURL    string          `json:"image_url"    validate:"nullable,url"`
	Category    string          `json:"category"     validate:"required,in=slings,spreader-bars,shackles,max=40"`
	Description *string         `json:"description"  validate:"nullable,max=10"`
}

func validProduct() productInput {
	return productInput{
		Name:      "Mid Range Spreader Bar",
		Slug:      "mid-range-spreader-bars",
		BasePrice: decimal.RequireFromString("100.50"),
		Category:  "spreader-bars",
	}
}

func TestValidInput(t *testing.T) {
	if errs := validate.Struct(validProduct()); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	for _, field := range []string{"name", "slug", "base_price", "category"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["image_url"]; ok {
		t.Error("nullable image_url should not be reported")
	}
}

func TestSlugRule(t *testing.T) {
	in := validProduct()
	for _, bad := range []string{"Mid-Range", "mid--range", "-mid", "mid range"} {
		in.Slug = bad
		if _, ok := validate.Struct(in)["slug"]; !ok {
			t.Errorf("expected slug %q to fail", bad)
		}
	}
}

func TestMoneyRule(t *testing.T) {
	in := validProduct()
	in.BasePrice = decimal.RequireFromString("-1")
	if _, ok := validate.Struct(in)["base_price"]; !ok {
		t.Error("expected negative price to fail")
	}
	in.BasePrice = decimal.RequireFromString("1.005")
	if _, ok := validate.Struct(in)["base_price"]; !ok {
		t.Error("expected three decimals to fail")
	}
	in.BasePrice = decimal.RequireFromString("19.90")
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected 19.90 to pass: %v", errs)
	}
}

func TestInRuleKeepsFollowingRule(t *testing.T) {
	in := validProduct()
	in.Category = "chains"
	if _, ok := validate.Struct(in)["category"]; !ok {
		t.Error("expected unknown category to fail")
	}
	in.Category = "shackles"
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected shackles to pass: %v", errs)
	}
}

func TestPointerFieldsAreDereferenced(t *testing.T) {
	in := validProduct()
	long := "far more than ten characters"
	in.Description = &long
	if _, ok := validate.Struct(in)["description"]; !ok {
		t.Error("expected long description to fail")
	}
	short := "ok"
	in.Description = &short
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected short description to pass: %v", errs)
	}
}

func TestURLRule(t *testing.T) {
	in := validProduct()
	in.ImageURL = "not-a-url"
	if _, ok := validate.Struct(in)["image_url"]; !ok {
		t.Error("expected invalid URL to fail")
	}
	in.ImageURL = "https://cdn.example.com/bar.png"
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected valid URL to pass: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if _, ok := validate.Struct(in{Email: "not-an-email"})["email"]; !ok {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "buyer@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}
