package controllers

import (
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Store handles POST /api/checkout and answers with the hosted checkout URL.
func (c *CheckoutController) Store(x *ctx.Context) {
	var in services.CheckoutInput
	if !x.BindJSON(&in) {
		return
	}
	res, err := c.checkout.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(res)
}
