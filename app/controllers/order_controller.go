package controllers

import (
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Index supports ?status= and ?email= filters.
func (c *OrderController) Index(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.orders.List(x.Context(), x.Query("status"), x.Query("email"), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *OrderController) Show(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	o, err := c.orders.Find(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(o)
}

func (c *OrderController) UpdateStatus(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.StatusInput
	if !x.BindJSON(&in) {
		return
	}
	o, err := c.orders.Transition(x.Context(), id, models.OrderStatus(in.Status))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(o)
}
