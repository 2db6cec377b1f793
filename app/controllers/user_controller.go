package controllers

import (
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

// UserController manages back-office accounts. Mounted behind the admin
// role only.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (c *UserController) Index(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.users.List(x.Context(), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *UserController) Show(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	u, err := c.users.Find(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(u)
}

func (c *UserController) Store(x *ctx.Context) {
	var in services.UserInput
	if !x.BindJSON(&in) {
		return
	}
	u, err := c.users.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(u)
}

func (c *UserController) Update(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.UserInput
	if !x.BindJSON(&in) {
		return
	}
	u, err := c.users.Update(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(u)
}

func (c *UserController) Destroy(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	claims, ok := x.Claims()
	if !ok {
		x.Unauthorized()
		return
	}
	if err := c.users.Delete(x.Context(), id, claims.UserID); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}
