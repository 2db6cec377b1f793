package controllers

import (
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(x *ctx.Context) {
	var in services.LoginInput
	if !x.BindJSON(&in) {
		return
	}
	res, err := c.users.Login(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(res)
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(x *ctx.Context) {
	claims, ok := x.Claims()
	if !ok {
		x.Unauthorized()
		return
	}
	user, err := c.users.Me(x.Context(), claims.UserID)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(user)
}
