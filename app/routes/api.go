package routes

import (
	"net/http"

	"github.com/shashiranjanraj/liftstore/app/controllers"
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
	"github.com/shashiranjanraj/liftstore/pkg/middleware"
	"github.com/shashiranjanraj/liftstore/pkg/rbac"
	"github.com/shashiranjanraj/liftstore/pkg/router"
)

// Controllers is everything RegisterAPI mounts. AdminFeed and LoginLimit
// may be nil.
type Controllers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Posts     *controllers.PostController
	Offerings *controllers.OfferingController
	Users     *controllers.UserController
	Orders    *controllers.OrderController
	Checkout  *controllers.CheckoutController
	Webhooks  *controllers.WebhookController

	AdminFeed  http.Handler
	LoginLimit router.Middleware
}

func RegisterAPI(r *router.Router, c Controllers) {
	h := ctx.Wrap
	api := r.Group("/api")

	// Public site
	api.Get("/posts", "posts.index", h(c.Posts.PublicIndex))
	api.Get("/posts/{slug}", "posts.show", h(c.Posts.PublicShow))
	api.Get("/services", "services.index", h(c.Offerings.PublicIndex))
	api.Get("/services/{slug}", "services.show", h(c.Offerings.PublicShow))
	api.Get("/products", "products.index", h(c.Products.PublicIndex))
	api.Get("/products/{slug}", "products.show", h(c.Products.PublicShow))
	api.Get("/categories", "products.categories", h(c.Products.Categories))
	api.Post("/checkout", "checkout.store", h(c.Checkout.Store))
	api.Post("/webhooks/payments", "webhooks.payments", h(c.Webhooks.Payments))

	var loginMW []router.Middleware
	if c.LoginLimit != nil {
		loginMW = append(loginMW, c.LoginLimit)
	}
	api.Post("/auth/login", "auth.login", h(c.Auth.Login), loginMW...)
	api.Get("/auth/me", "auth.me", h(c.Auth.Me), middleware.AuthMiddleware)

	// Back office
	admin := api.Group("/admin", middleware.AuthMiddleware, rbac.HasRole(models.RoleAdmin, models.RoleEditor))

	admin.Get("/products", "admin.products.index", h(c.Products.Index))
	admin.Post("/products", "admin.products.store", h(c.Products.Store))
	admin.Get("/products/{id}", "admin.products.show", h(c.Products.Show))
	admin.Put("/products/{id}", "admin.products.update", h(c.Products.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", h(c.Products.Destroy))
	admin.Post("/products/{id}/variants/generate", "admin.variants.generate", h(c.Products.GenerateVariants))
	admin.Patch("/variants/{id}", "admin.variants.update", h(c.Products.UpdateVariant))
	admin.Delete("/variants/{id}", "admin.variants.destroy", h(c.Products.DestroyVariant))
	admin.Post("/products/{id}/image", "admin.products.image", h(c.Products.UploadImage))

	admin.Get("/posts", "admin.posts.index", h(c.Posts.Index))
	admin.Post("/posts", "admin.posts.store", h(c.Posts.Store))
	admin.Get("/posts/{id}", "admin.posts.show", h(c.Posts.Show))
	admin.Put("/posts/{id}", "admin.posts.update", h(c.Posts.Update))
	admin.Delete("/posts/{id}", "admin.posts.destroy", h(c.Posts.Destroy))

	admin.Get("/services", "admin.services.index", h(c.Offerings.Index))
	admin.Post("/services", "admin.services.store", h(c.Offerings.Store))
	admin.Get("/services/{id}", "admin.services.show", h(c.Offerings.Show))
	admin.Put("/services/{id}", "admin.services.update", h(c.Offerings.Update))
	admin.Delete("/services/{id}", "admin.services.destroy", h(c.Offerings.Destroy))

	admin.Get("/orders", "admin.orders.index", h(c.Orders.Index))
	admin.Get("/orders/{id}", "admin.orders.show", h(c.Orders.Show))
	admin.Patch("/orders/{id}/status", "admin.orders.status", h(c.Orders.UpdateStatus))

	if c.AdminFeed != nil {
		admin.Get("/ws", "admin.ws", c.AdminFeed.ServeHTTP)
	}

	users := admin.Group("/users", rbac.HasRole(models.RoleAdmin))
	users.Get("", "admin.users.index", h(c.Users.Index))
	users.Post("", "admin.users.store", h(c.Users.Store))
	users.Get("/{id}", "admin.users.show", h(c.Users.Show))
	users.Put("/{id}", "admin.users.update", h(c.Users.Update))
	users.Delete("/{id}", "admin.users.destroy", h(c.Users.Destroy))
}
