// Package kernel assembles the HTTP handler: global middleware, the
// operational endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/liftstore/app/controllers"
	"github.com/shashiranjanraj/liftstore/app/routes"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
	"github.com/shashiranjanraj/liftstore/pkg/middleware"
	"github.com/shashiranjanraj/liftstore/pkg/reqid"
	"github.com/shashiranjanraj/liftstore/pkg/response"
	"github.com/shashiranjanraj/liftstore/pkg/router"
)

type Options struct {
	API routes.Controllers

	// GraphQL serves /graphql when set.
	GraphQL http.Handler
	// Files serves the local upload disk under /storage when set.
	Files http.Handler
	// Limiter applies to every request when set.
	Limiter *middleware.Limiter
	// Health backs GET /healthz.
	Health func(ctx context.Context) error
}

// NewHTTPKernel builds the router. Middleware order, outermost first:
// metrics, recovery, request id, request logger, CORS, rate limit.
func NewHTTPKernel(o Options) *router.Router {
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.CORSFromConfig()),
	)
	if o.Limiter != nil {
		r.Use(o.Limiter.Middleware)
	}

	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", healthHandler(o.Health))

	if o.GraphQL != nil {
		r.Handle(http.MethodGet, "/graphql", "graphql", o.GraphQL)
		r.Handle(http.MethodPost, "/graphql", "graphql.post", o.GraphQL)
	}
	if o.Files != nil {
		r.Handle(http.MethodGet, "/storage/*", "storage", http.StripPrefix("/storage", noListing(o.Files)))
	}

	routes.RegisterAPI(r, o.API)
	return r
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RouteTable builds the kernel around inert controllers so the route list
// can be printed without a database or Redis.
func RouteTable() []router.Route {
	inert := http.NotFoundHandler()
	r := NewHTTPKernel(Options{
		API: routes.Controllers{
			Auth:      &controllers.AuthController{},
			Products:  &controllers.ProductController{},
			Posts:     &controllers.PostController{},
			Offerings: &controllers.OfferingController{},
			Users:     &controllers.UserController{},
			Orders:    &controllers.OrderController{},
			Checkout:  &controllers.CheckoutController{},
			Webhooks:  &controllers.WebhookController{},
			AdminFeed: inert,
		},
		GraphQL: inert,
		Files:   inert,
	})
	return r.Routes()
}
