package kernel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/liftstore/app/controllers"
	"github.com/shashiranjanraj/liftstore/app/routes"
	"github.com/shashiranjanraj/liftstore/pkg/reqid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeholderAPI() routes.Controllers {
	return routes.Controllers{
		Auth:      &controllers.AuthController{},
		Products:  &controllers.ProductController{},
		Posts:     &controllers.PostController{},
		Offerings: &controllers.OfferingController{},
		Users:     &controllers.UserController{},
		Orders:    &controllers.OrderController{},
		Checkout:  &controllers.CheckoutController{},
		Webhooks:  &controllers.WebhookController{},
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOperationalEndpoints(t *testing.T) {
	var down error
	h := NewHTTPKernel(Options{
		API:    placeholderAPI(),
		Health: func(context.Context) error { return down },
	}).Handler()

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	down = errors.New("db gone")
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/healthz").Code)

	rec = get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "liftstore_")

	assert.Equal(t, http.StatusNotFound, get(h, "/graphql").Code)
}

func TestStorageFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products", "1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "1", "a.png"), []byte("png"), 0o644))

	h := NewHTTPKernel(Options{API: placeholderAPI(), Files: http.FileServer(http.Dir(root))}).Handler()

	rec := get(h, "/storage/products/1/a.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(h, "/storage/products/1/").Code)
}

func TestRouteTable(t *testing.T) {
	names := map[string]string{}
	for _, rt := range RouteTable() {
		names[rt.Name] = rt.Method + " " + rt.Path
	}
	assert.Equal(t, "GET /healthz", names["health"])
	assert.Equal(t, "POST /graphql", names["graphql.post"])
	assert.Equal(t, "POST /api/webhooks/payments", names["webhooks.payments"])
	assert.Contains(t, names, "admin.ws")
}
