package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMiddlewareAndNames(t *testing.T) {
	r := New()
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Patch("/orders/{id}/status", "admin.orders.status", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/orders/4/status", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"api", "admin"}, order)

	url, err := r.URL("admin.orders.status", map[string]string{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, "/api/admin/orders/4/status", url)

	_, err = r.URL("admin.orders.status", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	g := r.Group("/api")
	g.Post("/products", "products.store", func(http.ResponseWriter, *http.Request) {})
	g.Get("/products", "products.index", func(http.ResponseWriter, *http.Request) {})
	g.Delete("/posts/{id}", "", func(http.ResponseWriter, *http.Request) {})

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, Route{Method: http.MethodDelete, Path: "/api/posts/{id}"}, routes[0])
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, "products.store", routes[2].Name)
}
