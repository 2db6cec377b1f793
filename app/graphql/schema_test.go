package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	gql "github.com/shashiranjanraj/liftstore/pkg/graphql"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog struct {
	products  []models.Product
	lastLimit int
}

func (c *catalog) PublishedProducts(_ context.Context, _, _ string, _, limit int) (services.ProductPage, error) {
	c.lastLimit = limit
	return services.ProductPage{Items: c.products}, nil
}

func (c *catalog) PublishedProduct(_ context.Context, slug string) (*models.Product, error) {
	for i := range c.products {
		if c.products[i].Slug == slug {
			return &c.products[i], nil
		}
	}
	return nil, apperr.NotFound("product")
}

type posts struct{ items []models.Post }

func (p posts) Published(context.Context, int, int) ([]models.Post, orm.Pagination, error) {
	return p.items, orm.Pagination{}, nil
}

func (p posts) PublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	for i := range p.items {
		if p.items[i].Slug == slug {
			return &p.items[i], nil
		}
	}
	return nil, apperr.NotFound("post")
}

type offerings struct{}

func (offerings) Published(context.Context, int, int) ([]models.ServiceOffering, orm.Pagination, error) {
	return []models.ServiceOffering{{Title: "Load testing", Slug: "load-testing"}}, orm.Pagination{}, nil
}

func strPtr(s string) *string { return &s }

func newServer(t *testing.T) (*httptest.Server, *catalog) {
	t.Helper()
	p := models.Product{Name: "Spreader Bar", Slug: "spreader-bar", BasePrice: decimal.RequireFromString("125.5")}
	p.ID = 4
	v := models.ProductVariant{SKU: "SB-5", Capacity: strPtr("5kg"), Price: decimal.RequireFromString("130")}
	v.ID = 9
	p.Variants = []models.ProductVariant{v}

	c := &catalog{products: []models.Product{p}}
	schema, err := NewSchema(Sources{
		Products:  c,
		Posts:     posts{items: []models.Post{{Title: "Rigging 101", Slug: "rigging-101"}}},
		Offerings: offerings{},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(gql.Handler(schema))
	t.Cleanup(srv.Close)
	return srv, c
}

func query(t *testing.T, url, q string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": q})
	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Nil(t, out["errors"])
	return out["data"].(map[string]any)
}

func TestProductWithVariants(t *testing.T) {
	srv, _ := newServer(t)
	data := query(t, srv.URL, `{ product(slug: "spreader-bar") { id name price variants { id sku capacity length price } } }`)

	product := data["product"].(map[string]any)
	assert.EqualValues(t, 4, product["id"])
	assert.Equal(t, "125.50", product["price"])

	variant := product["variants"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 9, variant["id"])
	assert.Equal(t, "SB-5", variant["sku"])
	assert.Equal(t, "5kg", variant["capacity"])
	assert.Nil(t, variant["length"])
	assert.Equal(t, "130.00", variant["price"])
}

func TestMissingProductIsNull(t *testing.T) {
	srv, _ := newServer(t)
	data := query(t, srv.URL, `{ product(slug: "nope") { id } }`)
	assert.Nil(t, data["product"])
}

func TestListsClampLimit(t *testing.T) {
	srv, c := newServer(t)
	data := query(t, srv.URL, `{ products(limit: 5000) { slug } posts { slug } services { title } }`)
	assert.Equal(t, maxLimit, c.lastLimit)
	assert.Len(t, data["products"], 1)
	assert.Equal(t, "rigging-101", data["posts"].([]any)[0].(map[string]any)["slug"])
	assert.Equal(t, "Load testing", data["services"].([]any)[0].(map[string]any)["title"])
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	srv, _ := newServer(t)

	res, err := http.Post(srv.URL, "application/json", bytes.NewReader([]byte(`{`)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL, nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
