package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	appctx "github.com/shashiranjanraj/liftstore/pkg/ctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h appctx.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestSuccessEnvelope(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.Success(map[string]any{"sku": "MRSB-5-CL"})
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(200), body["status"])
	assert.Equal(t, "MRSB-5-CL", body["data"].(map[string]any)["sku"])
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"required,email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"buyer@example.com"}`))
	rec := serve(func(c *appctx.Context) {
		var in input
		if assert.True(t, c.BindJSON(&in)) {
			c.Success(in.Email)
		}
	}, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":""}`))
	rec = serve(func(c *appctx.Context) {
		var in input
		assert.False(t, c.BindJSON(&in))
	}, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	rec = serve(func(c *appctx.Context) {
		var in input
		assert.False(t, c.BindJSON(&in))
	}, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailHidesCause(t *testing.T) {
	rec := serve(func(c *appctx.Context) {
		c.Fail(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")

	rec = serve(func(c *appctx.Context) {
		c.Fail(apperr.NotFound("product"))
	}, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestParamID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamID("id")
		if !ok {
			return
		}
		c.Success(id)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/12", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPage(t *testing.T) {
	serve(func(c *appctx.Context) {
		p, l := c.Page()
		assert.Equal(t, 2, p)
		assert.Equal(t, 5, l)
	}, httptest.NewRequest(http.MethodGet, "/?page=2&limit=5", nil))
}
