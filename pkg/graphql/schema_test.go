package graphql

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pingSchema(t *testing.T) graphql.Schema {
	t.Helper()
	s, err := NewSchema(graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ping": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"name": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Args["name"].(string); ok {
						return "pong " + n, nil
					}
					return "pong", nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return s
}

func TestHandlerPost(t *testing.T) {
	h := Handler(pingSchema(t))
	body := `{"query":"query($n: String){ ping(name: $n) }","variables":{"n":"lift"}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "pong lift", out.Data["ping"])
}

func TestHandlerGet(t *testing.T) {
	h := Handler(pingSchema(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape("{ ping }"), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ping":"pong"`)
}

func TestHandlerRejects(t *testing.T) {
	h := Handler(pingSchema(t))
	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"bad body", httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{")), http.StatusBadRequest},
		{"empty query", httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":""}`)), http.StatusBadRequest},
		{"bad variables", httptest.NewRequest(http.MethodGet, "/graphql?query=x&variables=nope", nil), http.StatusBadRequest},
		{"method", httptest.NewRequest(http.MethodDelete, "/graphql", nil), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
