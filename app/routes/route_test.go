package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterCartPaths(t *testing.T) {
	router := NewRouter(RouterDeps{})

	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{"GET", "/api/cart", true},
		{"POST", "/api/cart", true},
		{"DELETE", "/api/cart", true},
		{"PUT", "/api/cart/12", true},
		{"DELETE", "/api/cart/12", true},
		{"PUT", "/api/cart/not-a-number", false},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.path, nil)
		var match mux.RouteMatch
		matched := router.Match(req, &match) && match.MatchErr == nil
		assert.Equal(t, c.want, matched, "%s %s", c.method, c.path)
	}
}

func TestRouterTopProductsBeforeDetail(t *testing.T) {
	router := NewRouter(RouterDeps{})

	req := httptest.NewRequest("GET", "/api/products/top", nil)
	var match mux.RouteMatch
	require.True(t, router.Match(req, &match))
	require.NoError(t, match.MatchErr)

	// The literal segment wins over the id-or-slug detail route.
	template, err := match.Route.GetPathTemplate()
	require.NoError(t, err)
	assert.Equal(t, "/api/products/top", template)
}
