package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morgaesis/wishapp/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(s store.Store, prefixes []string) *Router {
	logger := discardLogger()
	return NewRouter(&RouterConfig{
		Handlers:      NewHandlers(s, logger),
		StagePrefixes: prefixes,
		Logger:        logger,
	})
}

func TestCleanPath(t *testing.T) {
	prefixes := []string{"/prod"}
	tests := []struct {
		in   string
		want string
	}{
		{"/prod/wishlists", "/wishlists"},
		{"/prod/wishlists/", "/wishlists"},
		{"/prod", "/"},
		{"/prod/", "/"},
		{"/production/wishlists", "/production/wishlists"},
		{"/wishlists/abc/", "/wishlists/abc"},
		{"wishlists", "/wishlists"},
		{"", "/"},
		{"/", "/"},
		{"/prod/prod/health", "/prod/health"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.in, prefixes))
		})
	}
}

func TestNewRouterDefaultsStagePrefix(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)
	resp := r.Serve(context.Background(), Request{Method: http.MethodGet, Path: "/prod/health"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, string(resp.Body))
}

func TestNewRouterEmptyPrefixesStripNothing(t *testing.T) {
	r := newTestRouter(store.NewMemory(), []string{})
	resp := r.Serve(context.Background(), Request{Method: http.MethodGet, Path: "/prod/health"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewRouterNormalizesPrefixes(t *testing.T) {
	r := newTestRouter(store.NewMemory(), []string{" staging/ ", ""})
	resp := r.Serve(context.Background(), Request{Method: http.MethodGet, Path: "/staging/health"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterRouteTable(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)

	var got []string
	for _, route := range r.Routes() {
		got = append(got, route.Method+" "+route.Pattern)
	}
	want := []string{
		"GET /health",
		"GET /wishlists",
		"POST /wishlists",
		"PUT /wishlists",
		"DELETE /wishlists",
		"GET /wishlist",
		"POST /wishlist",
		"PUT /wishlist",
		"DELETE /wishlist",
		"GET /wishlists/{id}",
	}
	assert.Equal(t, want, got)
}

func TestRouterDispatchErrors(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"unknown method", http.MethodPatch, "/wishlists", http.StatusMethodNotAllowed, `{"error":"method PATCH not allowed"}`},
		{"known method wrong path", http.MethodPost, "/wishlists/abc", http.StatusMethodNotAllowed, `{"error":"method POST not allowed"}`},
		{"post to health", http.MethodPost, "/health", http.StatusMethodNotAllowed, `{"error":"method POST not allowed"}`},
		{"unknown path", http.MethodGet, "/nothing", http.StatusNotFound, `{"error":"no route for /nothing"}`},
		{"too deep", http.MethodGet, "/wishlists/a/b", http.StatusNotFound, `{"error":"no route for /wishlists/a/b"}`},
		{"root", http.MethodGet, "/prod", http.StatusNotFound, `{"error":"no route for /"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Serve(context.Background(), Request{Method: tt.method, Path: tt.path})
			require.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, contentTypeJSON, resp.Headers["Content-Type"])
			assert.JSONEq(t, tt.body, string(resp.Body))
		})
	}
}

func TestRouterMethodIsCaseInsensitive(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)
	resp := r.Serve(context.Background(), Request{Method: "get", Path: "/wishlists"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(resp.Body))
}

func TestRouterCapturesID(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)

	route, params, err := r.match(http.MethodGet, "/wishlists/abc-123")
	require.NoError(t, err)
	assert.Equal(t, "/wishlists/{id}", route.Pattern)
	assert.Equal(t, map[string]string{"id": "abc-123"}, params)
}

func TestRouterPattern(t *testing.T) {
	r := newTestRouter(store.NewMemory(), nil)

	assert.Equal(t, "/wishlists/{id}", r.Pattern("get", "/prod/wishlists/abc/"))
	assert.Equal(t, "/wishlist", r.Pattern(http.MethodDelete, "/wishlist"))
	assert.Equal(t, "", r.Pattern(http.MethodPost, "/health"))
	assert.Equal(t, "", r.Pattern(http.MethodGet, "/unknown"))
}
