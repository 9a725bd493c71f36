package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/morgaesis/wishapp/internal/errs"
)

// DefaultStagePrefixes are stripped from request paths when RouterConfig
// leaves StagePrefixes nil.
var DefaultStagePrefixes = []string{"/prod"}

// RouterConfig alters the behavior of the router.
type RouterConfig struct {
	// Handlers serves the routes. Required.
	Handlers *Handlers

	// StagePrefixes are leading path segments injected by a gateway, such
	// as "/prod". A prefix is only stripped when it is a whole segment.
	// nil means DefaultStagePrefixes; an empty slice strips nothing.
	StagePrefixes []string

	// Logger receives dispatch errors. The default is slog.Default().
	Logger *slog.Logger
}

func applyDefaults(conf *RouterConfig) *RouterConfig {
	if conf.StagePrefixes == nil {
		conf.StagePrefixes = DefaultStagePrefixes
	}
	if conf.Logger == nil {
		conf.Logger = slog.Default()
	}
	return conf
}

// Route binds a method and path pattern to a handler. Pattern segments of the
// form {name} match any single non-empty segment.
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc

	segments []string
}

// Router dispatches requests through an ordered route table.
type Router struct {
	routes   []Route
	methods  map[string]bool
	prefixes []string
	logger   *slog.Logger
}

// NewRouter builds the wishlist route table.
func NewRouter(conf *RouterConfig) *Router {
	conf = applyDefaults(conf)
	h := conf.Handlers

	r := &Router{
		methods:  make(map[string]bool),
		prefixes: normalizePrefixes(conf.StagePrefixes),
		logger:   conf.Logger,
	}

	r.handle(http.MethodGet, "/health", h.Health)
	for _, collection := range []string{"/wishlists", "/wishlist"} {
		r.handle(http.MethodGet, collection, h.List)
		r.handle(http.MethodPost, collection, h.Create)
		r.handle(http.MethodPut, collection, h.Replace)
		r.handle(http.MethodDelete, collection, h.Delete)
	}
	r.handle(http.MethodGet, "/wishlists/{id}", h.Get)

	return r
}

func (r *Router) handle(method, pattern string, fn HandlerFunc) {
	r.routes = append(r.routes, Route{
		Method:   method,
		Pattern:  pattern,
		Handler:  fn,
		segments: splitPath(pattern),
	})
	r.methods[method] = true
}

// Routes returns a copy of the route table in match order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Serve dispatches req and always produces a response. Handler errors are
// rendered through the error taxonomy.
func (r *Router) Serve(ctx context.Context, req Request) Response {
	path := CleanPath(req.Path, r.prefixes)
	method := strings.ToUpper(req.Method)

	route, params, err := r.match(method, path)
	if err == nil {
		var resp Response
		resp, err = route.Handler(ctx, req, params)
		if err == nil {
			return resp
		}
	}

	status := errs.Status(err)
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed",
			"requestID", req.RequestID,
			"method", method,
			"path", path,
			"kind", errs.KindOf(err).String(),
			"error", err,
		)
	} else {
		r.logger.Debug("request rejected",
			"requestID", req.RequestID,
			"method", method,
			"path", path,
			"status", status,
			"error", err,
		)
	}
	return ErrorResponse(err)
}

// Pattern returns the pattern of the route that would serve method and the
// raw request path, or "" when none would. Transports use it as a
// low-cardinality label.
func (r *Router) Pattern(method, path string) string {
	route, _, err := r.match(strings.ToUpper(method), CleanPath(path, r.prefixes))
	if err != nil {
		return ""
	}
	return route.Pattern
}

// match finds the first route for method and path.
func (r *Router) match(method, path string) (*Route, map[string]string, error) {
	if !r.methods[method] {
		return nil, nil, errs.NewMethodNotAllowed(method)
	}

	segments := splitPath(path)
	pathMatched := false
	for i := range r.routes {
		route := &r.routes[i]
		params, ok := matchSegments(route.segments, segments)
		if !ok {
			continue
		}
		if route.Method == method {
			return route, params, nil
		}
		pathMatched = true
	}

	if pathMatched {
		return nil, nil, errs.NewMethodNotAllowed(method)
	}
	return nil, nil, errs.NewNotFound("no route for " + path)
}

// CleanPath strips a leading stage prefix and trailing slashes from path.
// The result always starts with "/".
func CleanPath(path string, prefixes []string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	for _, prefix := range prefixes {
		if path == prefix {
			path = "/"
			break
		}
		if strings.HasPrefix(path, prefix+"/") {
			path = path[len(prefix):]
			break
		}
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		path = trimmed
	} else {
		path = "/"
	}
	return path
}

func normalizePrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		out = append(out, "/"+p)
	}
	return out
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
