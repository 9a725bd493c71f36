// Package httpapi serves the wishlist API from a standalone HTTP listener.
//
// It wraps an api.Router with chi: request ids, real client addresses, panic
// recovery, access logging, Prometheus metrics, a per-client rate limit and a
// request body cap. Everything that is not /metrics is handed to the router.
package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/morgaesis/wishapp/api"
	"github.com/morgaesis/wishapp/internal/errs"
)

// DefaultMaxBodyBytes caps request bodies when Config leaves MaxBodyBytes zero.
const DefaultMaxBodyBytes int64 = 1 << 20

// Config alters the behavior of the HTTP handler.
type Config struct {
	// Router serves API requests. Required.
	Router *api.Router

	// Logger receives access and error logs. The default is slog.Default().
	Logger *slog.Logger

	// MaxBodyBytes caps the request body. The default is DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// RateLimit is the sustained requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit float64
	// RateBurst is the burst size per client. The default is 1.
	RateBurst int

	// Metrics exposes Prometheus metrics on GET /metrics.
	Metrics bool
	// Registry holds the metrics. The default is a new registry.
	Registry *prometheus.Registry
}

func applyDefaults(conf *Config) *Config {
	if conf.Logger == nil {
		conf.Logger = slog.Default()
	}
	if conf.MaxBodyBytes <= 0 {
		conf.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if conf.RateBurst <= 0 {
		conf.RateBurst = 1
	}
	if conf.Metrics && conf.Registry == nil {
		conf.Registry = prometheus.NewRegistry()
	}
	return conf
}

// NewHandler builds the chi mux for the API.
func NewHandler(conf *Config) *chi.Mux {
	conf = applyDefaults(conf)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(requestIDHeader)
	mux.Use(accessLog(conf.Logger))
	if conf.Metrics {
		mux.Use(newMetrics(conf.Registry).middleware(conf.Router))
	}
	mux.Use(middleware.Recoverer)
	if conf.RateLimit > 0 {
		mux.Use(newLimiter(conf.RateLimit, conf.RateBurst).middleware)
	}

	if conf.Metrics {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(conf.Registry, promhttp.HandlerOpts{}))
	}
	d := &dispatcher{router: conf.Router, maxBody: conf.MaxBodyBytes}
	mux.Handle("/*", d)
	mux.NotFound(d.ServeHTTP)
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errs.NewMethodNotAllowed(r.Method))
	})
	return mux
}

type dispatcher struct {
	router  *api.Router
	maxBody int64
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, errs.NewBadRequest("request body too large"))
			return
		}
		writeError(w, errs.NewSerialization(err))
		return
	}

	resp := d.router.Serve(r.Context(), api.Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		Body:      body,
		RequestID: middleware.GetReqID(r.Context()),
	})
	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp api.Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeResponse(w, api.ErrorResponse(err))
}
