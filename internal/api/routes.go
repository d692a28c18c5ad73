// Package api is the gateway's HTTP surface: the order status lookup, the
// order checkout, pass-through routes to each backend service, health and
// metrics.
package api

import (
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/logging"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Routes is what every Register*Routes function needs besides its backend.
type Routes struct {
	Mux      *http.ServeMux
	Logger   *zap.Logger
	Observer resilience.RejectionObserver
}

// handle registers h under pattern, wrapped in a per-client rate limiter
// (when limit is set) and an otel span named name.
func (rt Routes) handle(pattern, name string, limit resilience.Limit, h http.HandlerFunc) {
	var handler http.Handler = h
	if limit.Requests > 0 {
		handler = resilience.NewRateLimiter(limit).Middleware(name, rt.logger(), rt.Observer, handler)
	}
	rt.Mux.Handle(pattern, otelhttp.NewHandler(handler, name))
}

func (rt Routes) logger() *zap.Logger {
	if rt.Logger == nil {
		return zap.NewNop()
	}
	return rt.Logger
}

// Handler is the mux wrapped in CORS and request logging.
func (rt Routes) Handler() http.Handler {
	return withCORS(logging.Middleware(rt.logger(), rt.Mux))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simple permissive CORS for the browser UI
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
