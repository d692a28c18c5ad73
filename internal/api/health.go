package api

import (
	"context"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type HealthChecker interface {
	Check(ctx context.Context) domain.HealthReport
}

// RegisterHealthRoutes wires GET /health and, when metrics is non-nil, GET /metrics.
func RegisterHealthRoutes(rt Routes, checker HealthChecker, metrics http.Handler) {
	rt.Mux.Handle("GET /health", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Check(r.Context()))
	}), "health"))
	if metrics != nil {
		rt.Mux.Handle("GET /metrics", metrics)
	}
}
