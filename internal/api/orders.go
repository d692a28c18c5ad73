package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"go.uber.org/zap"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error)
}

// RegisterOrdersRoutes wires POST /api/orders.
func RegisterOrdersRoutes(rt Routes, placer OrderPlacer) {
	rt.handle("POST /api/orders", "orders-create", resilience.PerMinute(5), func(w http.ResponseWriter, r *http.Request) {
		var req domain.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
			return
		}
		conf, err := placer.PlaceOrder(r.Context(), req)
		if err != nil {
			rt.logger().Warn("[orders] checkout failed", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, conf)
	})
}
