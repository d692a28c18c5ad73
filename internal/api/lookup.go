package api

import (
	"errors"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
)

type orderStatusResponse struct {
	domain.OrderView
	Warnings []lookup.Warning `json:"warnings"`
}

// RegisterLookupRoutes wires GET /api/order-status.
func RegisterLookupRoutes(rt Routes, coord *lookup.Coordinator) {
	rt.handle("GET /api/order-status", "order-status", resilience.PerMinute(10), func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := lookup.Request{
			OrderID:    q.Get("order_id"),
			PaymentID:  q.Get("payment_id"),
			ShippingID: q.Get("shipping_id"),
		}

		var warnings lookup.Collector
		view, err := coord.Notify(&warnings).LookupOrder(r.Context(), req)
		switch {
		case errors.Is(err, lookup.ErrNothingFound):
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":    err.Error(),
				"warnings": nonNil(warnings.Warnings()),
			})
		case err != nil:
			writeError(w, err)
		default:
			writeJSON(w, http.StatusOK, orderStatusResponse{OrderView: view, Warnings: nonNil(warnings.Warnings())})
		}
	})
}

func nonNil(ws []lookup.Warning) []lookup.Warning {
	if ws == nil {
		return []lookup.Warning{}
	}
	return ws
}
