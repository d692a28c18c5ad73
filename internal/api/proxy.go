package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
)

// Backend is a service the gateway relays requests to.
type Backend interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*upstream.Response, error)
}

// relay forwards r to backend at the path built from r, keeping the query
// string and JSON body, and writes the answer back unchanged.
func relay(backend Backend, method string, path func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body any
		if method != http.MethodGet {
			raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				http.Error(w, "read body", http.StatusBadRequest)
				return
			}
			if len(raw) == 0 || !json.Valid(raw) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "request body must be JSON"})
				return
			}
			body = json.RawMessage(raw)
		}
		resp, err := backend.Do(r.Context(), method, path(r), r.URL.Query(), body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeUpstream(w, resp)
	}
}

func fixed(p string) func(*http.Request) string {
	return func(*http.Request) string { return p }
}

func withID(prefix, suffix string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + url.PathEscape(r.PathValue("id")) + suffix
	}
}

// RegisterInventoryRoutes wires the product catalogue and stock update routes.
func RegisterInventoryRoutes(rt Routes, inv Backend) {
	rt.handle("GET /api/products", "products-list", resilience.PerMinute(10), relay(inv, http.MethodGet, fixed("/products")))
	rt.handle("GET /api/products/{id}", "products-get", resilience.PerMinute(20), relay(inv, http.MethodGet, withID("/products/", "")))
	rt.handle("POST /api/products", "products-create", resilience.PerMinute(5), relay(inv, http.MethodPost, fixed("/products")))
	rt.handle("POST /api/inventory/update", "inventory-update", resilience.PerMinute(5), relay(inv, http.MethodPost, fixed("/update")))
}

func RegisterPaymentRoutes(rt Routes, pay Backend) {
	rt.handle("POST /api/payments", "payments-create", resilience.PerMinute(5), relay(pay, http.MethodPost, fixed("/payments")))
	rt.handle("GET /api/payments/{id}", "payments-get", resilience.PerMinute(10), relay(pay, http.MethodGet, withID("/payments/", "")))
	rt.handle("POST /api/payments/{id}/refund", "payments-refund", resilience.PerMinute(3), relay(pay, http.MethodPost, withID("/payments/", "/refund")))
}

func RegisterShippingRoutes(rt Routes, ship Backend) {
	rt.handle("POST /api/shipping", "shipping-create", resilience.PerMinute(5), relay(ship, http.MethodPost, fixed("/shipping")))
	rt.handle("GET /api/shipping/{id}", "shipping-get", resilience.PerMinute(10), relay(ship, http.MethodGet, withID("/shipping/", "")))
	rt.handle("PUT /api/shipping/{id}/update", "shipping-update", resilience.PerMinute(5), relay(ship, http.MethodPut, withID("/shipping/", "/update")))
}
