package bdd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// backends is an in-memory stand-in for the payment, shipping and inventory
// services, reset per scenario.
type backends struct {
	mu sync.Mutex

	payments  map[string]map[string]any
	shipments map[string]map[string]any
	stock     map[int]int
	prices    map[int]int
	names     map[int]string
	refunds   map[string]string
	nextID    int

	rejectShipments bool
	rejectStockSync bool
}

func newBackends() *backends {
	return &backends{
		payments:  make(map[string]map[string]any),
		shipments: make(map[string]map[string]any),
		stock:     make(map[int]int),
		prices:    make(map[int]int),
		names:     make(map[int]string),
		refunds:   make(map[string]string),
		nextID:    100,
	}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backends) paymentMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, map[string]any{"status": "ok", "service": "payment"})
	})
	mux.HandleFunc("GET /payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		p, ok := b.payments[r.PathValue("id")]
		if !ok {
			reply(w, http.StatusNotFound, map[string]any{"error": "payment not found"})
			return
		}
		reply(w, http.StatusOK, p)
	})
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reply(w, http.StatusBadRequest, map[string]any{"error": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		id := fmt.Sprintf("PAY-%d", b.nextID)
		p := map[string]any{
			"id":             id,
			"amount":         req["amount"],
			"status":         "completed",
			"payment_method": req["payment_method"],
			"customer_id":    req["customer_id"],
		}
		b.payments[id] = p
		reply(w, http.StatusCreated, p)
	})
	mux.HandleFunc("POST /payments/{id}/refund", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		p, ok := b.payments[id]
		if !ok {
			reply(w, http.StatusNotFound, map[string]any{"error": "payment not found"})
			return
		}
		p["status"] = "refunded"
		b.refunds[id] = req.Reason
		reply(w, http.StatusOK, map[string]any{"id": id, "status": "refunded", "refund_reason": req.Reason})
	})
	return mux
}

func (b *backends) shippingMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /shipping/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		s, ok := b.shipments[r.PathValue("id")]
		if !ok {
			reply(w, http.StatusNotFound, map[string]any{"error": "shipment not found"})
			return
		}
		reply(w, http.StatusOK, s)
	})
	mux.HandleFunc("POST /shipping", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.rejectShipments {
			reply(w, http.StatusInternalServerError, map[string]any{"error": "carrier unavailable"})
			return
		}
		b.nextID++
		id := fmt.Sprintf("SHP-%d", b.nextID)
		s := map[string]any{"id": id, "status": "processing", "payment_id": req["payment_id"]}
		b.shipments[id] = s
		reply(w, http.StatusCreated, s)
	})
	return mux
}

type stockReq struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (b *backends) inventoryMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]map[string]any, 0, len(b.stock))
		for id, n := range b.stock {
			out = append(out, map[string]any{"id": id, "name": b.names[id], "price": b.prices[id], "stock": n})
		}
		reply(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /check", func(w http.ResponseWriter, r *http.Request) {
		var items []stockReq
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			reply(w, http.StatusBadRequest, map[string]any{"error": "bad body"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		all := true
		lines := make([]map[string]any, 0, len(items))
		for _, it := range items {
			have, ok := b.stock[it.ProductID]
			available := ok && have >= it.Quantity
			all = all && available
			line := map[string]any{"product_id": it.ProductID, "available": available, "current_stock": have}
			if !available {
				line["message"] = fmt.Sprintf("only %d left", have)
			}
			lines = append(lines, line)
		}
		status := http.StatusOK
		if !all {
			status = http.StatusBadRequest
		}
		reply(w, status, map[string]any{"all_available": all, "items": lines})
	})
	mux.HandleFunc("POST /update", func(w http.ResponseWriter, r *http.Request) {
		var items []stockReq
		_ = json.NewDecoder(r.Body).Decode(&items)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.rejectStockSync {
			reply(w, http.StatusInternalServerError, map[string]any{"error": "stock ledger locked"})
			return
		}
		for _, it := range items {
			b.stock[it.ProductID] -= it.Quantity
		}
		reply(w, http.StatusOK, map[string]any{"transaction_id": "TX-1", "items": []any{}})
	})
	return mux
}
