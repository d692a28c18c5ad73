package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/order"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps gateway errors onto status codes and an {"error": ...} body.
func writeError(w http.ResponseWriter, err error) {
	var (
		stockErr    *order.StockValidationError
		unavailable *upstream.UnavailableError
		statusErr   *upstream.StatusError
	)
	switch {
	case errors.Is(err, lookup.ErrNoIdentifiers), errors.Is(err, domain.ErrInvalidOrder):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.Is(err, lookup.ErrNothingFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": stockErr.Error(), "items": stockErr.Check.Items})
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "cannot reach " + unavailable.Service + " service"})
	case errors.As(err, &statusErr):
		msg := statusErr.Body
		if msg == "" {
			msg = http.StatusText(statusErr.Code)
		}
		writeJSON(w, statusErr.Code, map[string]any{"error": msg})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

// writeUpstream relays a backend answer unchanged.
func writeUpstream(w http.ResponseWriter, resp *upstream.Response) {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
