package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shipmentJSON = `{
	"id": "SHP-77AA",
	"customer_id": "C1",
	"address": "1 Le Loi, Da Nang",
	"payment_id": "PAY-1",
	"items": [{"product_id": 2, "quantity": 1}],
	"status": "shipped",
	"estimated_delivery": "2025-05-02T10:00:00",
	"delivered_at": null,
	"created_at": "2025-04-29T08:00:00",
	"status_history": [{"status": "processing", "description": "created", "created_at": "2025-04-29T08:00:00"}],
	"location_history": [{"location": "Hub", "latitude": 16.05, "longitude": 108.2, "created_at": "2025-04-30T08:00:00"}]
}`

func TestGetShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shipping/SHP-77AA" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(shipmentJSON))
	}))
	defer srv.Close()
	c := NewClient(upstream.New(ServiceName, srv.URL))

	rec, err := c.GetShipment(context.Background(), "SHP-77AA")
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentShipped, rec.Status)
	assert.Equal(t, "2025-05-02T10:00:00", rec.EstimatedDelivery)
	assert.Nil(t, rec.DeliveredAt)
	require.Len(t, rec.LocationHistory, 1)
	assert.Equal(t, "Hub", rec.LocationHistory[0].Location)

	_, err = c.GetShipment(context.Background(), "SHP-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetShipmentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(upstream.New(ServiceName, url)).GetShipment(context.Background(), "SHP-1")
	var ue *upstream.UnavailableError
	assert.ErrorAs(t, err, &ue)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCreateAndUpdateShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/shipping":
			var body CreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "PAY-1", body.PaymentID)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"SHP-1","status":"processing","estimated_delivery":"2025-05-05T00:00:00"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/shipping/SHP-1/update":
			var body UpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, domain.ShipmentDelivered, body.Status)
			_, _ = w.Write([]byte(`{"id":"SHP-1","status":"delivered","updated_at":"2025-05-05T09:00:00"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()
	c := NewClient(upstream.New(ServiceName, srv.URL))

	rec, err := c.CreateShipment(context.Background(), CreateRequest{CustomerID: "C1", Address: "x", PaymentID: "PAY-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentProcessing, rec.Status)

	upd, err := c.UpdateShipment(context.Background(), rec.ID, UpdateRequest{Status: domain.ShipmentDelivered})
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentDelivered, upd.Status)
}
