package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(upstream.New(ServiceName, srv.URL))
}

func TestGetPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		want    domain.PaymentRecord
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"id":"PAY-1A2B3C4D","amount":500000,"status":"completed","payment_method":"credit_card","customer_id":"C1","refunded":false}`,
			want: domain.PaymentRecord{
				ID: "PAY-1A2B3C4D", Amount: decimal.NewFromInt(500000), Status: domain.PaymentCompleted,
				PaymentMethod: domain.MethodCreditCard, CustomerID: "C1",
			},
		},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"missing"}`, wantErr: ErrNotFound},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: domain.ErrMalformedRecord},
		{name: "no id", status: http.StatusOK, body: `{"status":"pending"}`, wantErr: domain.ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/payments/PAY-1A2B3C4D", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := c.GetPayment(context.Background(), "PAY-1A2B3C4D")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Amount.Equal(got.Amount))
			got.Amount = tt.want.Amount
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPaymentNotFoundStillMatchesUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	_, err := c.GetPayment(context.Background(), "PAY-0")
	assert.ErrorIs(t, err, upstream.ErrNotFound)
}

func TestCreateAndRefund(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payments":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "cod", body["payment_method"])
			assert.Equal(t, "C9", body["customer_id"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"PAY-9","status":"completed","amount":120000}`))
		case "/payments/PAY-9/refund":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "stock update failed", body["reason"])
			_, _ = w.Write([]byte(`{"id":"PAY-9","status":"refunded","refund_reason":"stock update failed"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	rec, err := c.CreatePayment(context.Background(), CreateRequest{
		Amount: decimal.NewFromInt(120000), PaymentMethod: domain.MethodCOD, CustomerID: "C9",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-9", rec.ID)

	refund, err := c.RefundPayment(context.Background(), rec.ID, "stock update failed")
	require.NoError(t, err)
	assert.Equal(t, "refunded", refund.Status)
}

func TestCreatePaymentRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"amount must be positive"}`))
	})
	_, err := c.CreatePayment(context.Background(), CreateRequest{})
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "amount must be positive", se.Body)
}
