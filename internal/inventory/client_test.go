package inventory

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

func fakeInventory(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ao dai","price":350000,"stock":4},{"id":2,"name":"Non la","price":45000.5,"stock":0}]`))
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"Ao dai","price":350000,"stock":4}`))
	})
	mux.HandleFunc("POST /check", func(w http.ResponseWriter, r *http.Request) {
		var lines []map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lines))
		if lines[0]["quantity"] <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"quantity must be positive"}`))
			return
		}
		if lines[0]["quantity"] > 4 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"all_available":false,"items":[{"product_id":1,"available":false,"message":"not enough stock"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"all_available":true,"items":[{"product_id":1,"available":true,"current_stock":4}]}`))
	})
	mux.HandleFunc("POST /update", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"transaction_id":"TX-1","items":[{"product_id":1,"success":true,"prev_stock":4,"new_stock":2}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(upstream.New(ServiceName, srv.URL))
}

func TestCatalogue(t *testing.T) {
	c := fakeInventory(t)

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("45000.5")))

	p, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ao dai", p.Name)

	_, err = c.GetProduct(context.Background(), 7)
	assert.ErrorIs(t, err, upstream.ErrNotFound)
}

func TestCheckStock(t *testing.T) {
	c := fakeInventory(t)

	ok, err := c.CheckStock(context.Background(), []domain.OrderItem{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, ok.AllAvailable)

	short, err := c.CheckStock(context.Background(), []domain.OrderItem{{ProductID: 1, Quantity: 9}})
	require.NoError(t, err)
	assert.False(t, short.AllAvailable)
	assert.Equal(t, "not enough stock", short.Items[0].Message)
}

func TestCheckStockRejectedRequest(t *testing.T) {
	c := fakeInventory(t)

	_, err := c.CheckStock(context.Background(), []domain.OrderItem{{ProductID: 1, Quantity: 0}})
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "quantity must be positive", se.Body)
}

func TestUpdateStock(t *testing.T) {
	upd, err := fakeInventory(t).UpdateStock(context.Background(), []domain.OrderItem{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, "TX-1", upd.TransactionID)
	assert.Equal(t, 2, upd.Items[0].NewStock)
}
