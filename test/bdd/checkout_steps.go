package bdd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

func (w *GatewayWorld) registerCheckoutSteps(sc *godog.ScenarioContext) {
	sc.Step(`^product (\d+) "([^"]+)" priced (\d+) with (\d+) in stock$`, w.seedProduct)
	sc.Step(`^the shipping service rejects new shipments$`, w.rejectShipments)
	sc.Step(`^the inventory service cannot update stock$`, w.rejectStockSync)
	sc.Step(`^customer "([^"]+)" orders (\d+) of product (\d+) paying by "([^"]+)"$`, w.placeOrder)
	sc.Step(`^product (\d+) has (\d+) in stock$`, w.assertStock)
	sc.Step(`^the created payment is refunded because "([^"]+)"$`, w.assertRefund)
	sc.Step(`^no payment is created$`, w.assertNoPayment)
	sc.Step(`^the confirmation has an order id$`, w.assertConfirmation)
}

func (w *GatewayWorld) seedProduct(id int, name string, price, stock int) error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	w.backends.names[id] = name
	w.backends.prices[id] = price
	w.backends.stock[id] = stock
	return nil
}

func (w *GatewayWorld) rejectShipments() error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	w.backends.rejectShipments = true
	return nil
}

func (w *GatewayWorld) rejectStockSync() error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	w.backends.rejectStockSync = true
	return nil
}

func (w *GatewayWorld) placeOrder(customer string, qty, productID int, method string) error {
	w.backends.mu.Lock()
	price := w.backends.prices[productID]
	w.backends.mu.Unlock()

	body, err := json.Marshal(map[string]any{
		"customer_id":      customer,
		"shipping_address": "12 Ly Thuong Kiet, Ha Noi",
		"payment_method":   method,
		"items":            []map[string]any{{"product_id": productID, "quantity": qty, "price": price}},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, w.gateway.URL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return w.do(req)
}

func (w *GatewayWorld) assertStock(productID, want int) error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	if got := w.backends.stock[productID]; got != want {
		return fmt.Errorf("expected stock %d for product %d, got %d", want, productID, got)
	}
	return nil
}

func (w *GatewayWorld) assertRefund(reason string) error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	if len(w.backends.refunds) != 1 {
		return fmt.Errorf("expected exactly one refund, got %v", w.backends.refunds)
	}
	for id, got := range w.backends.refunds {
		if got != reason {
			return fmt.Errorf("payment %s refunded with reason %q, want %q", id, got, reason)
		}
	}
	return nil
}

func (w *GatewayWorld) assertNoPayment() error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	if len(w.backends.payments) != 0 {
		return fmt.Errorf("expected no payments, got %v", w.backends.payments)
	}
	return nil
}

func (w *GatewayWorld) assertConfirmation() error {
	id, _ := w.httpJSON["order_id"].(string)
	if id == "" {
		return fmt.Errorf("confirmation has no order_id: %v", w.httpJSON)
	}
	return nil
}
