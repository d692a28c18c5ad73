package bdd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/cucumber/godog"
)

func (w *GatewayWorld) registerBackendSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a payment "([^"]+)" with status "([^"]+)" and amount (\d+)$`, w.seedPayment)
	sc.Step(`^a shipment "([^"]+)" with status "([^"]+)"$`, w.seedShipment)
	sc.Step(`^the (payment|shipping|inventory) service is unreachable$`, w.takeDown)
}

func (w *GatewayWorld) registerLookupSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I look up order "([^"]*)" with payment "([^"]*)" and shipping "([^"]*)"$`, w.lookUp)
	sc.Step(`^I look up payment "([^"]+)" (\d+) times$`, w.lookUpRepeatedly)
	sc.Step(`^the response status is (\d+)$`, w.assertStatus)
	sc.Step(`^the last response status is (\d+)$`, w.assertStatus)
	sc.Step(`^the order id is "([^"]+)"$`, w.assertOrderID)
	sc.Step(`^the (payment|shipping) id is "([^"]+)"$`, w.assertSectionField("id"))
	sc.Step(`^the (payment|shipping) status is "([^"]+)"$`, w.assertSectionField("status"))
	sc.Step(`^there are no warnings$`, w.assertNoWarnings)
	sc.Step(`^there is a warning for the (payment|shipping) leg saying "([^"]+)"$`, w.assertWarning)
	sc.Step(`^the error is "([^"]+)"$`, w.assertError)
}

func (w *GatewayWorld) seedPayment(id, status string, amount int) error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	w.backends.payments[id] = map[string]any{"id": id, "status": status, "amount": amount, "payment_method": "cod"}
	return nil
}

func (w *GatewayWorld) seedShipment(id, status string) error {
	w.backends.mu.Lock()
	defer w.backends.mu.Unlock()
	w.backends.shipments[id] = map[string]any{"id": id, "status": status, "estimated_delivery": "2025-05-01T00:00:00"}
	return nil
}

func (w *GatewayWorld) takeDown(service string) error {
	switch service {
	case "payment":
		w.paySrv.Close()
	case "shipping":
		w.shipSrv.Close()
	default:
		w.invSrv.Close()
	}
	return nil
}

func (w *GatewayWorld) lookUp(orderID, paymentID, shippingID string) error {
	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("payment_id", paymentID)
	q.Set("shipping_id", shippingID)
	req, err := http.NewRequest(http.MethodGet, w.gateway.URL+"/api/order-status?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return w.do(req)
}

func (w *GatewayWorld) lookUpRepeatedly(paymentID string, times int) error {
	for i := 0; i < times; i++ {
		if err := w.lookUp("", paymentID, ""); err != nil {
			return err
		}
	}
	return nil
}

func (w *GatewayWorld) assertStatus(want int) error {
	if w.httpStatus != want {
		return fmt.Errorf("expected status %d, got %d (%v)", want, w.httpStatus, w.httpJSON)
	}
	return nil
}

func (w *GatewayWorld) assertOrderID(want string) error {
	if got := w.httpJSON["order_id"]; got != want {
		return fmt.Errorf("expected order_id %q, got %v", want, got)
	}
	return nil
}

func (w *GatewayWorld) assertSectionField(field string) func(section, want string) error {
	return func(section, want string) error {
		m, err := w.section(section)
		if err != nil {
			return err
		}
		if got := m[field]; got != want {
			return fmt.Errorf("expected %s.%s %q, got %v", section, field, want, got)
		}
		return nil
	}
}

func (w *GatewayWorld) warnings() []map[string]any {
	raw, _ := w.httpJSON["warnings"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func (w *GatewayWorld) assertNoWarnings() error {
	if ws := w.warnings(); len(ws) != 0 {
		return fmt.Errorf("expected no warnings, got %v", ws)
	}
	return nil
}

func (w *GatewayWorld) assertWarning(leg, message string) error {
	for _, warn := range w.warnings() {
		if warn["leg"] == leg && warn["message"] == message {
			return nil
		}
	}
	return fmt.Errorf("no %s warning %q in %v", leg, message, w.warnings())
}

func (w *GatewayWorld) assertError(want string) error {
	if got := w.httpJSON["error"]; got != want {
		return fmt.Errorf("expected error %q, got %v", want, got)
	}
	return nil
}
