package bdd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/api"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/health"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/inventory"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/metrics"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/order"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/payment"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/shipping"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/cucumber/godog"
	"go.uber.org/zap/zaptest"
)

// GatewayWorld runs the real gateway handler against in-memory backends.
type GatewayWorld struct {
	t *testing.T

	backends *backends
	paySrv   *httptest.Server
	shipSrv  *httptest.Server
	invSrv   *httptest.Server
	gateway  *httptest.Server
	metrics  *metrics.Metrics

	httpStatus int
	httpJSON   map[string]any
	statuses   []int
}

func NewGatewayWorld(t *testing.T) *GatewayWorld {
	return &GatewayWorld{t: t}
}

func (w *GatewayWorld) Register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		w.start()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		w.stop()
		return ctx, nil
	})

	w.registerBackendSteps(sc)
	w.registerLookupSteps(sc)
	w.registerCheckoutSteps(sc)
}

func (w *GatewayWorld) start() {
	w.backends = newBackends()
	w.paySrv = httptest.NewServer(w.backends.paymentMux())
	w.shipSrv = httptest.NewServer(w.backends.shippingMux())
	w.invSrv = httptest.NewServer(w.backends.inventoryMux())
	w.metrics = metrics.New()
	w.httpStatus, w.httpJSON, w.statuses = 0, nil, nil

	logger := zaptest.NewLogger(w.t)
	build := func(name, url string) *upstream.Client {
		breaker := resilience.NewBreaker(name, resilience.OnStateChange(w.metrics.BreakerChanged))
		return upstream.New(name, url, upstream.WithBreaker(breaker), upstream.WithObserver(w.metrics), upstream.WithLogger(logger))
	}
	payUp := build(payment.ServiceName, w.paySrv.URL)
	shipUp := build(shipping.ServiceName, w.shipSrv.URL)
	invUp := build(inventory.ServiceName, w.invSrv.URL)
	payments, shipments := payment.NewClient(payUp), shipping.NewClient(shipUp)

	rt := api.Routes{Mux: http.NewServeMux(), Logger: logger, Observer: w.metrics}
	api.RegisterLookupRoutes(rt, lookup.NewCoordinator(payments, shipments, lookup.WithRecorder(w.metrics), lookup.WithLogger(logger)))
	api.RegisterOrdersRoutes(rt, order.NewService(inventory.NewClient(invUp), payments, shipments, nil, "orders.v1", logger))
	api.RegisterPaymentRoutes(rt, payUp)
	api.RegisterShippingRoutes(rt, shipUp)
	api.RegisterInventoryRoutes(rt, invUp)
	api.RegisterHealthRoutes(rt, health.NewChecker(0, payUp, shipUp, invUp), w.metrics.Handler())
	w.gateway = httptest.NewServer(rt.Handler())
}

func (w *GatewayWorld) stop() {
	for _, srv := range []*httptest.Server{w.gateway, w.paySrv, w.shipSrv, w.invSrv} {
		if srv != nil {
			srv.Close()
		}
	}
}

func (w *GatewayWorld) do(req *http.Request) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	w.httpStatus = resp.StatusCode
	w.statuses = append(w.statuses, resp.StatusCode)
	w.httpJSON = nil
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &w.httpJSON); err != nil {
			return fmt.Errorf("decode %s: %w", raw, err)
		}
	}
	return nil
}

func (w *GatewayWorld) section(name string) (map[string]any, error) {
	m, ok := w.httpJSON[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no %q object: %v", name, w.httpJSON)
	}
	return m, nil
}
