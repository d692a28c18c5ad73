// Command orderctl looks up orders, lists products and checks health against
// a running gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/inventory"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/payment"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/render"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/shipping"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/joho/godotenv"
)

const usage = `usage: orderctl [-gateway URL] <command> [flags]

commands:
  lookup    -order ID -payment ID -shipping ID
  products
  health
`

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("orderctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gateway := fs.String("gateway", envOr("ORDER_GATEWAY_URL", "http://localhost:5000"), "gateway base URL")
	timeout := fs.Duration("timeout", upstream.DefaultTimeout, "per-request timeout")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	base := strings.TrimRight(*gateway, "/")
	p := render.New(stdout)
	var err error
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "lookup":
		err = runLookup(ctx, base, *timeout, rest, p, stderr)
	case "products":
		err = runProducts(ctx, base, *timeout, p)
	case "health":
		err = runHealth(ctx, base, *timeout, p)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	var usageErr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		return 2
	default:
		p.Error(err)
		return 1
	}
}

type usageError struct{ error }

// runLookup runs the coordinator against the gateway's pass-through routes.
func runLookup(ctx context.Context, base string, timeout time.Duration, args []string, p *render.Printer, stderr io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	orderID := fs.String("order", "", "order id (display only)")
	paymentID := fs.String("payment", "", "payment id")
	shippingID := fs.String("shipping", "", "shipping id")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}

	api := base + "/api"
	coord := lookup.NewCoordinator(
		payment.NewClient(upstream.New(payment.ServiceName, api, upstream.WithTimeout(timeout))),
		shipping.NewClient(upstream.New(shipping.ServiceName, api, upstream.WithTimeout(timeout))),
	)

	var warnings lookup.Collector
	view, err := coord.Notify(&warnings).LookupOrder(ctx, lookup.Request{
		OrderID:    *orderID,
		PaymentID:  *paymentID,
		ShippingID: *shippingID,
	})
	switch {
	case errors.Is(err, lookup.ErrNothingFound):
		p.NothingFound(warnings.Warnings())
		return nil
	case err != nil:
		return err
	}
	p.Order(view, warnings.Warnings())
	return nil
}

func runProducts(ctx context.Context, base string, timeout time.Duration, p *render.Printer) error {
	inv := inventory.NewClient(upstream.New(inventory.ServiceName, base+"/api", upstream.WithTimeout(timeout)))
	products, err := inv.ListProducts(ctx)
	if err != nil {
		return err
	}
	p.Products(products)
	return nil
}

func runHealth(ctx context.Context, base string, timeout time.Duration, p *render.Printer) error {
	gw := upstream.New("gateway", base, upstream.WithTimeout(timeout))
	var report domain.HealthReport
	if err := gw.JSON(ctx, http.MethodGet, "/health", nil, http.StatusOK, &report); err != nil {
		return err
	}
	p.Health(report)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
