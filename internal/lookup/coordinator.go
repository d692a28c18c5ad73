// Package lookup resolves an order's status by querying the payment and
// shipping services concurrently and merging whatever each returns.
//
// Each leg contains its own failure. A missing, unreachable or malformed
// answer degrades that leg to "no data" and is reported to the Notifier,
// while the other leg carries on. The merged view is built only after both
// legs have settled.
package lookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoIdentifiers rejects a request with neither a payment nor a shipping id.
	ErrNoIdentifiers = errors.New("please enter at least a payment id or a shipping id")
	// ErrNothingFound means every attempted leg came back without data.
	ErrNothingFound = errors.New("no order information found")
)

// Request identifies the order to look up. OrderID is echoed in the view and
// never sent to a service.
type Request struct {
	OrderID    string
	PaymentID  string
	ShippingID string
}

type Leg string

const (
	LegPayment  Leg = "payment"
	LegShipping Leg = "shipping"
)

// Leg outcomes reported to the Recorder.
const (
	OutcomeFound   = "found"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Lookup outcomes reported to the Recorder.
const (
	OutcomeView    = "view"
	OutcomeInvalid = "invalid"
	OutcomeNothing = "nothing_found"
)

type PaymentFinder interface {
	GetPayment(ctx context.Context, id string) (domain.PaymentRecord, error)
}

type ShipmentFinder interface {
	GetShipment(ctx context.Context, id string) (domain.ShipmentRecord, error)
}

// Notifier is told about every leg that degraded. Implementations must be
// safe for concurrent use; both legs may report at once.
type Notifier interface {
	LegFailed(ctx context.Context, leg Leg, id string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, leg Leg, id string, err error)

func (f NotifierFunc) LegFailed(ctx context.Context, leg Leg, id string, err error) {
	f(ctx, leg, id, err)
}

// Recorder receives lookup and leg outcomes, typically for metrics.
type Recorder interface {
	ObserveLeg(leg, outcome string, elapsed time.Duration)
	ObserveLookup(outcome string)
}

type Coordinator struct {
	payments   PaymentFinder
	shipments  ShipmentFinder
	notifiers  []Notifier
	recorder   Recorder
	legTimeout time.Duration
	logger     *zap.Logger
	tracer     trace.Tracer
}

type Option func(*Coordinator)

func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifiers = append(c.notifiers, n) }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithLegTimeout bounds each leg. Zero leaves legs bounded only by ctx.
func WithLegTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.legTimeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func NewCoordinator(payments PaymentFinder, shipments ShipmentFinder, opts ...Option) *Coordinator {
	c := &Coordinator{
		payments:  payments,
		shipments: shipments,
		recorder:  nopRecorder{},
		logger:    zap.NewNop(),
		tracer:    otel.Tracer("github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify returns a copy of c that additionally reports leg failures to n.
// Handlers use it to collect per-request warnings.
func (c *Coordinator) Notify(n Notifier) *Coordinator {
	cp := *c
	cp.notifiers = append(append([]Notifier(nil), c.notifiers...), n)
	return &cp
}

// LookupOrder runs the lookup. It returns ErrNoIdentifiers before any network
// call when both ids are blank, ErrNothingFound when no leg produced data, and
// otherwise the merged view with placeholders for the missing leg.
func (c *Coordinator) LookupOrder(ctx context.Context, req Request) (domain.OrderView, error) {
	paymentID := strings.TrimSpace(req.PaymentID)
	shippingID := strings.TrimSpace(req.ShippingID)
	if paymentID == "" && shippingID == "" {
		c.recorder.ObserveLookup(OutcomeInvalid)
		return domain.OrderView{}, ErrNoIdentifiers
	}

	ctx, span := c.tracer.Start(ctx, "lookup.order", trace.WithAttributes(
		attribute.String("order.id", strings.TrimSpace(req.OrderID)),
		attribute.String("payment.id", paymentID),
		attribute.String("shipping.id", shippingID),
	))
	defer span.End()

	var (
		g        errgroup.Group
		payment  *domain.PaymentRecord
		shipment *domain.ShipmentRecord
	)
	g.Go(func() error {
		payment = runLeg(ctx, c, LegPayment, paymentID, c.payments.GetPayment)
		return nil
	})
	g.Go(func() error {
		shipment = runLeg(ctx, c, LegShipping, shippingID, c.shipments.GetShipment)
		return nil
	})
	_ = g.Wait()

	if payment == nil && shipment == nil {
		c.recorder.ObserveLookup(OutcomeNothing)
		span.SetStatus(codes.Error, ErrNothingFound.Error())
		c.logger.Info("[lookup] nothing found",
			zap.String("payment_id", paymentID),
			zap.String("shipping_id", shippingID),
		)
		return domain.OrderView{}, ErrNothingFound
	}

	c.recorder.ObserveLookup(OutcomeView)
	view := domain.NewOrderView(req.OrderID, payment, shipment)
	span.SetAttributes(
		attribute.Bool("lookup.payment_found", view.HasPayment()),
		attribute.Bool("lookup.shipping_found", view.HasShipping()),
	)
	return view, nil
}

// validator is satisfied by the domain records.
type validator interface {
	Validate() error
}

// runLeg fetches one record and never fails: every error is logged, reported
// and turned into nil. An empty id skips the leg.
func runLeg[T validator](ctx context.Context, c *Coordinator, leg Leg, id string, find func(context.Context, string) (T, error)) *T {
	if id == "" {
		c.recorder.ObserveLeg(string(leg), OutcomeSkipped, 0)
		return nil
	}

	ctx, span := c.tracer.Start(ctx, "lookup."+string(leg), trace.WithAttributes(attribute.String("leg.id", id)))
	defer span.End()

	if c.legTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.legTimeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := find(ctx, id)
	if err == nil {
		err = rec.Validate()
	}
	elapsed := time.Since(start)

	if err != nil {
		c.recorder.ObserveLeg(string(leg), OutcomeFailed, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "leg degraded")
		c.logger.Warn("[lookup] leg degraded",
			zap.String("leg", string(leg)),
			zap.String("id", id),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		for _, n := range c.notifiers {
			n.LegFailed(ctx, leg, id, err)
		}
		return nil
	}

	c.recorder.ObserveLeg(string(leg), OutcomeFound, elapsed)
	return &rec
}

type nopRecorder struct{}

func (nopRecorder) ObserveLeg(string, string, time.Duration) {}
func (nopRecorder) ObserveLookup(string)                     {}
