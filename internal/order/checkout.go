// Package order places new orders across the inventory, payment and shipping
// services, refunding the payment when a later step fails.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/events"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/payment"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/shipping"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ConfirmedMessage = "order created successfully"

	refundStockReason    = "inventory update failed"
	refundShippingReason = "shipment creation failed"
)

// StockValidationError reports items the inventory cannot supply.
type StockValidationError struct {
	Check domain.StockCheck
}

func (e *StockValidationError) Error() string {
	var short []string
	for _, line := range e.Check.Items {
		if !line.Available {
			short = append(short, fmt.Sprintf("product %d: %s", line.ProductID, line.Message))
		}
	}
	if len(short) == 0 {
		return "insufficient stock"
	}
	return "insufficient stock: " + strings.Join(short, "; ")
}

// StepError names the saga step that failed and whether the payment was refunded.
type StepError struct {
	Step     string
	Refunded bool
	Err      error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

type Inventory interface {
	CheckStock(ctx context.Context, items []domain.OrderItem) (domain.StockCheck, error)
	UpdateStock(ctx context.Context, items []domain.OrderItem) (domain.StockUpdate, error)
}

type Payments interface {
	CreatePayment(ctx context.Context, req payment.CreateRequest) (domain.PaymentRecord, error)
	RefundPayment(ctx context.Context, id, reason string) (payment.Refund, error)
}

type Shipments interface {
	CreateShipment(ctx context.Context, req shipping.CreateRequest) (domain.ShipmentRecord, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, evt events.Envelope) error
}

type Service struct {
	inventory Inventory
	payments  Payments
	shipments Shipments
	publisher Publisher
	topic     string
	logger    *zap.Logger
	newID     func() string
}

// NewService wires the saga. publisher may be nil, in which case no event is emitted.
func NewService(inv Inventory, pay Payments, ship Shipments, publisher Publisher, topic string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory: inv,
		payments:  pay,
		shipments: ship,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// PlaceOrder checks stock, takes payment, books the stock and creates the
// shipment. A failure after payment triggers a refund before returning.
func (s *Service) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error) {
	if err := req.Validate(); err != nil {
		return domain.OrderConfirmation{}, err
	}
	orderID := s.newID()
	log := s.logger.With(zap.String("order_id", orderID), zap.String("customer_id", req.CustomerID))

	log.Info("[Checkout] Step 1: checking stock", zap.Int("items", len(req.Items)))
	check, err := s.inventory.CheckStock(ctx, req.Items)
	if err != nil {
		return domain.OrderConfirmation{}, &StepError{Step: "check stock", Err: err}
	}
	if !check.AllAvailable {
		log.Info("[Checkout] stock check rejected order")
		return domain.OrderConfirmation{}, &StockValidationError{Check: check}
	}

	total := req.Total()
	log.Info("[Checkout] Step 2: creating payment", zap.String("amount", total.String()), zap.String("method", string(req.PaymentMethod)))
	pay, err := s.payments.CreatePayment(ctx, payment.CreateRequest{
		Amount:        total,
		PaymentMethod: req.PaymentMethod,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		return domain.OrderConfirmation{}, &StepError{Step: "create payment", Err: err}
	}

	log.Info("[Checkout] Step 3: updating stock", zap.String("payment_id", pay.ID))
	if _, err := s.inventory.UpdateStock(ctx, req.Items); err != nil {
		return domain.OrderConfirmation{}, s.compensate(ctx, log, "update stock", pay.ID, refundStockReason, err)
	}

	log.Info("[Checkout] Step 4: creating shipment")
	ship, err := s.shipments.CreateShipment(ctx, shipping.CreateRequest{
		CustomerID: req.CustomerID,
		Address:    req.ShippingAddress,
		Items:      req.Items,
		PaymentID:  pay.ID,
	})
	if err != nil {
		return domain.OrderConfirmation{}, s.compensate(ctx, log, "create shipment", pay.ID, refundShippingReason, err)
	}

	conf := domain.OrderConfirmation{
		OrderID:  orderID,
		Payment:  pay,
		Shipping: ship,
		Status:   ConfirmedMessage,
	}
	s.publishCreated(ctx, log, conf, req)
	log.Info("[Checkout] order created", zap.String("payment_id", pay.ID), zap.String("shipping_id", ship.ID))
	return conf, nil
}

func (s *Service) compensate(ctx context.Context, log *zap.Logger, step, paymentID, reason string, cause error) error {
	log.Warn("[Checkout] step failed, refunding payment", zap.String("step", step), zap.String("payment_id", paymentID), zap.Error(cause))
	// Refund even if the caller has gone away.
	refundCtx := context.WithoutCancel(ctx)
	if _, err := s.payments.RefundPayment(refundCtx, paymentID, reason); err != nil {
		log.Error("[Checkout] CRITICAL: refund failed", zap.String("payment_id", paymentID), zap.Error(err))
		return &StepError{Step: step, Err: errors.Join(cause, fmt.Errorf("refund %s: %w", paymentID, err))}
	}
	return &StepError{Step: step, Refunded: true, Err: cause}
}

func (s *Service) publishCreated(ctx context.Context, log *zap.Logger, conf domain.OrderConfirmation, req domain.OrderRequest) {
	if s.publisher == nil {
		return
	}
	evt := events.Envelope{
		EventType:    events.EventOrderCreated,
		EventVersion: events.EventVersionV1,
		AggregateID:  conf.OrderID,
		Data: events.OrderCreated{
			OrderID:       conf.OrderID,
			CustomerID:    req.CustomerID,
			PaymentID:     conf.Payment.ID,
			ShippingID:    conf.Shipping.ID,
			TotalAmount:   req.Total(),
			PaymentMethod: req.PaymentMethod,
			Address:       req.ShippingAddress,
			Items:         req.Items,
		},
	}
	if err := s.publisher.Publish(ctx, s.topic, conf.OrderID, evt); err != nil {
		log.Warn("[Checkout] failed to publish OrderCreated", zap.Error(err))
	}
}
