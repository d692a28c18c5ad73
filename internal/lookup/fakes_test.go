package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockPayments struct{ mock.Mock }

func (m *mockPayments) GetPayment(ctx context.Context, id string) (domain.PaymentRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.PaymentRecord), args.Error(1)
}

type mockShipments struct{ mock.Mock }

func (m *mockShipments) GetShipment(ctx context.Context, id string) (domain.ShipmentRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ShipmentRecord), args.Error(1)
}

// funcPayments and funcShipments let a test control timing directly.
type funcPayments func(ctx context.Context, id string) (domain.PaymentRecord, error)

func (f funcPayments) GetPayment(ctx context.Context, id string) (domain.PaymentRecord, error) {
	return f(ctx, id)
}

type funcShipments func(ctx context.Context, id string) (domain.ShipmentRecord, error)

func (f funcShipments) GetShipment(ctx context.Context, id string) (domain.ShipmentRecord, error) {
	return f(ctx, id)
}

type memRecorder struct {
	mu      sync.Mutex
	legs    map[string]string
	lookups []string
}

func newMemRecorder() *memRecorder { return &memRecorder{legs: map[string]string{}} }

func (r *memRecorder) ObserveLeg(leg, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legs[leg] = outcome
}

func (r *memRecorder) ObserveLookup(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, outcome)
}

func samplePayment() domain.PaymentRecord {
	return domain.PaymentRecord{ID: "PAY-1", Status: domain.PaymentCompleted, PaymentMethod: domain.MethodCreditCard}
}

func sampleShipment() domain.ShipmentRecord {
	return domain.ShipmentRecord{ID: "SHP-1", Status: domain.ShipmentShipped, EstimatedDelivery: "2025-06-01T00:00:00"}
}
