package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/payment"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/shipping"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLookupOrder_NoIdentifiers(t *testing.T) {
	t.Parallel()

	for _, req := range []Request{
		{},
		{OrderID: "ORD-1"},
		{PaymentID: "   ", ShippingID: "\t\n"},
	} {
		pay := &mockPayments{}
		ship := &mockShipments{}
		rec := newMemRecorder()
		c := NewCoordinator(pay, ship, WithRecorder(rec))

		_, err := c.LookupOrder(context.Background(), req)

		assert.ErrorIs(t, err, ErrNoIdentifiers)
		pay.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
		ship.AssertNotCalled(t, "GetShipment", mock.Anything, mock.Anything)
		assert.Equal(t, []string{OutcomeInvalid}, rec.lookups)
	}
}

func TestLookupOrder_PaymentOnly(t *testing.T) {
	pay := &mockPayments{}
	ship := &mockShipments{}
	pay.On("GetPayment", mock.Anything, "PAY-1").Return(samplePayment(), nil).Once()
	rec := newMemRecorder()

	view, err := NewCoordinator(pay, ship, WithRecorder(rec)).LookupOrder(context.Background(), Request{OrderID: "ORD-1", PaymentID: " PAY-1 "})

	require.NoError(t, err)
	assert.Equal(t, "ORD-1", view.OrderID)
	assert.Equal(t, samplePayment(), view.Payment)
	assert.Equal(t, domain.ShipmentPlaceholder(), view.Shipping)
	assert.Equal(t, domain.FoundMessage, view.StatusMessage)
	pay.AssertExpectations(t)
	ship.AssertNotCalled(t, "GetShipment", mock.Anything, mock.Anything)
	assert.Equal(t, OutcomeSkipped, rec.legs["shipping"])
}

func TestLookupOrder_PaymentMissingShipmentFound(t *testing.T) {
	pay := &mockPayments{}
	ship := &mockShipments{}
	pay.On("GetPayment", mock.Anything, "PAY-404").Return(domain.PaymentRecord{}, payment.ErrNotFound)
	ship.On("GetShipment", mock.Anything, "SHP-1").Return(sampleShipment(), nil)
	var notes Collector

	view, err := NewCoordinator(pay, ship, WithNotifier(&notes)).LookupOrder(context.Background(), Request{PaymentID: "PAY-404", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.Equal(t, domain.NotAvailable, view.OrderID)
	assert.Equal(t, domain.PaymentPlaceholder(), view.Payment)
	assert.Equal(t, sampleShipment(), view.Shipping)
	require.Len(t, notes.Warnings(), 1)
	assert.Equal(t, LegPayment, notes.Warnings()[0].Leg)
	assert.Equal(t, "no payment information found for id PAY-404", notes.Warnings()[0].Message)
}

func TestLookupOrder_BothFail(t *testing.T) {
	pay := &mockPayments{}
	ship := &mockShipments{}
	pay.On("GetPayment", mock.Anything, "PAY-1").Return(domain.PaymentRecord{}, &upstream.UnavailableError{Service: "payment", Err: errors.New("connection refused")})
	ship.On("GetShipment", mock.Anything, "SHP-1").Return(domain.ShipmentRecord{}, shipping.ErrNotFound)
	var notes Collector
	rec := newMemRecorder()

	_, err := NewCoordinator(pay, ship, WithNotifier(&notes), WithRecorder(rec)).
		LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	assert.ErrorIs(t, err, ErrNothingFound)
	warnings := notes.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, LegPayment, warnings[0].Leg)
	assert.Contains(t, warnings[0].Message, "payment service is unavailable")
	assert.Equal(t, LegShipping, warnings[1].Leg)
	assert.Equal(t, []string{OutcomeNothing}, rec.lookups)
	assert.Equal(t, OutcomeFailed, rec.legs["payment"])
	assert.Equal(t, OutcomeFailed, rec.legs["shipping"])
}

func TestLookupOrder_WaitsForSlowerLeg(t *testing.T) {
	shippingDone := make(chan struct{})
	pay := funcPayments(func(ctx context.Context, _ string) (domain.PaymentRecord, error) {
		select {
		case <-shippingDone:
		case <-ctx.Done():
			return domain.PaymentRecord{}, ctx.Err()
		}
		time.Sleep(20 * time.Millisecond)
		return samplePayment(), nil
	})
	ship := funcShipments(func(context.Context, string) (domain.ShipmentRecord, error) {
		defer close(shippingDone)
		return sampleShipment(), nil
	})

	view, err := NewCoordinator(pay, ship).LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.Equal(t, samplePayment(), view.Payment)
	assert.Equal(t, sampleShipment(), view.Shipping)
}

func TestLookupOrder_FailingLegDoesNotCancelOther(t *testing.T) {
	paymentFailed := make(chan struct{})
	pay := funcPayments(func(context.Context, string) (domain.PaymentRecord, error) {
		defer close(paymentFailed)
		return domain.PaymentRecord{}, errors.New("boom")
	})
	ship := funcShipments(func(ctx context.Context, _ string) (domain.ShipmentRecord, error) {
		<-paymentFailed
		if err := ctx.Err(); err != nil {
			return domain.ShipmentRecord{}, err
		}
		return sampleShipment(), nil
	})

	view, err := NewCoordinator(pay, ship).LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.False(t, view.HasPayment())
	assert.True(t, view.HasShipping())
}

func TestLookupOrder_MalformedRecordDegrades(t *testing.T) {
	pay := funcPayments(func(context.Context, string) (domain.PaymentRecord, error) {
		return domain.PaymentRecord{Status: domain.PaymentPending}, nil
	})
	ship := funcShipments(func(context.Context, string) (domain.ShipmentRecord, error) {
		return sampleShipment(), nil
	})
	var notes Collector

	view, err := NewCoordinator(pay, ship, WithNotifier(&notes)).LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPlaceholder(), view.Payment)
	require.Len(t, notes.Warnings(), 1)
	assert.Equal(t, "could not load payment information for id PAY-1", notes.Warnings()[0].Message)
}

func TestLookupOrder_UnknownStatusPassesThrough(t *testing.T) {
	pay := funcPayments(func(context.Context, string) (domain.PaymentRecord, error) {
		return domain.PaymentRecord{ID: "PAY-1", Status: "chargeback"}, nil
	})
	ship := funcShipments(func(context.Context, string) (domain.ShipmentRecord, error) {
		return domain.ShipmentRecord{}, shipping.ErrNotFound
	})

	view, err := NewCoordinator(pay, ship).LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatus("chargeback"), view.Payment.Status)
}

func TestLookupOrder_LegTimeout(t *testing.T) {
	pay := funcPayments(func(ctx context.Context, _ string) (domain.PaymentRecord, error) {
		<-ctx.Done()
		return domain.PaymentRecord{}, ctx.Err()
	})
	ship := funcShipments(func(context.Context, string) (domain.ShipmentRecord, error) {
		return sampleShipment(), nil
	})
	var notes Collector

	view, err := NewCoordinator(pay, ship, WithLegTimeout(30*time.Millisecond), WithNotifier(&notes)).
		LookupOrder(context.Background(), Request{PaymentID: "PAY-1", ShippingID: "SHP-1"})

	require.NoError(t, err)
	assert.False(t, view.HasPayment())
	require.Len(t, notes.Warnings(), 1)
	assert.Contains(t, notes.Warnings()[0].Message, "payment service is unavailable")
}

func TestNotifyDoesNotLeakIntoParent(t *testing.T) {
	pay := funcPayments(func(context.Context, string) (domain.PaymentRecord, error) {
		return domain.PaymentRecord{}, payment.ErrNotFound
	})
	ship := funcShipments(func(context.Context, string) (domain.ShipmentRecord, error) {
		return sampleShipment(), nil
	})
	var base, scoped Collector
	parent := NewCoordinator(pay, ship, WithNotifier(&base))

	_, err := parent.Notify(&scoped).LookupOrder(context.Background(), Request{PaymentID: "P", ShippingID: "S"})
	require.NoError(t, err)
	_, err = parent.LookupOrder(context.Background(), Request{PaymentID: "P", ShippingID: "S"})
	require.NoError(t, err)

	assert.Len(t, base.Warnings(), 2)
	assert.Len(t, scoped.Warnings(), 1)
}
