package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderView_PlaceholdersForMissingLegs(t *testing.T) {
	v := NewOrderView("  ", nil, nil)

	assert.Equal(t, NotAvailable, v.OrderID)
	assert.Equal(t, PaymentPlaceholder(), v.Payment)
	assert.Equal(t, ShipmentPlaceholder(), v.Shipping)
	assert.Equal(t, FoundMessage, v.StatusMessage)
	assert.False(t, v.HasPayment())
	assert.False(t, v.HasShipping())
}

func TestNewOrderView_KeepsFoundLegs(t *testing.T) {
	p := PaymentRecord{ID: "PAY-1", Status: PaymentCompleted, Amount: decimal.NewFromInt(250000)}
	v := NewOrderView("ORD-9", &p, nil)

	assert.Equal(t, "ORD-9", v.OrderID)
	assert.Equal(t, p, v.Payment)
	assert.True(t, v.HasPayment())
	assert.Equal(t, ShipmentPlaceholder(), v.Shipping)
}

func TestNewOrderView_FoundLegWithPlaceholderLikeID(t *testing.T) {
	s := ShipmentRecord{ID: NotAvailable, Status: ShipmentDelivered}
	v := NewOrderView("", nil, &s)

	assert.False(t, v.HasPayment())
	assert.True(t, v.HasShipping())
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(PaymentRecord{ID: "PAY-1", Amount: decimal.RequireFromString("399999.5"), Status: PaymentCompleted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"PAY-1","amount":399999.5,"status":"completed"}`, string(b))

	b, err = json.Marshal(OrderItem{ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(60000)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":60000`)
}

func TestPlaceholderJSON(t *testing.T) {
	b, err := json.Marshal(NewOrderView("", nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"order_id": "N/A",
		"payment": {"id": "N/A", "status": "unknown"},
		"shipping": {"id": "N/A", "status": "unknown"},
		"status": "order information found"
	}`, string(b))
}

func TestRecordValidation(t *testing.T) {
	var p PaymentRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"PAY-7","amount":1500.5}`), &p))
	p.Normalize()
	assert.NoError(t, p.Validate())
	assert.Equal(t, PaymentUnknown, p.Status)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("1500.5")))

	assert.ErrorIs(t, PaymentRecord{Status: PaymentPending}.Validate(), ErrMalformedRecord)
	assert.ErrorIs(t, ShipmentRecord{ID: "   "}.Validate(), ErrMalformedRecord)
}

func TestStatusesPassThroughWhenUnrecognized(t *testing.T) {
	var s ShipmentRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"SHP-1","status":"lost_at_sea"}`), &s))
	s.Normalize()
	assert.Equal(t, ShipmentStatus("lost_at_sea"), s.Status)
	assert.False(t, s.Status.Known())
	assert.True(t, ShipmentCancelled.Known())
	assert.False(t, PaymentStatus("refunded").Known())
}
