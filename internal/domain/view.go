package domain

import "strings"

// FoundMessage is the status line of every successfully assembled view.
const FoundMessage = "order information found"

// OrderView is the merged answer to an order status lookup. It is built per
// request and never stored.
type OrderView struct {
	OrderID       string         `json:"order_id"`
	Payment       PaymentRecord  `json:"payment"`
	Shipping      ShipmentRecord `json:"shipping"`
	StatusMessage string         `json:"status"`

	paymentFound  bool
	shippingFound bool
}

// NewOrderView merges the lookup legs. A nil leg is replaced by its placeholder.
func NewOrderView(orderID string, payment *PaymentRecord, shipment *ShipmentRecord) OrderView {
	v := OrderView{
		OrderID:       strings.TrimSpace(orderID),
		Payment:       PaymentPlaceholder(),
		Shipping:      ShipmentPlaceholder(),
		StatusMessage: FoundMessage,
	}
	if v.OrderID == "" {
		v.OrderID = NotAvailable
	}
	if payment != nil {
		v.Payment = *payment
		v.paymentFound = true
	}
	if shipment != nil {
		v.Shipping = *shipment
		v.shippingFound = true
	}
	return v
}

// HasPayment reports whether the payment leg produced real data.
func (v OrderView) HasPayment() bool { return v.paymentFound }

func (v OrderView) HasShipping() bool { return v.shippingFound }
