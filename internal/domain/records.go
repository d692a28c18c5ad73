package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown in place of an identifier the gateway could not resolve.
const NotAvailable = "N/A"

// ErrMalformedRecord is returned when a service answers 200 with a body that
// cannot be used as a record.
var ErrMalformedRecord = errors.New("malformed record")

// PaymentRecord mirrors GET /payments/{id} on the payment service.
type PaymentRecord struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount,omitzero"`
	Status        PaymentStatus   `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	CompletedAt   *string         `json:"completed_at,omitempty"`
	Refunded      bool            `json:"refunded,omitempty"`
	RefundedAt    *string         `json:"refunded_at,omitempty"`
	RefundReason  *string         `json:"refund_reason,omitempty"`
}

// Normalize fills an empty status with PaymentUnknown.
func (p *PaymentRecord) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	if p.Status == "" {
		p.Status = PaymentUnknown
	}
}

func (p PaymentRecord) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("payment: %w: missing id", ErrMalformedRecord)
	}
	return nil
}

// PaymentPlaceholder stands in for a payment leg that produced no data.
func PaymentPlaceholder() PaymentRecord {
	return PaymentRecord{ID: NotAvailable, Status: PaymentUnknown}
}

type StatusEntry struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type LocationEntry struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// ShipmentRecord mirrors GET /shipping/{id} on the shipping service.
type ShipmentRecord struct {
	ID                string          `json:"id"`
	Status            ShipmentStatus  `json:"status"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
	CustomerID        string          `json:"customer_id,omitempty"`
	Address           string          `json:"address,omitempty"`
	PaymentID         string          `json:"payment_id,omitempty"`
	Items             []OrderItem     `json:"items,omitempty"`
	DeliveredAt       *string         `json:"delivered_at,omitempty"`
	CreatedAt         string          `json:"created_at,omitempty"`
	StatusHistory     []StatusEntry   `json:"status_history,omitempty"`
	LocationHistory   []LocationEntry `json:"location_history,omitempty"`
}

func (s *ShipmentRecord) Normalize() {
	s.ID = strings.TrimSpace(s.ID)
	if s.Status == "" {
		s.Status = ShipmentUnknown
	}
}

func (s ShipmentRecord) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("shipment: %w: missing id", ErrMalformedRecord)
	}
	return nil
}

// ShipmentPlaceholder stands in for a shipping leg that produced no data.
func ShipmentPlaceholder() ShipmentRecord {
	return ShipmentRecord{ID: NotAvailable, Status: ShipmentUnknown}
}
