// Package render prints order views, products and health reports on a
// terminal with lipgloss status badges.
package render

import (
	"strings"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Badge colours.
const (
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#eab308")
	ColorInfo    = lipgloss.Color("#06b6d4")
	ColorDanger  = lipgloss.Color("#ef4444")
	ColorNeutral = lipgloss.Color("#6b7280")
)

// NotDetermined is shown for a shipment without an estimated delivery.
const NotDetermined = "not determined"

func PaymentBadge(s domain.PaymentStatus) lipgloss.Color {
	switch s {
	case domain.PaymentCompleted:
		return ColorSuccess
	case domain.PaymentPending:
		return ColorWarning
	case domain.PaymentFailed:
		return ColorDanger
	}
	return ColorNeutral
}

func ShipmentBadge(s domain.ShipmentStatus) lipgloss.Color {
	switch s {
	case domain.ShipmentDelivered:
		return ColorSuccess
	case domain.ShipmentShipped:
		return ColorInfo
	case domain.ShipmentProcessing:
		return ColorWarning
	}
	return ColorNeutral
}

// PaymentStatusLabel returns a human label, or the raw status when unknown.
func PaymentStatusLabel(s domain.PaymentStatus) string {
	switch s {
	case domain.PaymentCompleted:
		return "Paid"
	case domain.PaymentPending:
		return "Processing"
	case domain.PaymentFailed:
		return "Failed"
	}
	return string(s)
}

func ShipmentStatusLabel(s domain.ShipmentStatus) string {
	switch s {
	case domain.ShipmentDelivered:
		return "Delivered"
	case domain.ShipmentShipped:
		return "In transit"
	case domain.ShipmentProcessing:
		return "Processing"
	case domain.ShipmentCancelled:
		return "Cancelled"
	}
	return string(s)
}

func PaymentMethodName(m domain.PaymentMethod) string {
	switch m {
	case domain.MethodCreditCard:
		return "Credit card"
	case domain.MethodBankTransfer:
		return "Bank transfer"
	case domain.MethodCOD:
		return "Cash on delivery"
	}
	return string(m)
}

// Currency formats an amount in Vietnamese dong: whole units, dot-grouped
// thousands, trailing ₫.
func Currency(amount decimal.Decimal) string {
	s := amount.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}

// Delivery returns the estimated delivery or NotDetermined.
func Delivery(estimated string) string {
	if strings.TrimSpace(estimated) == "" {
		return NotDetermined
	}
	return estimated
}
