package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidOrder = errors.New("invalid order")

// Product is an inventory catalogue entry.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

type OrderItem struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price,omitzero"`
	Name      string          `json:"name,omitempty"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	CustomerID      string          `json:"customer_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	TotalAmount     decimal.Decimal `json:"total_amount,omitzero"`
}

// Total is the declared total_amount, or the sum of item subtotals when the
// client did not declare one.
func (r OrderRequest) Total() decimal.Decimal {
	if !r.TotalAmount.IsZero() {
		return r.TotalAmount
	}
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Validate performs presence checks only.
func (r OrderRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.CustomerID) == "":
		return errors.Join(ErrInvalidOrder, errors.New("customer_id is required"))
	case strings.TrimSpace(r.ShippingAddress) == "":
		return errors.Join(ErrInvalidOrder, errors.New("shipping_address is required"))
	case strings.TrimSpace(string(r.PaymentMethod)) == "":
		return errors.Join(ErrInvalidOrder, errors.New("payment_method is required"))
	case len(r.Items) == 0:
		return errors.Join(ErrInvalidOrder, errors.New("at least one item is required"))
	}
	for _, it := range r.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return errors.Join(ErrInvalidOrder, errors.New("items need product_id and a positive quantity"))
		}
	}
	return nil
}

// OrderConfirmation is returned once payment and shipment both exist.
type OrderConfirmation struct {
	OrderID  string         `json:"order_id"`
	Payment  PaymentRecord  `json:"payment"`
	Shipping ShipmentRecord `json:"shipping"`
	Status   string         `json:"status"`
}

// StockLine is one entry of an inventory check or update answer.
type StockLine struct {
	ProductID    int    `json:"product_id"`
	Available    bool   `json:"available,omitempty"`
	Success      bool   `json:"success,omitempty"`
	Message      string `json:"message,omitempty"`
	CurrentStock int    `json:"current_stock,omitempty"`
	PrevStock    int    `json:"prev_stock,omitempty"`
	NewStock     int    `json:"new_stock,omitempty"`
}

type StockCheck struct {
	AllAvailable bool        `json:"all_available"`
	Items        []StockLine `json:"items"`
}

type StockUpdate struct {
	TransactionID string      `json:"transaction_id"`
	Items         []StockLine `json:"items"`
}
