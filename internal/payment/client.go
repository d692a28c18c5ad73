// Package payment talks to the payment service.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/shopspring/decimal"
)

const ServiceName = "payment"

var ErrNotFound = fmt.Errorf("payment %w", upstream.ErrNotFound)

type Client struct {
	c *upstream.Client
}

func NewClient(c *upstream.Client) *Client {
	return &Client{c: c}
}

func (p *Client) Upstream() *upstream.Client { return p.c }

// GetPayment fetches one payment. A 404 matches ErrNotFound; a 200 with an
// unusable body matches domain.ErrMalformedRecord.
func (p *Client) GetPayment(ctx context.Context, id string) (domain.PaymentRecord, error) {
	var rec domain.PaymentRecord
	err := p.c.JSON(ctx, http.MethodGet, "/payments/"+upstream.PathEscape(id), nil, http.StatusOK, &rec)
	switch {
	case err == nil:
	case errors.Is(err, upstream.ErrNotFound):
		return domain.PaymentRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case errors.Is(err, upstream.ErrDecode):
		return domain.PaymentRecord{}, fmt.Errorf("get payment %s: %w: %w", id, domain.ErrMalformedRecord, err)
	default:
		return domain.PaymentRecord{}, fmt.Errorf("get payment %s: %w", id, err)
	}
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return domain.PaymentRecord{}, err
	}
	return rec, nil
}

// CreateRequest is the body of POST /payments.
type CreateRequest struct {
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CustomerID    string               `json:"customer_id"`
}

// CreatePayment charges the customer. The service answers 201 on success.
func (p *Client) CreatePayment(ctx context.Context, req CreateRequest) (domain.PaymentRecord, error) {
	var rec domain.PaymentRecord
	if err := p.c.JSON(ctx, http.MethodPost, "/payments", req, http.StatusCreated, &rec); err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("create payment: %w", err)
	}
	rec.Normalize()
	return rec, rec.Validate()
}

type Refund struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	RefundedAt   string `json:"refunded_at"`
	RefundReason string `json:"refund_reason"`
}

func (p *Client) RefundPayment(ctx context.Context, id, reason string) (Refund, error) {
	var out Refund
	body := map[string]string{"reason": reason}
	if err := p.c.JSON(ctx, http.MethodPost, "/payments/"+upstream.PathEscape(id)+"/refund", body, http.StatusOK, &out); err != nil {
		return Refund{}, fmt.Errorf("refund payment %s: %w", id, err)
	}
	return out, nil
}
