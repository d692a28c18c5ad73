// Package shipping talks to the shipping service.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
)

const ServiceName = "shipping"

var ErrNotFound = fmt.Errorf("shipment %w", upstream.ErrNotFound)

type Client struct {
	c *upstream.Client
}

func NewClient(c *upstream.Client) *Client {
	return &Client{c: c}
}

func (s *Client) Upstream() *upstream.Client { return s.c }

// GetShipment fetches one shipment with its status and location history.
func (s *Client) GetShipment(ctx context.Context, id string) (domain.ShipmentRecord, error) {
	var rec domain.ShipmentRecord
	err := s.c.JSON(ctx, http.MethodGet, "/shipping/"+upstream.PathEscape(id), nil, http.StatusOK, &rec)
	switch {
	case err == nil:
	case errors.Is(err, upstream.ErrNotFound):
		return domain.ShipmentRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case errors.Is(err, upstream.ErrDecode):
		return domain.ShipmentRecord{}, fmt.Errorf("get shipment %s: %w: %w", id, domain.ErrMalformedRecord, err)
	default:
		return domain.ShipmentRecord{}, fmt.Errorf("get shipment %s: %w", id, err)
	}
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return domain.ShipmentRecord{}, err
	}
	return rec, nil
}

// CreateRequest is the body of POST /shipping.
type CreateRequest struct {
	CustomerID string             `json:"customer_id"`
	Address    string             `json:"address"`
	Items      []domain.OrderItem `json:"items"`
	PaymentID  string             `json:"payment_id"`
}

func (s *Client) CreateShipment(ctx context.Context, req CreateRequest) (domain.ShipmentRecord, error) {
	var rec domain.ShipmentRecord
	if err := s.c.JSON(ctx, http.MethodPost, "/shipping", req, http.StatusCreated, &rec); err != nil {
		return domain.ShipmentRecord{}, fmt.Errorf("create shipment: %w", err)
	}
	rec.Normalize()
	return rec, rec.Validate()
}

// UpdateRequest is the body of PUT /shipping/{id}/update. Location fields are optional.
type UpdateRequest struct {
	Status      domain.ShipmentStatus `json:"status"`
	Description string                `json:"description,omitempty"`
	Location    string                `json:"location,omitempty"`
	Latitude    float64               `json:"latitude,omitempty"`
	Longitude   float64               `json:"longitude,omitempty"`
}

type Update struct {
	ID        string                `json:"id"`
	Status    domain.ShipmentStatus `json:"status"`
	UpdatedAt string                `json:"updated_at"`
}

func (s *Client) UpdateShipment(ctx context.Context, id string, req UpdateRequest) (Update, error) {
	var out Update
	if err := s.c.JSON(ctx, http.MethodPut, "/shipping/"+upstream.PathEscape(id)+"/update", req, http.StatusOK, &out); err != nil {
		return Update{}, fmt.Errorf("update shipment %s: %w", id, err)
	}
	return out, nil
}
