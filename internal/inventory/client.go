// Package inventory talks to the inventory service: the product catalogue
// and stock bookkeeping.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/shopspring/decimal"
)

const ServiceName = "inventory"

type Client struct {
	c *upstream.Client
}

func NewClient(c *upstream.Client) *Client {
	return &Client{c: c}
}

func (i *Client) Upstream() *upstream.Client { return i.c }

func (i *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := i.c.JSON(ctx, http.MethodGet, "/products", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (i *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	var out domain.Product
	if err := i.c.JSON(ctx, http.MethodGet, "/products/"+strconv.Itoa(id), nil, http.StatusOK, &out); err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return out, nil
}

type NewProduct struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
}

func (i *Client) CreateProduct(ctx context.Context, p NewProduct) (domain.Product, error) {
	var out domain.Product
	if err := i.c.JSON(ctx, http.MethodPost, "/products", p, http.StatusCreated, &out); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return out, nil
}

type stockLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func stockLines(items []domain.OrderItem) []stockLine {
	lines := make([]stockLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, stockLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

// CheckStock asks whether every item is available. The service answers 400
// with the per-item breakdown when something is short; a 400 without items
// is a rejected request and comes back as a *upstream.StatusError.
func (i *Client) CheckStock(ctx context.Context, items []domain.OrderItem) (domain.StockCheck, error) {
	resp, err := i.c.Do(ctx, http.MethodPost, "/check", nil, stockLines(items))
	if err != nil {
		return domain.StockCheck{}, fmt.Errorf("check stock: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		var breakdown struct {
			Items json.RawMessage `json:"items"`
		}
		if resp.Decode(&breakdown) != nil || len(breakdown.Items) == 0 || string(breakdown.Items) == "null" {
			return domain.StockCheck{}, fmt.Errorf("check stock: %w", statusError(resp))
		}
	default:
		return domain.StockCheck{}, fmt.Errorf("check stock: %w", statusError(resp))
	}
	var out domain.StockCheck
	if err := resp.Decode(&out); err != nil {
		return domain.StockCheck{}, fmt.Errorf("check stock: %w", err)
	}
	return out, nil
}

func statusError(resp *upstream.Response) *upstream.StatusError {
	return &upstream.StatusError{Service: ServiceName, Code: resp.StatusCode, Body: resp.ErrorText()}
}

// UpdateStock subtracts the ordered quantities.
func (i *Client) UpdateStock(ctx context.Context, items []domain.OrderItem) (domain.StockUpdate, error) {
	var out domain.StockUpdate
	if err := i.c.JSON(ctx, http.MethodPost, "/update", stockLines(items), http.StatusOK, &out); err != nil {
		return domain.StockUpdate{}, fmt.Errorf("update stock: %w", err)
	}
	return out, nil
}
