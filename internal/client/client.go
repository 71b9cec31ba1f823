// Package client talks to the inventory and billing HTTP API. It satisfies
// billing.InventoryReader and billing.BillingWriter so a billing Session can
// run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the API at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8070.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListInventory fetches every inventory record.
func (c *Client) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	if err := c.do(ctx, http.MethodGet, "/inventory/in", nil, &records); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return records, nil
}

type billLine struct {
	MedName  string `json:"medName"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

type billPayload struct {
	CustomerName  string     `json:"customerName"`
	Medicines     []billLine `json:"medicines"`
	PaymentMethod string     `json:"paymentMethod"`
	Date          string     `json:"date"`
	Total         string     `json:"total"`
}

// CreateBill posts order in the shape the billing form submits.
func (c *Client) CreateBill(ctx context.Context, order billing.Order) (domain.Bill, error) {
	payload := billPayload{
		CustomerName:  order.CustomerName,
		Medicines:     make([]billLine, len(order.Lines)),
		PaymentMethod: order.PaymentMethod,
		Date:          order.Date,
		Total:         order.Total.StringFixed(2),
	}
	for i, l := range order.Lines {
		payload.Medicines[i] = billLine{
			MedName:  l.MedicineName,
			Quantity: strconv.FormatInt(l.Quantity, 10),
			Price:    l.Price.String(),
		}
	}

	var resp struct {
		Bill domain.Bill `json:"bill"`
	}
	if err := c.do(ctx, http.MethodPost, "/billing/addbi", payload, &resp); err != nil {
		return domain.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	return resp.Bill, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
