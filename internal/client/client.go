// Package client talks to the backend cart API. The engine's local state
// does not depend on these calls for correctness of the derived view;
// mutations are pushed fire-and-await and the service layer compensates
// locally when a push fails.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

// ErrMissingAuthToken is returned before any request is attempted when no
// credential is available.
var ErrMissingAuthToken = errors.New("authentication token is missing")

// CartAPI is the engine's view of the backend cart endpoints. Consumers
// define this interface; the HTTP implementation lives below.
type CartAPI interface {
	FetchCart(ctx context.Context, token string) (*domain.FetchedCart, error)
	PushQuantity(ctx context.Context, token, cartItemID string, quantity float64) error
	PushRemoval(ctx context.Context, token, cartItemID string) error
}

type httpCartAPI struct {
	client  *http.Client
	baseURL string
}

func NewCartAPI(client *http.Client, baseURL string) CartAPI {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpCartAPI{client: client, baseURL: baseURL}
}

func (c *httpCartAPI) FetchCart(ctx context.Context, token string) (*domain.FetchedCart, error) {
	if token == "" {
		return nil, ErrMissingAuthToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cart request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(extractMessage(body, "failed to fetch cart"))
	}

	var fetched domain.FetchedCart
	if err := json.Unmarshal(body, &fetched); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	return &fetched, nil
}

type quantityRequest struct {
	Quantity float64 `json:"quantity"`
}

func (c *httpCartAPI) PushQuantity(ctx context.Context, token, cartItemID string, quantity float64) error {
	if token == "" {
		return ErrMissingAuthToken
	}

	body, err := json.Marshal(quantityRequest{Quantity: quantity})
	if err != nil {
		return fmt.Errorf("failed to marshal quantity update: %w", err)
	}

	url := fmt.Sprintf("%s/cart/items/%s", c.baseURL, cartItemID)
	return c.send(ctx, http.MethodPut, url, token, body, "failed to update quantity")
}

func (c *httpCartAPI) PushRemoval(ctx context.Context, token, cartItemID string) error {
	if token == "" {
		return ErrMissingAuthToken
	}

	url := fmt.Sprintf("%s/cart/items/%s", c.baseURL, cartItemID)
	return c.send(ctx, http.MethodDelete, url, token, nil, "failed to remove item")
}

func (c *httpCartAPI) send(ctx context.Context, method, url, token string, body []byte, fallback string) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return errors.New(extractMessage(data, fallback))
	}
	return nil
}

// extractMessage pulls a human-readable message out of an error response
// body: a structured "message" field wins, then a structured "error"
// field, then the fallback.
func extractMessage(body []byte, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return fallback
}
