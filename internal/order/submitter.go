package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

var (
	// ErrMissingAuthToken is returned before any request is attempted when
	// no credential is available, to avoid a wasted round trip.
	ErrMissingAuthToken = errors.New("authentication token is missing")

	// ErrOrderRejected means the backend returned a structured rejection;
	// the wrapped message is the backend's own, surfaced verbatim.
	ErrOrderRejected = errors.New("order rejected")

	// ErrSubmissionFailed means the backend answered without a usable
	// message, or the request could not be issued at all.
	ErrSubmissionFailed = errors.New("order submission failed")

	// ErrNoResponse means no response was received, so the outcome is
	// unknown. Callers should present this differently from a rejection.
	ErrNoResponse = errors.New("no response from server")
)

// Submitter posts validated payloads to the order-creation endpoint. It
// assumes the caller has already run Validate; it never re-validates. The
// breaker sheds load when the order endpoint is failing repeatedly.
type Submitter struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	endpoint string
}

func NewSubmitter(client *http.Client, endpoint string) *Submitter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "order-submission",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A structured rejection is the backend doing its job, not an
		// outage; it must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrOrderRejected)
		},
	})
	return &Submitter{client: client, breaker: cb, endpoint: endpoint}
}

type rejectionBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submit posts the payload and returns the raw response body on success.
// Failures are classified into ErrOrderRejected, ErrSubmissionFailed and
// ErrNoResponse; see the sentinel docs.
func (s *Submitter) Submit(ctx context.Context, token string, payload *domain.OrderPayload) ([]byte, error) {
	if token == "" {
		return nil, ErrMissingAuthToken
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	resp, err := s.breaker.Execute(func() ([]byte, error) {
		return s.post(ctx, token, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
		}
		return nil, err
	}
	return resp, nil
}

func (s *Submitter) post(ctx context.Context, token string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrSubmissionFailed, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	var rejection rejectionBody
	if jsonErr := json.Unmarshal(data, &rejection); jsonErr == nil && rejection.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrOrderRejected, rejection.Message)
	}
	return nil, fmt.Errorf("%w: status %d", ErrSubmissionFailed, resp.StatusCode)
}
