package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/marquinacarlos/portablogio-backend/internal/config"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
	"github.com/marquinacarlos/portablogio-backend/internal/metrics"
)

const breakerName = "resend-api"

// APIError is a non-2xx answer from the Resend API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resend: status %d: %s", e.StatusCode, e.Message)
}

// ResendMailer sends mail through the Resend HTTP API. Calls go through a
// circuit breaker that opens after five consecutive server-side failures
// and fails fast for a minute.
type ResendMailer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cb      *gobreaker.CircuitBreaker[string]
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewResendMailer(cfg config.MailConfig) *ResendMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &ResendMailer{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		cb:      cb,
	}
}

func (m *ResendMailer) Send(ctx context.Context, email Email) (string, error) {
	id, err := m.cb.Execute(func() (string, error) {
		return m.send(ctx, email)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ContactDeliveriesTotal.WithLabelValues("rejected").Inc()
	case err != nil:
		metrics.ContactDeliveriesTotal.WithLabelValues("failed").Inc()
	default:
		metrics.ContactDeliveriesTotal.WithLabelValues("sent").Inc()
	}
	return id, err
}

func (m *ResendMailer) send(ctx context.Context, email Email) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out resendResponse
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := out.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	return out.ID, nil
}
