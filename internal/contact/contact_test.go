package contact

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/config"
)

type recordingMailer struct {
	calls []Email
	err   error
}

func (m *recordingMailer) Send(_ context.Context, email Email) (string, error) {
	m.calls = append(m.calls, email)
	if m.err != nil {
		return "", m.err
	}
	return "msg_1", nil
}

func validMessage() Message {
	return Message{
		Name:    "Ana <b>",
		Email:   "ana@example.com",
		Subject: "Hello",
		Message: "I'd like a quote",
	}
}

func TestRelaySend(t *testing.T) {
	mailer := &recordingMailer{}
	relay := NewRelay(mailer, "Portfolio <noreply@x.dev>", "me@x.dev")

	id, err := relay.Send(context.Background(), validMessage())
	require.NoError(t, err)
	assert.Equal(t, "msg_1", id)

	require.Len(t, mailer.calls, 1)
	sent := mailer.calls[0]
	assert.Equal(t, []string{"me@x.dev"}, sent.To)
	assert.Equal(t, "Portfolio <noreply@x.dev>", sent.From)
	assert.Equal(t, "ana@example.com", sent.ReplyTo)
	assert.Equal(t, "[Portfolio] Hello", sent.Subject)
	assert.Contains(t, sent.HTML, "Ana &lt;b&gt;")
	assert.NotContains(t, sent.HTML, "Ana <b>")
}

func TestRelayRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(m *Message) { m.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "malformed email",
			mutate:  func(m *Message) { m.Email = "ana@example" },
			wantErr: "email must be a valid email address",
		},
		{
			name:    "email with spaces",
			mutate:  func(m *Message) { m.Email = "ana maria@example.com" },
			wantErr: "email must be a valid email address",
		},
		{
			name: "everything missing",
			mutate: func(m *Message) {
				*m = Message{}
			},
			wantErr: "name is required; email is required; subject is required; message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &recordingMailer{}
			relay := NewRelay(mailer, "from@x.dev", "to@x.dev")

			msg := validMessage()
			tt.mutate(&msg)
			_, err := relay.Send(context.Background(), msg)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.EqualError(t, err, tt.wantErr)
			assert.Empty(t, mailer.calls)
		})
	}
}

func TestRelayWrapsMailerFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("boom")}
	relay := NewRelay(mailer, "from@x.dev", "to@x.dev")

	_, err := relay.Send(context.Background(), validMessage())
	assert.ErrorIs(t, err, apperr.ErrDelivery)
	assert.Len(t, mailer.calls, 1)
}

func TestResendMailer(t *testing.T) {
	var got resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"4ef9a417"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer(config.MailConfig{APIKey: "re_test", BaseURL: server.URL + "/"})
	id, err := mailer.Send(context.Background(), Email{
		From:    "from@x.dev",
		To:      []string{"to@x.dev"},
		ReplyTo: "ana@example.com",
		Subject: "[Portfolio] Hi",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "4ef9a417", id)
	assert.Equal(t, []string{"to@x.dev"}, got.To)
	assert.Equal(t, "ana@example.com", got.ReplyTo)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestResendMailerAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"message":"Invalid from field","name":"validation_error"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer(config.MailConfig{APIKey: "k", BaseURL: server.URL})
	_, err := mailer.Send(context.Background(), Email{From: "bad", To: []string{"to@x.dev"}})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Invalid from field", apiErr.Message)
}

func TestResendMailerOpensCircuit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	mailer := NewResendMailer(config.MailConfig{APIKey: "k", BaseURL: server.URL})
	for n := 0; n < 5; n++ {
		_, err := mailer.Send(context.Background(), Email{})
		require.Error(t, err)
	}
	assert.Equal(t, int32(5), hits.Load())

	_, err := mailer.Send(context.Background(), Email{})
	require.Error(t, err)
	assert.Equal(t, int32(5), hits.Load(), "open circuit must not reach the provider")
}
