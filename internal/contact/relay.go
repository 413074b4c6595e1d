// Package contact relays messages from the public contact form to the site
// owner's inbox through a transactional mail provider.
package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
	"github.com/marquinacarlos/portablogio-backend/internal/validation"
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contact_email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Email is an outbound message as handed to a Mailer.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers one email and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

const subjectPrefix = "[Portfolio] "

var bodyTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #06b6d4; padding-bottom: 10px;">New message from the portfolio</h2>
  <div style="margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Name:</strong> {{.Name}}</p>
    <p style="margin: 5px 0;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p style="margin: 5px 0;"><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #555;">Message:</h3>
    <p style="white-space: pre-wrap; color: #333;">{{.Message}}</p>
  </div>
  <p style="color: #888; font-size: 12px; margin-top: 30px;">Sent from the contact form of your portfolio.</p>
</div>
`))

type Relay struct {
	mailer Mailer
	from   string
	to     string
}

func NewRelay(mailer Mailer, from, to string) *Relay {
	return &Relay{mailer: mailer, from: from, to: to}
}

// Send validates msg and forwards it to the configured inbox. Invalid input
// returns an apperr.ErrValidation error before the mailer is called. A
// provider failure is returned as apperr.ErrDelivery and is not retried.
func (r *Relay) Send(ctx context.Context, msg Message) (string, error) {
	if err := validation.Struct(msg); err != nil {
		return "", apperr.Validation(err.Error())
	}

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, msg); err != nil {
		return "", fmt.Errorf("render contact body: %w", err)
	}

	id, err := r.mailer.Send(ctx, Email{
		From:    r.from,
		To:      []string{r.to},
		ReplyTo: msg.Email,
		Subject: subjectPrefix + msg.Subject,
		HTML:    body.String(),
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("contact delivery failed")
		return "", fmt.Errorf("%w: %w", apperr.ErrDelivery, err)
	}

	logging.Ctx(ctx).Info().Str("message_id", id).Msg("contact message sent")
	return id, nil
}
