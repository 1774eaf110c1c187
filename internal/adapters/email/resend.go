package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// KindHeader carries the account flow of a message so replies and bounces
// can be traced back to signup or reset.
const KindHeader = "X-FitPro-Kind"

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a ResendSender with the given API key and default from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// request maps req onto the Resend payload. The message kind becomes both a
// "kind" tag for the Resend dashboard and a header on the delivered mail.
func (s *ResendSender) request(req SendRequest) *resend.SendEmailRequest {
	from := req.From
	if from == "" {
		from = s.from
	}
	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
		ReplyTo: req.ReplyTo,
	}
	if req.Kind != "" {
		params.Tags = []resend.Tag{{Name: "kind", Value: req.Kind}}
		params.Headers = map[string]string{KindHeader: req.Kind}
	}
	return params
}

// Send sends a single email via Resend.
// PRE: req has at least one recipient and a subject
// POST: Email is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.request(req))
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "kind", req.Kind, "to", req.To)
		return SendResult{}, fmt.Errorf("resend %s email: %w", req.Kind, err)
	}

	slog.Info("resend_sent", "message_id", sent.Id, "kind", req.Kind, "to", req.To)
	return SendResult{
		MessageID: sent.Id,
		SentAt:    time.Now(),
	}, nil
}
