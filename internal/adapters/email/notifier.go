package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	domain "fitpro/internal/domain/email"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a markdown body to an HTML document fragment.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

// Notifier turns domain messages into provider requests.
type Notifier struct {
	sender  Sender
	from    string
	replyTo string
}

// NewNotifier creates a Notifier that sends through sender.
func NewNotifier(sender Sender, from, replyTo string) *Notifier {
	return &Notifier{sender: sender, from: from, replyTo: replyTo}
}

// Deliver renders msg and hands it to the sender.
// PRE: msg passes Validate
// POST: Message accepted by the provider, or an error
func (n *Notifier) Deliver(ctx context.Context, msg domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	html, err := RenderMarkdown(msg.Body)
	if err != nil {
		return err
	}
	_, err = n.sender.Send(ctx, SendRequest{
		To:      []string{msg.To},
		From:    n.from,
		Subject: msg.Subject,
		HTML:    html,
		Text:    msg.Body,
		ReplyTo: n.replyTo,
		Kind:    string(msg.Kind),
	})
	return err
}
