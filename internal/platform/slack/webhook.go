// Package slack delivers notifications to a Slack-compatible incoming
// webhook.
package slack

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

// DefaultTimeout bounds a webhook call when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// WebhookSender posts {"text": ...} payloads to a single webhook URL.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender creates a sender for url. A nil client gets a default
// client with DefaultTimeout.
func NewWebhookSender(url string, client *http.Client) (*WebhookSender, error) {
	if url == "" {
		return nil, errors.New("webhook url cannot be empty")
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &WebhookSender{url: url, client: client}, nil
}

// Send posts text to the webhook.
func (s *WebhookSender) Send(ctx context.Context, text string) error {
	return slack.PostWebhookCustomHTTPContext(ctx, s.url, s.client, &slack.WebhookMessage{
		Text: text,
	})
}
