package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"octowatch/internal/modules/notify/domain"
	notifyout "octowatch/internal/modules/notify/port/out"
)

const webhookTimeout = 10 * time.Second

// WebhookSink posts messages to a Discord-compatible webhook. The
// payload carries the message body plus a fixed display username.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string) notifyout.Sink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{
		"content":  message,
		"username": domain.SenderName,
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
