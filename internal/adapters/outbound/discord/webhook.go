package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charleschow/coinone-dca/internal/telemetry"
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

type webhookPayload struct {
	Content string `json:"content"`
}

// SendText posts msg as the webhook's content. Discord answers 204 on
// success; any other status is logged and swallowed. Only transport
// failures are returned.
func (n *Notifier) SendText(ctx context.Context, msg string) error {
	if !n.Enabled() {
		telemetry.Warnf("discord: WEBHOOK_URL not set, dropping %d-byte message", len(msg))
		return nil
	}

	data, err := json.Marshal(webhookPayload{Content: msg})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		telemetry.Errorf("discord: webhook post failed: %v", err)
		return fmt.Errorf("discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		telemetry.Metrics.WebhookFailures.Inc()
		if resp.StatusCode == http.StatusTooManyRequests {
			telemetry.Warnf("discord: rate limited: %s", body)
			return nil
		}
		telemetry.Warnf("discord: failed to deliver message status=%d body=%s", resp.StatusCode, body)
		return nil
	}

	telemetry.Metrics.WebhooksSent.Inc()
	return nil
}
