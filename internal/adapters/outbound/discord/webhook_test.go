package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charleschow/coinone-dca/internal/telemetry"
)

func TestSendTextPostsContent(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := telemetry.Metrics.WebhooksSent.Value()
	if err := NewNotifier(srv.URL).SendText(context.Background(), "**[주문 ID]**\n abc"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if got.Content != "**[주문 ID]**\n abc" {
		t.Errorf("content = %q", got.Content)
	}
	if telemetry.Metrics.WebhooksSent.Value() != before+1 {
		t.Error("WebhooksSent not incremented")
	}
}

func TestSendTextNon204IsLoggedNotReturned(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"nope"}`))
		}))

		var logs bytes.Buffer
		telemetry.InitWriter(&logs, slog.LevelInfo)
		before := telemetry.Metrics.WebhookFailures.Value()

		if err := NewNotifier(srv.URL).SendText(context.Background(), "hello"); err != nil {
			t.Errorf("status %d: SendText returned %v, want nil", status, err)
		}
		if telemetry.Metrics.WebhookFailures.Value() != before+1 {
			t.Errorf("status %d: WebhookFailures not incremented", status)
		}
		if !strings.Contains(logs.String(), "WARN: discord") {
			t.Errorf("status %d: no warning logged: %q", status, logs.String())
		}
		srv.Close()
	}
	telemetry.Init(slog.LevelInfo)
}

func TestSendTextTransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := NewNotifier(url).SendText(context.Background(), "hello"); err == nil {
		t.Error("expected transport error")
	}
}

func TestSendTextDisabled(t *testing.T) {
	n := NewNotifier("")
	if n.Enabled() {
		t.Fatal("empty webhook URL reports enabled")
	}
	if err := n.SendText(context.Background(), "hello"); err != nil {
		t.Errorf("disabled notifier returned %v", err)
	}
}
