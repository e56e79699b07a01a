package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDiscordNotify(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshaling payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(srv.URL)
	if err != nil {
		t.Fatalf("NewDiscordNotifier: %v", err)
	}
	if err := n.Notify(context.Background(), "sync failed: 3 events could not be upserted"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if received["content"] != "sync failed: 3 events could not be upserted" {
		t.Errorf("content = %q", received["content"])
	}
}

func TestDiscordNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(srv.URL)
	if err != nil {
		t.Fatalf("NewDiscordNotifier: %v", err)
	}
	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error on a non-2xx response")
	}
}

func TestDiscordNotifyTruncatesLongMessages(t *testing.T) {
	var content string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshaling payload: %v", err)
		}
		content = payload["content"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(srv.URL)
	if err != nil {
		t.Fatalf("NewDiscordNotifier: %v", err)
	}
	if err := n.Notify(context.Background(), strings.Repeat("x", 3000)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(content) != discordMessageLimit {
		t.Errorf("content length = %d, want %d", len(content), discordMessageLimit)
	}
	if !strings.HasSuffix(content, "...") {
		t.Error("truncated message should end with an ellipsis")
	}
}

func TestDiscordNotifyTruncatesOnRuneBoundary(t *testing.T) {
	var content string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshaling payload: %v", err)
		}
		content = payload["content"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewDiscordNotifier(srv.URL)
	if err != nil {
		t.Fatalf("NewDiscordNotifier: %v", err)
	}
	if err := n.Notify(context.Background(), strings.Repeat("é", 3000)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !utf8.ValidString(content) {
		t.Fatal("truncation split a multi-byte character")
	}
	if got := len([]rune(content)); got != discordMessageLimit {
		t.Errorf("content length = %d characters, want %d", got, discordMessageLimit)
	}
	if !strings.HasSuffix(content, "...") {
		t.Error("truncated message should end with an ellipsis")
	}
}

func TestNewDiscordNotifierRequiresURL(t *testing.T) {
	if _, err := NewDiscordNotifier(""); err == nil {
		t.Fatal("expected an error for an empty webhook URL")
	}
}
