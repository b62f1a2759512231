package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slack-go/slack"

	"github.com/babylon-agents/babylon-agent/internal/agent"
)

func TestFormatTick(t *testing.T) {
	ok := FormatTick(agent.TickRecord{Tick: 3, Succeeded: true, Summary: "bought YES on m1"})
	if !strings.Contains(ok, "#3") || !strings.Contains(ok, "bought YES on m1") {
		t.Errorf("unexpected message %q", ok)
	}

	failed := FormatTick(agent.TickRecord{Tick: 4, Succeeded: false, Error: "oracle timeout"})
	if !strings.Contains(failed, "failed") || !strings.Contains(failed, "oracle timeout") {
		t.Errorf("unexpected message %q", failed)
	}
}

func TestNotifyPostsToChannel(t *testing.T) {
	var gotChannel, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "chat.postMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "channel": "C123", "ts": "1"}`))
	}))
	defer server.Close()

	n := NewSlackNotifier("xoxb-test", "C123", slack.OptionAPIURL(server.URL+"/"))
	err := n.Notify(context.Background(), agent.TickRecord{
		Tick:      1,
		Succeeded: true,
		Summary:   "holding",
	})
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if gotChannel != "C123" {
		t.Errorf("expected channel C123, got %q", gotChannel)
	}
	if !strings.Contains(gotText, "holding") {
		t.Errorf("expected summary in message, got %q", gotText)
	}
}

func TestNotifyReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer server.Close()

	n := NewSlackNotifier("xoxb-test", "C404", slack.OptionAPIURL(server.URL+"/"))
	err := n.Notify(context.Background(), agent.TickRecord{Tick: 1, Succeeded: true})
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("expected channel_not_found error, got %v", err)
	}
}
