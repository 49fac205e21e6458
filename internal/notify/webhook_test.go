package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhook_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	wh := NewWebhook(ts.URL)
	if wh == nil {
		t.Fatal("expected webhook client")
	}
	if err := wh.Send(context.Background(), "Air Quality Alert", "AQI 182"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if !strings.HasPrefix(got, "*Air Quality Alert*") {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestWebhook_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	if err := NewWebhook(ts.URL).Send(context.Background(), "X", "Y"); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestWebhook_EmptyURLDisabled(t *testing.T) {
	if NewWebhook("") != nil {
		t.Fatal("empty URL should yield nil client")
	}
}

func TestMulti_ReportsFirstFailureButTriesAll(t *testing.T) {
	calls := 0
	ok := notifierFunc(func(ctx context.Context, subject, body string) error {
		calls++
		return nil
	})
	bad := notifierFunc(func(ctx context.Context, subject, body string) error {
		calls++
		return context.DeadlineExceeded
	})

	err := Multi{bad, nil, ok}.Send(context.Background(), "s", "b")
	if err == nil {
		t.Fatal("expected first failure to surface")
	}
	if calls != 2 {
		t.Fatalf("expected both real channels attempted, got %d", calls)
	}
}

type notifierFunc func(ctx context.Context, subject, body string) error

func (f notifierFunc) Send(ctx context.Context, subject, body string) error {
	return f(ctx, subject, body)
}
