package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

func TestHTTPNotifierNoOpsWithoutBaseURL(t *testing.T) {
	n := NewHTTPNotifier("", time.Second)
	err := n.NotifyDigest(context.Background(), &models.User{ChatUserID: "1"}, nil)
	if err != nil {
		t.Fatalf("expected no-op when base URL unset, got %v", err)
	}
}

func TestHTTPNotifierPostsDigestPayload(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, time.Second)
	link := "https://example.com/a"
	items := []*models.NewsItem{{ID: 1, Title: "hi", Source: "bbc", Link: &link, PublishedAt: time.Now()}}
	if err := n.NotifyDigest(context.Background(), &models.User{ChatUserID: "chat-1"}, items); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if gotPath != "/internal/digest" {
		t.Fatalf("expected webhook path /internal/digest, got %q", gotPath)
	}
}

func TestHTTPNotifierMapsServerErrorToTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, time.Second)
	err := n.NotifyDigest(context.Background(), &models.User{ChatUserID: "chat-1"}, nil)
	if !apperr.Is(err, apperr.CodeTransient) {
		t.Fatalf("expected a transient error for a 5xx webhook response, got %v", err)
	}
}

func TestHTTPNotifierMapsClientErrorToInternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL, time.Second)
	err := n.NotifyDigest(context.Background(), &models.User{ChatUserID: "chat-1"}, nil)
	if !apperr.Is(err, apperr.CodeInternal) {
		t.Fatalf("expected an internal error for a 4xx webhook response, got %v", err)
	}
}

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) NotifyDigest(ctx context.Context, user *models.User, items []*models.NewsItem) error {
	f.calls++
	return f.err
}

func TestMultiNotifierFansOutToEveryChannel(t *testing.T) {
	a := &fakeNotifier{}
	b := &fakeNotifier{}
	m := NewMultiNotifier(a, b)
	if err := m.NotifyDigest(context.Background(), &models.User{}, nil); err != nil {
		t.Fatalf("expected no error when every channel succeeds, got %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected both notifiers invoked, got a=%d b=%d", a.calls, b.calls)
	}
}

func TestMultiNotifierKeepsGoingAfterOneChannelFails(t *testing.T) {
	a := &fakeNotifier{err: errors.New("smtp down")}
	b := &fakeNotifier{}
	m := NewMultiNotifier(a, b)
	err := m.NotifyDigest(context.Background(), &models.User{}, nil)
	if err == nil {
		t.Fatalf("expected the first channel's error to be reported")
	}
	if b.calls != 1 {
		t.Fatalf("expected the second channel to still be attempted, got %d calls", b.calls)
	}
}
