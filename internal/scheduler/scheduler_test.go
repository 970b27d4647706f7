package scheduler

import (
	"testing"
	"time"

	"github.com/korolhresti/newsdigest/internal/config"
)

// newIdleService builds a Service whose tickers are far enough out
// that none of the three tasks fire during a test's lifetime, so the
// store/resolver/notifier fields can stay nil while still exercising
// the real Start/Stop/IsRunning lifecycle.
func newIdleService() *Service {
	cfg := &config.Config{
		DigestInterval:     time.Hour,
		AutoNotifyInterval: time.Hour,
		CleanupInterval:    time.Hour,
	}
	return NewService(cfg, nil, nil, nil, nil, nil, nil, nil)
}

func TestSchedulerStartSetsRunning(t *testing.T) {
	s := newIdleService()
	if s.IsRunning() {
		t.Fatalf("expected a freshly constructed scheduler to not be running")
	}
	s.Start()
	defer s.Stop()
	if !s.IsRunning() {
		t.Fatalf("expected IsRunning() to be true after Start()")
	}
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := newIdleService()
	s.Start()
	defer s.Stop()
	s.Start() // must not panic or double-launch tickers
	if !s.IsRunning() {
		t.Fatalf("expected scheduler to remain running after a second Start()")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := newIdleService()
	s.Start()
	s.Stop()
	if s.IsRunning() {
		t.Fatalf("expected IsRunning() to be false after Stop()")
	}
	s.Stop() // must not panic on a double Stop
}

func TestSchedulerStopBeforeStartIsSafe(t *testing.T) {
	s := newIdleService()
	s.Stop()
	if s.IsRunning() {
		t.Fatalf("expected a never-started scheduler to report not running")
	}
}

func TestPgIntervalSecondsFormatsAsPostgresLiteral(t *testing.T) {
	got := pgIntervalSeconds(10 * time.Minute)
	want := "600 seconds"
	if got != want {
		t.Fatalf("pgIntervalSeconds(10m) = %q, want %q", got, want)
	}
}
