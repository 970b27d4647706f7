package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.EnrichmentBackend != "heuristic" {
		t.Errorf("EnrichmentBackend default: got %q, want heuristic", cfg.EnrichmentBackend)
	}
	if cfg.DefaultNewsTTL != 5*time.Hour {
		t.Errorf("DefaultNewsTTL default: got %v, want 5h", cfg.DefaultNewsTTL)
	}
	if !cfg.AutoApproveSourceTypes["manual"] || !cfg.AutoApproveSourceTypes["rss"] {
		t.Error("expected manual and rss to auto-approve by default")
	}
	if cfg.AutoApproveSourceTypes["telegram"] {
		t.Error("expected telegram to not auto-approve by default")
	}
	if cfg.TrendingRatingWeight != 10.0 {
		t.Errorf("TrendingRatingWeight: got %v, want 10", cfg.TrendingRatingWeight)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("ENRICHMENT_BACKEND", "ollama")
	t.Setenv("TRENDING_LIMIT", "50")
	t.Setenv("DEFAULT_NEWS_TTL", "2h")

	cfg := Load()
	if cfg.EnrichmentBackend != "ollama" {
		t.Errorf("got %q, want ollama", cfg.EnrichmentBackend)
	}
	if cfg.TrendingLimit != 50 {
		t.Errorf("got %d, want 50", cfg.TrendingLimit)
	}
	if cfg.DefaultNewsTTL != 2*time.Hour {
		t.Errorf("got %v, want 2h", cfg.DefaultNewsTTL)
	}
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	t.Setenv("DEFAULT_NEWS_TTL", "not-a-duration")
	cfg := Load()
	if cfg.DefaultNewsTTL != 5*time.Hour {
		t.Errorf("expected fallback of 5h for malformed duration, got %v", cfg.DefaultNewsTTL)
	}
}
