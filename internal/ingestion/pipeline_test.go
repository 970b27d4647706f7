package ingestion

import (
	"testing"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

func validRequest() *models.NewsRequest {
	return &models.NewsRequest{
		Title:       "headline",
		Content:     "body",
		Lang:        "uk",
		Country:     "UA",
		Source:      "bbc",
		PublishedAt: time.Now(),
		SourceType:  models.SourceTypeManual,
	}
}

func TestValidateRequiresTitle(t *testing.T) {
	req := validRequest()
	req.Title = ""
	err := validate(req)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
}

func TestValidateRequiresContent(t *testing.T) {
	req := validRequest()
	req.Content = ""
	err := validate(req)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for missing content, got %v", err)
	}
}

func TestValidateRequiresSource(t *testing.T) {
	req := validRequest()
	req.Source = ""
	err := validate(req)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for missing source, got %v", err)
	}
}

func TestValidateRequiresPublishedAt(t *testing.T) {
	req := validRequest()
	req.PublishedAt = time.Time{}
	err := validate(req)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected validation error for zero published_at, got %v", err)
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	if err := validate(validRequest()); err != nil {
		t.Fatalf("expected no error for a well-formed request, got %v", err)
	}
}
