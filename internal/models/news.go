package models

import "time"

// MediaType enumerates the kind of attachment carried by a NewsItem.
type MediaType string

const (
	MediaTypeNone     MediaType = "none"
	MediaTypePhoto    MediaType = "photo"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

// Tone is the enrichment provider's sentiment classification.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
	ToneAnxious  Tone = "anxious"
)

// ModerationStatus is shared by NewsItem, Comment and Source transitions.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// SourceType records where a NewsItem originated, driving the default
// moderation_status per config.AutoApproveSourceTypes.
type SourceType string

const (
	SourceTypeManual   SourceType = "manual"
	SourceTypeRSS      SourceType = "rss"
	SourceTypeTelegram SourceType = "telegram"
	SourceTypeTwitter  SourceType = "twitter"
	SourceTypeWebsite  SourceType = "website"
)

// NewsItem is the unit of content the Feed Resolver serves. Tags and
// Source are supplied at ingest; AIClassifiedTopics, Tone,
// SentimentScore, IsFake and IsDuplicate are filled in once by the
// enrichment pipeline and are thereafter immutable except for
// moderation and duplicate-flag updates.
type NewsItem struct {
	ID                 int64            `json:"id" db:"id"`
	Title              string           `json:"title" db:"title"`
	Content            string           `json:"content" db:"content"`
	Lang               string           `json:"lang" db:"lang"`
	Country            string           `json:"country" db:"country"`
	Tags               StringArray      `json:"tags" db:"tags"`
	AIClassifiedTopics StringArray      `json:"ai_classified_topics" db:"ai_classified_topics"`
	Source             string           `json:"source" db:"source"`
	Link               *string          `json:"link" db:"link"`
	MediaType          MediaType        `json:"media_type" db:"media_type"`
	FileID             *string          `json:"file_id" db:"file_id"`
	PublishedAt        time.Time        `json:"published_at" db:"published_at"`
	ExpiresAt          time.Time        `json:"expires_at" db:"expires_at"`
	Tone               *Tone            `json:"tone" db:"tone"`
	SentimentScore     *float64         `json:"sentiment_score" db:"sentiment_score"`
	IsFake             *bool            `json:"is_fake" db:"is_fake"`
	IsDuplicate        bool             `json:"is_duplicate" db:"is_duplicate"`
	ModerationStatus   ModerationStatus `json:"moderation_status" db:"moderation_status"`
	SourceType         SourceType       `json:"source_type" db:"source_type"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

// NewsRequest is the ingestion pipeline's public input.
// ExpiresAt and ModerationStatus are computed by the pipeline, not
// supplied by the caller.
type NewsRequest struct {
	Title       string
	Content     string
	Lang        string
	Country     string
	Tags        []string
	Source      string
	Link        *string
	FileID      *string
	MediaType   MediaType
	PublishedAt time.Time
	SourceType  SourceType
	// TTL overrides config.DefaultNewsTTL when non-zero.
	TTL *time.Duration
}
