package models

import "time"

// Filter is a user's base scalar filter row, at most one per user. A
// nil field means "no constraint" — the zero value for each pointer
// field, not an empty string, so the Feed Resolver can distinguish
// "unset" from "match empty string".
type Filter struct {
	UserID      int     `json:"user_id" db:"user_id"`
	Tag         *string `json:"tag" db:"tag"`
	Category    *string `json:"category" db:"category"`
	Source      *string `json:"source" db:"source"`
	Language    *string `json:"language" db:"language"`
	Country     *string `json:"country" db:"country"`
	ContentType *string `json:"content_type" db:"content_type"`
}

// FilterKind enumerates the dynamic-kind filter arguments a CustomFeed
// can carry: a tagged discriminated value persisted as structured JSON.
type FilterKind string

const (
	FilterKindTags         FilterKind = "tags"
	FilterKindSources      FilterKind = "sources"
	FilterKindLanguages    FilterKind = "languages"
	FilterKindCountries    FilterKind = "countries"
	FilterKindContentTypes FilterKind = "content_types"
)

// FeedFilters maps each kind present to the list of allowed values;
// within a kind the match is OR, across kinds it is AND.
type FeedFilters map[FilterKind][]string

// CustomFeed is a named, user-owned bundle of inclusion filters. When
// a user's CurrentFeedID points at one, it replaces the Filter row
// during resolution.
type CustomFeed struct {
	ID        int         `json:"id" db:"id"`
	UserID    int         `json:"user_id" db:"user_id"`
	FeedName  string      `json:"feed_name" db:"feed_name"`
	Filters   FeedFilters `json:"filters" db:"filters"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// BlockType enumerates the attribute a Block row excludes on.
type BlockType string

const (
	BlockTypeTag      BlockType = "tag"
	BlockTypeSource   BlockType = "source"
	BlockTypeLanguage BlockType = "language"
	BlockTypeCategory BlockType = "category"
)

// Block is a (user, block_type, value) triple; unique on the triple.
type Block struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	BlockType BlockType `json:"block_type" db:"block_type"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Frequency is a Subscription's delivery cadence.
type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
)

// Subscription is a user's digest delivery preference; at most one row
// per user.
type Subscription struct {
	UserID          int        `json:"user_id" db:"user_id"`
	Active          bool       `json:"active" db:"active"`
	Frequency       Frequency  `json:"frequency" db:"frequency"`
	LastDispatchedAt *time.Time `json:"last_dispatched_at" db:"last_dispatched_at"`
}
