// Package models defines the domain types for the news digest backend:
// users, news items, filters, custom feeds, blocks, subscriptions,
// interactions and the referral/admin bookkeeping around them.
//
// Models use struct tags for JSON serialization (`json:"field_name"`,
// API responses) and name their column in `db:"column_name"`;
// internal/store's hand-written SQL scans columns by position and does
// not read the db tags. Set-valued Postgres columns
// (TEXT[]) scan through StringArray, which wraps github.com/lib/pq.
package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// StringArray adapts a Go []string to a Postgres TEXT[] column via
// driver.Valuer/sql.Scanner, delegating to github.com/lib/pq for the
// actual wire format. Used for NewsItem.Tags, NewsItem.AIClassifiedTopics
// and CustomFeed filter value lists.
type StringArray []string

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	return pq.Array([]string(a)).Value()
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	return pq.Array((*[]string)(a)).Scan(value)
}

// Contains reports whether value is present in the array (case-sensitive).
func (a StringArray) Contains(value string) bool {
	for _, v := range a {
		if v == value {
			return true
		}
	}
	return false
}

// Overlaps reports whether any element of a is also in b.
func (a StringArray) Overlaps(b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
