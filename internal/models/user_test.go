package models

import (
	"testing"
	"time"
)

func TestEffectivePremium(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		user User
		want bool
	}{
		{"not premium", User{IsPremium: false}, false},
		{"premium, no expiry", User{IsPremium: true}, true},
		{"premium, expired", User{IsPremium: true, PremiumExpiresAt: &past}, false},
		{"premium, not yet expired", User{IsPremium: true, PremiumExpiresAt: &future}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.user.EffectivePremium(now); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}
