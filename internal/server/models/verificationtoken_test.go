package models

import (
	"testing"
	"time"
)

func TestVerificationToken_Expired(t *testing.T) {
	exp := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	tok := &VerificationToken{ExpiresAt: exp}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", exp.Add(-time.Second), false},
		{"exactly at expiry", exp, true},
		{"after", exp.Add(time.Minute), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tok.Expired(tc.now); got != tc.want {
				t.Fatalf("Expired(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
