// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountDue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		lastCheckAt *time.Time
		due         bool
	}{
		{"nevercheckedyet", nil, true},
		{"justchecked", timePtr(now), false},
		{"withininterval", timePtr(now.Add(-14 * time.Minute)), false},
		{"exactlyatinterval", timePtr(now.Add(-15 * time.Minute)), true},
		{"overdue", timePtr(now.Add(-2 * time.Hour)), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			account := &Account{CheckInterval: 15, LastCheckAt: tc.lastCheckAt}
			assert.Equal(t, tc.due, account.Due(now))
		})
	}
}

func TestAccountHost(t *testing.T) {
	account := &Account{Server: "imap.example.com", Port: 993}

	assert.Equal(t, "imap.example.com:993", account.Host())
}

func TestFetchStrategyString(t *testing.T) {
	assert.Equal(t, "default", DefaultStrategy().String())
	assert.Equal(t, "all", AllStrategy().String())
	assert.Equal(t, "recent(3d)", RecentStrategy(3).String())
}

func timePtr(t time.Time) *time.Time {
	return &t
}
