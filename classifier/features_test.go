// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"testing"

	"github.com/clguard/guardmail/domain"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmptyMessage(t *testing.T) {
	features := Extract(&domain.DecodedMessage{})

	assert.Equal(t, 0, features.SubjectLength)
	assert.Equal(t, 0, features.ContentLength)
	// Subject and content are joined with a separator
	assert.Equal(t, 1, features.TotalLength)
	assert.Equal(t, 0.0, features.CapsRatio)
	assert.Equal(t, 0, features.ExclamationCount)
	assert.Equal(t, 0, features.UrgentWords)
	assert.Equal(t, 0, features.SpamWords)
	assert.False(t, features.SuspiciousDomain)
	assert.Equal(t, 0, features.LinkCount)
	assert.False(t, features.HasAttachments)
}

func TestExtractLengthsAndPunctuation(t *testing.T) {
	message := &domain.DecodedMessage{
		Subject: "Hello",
		Content: "Is this real?! It costs $5!",
	}

	features := Extract(message)

	assert.Equal(t, 5, features.SubjectLength)
	assert.Equal(t, 27, features.ContentLength)
	assert.Equal(t, 33, features.TotalLength)
	assert.Equal(t, 2, features.ExclamationCount)
	assert.Equal(t, 1, features.QuestionCount)
	assert.Equal(t, 1, features.DollarCount)
}

func TestExtractCapsRatio(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		content string
		ratio   float64
	}{
		{"allupper", "ABC", "DEFG", 7.0 / 9.0},
		{"alllower", "abc", "defg", 0},
		{"mixed", "AbCd", "", 2.0 / 5.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features := Extract(&domain.DecodedMessage{Subject: tc.subject, Content: tc.content})
			assert.InDelta(t, tc.ratio, features.CapsRatio, 1e-9)
		})
	}
}

func TestExtractWordPresence(t *testing.T) {
	message := &domain.DecodedMessage{
		Subject: "URGENT offer",
		// "free" repeats but counts once; "urgent" matches inside "urgently"
		Content: "free free money, act urgently",
	}

	features := Extract(message)

	assert.Equal(t, 1, features.UrgentWords)
	assert.Equal(t, 3, features.SpamWords)
}

func TestExtractLinksOnlyInContent(t *testing.T) {
	message := &domain.DecodedMessage{
		Subject: "see https://subject.example",
		Content: "visit http://a.example and https://b.example now",
	}

	assert.Equal(t, 2, Extract(message).LinkCount)
}

func TestExtractSuspiciousSender(t *testing.T) {
	tests := []struct {
		name       string
		sender     string
		suspicious bool
	}{
		{"clean", "alice@example.com", false},
		{"denylisted", "offers@scam.com", true},
		{"uppercase", "Win Big <PROMO@SPAM.COM>", true},
		{"subdomain", "news@mail.phishing.com", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features := Extract(&domain.DecodedMessage{Sender: tc.sender})
			assert.Equal(t, tc.suspicious, features.SuspiciousDomain)
		})
	}
}
