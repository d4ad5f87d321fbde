// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/clguard/guardmail/domain"
)

// Word lists and the domain denylist are matched case-insensitively as
// substrings of subject+body. Kept stable for compatibility with historical
// classifications.
var (
	urgentWords = []string{"urgente", "urgent", "important", "importante", "actúa", "actua"}
	spamWords   = []string{"gratis", "free", "gana", "win", "dinero", "money", "oferta", "offer"}

	suspiciousDomains = []string{
		"spam.com", "malware.com", "virus.com", "fake.com",
		"suspicious.com", "scam.com", "phishing.com",
	}

	linkPattern = regexp.MustCompile(`https?://`)
)

// Extract computes the feature vector for one decoded message. It is a pure,
// total function: every field is zero/false on empty input.
func Extract(m *domain.DecodedMessage) domain.FeatureVector {
	fullText := m.Subject + " " + m.Content
	lowerText := strings.ToLower(fullText)

	return domain.FeatureVector{
		SubjectLength:    len(m.Subject),
		ContentLength:    len(m.Content),
		TotalLength:      len(fullText),
		CapsRatio:        capsRatio(fullText),
		ExclamationCount: strings.Count(lowerText, "!"),
		QuestionCount:    strings.Count(lowerText, "?"),
		DollarCount:      strings.Count(lowerText, "$"),
		UrgentWords:      countWords(lowerText, urgentWords),
		SpamWords:        countWords(lowerText, spamWords),
		SuspiciousDomain: suspiciousSender(m.Sender),
		LinkCount:        len(linkPattern.FindAllStringIndex(m.Content, -1)),
		HasAttachments:   m.HasAttachments,
	}
}

func capsRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}

	upper, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// countWords counts how many of the listed words occur in text. A word that
// appears several times still counts once; a word inside a larger word counts
// too, which is intended.
func countWords(text string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			count++
		}
	}
	return count
}

func suspiciousSender(sender string) bool {
	senderLower := strings.ToLower(sender)
	for _, domainName := range suspiciousDomains {
		if strings.Contains(senderLower, domainName) {
			return true
		}
	}
	return false
}
