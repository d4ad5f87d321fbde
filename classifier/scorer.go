// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"math"

	"github.com/clguard/guardmail/domain"
)

const spamThreshold = 0.6

type rule struct {
	name    string
	applies func(domain.FeatureVector) bool
	weight  float64
}

// The rule table is ordered and fixed. Weights and thresholds must not change
// without migrating historical classifications.
var rules = []rule{
	{"caps_ratio", func(f domain.FeatureVector) bool { return f.CapsRatio > 0.3 }, 0.2},
	{"exclamations", func(f domain.FeatureVector) bool { return f.ExclamationCount > 3 }, 0.15},
	{"urgent_words", func(f domain.FeatureVector) bool { return f.UrgentWords > 0 }, 0.25},
	{"spam_words", func(f domain.FeatureVector) bool { return f.SpamWords > 2 }, 0.2},
	{"suspicious_domain", func(f domain.FeatureVector) bool { return f.SuspiciousDomain }, 0.3},
	{"many_links", func(f domain.FeatureVector) bool { return f.LinkCount > 5 }, 0.1},
}

// Score applies the additive heuristic to a feature vector. Deterministic:
// identical vectors always yield identical results.
func Score(features domain.FeatureVector) domain.ClassificationResult {
	score := 0.0
	for _, r := range rules {
		if r.applies(features) {
			score += r.weight
		}
	}

	return domain.ClassificationResult{
		SpamScore:  score,
		IsSpam:     score > spamThreshold,
		Confidence: math.Min(score*1.5, 1.0),
	}
}

// TriggeredRules names the rules a vector crosses, in table order. Used for
// run report logging.
func TriggeredRules(features domain.FeatureVector) []string {
	names := []string{}
	for _, r := range rules {
		if r.applies(features) {
			names = append(names, r.name)
		}
	}
	return names
}
