// SPDX-License-Identifier: GPL-3.0-or-later
package domain

// FeatureVector is the fixed-shape heuristic input derived from exactly one
// DecodedMessage and nothing else.
type FeatureVector struct {
	SubjectLength    int
	ContentLength    int
	TotalLength      int
	CapsRatio        float64
	ExclamationCount int
	QuestionCount    int
	DollarCount      int
	UrgentWords      int
	SpamWords        int
	SuspiciousDomain bool
	LinkCount        int
	HasAttachments   bool
}

type ClassificationResult struct {
	SpamScore  float64
	IsSpam     bool
	Confidence float64
}
