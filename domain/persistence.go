// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Persistence
package domain

import "time"

// StoredEmail is the persisted union of a decoded message, its feature vector
// and its classification. At most one row exists per (AccountId, MessageId)
// pair for the lifetime of the system.
type StoredEmail struct {
	Id             int64
	AccountId      int64
	MessageId      string
	Subject        string
	Sender         string
	SenderDomain   string
	Recipient      string
	Content        string
	Size           int
	HasAttachments bool
	Features       FeatureVector
	SpamScore      float64
	IsSpam         bool
	Confidence     float64
	ProcessedAt    time.Time
	ReceivedAt     *time.Time
}

// EmailFilter narrows FindEmails results. Nil/zero fields match everything.
type EmailFilter struct {
	AccountId      *int64
	IsSpam         *bool
	MinConfidence  *float64
	MaxConfidence  *float64
	MinScore       *float64
	MaxScore       *float64
	SenderDomain   string
	ReceivedAfter  *time.Time
	ReceivedBefore *time.Time
	Limit          int
}

type Persistence interface {
	Close() error

	UpsertAccounts(accounts []Account) error
	ActiveAccounts() ([]*Account, error)
	GetAccount(id int64) (*Account, error)
	UpdateAccountStats(accountId int64, processed, spam int, startedAt time.Time) error

	EmailExists(accountId int64, messageId string) (bool, error)
	SaveEmail(email *StoredEmail) error
	OverrideClassification(emailId int64, isSpam bool) error
	FindEmails(filter EmailFilter) ([]*StoredEmail, error)
}
