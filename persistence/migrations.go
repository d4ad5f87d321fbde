// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	migrate "github.com/rubenv/sql-migrate"
)

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1_initial",
			Up: []string{
				`CREATE TABLE email_accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					address TEXT UNIQUE NOT NULL,
					password TEXT NOT NULL,
					server TEXT NOT NULL,
					port INTEGER NOT NULL,
					protocol TEXT NOT NULL DEFAULT 'IMAP',
					is_active BOOLEAN NOT NULL DEFAULT 1,
					check_interval INTEGER NOT NULL DEFAULT 15,
					max_per_check INTEGER NOT NULL DEFAULT 50,
					created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					last_check_at TIMESTAMP,
					total_checked INTEGER NOT NULL DEFAULT 0,
					total_spam INTEGER NOT NULL DEFAULT 0
				)`,
				// The UNIQUE pair is the dedup invariant. The explicit
				// check in SaveEmail is sufficient under one writer per
				// account; this constraint is the backstop for any
				// concurrent-writer deployment.
				`CREATE TABLE analyzed_emails (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL REFERENCES email_accounts(id),
					email_id TEXT NOT NULL,
					subject TEXT,
					sender TEXT,
					sender_domain TEXT,
					recipient TEXT,
					content TEXT,
					email_size INTEGER NOT NULL DEFAULT 0,
					has_attachments BOOLEAN NOT NULL DEFAULT 0,
					is_spam BOOLEAN NOT NULL,
					confidence FLOAT NOT NULL,
					spam_score FLOAT NOT NULL,
					processed_at TIMESTAMP NOT NULL,
					received_at TIMESTAMP,
					UNIQUE (account_id, email_id)
				)`,
				`CREATE TABLE email_features (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					email_id INTEGER NOT NULL REFERENCES analyzed_emails(id),
					subject_length INTEGER NOT NULL,
					content_length INTEGER NOT NULL,
					total_length INTEGER NOT NULL,
					caps_ratio FLOAT NOT NULL,
					exclamation_count INTEGER NOT NULL,
					question_count INTEGER NOT NULL,
					dollar_count INTEGER NOT NULL,
					urgent_words INTEGER NOT NULL,
					spam_words INTEGER NOT NULL,
					has_suspicious_domain BOOLEAN NOT NULL,
					link_count INTEGER NOT NULL,
					has_attachments BOOLEAN NOT NULL,
					extracted_at TIMESTAMP NOT NULL
				)`,
				`CREATE INDEX idx_analyzed_emails_sender_domain ON analyzed_emails (sender_domain)`,
				`CREATE INDEX idx_analyzed_emails_received_at ON analyzed_emails (received_at)`,
				`CREATE INDEX idx_email_features_email_id ON email_features (email_id)`,
			},
			Down: []string{
				`DROP TABLE email_features`,
				`DROP TABLE analyzed_emails`,
				`DROP TABLE email_accounts`,
			},
		},
	},
}
