// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/log"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

type dbAccount struct {
	Id            int64      `db:"id"`
	Address       string     `db:"address"`
	Password      string     `db:"password"`
	Server        string     `db:"server"`
	Port          int        `db:"port"`
	Protocol      string     `db:"protocol"`
	IsActive      bool       `db:"is_active"`
	CheckInterval int        `db:"check_interval"`
	MaxPerCheck   int        `db:"max_per_check"`
	LastCheckAt   *time.Time `db:"last_check_at"`
	TotalChecked  int64      `db:"total_checked"`
	TotalSpam     int64      `db:"total_spam"`
}

const accountColumns = `id, address, password, server, port, protocol, is_active,
	check_interval, max_per_check, last_check_at, total_checked, total_spam`

func (a *dbAccount) toDomain() *domain.Account {
	return &domain.Account{
		Id:            a.Id,
		Address:       a.Address,
		Password:      a.Password,
		Server:        a.Server,
		Port:          a.Port,
		Protocol:      a.Protocol,
		Active:        a.IsActive,
		CheckInterval: a.CheckInterval,
		MaxPerCheck:   a.MaxPerCheck,
		LastCheckAt:   a.LastCheckAt,
		TotalChecked:  a.TotalChecked,
		TotalSpam:     a.TotalSpam,
	}
}

// UpsertAccounts mirrors the configured account list into email_accounts.
// Config fields are overwritten, counters and last_check_at stay untouched;
// rows for addresses no longer configured are deactivated.
func (p *Persistence) UpsertAccounts(accounts []domain.Account) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO email_accounts (address, password, server, port, protocol, is_active, check_interval, max_per_check)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (address) DO UPDATE SET
			password = excluded.password,
			server = excluded.server,
			port = excluded.port,
			protocol = excluded.protocol,
			is_active = excluded.is_active,
			check_interval = excluded.check_interval,
			max_per_check = excluded.max_per_check`,
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}

	addresses := []string{}
	for _, a := range accounts {
		_, err := stmt.Exec(a.Address, a.Password, a.Server, a.Port, a.Protocol, a.Active, a.CheckInterval, a.MaxPerCheck)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not upsert account %s: %w", a.Address, err))
		}
		addresses = append(addresses, a.Address)
	}

	if len(addresses) > 0 {
		qry, args, err := sqlx.In("UPDATE email_accounts SET is_active = 0 WHERE address NOT IN (?)", addresses)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not create deactivation query: %w", err))
		}
		_, err = tx.Exec(qry, args...)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not deactivate removed accounts: %w", err))
		}
	}

	err = txEnd(tx, nil)
	if err != nil {
		return err
	}

	p.l.WithField("accounts", len(accounts)).Info("Synced accounts")
	return nil
}

func (p *Persistence) ActiveAccounts() ([]*domain.Account, error) {
	dbAccounts := []dbAccount{}
	err := p.db.Select(
		&dbAccounts,
		`SELECT `+accountColumns+` FROM email_accounts WHERE is_active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	accounts := []*domain.Account{}
	for i := range dbAccounts {
		accounts = append(accounts, dbAccounts[i].toDomain())
	}
	return accounts, nil
}

// GetAccount returns nil without error when the account no longer exists,
// so a scheduling decision made against a stale list degrades to a no-op.
func (p *Persistence) GetAccount(id int64) (*domain.Account, error) {
	dbAcc := dbAccount{}
	err := p.db.Get(
		&dbAcc,
		`SELECT `+accountColumns+` FROM email_accounts WHERE id = ?`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	return dbAcc.toDomain(), nil
}

// UpdateAccountStats advances last_check_at to the pass start time and adds
// the pass counts to the cumulative counters in one statement.
func (p *Persistence) UpdateAccountStats(accountId int64, processed, spam int, startedAt time.Time) error {
	result, err := p.db.Exec(
		`UPDATE email_accounts
		 SET last_check_at = ?, total_checked = total_checked + ?, total_spam = total_spam + ?
		 WHERE id = ?`,
		startedAt, processed, spam, accountId,
	)
	if err != nil {
		return fmt.Errorf("could not update account stats: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get num of affected rows: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("unexpected number of affected rows, expected 1 got %d", affected)
	}

	return nil
}

func (p *Persistence) EmailExists(accountId int64, messageId string) (bool, error) {
	var count int
	err := p.db.Get(
		&count,
		`SELECT COUNT(*) FROM analyzed_emails WHERE account_id = ? AND email_id = ?`,
		accountId, messageId,
	)
	if err != nil {
		return false, fmt.Errorf("could not query db: %w", err)
	}
	return count > 0, nil
}

// SaveEmail stores one email with its features as a single logical unit:
// existence check, email insert and feature insert share one transaction. A
// duplicate (account, message) pair returns ErrEmailExists, whether caught by
// the check or by the unique constraint.
func (p *Persistence) SaveEmail(email *domain.StoredEmail) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	var existingId int64
	err = tx.Get(
		&existingId,
		`SELECT id FROM analyzed_emails WHERE account_id = ? AND email_id = ?`,
		email.AccountId, email.MessageId,
	)
	if err == nil {
		return txEnd(tx, domain.ErrEmailExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return txEnd(tx, fmt.Errorf("could not check for existing email: %w", err))
	}

	result, err := tx.Exec(
		`INSERT INTO analyzed_emails (
			account_id, email_id, subject, sender, sender_domain, recipient,
			content, email_size, has_attachments, is_spam, confidence,
			spam_score, processed_at, received_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		email.AccountId, email.MessageId, email.Subject, email.Sender,
		email.SenderDomain, email.Recipient, email.Content, email.Size,
		email.HasAttachments, email.IsSpam, email.Confidence, email.SpamScore,
		email.ProcessedAt, email.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return txEnd(tx, domain.ErrEmailExists)
		}
		return txEnd(tx, fmt.Errorf("could not save email: %w", err))
	}

	emailId, err := result.LastInsertId()
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not get inserted id: %w", err))
	}

	f := email.Features
	_, err = tx.Exec(
		`INSERT INTO email_features (
			email_id, subject_length, content_length, total_length, caps_ratio,
			exclamation_count, question_count, dollar_count, urgent_words,
			spam_words, has_suspicious_domain, link_count, has_attachments,
			extracted_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emailId, f.SubjectLength, f.ContentLength, f.TotalLength, f.CapsRatio,
		f.ExclamationCount, f.QuestionCount, f.DollarCount, f.UrgentWords,
		f.SpamWords, f.SuspiciousDomain, f.LinkCount, f.HasAttachments,
		email.ProcessedAt,
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not save email features: %w", err))
	}

	err = txEnd(tx, nil)
	if err != nil {
		return err
	}

	email.Id = emailId
	return nil
}

// OverrideClassification is the manual-reclassification entry point for
// external collaborators. It flips the verdict and sets confidence to 1.0;
// score, features and message fields stay as scored.
func (p *Persistence) OverrideClassification(emailId int64, isSpam bool) error {
	result, err := p.db.Exec(
		`UPDATE analyzed_emails SET is_spam = ?, confidence = 1.0 WHERE id = ?`,
		isSpam, emailId,
	)
	if err != nil {
		return fmt.Errorf("could not override classification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get num of affected rows: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("unexpected number of affected rows, expected 1 got %d", affected)
	}

	p.l.WithFields(logrus.Fields{"id": emailId, "isSpam": isSpam}).Info("Overrode classification")
	return nil
}

type dbEmail struct {
	Id             int64      `db:"id"`
	AccountId      int64      `db:"account_id"`
	MessageId      string     `db:"email_id"`
	Subject        string     `db:"subject"`
	Sender         string     `db:"sender"`
	SenderDomain   string     `db:"sender_domain"`
	Recipient      string     `db:"recipient"`
	Content        string     `db:"content"`
	Size           int        `db:"email_size"`
	HasAttachments bool       `db:"has_attachments"`
	IsSpam         bool       `db:"is_spam"`
	Confidence     float64    `db:"confidence"`
	SpamScore      float64    `db:"spam_score"`
	ProcessedAt    time.Time  `db:"processed_at"`
	ReceivedAt     *time.Time `db:"received_at"`

	SubjectLength    int     `db:"subject_length"`
	ContentLength    int     `db:"content_length"`
	TotalLength      int     `db:"total_length"`
	CapsRatio        float64 `db:"caps_ratio"`
	ExclamationCount int     `db:"exclamation_count"`
	QuestionCount    int     `db:"question_count"`
	DollarCount      int     `db:"dollar_count"`
	UrgentWords      int     `db:"urgent_words"`
	SpamWords        int     `db:"spam_words"`
	Suspicious       bool    `db:"has_suspicious_domain"`
	LinkCount        int     `db:"link_count"`
	FeatAttachments  bool    `db:"feat_attachments"`
}

// FindEmails is the query surface for downstream collaborators. Nil filter
// fields match everything; results are newest-first.
func (p *Persistence) FindEmails(filter domain.EmailFilter) ([]*domain.StoredEmail, error) {
	clauses := []string{"1 = 1"}
	args := []interface{}{}

	addClause := func(clause string, arg interface{}) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if filter.AccountId != nil {
		addClause("e.account_id = ?", *filter.AccountId)
	}
	if filter.IsSpam != nil {
		addClause("e.is_spam = ?", *filter.IsSpam)
	}
	if filter.MinConfidence != nil {
		addClause("e.confidence >= ?", *filter.MinConfidence)
	}
	if filter.MaxConfidence != nil {
		addClause("e.confidence <= ?", *filter.MaxConfidence)
	}
	if filter.MinScore != nil {
		addClause("e.spam_score >= ?", *filter.MinScore)
	}
	if filter.MaxScore != nil {
		addClause("e.spam_score <= ?", *filter.MaxScore)
	}
	if len(filter.SenderDomain) > 0 {
		addClause("e.sender_domain = ?", filter.SenderDomain)
	}
	if filter.ReceivedAfter != nil {
		addClause("e.received_at >= ?", *filter.ReceivedAfter)
	}
	if filter.ReceivedBefore != nil {
		addClause("e.received_at <= ?", *filter.ReceivedBefore)
	}

	qry := `SELECT e.id, e.account_id, e.email_id, e.subject, e.sender, e.sender_domain,
			e.recipient, e.content, e.email_size, e.has_attachments, e.is_spam,
			e.confidence, e.spam_score, e.processed_at, e.received_at,
			f.subject_length, f.content_length, f.total_length, f.caps_ratio,
			f.exclamation_count, f.question_count, f.dollar_count, f.urgent_words,
			f.spam_words, f.has_suspicious_domain, f.link_count,
			f.has_attachments AS feat_attachments
		FROM analyzed_emails e
		JOIN email_features f ON f.email_id = e.id
		WHERE ` + strings.Join(clauses, " AND ") + `
		ORDER BY e.processed_at DESC`

	if filter.Limit > 0 {
		qry += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	dbEmails := []dbEmail{}
	err := p.db.Select(&dbEmails, qry, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	emails := []*domain.StoredEmail{}
	for i := range dbEmails {
		emails = append(emails, dbEmails[i].toDomain())
	}
	return emails, nil
}

func (e *dbEmail) toDomain() *domain.StoredEmail {
	return &domain.StoredEmail{
		Id:             e.Id,
		AccountId:      e.AccountId,
		MessageId:      e.MessageId,
		Subject:        e.Subject,
		Sender:         e.Sender,
		SenderDomain:   e.SenderDomain,
		Recipient:      e.Recipient,
		Content:        e.Content,
		Size:           e.Size,
		HasAttachments: e.HasAttachments,
		Features: domain.FeatureVector{
			SubjectLength:    e.SubjectLength,
			ContentLength:    e.ContentLength,
			TotalLength:      e.TotalLength,
			CapsRatio:        e.CapsRatio,
			ExclamationCount: e.ExclamationCount,
			QuestionCount:    e.QuestionCount,
			DollarCount:      e.DollarCount,
			UrgentWords:      e.UrgentWords,
			SpamWords:        e.SpamWords,
			SuspiciousDomain: e.Suspicious,
			LinkCount:        e.LinkCount,
			HasAttachments:   e.FeatAttachments,
		},
		SpamScore:   e.SpamScore,
		IsSpam:      e.IsSpam,
		Confidence:  e.Confidence,
		ProcessedAt: e.ProcessedAt,
		ReceivedAt:  e.ReceivedAt,
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
