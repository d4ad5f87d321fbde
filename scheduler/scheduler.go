// SPDX-License-Identifier: GPL-3.0-or-later
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clguard/guardmail/classifier"
	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/log"
	"github.com/clguard/guardmail/mail"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultPassTimeout = 2 * time.Minute

var errPassInFlight = errors.New("previous pass for this account is still running")

// ConnectFunc opens a mail connection for one account pass. The connection
// is exclusively owned by the pass and closed when the pass ends.
type ConnectFunc func(account *domain.Account) (domain.MailConnector, error)

// Scheduler owns the set of configured accounts and drives one end-to-end
// pass per due account each tick: fetch, decode, extract, score, store.
type Scheduler struct {
	persistence domain.Persistence
	connect     ConnectFunc

	configuration *configuration

	mu       sync.Mutex
	inflight map[int64]bool

	l *logrus.Logger
}

func NewScheduler(persistence domain.Persistence, connect ConnectFunc, configFunc ...ConfigFunc) (*Scheduler, error) {
	config := &configuration{
		Strategy:    domain.DefaultStrategy(),
		PassTimeout: DefaultPassTimeout,
	}
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &Scheduler{
		persistence:   persistence,
		connect:       connect,
		configuration: config,
		inflight:      map[int64]bool{},
		l:             log.Logger(log.LOG_SCHEDULER),
	}, nil
}

// Tick runs one scheduling cycle at now. Due accounts are processed
// concurrently; one account's failure never blocks another's pass. The
// returned reports are the only output surface, one per due account.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) []domain.AccountRunReport {
	accounts, err := s.persistence.ActiveAccounts()
	if err != nil {
		s.l.WithField("error", err).Error("Could not list active accounts, skipping tick")
		return nil
	}

	due := []*domain.Account{}
	for _, account := range accounts {
		if account.Due(now) {
			due = append(due, account)
		}
	}

	s.l.WithFields(logrus.Fields{"accounts": len(accounts), "due": len(due)}).Debug("Tick started")
	if len(due) == 0 {
		return []domain.AccountRunReport{}
	}

	reports := make([]domain.AccountRunReport, len(due))
	g := &errgroup.Group{}
	for i, account := range due {
		i, account := i, account
		g.Go(func() error {
			reports[i] = s.runPass(ctx, account, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, report := range reports {
		if report.Err != nil {
			s.l.WithFields(logrus.Fields{
				"report": report.ReportId, "account": report.Address,
				"strategy": report.Strategy, "error": report.Err,
			}).Warn("Account pass failed, will retry next due tick")
		}
	}

	return reports
}

// runPass executes the pipeline for one account. The pass start time, not
// its completion time, becomes the new last_check_at so slow fetches do not
// stretch the effective interval.
func (s *Scheduler) runPass(ctx context.Context, scheduled *domain.Account, now time.Time) (report domain.AccountRunReport) {
	start := time.Now()
	report = domain.AccountRunReport{
		ReportId:  uuid.NewString(),
		AccountId: scheduled.Id,
		Address:   scheduled.Address,
		Strategy:  s.configuration.Strategy.String(),
	}
	defer func() {
		report.Duration = time.Since(start)
	}()

	if !s.begin(scheduled.Id) {
		report.Err = errPassInFlight
		return report
	}
	defer s.end(scheduled.Id)

	// The account may have been edited, deactivated or deleted between the
	// scheduling decision and now; a vanished account is a no-op, not an
	// error.
	account, err := s.persistence.GetAccount(scheduled.Id)
	if err != nil {
		report.Err = err
		return report
	}
	if account == nil || !account.Active {
		s.l.WithField("account", scheduled.Address).Info("Account gone or deactivated, skipping pass")
		return report
	}

	passCtx, cancel := context.WithTimeout(ctx, s.configuration.PassTimeout)
	defer cancel()

	connection, err := s.connect(account)
	if err != nil {
		report.Err = err
		return report
	}
	defer connection.Close()

	messages, err := connection.Fetch(passCtx, s.configuration.Strategy, account.MaxPerCheck)
	if err != nil {
		report.Err = err
		return report
	}

	baseLogger := s.l.WithFields(logrus.Fields{"account": account.Address, "strategy": report.Strategy})
	baseLogger.WithField("mails", len(messages)).Debug("Fetched mails")

	for _, raw := range messages {
		if err := passCtx.Err(); err != nil {
			report.Err = err
			return report
		}

		decoded, err := mail.Decode(*raw)
		if err != nil {
			report.Skipped++
			baseLogger.WithFields(logrus.Fields{"mail": raw.Id, "error": err}).Warn("Could not decode mail, skipping")
			continue
		}

		features := classifier.Extract(decoded)
		result := classifier.Score(features)

		err = s.persistence.SaveEmail(storedEmail(account.Id, decoded, features, result))
		if errors.Is(err, domain.ErrEmailExists) {
			report.Duplicates++
			continue
		}
		if err != nil {
			report.Err = err
			return report
		}

		report.Processed++
		if result.IsSpam {
			report.Spam++
		} else {
			report.Ham++
		}
		baseLogger.WithFields(logrus.Fields{
			"subject": mail.ShortSubject(decoded.Subject), "isSpam": result.IsSpam,
			"score": result.SpamScore, "rules": classifier.TriggeredRules(features),
		}).Debug("Checked mail")
	}

	err = s.persistence.UpdateAccountStats(account.Id, report.Processed, report.Spam, start)
	if err != nil {
		report.Err = err
		return report
	}

	baseLogger.WithFields(logrus.Fields{
		"processed": report.Processed, "spam": report.Spam, "ham": report.Ham,
		"duplicates": report.Duplicates, "skipped": report.Skipped,
		"duration": time.Since(start),
	}).Info("Checked account")

	return report
}

func storedEmail(accountId int64, decoded *domain.DecodedMessage, features domain.FeatureVector, result domain.ClassificationResult) *domain.StoredEmail {
	return &domain.StoredEmail{
		AccountId:      accountId,
		MessageId:      decoded.MessageId,
		Subject:        decoded.Subject,
		Sender:         decoded.Sender,
		SenderDomain:   decoded.SenderDomain,
		Recipient:      decoded.Recipient,
		Content:        decoded.Content,
		Size:           decoded.Size,
		HasAttachments: decoded.HasAttachments,
		Features:       features,
		SpamScore:      result.SpamScore,
		IsSpam:         result.IsSpam,
		Confidence:     result.Confidence,
		ProcessedAt:    time.Now(),
		ReceivedAt:     decoded.ReceivedAt,
	}
}

func (s *Scheduler) begin(accountId int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[accountId] {
		return false
	}
	s.inflight[accountId] = true
	return true
}

func (s *Scheduler) end(accountId int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, accountId)
}
