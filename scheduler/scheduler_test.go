// SPDX-License-Identifier: GPL-3.0-or-later
package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/domain/mocks"
	"github.com/clguard/guardmail/log"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, persistence domain.Persistence, connect ConnectFunc) *Scheduler {
	t.Helper()
	log.InitLogging("error")

	s, err := NewScheduler(persistence, connect)
	require.NoError(t, err)
	return s
}

func connectTo(connection domain.MailConnector) ConnectFunc {
	return func(*domain.Account) (domain.MailConnector, error) {
		return connection, nil
	}
}

func dueAccount(id int64, address string) *domain.Account {
	return &domain.Account{
		Id:            id,
		Address:       address,
		Server:        "imap.example.com",
		Port:          993,
		Protocol:      "IMAP",
		Active:        true,
		CheckInterval: 15,
		MaxPerCheck:   50,
	}
}

func rawSpamMail(id string) *domain.RawMessage {
	return &domain.RawMessage{
		Id: id,
		Raw: []byte("From: promo@spam.com\r\n" +
			"Subject: URGENT WIN FREE MONEY NOW!!!!\r\n" +
			"\r\n" +
			"GANA DINERO GRATIS!!!!"),
	}
}

func rawHamMail(id string) *domain.RawMessage {
	return &domain.RawMessage{
		Id: id,
		Raw: []byte("From: alice@example.com\r\n" +
			"Subject: Hi\r\n" +
			"\r\n" +
			"see you at lunch"),
	}
}

func TestTickSkipsAccountsNotDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)

	now := time.Now()
	checkedRecently := dueAccount(1, "alice@example.com")
	lastCheck := now.Add(-14 * time.Minute)
	checkedRecently.LastCheckAt = &lastCheck

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{checkedRecently}, nil)

	s := newTestScheduler(t, mockPersistence, connectTo(nil))
	reports := s.Tick(context.Background(), now)

	assert.Empty(t, reports)
}

func TestTickRunsPassAtExactInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	now := time.Now()
	account := dueAccount(1, "alice@example.com")
	lastCheck := now.Add(-15 * time.Minute)
	account.LastCheckAt = &lastCheck

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(account, nil)
	mockConnection.EXPECT().Fetch(gomock.Any(), domain.DefaultStrategy(), 50).Return([]*domain.RawMessage{}, nil)
	mockConnection.EXPECT().Close().Return(nil)
	mockPersistence.EXPECT().UpdateAccountStats(int64(1), 0, 0, gomock.Any()).Return(nil)

	s := newTestScheduler(t, mockPersistence, connectTo(mockConnection))
	reports := s.Tick(context.Background(), now)

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Success())
}

func TestTickProcessesFetchedMails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	account := dueAccount(1, "alice@example.com")

	saved := []*domain.StoredEmail{}
	savedMu := sync.Mutex{}

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(account, nil)
	mockConnection.EXPECT().
		Fetch(gomock.Any(), domain.DefaultStrategy(), 50).
		Return([]*domain.RawMessage{rawSpamMail("101"), rawHamMail("102")}, nil)
	mockPersistence.EXPECT().
		SaveEmail(gomock.Any()).
		DoAndReturn(func(email *domain.StoredEmail) error {
			savedMu.Lock()
			defer savedMu.Unlock()
			saved = append(saved, email)
			return nil
		}).
		Times(2)
	mockPersistence.EXPECT().UpdateAccountStats(int64(1), 2, 1, gomock.Any()).Return(nil)
	mockConnection.EXPECT().Close().Return(nil)

	s := newTestScheduler(t, mockPersistence, connectTo(mockConnection))
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	report := reports[0]
	assert.True(t, report.Success())
	assert.Equal(t, "alice@example.com", report.Address)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Spam)
	assert.Equal(t, 1, report.Ham)
	assert.Zero(t, report.Duplicates)
	assert.Zero(t, report.Skipped)

	require.Len(t, saved, 2)
	spam, ham := saved[0], saved[1]
	assert.Equal(t, int64(1), spam.AccountId)
	assert.Equal(t, "101", spam.MessageId)
	assert.Equal(t, "spam.com", spam.SenderDomain)
	assert.True(t, spam.IsSpam)
	assert.Greater(t, spam.SpamScore, 0.6)
	assert.Equal(t, "102", ham.MessageId)
	assert.False(t, ham.IsSpam)
}

func TestTickIsolatesAccountFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	broken := dueAccount(1, "alice@example.com")
	healthy := dueAccount(2, "bob@example.com")
	connectErr := &domain.ConnectionError{Server: "imap.example.com:993", Err: errors.New("connection refused")}

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{broken, healthy}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(broken, nil)
	mockPersistence.EXPECT().GetAccount(int64(2)).Return(healthy, nil)
	mockConnection.EXPECT().
		Fetch(gomock.Any(), domain.DefaultStrategy(), 50).
		Return([]*domain.RawMessage{rawHamMail("201")}, nil)
	mockPersistence.EXPECT().SaveEmail(gomock.Any()).Return(nil)
	mockPersistence.EXPECT().UpdateAccountStats(int64(2), 1, 0, gomock.Any()).Return(nil)
	mockConnection.EXPECT().Close().Return(nil)

	connect := func(account *domain.Account) (domain.MailConnector, error) {
		if account.Id == 1 {
			return nil, connectErr
		}
		return mockConnection, nil
	}

	s := newTestScheduler(t, mockPersistence, connect)
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 2)
	assert.ErrorIs(t, reports[0].Err, connectErr)
	assert.True(t, reports[1].Success())
	assert.Equal(t, 1, reports[1].Processed)
}

func TestTickCountsDuplicatesAsNoOps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	account := dueAccount(1, "alice@example.com")

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(account, nil)
	mockConnection.EXPECT().
		Fetch(gomock.Any(), domain.DefaultStrategy(), 50).
		Return([]*domain.RawMessage{rawHamMail("101")}, nil)
	mockPersistence.EXPECT().SaveEmail(gomock.Any()).Return(domain.ErrEmailExists)
	// A pass of nothing but duplicates still refreshes the check time
	mockPersistence.EXPECT().UpdateAccountStats(int64(1), 0, 0, gomock.Any()).Return(nil)
	mockConnection.EXPECT().Close().Return(nil)

	s := newTestScheduler(t, mockPersistence, connectTo(mockConnection))
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Success())
	assert.Equal(t, 1, reports[0].Duplicates)
	assert.Zero(t, reports[0].Processed)
}

func TestTickSkipsUndecodableMails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	account := dueAccount(1, "alice@example.com")
	garbage := &domain.RawMessage{Id: "101", Raw: []byte("no header block here")}

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(account, nil)
	mockConnection.EXPECT().
		Fetch(gomock.Any(), domain.DefaultStrategy(), 50).
		Return([]*domain.RawMessage{garbage, rawHamMail("102")}, nil)
	mockPersistence.EXPECT().SaveEmail(gomock.Any()).Return(nil)
	mockPersistence.EXPECT().UpdateAccountStats(int64(1), 1, 0, gomock.Any()).Return(nil)
	mockConnection.EXPECT().Close().Return(nil)

	s := newTestScheduler(t, mockPersistence, connectTo(mockConnection))
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Success())
	assert.Equal(t, 1, reports[0].Skipped)
	assert.Equal(t, 1, reports[0].Processed)
}

func TestTickFetchFailureLeavesStatsUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)
	mockConnection := mocks.NewMockMailConnector(ctrl)

	account := dueAccount(1, "alice@example.com")
	fetchErr := &domain.FetchError{Strategy: domain.DefaultStrategy(), Err: errors.New("server hung up")}

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(account, nil)
	mockConnection.EXPECT().Fetch(gomock.Any(), domain.DefaultStrategy(), 50).Return(nil, fetchErr)
	mockConnection.EXPECT().Close().Return(nil)

	s := newTestScheduler(t, mockPersistence, connectTo(mockConnection))
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].Err, fetchErr)
}

func TestTickVanishedAccountIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)

	account := dueAccount(1, "alice@example.com")

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(nil, nil)

	// A connect attempt would fail the pass, proving the no-op short-circuits
	connect := func(*domain.Account) (domain.MailConnector, error) {
		return nil, errors.New("must not connect")
	}

	s := newTestScheduler(t, mockPersistence, connect)
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Success())
	assert.Zero(t, reports[0].Processed)
}

func TestTickDeactivatedAccountIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)

	account := dueAccount(1, "alice@example.com")
	deactivated := dueAccount(1, "alice@example.com")
	deactivated.Active = false

	mockPersistence.EXPECT().ActiveAccounts().Return([]*domain.Account{account}, nil)
	mockPersistence.EXPECT().GetAccount(int64(1)).Return(deactivated, nil)

	connect := func(*domain.Account) (domain.MailConnector, error) {
		return nil, errors.New("must not connect")
	}

	s := newTestScheduler(t, mockPersistence, connect)
	reports := s.Tick(context.Background(), time.Now())

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Success())
}

func TestTickListFailureSkipsCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPersistence := mocks.NewMockPersistence(ctrl)

	mockPersistence.EXPECT().ActiveAccounts().Return(nil, errors.New("db locked"))

	s := newTestScheduler(t, mockPersistence, connectTo(nil))
	reports := s.Tick(context.Background(), time.Now())

	assert.Nil(t, reports)
}
