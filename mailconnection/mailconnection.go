// SPDX-License-Identifier: GPL-3.0-or-later
package mailconnection

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

type connState int

const (
	stateDisconnected = connState(iota)
	stateAuthenticating
	stateReady
	stateSelected
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateDisconnected:
		return "disconnected"
	case stateAuthenticating:
		return "authenticating"
	case stateReady:
		return "ready"
	case stateSelected:
		return "selected"
	}
	return "closed"
}

// MailConnection owns one IMAP connection for exactly one account pass.
// Lifecycle: disconnected -> authenticating -> ready -> selected -> closed;
// search and fetch are only legal in ready/selected (ready auto-selects the
// inbox). It is not safe for concurrent use.
type MailConnection struct {
	connection *client.Client
	state      connState

	server, user string

	l *logrus.Logger
}

// NewMailConnection dials the server over TLS and authenticates. Any failure
// is terminal for the attempt; no retry happens at this level.
func NewMailConnection(server string, user string, password string) (*MailConnection, error) {
	conn := &MailConnection{
		state:  stateDisconnected,
		server: server,
		user:   user,
		l:      log.Logger(log.LOG_MAILBOX),
	}

	imapClient, err := client.DialTLS(server, nil)
	if err != nil {
		return nil, &domain.ConnectionError{Server: server, Err: fmt.Errorf("could not dial: %w", err)}
	}

	conn.connection = imapClient
	conn.state = stateAuthenticating

	err = imapClient.Login(user, password)
	if err != nil {
		_ = imapClient.Logout()
		conn.state = stateClosed
		return nil, &domain.ConnectionError{Server: server, Err: fmt.Errorf("could not login as %s: %w", user, err)}
	}

	conn.state = stateReady
	conn.l.WithFields(logrus.Fields{"server": server, "user": user}).Debug("Logged in to server")

	return conn, nil
}

// Fetch retrieves up to limit raw messages chosen by the strategy. A failure
// aborts the remaining batch for this account but leaves the connection
// closeable.
func (mc *MailConnection) Fetch(ctx context.Context, strategy domain.FetchStrategy, limit int) ([]*domain.RawMessage, error) {
	err := mc.selectInbox()
	if err != nil {
		return nil, &domain.FetchError{Strategy: strategy, Err: err}
	}

	uids, err := mc.searchUids(ctx, strategy, limit)
	if err != nil {
		return nil, &domain.FetchError{Strategy: strategy, Err: err}
	}

	mc.l.WithFields(logrus.Fields{"server": mc.server, "strategy": strategy.String(), "mails": len(uids)}).Debug("Search finished")
	if len(uids) == 0 {
		return []*domain.RawMessage{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Strategy: strategy, Err: err}
	}

	messages, err := mc.fetchBodies(uids)
	if err != nil {
		return nil, &domain.FetchError{Strategy: strategy, Err: err}
	}

	return messages, nil
}

func (mc *MailConnection) selectInbox() error {
	switch mc.state {
	case stateSelected:
		return nil
	case stateReady:
	default:
		return fmt.Errorf("cannot select mailbox in state %s", mc.state)
	}

	// Read-only select: polling must not flip Seen flags, the default
	// strategy depends on them.
	_, err := mc.connection.Select("INBOX", true)
	if err != nil {
		return fmt.Errorf("could not select inbox: %w", err)
	}

	mc.state = stateSelected
	return nil
}

// searchUids runs the server searches for a strategy and applies its limit
// semantics. Server return order is ascending by uid, a recency proxy, so
// "last n" keeps the newest messages.
func (mc *MailConnection) searchUids(ctx context.Context, strategy domain.FetchStrategy, limit int) ([]uint32, error) {
	now := time.Now()

	switch strategy.Kind {
	case domain.StrategyAll:
		uids, err := mc.search(imap.NewSearchCriteria())
		if err != nil {
			return nil, err
		}
		return lastUids(uids, limit), nil

	case domain.StrategyRecent:
		criteria := imap.NewSearchCriteria()
		criteria.Since = now.AddDate(0, 0, -strategy.DaysBack)
		uids, err := mc.search(criteria)
		if err != nil {
			return nil, err
		}
		return lastUids(uids, limit), nil

	case domain.StrategyDefault:
		unreadCriteria := imap.NewSearchCriteria()
		unreadCriteria.WithoutFlags = []string{imap.SeenFlag}
		unreadCriteria.Since = now.AddDate(0, 0, -strategy.DaysBack)
		unread, err := mc.search(unreadCriteria)
		if err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		readCriteria := imap.NewSearchCriteria()
		readCriteria.WithFlags = []string{imap.SeenFlag}
		readCriteria.Since = now.AddDate(0, 0, -2)
		read, err := mc.search(readCriteria)
		if err != nil {
			return nil, err
		}

		return hybridUids(unread, read, limit), nil
	}

	return nil, fmt.Errorf("unsupported strategy kind %d", strategy.Kind)
}

func (mc *MailConnection) search(criteria *imap.SearchCriteria) ([]uint32, error) {
	uids, err := mc.connection.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search mailbox: %w", err)
	}
	return uids, nil
}

func (mc *MailConnection) fetchBodies(uids []uint32) ([]*domain.RawMessage, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(uids...)

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{imap.FetchUid, fullBodySection.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- mc.connection.UidFetch(seqset, fetchItems, messages)
	}()

	raw := []*domain.RawMessage{}
	for msg := range messages {
		r := msg.GetBody(fullBodySection)
		if r == nil {
			continue
		}
		rawBody, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("could not read mail body: %w", err)
		}

		raw = append(
			raw,
			&domain.RawMessage{
				Id:  strconv.FormatUint(uint64(msg.Uid), 10),
				Raw: rawBody,
			},
		)
	}

	err := <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch mails: %w", err)
	}

	return raw, nil
}

// Close logs out and invalidates the connection. Safe after partial failure
// and idempotent; a failed logout is only logged since the pass is over
// either way.
func (mc *MailConnection) Close() error {
	if mc.state == stateClosed {
		return nil
	}
	mc.state = stateClosed

	err := mc.connection.Logout()
	if err != nil {
		mc.l.WithFields(logrus.Fields{"server": mc.server, "error": err}).Warn("Logout failed")
	}
	return nil
}
