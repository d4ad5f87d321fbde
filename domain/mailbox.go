// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/mailbox.go -package=mocks . MailConnector
package domain

import (
	"context"
	"fmt"
)

type StrategyKind int

const (
	StrategyDefault = StrategyKind(0)
	StrategyAll     = StrategyKind(1)
	StrategyRecent  = StrategyKind(2)
)

// FetchStrategy names the policy deciding which subset of the mailbox a fetch
// returns. It is chosen per invocation, not per account.
type FetchStrategy struct {
	Kind     StrategyKind
	DaysBack int
}

// DefaultStrategy is the hybrid policy: unread messages from the last
// DaysBack days plus read messages from the last two days, read capped at
// half the fetch limit.
func DefaultStrategy() FetchStrategy {
	return FetchStrategy{Kind: StrategyDefault, DaysBack: 7}
}

func AllStrategy() FetchStrategy {
	return FetchStrategy{Kind: StrategyAll}
}

func RecentStrategy(daysBack int) FetchStrategy {
	return FetchStrategy{Kind: StrategyRecent, DaysBack: daysBack}
}

func (s FetchStrategy) String() string {
	switch s.Kind {
	case StrategyAll:
		return "all"
	case StrategyRecent:
		return fmt.Sprintf("recent(%dd)", s.DaysBack)
	}
	return "default"
}

// MailConnector is one live, exclusively-owned connection to one mailbox.
// Fetch is only legal before Close; Close is idempotent and safe after a
// partial failure.
type MailConnector interface {
	Fetch(ctx context.Context, strategy FetchStrategy, limit int) ([]*RawMessage, error)
	Close() error
}
