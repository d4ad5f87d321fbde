// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"net"
	"strconv"
	"time"
)

// Account is a configured mailbox. The configuration collaborator owns the
// identity/credential/schedule fields; the core only writes LastCheckAt and
// the two counters after a successful pass.
type Account struct {
	Id            int64
	Address       string
	Password      string
	Server        string
	Port          int
	Protocol      string
	Active        bool
	CheckInterval int // minutes between passes
	MaxPerCheck   int
	LastCheckAt   *time.Time
	TotalChecked  int64
	TotalSpam     int64
}

func (a *Account) Host() string {
	return net.JoinHostPort(a.Server, strconv.Itoa(a.Port))
}

// Due reports whether the account should be polled at now. An account that
// has never been checked is always due.
func (a *Account) Due(now time.Time) bool {
	if a.LastCheckAt == nil {
		return true
	}
	return now.Sub(*a.LastCheckAt) >= time.Duration(a.CheckInterval)*time.Minute
}
