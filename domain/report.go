// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "time"

// AccountRunReport summarizes one account's pass within a tick. It is the
// only failure surface exposed to downstream collaborators.
type AccountRunReport struct {
	ReportId   string
	AccountId  int64
	Address    string
	Strategy   string
	Processed  int
	Spam       int
	Ham        int
	Duplicates int
	Skipped    int
	Duration   time.Duration
	Err        error
}

func (r *AccountRunReport) Success() bool {
	return r.Err == nil
}
