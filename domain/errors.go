// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"errors"
	"fmt"
)

// ErrEmailExists signals that the (account, message) pair is already stored.
// Callers treat it as a successful no-op; dedup is the intended behaviour.
var ErrEmailExists = errors.New("email already stored")

// ConnectionError is an auth or network failure while opening a mailbox. It
// is fatal for that account's pass only.
type ConnectionError struct {
	Server string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// FetchError is a search/retrieve failure mid-batch. It aborts the remaining
// retrieval for the account this tick.
type FetchError struct {
	Strategy FetchStrategy
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch with strategy %s failed: %v", e.Strategy, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError marks a single malformed message. The batch continues past it.
type DecodeError struct {
	MessageId string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode message %s: %v", e.MessageId, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
