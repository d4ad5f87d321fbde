// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "time"

// RawMessage is a message as returned by the mail server: the server-assigned
// identifier plus the undecoded payload. It is never persisted.
type RawMessage struct {
	Id  string
	Raw []byte
}

// DecodedMessage holds the normalized fields of one message. Immutable once
// produced by the decoder.
type DecodedMessage struct {
	MessageId      string
	Subject        string
	Sender         string
	SenderDomain   string
	Recipient      string
	Content        string
	Size           int
	HasAttachments bool
	ReceivedAt     *time.Time // protocol-reported, may be absent
}
