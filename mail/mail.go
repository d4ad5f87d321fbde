// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"errors"
	"io"
	"mime"
	stdmail "net/mail"
	"strings"
	"time"

	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/log"

	"github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

// Decode turns raw message bytes into normalized fields. Header decoding is
// best-effort: undecodable encoded-words fall back to their raw form, and a
// message go-message refuses entirely is re-parsed leniently with the body
// kept as raw bytes. Only a message without any parseable header is an error.
func Decode(raw domain.RawMessage) (*domain.DecodedMessage, error) {
	mr, err := gomail.CreateReader(bytes.NewReader(raw.Raw))
	if err != nil {
		return decodeLenient(raw)
	}
	defer mr.Close()

	// Subject/From/To decode errors leave the raw header value in place,
	// which is good enough for feature extraction.
	subject, _ := mr.Header.Text("Subject")
	sender, _ := mr.Header.Text("From")
	recipient, _ := mr.Header.Text("To")

	var receivedAt *time.Time
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		receivedAt = &date
	}

	content := &strings.Builder{}
	hasAttachments := false
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed remainder, keep what was extracted so far
			break
		}

		switch h := p.Header.(type) {
		case *gomail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if len(contentType) == 0 || contentType == "text/plain" {
				body, err := io.ReadAll(p.Body)
				if err == nil {
					content.Write(body)
				}
			}
		case *gomail.AttachmentHeader:
			hasAttachments = true
		}
	}

	return &domain.DecodedMessage{
		MessageId:      raw.Id,
		Subject:        subject,
		Sender:         sender,
		SenderDomain:   SenderDomain(sender),
		Recipient:      recipient,
		Content:        content.String(),
		Size:           len(raw.Raw),
		HasAttachments: hasAttachments,
		ReceivedAt:     receivedAt,
	}, nil
}

// decodeLenient handles messages go-message cannot read at all, typically
// broken multipart boundaries or illegal content-transfer encodings. The
// undecoded body bytes still carry enough signal for the extractor.
func decodeLenient(raw domain.RawMessage) (*domain.DecodedMessage, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(raw.Raw))
	if err != nil {
		return nil, &domain.DecodeError{MessageId: raw.Id, Err: err}
	}

	log.Logger(log.LOG_DECODE).WithField("mail", raw.Id).Debug("Falling back to lenient decode")

	sender := decodeHeader(msg.Header.Get("From"))

	var receivedAt *time.Time
	if date, err := msg.Header.Date(); err == nil && !date.IsZero() {
		receivedAt = &date
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		body = nil
	}

	return &domain.DecodedMessage{
		MessageId:    raw.Id,
		Subject:      decodeHeader(msg.Header.Get("Subject")),
		Sender:       sender,
		SenderDomain: SenderDomain(sender),
		Recipient:    decodeHeader(msg.Header.Get("To")),
		Content:      string(body),
		Size:         len(raw.Raw),
		ReceivedAt:   receivedAt,
	}, nil
}

func decodeHeader(header string) string {
	dec := &mime.WordDecoder{
		CharsetReader: charset.Reader,
	}
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// SenderDomain derives the domain part of a sender header, tolerating both
// bare addresses and display-name forms like `Name <user@host>`.
func SenderDomain(sender string) string {
	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return ""
	}

	domainPart := sender[at+1:]
	if end := strings.IndexAny(domainPart, "> \t"); end >= 0 {
		domainPart = domainPart[:end]
	}
	return strings.ToLower(strings.TrimSpace(domainPart))
}

func ShortSubject(subject string) string {
	if (len(subject)) > 30 {
		subject = subject[:30] + "..."
	}
	return subject
}
