// Package normalize parses raw transport payloads into canonical message
// records. It performs no keyword or deadline logic; classification
// happens downstream.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	// Register charset decoders (euc-kr, iso-2022-jp, windows-1252, ...).
	_ "github.com/emersion/go-message/charset"

	"github.com/nhle/mailtodo/internal/mailbox"
	"github.com/nhle/mailtodo/internal/model"
)

// ParseError indicates a single unparseable message. The batch skips it
// and continues.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing message: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err (or any error in its chain) is a
// ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Normalize decodes a raw RFC-822 payload into a canonical Message.
// Body selection priority: plain-text part, else HTML converted to text,
// else the raw payload. A missing or unparseable date header falls back
// to now; missing subject or sender become empty strings, never null.
// The returned message has no fingerprint and is unclassified.
func Normalize(raw mailbox.RawMessage, now time.Time) (model.Message, error) {
	if len(raw.Raw) == 0 {
		return model.Message{}, &ParseError{Err: fmt.Errorf("empty payload")}
	}

	msg := model.Message{
		ReceivedAt:      now,
		TodoFlag:        model.FlagUnclassified,
		CompletionState: model.CompletionOpen,
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw.Raw))
	if err != nil {
		// Headers unusable. Treat the whole payload as a plain-text
		// body rather than dropping the message.
		msg.Body = string(raw.Raw)
		return msg, nil
	}
	defer mr.Close()

	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}
	if from, err := mr.Header.Text("From"); err == nil {
		msg.Sender = strings.TrimSpace(from)
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		msg.ReceivedAt = date.UTC()
	}

	textBody, htmlBody := readParts(mr)

	switch {
	case textBody != "":
		msg.Body = textBody
	case htmlBody != "":
		msg.Body = StripHTML(htmlBody)
	}

	return msg, nil
}

// readParts walks the MIME structure collecting the first text/plain and
// text/html inline parts. Attachments are ignored.
func readParts(mr *mail.Reader) (textBody, htmlBody string) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && textBody == "":
			textBody = string(body)
		case strings.HasPrefix(contentType, "text/html") && htmlBody == "":
			htmlBody = string(body)
		}
	}
	return textBody, htmlBody
}
