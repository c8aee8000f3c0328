// Package mailbox provides the transport layer for fetching raw messages
// from a remote mailbox over IMAP or POP3.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/mailtodo/internal/model"
)

// RawMessage is an unparsed RFC-822 payload as delivered by the transport.
type RawMessage struct {
	// Raw is the full message source, header and body in one transfer.
	Raw []byte
}

// Client yields raw messages matching a search filter. Implementations
// open a network session per call and close it before returning; they do
// not retry internally.
type Client interface {
	// FetchSince retrieves messages received at or after since.
	// A nil since fetches the whole inbox. Connection-level failures
	// return a TransportError; a single malformed message is skipped
	// with a logged warning and the rest of the batch continues.
	FetchSince(ctx context.Context, since *time.Time) ([]RawMessage, error)
}

// TransportError indicates a connection, authentication, or protocol-level
// failure. It aborts the whole sync attempt; the checkpoint is unchanged.
type TransportError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mailbox %s (%s): %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err (or any error in its chain) is a
// TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// New selects the transport variant for the configured protocol.
func New(cfg model.MailboxConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IsIMAP() {
		return NewIMAPClient(cfg), nil
	}
	return NewPOP3Client(cfg), nil
}
