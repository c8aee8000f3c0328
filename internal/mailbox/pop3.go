package mailbox

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/go-pop3"

	"github.com/nhle/mailtodo/internal/model"
)

// pop3DialTimeout bounds connect time; on timeout the whole run fails and
// the next tick retries the same window.
const pop3DialTimeout = 15 * time.Second

// POP3Client fetches inbox messages over POP3. The protocol has no
// server-side date filter, so checkpoint filtering happens client-side
// after normalization.
type POP3Client struct {
	host     string
	port     int
	username string
	password string
	tls      bool
	logger   *log.Logger
}

// NewPOP3Client creates a POP3 client from the mailbox configuration.
func NewPOP3Client(cfg model.MailboxConfig) *POP3Client {
	return &POP3Client{
		host:     cfg.Host,
		port:     cfg.EffectivePort(),
		username: cfg.User,
		password: cfg.Password,
		tls:      cfg.TLS(),
		logger:   log.Default().With("transport", "pop3"),
	}
}

func (c *POP3Client) addr() string {
	return c.host + ":" + strconv.Itoa(c.port)
}

// FetchSince lists the message count and retrieves each message by
// sequence number. The since parameter is ignored at this layer; the
// pipeline filters on the parsed date after normalization.
func (c *POP3Client) FetchSince(
	_ context.Context, _ *time.Time,
) ([]RawMessage, error) {
	client := pop3.New(pop3.Opt{
		Host:        c.host,
		Port:        c.port,
		TLSEnabled:  c.tls,
		DialTimeout: pop3DialTimeout,
	})

	conn, err := client.NewConn()
	if err != nil {
		return nil, &TransportError{Op: "connect", Addr: c.addr(), Err: err}
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Auth(c.username, c.password); err != nil {
		return nil, &TransportError{Op: "auth", Addr: c.addr(), Err: err}
	}

	count, _, err := conn.Stat()
	if err != nil {
		return nil, &TransportError{Op: "stat", Addr: c.addr(), Err: err}
	}

	var messages []RawMessage
	for id := 1; id <= count; id++ {
		buf, err := conn.RetrRaw(id)
		if err != nil {
			c.logger.Warn("skipping unretrievable message",
				"seq", id, "err", err)
			continue
		}
		messages = append(messages, RawMessage{Raw: buf.Bytes()})
	}

	return messages, nil
}
