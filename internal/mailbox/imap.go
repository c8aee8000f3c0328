package mailbox

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mailtodo/internal/model"
)

// IMAPClient fetches inbox messages over IMAP using go-imap v2.
type IMAPClient struct {
	host     string
	port     int
	username string
	password string
	tls      bool
	logger   *log.Logger
}

// NewIMAPClient creates an IMAP client from the mailbox configuration.
func NewIMAPClient(cfg model.MailboxConfig) *IMAPClient {
	return &IMAPClient{
		host:     cfg.Host,
		port:     cfg.EffectivePort(),
		username: cfg.User,
		password: cfg.Password,
		tls:      cfg.TLS(),
		logger:   log.Default().With("transport", "imap"),
	}
}

func (c *IMAPClient) addr() string {
	return c.host + ":" + strconv.Itoa(c.port)
}

// connect establishes a connection to the IMAP server and authenticates.
// The caller is responsible for calling Logout on the returned client.
func (c *IMAPClient) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.addr()

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, &TransportError{Op: "connect", Addr: addr, Err: err}
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &TransportError{
			Op:   "auth",
			Addr: addr,
			Err:  fmt.Errorf("login as %s: %w", c.username, err),
		}
	}

	return client, nil
}

// FetchSince selects INBOX, searches server-side with SINCE when a
// checkpoint exists, and pulls the full RFC-822 payload per matched
// message. Header and body come in one transfer to avoid partial-fetch
// incompatibilities across server implementations.
func (c *IMAPClient) FetchSince(
	ctx context.Context, since *time.Time,
) ([]RawMessage, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, &TransportError{Op: "select", Addr: c.addr(), Err: err}
	}

	criteria := &imap.SearchCriteria{}
	if since != nil {
		criteria.Since = *since
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, &TransportError{Op: "search", Addr: c.addr(), Err: err}
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)

	var messages []RawMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			c.logger.Warn("skipping unreadable message", "err", err)
			continue
		}

		raw := buf.FindBodySection(bodySection)
		if len(raw) == 0 {
			c.logger.Warn("skipping message without body section",
				"uid", buf.UID)
			continue
		}

		messages = append(messages, RawMessage{Raw: raw})
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, &TransportError{Op: "fetch", Addr: c.addr(), Err: err}
	}

	return messages, nil
}
