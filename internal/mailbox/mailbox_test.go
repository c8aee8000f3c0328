package mailbox

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nhle/mailtodo/internal/model"
)

func TestNewSelectsTransport(t *testing.T) {
	tests := []struct {
		protocol string
		wantIMAP bool
	}{
		{model.ProtocolIMAP, true},
		{model.ProtocolIMAPSSL, true},
		{model.ProtocolPOP3, false},
		{model.ProtocolPOP3SSL, false},
	}

	for _, tt := range tests {
		cfg := model.MailboxConfig{
			Protocol: tt.protocol,
			Host:     "mail.example.com",
			User:     "student",
		}
		client, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%s): %v", tt.protocol, err)
		}

		_, isIMAP := client.(*IMAPClient)
		if isIMAP != tt.wantIMAP {
			t.Errorf("New(%s) = %T", tt.protocol, client)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(model.MailboxConfig{Protocol: "smtp", Host: "h", User: "u"})
	if err == nil {
		t.Error("New accepted an unknown protocol")
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "dial", Addr: "mail.example.com:993", Err: cause}

	if !IsTransportError(err) {
		t.Error("IsTransportError(TransportError) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError does not unwrap to its cause")
	}
	if !IsTransportError(fmt.Errorf("sync: %w", err)) {
		t.Error("IsTransportError misses a wrapped TransportError")
	}
	if IsTransportError(cause) {
		t.Error("IsTransportError(plain error) = true")
	}

	msg := err.Error()
	for _, part := range []string{"dial", "mail.example.com:993", "connection refused"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
}
