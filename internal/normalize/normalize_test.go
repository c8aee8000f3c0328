package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/nhle/mailtodo/internal/mailbox"
	"github.com/nhle/mailtodo/internal/model"
)

var testNow = time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

func TestNormalizePlainText(t *testing.T) {
	raw := mailbox.RawMessage{Raw: []byte(strings.Join([]string{
		"From: Prof Kim <prof@example.ac.kr>",
		"To: student@example.ac.kr",
		"Subject: Assignment notice",
		"Date: Sat, 01 Mar 2025 18:30:00 +0900",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Submit the report by 3/10.",
		"",
	}, "\r\n"))}

	m, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if m.Subject != "Assignment notice" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if !strings.Contains(m.Sender, "prof@example.ac.kr") {
		t.Errorf("Sender = %q", m.Sender)
	}
	if !strings.Contains(m.Body, "Submit the report by 3/10.") {
		t.Errorf("Body = %q", m.Body)
	}

	want := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	if !m.ReceivedAt.Equal(want) {
		t.Errorf("ReceivedAt = %v, want %v", m.ReceivedAt, want)
	}
	if m.TodoFlag != model.FlagUnclassified {
		t.Errorf("TodoFlag = %v, want %v", m.TodoFlag, model.FlagUnclassified)
	}
	if m.CompletionState != model.CompletionOpen {
		t.Errorf("CompletionState = %q, want %q", m.CompletionState, model.CompletionOpen)
	}
	if m.Fingerprint != "" {
		t.Errorf("Fingerprint = %q, want empty", m.Fingerprint)
	}
}

func TestNormalizeHTMLOnly(t *testing.T) {
	raw := mailbox.RawMessage{Raw: []byte(strings.Join([]string{
		"From: noreply@example.com",
		"Subject: Weekly summary",
		"Date: Sat, 01 Mar 2025 10:00:00 +0000",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Hello &amp; welcome</p><p>Review the <b>draft</b> by Friday</p>",
		"",
	}, "\r\n"))}

	m, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.Contains(m.Body, "Hello & welcome") {
		t.Errorf("Body = %q, entities not decoded", m.Body)
	}
	if strings.Contains(m.Body, "<p>") || strings.Contains(m.Body, "<b>") {
		t.Errorf("Body = %q, tags survived", m.Body)
	}
}

func TestNormalizeMultipartPrefersPlainText(t *testing.T) {
	raw := mailbox.RawMessage{Raw: []byte(strings.Join([]string{
		"From: a@example.com",
		"Subject: multipart",
		"Date: Sat, 01 Mar 2025 10:00:00 +0000",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain version",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version</p>",
		"--BOUNDARY--",
		"",
	}, "\r\n"))}

	m, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.Contains(m.Body, "plain version") {
		t.Errorf("Body = %q, want the plain part", m.Body)
	}
	if strings.Contains(m.Body, "html version") {
		t.Errorf("Body = %q, html part chosen over plain", m.Body)
	}
}

func TestNormalizeMissingHeaders(t *testing.T) {
	raw := mailbox.RawMessage{Raw: []byte(strings.Join([]string{
		"Content-Type: text/plain; charset=utf-8",
		"",
		"body without headers",
		"",
	}, "\r\n"))}

	m, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.Subject != "" || m.Sender != "" {
		t.Errorf("Subject = %q, Sender = %q, want empty", m.Subject, m.Sender)
	}
	if !m.ReceivedAt.Equal(testNow) {
		t.Errorf("ReceivedAt = %v, want fallback %v", m.ReceivedAt, testNow)
	}
}

func TestNormalizeEmptyPayload(t *testing.T) {
	_, err := Normalize(mailbox.RawMessage{}, testNow)
	if err == nil {
		t.Fatal("Normalize accepted an empty payload")
	}
	if !IsParseError(err) {
		t.Errorf("error %v is not a ParseError", err)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"no markup", "no markup"},
		{"a<br>b", "a\nb"},
		{"<div>x</div><div>y</div>", "x\ny"},
		{"&lt;tag&gt; &amp; &quot;quote&quot;", `<tag> & "quote"`},
		{"<p>a</p>\n\n<p></p>\n\n<p>b</p>", "a\n\nb"},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
