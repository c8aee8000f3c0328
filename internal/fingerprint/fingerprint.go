// Package fingerprint derives the content fingerprint used to deduplicate
// messages across fetches.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/nhle/mailtodo/internal/model"
)

// Key returns the deterministic fingerprint for a message: a sha256 hex
// digest over sender, subject, body, and received timestamp, in that fixed
// order. Each field is length-prefixed so that field-boundary shifts
// cannot collide. Two fetches of the same physical message, even across
// protocol retries, produce the same key.
func Key(m model.Message) string {
	h := sha256.New()

	writeField := func(s string) {
		var prefix [8]byte
		binary.BigEndian.PutUint64(prefix[:], uint64(len(s)))
		h.Write(prefix[:])
		h.Write([]byte(s))
	}

	writeField(m.Sender)
	writeField(m.Subject)
	writeField(m.Body)
	writeField(m.ReceivedAt.UTC().Format(time.RFC3339))

	return hex.EncodeToString(h.Sum(nil))
}
