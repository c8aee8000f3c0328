package model

import (
	"strconv"
	"time"
)

// Todo state constants.
const (
	TodoStateActive   = "active"
	TodoStateExcluded = "excluded"
)

// Todo is a derived actionable item. Todos created by reconciliation carry
// the fingerprint of their source message; manually created todos have no
// source and are only removed by explicit user deletion.
type Todo struct {
	ID   string `json:"id" db:"id"`
	Task string `json:"task" db:"task"`
	Memo string `json:"memo" db:"memo"`

	// Deadline is normalized to YYYY/MM/DD, empty when unset.
	Deadline string `json:"deadline,omitempty" db:"deadline"`

	// SourceFingerprint links back to the originating message.
	// Nil for manually created todos.
	SourceFingerprint *string `json:"source_fingerprint,omitempty" db:"source_fingerprint"`

	State     string    `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DDay renders the countdown label for the todo's deadline relative to now
// (e.g. "D-3", "D-DAY", "D+2"). Empty when the todo has no deadline or the
// deadline does not parse.
func (t Todo) DDay(now time.Time) string {
	if t.Deadline == "" {
		return ""
	}
	due, err := time.ParseInLocation("2006/01/02", t.Deadline, now.Location())
	if err != nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days == 0:
		return "D-DAY"
	case days > 0:
		return "D-" + strconv.Itoa(days)
	default:
		return "D+" + strconv.Itoa(-days)
	}
}
