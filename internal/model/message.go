package model

import "time"

// TodoFlag is the tri-state classification verdict for a message.
type TodoFlag int

const (
	// FlagUnclassified means the message has not been classified yet.
	FlagUnclassified TodoFlag = iota
	// FlagNotTodo means the classifier found no actionable signal.
	FlagNotTodo
	// FlagTodo means the message was judged actionable.
	FlagTodo
)

// String renders the flag for logs and listings.
func (f TodoFlag) String() string {
	switch f {
	case FlagNotTodo:
		return "not-todo"
	case FlagTodo:
		return "todo"
	default:
		return "unclassified"
	}
}

// Message completion states.
const (
	CompletionOpen      = "open"
	CompletionExcluded  = "excluded"
	CompletionCompleted = "completed"
)

// Message is one ingested mail, normalized and fingerprinted. The
// fingerprint is unique per mailbox; re-ingesting the same mail is a no-op.
type Message struct {
	ID         string    `json:"id" db:"id"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
	Subject    string    `json:"subject" db:"subject"`
	Body       string    `json:"body" db:"body"`
	Sender     string    `json:"sender" db:"sender"`

	Fingerprint string   `json:"fingerprint" db:"fingerprint"`
	TodoFlag    TodoFlag `json:"todo_flag" db:"todo_flag"`

	// Deadline is normalized to YYYY/MM/DD, empty when none was found.
	Deadline string `json:"deadline,omitempty" db:"deadline"`

	// CompletionState is one of "open", "excluded", "completed".
	CompletionState string `json:"completion_state" db:"completion_state"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Text returns the subject and body joined for classification and scoring.
func (m Message) Text() string {
	return m.Subject + " " + m.Body
}

// TrainingSample is one entry in the classifier feedback corpus.
type TrainingSample struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	IsTodo    bool      `json:"is_todo" db:"is_todo"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
