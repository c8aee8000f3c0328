package store

import (
	"context"
	"time"

	"github.com/nhle/mailtodo/internal/model"
)

// MessageFilter narrows ListMessages results.
type MessageFilter struct {
	TodoFlag        *model.TodoFlag
	CompletionState *string
	Limit           int
}

// TodoFilter narrows ListTodos results.
type TodoFilter struct {
	State *string
	Limit int
}

// Store is the persistence contract consumed by the pipeline. Writes are
// serialized at this layer: one connection, one statement per operation.
type Store interface {
	// InsertMessage appends an ingested message. Insert is a no-op
	// (not an error) when the fingerprint already exists; the returned
	// bool reports whether a row was actually written.
	InsertMessage(ctx context.Context, m model.Message) (string, bool, error)
	MessageExists(ctx context.Context, fingerprint string) (bool, error)
	GetMessageByFingerprint(ctx context.Context, fingerprint string) (*model.Message, error)
	ListMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	SetMessageTodoFlag(ctx context.Context, fingerprint string, flag model.TodoFlag) error
	SetMessageCompletion(ctx context.Context, fingerprint string, state string) error

	CreateTodo(ctx context.Context, todo model.Todo) (string, error)
	// FindActiveTodoByFingerprint returns nil (not an error) when no
	// active todo carries the fingerprint.
	FindActiveTodoByFingerprint(ctx context.Context, fingerprint string) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	UpdateTodoState(ctx context.Context, id string, state string) error
	ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)

	// GetCheckpoint returns nil when no sync has completed yet.
	GetCheckpoint(ctx context.Context) (*time.Time, error)
	SetCheckpoint(ctx context.Context, t time.Time) error

	GetKeywords(ctx context.Context) ([]string, error)
	AddKeyword(ctx context.Context, keyword string) error
	UpdateKeyword(ctx context.Context, oldKeyword, newKeyword string) error
	DeleteKeyword(ctx context.Context, keyword string) error

	AppendTrainingSample(ctx context.Context, sample model.TrainingSample) error
	ListTrainingSamples(ctx context.Context) ([]model.TrainingSample, error)
	CountTrainingSamples(ctx context.Context) (int, error)

	Close() error
}
