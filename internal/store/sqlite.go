package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/mailtodo/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// InsertMessage appends an ingested message. When a row with the same
// fingerprint already exists, the insert is a no-op and the existing
// row's id is returned. This check-then-insert is what makes repeated
// sync idempotent; the pipeline's single-run guard makes a concurrent
// duplicate fetch impossible.
func (s *SQLiteStore) InsertMessage(
	ctx context.Context,
	m model.Message,
) (string, bool, error) {
	if m.Fingerprint == "" {
		return "", false, fmt.Errorf("message fingerprint must not be empty")
	}

	var existingID string
	err := s.db.GetContext(ctx, &existingID,
		"SELECT id FROM messages WHERE fingerprint = ?", m.Fingerprint)
	if err == nil {
		return existingID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("checking message fingerprint: %w", err)
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CompletionState == "" {
		m.CompletionState = model.CompletionOpen
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, received_at, subject, body, sender,
			fingerprint, todo_flag, deadline, completion_state, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ReceivedAt.UTC(), m.Subject, m.Body, m.Sender,
		m.Fingerprint, int(m.TodoFlag), m.Deadline, m.CompletionState,
		m.CreatedAt,
	)
	if err != nil {
		return "", false, fmt.Errorf("inserting message: %w", err)
	}

	return m.ID, true, nil
}

// MessageExists reports whether a message with the fingerprint is stored.
func (s *SQLiteStore) MessageExists(
	ctx context.Context,
	fingerprint string,
) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM messages WHERE fingerprint = ?", fingerprint)
	if err != nil {
		return false, fmt.Errorf("checking message existence: %w", err)
	}
	return count > 0, nil
}

// GetMessageByFingerprint retrieves a single message, or nil when absent.
func (s *SQLiteStore) GetMessageByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*model.Message, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM messages WHERE fingerprint = ?", fingerprint)

	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting message %s: %w", fingerprint, err)
	}
	return &m, nil
}

// ListMessages retrieves messages matching the filter, most recent first.
func (s *SQLiteStore) ListMessages(
	ctx context.Context,
	filter MessageFilter,
) ([]model.Message, error) {
	var conditions []string
	var args []interface{}

	if filter.TodoFlag != nil {
		conditions = append(conditions, "todo_flag = ?")
		args = append(args, int(*filter.TodoFlag))
	}
	if filter.CompletionState != nil {
		conditions = append(conditions, "completion_state = ?")
		args = append(args, *filter.CompletionState)
	}

	query := "SELECT * FROM messages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY received_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// SetMessageTodoFlag updates the classification flag for a message.
func (s *SQLiteStore) SetMessageTodoFlag(
	ctx context.Context,
	fingerprint string,
	flag model.TodoFlag,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET todo_flag = ? WHERE fingerprint = ?",
		int(flag), fingerprint)
	if err != nil {
		return fmt.Errorf("setting todo flag for %s: %w", fingerprint, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("message %s not found", fingerprint)
	}
	return nil
}

// SetMessageCompletion updates the user-controlled completion state.
func (s *SQLiteStore) SetMessageCompletion(
	ctx context.Context,
	fingerprint string,
	state string,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET completion_state = ? WHERE fingerprint = ?",
		state, fingerprint)
	if err != nil {
		return fmt.Errorf("setting completion for %s: %w", fingerprint, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("message %s not found", fingerprint)
	}
	return nil
}

// GetCheckpoint returns the sync watermark, or nil when no sync has
// recorded one yet.
func (s *SQLiteStore) GetCheckpoint(ctx context.Context) (*time.Time, error) {
	var checkpoint sql.NullTime
	err := s.db.GetContext(ctx, &checkpoint,
		"SELECT checkpoint FROM sync_state WHERE id = 1")
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	if !checkpoint.Valid {
		return nil, nil
	}
	t := checkpoint.Time.UTC()
	return &t, nil
}

// SetCheckpoint records the sync watermark.
func (s *SQLiteStore) SetCheckpoint(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sync_state SET checkpoint = ? WHERE id = 1", t.UTC())
	if err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}

// rowScanner abstracts *sqlx.Row and *sqlx.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMessage scans a message row.
func scanMessage(row rowScanner) (model.Message, error) {
	var (
		m          model.Message
		flag       int
		receivedAt time.Time
		createdAt  time.Time
	)

	err := row.Scan(
		&m.ID, &receivedAt, &m.Subject, &m.Body, &m.Sender,
		&m.Fingerprint, &flag, &m.Deadline, &m.CompletionState, &createdAt,
	)
	if err != nil {
		return model.Message{}, err
	}

	m.TodoFlag = model.TodoFlag(flag)
	m.ReceivedAt = receivedAt
	m.CreatedAt = createdAt
	return m, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
