package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailtodo/internal/model"
)

// CreateTodo inserts a new todo. Generates a UUID if ID is empty and
// returns the id.
func (s *SQLiteStore) CreateTodo(
	ctx context.Context,
	todo model.Todo,
) (string, error) {
	if strings.TrimSpace(todo.Task) == "" {
		return "", fmt.Errorf("todo task must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if todo.State == "" {
		todo.State = model.TodoStateActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, task, memo, deadline, source_fingerprint, state,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.Task, todo.Memo, todo.Deadline,
		todo.SourceFingerprint, todo.State,
		todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("creating todo: %w", err)
	}
	return todo.ID, nil
}

// FindActiveTodoByFingerprint returns the active todo derived from the
// given source message, or nil when none exists. At most one active todo
// carries a non-null fingerprint; the reconciler enforces this with
// lookup-before-insert rather than a uniqueness constraint.
func (s *SQLiteStore) FindActiveTodoByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*model.Todo, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT * FROM todos
		WHERE source_fingerprint = ? AND state = ?
		LIMIT 1`,
		fingerprint, model.TodoStateActive)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding todo by fingerprint: %w", err)
	}
	return &todo, nil
}

// DeleteTodo removes a todo by ID.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// UpdateTodoState changes a todo's state.
func (s *SQLiteStore) UpdateTodoState(
	ctx context.Context,
	id string,
	state string,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET state = ?, updated_at = ? WHERE id = ?",
		state, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating todo %s state: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}
	return nil
}

// ListTodos retrieves todos matching the filter, oldest first.
func (s *SQLiteStore) ListTodos(
	ctx context.Context,
	filter TodoFilter,
) ([]model.Todo, error) {
	var conditions []string
	var args []interface{}

	if filter.State != nil {
		conditions = append(conditions, "state = ?")
		args = append(args, *filter.State)
	}

	query := "SELECT * FROM todos"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo row: %w", err)
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// scanTodo scans a todo row.
func scanTodo(row rowScanner) (model.Todo, error) {
	var (
		todo              model.Todo
		sourceFingerprint sql.NullString
		createdAt         time.Time
		updatedAt         time.Time
	)

	err := row.Scan(
		&todo.ID, &todo.Task, &todo.Memo, &todo.Deadline,
		&sourceFingerprint, &todo.State, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Todo{}, err
	}

	if sourceFingerprint.Valid {
		fp := sourceFingerprint.String
		todo.SourceFingerprint = &fp
	}
	todo.CreatedAt = createdAt
	todo.UpdatedAt = updatedAt
	return todo, nil
}
