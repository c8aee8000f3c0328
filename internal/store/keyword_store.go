package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/mailtodo/internal/model"
)

// GetKeywords returns the user-managed keyword list, most recent first.
func (s *SQLiteStore) GetKeywords(ctx context.Context) ([]string, error) {
	var keywords []string
	err := s.db.SelectContext(ctx, &keywords,
		"SELECT keyword FROM keywords ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying keywords: %w", err)
	}
	return keywords, nil
}

// AddKeyword inserts a keyword. Duplicates are a no-op.
func (s *SQLiteStore) AddKeyword(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO keywords (id, keyword, created_at) VALUES (?, ?, ?)",
		uuid.New().String(), keyword, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("adding keyword %q: %w", keyword, err)
	}
	return nil
}

// UpdateKeyword renames an existing keyword.
func (s *SQLiteStore) UpdateKeyword(
	ctx context.Context,
	oldKeyword, newKeyword string,
) error {
	newKeyword = strings.TrimSpace(newKeyword)
	if newKeyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE keywords SET keyword = ? WHERE keyword = ?",
		newKeyword, oldKeyword)
	if err != nil {
		return fmt.Errorf("updating keyword %q: %w", oldKeyword, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("keyword %q not found", oldKeyword)
	}
	return nil
}

// DeleteKeyword removes a keyword.
func (s *SQLiteStore) DeleteKeyword(ctx context.Context, keyword string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM keywords WHERE keyword = ?", keyword)
	if err != nil {
		return fmt.Errorf("deleting keyword %q: %w", keyword, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("keyword %q not found", keyword)
	}
	return nil
}

// AppendTrainingSample adds a feedback entry to the scorer corpus.
// The corpus is append-only.
func (s *SQLiteStore) AppendTrainingSample(
	ctx context.Context,
	sample model.TrainingSample,
) error {
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO training_samples (id, text, is_todo, created_at) VALUES (?, ?, ?, ?)",
		sample.ID, sample.Text, boolToInt(sample.IsTodo), sample.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending training sample: %w", err)
	}
	return nil
}

// ListTrainingSamples returns the whole feedback corpus in insert order.
func (s *SQLiteStore) ListTrainingSamples(
	ctx context.Context,
) ([]model.TrainingSample, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM training_samples ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying training samples: %w", err)
	}
	defer rows.Close()

	var samples []model.TrainingSample
	for rows.Next() {
		var (
			sample    model.TrainingSample
			isTodo    int
			createdAt time.Time
		)
		if err := rows.Scan(&sample.ID, &sample.Text, &isTodo, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning training sample row: %w", err)
		}
		sample.IsTodo = isTodo != 0
		sample.CreatedAt = createdAt
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// CountTrainingSamples returns the size of the feedback corpus.
func (s *SQLiteStore) CountTrainingSamples(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM training_samples")
	if err != nil {
		return 0, fmt.Errorf("counting training samples: %w", err)
	}
	return count, nil
}
