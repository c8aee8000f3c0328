// Package reconcile keeps the derived todo set consistent with the
// classified message set and user overrides. Every operation is
// idempotent: re-running it against the same state changes nothing.
package reconcile

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/store"
)

// Reconciler upserts classified messages into the todo store, removes
// todos whose source was reclassified or excluded, and folds user
// overrides back into the scorer's feedback corpus.
type Reconciler struct {
	store  store.Store
	logger *log.Logger
}

// New creates a Reconciler backed by the given store.
func New(s store.Store) *Reconciler {
	return &Reconciler{
		store:  s,
		logger: log.Default().With("component", "reconciler"),
	}
}

// ApplyIngestion folds one classified message into the todo set.
// A todo-flagged message gains an active todo unless one already exists
// or the user excluded the message — exclusion takes precedence over
// flag-driven recreation. A message classified away from todo loses its
// active todo, which makes reclassification self-correcting.
func (r *Reconciler) ApplyIngestion(ctx context.Context, m model.Message) error {
	existing, err := r.store.FindActiveTodoByFingerprint(ctx, m.Fingerprint)
	if err != nil {
		return fmt.Errorf("reconciling %s: %w", m.Fingerprint, err)
	}

	if m.TodoFlag != model.FlagTodo {
		if existing == nil {
			return nil
		}
		if err := r.store.DeleteTodo(ctx, existing.ID); err != nil {
			return fmt.Errorf("removing reclassified todo: %w", err)
		}
		return nil
	}

	if m.CompletionState == model.CompletionExcluded {
		return nil
	}
	if existing != nil {
		return nil
	}

	fp := m.Fingerprint
	task := m.Subject
	if task == "" {
		task = "(no subject)"
	}

	_, err = r.store.CreateTodo(ctx, model.Todo{
		Task:              task,
		Memo:              m.Body,
		Deadline:          m.Deadline,
		SourceFingerprint: &fp,
	})
	if err != nil {
		return fmt.Errorf("creating todo for %s: %w", m.Fingerprint, err)
	}
	return nil
}

// ExcludeBySource marks the source message excluded, deletes the derived
// todo, and appends a negative training sample to the feedback corpus.
func (r *Reconciler) ExcludeBySource(ctx context.Context, fingerprint string) error {
	m, err := r.store.GetMessageByFingerprint(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("excluding %s: %w", fingerprint, err)
	}
	if m == nil {
		return fmt.Errorf("no message with fingerprint %s", fingerprint)
	}

	if err := r.store.SetMessageCompletion(
		ctx, fingerprint, model.CompletionExcluded,
	); err != nil {
		return fmt.Errorf("excluding %s: %w", fingerprint, err)
	}

	existing, err := r.store.FindActiveTodoByFingerprint(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("excluding %s: %w", fingerprint, err)
	}
	if existing != nil {
		if err := r.store.DeleteTodo(ctx, existing.ID); err != nil {
			return fmt.Errorf("removing excluded todo: %w", err)
		}
	}

	r.appendSample(ctx, m.Text(), false)
	return nil
}

// PromoteBySource marks the message todo by explicit user override,
// clears a previous exclusion, inserts the todo if absent, and appends a
// positive training sample.
func (r *Reconciler) PromoteBySource(ctx context.Context, fingerprint string) error {
	m, err := r.store.GetMessageByFingerprint(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("promoting %s: %w", fingerprint, err)
	}
	if m == nil {
		return fmt.Errorf("no message with fingerprint %s", fingerprint)
	}

	if err := r.store.SetMessageTodoFlag(
		ctx, fingerprint, model.FlagTodo,
	); err != nil {
		return fmt.Errorf("promoting %s: %w", fingerprint, err)
	}

	// An explicit promote overrides an earlier exclusion.
	if m.CompletionState == model.CompletionExcluded {
		if err := r.store.SetMessageCompletion(
			ctx, fingerprint, model.CompletionOpen,
		); err != nil {
			return fmt.Errorf("promoting %s: %w", fingerprint, err)
		}
	}

	existing, err := r.store.FindActiveTodoByFingerprint(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("promoting %s: %w", fingerprint, err)
	}
	if existing == nil {
		fp := fingerprint
		task := m.Subject
		if task == "" {
			task = "(no subject)"
		}
		_, err := r.store.CreateTodo(ctx, model.Todo{
			Task:              task,
			Memo:              m.Body,
			Deadline:          m.Deadline,
			SourceFingerprint: &fp,
		})
		if err != nil {
			return fmt.Errorf("creating promoted todo: %w", err)
		}
	}

	r.appendSample(ctx, m.Text(), true)
	return nil
}

// appendSample writes a feedback-corpus entry. Corpus writes are
// best-effort: a failure must not fail the reconciliation it is attached
// to, so errors are only logged.
func (r *Reconciler) appendSample(ctx context.Context, text string, isTodo bool) {
	err := r.store.AppendTrainingSample(ctx, model.TrainingSample{
		Text:   text,
		IsTodo: isTodo,
	})
	if err != nil {
		r.logger.Warn("dropping training sample", "err", err)
	}
}
