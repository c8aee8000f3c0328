package store_test

import (
	"context"
	"testing"

	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/store"
	"github.com/nhle/mailtodo/tests/testutil"
)

func TestCreateTodoDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTodo(ctx, model.Todo{Task: "보고서 제출"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if id == "" {
		t.Fatal("CreateTodo returned an empty id")
	}

	todos, err := s.ListTodos(ctx, store.TodoFilter{})
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("stored %d todos, want 1", len(todos))
	}

	got := todos[0]
	if got.State != model.TodoStateActive {
		t.Errorf("State = %q, want %q", got.State, model.TodoStateActive)
	}
	if got.SourceFingerprint != nil {
		t.Errorf("SourceFingerprint = %v, want nil for a manual todo", *got.SourceFingerprint)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestCreateTodoRejectsBlankTask(t *testing.T) {
	s := testutil.NewTestStore(t)

	if _, err := s.CreateTodo(context.Background(), model.Todo{Task: "   "}); err == nil {
		t.Error("CreateTodo accepted a blank task")
	}
}

func TestFindActiveTodoByFingerprint(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	got, err := s.FindActiveTodoByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("FindActiveTodoByFingerprint: %v", err)
	}
	if got != nil {
		t.Errorf("found %+v before any todo exists", got)
	}

	fp := "fp-1"
	id, err := s.CreateTodo(ctx, model.Todo{
		Task:              "과제 제출",
		Deadline:          "2025/03/10",
		SourceFingerprint: &fp,
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	got, err = s.FindActiveTodoByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("FindActiveTodoByFingerprint: %v", err)
	}
	if got == nil {
		t.Fatal("derived todo not found")
	}
	if got.ID != id || got.Deadline != "2025/03/10" {
		t.Errorf("found %+v", got)
	}

	// Excluded todos no longer count as active.
	if err := s.UpdateTodoState(ctx, id, model.TodoStateExcluded); err != nil {
		t.Fatalf("UpdateTodoState: %v", err)
	}
	got, err = s.FindActiveTodoByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("FindActiveTodoByFingerprint: %v", err)
	}
	if got != nil {
		t.Errorf("excluded todo still reported active: %+v", got)
	}
}

func TestDeleteTodo(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTodo(ctx, model.Todo{Task: "x"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	if err := s.DeleteTodo(ctx, id); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if err := s.DeleteTodo(ctx, id); err == nil {
		t.Error("DeleteTodo succeeded twice")
	}
}

func TestListTodosFilterByState(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	activeID, err := s.CreateTodo(ctx, model.Todo{Task: "active one"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	excludedID, err := s.CreateTodo(ctx, model.Todo{Task: "excluded one"})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if err := s.UpdateTodoState(ctx, excludedID, model.TodoStateExcluded); err != nil {
		t.Fatalf("UpdateTodoState: %v", err)
	}

	state := model.TodoStateActive
	todos, err := s.ListTodos(ctx, store.TodoFilter{State: &state})
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != activeID {
		t.Errorf("active filter returned %+v", todos)
	}

	todos, err = s.ListTodos(ctx, store.TodoFilter{})
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("unfiltered list returned %d todos, want 2", len(todos))
	}
}
