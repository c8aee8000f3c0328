package model

import (
	"testing"
	"time"
)

func TestDDay(t *testing.T) {
	now := time.Date(2025, 3, 7, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		deadline string
		want     string
	}{
		{"2025/03/10", "D-3"},
		{"2025/03/08", "D-1"},
		{"2025/03/07", "D-DAY"},
		{"2025/03/05", "D+2"},
		{"2025/04/07", "D-31"},
		{"", ""},
		{"not-a-date", ""},
	}

	for _, tt := range tests {
		todo := Todo{Deadline: tt.deadline}
		if got := todo.DDay(now); got != tt.want {
			t.Errorf("DDay(%q) = %q, want %q", tt.deadline, got, tt.want)
		}
	}
}

func TestTodoFlagString(t *testing.T) {
	tests := []struct {
		flag TodoFlag
		want string
	}{
		{FlagUnclassified, "unclassified"},
		{FlagNotTodo, "not-todo"},
		{FlagTodo, "todo"},
	}

	for _, tt := range tests {
		if got := tt.flag.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.flag), got, tt.want)
		}
	}
}
