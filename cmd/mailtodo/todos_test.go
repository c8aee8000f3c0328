package main

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPadUsesDisplayWidth(t *testing.T) {
	tests := []struct {
		s     string
		width int
	}{
		{"", 6},
		{"D-DAY", 6},
		{"과제 제출 안내", 20},
		{"보고서", 10},
		{"task", 10},
	}

	for _, tt := range tests {
		got := pad(tt.s, tt.width)
		if w := lipgloss.Width(got); w != tt.width {
			t.Errorf("pad(%q, %d) renders %d cells wide", tt.s, tt.width, w)
		}
	}
}

func TestPadKoreanColumnsAlign(t *testing.T) {
	// A Hangul cell and an ASCII cell padded to the same width must
	// occupy the same number of terminal cells.
	korean := pad("과제", 10)
	ascii := pad("task", 10)
	if lipgloss.Width(korean) != lipgloss.Width(ascii) {
		t.Errorf("widths differ: %d vs %d",
			lipgloss.Width(korean), lipgloss.Width(ascii))
	}
}

func TestPadLeavesWideStringsAlone(t *testing.T) {
	s := "아주 길어서 칸을 넘는 제목"
	if got := pad(s, 4); got != s {
		t.Errorf("pad(%q, 4) = %q, want unchanged", s, got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}
