package classify

import (
	"testing"
	"time"
)

func TestExtractDeadline(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso dashes", "마감: 2025-03-10 입니다", "2025/03/10"},
		{"iso dots", "제출일 2025.3.7", "2025/03/07"},
		{"iso slashes", "due 2026/1/2", "2026/01/02"},
		{"korean full", "2025년 3월 10일까지 제출", "2025/03/10"},
		{"korean full spacing", "2025년3월10일", "2025/03/10"},
		{"month day", "3월 10일까지", "2025/03/10"},
		{"numeric month day", "submit by 3/5", "2025/03/05"},
		{"bare day", "15일까지 부탁합니다", "2025/03/15"},
		{"no date", "아무 날짜도 없는 본문", ""},
		{"empty", "", ""},
		{"impossible month", "2025-13-40 보고", ""},
		{"impossible day", "4월 99일", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDeadline(tt.text, now); got != tt.want {
				t.Errorf("ExtractDeadline(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Fully qualified dates win over more ambiguous phrasings regardless of
// where they appear in the text.
func TestExtractDeadlinePriority(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		text string
		want string
	}{
		{"3/5 회의 후 2025-03-10 까지 제출", "2025/03/10"},
		{"5일까지 준비, 2025년 4월 1일 발표", "2025/04/01"},
		{"4월 2일 모임, 15일까지 회신", "2025/04/02"},
		// An impossible match is skipped in favor of a valid date
		// elsewhere in the text, across and within pattern priorities.
		{"2025-13-40 보고, 3월 10일까지", "2025/03/10"},
		{"4월 99일 오타, 15일까지 제출", "2025/03/15"},
		{"2025-13-01 그리고 2025-04-02 마감", "2025/04/02"},
	}

	for _, tt := range tests {
		if got := ExtractDeadline(tt.text, now); got != tt.want {
			t.Errorf("ExtractDeadline(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
