package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trim and collapse", "  John   Doe ", "John Doe"},
		{"apostrophe", "O'Brien", "OBrien"},
		{"quotes and semicolons", `say "hi"; *now*`, "say hi now"},
		{"backslash and backtick", "a\\b`c", "abc"},
		{"non-breaking space", "a\u00a0b", "a b"},
		{"zero width", "x\u200by\ufeff", "xy"},
		{"tabs and newlines", "tab\there\n", "tab here"},
		{"control characters", "bell\x07s", "bells"},
		{"nfc composition", "e\u0301", "\u00e9"},
		{"only unwanted", "***", ""},
		{"cyrillic untouched", " Мария  Иванова ", "Мария Иванова"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanValue(tt.input))
		})
	}
}
