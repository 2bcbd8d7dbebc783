package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNickname(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		email     string
		firstName string
		want      string
	}{
		{"explicit source wins", "Vanko", "ivan.petrov@acme.bg", "Ivan", "vanko"},
		{"explicit cyrillic source", "Ваньо", "", "", "vanyo"},
		{"email local part", "", "ivan.petrov@acme.bg", "Ivan", "ivan"},
		{"digits stripped", "", "elena99@x.bg", "Elena", "elena"},
		{"initial falls back to first name", "", "g.dimitrov@beta.com", "Georgi", "georgi"},
		{"underscore split", "", "j_smith@x.com", "John", "john"},
		{"malformed email keeps local part", "", "elena.koleva@", "Elena", "elena"},
		{"first word of first name", "", "", "Maria Elena", "maria"},
		{"nothing to derive", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveNickname(tt.source, tt.email, tt.firstName))
		})
	}
}
