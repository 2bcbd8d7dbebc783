package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransliterate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Иван", "Ivan"},
		{"Петров", "Petrov"},
		{"Мария", "Maria"},
		{"Юлия Христова", "Yulia Hristova"},
		{"България", "Balgaria"},
		{"Щерьо", "Shteryo"},
		{"ЖАНА", "ZHANA"},
		{"Жана", "Zhana"},
		{"Цветелина Чавдарова", "Tsvetelina Chavdarova"},
		{"Ivan", "Ivan"},
		{"Мария-Ивана", "Maria-Ivana"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Transliterate(tt.input))
		})
	}
}
