package dataprocessing

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"trainingreports/internal/config"
)

func TestNormalizePhone(t *testing.T) {
	pattern := regexp.MustCompile(config.DefaultPhonePattern)

	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"0888 123 456", "+359888123456", true},
		{"+359888123456", "+359888123456", true},
		{"00359 878 111 222", "+359878111222", true},
		{"(088) 812-3456", "+359888123456", true},
		{"0899.123.456", "+359899123456", true},
		{"12345", "12345", false},
		{"0288123456", "0288123456", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, valid := NormalizePhone(tt.raw, pattern, config.DefaultPhonePrefix)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, valid)
		})
	}
}
