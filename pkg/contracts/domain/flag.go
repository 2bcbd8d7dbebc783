package domain

import "strings"

// FlagCode identifies a data-quality issue detected on a training record
type FlagCode string

const (
	FlagInvalidPhone     FlagCode = "INVALID_PHONE"
	FlagInvalidEmail     FlagCode = "INVALID_EMAIL"
	FlagNoTrainer        FlagCode = "NO_TRAINER"
	FlagUnknownMode      FlagCode = "UNKNOWN_MODE"
	FlagNoContract       FlagCode = "NO_CONTRACT"
	FlagInactiveContract FlagCode = "INACTIVE_CONTRACT"
	FlagOverLimit        FlagCode = "OVER_LIMIT"
)

// Flag is one entry of the static flags table
type Flag struct {
	Code        FlagCode `json:"code" yaml:"code" validate:"required"`
	Description string   `json:"description" yaml:"description" validate:"required"`
}

// FlagSeparator joins flag codes in the flags column
const FlagSeparator = ";"

// JoinFlags renders flag codes as a single cell value
func JoinFlags(codes []FlagCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, FlagSeparator)
}
