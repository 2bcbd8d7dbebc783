package errors

import (
	stderrors "errors"
	"log/slog"
	"sort"
)

// Exit codes returned by the command line tools
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitInput      = 3
	ExitParsing    = 4
	ExitStorage    = 5
	ExitConfig     = 6
	ExitValidation = 7
)

// Is, As and Join re-export the standard helpers so callers need a single import
var (
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)

// TypeOf returns the ErrorType of the first AppError in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch TypeOf(err) {
	case ErrTypeInput, ErrTypeNotFound:
		return ExitInput
	case ErrTypeParsing:
		return ExitParsing
	case ErrTypeStorage:
		return ExitStorage
	case ErrTypeConfig:
		return ExitConfig
	case ErrTypeValidation:
		return ExitValidation
	default:
		return ExitFailure
	}
}

// LogAttrs flattens an error into slog attributes, including AppError context
func LogAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{slog.String("error", err.Error())}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.Any(k, appErr.Context[k]))
		}
	}
	return attrs
}
