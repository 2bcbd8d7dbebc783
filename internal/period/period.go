package period

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

var (
	// ErrInvalidFormat is returned for input that does not look like YYYY-MM
	ErrInvalidFormat = errors.New("period must be in the YYYY-MM format")
	// ErrInvalidMonth is returned for a well-formed period whose month is not 01-12
	ErrInvalidMonth = errors.New("period month must be between 01 and 12")
	// ErrNoInput is returned when the prompt input ends before a valid period
	ErrNoInput = errors.New("no period entered")
)

// PromptText is written before every read
const PromptText = "Please choose the year and the month (YYYY-MM) for the monthly reports\n" +
	"'2023-03' for example is March 2023: "

// firstOfMonth is appended to a YYYY-MM value before parsing
const firstOfMonth = "-01 00:00:00"

// Parse validates a YYYY-MM value against the collection's period pattern
// and returns the period it names
func Parse(input string, c *config.Collection) (domain.Period, error) {
	v := strings.TrimSpace(input)
	if !c.PeriodPattern().MatchString(v) {
		return domain.Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}

	month, err := strconv.Atoi(v[len(v)-2:])
	if err != nil || month < 1 || month > 12 {
		return domain.Period{}, fmt.Errorf("%w: %q", ErrInvalidMonth, input)
	}

	t, err := time.Parse(config.DefaultDatetimeFormat, v+firstOfMonth)
	if err != nil {
		return domain.Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}
	return domain.PeriodOf(t), nil
}

// Prompt asks for a period on out and reads answers from in until one
// parses. Malformed answers re-prompt without limit. It fails only when
// the input ends, cannot be read, or ctx is done, including while it waits
// for an answer.
func Prompt(ctx context.Context, in io.Reader, out io.Writer, c *config.Collection) (domain.Period, error) {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return domain.Period{}, err
		}

		fmt.Fprint(out, PromptText)

		var answer scanResult
		select {
		case <-ctx.Done():
			return domain.Period{}, ctx.Err()
		case answer = <-lines:
		}
		if answer.err != nil {
			return domain.Period{}, fmt.Errorf("read period: %w", answer.err)
		}
		if answer.eof {
			return domain.Period{}, ErrNoInput
		}

		p, err := Parse(answer.text, c)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrInvalidMonth) {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		return domain.Period{}, err
	}
}

type scanResult struct {
	text string
	eof  bool
	err  error
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The goroutine stops once done is closed; a read already
// blocked in the terminal ends with the process.
func readLines(in io.Reader, done <-chan struct{}) <-chan scanResult {
	lines := make(chan scanResult)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanResult{text: scanner.Text()}:
			case <-done:
				return
			}
		}
		select {
		case lines <- scanResult{eof: true, err: scanner.Err()}:
		case <-done:
		}
	}()
	return lines
}

// Options describes where the period comes from
type Options struct {
	// Value bypasses the prompt when set
	Value       string
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// Select returns the supplied period, or prompts for one when none was
// supplied and prompting is allowed. Failures are INPUT errors.
func Select(ctx context.Context, opts Options, c *config.Collection) (domain.Period, error) {
	if strings.TrimSpace(opts.Value) != "" {
		p, err := Parse(opts.Value, c)
		if err != nil {
			return domain.Period{}, apperrors.NewInputError("invalid period", err).
				WithContext("period", opts.Value)
		}
		return p, nil
	}

	if !opts.Interactive || opts.In == nil {
		return domain.Period{}, apperrors.NewInputError("no period given and prompting is disabled", nil)
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	p, err := Prompt(ctx, opts.In, out, c)
	if err != nil {
		return domain.Period{}, apperrors.NewInputError("period selection failed", err)
	}
	return p, nil
}

// Filter returns the records whose start time falls in p, in their
// original order, as a new slice
func Filter(records []*domain.TrainingRecord, p domain.Period) []*domain.TrainingRecord {
	out := make([]*domain.TrainingRecord, 0, len(records))
	for _, r := range records {
		if p.Contains(r.StartTime) {
			out = append(out, r)
		}
	}
	return out
}
