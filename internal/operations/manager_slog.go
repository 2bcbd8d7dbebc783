package operations

import (
	"context"
	"log/slog"
	"time"

	apperrors "trainingreports/internal/errors"
)

// logOperationStart logs the start of a run
func (m *Manager) logOperationStart(ctx context.Context, runID string, req RunRequest, stepIDs []string) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("run_id", runID),
		slog.String("report_file", req.ReportFile),
		slog.String("limitations_file", req.LimitationsFile),
		slog.String("period", req.Period),
		slog.Int("step_count", len(stepIDs)),
		slog.Any("steps", stepIDs))
}

// logOperationComplete logs the completion of a run. period is empty when
// none was selected.
func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState, period string) {
	attrs := []slog.Attr{
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()),
		slog.Int("completed_steps", len(state.GetCompletedStages())),
	}
	if period != "" {
		attrs = append(attrs, slog.String("period", period))
	}
	m.logger.LogAttrs(ctx, slog.LevelInfo, "operation_complete", attrs...)
}

// logOperationError logs a run failure
func (m *Manager) logOperationError(ctx context.Context, state *OperationState, err error) {
	attrs := []slog.Attr{slog.String("run_id", state.ID)}
	if failed := state.GetFailedStages(); len(failed) > 0 {
		attrs = append(attrs, slog.Any("failed_steps", failed))
	}
	attrs = append(attrs, apperrors.LogAttrs(err)...)
	m.logger.LogAttrs(ctx, slog.LevelError, "operation_error", attrs...)
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, stepID string) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("step", stepID))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error with its context
func (m *Manager) logStageError(ctx context.Context, stepID string, err error) {
	attrs := []slog.Attr{
		slog.String("step", stepID),
		slog.String("error_kind", string(GetErrorType(err))),
	}
	attrs = append(attrs, apperrors.LogAttrs(err)...)
	m.logger.LogAttrs(ctx, slog.LevelError, "stage_error", attrs...)
}
