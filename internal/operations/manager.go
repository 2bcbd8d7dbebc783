package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trainingreports/internal/infrastructure"
)

// Manager runs the registered steps over one OperationState
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a pipeline manager. A nil config uses the defaults and
// a nil tracer records nothing.
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "operations"),
	}
}

// Execute runs every registered Step in dependency order. The first failure
// aborts the run and the remaining steps are marked skipped. The returned
// state is never nil.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*OperationState, error) {
	if req.RunID != "" {
		ctx = infrastructure.WithRunID(ctx, req.RunID)
	} else {
		ctx = infrastructure.EnsureRunID(ctx)
	}
	runID := infrastructure.GetRunID(ctx)
	req.RunID = runID

	state := NewOperationState(runID, req)

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		err = NewFatalError("failed to get dependency order", err)
		m.logOperationError(ctx, state, err)
		state.Fail(err)
		return state, err
	}

	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, runID, req)

	state.Start()
	m.logOperationStart(ctx, runID, req, m.registry.ListIDs())

	err = m.executeSequential(ctx, state, steps)

	period := ""
	if !state.Data.Period.IsZero() {
		period = state.Data.Period.String()
	}

	switch {
	case err == nil:
		state.Complete()
		m.logOperationComplete(ctx, state, period)
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		m.logOperationError(ctx, state, err)
	default:
		state.Fail(err)
		m.logOperationError(ctx, state, err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, period, state.Duration(), err)

	return state, err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "run cancelled")
			return NewCancellationError(step.ID(), err)
		}

		m.logger.DebugContext(ctx, "executing_stage",
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage validates and runs a single Step under its timeout
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("state of step %s not found", step.ID()), nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Fail(err)
		m.logStageError(ctx, step.ID(), err)
		return err
	}

	stageCtx, span := m.tracer.TraceStageExecution(ctx, state.ID, step.ID())

	stepState.Start()
	m.logStageStart(stageCtx, step.ID())
	startTime := time.Now()

	err := step.Validate(state)
	if err != nil {
		err = NewValidationError(step.ID(), err.Error())
	} else {
		err = m.runWithTimeout(stageCtx, state, step)
	}
	duration := time.Since(startTime)

	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		m.logStageError(ctx, step.ID(), err)
		return err
	}

	stepState.Complete()
	m.logStageComplete(ctx, step.ID(), duration)
	return nil
}

// runWithTimeout executes the Step and classifies context failures
func (m *Manager) runWithTimeout(ctx context.Context, state *OperationState, step Step) error {
	timeout := m.config.GetStageTimeout(step.ID())
	stageCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := step.Execute(stageCtx, state)
	if err == nil {
		return nil
	}

	switch {
	case ctx.Err() != nil:
		return NewCancellationError(step.ID(), err)
	case errors.Is(stageCtx.Err(), context.DeadlineExceeded):
		return NewTimeoutError(step.ID(), timeout.String(), err)
	default:
		return WrapError(err, step.ID(), "step execution failed")
	}
}

// checkDependencies ensures every dependency of step has completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil || depState.GetStatus() != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s has not completed", dep))
		}
	}
	return nil
}

// skipRemaining marks steps that will not run
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}
