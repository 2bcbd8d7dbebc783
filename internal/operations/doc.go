// Package operations runs the training report pipeline as a sequence of
// registered steps over one OperationState.
//
// Core Components:
//
// Manager: executes the registered steps in dependency order, one at a time.
// The first failing step aborts the run and every step after it is marked
// skipped. Each run carries a run id that is placed in the context, so it
// reaches every log line and span.
//
// Step: a single unit of work. Steps declare the steps they depend on and
// validate their preconditions before running.
//
// Registry: holds the steps and orders them topologically, breaking ties by
// registration order.
//
// State: tracks the status of the run and of each step, and carries the
// PipelineData the steps hand to each other.
//
// The full run is:
//
//	load_collection -> read_inputs -> prepare_limitations -> normalize ->
//	join_limitations -> count_trainings -> validate_fields ->
//	active_contracts -> calendar_fields -> select_period ->
//	select_columns -> aggregate -> assemble
//
// Example usage:
//
//	manager, err := operations.NewPipelineManager(nil, &operations.StageOptions{
//		Logger: logger,
//		Tracer: tracer,
//	})
//	if err != nil {
//		return err
//	}
//	state, err := manager.Execute(ctx, operations.RunRequestFromConfig(cfg))
//	if err != nil {
//		return err
//	}
//	reports := state.Data.Reports
package operations
