package operations_test

import (
	"context"
	"sync"

	"trainingreports/internal/operations"
)

// fakeStep is a configurable Step that records its calls
type fakeStep struct {
	operations.BaseStage
	run      func(ctx context.Context, state *operations.OperationState) error
	validate func(state *operations.OperationState) error

	mu    sync.Mutex
	calls int
}

func newFakeStep(id string, deps ...string) *fakeStep {
	return &fakeStep{BaseStage: operations.NewBaseStage(id, "Fake "+id, deps)}
}

func (s *fakeStep) Execute(ctx context.Context, state *operations.OperationState) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.run != nil {
		return s.run(ctx, state)
	}
	return nil
}

func (s *fakeStep) Validate(state *operations.OperationState) error {
	if s.validate != nil {
		return s.validate(state)
	}
	return nil
}

func (s *fakeStep) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recorder returns a run func appending the step id to order
func recorder(order *[]string, id string) func(context.Context, *operations.OperationState) error {
	return func(context.Context, *operations.OperationState) error {
		*order = append(*order, id)
		return nil
	}
}

func stepIDs(steps []operations.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}
