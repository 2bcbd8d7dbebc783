package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/internal/operations"
)

func TestRegistry(t *testing.T) {
	registry := operations.NewRegistry()

	assert.NotNil(t, registry.ListIDs(), "ListIDs should return an empty slice, not nil")
	assert.Empty(t, registry.ListIDs())
}

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()

	stage1 := newFakeStep("stage1")
	stage2 := newFakeStep("stage2")
	stage3 := newFakeStep("stage3")

	require.NoError(t, registry.Register(stage1))
	require.NoError(t, registry.Register(stage2))
	require.NoError(t, registry.Register(stage3))

	assert.Equal(t, []string{"stage1", "stage2", "stage3"}, registry.ListIDs())
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()

	assert.ErrorContains(t, registry.Register(nil), "nil Step")
	assert.ErrorContains(t, registry.Register(newFakeStep("")), "ID cannot be empty")

	dup := newFakeStep("dup")
	require.NoError(t, registry.Register(dup))
	assert.ErrorContains(t, registry.Register(dup), "already registered")
}

func TestRegistryDependencyOrder(t *testing.T) {
	tests := []struct {
		name  string
		steps []*fakeStep
		want  []string
	}{
		{
			name:  "linear chain",
			steps: []*fakeStep{newFakeStep("a"), newFakeStep("b", "a"), newFakeStep("c", "b")},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "registered before dependency",
			steps: []*fakeStep{newFakeStep("c", "b"), newFakeStep("b", "a"), newFakeStep("a")},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "independent steps keep registration order",
			steps: []*fakeStep{newFakeStep("x"), newFakeStep("y"), newFakeStep("z")},
			want:  []string{"x", "y", "z"},
		},
		{
			name: "ready queue follows registration order",
			steps: []*fakeStep{
				newFakeStep("root"),
				newFakeStep("late", "root"),
				newFakeStep("early"),
				newFakeStep("join", "late", "early"),
			},
			want: []string{"root", "late", "early", "join"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := operations.NewRegistry()
			for _, s := range tt.steps {
				require.NoError(t, registry.Register(s))
			}

			ordered, err := registry.GetDependencyOrder()
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepIDs(ordered))
			assert.NoError(t, registry.ValidateDependencies())
		})
	}
}

func TestRegistryDependencyErrors(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		registry := operations.NewRegistry()
		require.NoError(t, registry.Register(newFakeStep("a", "ghost")))

		_, err := registry.GetDependencyOrder()
		assert.ErrorContains(t, err, "non-existent Step ghost")
		assert.Error(t, registry.ValidateDependencies())
	})

	t.Run("cycle", func(t *testing.T) {
		registry := operations.NewRegistry()
		require.NoError(t, registry.Register(newFakeStep("a", "c")))
		require.NoError(t, registry.Register(newFakeStep("b", "a")))
		require.NoError(t, registry.Register(newFakeStep("c", "b")))

		_, err := registry.GetDependencyOrder()
		assert.ErrorContains(t, err, "cycle")
		assert.ErrorContains(t, registry.ValidateDependencies(), "cycle")
	})
}

func TestRegistryPipelineSteps(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, operations.RegisterPipelineSteps(registry, nil))

	ordered, err := registry.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, operations.PipelineStepIDs, stepIDs(ordered))
}
