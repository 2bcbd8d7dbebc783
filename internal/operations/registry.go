package operations

import (
	"fmt"
	"sync"
)

// Registry manages registered pipeline steps
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string // Maintains registration order
}

// NewRegistry creates an empty Step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a Step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil Step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("Step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("Step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// ListIDs returns all registered Step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// GetDependencyOrder returns steps ordered by dependencies. Steps that become
// ready together keep their registration order.
func (r *Registry) GetDependencyOrder() ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dependencyOrder()
}

// ValidateDependencies checks that every dependency exists and that there
// are no cycles
func (r *Registry) ValidateDependencies() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err := r.dependencyOrder()
	return err
}

// dependencyOrder runs Kahn's algorithm; callers hold the read lock
func (r *Registry) dependencyOrder() ([]Step, error) {
	graph := make(map[string][]string, len(r.steps))
	inDegree := make(map[string]int, len(r.steps))

	for _, id := range r.order {
		for _, dep := range r.steps[id].GetDependencies() {
			if _, exists := r.steps[dep]; !exists {
				return nil, fmt.Errorf("Step %s depends on non-existent Step %s", id, dep)
			}
			graph[dep] = append(graph[dep], id)
			inDegree[id]++
		}
	}

	position := make(map[string]int, len(r.order))
	queue := make([]string, 0, len(r.order))
	for i, id := range r.order {
		position[id] = i
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	ordered := make([]Step, 0, len(r.steps))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		ordered = append(ordered, r.steps[current])

		for _, dependent := range graph[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = insertByPosition(queue, dependent, position)
			}
		}
	}

	if len(ordered) != len(r.steps) {
		return nil, fmt.Errorf("dependency cycle detected")
	}
	return ordered, nil
}

// insertByPosition keeps the ready queue sorted by registration order
func insertByPosition(queue []string, id string, position map[string]int) []string {
	i := len(queue)
	for i > 0 && position[queue[i-1]] > position[id] {
		i--
	}
	queue = append(queue, "")
	copy(queue[i+1:], queue[i:])
	queue[i] = id
	return queue
}
