package operations

import (
	"sync"
	"time"

	"trainingreports/internal/config"
	"trainingreports/pkg/contracts/domain"
)

// OperationStatusValue represents the overall run status
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// PipelineData carries the values steps hand to each other. Each field is
// written by exactly one step.
type PipelineData struct {
	Collection *config.Collection

	ReportPath       string
	LimitationsPath  string
	ReportInput      *domain.Table
	LimitationsInput *domain.Table

	Limitations      []domain.CompanyLimitation
	LimitationsTable *domain.Table

	Records []*domain.TrainingRecord
	Period  domain.Period
	Monthly []*domain.TrainingRecord

	RawFull    *domain.Table
	RawMonthly *domain.Table
	NewFull    *domain.Table
	NewMonthly *domain.Table

	TotalTrainings *domain.Table
	Trainers       *domain.Table

	Reports *domain.ReportSet
}

// OperationState represents the complete state of one pipeline run
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`
	order []string

	// Request is the input of the run; Data is filled step by step
	Request RunRequest    `json:"-"`
	Data    *PipelineData `json:"-"`

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a new run state
func NewOperationState(id string, req RunRequest) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Request:   req,
		Data:      &PipelineData{},
	}
}

// Start marks the run as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the run as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the run as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the run as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStatus returns the current run status
func (p *OperationState) GetStatus() OperationStatusValue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.Steps[stageID]; !ok {
		p.order = append(p.order, stageID)
	}
	p.Steps[stageID] = state
}

// Duration returns the duration of the run
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// GetCompletedStages returns the IDs of completed steps in execution order
func (p *OperationState) GetCompletedStages() []string {
	return p.stagesWith(StepStatusCompleted)
}

// GetFailedStages returns the IDs of failed steps in execution order
func (p *OperationState) GetFailedStages() []string {
	return p.stagesWith(StepStatusFailed)
}

func (p *OperationState) stagesWith(status StepStatus) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var ids []string
	for _, id := range p.order {
		if p.Steps[id].GetStatus() == status {
			ids = append(ids, id)
		}
	}
	return ids
}
