package operations

import (
	"time"
)

// Config represents the pipeline execution configuration
type Config struct {
	// Step-specific timeouts; zero disables the deadline
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`

	// Timeout for steps without an entry in StageTimeouts
	DefaultTimeout time.Duration `json:"default_timeout"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StageTimeouts: map[string]time.Duration{
			StepIDReadInputs:   DefaultReadInputsTimeout,
			StepIDSelectPeriod: DefaultSelectPeriodTimeout,
		},
		DefaultTimeout: DefaultStageTimeout,
	}
}

// NewConfigWithTimeouts returns the defaults with the given step deadlines
// applied on top
func NewConfigWithTimeouts(timeouts map[string]time.Duration) *Config {
	c := NewConfig()
	for id, timeout := range timeouts {
		c.SetStageTimeout(id, timeout)
	}
	return c
}

// GetStageTimeout returns the timeout for a specific Step
func (c *Config) GetStageTimeout(stageID string) time.Duration {
	if timeout, ok := c.StageTimeouts[stageID]; ok {
		return timeout
	}
	return c.DefaultTimeout
}

// SetStageTimeout sets the timeout for a specific Step
func (c *Config) SetStageTimeout(stageID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stageID] = timeout
}
