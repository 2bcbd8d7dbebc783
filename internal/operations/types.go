package operations

import (
	"io"
	"time"

	"trainingreports/internal/config"
)

// Pipeline step identifiers
const (
	StepIDLoadCollection     = "load_collection"
	StepIDReadInputs         = "read_inputs"
	StepIDPrepareLimitations = "prepare_limitations"
	StepIDNormalize          = "normalize"
	StepIDJoinLimitations    = "join_limitations"
	StepIDCountTrainings     = "count_trainings"
	StepIDValidateFields     = "validate_fields"
	StepIDActiveContracts    = "active_contracts"
	StepIDCalendarFields     = "calendar_fields"
	StepIDSelectPeriod       = "select_period"
	StepIDSelectColumns      = "select_columns"
	StepIDAggregate          = "aggregate"
	StepIDAssemble           = "assemble"
)

// Pipeline step names
const (
	StepNameLoadCollection     = "Load Reference Data"
	StepNameReadInputs         = "Read Inputs"
	StepNamePrepareLimitations = "Prepare Limitations"
	StepNameNormalize          = "Normalize Records"
	StepNameJoinLimitations    = "Join Limitations"
	StepNameCountTrainings     = "Count Trainings"
	StepNameValidateFields     = "Validate Fields"
	StepNameActiveContracts    = "Check Contracts"
	StepNameCalendarFields     = "Calendar Fields"
	StepNameSelectPeriod       = "Select Period"
	StepNameSelectColumns      = "Select Columns"
	StepNameAggregate          = "Aggregate"
	StepNameAssemble           = "Assemble Reports"
)

// PipelineStepIDs lists the steps of a full run in execution order
var PipelineStepIDs = []string{
	StepIDLoadCollection,
	StepIDReadInputs,
	StepIDPrepareLimitations,
	StepIDNormalize,
	StepIDJoinLimitations,
	StepIDCountTrainings,
	StepIDValidateFields,
	StepIDActiveContracts,
	StepIDCalendarFields,
	StepIDSelectPeriod,
	StepIDSelectColumns,
	StepIDAggregate,
	StepIDAssemble,
}

// Default timeouts. Zero disables the step deadline.
const (
	DefaultStageTimeout        = 10 * time.Minute
	DefaultReadInputsTimeout   = 5 * time.Minute
	DefaultSelectPeriodTimeout = 0
)

// RunRequest describes one pipeline run
type RunRequest struct {
	// RunID is generated when empty
	RunID string

	// ReportFile and LimitationsFile locate the inputs; when empty the newest
	// file matching the configured pattern in InputDir is used
	ReportFile         string
	LimitationsFile    string
	InputDir           string
	ReportPattern      string
	LimitationsPattern string
	Sheet              string

	// Period is the YYYY-MM selection; Interactive falls back to prompting
	Period      string
	Interactive bool
	In          io.Reader
	Out         io.Writer

	Collection config.CollectionConfig
}

// RunRequestFromConfig fills a request from the loaded configuration
func RunRequestFromConfig(cfg *config.Config) RunRequest {
	return RunRequest{
		ReportFile:         cfg.Input.ReportFile,
		LimitationsFile:    cfg.Input.LimitationsFile,
		InputDir:           cfg.Input.Dir,
		ReportPattern:      cfg.Input.ReportPattern,
		LimitationsPattern: cfg.Input.LimitationsPattern,
		Sheet:              cfg.Input.Sheet,
		Period:             cfg.Pipeline.Period,
		Interactive:        cfg.Pipeline.Interactive,
		Collection:         cfg.Collection,
	}
}
