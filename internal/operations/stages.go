package operations

import (
	"context"
	"fmt"
	"log/slog"

	"trainingreports/internal/dataprocessing"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/files"
	"trainingreports/internal/infrastructure"
	"trainingreports/internal/period"
	"trainingreports/internal/validation"
	"trainingreports/pkg/contracts/domain"
)

// StageOptions carries the collaborators shared by the pipeline steps
type StageOptions struct {
	Logger        *slog.Logger
	Tracer        *OperationTracer
	Discovery     *files.Discovery
	FileValidator *validation.FileValidator
}

func (o *StageOptions) withDefaults() *StageOptions {
	opts := StageOptions{}
	if o != nil {
		opts = *o
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Discovery == nil {
		opts.Discovery = files.NewDiscovery("")
	}
	if opts.FileValidator == nil {
		opts.FileValidator = validation.NewFileValidator(opts.Logger)
	}
	return &opts
}

// stage is the common part of every pipeline step
type stage struct {
	BaseStage
	logger *slog.Logger
	opts   *StageOptions
}

func newStage(id, name string, opts *StageOptions, deps ...string) stage {
	return stage{
		BaseStage: NewBaseStage(id, name, deps),
		logger:    opts.Logger.With(slog.String("step", id)),
		opts:      opts,
	}
}

// setMetadata records a value on the running Step's state and span
func (s *stage) setMetadata(ctx context.Context, state *OperationState, key string, value interface{}) {
	if st := state.GetStage(s.ID()); st != nil {
		st.SetMetadata(key, value)
	}
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"step." + key: value})
}

// NewPipelineSteps returns the steps of a full run, each depending on the
// one before it
func NewPipelineSteps(opts *StageOptions) []Step {
	opts = opts.withDefaults()
	return []Step{
		NewLoadCollectionStage(opts),
		NewReadInputsStage(opts),
		NewPrepareLimitationsStage(opts),
		NewNormalizeStage(opts),
		NewJoinLimitationsStage(opts),
		NewCountTrainingsStage(opts),
		NewValidateFieldsStage(opts),
		NewActiveContractsStage(opts),
		NewCalendarFieldsStage(opts),
		NewSelectPeriodStage(opts),
		NewSelectColumnsStage(opts),
		NewAggregateStage(opts),
		NewAssembleStage(opts),
	}
}

// RegisterPipelineSteps registers the full run on registry
func RegisterPipelineSteps(registry *Registry, opts *StageOptions) error {
	for _, step := range NewPipelineSteps(opts) {
		if err := registry.Register(step); err != nil {
			return err
		}
	}
	return registry.ValidateDependencies()
}

// NewPipelineManager builds a manager with the full run registered
func NewPipelineManager(config *Config, opts *StageOptions) (*Manager, error) {
	opts = opts.withDefaults()
	registry := NewRegistry()
	if err := RegisterPipelineSteps(registry, opts); err != nil {
		return nil, err
	}
	return NewManager(registry, config, opts.Tracer, opts.Logger), nil
}

func requireCollection(state *OperationState) error {
	if state.Data.Collection == nil {
		return fmt.Errorf("reference data not loaded")
	}
	return nil
}

func requireRecords(state *OperationState) error {
	if err := requireCollection(state); err != nil {
		return err
	}
	if state.Data.Records == nil {
		return fmt.Errorf("training records not built")
	}
	return nil
}

// LoadCollectionStage builds the reference data of the run
type LoadCollectionStage struct{ stage }

// NewLoadCollectionStage creates the load_collection Step
func NewLoadCollectionStage(opts *StageOptions) *LoadCollectionStage {
	return &LoadCollectionStage{newStage(StepIDLoadCollection, StepNameLoadCollection, opts.withDefaults())}
}

// Execute validates the collection overrides and stores the collection
func (s *LoadCollectionStage) Execute(ctx context.Context, state *OperationState) error {
	c, err := state.Request.Collection.Build()
	if err != nil {
		return apperrors.NewConfigError("invalid reference data", err)
	}
	state.Data.Collection = c

	s.logger.DebugContext(ctx, "reference data loaded",
		slog.Int("flags", len(c.Flags())),
		slog.Int("curated_columns", len(c.CuratedColumns())),
		slog.String("datetime_format", c.DatetimeFormat()))
	return nil
}

// ReadInputsStage locates and reads both input tables
type ReadInputsStage struct{ stage }

// NewReadInputsStage creates the read_inputs Step
func NewReadInputsStage(opts *StageOptions) *ReadInputsStage {
	return &ReadInputsStage{newStage(StepIDReadInputs, StepNameReadInputs, opts.withDefaults(), StepIDLoadCollection)}
}

// Execute resolves the input paths and reads the report and limitations
func (s *ReadInputsStage) Execute(ctx context.Context, state *OperationState) error {
	req := state.Request

	reportPath, err := s.resolve(req.ReportFile, req.InputDir, req.ReportPattern)
	if err != nil {
		return err
	}
	limitationsPath, err := s.resolve(req.LimitationsFile, req.InputDir, req.LimitationsPattern)
	if err != nil {
		return err
	}

	report, err := dataprocessing.ReadTable(ctx, reportPath, req.Sheet)
	if err != nil {
		return err
	}
	limitations, err := dataprocessing.ReadTable(ctx, limitationsPath, req.Sheet)
	if err != nil {
		return err
	}

	state.Data.ReportPath = reportPath
	state.Data.LimitationsPath = limitationsPath
	state.Data.ReportInput = report
	state.Data.LimitationsInput = limitations

	s.opts.Tracer.RecordRecords(ctx, "report", report.Len())
	s.opts.Tracer.RecordRecords(ctx, "limitations", limitations.Len())
	s.setMetadata(ctx, state, "report_rows", report.Len())
	s.setMetadata(ctx, state, "limitations_rows", limitations.Len())

	s.logger.InfoContext(ctx, "inputs read",
		slog.String("report_file", reportPath),
		slog.Int("report_rows", report.Len()),
		slog.String("limitations_file", limitationsPath),
		slog.Int("limitations_rows", limitations.Len()))
	return nil
}

// resolve returns the explicit path, or the newest file matching pattern
func (s *ReadInputsStage) resolve(path, dir, pattern string) (string, error) {
	if path == "" {
		if err := s.opts.FileValidator.ValidateInputDirectory(dir); err != nil {
			return "", apperrors.NewInputError("invalid input directory", err).WithContext("directory", dir)
		}
		latest, err := s.opts.Discovery.LatestInput(dir, pattern)
		if err != nil {
			return "", err
		}
		path = latest
	}
	if err := s.opts.FileValidator.ValidateInputFile(path); err != nil {
		return "", apperrors.NewInputError("invalid input file", err).WithContext("file", path)
	}
	return path, nil
}

// PrepareLimitationsStage shapes the limitations table
type PrepareLimitationsStage struct{ stage }

// NewPrepareLimitationsStage creates the prepare_limitations Step
func NewPrepareLimitationsStage(opts *StageOptions) *PrepareLimitationsStage {
	return &PrepareLimitationsStage{newStage(StepIDPrepareLimitations, StepNamePrepareLimitations, opts.withDefaults(), StepIDReadInputs)}
}

// Validate requires the limitations input
func (s *PrepareLimitationsStage) Validate(state *OperationState) error {
	if err := requireCollection(state); err != nil {
		return err
	}
	if state.Data.LimitationsInput == nil {
		return fmt.Errorf("limitations table not read")
	}
	return nil
}

// Execute builds one limitation per company key and its output table
func (s *PrepareLimitationsStage) Execute(ctx context.Context, state *OperationState) error {
	lims, err := dataprocessing.PrepareLimitations(ctx, state.Data.LimitationsInput, s.logger)
	if err != nil {
		return err
	}
	state.Data.Limitations = lims
	state.Data.LimitationsTable = dataprocessing.LimitationsTable(lims, state.Data.Collection)
	s.setMetadata(ctx, state, "companies", len(lims))
	return nil
}

// NormalizeStage turns the report rows into cleaned training records
type NormalizeStage struct{ stage }

// NewNormalizeStage creates the normalize Step
func NewNormalizeStage(opts *StageOptions) *NormalizeStage {
	return &NormalizeStage{newStage(StepIDNormalize, StepNameNormalize, opts.withDefaults(), StepIDPrepareLimitations)}
}

// Validate requires the report input
func (s *NormalizeStage) Validate(state *OperationState) error {
	if state.Data.ReportInput == nil {
		return fmt.Errorf("training report not read")
	}
	return nil
}

// Execute renames the columns, builds the records and normalizes them
func (s *NormalizeStage) Execute(ctx context.Context, state *OperationState) error {
	renamed, err := dataprocessing.RenameColumns(state.Data.ReportInput,
		dataprocessing.ReportHeaderAliases, dataprocessing.ReportRequiredColumns)
	if err != nil {
		return err
	}

	records, err := dataprocessing.BuildRecords(renamed)
	if err != nil {
		return err
	}
	dataprocessing.Normalize(records)

	state.Data.Records = records
	s.setMetadata(ctx, state, "records", len(records))
	s.logger.DebugContext(ctx, "records normalized", slog.Int("records", len(records)))
	return nil
}

// JoinLimitationsStage attaches the company limitation to each record
type JoinLimitationsStage struct{ stage }

// NewJoinLimitationsStage creates the join_limitations Step
func NewJoinLimitationsStage(opts *StageOptions) *JoinLimitationsStage {
	return &JoinLimitationsStage{newStage(StepIDJoinLimitations, StepNameJoinLimitations, opts.withDefaults(), StepIDNormalize)}
}

// Validate requires records
func (s *JoinLimitationsStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute left-joins the records to the limitations
func (s *JoinLimitationsStage) Execute(ctx context.Context, state *OperationState) error {
	matched := dataprocessing.JoinLimitations(state.Data.Records, state.Data.Limitations)
	s.setMetadata(ctx, state, "matched", matched)
	s.logger.InfoContext(ctx, "limitations joined",
		slog.Int("records", len(state.Data.Records)),
		slog.Int("matched", matched),
		slog.Int("unmatched", len(state.Data.Records)-matched))
	return nil
}

// CountTrainingsStage numbers the trainings of each employee
type CountTrainingsStage struct{ stage }

// NewCountTrainingsStage creates the count_trainings Step
func NewCountTrainingsStage(opts *StageOptions) *CountTrainingsStage {
	return &CountTrainingsStage{newStage(StepIDCountTrainings, StepNameCountTrainings, opts.withDefaults(), StepIDJoinLimitations)}
}

// Validate requires records
func (s *CountTrainingsStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute sets the per-employee counts and ordinals
func (s *CountTrainingsStage) Execute(ctx context.Context, state *OperationState) error {
	dataprocessing.CountPerEmployee(state.Data.Records)
	return nil
}

// ValidateFieldsStage flags invalid contact data and missing trainers
type ValidateFieldsStage struct{ stage }

// NewValidateFieldsStage creates the validate_fields Step
func NewValidateFieldsStage(opts *StageOptions) *ValidateFieldsStage {
	return &ValidateFieldsStage{newStage(StepIDValidateFields, StepNameValidateFields, opts.withDefaults(), StepIDCountTrainings)}
}

// Validate requires records
func (s *ValidateFieldsStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute checks phone, email and trainer of each record
func (s *ValidateFieldsStage) Execute(ctx context.Context, state *OperationState) error {
	dataprocessing.ValidateFields(state.Data.Records, state.Data.Collection)
	return nil
}

// ActiveContractsStage checks each training against its contract window
type ActiveContractsStage struct{ stage }

// NewActiveContractsStage creates the active_contracts Step
func NewActiveContractsStage(opts *StageOptions) *ActiveContractsStage {
	return &ActiveContractsStage{newStage(StepIDActiveContracts, StepNameActiveContracts, opts.withDefaults(), StepIDValidateFields)}
}

// Validate requires records
func (s *ActiveContractsStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute sets active_contract and the contract flags
func (s *ActiveContractsStage) Execute(ctx context.Context, state *OperationState) error {
	dataprocessing.CheckActiveContracts(state.Data.Records)
	return nil
}

// CalendarFieldsStage derives the month, year and weekday fields
type CalendarFieldsStage struct{ stage }

// NewCalendarFieldsStage creates the calendar_fields Step
func NewCalendarFieldsStage(opts *StageOptions) *CalendarFieldsStage {
	return &CalendarFieldsStage{newStage(StepIDCalendarFields, StepNameCalendarFields, opts.withDefaults(), StepIDActiveContracts)}
}

// Validate requires records
func (s *CalendarFieldsStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute fills the calendar fields of each record
func (s *CalendarFieldsStage) Execute(ctx context.Context, state *OperationState) error {
	dataprocessing.CalendarFields(state.Data.Records, state.Data.Collection)
	return nil
}

// SelectPeriodStage picks the reporting month and cuts the monthly records
type SelectPeriodStage struct{ stage }

// NewSelectPeriodStage creates the select_period Step
func NewSelectPeriodStage(opts *StageOptions) *SelectPeriodStage {
	return &SelectPeriodStage{newStage(StepIDSelectPeriod, StepNameSelectPeriod, opts.withDefaults(), StepIDCalendarFields)}
}

// Validate requires records
func (s *SelectPeriodStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute selects the period from the request or the prompt
func (s *SelectPeriodStage) Execute(ctx context.Context, state *OperationState) error {
	req := state.Request
	p, err := period.Select(ctx, period.Options{
		Value:       req.Period,
		Interactive: req.Interactive,
		In:          req.In,
		Out:         req.Out,
	}, state.Data.Collection)
	if err != nil {
		return err
	}

	state.Data.Period = p
	state.Data.Monthly = period.Filter(state.Data.Records, p)
	s.setMetadata(ctx, state, "period", p.String())
	s.setMetadata(ctx, state, "monthly_records", len(state.Data.Monthly))

	s.logger.InfoContext(ctx, "period selected",
		slog.String("period", p.String()),
		slog.Int("monthly_records", len(state.Data.Monthly)),
		slog.Int("records", len(state.Data.Records)))
	return nil
}

// SelectColumnsStage renders the raw tables and projects the curated ones
type SelectColumnsStage struct{ stage }

// NewSelectColumnsStage creates the select_columns Step
func NewSelectColumnsStage(opts *StageOptions) *SelectColumnsStage {
	return &SelectColumnsStage{newStage(StepIDSelectColumns, StepNameSelectColumns, opts.withDefaults(), StepIDSelectPeriod)}
}

// Validate requires the selected period
func (s *SelectColumnsStage) Validate(state *OperationState) error {
	if err := requireRecords(state); err != nil {
		return err
	}
	if state.Data.Period.IsZero() {
		return fmt.Errorf("period not selected")
	}
	return nil
}

// Execute builds raw_full, raw_mont, new_full and new_mont
func (s *SelectColumnsStage) Execute(ctx context.Context, state *OperationState) error {
	c := state.Data.Collection
	data := state.Data

	data.RawFull = dataprocessing.RecordsTable(domain.TableNameRawFull, data.Records, c)
	data.RawMonthly = dataprocessing.RecordsTable(domain.TableNameRawMonthly, data.Monthly, c)

	var err error
	if data.NewFull, err = data.RawFull.Select(domain.TableNameNewFull, c.CuratedColumns()); err != nil {
		return apperrors.NewConfigError("curated columns", err)
	}
	if data.NewMonthly, err = data.RawMonthly.Select(domain.TableNameNewMonthly, c.CuratedColumns()); err != nil {
		return apperrors.NewConfigError("curated columns", err)
	}
	return nil
}

// AggregateStage builds the per-employee and per-trainer summaries
type AggregateStage struct{ stage }

// NewAggregateStage creates the aggregate Step
func NewAggregateStage(opts *StageOptions) *AggregateStage {
	return &AggregateStage{newStage(StepIDAggregate, StepNameAggregate, opts.withDefaults(), StepIDSelectColumns)}
}

// Validate requires records
func (s *AggregateStage) Validate(state *OperationState) error {
	return requireRecords(state)
}

// Execute counts monthly and annual trainings
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	summarizer := dataprocessing.NewSummarizer(s.logger)
	state.Data.TotalTrainings = summarizer.TotalTrainings(ctx, state.Data.Monthly, state.Data.Records)
	state.Data.Trainers = summarizer.TrainerSummary(ctx, state.Data.Monthly, state.Data.Records)
	return nil
}

// AssembleStage collects the eight output tables into the report set
type AssembleStage struct{ stage }

// NewAssembleStage creates the assemble Step
func NewAssembleStage(opts *StageOptions) *AssembleStage {
	return &AssembleStage{newStage(StepIDAssemble, StepNameAssemble, opts.withDefaults(), StepIDAggregate)}
}

// Execute builds the report set and counts the raised flags
func (s *AssembleStage) Execute(ctx context.Context, state *OperationState) error {
	data := state.Data
	set := domain.NewReportSet(state.ID, data.Period)
	put := func(key domain.ReportKey, t *domain.Table) {
		if t != nil {
			set.Tables[key] = t
		}
	}
	put(domain.ReportTotalTrainings, data.TotalTrainings)
	put(domain.ReportTrainers, data.Trainers)
	put(domain.ReportNewMonthlyData, data.NewMonthly)
	put(domain.ReportNewFullData, data.NewFull)
	put(domain.ReportLimitations, data.LimitationsTable)
	put(domain.ReportFullRawReport, data.RawFull)
	put(domain.ReportMonthlyRawReport, data.RawMonthly)
	if data.Collection != nil {
		put(domain.ReportFlagsData, data.Collection.FlagsTable())
	}

	if !set.Complete() {
		return fmt.Errorf("report set is incomplete")
	}

	counts := FlagCounts(data.Records)
	s.opts.Tracer.RecordFlags(ctx, counts)
	s.setMetadata(ctx, state, "flags", counts)

	data.Reports = set
	s.logger.InfoContext(ctx, "reports assembled",
		slog.String("period", data.Period.String()),
		slog.Int("tables", len(set.Tables)),
		slog.Any("flags", counts))
	return nil
}

// FlagCounts counts every raised flag code over records
func FlagCounts(records []*domain.TrainingRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		for _, code := range r.Flags {
			counts[string(code)]++
		}
	}
	return counts
}
