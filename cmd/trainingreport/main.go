package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/exporter"
	"trainingreports/internal/files"
	"trainingreports/internal/infrastructure"
	"trainingreports/internal/operations"
	"trainingreports/internal/validation"
	"trainingreports/pkg/contracts"
)

// options holds the command-line overrides; empty values keep the config
type options struct {
	configFile  string
	report      string
	limitations string
	inputDir    string
	outputDir   string
	period      string
	formats     string
	sheet       string
	noPrompt    bool
	version     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("trainingreport", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file (defaults to ./config.yaml when present)")
	fs.StringVar(&opts.report, "report", "", "training report file (.csv or .xlsx); newest match in the input directory when empty")
	fs.StringVar(&opts.limitations, "limitations", "", "company limitations file (.csv or .xlsx); newest match in the input directory when empty")
	fs.StringVar(&opts.inputDir, "in", "", "input directory searched for the report and limitations files")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for the report set")
	fs.StringVar(&opts.period, "period", "", "reporting period as YYYY-MM; prompts when empty")
	fs.StringVar(&opts.formats, "formats", "", "comma-separated output formats: csv, xlsx, postgres")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from XLSX inputs (defaults to the first sheet)")
	fs.BoolVar(&opts.noPrompt, "no-prompt", false, "fail instead of prompting when no period is given")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// loadConfig reads the configuration and applies the flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	abs := func(p string) (string, error) {
		if p == "" || filepath.IsAbs(p) {
			return p, nil
		}
		return filepath.Abs(p)
	}

	overrides := []struct {
		value  string
		target *string
	}{
		{opts.report, &cfg.Input.ReportFile},
		{opts.limitations, &cfg.Input.LimitationsFile},
		{opts.inputDir, &cfg.Input.Dir},
		{opts.outputDir, &cfg.Output.Dir},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		p, err := abs(o.value)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to resolve path", err).WithContext("path", o.value)
		}
		*o.target = p
	}

	if opts.period != "" {
		cfg.Pipeline.Period = opts.period
	}
	if opts.sheet != "" {
		cfg.Input.Sheet = opts.sheet
	}
	if opts.noPrompt {
		cfg.Pipeline.Interactive = false
	}
	if opts.formats != "" {
		var formats []string
		for _, f := range strings.Split(opts.formats, ",") {
			if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
				formats = append(formats, f)
			}
		}
		cfg.Output.Formats = formats
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// run executes one pipeline run and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return apperrors.ExitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "trainingreport: %v\n", err)
		return apperrors.ExitCode(err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "trainingreport: failed to initialize logger: %v\n", err)
		return apperrors.ExitConfig
	}
	defer infrastructure.CloseLogFile()

	paths := cfg.Paths()
	paths.LogPathResolution(logger)

	var providers *infrastructure.OTelProviders
	if cfg.Telemetry.Enabled {
		otelCfg := infrastructure.DefaultOTelConfig()
		if cfg.Telemetry.TraceStdout {
			otelCfg.TraceWriter = stdout
		}
		providers, err = infrastructure.InitializeOTel(otelCfg, logger)
		if err != nil {
			infrastructure.WithError(logger, err).Warn("telemetry disabled")
			providers = nil
		}
	}
	defer shutdownTelemetry(providers, cfg.Telemetry.MetricsFile, logger)

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		infrastructure.WithError(logger, err).Error("failed to create tracer")
		fmt.Fprintf(stderr, "trainingreport: %v\n", err)
		return apperrors.ExitFailure
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(cfg.Output.Dir); err != nil {
		err = apperrors.NewStorageError("output directory unusable", err).WithContext("directory", cfg.Output.Dir)
		logger.LogAttrs(ctx, slog.LevelError, "failed to prepare output", apperrors.LogAttrs(err)...)
		return fail(stderr, err)
	}

	manager, err := operations.NewPipelineManager(operations.NewConfigWithTimeouts(cfg.Pipeline.StepTimeouts), &operations.StageOptions{
		Logger:        logger,
		Tracer:        tracer,
		Discovery:     files.NewDiscovery(cfg.BaseDir),
		FileValidator: validator,
	})
	if err != nil {
		infrastructure.WithError(logger, err).Error("failed to build pipeline")
		fmt.Fprintf(stderr, "trainingreport: %v\n", err)
		return apperrors.ExitFailure
	}

	req := operations.RunRequestFromConfig(cfg)
	req.In = stdin
	req.Out = stdout

	state, err := manager.Execute(ctx, req)
	if err != nil {
		return fail(stderr, err)
	}
	ctx = infrastructure.WithRunID(ctx, state.ID)

	exp, err := exporter.NewFromConfig(ctx, cfg, tracer.Metrics(), logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to create exporter", apperrors.LogAttrs(err)...)
		return fail(stderr, err)
	}

	result, err := exp.Export(ctx, state.Data.Reports)
	if err != nil {
		return fail(stderr, err)
	}

	reports := state.Data.Reports
	fmt.Fprintf(stdout, "Report set %s for %s: %d tables, %d outputs\n",
		reports.RunID, reports.Period, len(reports.Tables), len(result.Outputs))
	for _, out := range result.Outputs {
		fmt.Fprintf(stdout, "  %-8s %-16s %6d rows  %s\n", out.Format, out.Table, out.Rows, out.Location)
	}
	return 0
}

// fail reports err on stderr, where it is seen even when logs go to a file,
// and returns its exit code
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "trainingreport: %v\n", err)
	return apperrors.ExitCode(err)
}

// shutdownTelemetry records runtime gauges, writes the metrics textfile and
// flushes the providers
func shutdownTelemetry(providers *infrastructure.OTelProviders, metricsFile string, logger *slog.Logger) {
	if providers == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sys, err := infrastructure.NewSystemMetrics(providers.Meter); err == nil {
		sys.Collect(ctx)
	}

	if metricsFile != "" {
		if err := providers.WriteMetricsFile(metricsFile); err != nil {
			logger.Warn("failed to write metrics file",
				slog.String("file", metricsFile),
				slog.String("error", err.Error()))
		}
	}
	if err := providers.Shutdown(ctx); err != nil {
		infrastructure.WithError(logger, err).Warn("telemetry shutdown failed")
	}
}
