package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Training Reports"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix     = "TRAINING"
	EnvConfigFile = "TRAINING_CONFIG"

	// File Paths (relative to the base directory)
	DefaultInputDir   = "data/input"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/trainingreport.log"

	// Input discovery
	DefaultReportPattern      = "*report*"
	DefaultLimitationsPattern = "*limitation*"

	// Export
	DefaultWorkbookPrefix    = "training_reports"
	DefaultExportConcurrency = 4
	DefaultPostgresSchema    = "reports"
	DefaultPostgresTimeout   = 2 * time.Minute

	// Telemetry
	DefaultMetricsFile = "logs/trainingreport.prom"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "console"

	// Collection defaults
	DefaultDatetimeFormat = "2006-01-02 15:04:05"
	DefaultDateFormat     = "2006-01-02"
	DefaultPeriodPattern  = `^\d{4}-\d{2}$`
	DefaultPhonePattern   = `^(?:\+359|00359|0)8[789]\d{7}$`
	DefaultPhonePrefix    = "+359"
)
