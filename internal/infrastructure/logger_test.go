package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trainingreports/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestRunIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")

	logger, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: logFile})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "test with run id")

	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var logEntry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["run_id"] != "run-123" {
		t.Errorf("Expected run_id='run-123', got %v", logEntry["run_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		emitted []string
	}{
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warning", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := createLogger(config.LoggingConfig{Level: tt.level}, &buf)
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			var levels []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var entry map[string]interface{}
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("Failed to parse log JSON: %v", err)
				}
				levels = append(levels, entry["level"].(string))
			}

			if strings.Join(levels, ",") != strings.Join(tt.emitted, ",") {
				t.Errorf("Expected levels %v, got %v", tt.emitted, levels)
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")

	logger, err := createLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &console)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer CloseLogFile()

	logger.Info("to both")

	if !strings.Contains(console.String(), "to both") {
		t.Error("Expected console output")
	}
	CloseLogFile()
	content, _ := os.ReadFile(logFile)
	if !strings.Contains(string(content), "to both") {
		t.Error("Expected file output")
	}
}

func TestRunIDHelpers(t *testing.T) {
	ctx := WithRunID(context.Background(), GenerateRunID())
	runID := GetRunID(ctx)
	if len(runID) != 36 {
		t.Errorf("Expected UUID run id, got %q", runID)
	}

	if GetRunID(EnsureRunID(ctx)) != runID {
		t.Error("EnsureRunID changed existing run id")
	}

	if GetRunID(EnsureRunID(context.Background())) == "" {
		t.Error("EnsureRunID did not add run id")
	}
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := createLogger(config.LoggingConfig{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	WithComponent(logger, "exporter").Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["component"] != "exporter" {
		t.Errorf("Expected component='exporter', got %v", logEntry["component"])
	}

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if !strings.Contains(logEntry["error"].(string), "file does not exist") {
		t.Errorf("Expected error to contain 'file does not exist', got %v", logEntry["error"])
	}

	if WithError(logger, nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}
