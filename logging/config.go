package logging

import (
	"os"
	"strings"
)

// Environment variables read by NewLogger.
const (
	EnvLevel  = "PHANTOMIT_LOG_LEVEL"
	EnvCaller = "PHANTOMIT_LOG_CALLER"
	EnvFormat = "PHANTOMIT_LOG_FORMAT"
	EnvStderr = "PHANTOMIT_LOG_STDERR"
)

// Config defines the logging settings of a process.
type Config struct {
	// Level is the minimum level to output ("debug", "info", "warn", "error").
	Level string
	// ReportCaller includes file, line and function in each entry.
	ReportCaller bool
	// Format controls the appearance of the output.
	Format FormatConfig
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset           string
	DisableTimestamp bool
	DisableComponent bool
	// StructuredToStderr is "auto" (default), "always" or "never".
	StructuredToStderr string
}

// ConfigFromEnv builds a Config from the PHANTOMIT_LOG_* variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Level:        "info",
		ReportCaller: os.Getenv(EnvCaller) == "true",
		Format: FormatConfig{
			Preset:             strings.ToLower(os.Getenv(EnvFormat)),
			StructuredToStderr: strings.ToLower(os.Getenv(EnvStderr)),
		},
	}
	if lvl := os.Getenv(EnvLevel); lvl != "" {
		cfg.Level = lvl
	}
	return cfg
}
