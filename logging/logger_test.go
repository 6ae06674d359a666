package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")
	other := NewLogger("other-component")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, "test-component", a.Data["component"])
}

func TestSetOutputRedirectsExistingLoggers(t *testing.T) {
	logger := NewLogger("redirect-test")

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	logger.Info("routed")
	assert.Contains(t, buf.String(), "routed")
	assert.Contains(t, buf.String(), "[redirect-test]")
}

func TestSetLevelAppliesToExistingAndNewLoggers(t *testing.T) {
	before := NewLogger("level-before")
	SetLevel(logrus.TraceLevel)
	defer func() {
		loggersMu.Lock()
		levelOverride = nil
		loggersMu.Unlock()
	}()

	after := NewLogger("level-after")
	assert.Equal(t, logrus.TraceLevel, before.Logger.GetLevel())
	assert.Equal(t, logrus.TraceLevel, after.Logger.GetLevel())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvCaller, "true")
	t.Setenv(EnvFormat, "JSON")

	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.ReportCaller)
	assert.Equal(t, "json", cfg.Format.Preset)

	logger := newLogrus(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestNewLogrusFallsBackToInfo(t *testing.T) {
	logger := newLogrus(Config{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &TextFormatter{}, logger.Formatter)
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		level   logrus.Level
		want    []string
		notWant []string
	}{
		{
			name:    "default format",
			config:  FormatConfig{},
			level:   logrus.InfoLevel,
			want:    []string{"[INFO]", "[scheduler]", "cycle fired", "mode=lines", "reason=batch"},
			notWant: []string{"component="},
		},
		{
			name:    "simple format",
			config:  FormatConfig{DisableTimestamp: true, DisableComponent: true},
			level:   logrus.WarnLevel,
			want:    []string{"[WARN]", "cycle fired"},
			notWant: []string{"[scheduler]", "2024-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Level:   tt.level,
				Message: "cycle fired",
				Data: logrus.Fields{
					"component": "scheduler",
					"reason":    "batch",
					"mode":      "lines",
				},
			}

			out, err := (&TextFormatter{Config: tt.config}).Format(entry)
			require.NoError(t, err)
			s := string(out)
			for _, w := range tt.want {
				assert.Contains(t, s, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, s, nw)
			}
			assert.True(t, strings.HasSuffix(s, "\n"))
		})
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	entry := &logrus.Entry{
		Message: "m",
		Data:    logrus.Fields{"b": 2, "a": 1, "c": 3},
	}
	out, err := (&TextFormatter{Config: FormatConfig{DisableTimestamp: true}}).Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "m a=1 b=2 c=3")
}

func TestPrettyLoggerPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLoggerTo(&buf)

	p.Success("committed")
	p.WarnPretty("push failed")
	p.ErrorPretty("cycle failed", errors.New("boom"))
	p.Field("mode", "interval")
	p.Code("feat: a\nbody")
	p.Divider()

	out := buf.String()
	assert.Contains(t, out, "✓ committed\n")
	assert.Contains(t, out, "⚠ push failed\n")
	assert.Contains(t, out, "✗ cycle failed: boom\n")
	assert.Contains(t, out, "mode: interval\n")
	assert.Contains(t, out, "  feat: a\n  body\n")
	assert.Contains(t, out, strings.Repeat("─", defaultDividerWidth))
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not carry escape codes")
}
