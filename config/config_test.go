package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/phantomit/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ModeInterval, cfg.Mode)
	assert.Equal(t, 30*time.Minute, cfg.IntervalDuration())
	assert.Equal(t, 8*time.Second, cfg.DebounceDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.StabilityDuration())
	assert.Equal(t, 20, cfg.Lines)
	assert.True(t, cfg.AutoPush)
	assert.Equal(t, []string{"src", "app", "lib", "components", "pages"}, cfg.Watch)
	assert.Equal(t, []string{"node_modules", ".next", "dist", ".git", "*.log", ".env*"}, cfg.Ignore)
	assert.Equal(t, "main", cfg.Branch)
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cfg := Load(t.TempDir(), logger)
	assert.Equal(t, Default(), cfg)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", ".phantomit.json", `{"mode": "lines", "lines": 25, "watch": ["cmd"], "autoPush": false}`},
		{"yaml", ".phantomit.yml", "mode: lines\nlines: 25\nwatch:\n  - cmd\nautoPush: false\n"},
		{"yaml long extension", ".phantomit.yaml", "mode: lines\nlines: 25\nwatch: [cmd]\nautoPush: false\n"},
		{"toml", ".phantomit.toml", "mode = \"lines\"\nlines = 25\nwatch = [\"cmd\"]\nautoPush = false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			logger, _ := test.NewNullLogger()
			cfg := Load(dir, logger)

			assert.Equal(t, ModeLines, cfg.Mode)
			assert.Equal(t, 25, cfg.Lines)
			assert.False(t, cfg.AutoPush)
			// a shorter list replaces the default outright
			assert.Equal(t, []string{"cmd"}, cfg.Watch)
			// untouched keys keep their defaults
			assert.Equal(t, Default().Ignore, cfg.Ignore)
			assert.Equal(t, "main", cfg.Branch)
			assert.Equal(t, float64(30), cfg.Interval)
		})
	}
}

func TestFindConfigFilePrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".phantomit.toml", "mode = \"manual\"\n")
	jsonPath := writeFile(t, dir, ".phantomit.json", `{"mode": "on-save"}`)

	path, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, jsonPath, path)

	_, err = FindConfigFile(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFallsBackOnBadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"mode": `},
		{"unknown mode", `{"mode": "hourly"}`},
		{"zero interval", `{"interval": 0}`},
		{"empty watch list", `{"watch": []}`},
		{"wrong type", `{"watch": {"a": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, ".phantomit.json", tt.content)

			_, err := LoadFile(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))

			logger, hook := test.NewNullLogger()
			cfg := Load(dir, logger)
			assert.Equal(t, Default(), cfg)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}

func TestLoadFileReportsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".phantomit.json", `{"branch": "dev", "colour": "blue"}`)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", loaded.Config.Branch)
	assert.Equal(t, []string{"colour"}, loaded.Unknown)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "interval", raw["mode"])

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded.Config)

	_, err = WriteDefault(dir)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestWithOverrides(t *testing.T) {
	base := Default()

	cfg := base.WithOverrides(Overrides{Mode: ModeLines, Lines: 50})
	assert.Equal(t, ModeLines, cfg.Mode)
	assert.Equal(t, 50, cfg.Lines)
	assert.Equal(t, base.Interval, cfg.Interval)

	cfg.Watch[0] = "changed"
	assert.Equal(t, "src", base.Watch[0])

	assert.Equal(t, base, base.WithOverrides(Overrides{}))
}

func TestDescribe(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "every 30 min", cfg.Describe())
	assert.Equal(t, "every 0.5 min", cfg.WithOverrides(Overrides{Interval: 0.5}).Describe())
	assert.Equal(t, "every 20 lines changed", cfg.WithOverrides(Overrides{Mode: ModeLines}).Describe())
	assert.Equal(t, "on save (8s debounce)", cfg.WithOverrides(Overrides{Mode: ModeOnSave}).Describe())
	assert.Equal(t, "manual", cfg.WithOverrides(Overrides{Mode: ModeManual}).Describe())
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var s map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", s["$schema"])

	props, ok := s["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"mode", "interval", "lines", "debounce", "autoPush", "watch", "ignore", "branch"} {
		assert.Contains(t, props, key)
	}
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "GROQ_API_KEY_B=bbb\nGROQ_API_KEY_A=aaa\nGROQ_API_KEY=file-primary\nOTHER=x\n")

	keys := LoadCredentials(dir, []string{
		"GROQ_API_KEY=env-primary",
		"GROQ_API_KEY_C=aaa",
		"GROQ_API_KEY_D=  ",
		"PATH=/bin",
	})

	assert.Equal(t, []string{"env-primary", "aaa", "bbb"}, keys)
	_, set := os.LookupEnv("GROQ_API_KEY_B")
	assert.False(t, set, ".env must not leak into the process environment")

	assert.Empty(t, LoadCredentials(t.TempDir(), nil))
}
