package config

import (
	"strconv"
	"time"
)

// Mode selects the trigger policy of a watch run.
type Mode string

const (
	// ModeInterval commits on a fixed timer when the tree is dirty.
	ModeInterval Mode = "interval"
	// ModeLines commits once enough lines have changed.
	ModeLines Mode = "lines"
	// ModeOnSave commits after every debounced batch of saves.
	ModeOnSave Mode = "on-save"
	// ModeManual never commits on its own.
	ModeManual Mode = "manual"
)

// Modes lists every recognised trigger mode.
var Modes = []Mode{ModeInterval, ModeLines, ModeOnSave, ModeManual}

// Valid reports whether m is a recognised mode.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Ignore rule syntaxes.
const (
	IgnoreSyntaxGitignore = "gitignore"
	IgnoreSyntaxGlob      = "glob"
)

// Credential selection policies.
const (
	KeyPolicyRandom     = "random"
	KeyPolicyRoundRobin = "round-robin"
)

// WatchConfig is the per-run configuration of phantomit. It is loaded once at
// startup and treated as immutable afterwards.
type WatchConfig struct {
	Mode     Mode     `json:"mode" yaml:"mode" jsonschema:"enum=interval,enum=lines,enum=on-save,enum=manual,description=Trigger policy"`
	Interval float64  `json:"interval" yaml:"interval" jsonschema:"exclusiveMinimum=0,description=Minutes between checks in interval mode"`
	Lines    int      `json:"lines" yaml:"lines" jsonschema:"minimum=1,description=Changed-line threshold in lines mode"`
	Debounce float64  `json:"debounce" yaml:"debounce" jsonschema:"minimum=0,description=Seconds of quiet after the last save before a batch is flushed"`
	AutoPush bool     `json:"autoPush" yaml:"autoPush" jsonschema:"description=Push after every commit"`
	Watch    []string `json:"watch" yaml:"watch" jsonschema:"minItems=1,description=Directories to watch relative to the project root"`
	Ignore   []string `json:"ignore" yaml:"ignore" jsonschema:"description=Ignore rules appended after .gitignore"`
	Branch   string   `json:"branch" yaml:"branch" jsonschema:"minLength=1,description=Branch to push to"`

	Remote       string  `json:"remote" yaml:"remote" jsonschema:"minLength=1,description=Remote to push to"`
	IgnoreSyntax string  `json:"ignoreSyntax" yaml:"ignoreSyntax" jsonschema:"enum=gitignore,enum=glob,description=How ignore rules are matched"`
	Stability    float64 `json:"stability" yaml:"stability" jsonschema:"minimum=0,description=Seconds a file must stay unchanged before its event is reported"`
	Model        string  `json:"model" yaml:"model" jsonschema:"minLength=1,description=Model used to draft commit messages"`
	Endpoint     string  `json:"endpoint" yaml:"endpoint" jsonschema:"minLength=1,description=OpenAI-compatible chat completions URL"`
	KeyPolicy    string  `json:"keyPolicy" yaml:"keyPolicy" jsonschema:"enum=random,enum=round-robin,description=How API keys are picked from the pool"`
}

// Default returns the built-in configuration.
func Default() WatchConfig {
	return WatchConfig{
		Mode:     ModeInterval,
		Interval: 30,
		Lines:    20,
		Debounce: 8,
		AutoPush: true,
		Watch:    []string{"src", "app", "lib", "components", "pages"},
		Ignore:   []string{"node_modules", ".next", "dist", ".git", "*.log", ".env*"},
		Branch:   "main",

		Remote:       "origin",
		IgnoreSyntax: IgnoreSyntaxGitignore,
		Stability:    0.5,
		Model:        "llama-3.1-8b-instant",
		Endpoint:     "https://api.groq.com/openai/v1/chat/completions",
		KeyPolicy:    KeyPolicyRandom,
	}
}

// IntervalDuration returns the interval-mode tick period.
func (c WatchConfig) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Minute))
}

// DebounceDuration returns the quiet period before a batch is flushed.
func (c WatchConfig) DebounceDuration() time.Duration {
	return time.Duration(c.Debounce * float64(time.Second))
}

// StabilityDuration returns the per-file write stability window.
func (c WatchConfig) StabilityDuration() time.Duration {
	return time.Duration(c.Stability * float64(time.Second))
}

// Overrides holds trigger settings given on the command line.
type Overrides struct {
	Mode     Mode
	Interval float64
	Lines    int
}

// WithOverrides returns a copy of c with the non-zero overrides applied.
func (c WatchConfig) WithOverrides(o Overrides) WatchConfig {
	out := c
	out.Watch = append([]string(nil), c.Watch...)
	out.Ignore = append([]string(nil), c.Ignore...)

	if o.Mode != "" {
		out.Mode = o.Mode
	}
	if o.Interval > 0 {
		out.Interval = o.Interval
	}
	if o.Lines > 0 {
		out.Lines = o.Lines
	}
	return out
}

// Describe renders the trigger policy for humans.
func (c WatchConfig) Describe() string {
	switch c.Mode {
	case ModeInterval:
		return "every " + trimFloat(c.Interval) + " min"
	case ModeLines:
		return "every " + trimFloat(float64(c.Lines)) + " lines changed"
	case ModeOnSave:
		return "on save (" + trimFloat(c.Debounce) + "s debounce)"
	default:
		return "manual"
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
