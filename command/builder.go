package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/phantomit/errors"
)

const (
	// DefaultTimeout is the default command execution timeout. Zero means no timeout.
	DefaultTimeout = time.Duration(0)

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 10 * time.Minute
)

var (
	validRef    = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)
	validRemote = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
)

// SafeBuilder provides command construction with argument validation
type SafeBuilder struct {
	defaultTimeout time.Duration
	validators     map[string]func(string) error
	executor       Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		defaultTimeout: DefaultTimeout,
		validators:     makeDefaultValidators(),
		executor:       exec,
	}
}

// makeDefaultValidators returns the default set of validators
func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"gitRef":   validateGitRef,
		"remote":   validateRemote,
		"fileName": validateFileName,
	}
}

// validateGitRef ensures branch names are safe to pass to git
func validateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git ref cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("git ref cannot start with '-': %s", ref)
	}
	if strings.Contains(ref, "..") {
		return fmt.Errorf("git ref cannot contain '..': %s", ref)
	}
	if !validRef.MatchString(ref) {
		return fmt.Errorf("invalid git ref: %s", ref)
	}
	return nil
}

// validateRemote ensures remote names are safe
func validateRemote(name string) error {
	if name == "" {
		return fmt.Errorf("remote name cannot be empty")
	}
	if !validRemote.MatchString(name) {
		return fmt.Errorf("invalid remote name: %s", name)
	}
	return nil
}

// validateFileName ensures file paths are safe
func validateFileName(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	// Prevent directory traversal
	if strings.Contains(path, "..") {
		return fmt.Errorf("file path cannot contain '..'")
	}

	// Prevent command injection via shell metacharacters
	if strings.ContainsAny(path, ";|&$`") {
		return fmt.Errorf("file path contains invalid characters")
	}

	return nil
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	return validator(value)
}

// Command represents a single command invocation
type Command struct {
	ctx      context.Context
	name     string
	args     []string
	dir      string
	timeout  time.Duration
	executor Executor
}

// Build creates a new command bound to ctx
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command name cannot be empty")
	}

	return &Command{
		ctx:      ctx,
		name:     name,
		args:     args,
		timeout:  sb.defaultTimeout,
		executor: sb.executor,
	}, nil
}

// WithTimeout sets a timeout for the command, capped at MaxTimeout
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	c.timeout = timeout
	return c
}

// InDir sets the working directory
func (c *Command) InDir(dir string) *Command {
	c.dir = dir
	return c
}

// String renders the command line for logs
func (c *Command) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// Exec creates and returns an exec.Cmd. The caller owns the returned cancel func.
func (c *Command) Exec() (*exec.Cmd, context.CancelFunc) {
	ctx, cancel := c.ctx, context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
	}
	cmd := c.executor.CommandContext(ctx, c.name, c.args...) //nolint:gosec // arguments are validated by callers
	cmd.Dir = c.dir
	return cmd, cancel
}

// Output runs the command and returns stdout. On failure the error carries stderr.
func (c *Command) Output() (string, error) {
	cmd, cancel := c.Exec()
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.CommandFailed(c.name, c.args, stderr.String(), err)
	}
	return stdout.String(), nil
}

// Run runs the command, discarding stdout.
func (c *Command) Run() error {
	_, err := c.Output()
	return err
}
