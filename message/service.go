// Package message drafts commit messages from diffs.
package message

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/conventional"
	"github.com/grovetools/phantomit/errors"
)

const (
	// DefaultMessage is used when there is nothing to describe.
	DefaultMessage = "chore: minor updates"
	// FallbackMessage is used when the model answers with nothing.
	FallbackMessage = "chore: update code"

	// MaxDiffChars bounds the diff sent to the model.
	MaxDiffChars     = 6000
	truncationMarker = "\n...(truncated)"

	// MockDelay simulates model latency in mock mode.
	MockDelay = 800 * time.Millisecond
)

// SystemPrompt instructs the model.
const SystemPrompt = `You are a Git commit message generator.
Your job is to analyze a code diff and produce a single, professional commit message.

Rules:
- Use conventional commits format: type(scope): description
- Types: feat, fix, refactor, chore, docs, style, test, perf
- Keep it between 10-20 words
- Be specific and descriptive, not vague
- No period at the end
- Output ONLY the commit message, nothing else, no explanation, no quotes`

// MockMessages are returned in mock mode.
var MockMessages = []string{
	"feat(auth): add JWT token validation middleware",
	"fix(api): resolve null pointer in user fetch handler",
	"refactor(db): simplify PostgreSQL connection pooling logic",
	"chore(deps): update typescript and eslint to latest versions",
	"feat(ui): implement responsive navbar with mobile drawer",
	"fix(config): correct env variable parsing for production build",
	"perf(query): optimize slow JOIN on orders table with index",
	"docs(readme): update installation and usage instructions",
}

// Generator drafts a commit message for a diff.
type Generator interface {
	Generate(ctx context.Context, diff string, useMock bool) (string, error)
}

// Options tune a Service.
type Options struct {
	// MockDelay overrides the mock latency; negative disables it.
	MockDelay time.Duration
	Rand      *rand.Rand
	Logger    logrus.FieldLogger
}

// Service is the default Generator.
type Service struct {
	completer Completer
	delay     time.Duration
	log       logrus.FieldLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewService creates a service backed by completer. completer may be nil
// when only mock mode is used.
func NewService(completer Completer, opts Options) *Service {
	delay := opts.MockDelay
	if delay == 0 {
		delay = MockDelay
	}
	if delay < 0 {
		delay = 0
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Service{completer: completer, delay: delay, log: log, rnd: rnd}
}

// Generate returns a commit message for diff. Mock mode answers from
// MockMessages without contacting the model, whatever the diff.
func (s *Service) Generate(ctx context.Context, diff string, useMock bool) (string, error) {
	if useMock {
		return s.mock(ctx)
	}

	if strings.TrimSpace(diff) == "" {
		return DefaultMessage, nil
	}

	if s.completer == nil {
		return "", errors.GenerationFailed(errors.New(errors.ErrCodeInternal, "no completion backend configured"))
	}

	out, err := s.completer.Complete(ctx, SystemPrompt, "Generate a commit message for this diff:\n\n"+Truncate(diff))
	if err != nil {
		if errors.GetCode(err) != "" {
			return "", err
		}
		return "", errors.GenerationFailed(err)
	}

	msg := Normalize(out)
	if msg == "" {
		return FallbackMessage, nil
	}

	if c, err := conventional.Parse(msg); err != nil || !c.KnownType() {
		s.log.WithField("message", msg).Debug("Model answer is not a conventional commit")
	}
	return msg, nil
}

func (s *Service) mock(ctx context.Context) (string, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return MockMessages[s.rnd.IntN(len(MockMessages))], nil
}

// Truncate cuts diff to MaxDiffChars characters and marks the cut.
func Truncate(diff string) string {
	if utf8.RuneCountInString(diff) <= MaxDiffChars {
		return diff
	}
	n := 0
	for i := range diff {
		if n == MaxDiffChars {
			return diff[:i] + truncationMarker
		}
		n++
	}
	return diff
}

// Normalize reduces model output to a single commit header line.
func Normalize(raw string) string {
	var line string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	for _, q := range []string{"`", `"`, "'"} {
		if len(line) >= 2 && strings.HasPrefix(line, q) && strings.HasSuffix(line, q) {
			line = strings.TrimSpace(line[1 : len(line)-1])
		}
	}
	return strings.TrimSuffix(line, ".")
}
