package conventional

import (
	"fmt"
	"regexp"
	"strings"
)

// Types lists the commit types phantomit asks the model to use.
var Types = []string{"feat", "fix", "refactor", "chore", "docs", "style", "test", "perf"}

// Commit represents a parsed conventional commit message.
type Commit struct {
	Type       string
	Scope      string
	Subject    string
	Body       string
	IsBreaking bool
}

// It captures: 1: type, 2: scope (optional), 3: breaking change indicator (!), 4: subject
var commitRegex = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!?):\s(.*)$`)

// Parse parses a raw commit message.
func Parse(message string) (*Commit, error) {
	lines := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	header := lines[0]

	matches := commitRegex.FindStringSubmatch(header)
	if len(matches) < 5 {
		return nil, fmt.Errorf("invalid commit message format: %s", header)
	}

	commit := &Commit{
		Type:       strings.ToLower(matches[1]),
		Scope:      matches[2],
		IsBreaking: matches[3] == "!",
		Subject:    matches[4],
	}

	if len(lines) > 1 {
		body := strings.TrimSpace(lines[1])
		if strings.Contains(body, "BREAKING CHANGE:") || strings.Contains(body, "BREAKING-CHANGE:") {
			commit.IsBreaking = true
		}
		commit.Body = body
	}

	return commit, nil
}

// KnownType reports whether c uses one of Types.
func (c *Commit) KnownType() bool {
	for _, t := range Types {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Header renders the first line of c.
func (c *Commit) Header() string {
	var b strings.Builder
	b.WriteString(c.Type)
	if c.Scope != "" {
		b.WriteString("(" + c.Scope + ")")
	}
	if c.IsBreaking && c.Body == "" {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(c.Subject)
	return b.String()
}
