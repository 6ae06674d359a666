package ignore

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/moby/patternmatcher"
)

// Matcher decides whether a root-relative, slash-separated path is ignored.
type Matcher interface {
	Match(rel string) bool
}

// GitignoreMatcher evaluates rules with gitignore semantics: the last
// matching rule wins and a matched directory ignores everything below it.
type GitignoreMatcher struct {
	pm *patternmatcher.PatternMatcher
}

// NewGitignoreMatcher compiles rules. It fails on the first rule the pattern
// engine rejects.
func NewGitignoreMatcher(rules []Rule) (*GitignoreMatcher, error) {
	patterns := make([]string, 0, len(rules))
	for _, r := range rules {
		patterns = append(patterns, toPattern(r))
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, err
	}
	return &GitignoreMatcher{pm: pm}, nil
}

// toPattern rewrites a rule in pattern-matcher syntax.
func toPattern(r Rule) string {
	p := r.Pattern
	if !r.Anchored && !strings.HasPrefix(p, "**/") {
		p = "**/" + p
	}
	p = filepath.FromSlash(p)
	if r.Negate {
		p = "!" + p
	}
	return p
}

func (m *GitignoreMatcher) Match(rel string) bool {
	return matchParentsFirst(rel, func(p string) bool {
		ok, err := m.pm.MatchesOrParentMatches(filepath.FromSlash(p))
		return err == nil && ok
	})
}

// matchParentsFirst reports rel as ignored when any parent directory is
// ignored, before match sees rel itself. A negation cannot re-include a path
// below an ignored directory.
func matchParentsFirst(rel string, match func(string) bool) bool {
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && match(rel[:i]) {
			return true
		}
	}
	return match(rel)
}

// GlobMatcher evaluates the same rule list with doublestar globs. A rule
// without a slash matches any single path segment; anchored rules match the
// path or one of its parent directories from the root.
type GlobMatcher struct {
	rules []Rule
}

// NewGlobMatcher validates and stores rules.
func NewGlobMatcher(rules []Rule) (*GlobMatcher, error) {
	for _, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", r.Pattern)
		}
	}
	return &GlobMatcher{rules: rules}, nil
}

func (m *GlobMatcher) Match(rel string) bool {
	return matchParentsFirst(rel, m.matchPath)
}

func (m *GlobMatcher) matchPath(rel string) bool {
	ignored := false
	for _, r := range m.rules {
		if r.Negate != ignored {
			continue
		}
		if globMatches(r, rel) {
			ignored = !r.Negate
		}
	}
	return ignored
}

func globMatches(r Rule, rel string) bool {
	segments := strings.Split(rel, "/")

	if !r.Anchored && !strings.Contains(r.Pattern, "/") {
		for _, seg := range segments {
			if doublestar.MatchUnvalidated(r.Pattern, seg) {
				return true
			}
		}
		return false
	}

	pattern := r.Pattern
	if !r.Anchored {
		pattern = "**/" + strings.TrimPrefix(pattern, "**/")
	}
	for i := len(segments); i > 0; i-- {
		if doublestar.MatchUnvalidated(pattern, path.Join(segments[:i]...)) {
			return true
		}
	}
	return false
}
