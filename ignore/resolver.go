// Package ignore decides which project paths are excluded from watching.
//
// Rules come from the project's .gitignore followed by the configured
// ignore list, so user rules are evaluated last and take precedence.
package ignore

import (
	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/config"
)

// Resolver answers IsIgnored for root-relative paths.
type Resolver struct {
	matcher Matcher
	rules   []Rule
}

// NewResolver builds a resolver for root. A .gitignore that cannot be read is
// logged and skipped. Rules the selected engine rejects are logged and dropped.
func NewResolver(root string, syntax string, userRules []string, log logrus.FieldLogger) *Resolver {
	vcsLines, err := ReadGitignore(root)
	if err != nil {
		log.WithError(err).Warn("Could not read .gitignore, using configured ignore rules only")
		vcsLines = nil
	}

	lines := append(append([]string{}, vcsLines...), userRules...)
	rules := validRules(ParseRules(lines), syntax, log)

	return &Resolver{matcher: newMatcher(rules, syntax), rules: rules}
}

// NewResolverWithMatcher wraps an existing matcher.
func NewResolverWithMatcher(m Matcher) *Resolver {
	return &Resolver{matcher: m}
}

// IsIgnored reports whether rel is excluded. The project root itself is never
// ignored.
func (r *Resolver) IsIgnored(rel string) bool {
	rel = normalize(rel)
	if rel == "" {
		return false
	}
	return r.matcher.Match(rel)
}

// Rules returns the effective rule list in evaluation order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

func newMatcher(rules []Rule, syntax string) Matcher {
	if syntax == config.IgnoreSyntaxGlob {
		m, _ := NewGlobMatcher(rules)
		return m
	}
	m, _ := NewGitignoreMatcher(rules)
	return m
}

func validRules(rules []Rule, syntax string, log logrus.FieldLogger) []Rule {
	valid := rules[:0:0]
	for _, rule := range rules {
		var err error
		if syntax == config.IgnoreSyntaxGlob {
			_, err = NewGlobMatcher([]Rule{rule})
		} else {
			_, err = NewGitignoreMatcher([]Rule{rule})
		}
		if err != nil {
			log.WithError(err).WithField("rule", rule.Pattern).Warn("Dropping invalid ignore rule")
			continue
		}
		valid = append(valid, rule)
	}
	return valid
}
