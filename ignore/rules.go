package ignore

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Rule is one parsed ignore line.
type Rule struct {
	// Pattern is the rule body without negation, anchoring or trailing slash.
	Pattern string
	Negate  bool
	// Anchored rules match from the project root only.
	Anchored bool
}

// ParseRule parses a single gitignore-style line. ok is false for blank lines
// and comments.
func ParseRule(line string) (Rule, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	var r Rule
	if strings.HasPrefix(line, "!") {
		r.Negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\!`) || strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	line = strings.TrimSuffix(line, "/")
	if strings.HasPrefix(line, "/") {
		r.Anchored = true
		line = strings.TrimLeft(line, "/")
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		// A slash anywhere but the end anchors the pattern.
		r.Anchored = true
	}

	if line == "" {
		return Rule{}, false
	}
	r.Pattern = line
	return r, true
}

// ParseRules parses lines in order, dropping blanks and comments.
func ParseRules(lines []string) []Rule {
	rules := make([]Rule, 0, len(lines))
	for _, line := range lines {
		if r, ok := ParseRule(line); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// ReadGitignore returns the lines of root/.gitignore. A missing file yields
// no lines and no error.
func ReadGitignore(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// normalize converts rel to the form rules are matched against.
func normalize(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.Trim(rel, "/")
	if rel == "." {
		return ""
	}
	return rel
}
