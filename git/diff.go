package git

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	insertionsRe = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	deletionsRe  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
)

// ParseStatSummary extracts insertions+deletions from the summary line printed by
// `git diff --stat`. ok is false when neither figure is present.
func ParseStatSummary(stat string) (total int, ok bool) {
	if m := insertionsRe.FindStringSubmatch(stat); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
		ok = true
	}
	if m := deletionsRe.FindStringSubmatch(stat); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
		ok = true
	}
	return total, ok
}

// CountDiffLines counts lines of a unified diff that start with '+' or '-'.
// File headers (+++/---) are counted too.
func CountDiffLines(diff string) int {
	count := 0
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			count++
		}
	}
	return count
}
