package watcher

import (
	"path/filepath"
	"strings"
)

// EventKind classifies a filesystem change.
type EventKind int

const (
	Created EventKind = iota + 1
	Modified
	Removed
	DirCreated
	DirRemoved
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	case DirCreated:
		return "dir-created"
	case DirRemoved:
		return "dir-removed"
	default:
		return "unknown"
	}
}

// FileChangeEvent is one observed change. Path is relative to the project
// root, slash-separated, without a leading "./".
type FileChangeEvent struct {
	Kind EventKind
	Path string
}

// Source produces change events until closed.
type Source interface {
	Events() <-chan FileChangeEvent
	Errors() <-chan error
	Close() error
}

// Filter reports whether a root-relative path should be dropped.
type Filter interface {
	IsIgnored(rel string) bool
}

// relPath converts an absolute path under root into event form.
func relPath(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", true
	}
	return rel, true
}

// hasHiddenSegment reports whether any segment of rel starts with a dot.
func hasHiddenSegment(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
