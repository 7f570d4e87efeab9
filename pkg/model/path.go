package model

import (
	"fmt"
	"strings"
)

// Separator joins path segments.
const Separator = "."

// Reserved path names. Star is the global error id used by the backend error
// envelope; WholeObject is the modifier key that replaces the recursive walk.
const (
	PathStar        = "*"
	PathWholeObject = "whole object"
)

// JoinPath appends child to parent using the dotted separator. Empty parts are
// skipped so JoinPath("", "name") returns "name".
func JoinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + Separator + child
}

// SplitPath returns the segments of a dotted path. An empty path yields nil.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// ParentPath returns the dotted path of the enclosing node, or "" for
// top-level paths.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, Separator)
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// ValidatePath reports whether path is a usable binding key.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if path == PathStar || path == PathWholeObject {
		return fmt.Errorf("%w: %q", ErrReservedPath, path)
	}
	for _, segment := range SplitPath(path) {
		if strings.TrimSpace(segment) == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
		}
		if segment != strings.TrimSpace(segment) {
			return fmt.Errorf("%w: %q has padded segment %q", ErrInvalidPath, path, segment)
		}
	}
	return nil
}
