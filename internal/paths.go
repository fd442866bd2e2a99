package internal

import (
	"strings"
)

// splitSiblingSegments splits the navigation suffix below rootPath into
// segments, with rootPath itself (which may contain slashes for parametrized
// entities) as segment zero. ok is false when fullPath does not extend
// rootPath at a segment boundary.
func splitSiblingSegments(rootPath, fullPath string) ([]string, bool) {
	if rootPath == "" || !strings.HasPrefix(fullPath, rootPath) {
		return nil, false
	}
	suffix := fullPath[len(rootPath):]
	if suffix == "" {
		return []string{rootPath}, true
	}
	if !strings.HasPrefix(suffix, "/") {
		return nil, false
	}
	segments := []string{rootPath}
	segments = append(segments, strings.Split(suffix[1:], "/")...)
	return segments, true
}

// hasKeyPredicate reports whether a path segment addresses a keyed entity
// instance, i.e. ends with a key predicate, as opposed to a 1:1 navigation.
func hasKeyPredicate(segment string) bool {
	return strings.HasSuffix(segment, ")")
}

// keyPredicate returns the final parenthesized key portion of path, or "".
func keyPredicate(path string) string {
	idx := strings.LastIndex(path, "(")
	if idx < 0 || !strings.HasSuffix(path, ")") {
		return ""
	}
	return path[idx:]
}

// replaceKeyPredicate substitutes only the final key predicate of segment with
// the one carried by canonicalPath, preserving the navigation-property name.
// Segments or canonical paths without a key predicate pass through unchanged.
func replaceKeyPredicate(segment, canonicalPath string) string {
	predicate := keyPredicate(canonicalPath)
	if predicate == "" {
		return segment
	}
	idx := strings.LastIndex(segment, "(")
	if idx < 0 {
		return segment
	}
	return segment[:idx] + predicate
}

// joinSegment appends one navigation segment to an accumulated path.
func joinSegment(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "/" + segment
}
