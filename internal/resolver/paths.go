package resolver

import (
	"errors"
	"strings"
)

// ErrInvalidPath rejects empty, malformed, or traversal-attempting
// transclusion targets.
var ErrInvalidPath = errors.New("resolver: invalid path")

// NormalizePath canonicalizes a transclusion target path: whitespace is
// trimmed, backslash separators become forward slashes, repeated and
// single-dot segments collapse, and the result is anchored at the
// workspace root. Any parent-directory segment is rejected so a
// directive can never reference outside the root.
func NormalizePath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidPath
	}

	trimmed = strings.ReplaceAll(trimmed, `\`, "/")

	segments := make([]string, 0, 8)
	for _, segment := range strings.Split(trimmed, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidPath
		default:
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return "", ErrInvalidPath
	}
	return "/" + strings.Join(segments, "/"), nil
}
