package codebase

import (
	"path/filepath"
	"strings"
)

// MatchGlob matches a glob pattern against a slash-separated relative path.
// Patterns may contain ** for recursive matching; plain patterns also match
// against the basename so "*.go" finds files in subdirectories.
func MatchGlob(pattern, path string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**")

		// Pattern is "**/something/**": match the segment anywhere.
		if len(parts) == 3 && parts[0] == "" && parts[2] == "" {
			middle := strings.Trim(parts[1], "/")
			return strings.Contains(path, middle+"/") || strings.Contains(path, "/"+middle)
		}

		if len(parts) == 2 {
			prefix := strings.TrimSuffix(parts[0], "/")
			suffix := strings.TrimPrefix(parts[1], "/")

			if prefix != "" && !strings.HasPrefix(path, prefix) {
				return false
			}

			if suffix == "" || suffix == "/" {
				return true
			}

			// Suffix like "dir/**": check the path crosses that directory.
			if strings.Contains(suffix, "**") {
				dirPart := strings.Split(suffix, "**")[0]
				dirPart = strings.Trim(dirPart, "/")
				return strings.Contains(path, "/"+dirPart+"/") || strings.HasPrefix(path, dirPart+"/")
			}

			// Match suffix against the basename or any path segment.
			base := filepath.Base(path)
			if matched, _ := filepath.Match(suffix, base); matched {
				return true
			}
			for _, seg := range strings.Split(path, "/") {
				if m, _ := filepath.Match(suffix, seg); m {
					return true
				}
			}
			return false
		}
	}

	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}

// MatchAnyGlob reports whether the path matches at least one pattern in a
// comma-separated pattern list.
func MatchAnyGlob(patterns, path string) bool {
	for _, p := range strings.Split(patterns, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if MatchGlob(p, path) {
			return true
		}
	}
	return false
}
