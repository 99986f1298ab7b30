package codebase

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		// Simple patterns match the full path or the basename.
		{"*.go", "main.go", true},
		{"*.go", "src/main.go", true},
		{"*.go", "main.py", false},
		{"main.go", "main.go", true},
		{"src/*.go", "src/main.go", true},
		{"src/*.go", "other/main.go", false},

		// Recursive patterns.
		{"**/*", "main.go", true},
		{"**/*", "a/b/c.txt", true},
		{"**/*.js", "app.js", true},
		{"**/*.js", "src/deep/app.js", true},
		{"**/*.js", "src/app.ts", false},
		{"src/**", "src/main.go", true},
		{"src/**", "other/main.go", false},
		{"src/**/*.go", "src/deep/main.go", true},

		// Directory-anywhere patterns.
		{"**/node_modules/**", "node_modules/pkg/index.js", true},
		{"**/node_modules/**", "src/node_modules/pkg/index.js", true},
		{"**/node_modules/**", "src/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.path, func(t *testing.T) {
			if got := MatchGlob(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchAnyGlob(t *testing.T) {
	tests := []struct {
		patterns string
		path     string
		want     bool
	}{
		{"*.go,*.py", "main.go", true},
		{"*.go,*.py", "script.py", true},
		{"*.go,*.py", "page.html", false},
		{"*.go, *.py", "script.py", true},
		{"", "anything.txt", false},
		{",,", "anything.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.patterns+"/"+tt.path, func(t *testing.T) {
			if got := MatchAnyGlob(tt.patterns, tt.path); got != tt.want {
				t.Errorf("MatchAnyGlob(%q, %q) = %v, want %v", tt.patterns, tt.path, got, tt.want)
			}
		})
	}
}
