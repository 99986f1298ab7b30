package codebase

import (
	"fmt"
	"strings"

	"github.com/mvanek/mcp-codebase-browser/pkg/types"
)

// LineEditOp identifies a line-oriented edit operation.
type LineEditOp string

const (
	// LineEditReplace replaces the lines in [start, end] with the content.
	LineEditReplace LineEditOp = "replace"
	// LineEditInsertBefore inserts the content before the start line.
	LineEditInsertBefore LineEditOp = "insert_before"
	// LineEditInsertAfter inserts the content after the start line.
	LineEditInsertAfter LineEditOp = "insert_after"
	// LineEditDelete removes the lines in [start, end].
	LineEditDelete LineEditOp = "delete"
)

// LineEditResult reports the effect of an edit.
type LineEditResult struct {
	FilePath    string `json:"filePath"`
	Operation   string `json:"operation"`
	LinesBefore int    `json:"linesBefore"`
	LinesAfter  int    `json:"linesAfter"`
}

// EditLines applies a line-oriented edit to a file. Line numbers are
// 1-based and inclusive; endLine <= 0 means "same as startLine". Insert
// operations ignore endLine. A trailing newline in the original file is
// preserved.
func (s *Store) EditLines(rel string, op LineEditOp, startLine, endLine int, content string) (*LineEditResult, error) {
	file, err := s.ReadFile(rel, 0)
	if err != nil {
		return nil, err
	}

	hadTrailingNewline := strings.HasSuffix(file.Content, "\n")
	lines := SplitLines(file.Content)

	if endLine <= 0 {
		endLine = startLine
	}
	if startLine < 1 || startLine > len(lines) || endLine < startLine || endLine > len(lines) {
		return nil, fmt.Errorf("lines %d-%d of %d: %w", startLine, endLine, len(lines), types.ErrInvalidRange)
	}

	// Content may span multiple lines; empty content inserts nothing and
	// replaces with nothing (making replace behave like delete).
	var newLines []string
	if content != "" {
		newLines = SplitLines(content)
	}

	start, end := startLine-1, endLine-1
	var edited []string

	switch op {
	case LineEditReplace:
		edited = append(edited, lines[:start]...)
		edited = append(edited, newLines...)
		edited = append(edited, lines[end+1:]...)
	case LineEditInsertBefore:
		edited = append(edited, lines[:start]...)
		edited = append(edited, newLines...)
		edited = append(edited, lines[start:]...)
	case LineEditInsertAfter:
		edited = append(edited, lines[:start+1]...)
		edited = append(edited, newLines...)
		edited = append(edited, lines[start+1:]...)
	case LineEditDelete:
		edited = append(edited, lines[:start]...)
		edited = append(edited, lines[end+1:]...)
	default:
		return nil, fmt.Errorf("unknown edit operation: %s", op)
	}

	out := strings.Join(edited, "\n")
	if hadTrailingNewline && out != "" {
		out += "\n"
	}

	if err := s.WriteFile(rel, out, false); err != nil {
		return nil, err
	}

	return &LineEditResult{
		FilePath:    rel,
		Operation:   string(op),
		LinesBefore: len(lines),
		LinesAfter:  len(edited),
	}, nil
}
