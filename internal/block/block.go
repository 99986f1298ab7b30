// Package block implements heuristic code-block boundary detection.
//
// Given the lines of a text file and the index of a line that matched a
// search term, it finds the smallest enclosing syntactic block using
// lightweight text heuristics only: brace counting for brace-delimited
// languages, indentation comparison for indentation-delimited ones. It is
// deliberately not a parser; when no structure is found it degrades to a
// fixed window around the match instead of failing.
package block

import (
	"path/filepath"
	"strings"
)

// Style classifies a file's block-grouping convention.
type Style int

const (
	// StyleBrace marks brace-delimited grammars (C, Go, JS, ...).
	StyleBrace Style = iota
	// StyleIndentation marks indentation-delimited grammars (Python, YAML).
	StyleIndentation
)

// fallbackRadius is the fixed window returned when no block boundary is
// detected: this many lines before and after the match, clipped to bounds.
const fallbackRadius = 3

// probeLines bounds the secondary backward probe for a ':'-terminated
// header above a lower-indented line.
const probeLines = 5

// indentExts is the extension set classified as indentation-delimited.
// Everything else, unknown extensions included, is treated as brace style.
var indentExts = map[string]bool{
	".py":   true,
	".pyw":  true,
	".pyi":  true,
	".yaml": true,
	".yml":  true,
}

// declKeywords is the crude declaration heuristic used by the brace-style
// backward scan: a line containing any of these is taken as a block opener
// regardless of its brace balance.
var declKeywords = []string{"function ", "class ", "def ", "= function"}

// Range is an inclusive, zero-based line interval enclosing a match.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StyleForFile classifies a filename by extension, case-insensitively.
// Total: unknown or missing extensions default to StyleBrace.
func StyleForFile(name string) Style {
	ext := strings.ToLower(filepath.Ext(name))
	if indentExts[ext] {
		return StyleIndentation
	}
	return StyleBrace
}

// Extract returns the enclosing block range for the match at lines[matchIndex],
// using the given style. Pure and total over well-formed input
// (len(lines) > 0 and 0 <= matchIndex < len(lines)); the result always
// satisfies 0 <= Start <= matchIndex <= End <= len(lines)-1.
func Extract(style Style, lines []string, matchIndex int) Range {
	if style == StyleIndentation {
		return indentBlock(lines, matchIndex)
	}
	return braceBlock(lines, matchIndex)
}

// fallbackRange is the fixed window around the match, clipped to bounds.
func fallbackRange(lineCount, matchIndex int) Range {
	r := Range{Start: matchIndex - fallbackRadius, End: matchIndex + fallbackRadius}
	return clamp(r, lineCount)
}

func clamp(r Range, lineCount int) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > lineCount-1 {
		r.End = lineCount - 1
	}
	return r
}

// braceBlock finds the enclosing block in a brace-delimited file.
//
// The backward scan accumulates brace counts from the match line down,
// stopping at the first line that either contains a declaration keyword
// (checked first) or tips the running open count above the close count.
// The forward scan runs only when an opening was found and restarts its
// accumulators from the match line's own counts; the two scans intentionally
// use different starting points and must not be merged into one counter.
func braceBlock(lines []string, matchIndex int) Range {
	result := fallbackRange(len(lines), matchIndex)

	openHere := strings.Count(lines[matchIndex], "{")
	closeHere := strings.Count(lines[matchIndex], "}")

	// Backward scan for the opening line.
	found := false
	totalOpen, totalClose := 0, 0
	for i := matchIndex; i >= 0; i-- {
		totalOpen += strings.Count(lines[i], "{")
		totalClose += strings.Count(lines[i], "}")

		if containsDecl(lines[i]) {
			result.Start = i
			found = true
			break
		}
		if totalOpen > totalClose {
			result.Start = i
			found = true
			break
		}
	}
	if !found {
		return clamp(result, len(lines))
	}

	// Forward scan for the closing line, seeded from the match line only.
	opens, closes := openHere, closeHere
	for i := matchIndex + 1; i < len(lines); i++ {
		opens += strings.Count(lines[i], "{")
		closes += strings.Count(lines[i], "}")
		if closes > opens {
			result.End = i
			break
		}
	}

	return clamp(result, len(lines))
}

func containsDecl(line string) bool {
	for _, kw := range declKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// indentBlock finds the enclosing suite in an indentation-delimited file.
// Blank lines neither open nor close a block and are skipped on both scans.
func indentBlock(lines []string, matchIndex int) Range {
	result := fallbackRange(len(lines), matchIndex)

	matchIndent := indentOf(lines[matchIndex])

	// Backward scan for the suite header.
	for i := matchIndex - 1; i >= 0; i-- {
		if isBlank(lines[i]) {
			continue
		}
		if indentOf(lines[i]) >= matchIndent {
			continue
		}

		if endsWithColon(lines[i]) {
			result.Start = i
			break
		}

		// A lower-indented line without a colon: probe a few lines above it
		// for the header, then stop the scan either way.
		for j := i - 1; j >= 0 && j >= i-probeLines; j-- {
			if endsWithColon(lines[j]) {
				result.Start = j
				break
			}
		}
		break
	}

	// Reference indentation comes from whatever line Start now points at,
	// the fallback line included.
	blockIndent := indentOf(lines[result.Start])

	// Forward scan: the block ends just before the first non-blank line
	// at or below the reference indentation.
	for i := matchIndex + 1; i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		if indentOf(lines[i]) <= blockIndent {
			result.End = i - 1
			break
		}
	}

	return clamp(result, len(lines))
}

// indentOf counts leading whitespace characters.
func indentOf(line string) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return len(line)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func endsWithColon(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}
