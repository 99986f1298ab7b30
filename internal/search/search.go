// Package search implements substring search over the codebase with
// heuristic block context around each match.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvanek/mcp-codebase-browser/internal/block"
	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/internal/config"
)

// Match is one matched line with its enclosing block.
type Match struct {
	LineNumber int      `json:"lineNumber"` // 1-based
	Column     int      `json:"column"`     // 1-based
	Content    string   `json:"content"`
	BlockStart int      `json:"blockStart,omitempty"` // 1-based, present with Block
	BlockEnd   int      `json:"blockEnd,omitempty"`
	Block      []string `json:"block,omitempty"`
}

// FileResult groups the matches of one file.
type FileResult struct {
	File    string  `json:"file"`
	Matches []Match `json:"matches"`
}

// Result is the full search payload.
type Result struct {
	Results      []FileResult `json:"results"`
	TotalMatches int          `json:"totalMatches"`
	SearchTerm   string       `json:"searchTerm"`
	Truncated    bool         `json:"truncated"`
}

// Options control one search call. Zero values fall back to the
// configured or built-in defaults.
type Options struct {
	Pattern       string // comma-separated include globs
	MaxResults    int
	CaseSensitive *bool // nil means "use config"
}

// Searcher walks the codebase and matches a term line by line.
type Searcher struct {
	store *codebase.Store
	cfg   *config.Config
}

// New creates a searcher over the store.
func New(store *codebase.Store, cfg *config.Config) *Searcher {
	return &Searcher{store: store, cfg: cfg}
}

// Search finds term in the codebase. Matches within a file are reported in
// ascending line order; overlapping blocks of adjacent matches are not
// deduplicated.
func (s *Searcher) Search(ctx context.Context, term string, opts Options) (*Result, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = s.cfg.Search.Include
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.Search.MaxResults
	}
	caseSensitive := s.cfg.Search.CaseSensitive
	if opts.CaseSensitive != nil {
		caseSensitive = *opts.CaseSensitive
	}

	needle := term
	if !caseSensitive {
		needle = strings.ToLower(term)
	}

	result := &Result{
		Results:    []FileResult{},
		SearchTerm: term,
	}
	maxBlocks := s.cfg.Search.MaxBlocks
	blocksEmitted := 0

	err := filepath.WalkDir(s.store.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result.TotalMatches >= maxResults {
			result.Truncated = true
			return filepath.SkipAll
		}

		rel := s.store.Rel(path)

		for _, exc := range s.cfg.Search.Exclude {
			if codebase.MatchGlob(exc, rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		if !codebase.MatchAnyGlob(pattern, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.cfg.Limits.MaxFileSize > 0 && info.Size() > s.cfg.Limits.MaxFileSize {
			slog.Debug("skipping oversized file", "file", rel, "size", info.Size())
			return nil
		}

		fileMatches, trimmed := s.searchFile(path, needle, caseSensitive, maxResults-result.TotalMatches, maxBlocks, &blocksEmitted)
		if len(fileMatches) > 0 {
			result.Results = append(result.Results, FileResult{File: rel, Matches: fileMatches})
			result.TotalMatches += len(fileMatches)
		}
		if trimmed {
			result.Truncated = true
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return nil, err
	}

	s.capResultBytes(result)
	return result, nil
}

// searchFile scans one file, attaching block context to the first
// maxBlocks matches overall. The second return reports whether a match was
// dropped by the maxMatches cap.
func (s *Searcher) searchFile(path, needle string, caseSensitive bool, maxMatches, maxBlocks int, blocksEmitted *int) ([]Match, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("skipping unreadable file", "file", path, "error", err)
		return nil, false
	}

	lines := codebase.SplitLines(string(data))
	style := block.StyleForFile(path)

	var matches []Match
	for i, line := range lines {
		haystack := line
		if !caseSensitive {
			haystack = strings.ToLower(line)
		}
		col := strings.Index(haystack, needle)
		if col < 0 {
			continue
		}
		if len(matches) >= maxMatches {
			return matches, true
		}

		m := Match{
			LineNumber: i + 1,
			Column:     col + 1,
			Content:    strings.TrimSpace(line),
		}

		if maxBlocks <= 0 || *blocksEmitted < maxBlocks {
			r := block.Extract(style, lines, i)
			m.BlockStart = r.Start + 1
			m.BlockEnd = r.End + 1
			m.Block = append([]string(nil), lines[r.Start:r.End+1]...)
			*blocksEmitted++
		}

		matches = append(matches, m)
	}
	return matches, false
}

// capResultBytes drops trailing file results until the serialized payload
// fits under the configured byte cap.
func (s *Searcher) capResultBytes(result *Result) {
	limit := s.cfg.Limits.MaxResultBytes
	if limit <= 0 {
		return
	}

	for len(result.Results) > 0 {
		data, err := json.Marshal(result)
		if err != nil || len(data) <= limit {
			return
		}

		last := result.Results[len(result.Results)-1]
		result.Results = result.Results[:len(result.Results)-1]
		result.TotalMatches -= len(last.Matches)
		result.Truncated = true
	}
}
