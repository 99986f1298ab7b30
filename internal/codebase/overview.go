package codebase

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Overview summarizes the project: readme, package metadata, file type
// counts and top-level layout.
type Overview struct {
	ProjectName  string         `json:"projectName"`
	Description  string         `json:"description"`
	Readme       string         `json:"readme,omitempty"`
	FileTypes    map[string]int `json:"fileTypes"`
	TopLevelDirs []string       `json:"topLevelDirs"`
	TotalFiles   int            `json:"totalFiles"`
}

// Overview returns the cached project overview, rebuilding it if a write
// operation or the file watcher marked it stale.
func (s *Store) Overview() (*Overview, error) {
	s.overviewMu.Lock()
	defer s.overviewMu.Unlock()

	if s.overview != nil && !s.overviewStale {
		return s.overview, nil
	}

	ov, err := s.buildOverview()
	if err != nil {
		return nil, err
	}

	s.overview = ov
	s.overviewStale = false
	return ov, nil
}

// invalidateOverview marks the cached overview stale.
func (s *Store) invalidateOverview() {
	s.overviewMu.Lock()
	s.overviewStale = true
	s.overviewMu.Unlock()
}

// InvalidateOverview marks the cached overview stale. Callers that change
// the tree outside the store's own operations (snapshot restores, external
// tools) use it to keep Overview results current.
func (s *Store) InvalidateOverview() {
	s.invalidateOverview()
}

func (s *Store) buildOverview() (*Overview, error) {
	ov := &Overview{
		ProjectName: filepath.Base(s.root),
		Description: "No description available",
		FileTypes:   map[string]int{},
	}

	// Readme: first README* file at the top level.
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			ov.TopLevelDirs = append(ov.TopLevelDirs, entry.Name())
			continue
		}
		if ov.Readme == "" && strings.HasPrefix(strings.ToUpper(entry.Name()), "README") {
			if data, err := os.ReadFile(filepath.Join(s.root, entry.Name())); err == nil {
				ov.Readme = string(data)
			}
		}
	}
	sort.Strings(ov.TopLevelDirs)

	// Package metadata: package.json is parsed, Python markers just noted.
	if data, err := os.ReadFile(filepath.Join(s.root, "package.json")); err == nil {
		var pkg struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			if pkg.Name != "" {
				ov.ProjectName = pkg.Name
			}
			if pkg.Description != "" {
				ov.Description = pkg.Description
			}
		}
	} else if _, err := os.Stat(filepath.Join(s.root, "pyproject.toml")); err == nil {
		ov.Description = "Python project with pyproject.toml"
	} else if _, err := os.Stat(filepath.Join(s.root, "setup.py")); err == nil {
		ov.Description = "Python project with setup.py"
	}

	// File counts by extension.
	err = filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ov.TotalFiles++
		ext := strings.ToLower(filepath.Ext(path))
		ov.FileTypes[ext]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ov, nil
}
