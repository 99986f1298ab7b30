// Package codebase provides sandboxed file operations over the served
// directory tree.
package codebase

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mvanek/mcp-codebase-browser/pkg/types"
)

// seedReadme is written into a freshly created codebase root so users know
// where their files go.
const seedReadme = "Put your project files in this directory.\n" +
	"They are served by the MCP Codebase Browser.\n"

// Store performs file operations relative to a single codebase root. All
// paths accepted by its methods are slash-separated and relative; anything
// resolving outside the root is rejected.
type Store struct {
	root string

	overviewMu    sync.Mutex
	overview      *Overview
	overviewStale bool
}

// NewStore creates a store over root. When createIfMissing is set and the
// root does not exist, it is created together with a README seed file.
func NewStore(root string, createIfMissing bool) (*Store, error) {
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		if !createIfMissing {
			return nil, fmt.Errorf("codebase root %s: %w", root, types.ErrNotFound)
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("failed to create codebase root: %w", err)
		}
		if err := os.WriteFile(filepath.Join(root, "README.txt"), []byte(seedReadme), 0644); err != nil {
			return nil, fmt.Errorf("failed to seed codebase root: %w", err)
		}
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, fmt.Errorf("codebase root %s: %w", root, types.ErrNotADirectory)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	return &Store{root: abs, overviewStale: true}, nil
}

// Root returns the absolute codebase root.
func (s *Store) Root() string {
	return s.root
}

// Resolve joins a relative path onto the root and rejects escapes.
func (s *Store) Resolve(rel string) (string, error) {
	joined := filepath.Join(s.root, filepath.FromSlash(rel))
	cleaned := filepath.Clean(joined)
	if cleaned != s.root && !strings.HasPrefix(cleaned, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, types.ErrOutsideRoot)
	}
	return cleaned, nil
}

// Rel converts an absolute path under the root back to slash-relative form.
func (s *Store) Rel(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// ListResult describes one directory listing.
type ListResult struct {
	Files       []string `json:"files"`
	Directories []string `json:"directories"`
	CurrentPath string   `json:"currentPath"`
}

// List returns files under dir matching pattern (recursively), plus the
// immediate subdirectories of dir. Pattern defaults to "**/*".
func (s *Store) List(dir, pattern string) (*ListResult, error) {
	if pattern == "" {
		pattern = "**/*"
	}

	dirPath, err := s.Resolve(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", dir, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, types.ErrNotADirectory)
	}

	result := &ListResult{
		Files:       []string{},
		Directories: []string{},
		CurrentPath: dir,
	}

	err = filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(dirPath, path)
		rel = filepath.ToSlash(rel)
		if MatchGlob(pattern, rel) {
			result.Files = append(result.Files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			result.Directories = append(result.Directories, entry.Name()+"/")
		}
	}

	sort.Strings(result.Files)
	sort.Strings(result.Directories)
	return result, nil
}

// FileContent is the payload of a successful read.
type FileContent struct {
	Content   string `json:"content"`
	FilePath  string `json:"filePath"`
	SizeBytes int64  `json:"sizeBytes"`
}

// ReadFile reads a file, refusing files larger than maxSize bytes.
// maxSize <= 0 disables the cap.
func (s *Store) ReadFile(rel string, maxSize int64) (*FileContent, error) {
	path, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", rel, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", rel, types.ErrNotAFile)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%s is %d bytes: %w", rel, info.Size(), types.ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &FileContent{
		Content:   string(data),
		FilePath:  rel,
		SizeBytes: info.Size(),
	}, nil
}

// ReadLines reads a file and splits it into lines without terminators.
func (s *Store) ReadLines(rel string, maxSize int64) ([]string, error) {
	content, err := s.ReadFile(rel, maxSize)
	if err != nil {
		return nil, err
	}
	return SplitLines(content.Content), nil
}

// SplitLines splits text into lines, tolerating CRLF and a trailing newline.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// WriteFile writes content to a file, creating parent directories.
// With appendMode set, content is appended instead of replacing.
func (s *Store) WriteFile(rel, content string, appendMode bool) error {
	path, err := s.Resolve(rel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directories: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.invalidateOverview()
	return nil
}

// DeleteFile removes a regular file.
func (s *Store) DeleteFile(rel string) error {
	path, err := s.Resolve(rel)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", rel, types.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", rel, types.ErrNotAFile)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.invalidateOverview()
	return nil
}

// CreateDirectory creates a directory and any missing parents.
func (s *Store) CreateDirectory(rel string) error {
	path, err := s.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	s.invalidateOverview()
	return nil
}

// DeleteDirectory removes a directory. Non-empty directories are refused
// unless recursive is set.
func (s *Store) DeleteDirectory(rel string, recursive bool) error {
	path, err := s.Resolve(rel)
	if err != nil {
		return err
	}
	if path == s.root {
		return fmt.Errorf("refusing to delete codebase root: %w", types.ErrOutsideRoot)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", rel, types.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", rel, types.ErrNotADirectory)
	}

	if recursive {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("%s: %w", rel, types.ErrNotEmpty)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete directory: %w", err)
		}
	}

	s.invalidateOverview()
	return nil
}

// MoveFile moves or renames a file. An existing destination is refused
// unless overwrite is set.
func (s *Store) MoveFile(src, dst string, overwrite bool) error {
	srcPath, dstPath, err := s.resolvePair(src, dst, overwrite)
	if err != nil {
		return err
	}

	if err := os.Rename(srcPath, dstPath); err != nil {
		// Cross-device moves fall back to copy and delete.
		if copyErr := copyFileContents(srcPath, dstPath); copyErr != nil {
			return fmt.Errorf("failed to move file: %w", err)
		}
		if rmErr := os.Remove(srcPath); rmErr != nil {
			return fmt.Errorf("failed to remove source after move: %w", rmErr)
		}
	}

	s.invalidateOverview()
	return nil
}

// CopyFile copies a file. An existing destination is refused unless
// overwrite is set.
func (s *Store) CopyFile(src, dst string, overwrite bool) error {
	srcPath, dstPath, err := s.resolvePair(src, dst, overwrite)
	if err != nil {
		return err
	}

	if err := copyFileContents(srcPath, dstPath); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	s.invalidateOverview()
	return nil
}

// resolvePair validates source and destination for move/copy operations.
func (s *Store) resolvePair(src, dst string, overwrite bool) (string, string, error) {
	srcPath, err := s.Resolve(src)
	if err != nil {
		return "", "", err
	}
	dstPath, err := s.Resolve(dst)
	if err != nil {
		return "", "", err
	}

	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return "", "", fmt.Errorf("%s: %w", src, types.ErrNotFound)
	}
	if _, err := os.Stat(dstPath); err == nil && !overwrite {
		return "", "", fmt.Errorf("%s: %w", dst, types.ErrExists)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create parent directories: %w", err)
	}

	return srcPath, dstPath, nil
}

// copyFileContents copies data and mode from src to dst.
func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
