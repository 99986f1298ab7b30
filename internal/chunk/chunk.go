// Package chunk implements process-lifetime named text buffers used to
// stage large file contents across multiple calls before committing
// them to disk.
package chunk

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/pkg/types"
)

// Info describes one buffer without its content.
type Info struct {
	Name      string `json:"name"`
	SizeBytes int    `json:"sizeBytes"`
	Parts     int    `json:"parts"`
}

// Store holds named buffers. It is an explicit object passed to
// handlers, safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]*buffer
}

type buffer struct {
	content string
	parts   int
}

// NewStore creates an empty chunk store.
func NewStore() *Store {
	return &Store{chunks: map[string]*buffer{}}
}

// Create starts a new buffer with initial content, replacing any
// existing buffer of the same name.
func (s *Store) Create(name, content string) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks[name] = &buffer{content: content, parts: 1}
	return Info{Name: name, SizeBytes: len(content), Parts: 1}
}

// Append adds content to an existing buffer.
func (s *Store) Append(name, content string) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.chunks[name]
	if !ok {
		return Info{}, fmt.Errorf("%s: %w", name, types.ErrChunkNotFound)
	}
	b.content += content
	b.parts++
	return Info{Name: name, SizeBytes: len(b.content), Parts: b.parts}, nil
}

// Get returns a buffer's content.
func (s *Store) Get(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.chunks[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, types.ErrChunkNotFound)
	}
	return b.content, nil
}

// List returns info for all buffers, sorted by name.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.chunks))
	for name, b := range s.chunks {
		infos = append(infos, Info{Name: name, SizeBytes: len(b.content), Parts: b.parts})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Merge writes a buffer's content to a file through the codebase store
// and removes the buffer on success.
func (s *Store) Merge(name, filePath string, cb *codebase.Store) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.chunks[name]
	if !ok {
		return Info{}, fmt.Errorf("%s: %w", name, types.ErrChunkNotFound)
	}

	if err := cb.WriteFile(filePath, b.content, false); err != nil {
		return Info{}, err
	}

	info := Info{Name: name, SizeBytes: len(b.content), Parts: b.parts}
	delete(s.chunks, name)
	return info, nil
}

// Clear removes one buffer.
func (s *Store) Clear(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chunks[name]; !ok {
		return fmt.Errorf("%s: %w", name, types.ErrChunkNotFound)
	}
	delete(s.chunks, name)
	return nil
}

// ClearAll removes every buffer and reports how many were dropped.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.chunks)
	s.chunks = map[string]*buffer{}
	return n
}
