package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eltonkola/bleta/internal/fetcher"
)

// Set tracks article identifiers that have already been archived, so a link
// is stored at most once across runs. Ids keep insertion order so the oldest
// entries can be trimmed when a cap is configured.
type Set struct {
	ids   []string
	index map[string]struct{}
	// maxIDs caps the persisted set size; 0 means unlimited.
	maxIDs int
}

type setFile struct {
	ProcessedIDs []string `json:"processed_ids"`
	LastUpdated  string   `json:"last_updated"`
}

func NewSet(maxIDs int) *Set {
	return &Set{
		index:  make(map[string]struct{}),
		maxIDs: maxIDs,
	}
}

// Load reads the persisted set from path. A missing or unreadable file
// yields an empty set; a run must never abort because its history is gone.
func Load(path string, maxIDs int) (*Set, error) {
	s := NewSet(maxIDs)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("dedup: failed to read %s: %w", path, err)
	}

	var f setFile
	if err := json.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("dedup: failed to parse %s: %w", path, err)
	}

	for _, id := range f.ProcessedIDs {
		s.Add(id)
	}
	return s, nil
}

// Contains reports whether id has been processed before.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add records id. Adding an existing id is a no-op.
func (s *Set) Add(id string) {
	if s.Contains(id) {
		return
	}
	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
}

func (s *Set) Len() int {
	return len(s.ids)
}

// Save persists the set to path, creating parent directories as needed.
// When a cap is configured the oldest ids beyond it are dropped first.
func (s *Set) Save(path string) error {
	ids := s.ids
	if s.maxIDs > 0 && len(ids) > s.maxIDs {
		ids = ids[len(ids)-s.maxIDs:]
	}

	f := setFile{
		ProcessedIDs: ids,
		LastUpdated:  time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("dedup: failed to marshal set: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dedup: failed to create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dedup: failed to write %s: %w", path, err)
	}
	return nil
}

// ArticleID derives the identity used for deduplication: the link when
// present, otherwise title and publication time, otherwise title and the
// current time so the article is never silently merged with another.
func ArticleID(a fetcher.Article) string {
	if a.Link != "" {
		return a.Link
	}
	if a.Title != "" && a.Published != "" {
		return a.Title + "_" + a.Published
	}
	return a.Title + "_" + time.Now().Format(time.RFC3339)
}
