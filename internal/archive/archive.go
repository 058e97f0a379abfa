package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eltonkola/bleta/internal/config"
	"github.com/eltonkola/bleta/internal/fetcher"
)

// DateFormat keys archive documents, one per calendar date.
const DateFormat = "2006-01-02"

// Document is the JSON record of all articles collected for a single date.
type Document struct {
	Date          string               `json:"date"`
	Timestamp     time.Time            `json:"timestamp"`
	Project       config.ProjectConfig `json:"project"`
	Articles      []fetcher.Article    `json:"articles"`
	TotalArticles int                  `json:"total_articles"`
	Sources       []string             `json:"sources"`
}

// Store reads and writes per-date archive documents under dir, and mirrors
// every write into publicDir (the statically served copy) when set.
type Store struct {
	dir       string
	publicDir string
	project   config.ProjectConfig
	now       func() time.Time
}

func NewStore(dir, publicDir string, project config.ProjectConfig) *Store {
	return &Store{
		dir:       dir,
		publicDir: publicDir,
		project:   project,
		now:       time.Now,
	}
}

// Path returns the archive file path for date.
func (s *Store) Path(date time.Time) string {
	return filepath.Join(s.dir, date.Format(DateFormat)+".json")
}

// Read loads the archive document for date.
func (s *Store) Read(date time.Time) (*Document, error) {
	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		return nil, fmt.Errorf("archive: failed to read %s: %w", s.Path(date), err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("archive: failed to parse %s: %w", s.Path(date), err)
	}
	return &doc, nil
}

// Write appends newArticles to the document for date, creating it on first
// write. Articles whose link is already present in the document are dropped,
// so a link appears at most once. Totals and the distinct source list are
// recomputed before the document is persisted.
func (s *Store) Write(date time.Time, newArticles []fetcher.Article) (*Document, error) {
	doc := &Document{
		Date:    date.Format(DateFormat),
		Project: s.project,
	}

	if existing, err := s.Read(date); err == nil {
		doc = existing
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	seen := make(map[string]struct{}, len(doc.Articles))
	for _, a := range doc.Articles {
		seen[a.Link] = struct{}{}
	}
	for _, a := range newArticles {
		if _, dup := seen[a.Link]; dup && a.Link != "" {
			continue
		}
		seen[a.Link] = struct{}{}
		doc.Articles = append(doc.Articles, a)
	}

	doc.Timestamp = s.now()
	doc.TotalArticles = len(doc.Articles)
	doc.Sources = distinctSources(doc.Articles)

	if err := s.writeFile(s.dir, doc); err != nil {
		return nil, err
	}
	if s.publicDir != "" {
		if err := s.writeFile(s.publicDir, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// LatestDate returns the most recent date with an archive document, or the
// zero time when the archive is empty.
func (s *Store) LatestDate() (time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("archive: failed to list %s: %w", s.dir, err)
	}

	var dates []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		if _, err := time.Parse(DateFormat, name); err == nil {
			dates = append(dates, name)
		}
	}
	if len(dates) == 0 {
		return time.Time{}, nil
	}

	sort.Strings(dates)
	return time.Parse(DateFormat, dates[len(dates)-1])
}

// writeFile persists doc under dir atomically: write a temp file, then
// rename over the destination.
func (s *Store) writeFile(dir string, doc *Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: failed to create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: failed to marshal document: %w", err)
	}

	path := filepath.Join(dir, doc.Date+".json")
	tmp, err := os.CreateTemp(dir, doc.Date+"-*.tmp")
	if err != nil {
		return fmt.Errorf("archive: failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("archive: failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("archive: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("archive: failed to replace %s: %w", path, err)
	}
	return nil
}

func distinctSources(articles []fetcher.Article) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, a := range articles {
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		sources = append(sources, a.Source)
	}
	return sources
}
