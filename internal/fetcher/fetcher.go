package fetcher

import (
	"context"
	"time"
)

// Source is one configured news outlet.
type Source struct {
	Name     string
	URL      string
	Language string
	Enabled  bool
}

// Article is a normalized feed entry. Summary stays empty until the
// summarizer fills it in; once archived the article is never mutated.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Summary     string    `json:"ai_summary,omitempty"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	Language    string    `json:"language"`
	GUID        string    `json:"guid"`
	Published   string    `json:"published"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Fetcher retrieves the current entries of a single source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]Article, error)
}
