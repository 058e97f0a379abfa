package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/feeds"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/config"
)

// RSSPublisher regenerates feed.xml from the day's archive.
type RSSPublisher struct {
	outputDir string
	cfg       config.RSSConfig
	now       func() time.Time
}

func NewRSSPublisher(outputDir string, cfg config.RSSConfig) *RSSPublisher {
	return &RSSPublisher{
		outputDir: outputDir,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (p *RSSPublisher) Publish(_ context.Context, doc *archive.Document) error {
	feed := &feeds.Feed{
		Title:       p.cfg.FeedTitle,
		Description: p.cfg.FeedDescription,
		Link:        &feeds.Link{Href: p.cfg.FeedLink},
		Author:      &feeds.Author{Name: p.cfg.FeedAuthor},
		Created:     p.now(),
	}

	articles := doc.Articles
	if p.cfg.MaxTotalArticles > 0 && len(articles) > p.cfg.MaxTotalArticles {
		articles = articles[:p.cfg.MaxTotalArticles]
	}

	for _, a := range articles {
		desc := a.Summary
		if desc == "" {
			desc = a.Description
		}

		created := p.now()
		if t, err := time.Parse(time.RFC3339, a.Published); err == nil {
			created = t
		}

		id := a.GUID
		if id == "" {
			id = a.Link
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          id,
			Title:       a.Title,
			Description: desc,
			Link:        &feeds.Link{Href: a.Link},
			Author:      &feeds.Author{Name: a.Source},
			Created:     created,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("rss: failed to render feed: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("rss: failed to create %s: %w", p.outputDir, err)
	}

	path := filepath.Join(p.outputDir, "feed.xml")
	if err := os.WriteFile(path, []byte(rss), 0o644); err != nil {
		return fmt.Errorf("rss: failed to write %s: %w", path, err)
	}
	return nil
}
