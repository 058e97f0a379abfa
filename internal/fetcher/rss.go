package fetcher

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/eltonkola/bleta/internal/retry"
)

// RSSFetcher fetches and normalizes RSS/Atom feeds via gofeed.
type RSSFetcher struct {
	parser     *gofeed.Parser
	sanitizer  *bluemonday.Policy
	maxPerFeed int
	retryCfg   retry.Config
	now        func() time.Time
}

func NewRSSFetcher(timeout time.Duration, userAgent string, maxPerFeed int) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent

	return &RSSFetcher{
		parser:     parser,
		sanitizer:  bluemonday.StrictPolicy(),
		maxPerFeed: maxPerFeed,
		retryCfg:   retry.DefaultConfig(),
		now:        time.Now,
	}
}

// Fetch downloads the feed of src and returns at most maxPerFeed normalized
// articles, newest entries first in feed order.
func (f *RSSFetcher) Fetch(ctx context.Context, src Source) ([]Article, error) {
	var feed *gofeed.Feed
	err := retry.WithBackoff(ctx, f.retryCfg, func(ctx context.Context) error {
		var parseErr error
		feed, parseErr = f.parser.ParseURLWithContext(src.URL, ctx)
		return parseErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetcher: %s: %w", src.Name, err)
	}

	items := feed.Items
	if f.maxPerFeed > 0 && len(items) > f.maxPerFeed {
		items = items[:f.maxPerFeed]
	}

	fetchedAt := f.now()
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}

		articles = append(articles, Article{
			Title:       f.cleanText(item.Title),
			Link:        item.Link,
			Description: f.cleanText(item.Description),
			Source:      src.Name,
			SourceURL:   src.URL,
			Language:    src.Language,
			GUID:        guid,
			Published:   publishedString(item),
			FetchedAt:   fetchedAt,
		})
	}

	return articles, nil
}

// cleanText strips HTML markup, unescapes entities, and normalizes
// whitespace.
func (f *RSSFetcher) cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = f.sanitizer.Sanitize(text)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// publishedString normalizes the publication time to RFC 3339 when the feed
// date parses, and keeps the raw string otherwise.
func publishedString(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC3339)
	}
	return item.Published
}
