package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/config"
	"github.com/eltonkola/bleta/internal/dedup"
	"github.com/eltonkola/bleta/internal/fetcher"
	"github.com/eltonkola/bleta/internal/logger"
	"github.com/eltonkola/bleta/internal/publisher"
	"github.com/eltonkola/bleta/internal/summarizer"
)

// Runner orchestrates one aggregation run: fetch every enabled source,
// drop already-processed articles, summarize the new ones, append them to
// the day's archive, and regenerate the published output.
type Runner struct {
	cfg        *config.Config
	fetcher    fetcher.Fetcher
	summarizer summarizer.Summarizer
	store      *archive.Store
	publishers []publisher.Publisher
	delay      time.Duration
	now        func() time.Time
}

// New builds a Runner. summ may be nil, in which case every article falls
// back to its truncated description.
func New(cfg *config.Config, f fetcher.Fetcher, summ summarizer.Summarizer, store *archive.Store, pubs []publisher.Publisher) *Runner {
	return &Runner{
		cfg:        cfg,
		fetcher:    f,
		summarizer: summ,
		store:      store,
		publishers: pubs,
		delay:      time.Duration(cfg.HTTP.RequestDelaySeconds) * time.Second,
		now:        time.Now,
	}
}

// Run executes the full pipeline once. It returns an error only when the
// archive or the processed-set cannot be written; source and summarization
// failures are logged and skipped.
func (r *Runner) Run(ctx context.Context) error {
	log := logger.Log.WithField("service", "runner")
	log.Infof("Starting %s news aggregation", r.cfg.Project.Name)

	processed, err := dedup.Load(r.cfg.Paths.ProcessedFile, r.cfg.MaxProcessedIDs)
	if err != nil {
		// Start from an empty set rather than refetching nothing.
		log.Warnf("Failed to load processed set, starting empty: %v", err)
	}

	sources := r.cfg.EnabledSources()
	var fetched []fetcher.Article
	for i, src := range sources {
		articles, err := r.fetcher.Fetch(ctx, fetcher.Source{
			Name:     src.Name,
			URL:      src.URL,
			Language: src.Language,
			Enabled:  src.Enabled,
		})
		if err != nil {
			log.WithField("source", src.Name).Errorf("Failed to fetch feed: %v", err)
			continue
		}
		log.WithField("source", src.Name).Infof("Fetched %d articles", len(articles))
		fetched = append(fetched, articles...)

		if r.delay > 0 && i < len(sources)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}
	log.Infof("Total articles fetched: %d", len(fetched))

	newArticles := r.process(ctx, fetched, processed)
	log.Infof("New articles processed: %d", len(newArticles))

	if len(newArticles) > 0 {
		doc, err := r.store.Write(r.now(), newArticles)
		if err != nil {
			return fmt.Errorf("runner: archive write failed: %w", err)
		}
		log.Infof("Archived %d articles for %s", doc.TotalArticles, doc.Date)

		if err := r.publish(ctx, doc); err != nil {
			return err
		}
	} else {
		log.Info("No new articles to archive")
	}

	if err := processed.Save(r.cfg.Paths.ProcessedFile); err != nil {
		return fmt.Errorf("runner: %w", err)
	}

	log.Infof("%s aggregation completed", r.cfg.Project.Name)
	return nil
}

// process filters out already-seen articles and enriches the remainder with
// summaries. A summarization failure never drops the article: it is archived
// with its truncated description instead.
func (r *Runner) process(ctx context.Context, articles []fetcher.Article, processed *dedup.Set) []fetcher.Article {
	log := logger.Log.WithField("service", "runner")

	var fresh []fetcher.Article
	for _, a := range articles {
		id := dedup.ArticleID(a)
		if processed.Contains(id) {
			continue
		}

		a.Summary = r.summarize(ctx, a)

		processed.Add(id)
		fresh = append(fresh, a)

		if err := ctx.Err(); err != nil {
			log.Warnf("Run cancelled, keeping %d articles processed so far", len(fresh))
			break
		}
	}
	return fresh
}

func (r *Runner) summarize(ctx context.Context, a fetcher.Article) string {
	text := a.Description
	if text == "" {
		text = a.Title
	}

	if r.summarizer == nil {
		return summarizer.Fallback(text)
	}

	summary, err := r.summarizer.Summarize(ctx, text, a.Language)
	if err != nil {
		logger.Log.WithField("link", a.Link).Errorf("Summarization failed, using description: %v", err)
		return summarizer.Fallback(text)
	}
	return summary
}

// publish fans the document out to every publisher. A single failing
// publisher is logged; the run only fails when all of them do.
func (r *Runner) publish(ctx context.Context, doc *archive.Document) error {
	log := logger.Log.WithField("service", "runner")

	var failures int
	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, doc); err != nil {
			failures++
			log.Errorf("Publish via %T failed: %v", pub, err)
		}
	}

	if len(r.publishers) > 0 && failures == len(r.publishers) {
		return fmt.Errorf("runner: all %d publishers failed", failures)
	}
	return nil
}
