package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/config"
	"github.com/eltonkola/bleta/internal/fetcher"
	"github.com/eltonkola/bleta/internal/logger"
	"github.com/eltonkola/bleta/internal/publisher"
	"github.com/eltonkola/bleta/internal/runner"
	"github.com/eltonkola/bleta/internal/summarizer"
	"github.com/eltonkola/bleta/webapp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	serve := flag.Bool("serve", false, "serve the generated site over HTTP")
	addr := flag.String("addr", ":8080", "listen address for -serve")
	flag.Parse()

	// Local development convenience; in CI the environment is already set.
	_ = godotenv.Load()

	logger.Init()
	log := logger.Log

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	f := fetcher.NewRSSFetcher(
		time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second,
		cfg.HTTP.UserAgent,
		cfg.MaxArticlesPerSource,
	)

	var summ summarizer.Summarizer
	if cfg.SummariesEnabled() {
		summ = summarizer.NewGeminiSummarizer(
			cfg.AI.APIKey,
			cfg.AI.Model,
			cfg.AI.MaxTokens,
			cfg.AI.Temperature,
			cfg.AI.PromptTemplate,
		)
		log.WithField("model", cfg.AI.Model).Info("AI summarization enabled")
	} else {
		log.Warn("No AI API key configured, articles will use truncated descriptions")
	}

	store := archive.NewStore(
		cfg.Paths.ArchiveDir,
		filepath.Join(cfg.Paths.OutputDir, "archive"),
		cfg.Project,
	)

	htmlPub, err := publisher.NewHTMLPublisher(cfg.Paths.OutputDir)
	if err != nil {
		log.Fatalf("Failed to build HTML publisher: %v", err)
	}
	pubs := []publisher.Publisher{
		htmlPub,
		publisher.NewRSSPublisher(cfg.Paths.OutputDir, cfg.RSS),
	}

	var webPub *publisher.WebPublisher
	if *serve {
		webPub = publisher.NewWebPublisher(*addr, cfg.Paths.OutputDir, store)
		pubs = append(pubs, webPub)
	}

	if err := webapp.Install(cfg.Paths.OutputDir); err != nil {
		log.Fatalf("Failed to install webapp: %v", err)
	}

	if webPub != nil {
		if err := webPub.Start(); err != nil {
			log.Fatalf("Failed to start web publisher: %v", err)
		}
	}

	r := runner.New(cfg, f, summ, store, pubs)

	// Single-run mode: run the pipeline once and exit.
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Info("Running aggregation (once mode)...")
		if err := r.Run(ctx); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		log.Info("Done")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Info("Running initial aggregation...")
		if err := r.Run(ctx); err != nil {
			log.Errorf("Initial run failed: %v", err)
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Info("Cron triggered, running aggregation...")
		if err := r.Run(ctx); err != nil {
			log.Errorf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.WithField("schedule", cfg.Schedule).Info("Scheduled aggregation")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()

	if webPub != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := webPub.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Web server shutdown error: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
