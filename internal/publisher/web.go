package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/logger"
)

// WebPublisher serves the static output directory over HTTP for local
// preview of the generated site. The archive browser webapp asks
// /api/latest which date to open first.
type WebPublisher struct {
	addr      string
	outputDir string
	store     *archive.Store
	server    *http.Server
	mu        sync.RWMutex
	latest    string
}

func NewWebPublisher(addr, outputDir string, store *archive.Store) *WebPublisher {
	wp := &WebPublisher{addr: addr, outputDir: outputDir, store: store}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/latest", wp.handleLatest)
	mux.Handle("/", http.FileServer(http.Dir(outputDir)))
	wp.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return wp
}

// Start begins serving HTTP in the background. Call Shutdown to stop.
func (wp *WebPublisher) Start() error {
	ln, err := net.Listen("tcp", wp.addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", wp.addr, err)
	}
	go func() {
		logger.Log.WithField("addr", wp.addr).Info("Web publisher listening")
		if err := wp.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorf("Web publisher error: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (wp *WebPublisher) Shutdown(ctx context.Context) error {
	return wp.server.Shutdown(ctx)
}

func (wp *WebPublisher) Publish(_ context.Context, doc *archive.Document) error {
	wp.mu.Lock()
	wp.latest = doc.Date
	wp.mu.Unlock()
	logger.Log.WithField("date", doc.Date).Info("Web publisher updated")
	return nil
}

func (wp *WebPublisher) handleLatest(w http.ResponseWriter, r *http.Request) {
	wp.mu.RLock()
	latest := wp.latest
	wp.mu.RUnlock()

	// Publish only runs when a pipeline pass produced new articles, so
	// after a restart or a quiet day the in-memory date is empty even
	// though archives exist on disk. Fall back to the store.
	if latest == "" && wp.store != nil {
		if d, err := wp.store.LatestDate(); err == nil && !d.IsZero() {
			latest = d.Format(archive.DateFormat)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if latest == "" {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no archive yet"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"date": latest})
}
