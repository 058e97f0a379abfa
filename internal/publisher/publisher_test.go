package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/config"
	"github.com/eltonkola/bleta/internal/fetcher"
)

func testDocument() *archive.Document {
	articles := []fetcher.Article{
		{
			Title:       "Lajmi kryesor i ditës",
			Link:        "https://telegrafi.com/lajmi-kryesor",
			Description: "Përshkrimi origjinal",
			Summary:     "Përmbledhja nga AI",
			Source:      "Telegrafi",
			Language:    "sq",
			GUID:        "telegrafi-1",
			Published:   "2024-03-01T10:00:00Z",
			FetchedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Title:       "Lajmi i dytë",
			Link:        "https://koha.net/lajmi-i-dyte",
			Description: "Vetëm përshkrim, pa përmbledhje",
			Source:      "Koha.net",
			Language:    "sq",
			Published:   "2024-03-01T09:30:00Z",
			FetchedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	return &archive.Document{
		Date:      "2024-03-01",
		Timestamp: time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC),
		Project: config.ProjectConfig{
			Name:        "Bleta",
			Description: "Albanian News Archive with AI Summaries",
			Version:     "1.0.0",
			Language:    "sq",
		},
		Articles:      articles,
		TotalArticles: 2,
		Sources:       []string{"Telegrafi", "Koha.net"},
	}
}

func TestHTMLPublisher(t *testing.T) {
	dir := t.TempDir()
	p, err := NewHTMLPublisher(dir)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), testDocument()))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	page := string(data)

	require.Contains(t, page, "Lajmi kryesor i ditës")
	require.Contains(t, page, "Përmbledhja nga AI")
	// The second article has no summary, so its description shows instead.
	require.Contains(t, page, "Vetëm përshkrim, pa përmbledhje")
	require.Contains(t, page, "2 artikuj")
	require.Contains(t, page, "https://telegrafi.com/lajmi-kryesor")
	require.Contains(t, page, "Lexo më shumë")
}

func TestHTMLPublisher_EmptyDay(t *testing.T) {
	dir := t.TempDir()
	p, err := NewHTMLPublisher(dir)
	require.NoError(t, err)

	doc := testDocument()
	doc.Articles = nil
	doc.TotalArticles = 0
	doc.Sources = nil
	require.NoError(t, p.Publish(context.Background(), doc))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Nuk ka lajme për këtë datë")
}

func TestRSSPublisher(t *testing.T) {
	dir := t.TempDir()
	cfg := config.RSSConfig{
		FeedTitle:        "Bleta - Albanian News Archive",
		FeedDescription:  "AI-summarized Albanian news from multiple sources",
		FeedLanguage:     "sq",
		FeedLink:         "https://eltonkola.github.io/bleta/",
		FeedAuthor:       "Bleta News Aggregator",
		MaxTotalArticles: 50,
	}

	p := NewRSSPublisher(dir, cfg)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Publish(context.Background(), testDocument()))

	data, err := os.ReadFile(filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	feed := string(data)

	require.Contains(t, feed, "<rss")
	require.Contains(t, feed, "Bleta - Albanian News Archive")
	require.Contains(t, feed, "Lajmi kryesor i ditës")
	// The summary is preferred over the raw description.
	require.Contains(t, feed, "Përmbledhja nga AI")
	require.Contains(t, feed, "https://telegrafi.com/lajmi-kryesor")
}

func TestRSSPublisher_CapsItems(t *testing.T) {
	dir := t.TempDir()
	p := NewRSSPublisher(dir, config.RSSConfig{
		FeedTitle:        "Bleta",
		FeedDescription:  "test",
		FeedLink:         "https://example.com/",
		MaxTotalArticles: 1,
	})

	require.NoError(t, p.Publish(context.Background(), testDocument()))

	data, err := os.ReadFile(filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	feed := string(data)
	require.Contains(t, feed, "Lajmi kryesor i ditës")
	require.NotContains(t, feed, "Lajmi i dytë")
}

func TestWebPublisher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>bleta</html>"), 0o644))

	wp := NewWebPublisher(":0", dir, nil)
	server := httptest.NewServer(wp.server.Handler)
	defer server.Close()

	// No archive published yet and no store to fall back on.
	resp, err := http.Get(server.URL + "/api/latest")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, wp.Publish(context.Background(), testDocument()))

	resp, err = http.Get(server.URL + "/api/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "2024-03-01", body.Date)

	// Static files from the output dir are served as-is.
	resp, err = http.Get(server.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebPublisherLatestFromDisk(t *testing.T) {
	dir := t.TempDir()
	store := archive.NewStore(filepath.Join(dir, "archive"), "", config.ProjectConfig{Name: "Bleta"})
	_, err := store.Write(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), testDocument().Articles[:1])
	require.NoError(t, err)
	_, err = store.Write(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), testDocument().Articles[1:])
	require.NoError(t, err)

	// A fresh publisher that has never seen a Publish call, as after a
	// restart or a run with no new articles.
	wp := NewWebPublisher(":0", dir, store)
	server := httptest.NewServer(wp.server.Handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "2024-03-01", body.Date)
}
