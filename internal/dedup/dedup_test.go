package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eltonkola/bleta/internal/fetcher"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "processed.json"), 0)
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), 0o644))

	s, err := Load(path, 0)
	require.Error(t, err)
	// A broken state file still yields a usable empty set.
	require.NotNil(t, s)
	require.Equal(t, 0, s.Len())
}

func TestAddContains(t *testing.T) {
	s := NewSet(0)
	require.False(t, s.Contains("https://x/a1"))

	s.Add("https://x/a1")
	require.True(t, s.Contains("https://x/a1"))
	require.Equal(t, 1, s.Len())

	// Adding twice does not grow the set.
	s.Add("https://x/a1")
	require.Equal(t, 1, s.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "processed.json")

	s := NewSet(0)
	s.Add("https://x/a1")
	s.Add("https://x/a2")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path, 0)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.True(t, loaded.Contains("https://x/a1"))
	require.True(t, loaded.Contains("https://x/a2"))

	// The persisted shape matches the documented format.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var f struct {
		ProcessedIDs []string `json:"processed_ids"`
		LastUpdated  string   `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(data, &f))
	require.Equal(t, []string{"https://x/a1", "https://x/a2"}, f.ProcessedIDs)
	require.NotEmpty(t, f.LastUpdated)
}

func TestSave_TrimsOldest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")

	s := NewSet(2)
	s.Add("old")
	s.Add("mid")
	s.Add("new")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path, 2)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.False(t, loaded.Contains("old"))
	require.True(t, loaded.Contains("mid"))
	require.True(t, loaded.Contains("new"))
}

func TestArticleID(t *testing.T) {
	withLink := fetcher.Article{Title: "Lajmi", Link: "https://x/a1", Published: "2024-03-01T10:00:00Z"}
	require.Equal(t, "https://x/a1", ArticleID(withLink))

	noLink := fetcher.Article{Title: "Lajmi", Published: "2024-03-01T10:00:00Z"}
	require.Equal(t, "Lajmi_2024-03-01T10:00:00Z", ArticleID(noLink))

	bare := fetcher.Article{Title: "Lajmi"}
	id := ArticleID(bare)
	require.Contains(t, id, "Lajmi_")
	require.NotEqual(t, "Lajmi_", id)
}
