package webapp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Install(dir))

	for _, name := range []string{"index.html", "app.js"} {
		_, err := os.Stat(filepath.Join(dir, "webapp", name))
		require.NoError(t, err, name)
	}

	// The favicon sits at the output root so both the newspaper page and
	// the archive browser can link it.
	data, err := os.ReadFile(filepath.Join(dir, "favicon.svg"))
	require.NoError(t, err)
	require.Contains(t, string(data), "<svg")
}

func TestInstallOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Install(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "webapp", "app.js"), []byte("stale"), 0o644))

	require.NoError(t, Install(dir))
	data, err := os.ReadFile(filepath.Join(dir, "webapp", "app.js"))
	require.NoError(t, err)
	require.NotEqual(t, "stale", string(data))
}
