// Package webapp holds the static archive browser and installs it into the
// published output directory.
package webapp

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed index.html app.js
var files embed.FS

//go:embed favicon.svg
var favicon []byte

// Install copies the webapp files into outputDir/webapp so the static site
// can serve the archive browser alongside the generated pages. The favicon
// goes to the output root where the newspaper page and the browser both
// reference it.
func Install(outputDir string) error {
	dir := filepath.Join(outputDir, "webapp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("webapp: failed to create %s: %w", dir, err)
	}

	faviconPath := filepath.Join(outputDir, "favicon.svg")
	if err := os.WriteFile(faviconPath, favicon, 0o644); err != nil {
		return fmt.Errorf("webapp: failed to write %s: %w", faviconPath, err)
	}

	return fs.WalkDir(files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := files.ReadFile(path)
		if err != nil {
			return fmt.Errorf("webapp: failed to read embedded %s: %w", path, err)
		}
		dst := filepath.Join(dir, path)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("webapp: failed to write %s: %w", dst, err)
		}
		return nil
	})
}
