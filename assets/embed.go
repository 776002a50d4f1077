// assets/embed.go
//
// Embedded game data and image preloading.
//   - catalog.json: default word catalog (categories → questions).
//   - DirPreloader: checks that question images exist under a directory.

package assets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed catalog.json
var FS embed.FS

// CatalogJSON returns the embedded default catalog.
func CatalogJSON() ([]byte, error) {
	return FS.ReadFile("catalog.json")
}

// DirPreloader resolves image references relative to Root.
type DirPreloader struct {
	Root string
}

// Preload stats every image and reports the missing ones as a joined error.
// An empty Root disables the check.
func (p DirPreloader) Preload(ctx context.Context, images []string) error {
	if p.Root == "" {
		return nil
	}
	var errs []error
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		if img == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(p.Root, filepath.FromSlash(img))); err != nil {
			errs = append(errs, fmt.Errorf("image %s: %w", img, err))
		}
	}
	return errors.Join(errs...)
}
