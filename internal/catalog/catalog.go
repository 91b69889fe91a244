// Package catalog reads the product catalog produced by the spreadsheet import.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/alextreichler/storefront/internal/models"
)

// Loader reads catalog.json, re-parsing only when the file changes on disk.
type Loader struct {
	Path string

	mu      sync.Mutex
	modTime time.Time
	cached  *models.Catalog
}

func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load returns the current catalog. A missing file is an empty catalog.
func (l *Loader) Load() (*models.Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if l.cached == nil {
				slog.Warn("Catalog file not found, serving empty catalog", "path", l.Path)
			}
			l.cached = &models.Catalog{}
			l.modTime = time.Time{}
			return l.cached, nil
		}
		return nil, err
	}
	if l.cached != nil && info.ModTime().Equal(l.modTime) {
		return l.cached, nil
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, err
	}
	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", l.Path, err)
	}
	l.cached = &c
	l.modTime = info.ModTime()
	slog.Debug("Loaded catalog", "path", l.Path, "products", len(c.Products))
	return l.cached, nil
}
