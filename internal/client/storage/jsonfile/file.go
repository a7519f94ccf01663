// Package jsonfile keeps the local store document in a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"

	"github.com/iudanet/shopkeeper/internal/client/storage"
	"github.com/iudanet/shopkeeper/internal/models"
)

// DefaultFileName is the document name used inside the data directory.
const DefaultFileName = "store.json"

// File stores the document at a fixed path.
type File struct {
	logger *slog.Logger
	path   string
}

var _ storage.DocumentStorage = (*File)(nil)

// New creates a File bound to path. The file is not touched until Load or Save.
func New(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the document. Missing, unreadable or corrupt files fall back to
// the empty default store.
func (f *File) Load(ctx context.Context) *models.LocalStore {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug("Store file not found, starting empty", "path", f.path)
		} else {
			f.logger.Warn("Failed to read store file, starting empty", "path", f.path, "error", err)
		}
		return models.NewLocalStore()
	}

	store := &models.LocalStore{}
	if err := json.Unmarshal(data, store); err != nil {
		f.logger.Warn("Store file is corrupt, starting empty", "path", f.path, "error", err)
		return models.NewLocalStore()
	}

	// null записи в массиве продуктов считаем повреждением отдельных элементов
	products := store.Products[:0]
	for _, p := range store.Products {
		if p != nil {
			products = append(products, p)
		}
	}
	store.Products = products
	store.Normalize()

	return store
}

// Save writes the whole document atomically: readers see either the old or
// the new file, never a partial write.
func (f *File) Save(ctx context.Context, store *models.LocalStore) error {
	if store == nil {
		return fmt.Errorf("store is nil")
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := atomicwriter.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
