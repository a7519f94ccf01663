package storage

import (
	"context"

	"github.com/iudanet/shopkeeper/internal/models"
)

//go:generate moq -out document_mock.go . DocumentStorage

// DocumentStorage persists the local store document as a single unit.
type DocumentStorage interface {
	// Load reads the whole document. A missing or corrupt document yields
	// the empty default store, never an error.
	Load(ctx context.Context) *models.LocalStore

	// Save writes the whole document. After a successful Save the backing
	// file is valid JSON.
	Save(ctx context.Context, store *models.LocalStore) error
}
