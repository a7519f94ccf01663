package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SavePullCursor saves the cursor returned by the last successful pull
	SavePullCursor(ctx context.Context, cursor string) error

	// GetPullCursor retrieves the cursor of the last successful pull
	// Returns "" if no pull has been performed yet
	GetPullCursor(ctx context.Context) (string, error)
}
