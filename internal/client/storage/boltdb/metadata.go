package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shopkeeper/internal/client/storage"
)

const (
	keyPullCursor = "pull_cursor"
)

var _ storage.MetadataStorage = (*Storage)(nil)

// SavePullCursor saves the cursor returned by the last successful pull
func (s *Storage) SavePullCursor(ctx context.Context, cursor string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(keyPullCursor), []byte(cursor)); err != nil {
			return fmt.Errorf("failed to save pull cursor: %w", err)
		}

		return nil
	})
}

// GetPullCursor retrieves the cursor of the last successful pull
// Returns "" if no pull has been performed yet
func (s *Storage) GetPullCursor(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var cursor string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Если курсор не найден, возвращаем "" (первый pull)
		if v := bucket.Get([]byte(keyPullCursor)); v != nil {
			cursor = string(v)
		}
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get pull cursor: %w", err)
	}

	return cursor, nil
}
