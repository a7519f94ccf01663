package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestSaveAndGetPullCursor(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально, если курсор не сохранён, ожидаем ""
	cursor, err := store.GetPullCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", cursor)

	require.NoError(t, store.SavePullCursor(ctx, "2026-10-01T00:00:00Z"))

	cursor, err = store.GetPullCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01T00:00:00Z", cursor)
}

func TestGetPullCursor_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetPullCursor(ctx)
	assert.ErrorContains(t, err, "metadata bucket not found")

	err = store.SavePullCursor(ctx, "c1")
	assert.ErrorContains(t, err, "metadata bucket not found")
}
