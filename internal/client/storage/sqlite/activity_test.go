package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopkeeper/pkg/api"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "nested", "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

var day = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func testPurchases() []api.Purchase {
	return []api.Purchase{
		{ID: "pu1", ProductID: "r1", BuyerID: "b1", Amount: 1500, PurchasedAt: day},
		{ID: "pu2", ProductID: "r2", BuyerID: "b2", Amount: 700, PurchasedAt: day.Add(time.Hour)},
		{ID: "pu3", ProductID: "r1", BuyerID: "b3", Amount: 1500, PurchasedAt: day.Add(2 * time.Hour)},
	}
}

func testReviews() []api.Review {
	return []api.Review{
		{ID: "rv1", ProductID: "r1", AuthorID: "b1", Rating: 5, Comment: "great", CreatedAt: day},
		{ID: "rv2", ProductID: "r1", AuthorID: "b3", Rating: 3, CreatedAt: day.Add(time.Hour)},
	}
}

func TestNew_InMemory(t *testing.T) {
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	purchases, err := s.ListPurchases(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

// Повторное открытие не ломается на уже применённых миграциях
func TestNew_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "activity.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	_, err = s.RecordActivity(ctx, testPurchases(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	purchases, err := s.ListPurchases(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, purchases, 3)
}

func TestRecordActivity(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	added, err := s.RecordActivity(ctx, testPurchases(), testReviews())
	require.NoError(t, err)
	assert.Equal(t, 5, added)

	// повтор того же pull ничего не добавляет
	added, err = s.RecordActivity(ctx, testPurchases(), testReviews())
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	extra := []api.Purchase{{ID: "pu4", ProductID: "r2", BuyerID: "b4", Amount: 700, PurchasedAt: day.Add(3 * time.Hour)}}
	added, err = s.RecordActivity(ctx, append(testPurchases(), extra...), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestRecordActivity_Empty(t *testing.T) {
	s := setupTestStorage(t)

	added, err := s.RecordActivity(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestListPurchases(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)
	_, err := s.RecordActivity(ctx, testPurchases(), nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		productID string
		wantIDs   []string
		limit     int
	}{
		{name: "all newest first", wantIDs: []string{"pu3", "pu2", "pu1"}},
		{name: "by product", productID: "r1", wantIDs: []string{"pu3", "pu1"}},
		{name: "with limit", limit: 2, wantIDs: []string{"pu3", "pu2"}},
		{name: "unknown product", productID: "nope", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchases, err := s.ListPurchases(ctx, tt.productID, tt.limit)
			require.NoError(t, err)

			ids := make([]string, 0, len(purchases))
			for _, p := range purchases {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	purchases, err := s.ListPurchases(ctx, "r2", 0)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, testPurchases()[1], purchases[0])
}

func TestListReviews(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)
	_, err := s.RecordActivity(ctx, nil, testReviews())
	require.NoError(t, err)

	reviews, err := s.ListReviews(ctx, "r1", 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, testReviews()[1], reviews[0])
	assert.Equal(t, testReviews()[0], reviews[1])

	reviews, err = s.ListReviews(ctx, "r9", 10)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestStorage_Closed(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.RecordActivity(context.Background(), testPurchases(), nil)
	assert.Error(t, err)
}
