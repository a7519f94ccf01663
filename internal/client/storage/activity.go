package storage

import (
	"context"

	"github.com/iudanet/shopkeeper/pkg/api"
)

//go:generate moq -out activity_mock.go . ActivityStorage

// ActivityStorage локальный журнал покупок и отзывов, полученных через pull.
type ActivityStorage interface {
	// RecordActivity stores purchases and reviews; already known ids are ignored.
	// Returns the number of new rows.
	RecordActivity(ctx context.Context, purchases []api.Purchase, reviews []api.Review) (int, error)

	// ListPurchases returns purchases, newest first. Empty productID means all products.
	ListPurchases(ctx context.Context, productID string, limit int) ([]api.Purchase, error)

	// ListReviews returns reviews, newest first. Empty productID means all products.
	ListReviews(ctx context.Context, productID string, limit int) ([]api.Review, error)
}
