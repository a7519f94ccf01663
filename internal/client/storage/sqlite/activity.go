package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/shopkeeper/internal/client/storage"
	"github.com/iudanet/shopkeeper/pkg/api"
)

var _ storage.ActivityStorage = (*Storage)(nil)

// RecordActivity сохраняет покупки и отзывы в одной транзакции.
// Повторно полученные id игнорируются, поэтому повтор pull безопасен.
func (s *Storage) RecordActivity(ctx context.Context, purchases []api.Purchase, reviews []api.Review) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	recordedAt := s.now().Unix()
	added := 0

	for _, p := range purchases {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO purchases (id, product_id, buyer_id, amount, purchased_at, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, p.ProductID, p.BuyerID, p.Amount, p.PurchasedAt.Unix(), recordedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert purchase %s: %w", p.ID, err)
		}
		added += affected(res)
	}

	for _, r := range reviews {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO reviews (id, product_id, author_id, rating, comment, created_at, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.ProductID, r.AuthorID, r.Rating, r.Comment, r.CreatedAt.Unix(), recordedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to insert review %s: %w", r.ID, err)
		}
		added += affected(res)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// ListPurchases returns purchases, newest first
func (s *Storage) ListPurchases(ctx context.Context, productID string, limit int) ([]api.Purchase, error) {
	query := `
		SELECT id, product_id, buyer_id, amount, purchased_at
		FROM purchases
		WHERE (? = '' OR product_id = ?)
		ORDER BY purchased_at DESC, id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, productID, productID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]api.Purchase, 0)
	for rows.Next() {
		var (
			p           api.Purchase
			purchasedAt int64
		)
		if err := rows.Scan(&p.ID, &p.ProductID, &p.BuyerID, &p.Amount, &purchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.PurchasedAt = time.Unix(purchasedAt, 0).UTC()
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}

// ListReviews returns reviews, newest first
func (s *Storage) ListReviews(ctx context.Context, productID string, limit int) ([]api.Review, error) {
	query := `
		SELECT id, product_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE (? = '' OR product_id = ?)
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, productID, productID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]api.Review, 0)
	for rows.Next() {
		var (
			r         api.Review
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &r.AuthorID, &r.Rating, &r.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// normalizeLimit: 0 или отрицательный лимит означает "без ограничения"
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
