// Package sync orchestrates single-shot push and pull exchanges between the
// local store and the remote marketplace.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/shopkeeper/internal/client/api"
	"github.com/iudanet/shopkeeper/internal/client/storage"
	"github.com/iudanet/shopkeeper/internal/client/store"
	pkgapi "github.com/iudanet/shopkeeper/pkg/api"
)

// TokenSource возвращает bearer токен текущей сессии
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Coordinator выполняет push и pull. Хранилище он только читает и меняет
// через ApplySyncResults/RecordPull менеджера.
type Coordinator struct {
	store    *store.Manager
	client   api.ClientAPI
	tokens   TokenSource
	metadata storage.MetadataStorage
	activity storage.ActivityStorage
	logger   *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMetadata stores the pull cursor between runs.
func WithMetadata(metadata storage.MetadataStorage) Option {
	return func(c *Coordinator) {
		c.metadata = metadata
	}
}

// WithActivity records pulled purchases and reviews in a local ledger.
func WithActivity(activity storage.ActivityStorage) Option {
	return func(c *Coordinator) {
		c.activity = activity
	}
}

// NewCoordinator creates a new sync coordinator. st must be loaded by the
// caller: Push and Pull save it and fail with KindStorage otherwise.
func NewCoordinator(st *store.Manager, client api.ClientAPI, tokens TokenSource, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:  st,
		client: client,
		tokens: tokens,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PushReport результат успешного push
type PushReport struct {
	Result       pkgapi.SyncResult
	Billing      *pkgapi.BillingInfo // nil, если сервер не сообщил о списании
	Summary      store.ApplySummary
	Checksum     string
	ManifestSize int // записей в манифесте, включая unchanged
	Actionable   int
}

// Push отправляет манифест локальных изменений и применяет ответ.
// При любой ошибке до получения SyncResult локальное хранилище не меняется.
func (c *Coordinator) Push(ctx context.Context, agentID string) (*PushReport, error) {
	if agentID == "" {
		return nil, &SyncError{Op: OpPush, Kind: KindAuth, Err: ErrNoAgent}
	}
	if !c.store.Loaded() {
		return nil, &SyncError{Op: OpPush, Kind: KindStorage, Err: storage.ErrStoreNotLoaded}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &SyncError{Op: OpPush, Kind: KindAuth, Err: err}
	}

	manifest, err := c.store.GenerateSyncManifest(agentID)
	if err != nil {
		return nil, &SyncError{Op: OpPush, Kind: KindStorage, Err: err}
	}

	c.logger.Info("Pushing manifest",
		"agent_id", agentID,
		"products", len(manifest.Products),
		"actionable", manifest.Actionable(),
		"checksum", manifest.Checksum)

	start := time.Now()
	resp, err := c.client.Push(ctx, token, manifest)
	if err != nil {
		syncErr := classify(OpPush, err)
		c.logger.Warn("Push failed", "kind", syncErr.Kind, "retryable", syncErr.Retryable, "error", err)
		return nil, syncErr
	}

	summary := c.store.ApplySyncResults(&resp.SyncResult)
	if err := c.store.Save(ctx); err != nil {
		return nil, &SyncError{Op: OpPush, Kind: KindStorage, Err: err, Retryable: true}
	}

	report := &PushReport{
		Result:       resp.SyncResult,
		Billing:      resp.Billing,
		Summary:      summary,
		Checksum:     manifest.Checksum,
		ManifestSize: len(manifest.Products),
		Actionable:   manifest.Actionable(),
	}

	logArgs := []any{
		"created", summary.Created,
		"updated", summary.Updated,
		"deleted", summary.Deleted,
		"failed", summary.Failed,
		"duration", time.Since(start),
	}
	if resp.Billing != nil {
		logArgs = append(logArgs,
			"credits_charged", resp.Billing.CreditsCharged,
			"credits_remaining", resp.Billing.CreditsRemaining)
	}
	c.logger.Info("Push completed", logArgs...)

	return report, nil
}

// Pull получает покупки, отзывы и статистику с момента since. Продукты не
// меняются: в хранилище добавляется только запись истории.
// Пустой since означает курсор, сохранённый прошлым pull.
func (c *Coordinator) Pull(ctx context.Context, since string) (*pkgapi.PullResponse, error) {
	if !c.store.Loaded() {
		return nil, &SyncError{Op: OpPull, Kind: KindStorage, Err: storage.ErrStoreNotLoaded}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &SyncError{Op: OpPull, Kind: KindAuth, Err: err}
	}

	if since == "" && c.metadata != nil {
		cursor, err := c.metadata.GetPullCursor(ctx)
		if err != nil {
			c.logger.Warn("Failed to get pull cursor, pulling everything", "error", err)
		}
		since = cursor
	}

	resp, err := c.client.Pull(ctx, token, since)
	if err != nil {
		syncErr := classify(OpPull, err)
		c.logger.Warn("Pull failed", "kind", syncErr.Kind, "retryable", syncErr.Retryable, "error", err)
		return nil, syncErr
	}

	c.logger.Info("Pull received",
		"since", since,
		"purchases", len(resp.Purchases),
		"reviews", len(resp.Reviews),
		"cursor", resp.Cursor)

	if c.activity != nil && resp.Items() > 0 {
		added, err := c.activity.RecordActivity(ctx, resp.Purchases, resp.Reviews)
		if err != nil {
			return nil, &SyncError{Op: OpPull, Kind: KindStorage, Err: fmt.Errorf("failed to record activity: %w", err), Retryable: true}
		}
		c.logger.Debug("Activity recorded", "new", added)
	}

	c.store.RecordPull(resp.Items())
	if err := c.store.Save(ctx); err != nil {
		return nil, &SyncError{Op: OpPull, Kind: KindStorage, Err: err, Retryable: true}
	}

	// Курсор сохраняется последним: при сбое выше следующий pull повторит тот же интервал
	if c.metadata != nil && resp.Cursor != "" {
		if err := c.metadata.SavePullCursor(ctx, resp.Cursor); err != nil {
			c.logger.Warn("Failed to save pull cursor", "error", err)
		}
	}

	return resp, nil
}

// PendingCount возвращает количество записей, которые отправит следующий push
func (c *Coordinator) PendingCount() int {
	return c.store.PendingCount()
}
