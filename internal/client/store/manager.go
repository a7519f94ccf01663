// Package store implements the local store manager: the only owner of the
// in-memory LocalStore and of its backing document.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/shopkeeper/internal/client/storage"
	"github.com/iudanet/shopkeeper/internal/models"
)

// Manager owns the local store. It is not safe for concurrent use: one
// logical caller per process acts on the store at a time.
type Manager struct {
	backend storage.DocumentStorage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
	state   *models.LocalStore
	loaded  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides local_id and history id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// New creates a manager over backend. Until Load is called the manager holds
// the empty default store and Save refuses to overwrite the backing document.
func New(backend storage.DocumentStorage, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		state:   models.NewLocalStore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the in-memory state with the persisted document. It never
// fails: a missing or corrupt document gives the empty default store.
func (m *Manager) Load(ctx context.Context) {
	m.state = m.backend.Load(ctx)
	m.loaded = true
	m.logger.Debug("Local store loaded", "products", len(m.state.Products), "pending_deletes", len(m.state.PendingDeletes))
}

// Loaded reports whether Load has been called.
func (m *Manager) Loaded() bool {
	return m.loaded
}

// Save persists the full document. It fails with ErrStoreNotLoaded if Load
// was never called.
func (m *Manager) Save(ctx context.Context) error {
	if !m.loaded {
		return storage.ErrStoreNotLoaded
	}
	if err := m.backend.Save(ctx, m.state); err != nil {
		return fmt.Errorf("failed to save local store: %w", err)
	}
	return nil
}

// Mutate loads the document, runs fn and saves the result if fn succeeds.
func (m *Manager) Mutate(ctx context.Context, fn func(m *Manager) error) error {
	m.Load(ctx)
	if err := fn(m); err != nil {
		return err
	}
	return m.Save(ctx)
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() *models.LocalStore {
	return m.state.Clone()
}

// CreateProduct adds a new draft product with a fresh local_id. Business rules
// (name length, price bounds) are checked by the caller, not here.
func (m *Manager) CreateProduct(fields models.ProductFields) *models.LocalProduct {
	now := m.now()
	p := &models.LocalProduct{
		LocalID:   m.newID(),
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.ApplyTo(p)
	m.state.Products = append(m.state.Products, p)

	m.logger.Debug("Product created", "local_id", p.LocalID, "name", p.Name)
	return p.Clone()
}

// GetProduct returns a copy of the product or ErrProductNotFound.
func (m *Manager) GetProduct(localID string) (*models.LocalProduct, error) {
	_, p := m.find(localID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrProductNotFound, localID)
	}
	return p.Clone(), nil
}

// ListProducts returns copies of all products in store order, optionally
// limited to the given statuses.
func (m *Manager) ListProducts(statuses ...models.Status) []*models.LocalProduct {
	result := make([]*models.LocalProduct, 0, len(m.state.Products))
	for _, p := range m.state.Products {
		if len(statuses) > 0 && !hasStatus(statuses, p.Status) {
			continue
		}
		result = append(result, p.Clone())
	}
	return result
}

// UpdateProduct merges fields into the product. A product that already exists
// remotely becomes modified; drafts and ready products keep their status.
func (m *Manager) UpdateProduct(localID string, fields models.ProductFields) (*models.LocalProduct, error) {
	_, p := m.find(localID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrProductNotFound, localID)
	}

	fields.ApplyTo(p)
	p.UpdatedAt = m.now()
	if p.HasRemote() {
		p.Status = models.StatusModified
	}

	m.logger.Debug("Product updated", "local_id", p.LocalID, "status", p.Status)
	return p.Clone(), nil
}

// DeleteProduct removes the product. If it already exists remotely a
// tombstone is kept until the remote side confirms the delete.
func (m *Manager) DeleteProduct(localID string) error {
	idx, p := m.find(localID)
	if p == nil {
		return fmt.Errorf("%w: %s", storage.ErrProductNotFound, localID)
	}

	m.state.Products = append(m.state.Products[:idx], m.state.Products[idx+1:]...)

	if p.HasRemote() && m.tombstoneIndex(localID) < 0 {
		m.state.PendingDeletes = append(m.state.PendingDeletes, models.Tombstone{
			LocalID:   p.LocalID,
			RemoteID:  p.RemoteID,
			DeletedAt: m.now(),
		})
	}

	m.logger.Debug("Product deleted", "local_id", localID, "remote_id", p.RemoteID)
	return nil
}

// MarkReady moves a draft to ready. Products that already exist remotely
// never go back to ready, for them the call is a no-op.
func (m *Manager) MarkReady(localID string) (*models.LocalProduct, error) {
	_, p := m.find(localID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrProductNotFound, localID)
	}

	if p.Status == models.StatusDraft && !p.HasRemote() {
		p.Status = models.StatusReady
		p.UpdatedAt = m.now()
		m.logger.Debug("Product marked ready", "local_id", p.LocalID)
	}

	return p.Clone(), nil
}

// GetUnsyncedProducts returns the products a push has to act on.
func (m *Manager) GetUnsyncedProducts() []*models.LocalProduct {
	return m.ListProducts(models.StatusReady, models.StatusModified)
}

// PendingDeletes returns the tombstones waiting for remote confirmation.
func (m *Manager) PendingDeletes() []models.Tombstone {
	result := make([]models.Tombstone, len(m.state.PendingDeletes))
	copy(result, m.state.PendingDeletes)
	return result
}

// PendingCount is the number of records the next push will act on.
func (m *Manager) PendingCount() int {
	return len(m.GetUnsyncedProducts()) + len(m.state.PendingDeletes)
}

// Profile returns a copy of the store profile.
func (m *Manager) Profile() models.StoreProfile {
	return m.state.Clone().Profile
}

// UpdateProfile merges fields into the store profile.
func (m *Manager) UpdateProfile(fields models.ProfileFields) models.StoreProfile {
	fields.ApplyTo(&m.state.Profile)
	return m.Profile()
}

// History returns the sync history, oldest first.
func (m *Manager) History() []models.SyncHistoryEntry {
	result := make([]models.SyncHistoryEntry, len(m.state.SyncHistory))
	copy(result, m.state.SyncHistory)
	return result
}

// LastSync returns the time of the last recorded push or pull.
func (m *Manager) LastSync() *time.Time {
	if m.state.LastSync == nil {
		return nil
	}
	t := *m.state.LastSync
	return &t
}

// RecordPull appends a pull event to the history. Products are not touched.
func (m *Manager) RecordPull(items int) {
	m.appendHistory(models.DirectionPull, items)
}

func (m *Manager) appendHistory(direction string, count int) {
	now := m.now()
	m.state.SyncHistory = append(m.state.SyncHistory, models.SyncHistoryEntry{
		ID:             m.newID(),
		Direction:      direction,
		Timestamp:      now,
		ProductsSynced: count,
	})
	m.state.LastSync = &now
}

func (m *Manager) find(localID string) (int, *models.LocalProduct) {
	for i, p := range m.state.Products {
		if p.LocalID == localID {
			return i, p
		}
	}
	return -1, nil
}

func (m *Manager) tombstoneIndex(localID string) int {
	for i, t := range m.state.PendingDeletes {
		if t.LocalID == localID {
			return i
		}
	}
	return -1
}

func hasStatus(statuses []models.Status, s models.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
