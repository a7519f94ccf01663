package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopkeeper/internal/client/api"
	"github.com/iudanet/shopkeeper/internal/client/auth"
	"github.com/iudanet/shopkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/shopkeeper/internal/client/storage/jsonfile"
	"github.com/iudanet/shopkeeper/internal/client/storage/sqlite"
	"github.com/iudanet/shopkeeper/internal/client/store"
	"github.com/iudanet/shopkeeper/internal/marketfake"
	"github.com/iudanet/shopkeeper/internal/models"
	pkgapi "github.com/iudanet/shopkeeper/pkg/api"
)

type harness struct {
	fake     *marketfake.Server
	store    *store.Manager
	sync     *Coordinator
	activity *sqlite.Storage
	meta     *boltdb.Storage
	agentID  string
}

// newHarness поднимает fake marketplace и собирает клиентский стек
// поверх настоящих хранилищ во временной директории
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	fake := marketfake.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	meta, err := boltdb.New(ctx, filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = meta.Close() })

	activity, err := sqlite.New(ctx, filepath.Join(dir, "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = activity.Close() })

	client := api.NewClient(srv.URL)
	authService := auth.NewService(client, meta, srv.URL, discardLogger())
	session, err := authService.Login(ctx, "npub-seller", auth.SignerFunc(func(ctx context.Context, challenge string) (string, error) {
		return marketfake.Sign("npub-seller", challenge), nil
	}))
	require.NoError(t, err)

	m := store.New(jsonfile.New(filepath.Join(dir, jsonfile.DefaultFileName), discardLogger()), discardLogger())
	m.Load(ctx)
	coordinator := NewCoordinator(m, client, authService, discardLogger(),
		WithMetadata(meta),
		WithActivity(activity),
	)

	return &harness{
		fake:     fake,
		store:    m,
		sync:     coordinator,
		activity: activity,
		meta:     meta,
		agentID:  session.AgentID,
	}
}

func TestIntegration_ProductLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.store.CreateProduct(newFields("course", 2500))
	draft := h.store.CreateProduct(newFields("notes", 100))
	_, err := h.store.MarkReady(p.LocalID)
	require.NoError(t, err)

	// create
	report, err := h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Created)
	assert.Equal(t, 1, report.Actionable)
	require.NotNil(t, report.Billing)
	assert.Equal(t, int64(1), report.Billing.CreditsCharged)

	synced, err := h.store.GetProduct(p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, synced.Status)
	require.NotEmpty(t, synced.RemoteID)
	remote, ok := h.fake.Product(synced.RemoteID)
	require.True(t, ok)
	assert.Equal(t, "course", remote.Name)

	// черновик на сервер не уходит
	notSent, err := h.store.GetProduct(draft.LocalID)
	require.NoError(t, err)
	assert.Empty(t, notSent.RemoteID)
	assert.Len(t, h.fake.Products(), 1)

	// update
	price := int64(3000)
	_, err = h.store.UpdateProduct(p.LocalID, models.ProductFields{Price: &price})
	require.NoError(t, err)
	report, err = h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Updated)
	remote, _ = h.fake.Product(synced.RemoteID)
	assert.Equal(t, int64(3000), remote.Price)

	updated, err := h.store.GetProduct(p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, synced.RemoteID, updated.RemoteID)
	assert.Equal(t, models.StatusSynced, updated.Status)

	// delete через tombstone
	require.NoError(t, h.store.DeleteProduct(p.LocalID))
	assert.Equal(t, 1, h.sync.PendingCount())
	report, err = h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Deleted)
	assert.Empty(t, h.store.PendingDeletes())
	_, ok = h.fake.Product(synced.RemoteID)
	assert.False(t, ok)

	pushes := h.fake.Pushes()
	require.Len(t, pushes, 3)
	assert.Equal(t, pkgapi.ActionDelete, pushes[2].Products[0].Action)

	history := h.store.History()
	require.Len(t, history, 3)
	for _, entry := range history {
		assert.Equal(t, models.DirectionPush, entry.Direction)
		assert.Equal(t, 1, entry.ProductsSynced)
	}
}

func TestIntegration_RetryAfterOutage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.store.CreateProduct(newFields("course", 2500))
	_, err := h.store.MarkReady(p.LocalID)
	require.NoError(t, err)

	h.fake.FailNext(1, http.StatusServiceUnavailable, "maintenance")
	_, err = h.sync.Push(ctx, h.agentID)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	unchanged, err := h.store.GetProduct(p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, unchanged.Status)
	assert.Empty(t, h.store.History())

	report, err := h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Created)
	assert.Len(t, h.fake.Products(), 1)
}

func TestIntegration_RejectedRecordStaysPending(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	good := h.store.CreateProduct(newFields("course", 2500))
	bad := h.store.CreateProduct(newFields("spam", 1))
	for _, id := range []string{good.LocalID, bad.LocalID} {
		_, err := h.store.MarkReady(id)
		require.NoError(t, err)
	}
	h.fake.Reject(bad.LocalID, "category not allowed")

	report, err := h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Created)
	require.Len(t, report.Result.Errors, 1)
	assert.Equal(t, bad.LocalID, report.Result.Errors[0].LocalID)

	pending, err := h.store.GetProduct(bad.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, pending.Status)
	assert.Equal(t, 1, h.sync.PendingCount())

	// Повтор, где сервер снова отклоняет единственную оставшуюся запись
	report, err = h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Applied())
	history := h.store.History()
	require.Len(t, history, 2)
	assert.Equal(t, 0, history[1].ProductsSynced)
}

func TestIntegration_Pull(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.store.CreateProduct(newFields("course", 2500))
	_, err := h.store.MarkReady(p.LocalID)
	require.NoError(t, err)
	_, err = h.sync.Push(ctx, h.agentID)
	require.NoError(t, err)
	synced, err := h.store.GetProduct(p.LocalID)
	require.NoError(t, err)

	h.fake.AddPurchase(pkgapi.Purchase{ID: "pu1", ProductID: synced.RemoteID, Amount: 2500})
	h.fake.AddReview(pkgapi.Review{ID: "rv1", ProductID: synced.RemoteID, Rating: 5})

	before := h.store.Snapshot().Products

	resp, err := h.sync.Pull(ctx, "")
	require.NoError(t, err)
	assert.Len(t, resp.Purchases, 1)
	assert.Len(t, resp.Reviews, 1)
	assert.Equal(t, before, h.store.Snapshot().Products)

	cursor, err := h.meta.GetPullCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.Cursor, cursor)

	purchases, err := h.activity.ListPurchases(ctx, synced.RemoteID, 0)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "pu1", purchases[0].ID)

	// второй pull продолжает с сохранённого курсора
	resp, err = h.sync.Pull(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Purchases)
	assert.Empty(t, resp.Reviews)

	history := h.store.History()
	require.Len(t, history, 3)
	assert.Equal(t, models.DirectionPull, history[1].Direction)
	assert.Equal(t, 2, history[1].ProductsSynced)
	assert.Equal(t, 0, history[2].ProductsSynced)
}
