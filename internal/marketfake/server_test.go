package marketfake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopkeeper/internal/client/api"
	"github.com/iudanet/shopkeeper/internal/client/store"
	pkgapi "github.com/iudanet/shopkeeper/pkg/api"
)

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...Option) (*Server, *api.Client) {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	fake := New(opts...)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, api.NewClient(srv.URL)
}

func login(t *testing.T, client *api.Client, pubkey string) *pkgapi.VerifyResponse {
	t.Helper()
	ctx := context.Background()
	ch, err := client.RequestChallenge(ctx, pkgapi.ChallengeRequest{PublicKey: pubkey})
	require.NoError(t, err)

	resp, err := client.Verify(ctx, pkgapi.VerifyRequest{
		PublicKey: pubkey,
		Challenge: ch.Challenge,
		Signature: Sign(pubkey, ch.Challenge),
	})
	require.NoError(t, err)
	return resp
}

func manifestFor(t *testing.T, agentID string, products ...pkgapi.ManifestProduct) *pkgapi.SyncManifest {
	t.Helper()
	if products == nil {
		products = []pkgapi.ManifestProduct{}
	}
	checksum, err := store.ManifestChecksum(products)
	require.NoError(t, err)
	return &pkgapi.SyncManifest{AgentID: agentID, Checksum: checksum, Products: products, Timestamp: testNow}
}

func createEntry(localID, name string) pkgapi.ManifestProduct {
	return pkgapi.ManifestProduct{
		LocalID:         localID,
		Action:          pkgapi.ActionCreate,
		ProductSnapshot: &pkgapi.ProductSnapshot{Name: name, Price: 100, DeliveryType: "manual"},
	}
}

func remoteStatus(t *testing.T, err error) int {
	t.Helper()
	var remoteErr *pkgapi.RemoteError
	require.True(t, errors.As(err, &remoteErr), "expected RemoteError, got %v", err)
	return remoteErr.StatusCode
}

func TestLogin(t *testing.T) {
	fake, client := setup(t)
	fake.RegisterAgent(pkgapi.Agent{
		ID:        "agent-1",
		Name:      "Bob",
		PublicKey: "npub1",
		Extra:     map[string]json.RawMessage{"level": json.RawMessage(`7`)},
	})

	resp := login(t, client, "npub1")
	assert.Equal(t, "agent-1", resp.Agent.ID)
	assert.Equal(t, "Bob", resp.Agent.Name)
	assert.NotEmpty(t, resp.Token)
	assert.JSONEq(t, "7", string(resp.Agent.Extra["level"]))
}

func TestLogin_Rejected(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	ch, err := client.RequestChallenge(ctx, pkgapi.ChallengeRequest{PublicKey: "npub1"})
	require.NoError(t, err)

	_, err = client.Verify(ctx, pkgapi.VerifyRequest{PublicKey: "npub1", Challenge: ch.Challenge, Signature: "forged"})
	assert.Equal(t, http.StatusUnauthorized, remoteStatus(t, err))

	// challenge одноразовый
	_, err = client.Verify(ctx, pkgapi.VerifyRequest{
		PublicKey: "npub1",
		Challenge: ch.Challenge,
		Signature: Sign("npub1", ch.Challenge),
	})
	assert.Equal(t, http.StatusUnauthorized, remoteStatus(t, err))
}

func TestPush_RequiresToken(t *testing.T) {
	_, client := setup(t)

	_, err := client.Push(context.Background(), "", manifestFor(t, "agent-1"))
	assert.Equal(t, http.StatusUnauthorized, remoteStatus(t, err))

	_, err = client.Push(context.Background(), "garbage", manifestFor(t, "agent-1"))
	assert.Equal(t, http.StatusUnauthorized, remoteStatus(t, err))
}

func TestPush_ExpiredToken(t *testing.T) {
	fake, client := setup(t, WithTokenTTL(-time.Minute))
	token, err := fake.IssueToken("agent-1")
	require.NoError(t, err)

	_, err = client.Push(context.Background(), token, manifestFor(t, "agent-1"))
	assert.Equal(t, http.StatusUnauthorized, remoteStatus(t, err))
}

func TestPush_Lifecycle(t *testing.T) {
	fake, client := setup(t, WithCredits(10))
	ctx := context.Background()
	token, err := fake.IssueToken("agent-1")
	require.NoError(t, err)

	// create
	resp, err := client.Push(ctx, token, manifestFor(t, "agent-1", createEntry("l1", "Guide")))
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	remoteID := resp.Created[0].RemoteID
	assert.Equal(t, "prod-1", remoteID)
	require.NotNil(t, resp.Billing)
	assert.Equal(t, int64(1), resp.Billing.CreditsCharged)
	assert.Equal(t, int64(9), resp.Billing.CreditsRemaining)

	// повторный create возвращает тот же remote_id
	resp, err = client.Push(ctx, token, manifestFor(t, "agent-1", createEntry("l1", "Guide")))
	require.NoError(t, err)
	assert.Equal(t, remoteID, resp.Created[0].RemoteID)
	assert.Len(t, fake.Products(), 1)

	// update
	update := pkgapi.ManifestProduct{
		LocalID:         "l1",
		RemoteID:        remoteID,
		Action:          pkgapi.ActionUpdate,
		ProductSnapshot: &pkgapi.ProductSnapshot{Name: "Guide v2", Price: 999, DeliveryType: "manual"},
	}
	resp, err = client.Push(ctx, token, manifestFor(t, "agent-1", update))
	require.NoError(t, err)
	require.Len(t, resp.Updated, 1)
	p, ok := fake.Product(remoteID)
	require.True(t, ok)
	assert.Equal(t, int64(999), p.Price)

	// unchanged ничего не стоит
	unchanged := pkgapi.ManifestProduct{LocalID: "l1", RemoteID: remoteID, Action: pkgapi.ActionUnchanged}
	resp, err = client.Push(ctx, token, manifestFor(t, "agent-1", unchanged))
	require.NoError(t, err)
	assert.Empty(t, resp.Created)
	assert.Empty(t, resp.Updated)
	assert.Equal(t, int64(0), resp.Billing.CreditsCharged)

	// delete идемпотентен
	del := pkgapi.ManifestProduct{LocalID: "l1", RemoteID: remoteID, Action: pkgapi.ActionDelete}
	for i := 0; i < 2; i++ {
		resp, err = client.Push(ctx, token, manifestFor(t, "agent-1", del))
		require.NoError(t, err)
		assert.Equal(t, []string{"l1"}, resp.Deleted)
	}
	_, ok = fake.Product(remoteID)
	assert.False(t, ok)
	assert.Len(t, fake.Pushes(), 6)
	assert.Equal(t, int64(7), fake.Credits())
}

func TestPush_Errors(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	token, err := fake.IssueToken("agent-1")
	require.NoError(t, err)

	t.Run("checksum mismatch", func(t *testing.T) {
		m := manifestFor(t, "agent-1", createEntry("l1", "Guide"))
		m.Checksum = "deadbeef"
		_, err := client.Push(ctx, token, m)
		assert.Equal(t, http.StatusBadRequest, remoteStatus(t, err))
		assert.Contains(t, err.Error(), "checksum mismatch")
	})

	t.Run("foreign agent", func(t *testing.T) {
		_, err := client.Push(ctx, token, manifestFor(t, "agent-2"))
		assert.Equal(t, http.StatusForbidden, remoteStatus(t, err))
	})

	t.Run("rejected record", func(t *testing.T) {
		fake.Reject("bad", "category not found")
		resp, err := client.Push(ctx, token, manifestFor(t, "agent-1", createEntry("good", "Fine"), createEntry("bad", "Nope")))
		require.NoError(t, err)
		require.Len(t, resp.Created, 1)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "bad", resp.Errors[0].LocalID)
		assert.Equal(t, "category not found", resp.Errors[0].Error)
	})

	t.Run("update of unknown product", func(t *testing.T) {
		update := pkgapi.ManifestProduct{
			LocalID:         "l9",
			RemoteID:        "prod-404",
			Action:          pkgapi.ActionUpdate,
			ProductSnapshot: &pkgapi.ProductSnapshot{Name: "Ghost"},
		}
		resp, err := client.Push(ctx, token, manifestFor(t, "agent-1", update))
		require.NoError(t, err)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "unknown remote_id", resp.Errors[0].Error)
	})

	t.Run("scheduled failure", func(t *testing.T) {
		fake.FailNext(1, http.StatusServiceUnavailable, "maintenance")
		_, err := client.Push(ctx, token, manifestFor(t, "agent-1"))
		assert.Equal(t, http.StatusServiceUnavailable, remoteStatus(t, err))

		_, err = client.Push(ctx, token, manifestFor(t, "agent-1"))
		assert.NoError(t, err)
	})
}

func TestPull(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	token, err := fake.IssueToken("agent-1")
	require.NoError(t, err)

	resp, err := client.Push(ctx, token, manifestFor(t, "agent-1", createEntry("l1", "Guide")))
	require.NoError(t, err)
	remoteID := resp.Created[0].RemoteID

	fake.AddPurchase(pkgapi.Purchase{ID: "pu1", ProductID: remoteID, BuyerID: "b1", Amount: 100})
	fake.AddPurchase(pkgapi.Purchase{ID: "pu-other", ProductID: "someone-else", Amount: 5})
	fake.AddReview(pkgapi.Review{ID: "rv1", ProductID: remoteID, Rating: 4})

	pulled, err := client.Pull(ctx, token, "")
	require.NoError(t, err)
	require.Len(t, pulled.Purchases, 1)
	assert.Equal(t, "pu1", pulled.Purchases[0].ID)
	assert.True(t, testNow.Equal(pulled.Purchases[0].PurchasedAt))
	require.Len(t, pulled.Reviews, 1)
	require.NotNil(t, pulled.Stats)
	assert.Equal(t, int64(1), pulled.Stats.TotalSales)
	assert.Equal(t, int64(100), pulled.Stats.TotalRevenue)
	assert.InDelta(t, 4.0, pulled.Stats.AverageRating, 0.001)
	assert.Equal(t, "2.1", pulled.Cursor)

	// по курсору приходят только новые события
	fake.AddPurchase(pkgapi.Purchase{ID: "pu2", ProductID: remoteID, Amount: 100})
	pulled, err = client.Pull(ctx, token, pulled.Cursor)
	require.NoError(t, err)
	require.Len(t, pulled.Purchases, 1)
	assert.Equal(t, "pu2", pulled.Purchases[0].ID)
	assert.Empty(t, pulled.Reviews)
	assert.Equal(t, int64(2), pulled.Stats.TotalSales)

	_, err = client.Pull(ctx, token, "bogus")
	assert.Equal(t, http.StatusBadRequest, remoteStatus(t, err))
}

func TestHealth(t *testing.T) {
	fake := New()
	rec := httptest.NewRecorder()
	fake.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(New().logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	now := testNow
	fake := New(
		WithClock(func() time.Time { return now }),
		WithRateLimit(2, time.Minute),
	)
	handler := fake.Handler()

	get := func(remoteAddr, forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1:4000", "").Code)
	assert.Equal(t, http.StatusOK, get("10.0.0.1:4001", "").Code)

	rec := get("10.0.0.1:4002", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// другой клиент за прокси считается отдельно
	assert.Equal(t, http.StatusOK, get("10.0.0.1:4003", "203.0.113.7, 10.0.0.1").Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, get("10.0.0.1:4004", "").Code)
}

func TestRateLimit_ClientSeesRetryableError(t *testing.T) {
	fake, client := setup(t, WithRateLimit(1, time.Hour))
	token, err := fake.IssueToken("agent-1")
	require.NoError(t, err)

	_, err = client.Push(context.Background(), token, manifestFor(t, "agent-1"))
	require.NoError(t, err)

	_, err = client.Push(context.Background(), token, manifestFor(t, "agent-1"))
	var remoteErr *pkgapi.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusTooManyRequests, remoteErr.StatusCode)
	assert.True(t, remoteErr.Temporary())
}
