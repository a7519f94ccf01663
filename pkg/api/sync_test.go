package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopkeeper/internal/models"
)

func TestManifestProduct_SnapshotOmittedForUnchanged(t *testing.T) {
	data, err := json.Marshal(ManifestProduct{LocalID: "a", RemoteID: "r1", Action: ActionUnchanged})
	require.NoError(t, err)

	assert.JSONEq(t, `{"local_id":"a","remote_id":"r1","action":"unchanged"}`, string(data))
}

func TestManifestProduct_SnapshotFlattened(t *testing.T) {
	entry := ManifestProduct{
		LocalID: "a",
		Action:  ActionCreate,
		ProductSnapshot: &ProductSnapshot{
			Name:            "Prompt pack",
			Price:           0,
			DeliveryType:    models.DeliveryDownload,
			DeliveryPayload: "https://files.example/p.zip",
		},
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Prompt pack", raw["name"])
	// нулевая цена должна присутствовать в снимке
	assert.Contains(t, raw, "price")
	assert.NotContains(t, raw, "remote_id")
}

func TestSyncManifest_Counts(t *testing.T) {
	m := &SyncManifest{Products: []ManifestProduct{
		{LocalID: "a", Action: ActionCreate},
		{LocalID: "b", Action: ActionUpdate},
		{LocalID: "c", Action: ActionUnchanged},
		{LocalID: "d", Action: ActionDelete},
	}}

	assert.Equal(t, 1, m.CountActions(ActionCreate))
	assert.Equal(t, 1, m.CountActions(ActionUnchanged))
	assert.Equal(t, 3, m.Actionable())
}

func TestPushResponse_Decode(t *testing.T) {
	body := `{
		"created": [{"local_id": "a", "remote_id": "r1"}],
		"updated": [],
		"deleted": ["d"],
		"errors": [{"local_id": "b", "error": "price too high"}],
		"billing": {"credits_charged": 2, "credits_remaining": 98}
	}`

	var resp PushResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, []SyncedPair{{LocalID: "a", RemoteID: "r1"}}, resp.Created)
	assert.Equal(t, []string{"d"}, resp.Deleted)
	assert.True(t, resp.HasErrors())
	require.NotNil(t, resp.Billing)
	assert.Equal(t, int64(98), resp.Billing.CreditsRemaining)
}
