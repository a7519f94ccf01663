package store

import (
	"github.com/iudanet/shopkeeper/internal/models"
	"github.com/iudanet/shopkeeper/pkg/api"
)

// GenerateSyncManifest builds the diff the next push sends. Drafts are left
// out entirely; ready products without remote_id become create, modified
// products with remote_id become update, every other product is unchanged.
// Tombstones are appended as delete actions.
func (m *Manager) GenerateSyncManifest(agentID string) (*api.SyncManifest, error) {
	products := make([]api.ManifestProduct, 0, len(m.state.Products)+len(m.state.PendingDeletes))

	for _, p := range m.state.Products {
		if p.Status == models.StatusDraft {
			continue
		}

		entry := api.ManifestProduct{
			LocalID:  p.LocalID,
			RemoteID: p.RemoteID,
			Action:   decideAction(p),
		}
		if entry.Action == api.ActionCreate || entry.Action == api.ActionUpdate {
			entry.ProductSnapshot = snapshotOf(p)
		}
		products = append(products, entry)
	}

	for _, t := range m.state.PendingDeletes {
		products = append(products, api.ManifestProduct{
			LocalID:  t.LocalID,
			RemoteID: t.RemoteID,
			Action:   api.ActionDelete,
		})
	}

	checksum, err := ManifestChecksum(products)
	if err != nil {
		return nil, err
	}

	manifest := &api.SyncManifest{
		AgentID:   agentID,
		Timestamp: m.now(),
		Products:  products,
		Checksum:  checksum,
	}

	m.logger.Debug("Sync manifest generated",
		"entries", len(products),
		"create", manifest.CountActions(api.ActionCreate),
		"update", manifest.CountActions(api.ActionUpdate),
		"delete", manifest.CountActions(api.ActionDelete),
		"checksum", checksum)

	return manifest, nil
}

func decideAction(p *models.LocalProduct) api.Action {
	switch {
	case !p.HasRemote() && p.Status == models.StatusReady:
		return api.ActionCreate
	case p.HasRemote() && p.Status == models.StatusModified:
		return api.ActionUpdate
	default:
		return api.ActionUnchanged
	}
}

func snapshotOf(p *models.LocalProduct) *api.ProductSnapshot {
	return &api.ProductSnapshot{
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Price:           p.Price,
		DeliveryType:    p.DeliveryType,
		DeliveryPayload: p.DeliveryPayload,
		ContentHash:     p.ContentHash,
		FileSizeBytes:   p.FileSizeBytes,
	}
}
