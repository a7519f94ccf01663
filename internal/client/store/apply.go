package store

import (
	"time"

	"github.com/iudanet/shopkeeper/internal/models"
	"github.com/iudanet/shopkeeper/pkg/api"
)

// ApplySummary counts what ApplySyncResults actually changed.
type ApplySummary struct {
	Created int
	Updated int
	Deleted int
	Failed  int
	Skipped int // пары, которые не нашлись локально или уже применены
}

// Applied is the number of records whose local state changed.
func (s ApplySummary) Applied() int {
	return s.Created + s.Updated + s.Deleted
}

// ApplySyncResults feeds a push result back into the store. remote_id is set
// once; a pair that was already applied is skipped, so applying the same
// result twice changes nothing the second time. Rejected records keep their
// status and are retried by the next push.
func (m *Manager) ApplySyncResults(result *api.SyncResult) ApplySummary {
	var summary ApplySummary
	if result == nil {
		return summary
	}
	now := m.now()

	for _, pair := range result.Created {
		_, p := m.find(pair.LocalID)
		switch {
		case p == nil:
			m.logger.Warn("Created product not found locally", "local_id", pair.LocalID, "remote_id", pair.RemoteID)
			summary.Skipped++
		case p.HasRemote():
			if p.RemoteID != pair.RemoteID {
				m.logger.Warn("Ignoring remote_id reassignment",
					"local_id", p.LocalID,
					"remote_id", p.RemoteID,
					"received_remote_id", pair.RemoteID)
			}
			summary.Skipped++
		case pair.RemoteID == "":
			m.logger.Warn("Created pair without remote_id", "local_id", pair.LocalID)
			summary.Skipped++
		default:
			p.RemoteID = pair.RemoteID
			p.Status = models.StatusSynced
			p.SyncedAt = timePtr(now)
			summary.Created++
		}
	}

	for _, pair := range result.Updated {
		_, p := m.find(pair.LocalID)
		if p == nil || p.Status != models.StatusModified {
			summary.Skipped++
			continue
		}
		p.Status = models.StatusSynced
		p.SyncedAt = timePtr(now)
		summary.Updated++
	}

	for _, localID := range result.Deleted {
		idx := m.tombstoneIndex(localID)
		if idx < 0 {
			summary.Skipped++
			continue
		}
		m.state.PendingDeletes = append(m.state.PendingDeletes[:idx], m.state.PendingDeletes[idx+1:]...)
		summary.Deleted++
	}
	if len(m.state.PendingDeletes) == 0 {
		m.state.PendingDeletes = nil
	}

	for _, rejected := range result.Errors {
		m.logger.Warn("Remote rejected product", "local_id", rejected.LocalID, "error", rejected.Error)
		summary.Failed++
	}

	// Запись в историю есть у каждого push, о котором сервер что-то сообщил,
	// даже если все записи отклонены. Дубликат уже применённого ответа без
	// ошибок ничего не меняет и историю не трогает.
	if summary.Applied() > 0 || summary.Failed > 0 {
		m.appendHistory(models.DirectionPush, summary.Applied())
	}

	m.logger.Info("Sync results applied",
		"created", summary.Created,
		"updated", summary.Updated,
		"deleted", summary.Deleted,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary
}

func timePtr(t time.Time) *time.Time {
	return &t
}
