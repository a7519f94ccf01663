package marketfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/shopkeeper/internal/client/store"
	"github.com/iudanet/shopkeeper/pkg/api"
)

// handlePush обрабатывает POST /api/v1/sync/push
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	agentID := agentFromContext(r.Context())

	var manifest api.SyncManifest
	if err := json.NewDecoder(r.Body).Decode(&manifest); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if manifest.AgentID != agentID {
		s.sendError(w, "agent_id does not match token", http.StatusForbidden)
		return
	}

	checksum, err := store.ManifestChecksum(manifest.Products)
	if err != nil || checksum != manifest.Checksum {
		s.sendError(w, "checksum mismatch", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushes = append(s.pushes, manifest)

	result := api.SyncResult{
		Created: []api.SyncedPair{},
		Updated: []api.SyncedPair{},
		Deleted: []string{},
		Errors:  []api.RecordError{},
	}
	now := s.now()

	for _, item := range manifest.Products {
		if !item.Action.Actionable() {
			continue
		}
		if reason, ok := s.rejections[item.LocalID]; ok {
			result.Errors = append(result.Errors, api.RecordError{LocalID: item.LocalID, Error: reason})
			continue
		}

		key := agentID + "/" + item.LocalID
		switch item.Action {
		case api.ActionCreate:
			if item.ProductSnapshot == nil {
				result.Errors = append(result.Errors, api.RecordError{LocalID: item.LocalID, Error: "product fields are required"})
				continue
			}
			// Повторный create того же local_id возвращает прежний remote_id
			remoteID, ok := s.byLocal[key]
			if !ok {
				remoteID = s.newRemoteID()
				s.byLocal[key] = remoteID
			}
			s.products[remoteID] = &RemoteProduct{
				RemoteID:        remoteID,
				LocalID:         item.LocalID,
				AgentID:         agentID,
				UpdatedAt:       now,
				ProductSnapshot: *item.ProductSnapshot,
			}
			result.Created = append(result.Created, api.SyncedPair{LocalID: item.LocalID, RemoteID: remoteID})

		case api.ActionUpdate:
			p, ok := s.products[item.RemoteID]
			if !ok || p.AgentID != agentID || item.ProductSnapshot == nil {
				result.Errors = append(result.Errors, api.RecordError{LocalID: item.LocalID, Error: "unknown remote_id"})
				continue
			}
			p.ProductSnapshot = *item.ProductSnapshot
			p.UpdatedAt = now
			result.Updated = append(result.Updated, api.SyncedPair{LocalID: item.LocalID, RemoteID: item.RemoteID})

		case api.ActionDelete:
			// Удаление идемпотентно: уже удалённый продукт тоже подтверждается
			if p, ok := s.products[item.RemoteID]; ok && p.AgentID == agentID {
				delete(s.products, item.RemoteID)
			}
			delete(s.byLocal, key)
			result.Deleted = append(result.Deleted, item.LocalID)
		}
	}

	charged := int64(len(result.Created) + len(result.Updated))
	s.credits -= charged

	s.sendJSON(w, api.PushResponse{
		SyncResult: result,
		Billing:    &api.BillingInfo{CreditsCharged: charged, CreditsRemaining: s.credits},
	}, http.StatusOK)
}

// handlePull обрабатывает GET /api/v1/sync/pull?since=cursor
// Курсор: количество уже выданных покупок и отзывов "p.r"
func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	agentID := agentFromContext(r.Context())

	sincePurchases, sinceReviews, err := parseCursor(r.URL.Query().Get("since"))
	if err != nil {
		s.sendError(w, "invalid since cursor", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make(map[string]bool)
	for id, p := range s.products {
		if p.AgentID == agentID {
			owned[id] = true
		}
	}

	resp := api.PullResponse{
		Purchases: []api.Purchase{},
		Reviews:   []api.Review{},
		Stats:     &api.SellerStats{},
	}

	var ratingSum int64
	for i, p := range s.purchases {
		if !owned[p.ProductID] {
			continue
		}
		resp.Stats.TotalSales++
		resp.Stats.TotalRevenue += p.Amount
		if i >= sincePurchases {
			resp.Purchases = append(resp.Purchases, p)
		}
	}
	for i, rv := range s.reviews {
		if !owned[rv.ProductID] {
			continue
		}
		resp.Stats.ReviewCount++
		ratingSum += int64(rv.Rating)
		if i >= sinceReviews {
			resp.Reviews = append(resp.Reviews, rv)
		}
	}
	if resp.Stats.ReviewCount > 0 {
		resp.Stats.AverageRating = float64(ratingSum) / float64(resp.Stats.ReviewCount)
	}
	resp.Cursor = strconv.Itoa(len(s.purchases)) + "." + strconv.Itoa(len(s.reviews))

	s.sendJSON(w, resp, http.StatusOK)
}

func parseCursor(cursor string) (int, int, error) {
	if cursor == "" {
		return 0, 0, nil
	}
	ps, rs, ok := strings.Cut(cursor, ".")
	if !ok {
		return 0, 0, fmt.Errorf("invalid cursor %q", cursor)
	}
	p, err := strconv.Atoi(ps)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cursor %q: %w", cursor, err)
	}
	r, err := strconv.Atoi(rs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cursor %q: %w", cursor, err)
	}
	return p, r, nil
}
