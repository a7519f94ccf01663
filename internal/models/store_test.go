package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalStore(t *testing.T) {
	s := NewLocalStore()

	assert.Equal(t, StoreVersion, s.Version)
	assert.NotNil(t, s.Products)
	assert.NotNil(t, s.SyncHistory)
	assert.Empty(t, s.PendingDeletes)
	assert.Nil(t, s.LastSync)
}

func TestLocalStore_Normalize(t *testing.T) {
	s := &LocalStore{}
	s.Normalize()

	assert.Equal(t, StoreVersion, s.Version)
	assert.NotNil(t, s.Products)
	assert.NotNil(t, s.SyncHistory)

	withEmptyLinks := &LocalStore{Profile: StoreProfile{Links: map[string]string{}}}
	withEmptyLinks.Normalize()
	assert.Nil(t, withEmptyLinks.Profile.Links)
}

func TestLocalStore_Clone(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	original := NewLocalStore()
	original.Profile = StoreProfile{Name: "shop", Links: map[string]string{"site": "https://example.com"}}
	original.Products = append(original.Products, &LocalProduct{LocalID: "a", Name: "A", Status: StatusReady})
	original.SyncHistory = append(original.SyncHistory, SyncHistoryEntry{ID: "h1", Direction: DirectionPush, Timestamp: now})
	original.PendingDeletes = []Tombstone{{LocalID: "b", RemoteID: "r2", DeletedAt: now}}
	original.LastSync = &now

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Products[0].Name = "changed"
	clone.Profile.Links["site"] = "https://other.example.com"
	clone.PendingDeletes[0].RemoteID = "r3"

	assert.Equal(t, "A", original.Products[0].Name)
	assert.Equal(t, "https://example.com", original.Profile.Links["site"])
	assert.Equal(t, "r2", original.PendingDeletes[0].RemoteID)
}

func TestProfileFields_ApplyTo(t *testing.T) {
	p := &StoreProfile{Name: "old", Links: map[string]string{"x": "https://x.example", "y": "https://y.example"}}

	ProfileFields{
		Tagline: strPtr("agents welcome"),
		Links:   map[string]string{"x": "", "z": "https://z.example"},
	}.ApplyTo(p)

	assert.Equal(t, "old", p.Name)
	assert.Equal(t, "agents welcome", p.Tagline)
	assert.Equal(t, map[string]string{"y": "https://y.example", "z": "https://z.example"}, p.Links)
}

func TestProfileFields_ApplyTo_RemoveLastLink(t *testing.T) {
	p := &StoreProfile{Links: map[string]string{"site": "https://x.example"}}

	ProfileFields{Links: map[string]string{"site": ""}}.ApplyTo(p)
	assert.Nil(t, p.Links)

	// Удаление из пустого профиля не создаёт карту
	ProfileFields{Links: map[string]string{"site": ""}}.ApplyTo(p)
	assert.Nil(t, p.Links)
}
