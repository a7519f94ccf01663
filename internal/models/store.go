package models

import "time"

// StoreVersion is the version tag written into new store documents.
const StoreVersion = "1"

// Направления синхронизации в sync_history
const (
	DirectionPush = "push"
	DirectionPull = "pull"
)

// StoreProfile описывает витрину продавца целиком, а не отдельный продукт.
type StoreProfile struct {
	Links       map[string]string `json:"links,omitempty"` // название -> URL
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	Description string            `json:"description"`
}

// ProfileFields частичное обновление профиля; nil поля не меняются.
type ProfileFields struct {
	Links       map[string]string `json:"links,omitempty"`
	Name        *string           `json:"name,omitempty"`
	Tagline     *string           `json:"tagline,omitempty"`
	Description *string           `json:"description,omitempty"`
}

// ApplyTo merges the set fields into p. Links are merged key by key;
// an empty URL removes the link.
func (f ProfileFields) ApplyTo(p *StoreProfile) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Tagline != nil {
		p.Tagline = *f.Tagline
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	for name, url := range f.Links {
		if p.Links == nil {
			p.Links = make(map[string]string)
		}
		if url == "" {
			delete(p.Links, name)
			continue
		}
		p.Links[name] = url
	}
	// links сериализуются с omitempty: пустая карта после загрузки станет nil
	if len(p.Links) == 0 {
		p.Links = nil
	}
}

// SyncHistoryEntry одна запись append-only журнала push/pull операций.
type SyncHistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	ID             string    `json:"id"`
	Direction      string    `json:"direction"` // "push" или "pull"
	ProductsSynced int       `json:"products_synced"`
}

// LocalStore агрегат, который целиком сериализуется в локальный файл.
type LocalStore struct {
	LastSync       *time.Time         `json:"last_sync,omitempty"`
	Version        string             `json:"version"`
	Products       []*LocalProduct    `json:"products"`
	SyncHistory    []SyncHistoryEntry `json:"sync_history"`
	PendingDeletes []Tombstone        `json:"pending_deletes,omitempty"`
	Profile        StoreProfile       `json:"profile"`
}

// NewLocalStore returns the empty default store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		Version:     StoreVersion,
		Products:    []*LocalProduct{},
		SyncHistory: []SyncHistoryEntry{},
	}
}

// Normalize fills nil collections and a missing version so that a document
// written by an older client behaves like a fresh one.
func (s *LocalStore) Normalize() {
	if s.Version == "" {
		s.Version = StoreVersion
	}
	if s.Products == nil {
		s.Products = []*LocalProduct{}
	}
	if s.SyncHistory == nil {
		s.SyncHistory = []SyncHistoryEntry{}
	}
	if len(s.Profile.Links) == 0 {
		s.Profile.Links = nil
	}
}

// Clone создает глубокую копию хранилища
func (s *LocalStore) Clone() *LocalStore {
	c := &LocalStore{
		Version:     s.Version,
		Profile:     s.Profile,
		Products:    make([]*LocalProduct, 0, len(s.Products)),
		SyncHistory: make([]SyncHistoryEntry, len(s.SyncHistory)),
	}
	if s.Profile.Links != nil {
		c.Profile.Links = make(map[string]string, len(s.Profile.Links))
		for k, v := range s.Profile.Links {
			c.Profile.Links[k] = v
		}
	}
	for _, p := range s.Products {
		c.Products = append(c.Products, p.Clone())
	}
	copy(c.SyncHistory, s.SyncHistory)
	if len(s.PendingDeletes) > 0 {
		c.PendingDeletes = make([]Tombstone, len(s.PendingDeletes))
		copy(c.PendingDeletes, s.PendingDeletes)
	}
	if s.LastSync != nil {
		t := *s.LastSync
		c.LastSync = &t
	}
	return c
}
