package models

import "time"

// Status представляет состояние жизненного цикла локального продукта.
type Status string

// Состояния жизненного цикла продукта
const (
	StatusDraft    Status = "draft"    // создан локально, не готов к публикации
	StatusReady    Status = "ready"    // помечен к публикации, ещё не отправлен
	StatusSynced   Status = "synced"   // совпадает с последним отправленным состоянием
	StatusModified Status = "modified" // изменён после синхронизации
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusSynced, StatusModified:
		return true
	}
	return false
}

// DeliveryType описывает способ доставки продукта покупателю.
type DeliveryType string

// Поддерживаемые способы доставки
const (
	DeliveryDownload DeliveryType = "download"
	DeliveryRepo     DeliveryType = "repo"
	DeliveryAPI      DeliveryType = "api"
	DeliveryManual   DeliveryType = "manual"
)

// DeliveryTypes lists every supported delivery type in display order.
var DeliveryTypes = []DeliveryType{DeliveryDownload, DeliveryRepo, DeliveryAPI, DeliveryManual}

// Valid reports whether d is a supported delivery type.
func (d DeliveryType) Valid() bool {
	for _, t := range DeliveryTypes {
		if d == t {
			return true
		}
	}
	return false
}

// LocalProduct представляет товар в том виде, в котором он известен локально.
// Поля lifecycle (LocalID, RemoteID, Status и временные метки) меняет только
// менеджер локального хранилища.
type LocalProduct struct {
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	SyncedAt        *time.Time   `json:"synced_at,omitempty"`
	LocalID         string       `json:"local_id"`            // стабильный локальный идентификатор (UUID)
	RemoteID        string       `json:"remote_id,omitempty"` // присваивается сервером при первом create
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	CategoryID      string       `json:"category_id"`
	DeliveryType    DeliveryType `json:"delivery_type"`
	DeliveryPayload string       `json:"delivery_payload"` // смысл зависит от DeliveryType
	ContentHash     string       `json:"content_hash,omitempty"`
	Status          Status       `json:"status"`
	Price           int64        `json:"price"` // в минимальных единицах валюты
	FileSizeBytes   int64        `json:"file_size_bytes,omitempty"`
}

// HasRemote reports whether the product has been created on the remote side.
func (p *LocalProduct) HasRemote() bool {
	return p.RemoteID != ""
}

// Clone создает глубокую копию продукта
func (p *LocalProduct) Clone() *LocalProduct {
	c := *p
	if p.SyncedAt != nil {
		t := *p.SyncedAt
		c.SyncedAt = &t
	}
	return &c
}

// ProductFields содержит редактируемые пользователем поля продукта.
// nil означает "не изменять" при частичном обновлении.
type ProductFields struct {
	Name            *string       `json:"name,omitempty"`
	Description     *string       `json:"description,omitempty"`
	CategoryID      *string       `json:"category_id,omitempty"`
	Price           *int64        `json:"price,omitempty"`
	DeliveryType    *DeliveryType `json:"delivery_type,omitempty"`
	DeliveryPayload *string       `json:"delivery_payload,omitempty"`
	ContentHash     *string       `json:"content_hash,omitempty"`
	FileSizeBytes   *int64        `json:"file_size_bytes,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f ProductFields) IsEmpty() bool {
	return f.Name == nil && f.Description == nil && f.CategoryID == nil && f.Price == nil &&
		f.DeliveryType == nil && f.DeliveryPayload == nil && f.ContentHash == nil && f.FileSizeBytes == nil
}

// ApplyTo merges the set fields into p. Lifecycle fields are never touched.
func (f ProductFields) ApplyTo(p *LocalProduct) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.CategoryID != nil {
		p.CategoryID = *f.CategoryID
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.DeliveryType != nil {
		p.DeliveryType = *f.DeliveryType
	}
	if f.DeliveryPayload != nil {
		p.DeliveryPayload = *f.DeliveryPayload
	}
	if f.ContentHash != nil {
		p.ContentHash = *f.ContentHash
	}
	if f.FileSizeBytes != nil {
		p.FileSizeBytes = *f.FileSizeBytes
	}
}

// Tombstone хранит удалённый локально продукт, который уже существует на сервере,
// до подтверждения удаления сервером.
type Tombstone struct {
	DeletedAt time.Time `json:"deleted_at"`
	LocalID   string    `json:"local_id"`
	RemoteID  string    `json:"remote_id"`
}
