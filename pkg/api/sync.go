package api

import (
	"time"

	"github.com/iudanet/shopkeeper/internal/models"
)

// Action действие над продуктом в манифесте синхронизации
type Action string

// Действия манифеста
const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionUnchanged Action = "unchanged"
)

// Actionable reports whether the remote side has to do something for a.
func (a Action) Actionable() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// ProductSnapshot полный снимок редактируемых полей продукта.
// Прикладывается к манифесту только для create/update.
type ProductSnapshot struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CategoryID      string              `json:"category_id"`
	DeliveryType    models.DeliveryType `json:"delivery_type"`
	DeliveryPayload string              `json:"delivery_payload"`
	ContentHash     string              `json:"content_hash,omitempty"`
	Price           int64               `json:"price"`
	FileSizeBytes   int64               `json:"file_size_bytes,omitempty"`
}

// ManifestProduct одна запись манифеста. Поля снимка встраиваются в объект,
// для unchanged и delete снимок отсутствует.
type ManifestProduct struct {
	*ProductSnapshot
	LocalID  string `json:"local_id"`
	RemoteID string `json:"remote_id,omitempty"`
	Action   Action `json:"action"`
}

// SyncManifest вычисляемый при каждом push дифф локальных продуктов.
type SyncManifest struct {
	Timestamp time.Time         `json:"timestamp"`
	AgentID   string            `json:"agent_id"`
	Checksum  string            `json:"checksum"`
	Products  []ManifestProduct `json:"products"`
}

// CountActions returns how many entries of the manifest carry action a.
func (m *SyncManifest) CountActions(a Action) int {
	n := 0
	for _, p := range m.Products {
		if p.Action == a {
			n++
		}
	}
	return n
}

// Actionable returns the number of entries the remote side has to act on.
func (m *SyncManifest) Actionable() int {
	n := 0
	for _, p := range m.Products {
		if p.Action.Actionable() {
			n++
		}
	}
	return n
}

// SyncedPair сопоставление локального и серверного идентификатора
type SyncedPair struct {
	LocalID  string `json:"local_id"`
	RemoteID string `json:"remote_id"`
}

// RecordError отказ сервера по конкретной записи
type RecordError struct {
	LocalID string `json:"local_id"`
	Error   string `json:"error"`
}

// SyncResult ответ сервера на push
type SyncResult struct {
	Created []SyncedPair  `json:"created"`
	Updated []SyncedPair  `json:"updated"`
	Deleted []string      `json:"deleted"`
	Errors  []RecordError `json:"errors"`
}

// HasErrors reports whether the remote side rejected any record.
func (r *SyncResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// BillingInfo служебная информация о списании кредитов.
// Клиент только показывает её, но не интерпретирует.
type BillingInfo struct {
	CreditsCharged   int64 `json:"credits_charged"`
	CreditsRemaining int64 `json:"credits_remaining"`
}

// PushResponse тело ответа push endpoint
type PushResponse struct {
	Billing *BillingInfo `json:"billing,omitempty"`
	SyncResult
}

// Purchase покупка продукта продавца
type Purchase struct {
	PurchasedAt time.Time `json:"purchased_at"`
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"` // remote_id продукта
	BuyerID     string    `json:"buyer_id"`
	Amount      int64     `json:"amount"`
}

// Review отзыв покупателя
type Review struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	AuthorID  string    `json:"author_id"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
}

// SellerStats агрегированная статистика продавца
type SellerStats struct {
	TotalSales    int64   `json:"total_sales"`
	TotalRevenue  int64   `json:"total_revenue"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// PullResponse изменения на стороне сервера с момента since
type PullResponse struct {
	Stats     *SellerStats `json:"stats,omitempty"`
	Cursor    string       `json:"cursor"`
	Purchases []Purchase   `json:"purchases"`
	Reviews   []Review     `json:"reviews"`
}

// Items returns the number of purchases and reviews received.
func (r *PullResponse) Items() int {
	return len(r.Purchases) + len(r.Reviews)
}
