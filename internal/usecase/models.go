package usecase

import (
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
)

// CATALOG USECASE

// RegisterProductReq — запрос на регистрацию нового товара в каталоге.
type RegisterProductReq struct {
	Name              string
	Category          string
	Price             int64
	ReorderThreshold  int64
	CriticalThreshold int64
}

// UpdateProductReq — запрос на обновление атрибутов товара.
type UpdateProductReq struct {
	ID                int64
	Name              string
	Category          string
	Price             int64
	ReorderThreshold  int64
	CriticalThreshold int64
}

// SALES USECASE

// RecordSaleReq — запрос на проведение продажи в локации.
type RecordSaleReq struct {
	LocationID string
	ProductID  int64
	Quantity   int64
	Timestamp  time.Time
}

// RecordSaleRes — результат проведённой продажи.
type RecordSaleRes struct {
	Sale   *domain.Sale
	Entry  domain.StockEntry
	Status domain.StockStatus
}

// SalesStats — агрегаты по истории продаж локации.
type SalesStats struct {
	TotalSales   int64
	TotalRevenue int64 // копейки
	AverageSale  int64 // копейки
}

// SYNC USECASE

// ReconcileReq — запрос на проход сверки филиала с центром.
type ReconcileReq struct {
	BranchID string
	Force    bool // принудительно обновить кэш и полную write-through копию леджера
}

// ReconcileSnapshotReq — запрос на сверку внешне снятого снапшота филиала.
type ReconcileSnapshotReq struct {
	BranchID string
	Snapshot []domain.StockEntry
}

// INVENTORY USECASE

// ListingReq — запрос инвентарного листинга локации.
type ListingReq struct {
	LocationID string
	Status     domain.StockStatus // пустая строка — без фильтра
}

// InventoryItem — позиция листинга, аннотированная статусом остатка.
type InventoryItem struct {
	ProductID int64
	Name      string
	Category  string
	Price     int64
	Quantity  int64
	Status    domain.StockStatus
	UpdatedAt time.Time
	Source    domain.UpdateSource
}

// NOTIFICATIONS

// NotificationFilter — необязательные критерии выборки из ленты уведомлений.
type NotificationFilter struct {
	Severity   domain.Severity
	Kind       domain.NotificationKind
	LocationID string
	Limit      int
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventTypeSale    = "sale_recorded"
	EventTypeSync    = "sync_completed"
	EventTypeCatalog = "catalog_changed"
)

// OutboxEvent — событие, ожидающее публикации в брокер.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	LocationID  string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SaleEventPayload — JSON-полезная нагрузка события продажи для центрального узла.
type SaleEventPayload struct {
	EventType  string `json:"event_type"`
	EventID    string `json:"event_id"`
	LocationID string `json:"location_id"`
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity_sold"`
	Total      int64  `json:"total_amount"`
	Timestamp  int64  `json:"timestamp"`
}

// SyncEventPayload — JSON-полезная нагрузка события завершённого прохода сверки.
type SyncEventPayload struct {
	EventType string `json:"event_type"`
	EventID   string `json:"event_id"`
	BranchID  string `json:"branch_id"`
	Changed   int    `json:"changed"`
	Orphaned  int    `json:"orphaned"`
	Timestamp int64  `json:"timestamp"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewRegisterProductReq(name, category string, price, reorder, critical int64) *RegisterProductReq {
	return &RegisterProductReq{
		Name:              name,
		Category:          category,
		Price:             price,
		ReorderThreshold:  reorder,
		CriticalThreshold: critical,
	}
}

func NewRecordSaleReq(locationID string, productID, quantity int64, ts time.Time) *RecordSaleReq {
	return &RecordSaleReq{
		LocationID: locationID,
		ProductID:  productID,
		Quantity:   quantity,
		Timestamp:  ts,
	}
}

func NewReconcileReq(branchID string, force bool) *ReconcileReq {
	return &ReconcileReq{
		BranchID: branchID,
		Force:    force,
	}
}

func NewReconcileSnapshotReq(branchID string, snapshot []domain.StockEntry) *ReconcileSnapshotReq {
	return &ReconcileSnapshotReq{
		BranchID: branchID,
		Snapshot: snapshot,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewOutboxEvent(eventID, eventType, locationID string, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		EventID:    eventID,
		EventType:  eventType,
		LocationID: locationID,
		Payload:    payload,
		Status:     Pending,
		CreatedAt:  createdAt,
	}
}
