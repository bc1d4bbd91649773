package usecase

import (
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Archive(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Catalog(ctx context.Context) (domain.Catalog, error)
}

type StockRepository interface {
	LoadLedger(ctx context.Context, locationID string) ([]domain.StockEntry, error)
	UpsertEntry(ctx context.Context, locationID string, entry domain.StockEntry) error
}

type SaleRepository interface {
	Insert(ctx context.Context, sale *domain.Sale) error
	Stats(ctx context.Context, locationID string) (*SalesStats, error)
}

type SyncRecordRepository interface {
	Insert(ctx context.Context, record *domain.SyncRecord) (*domain.SyncRecord, error)
	ListByBranch(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error)
}

type NotificationRepository interface {
	Insert(ctx context.Context, notification *domain.Notification) error
	ListRecent(ctx context.Context, limit int) ([]domain.Notification, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetInventory(ctx context.Context, locationID string) ([]InventoryItem, error)
	SetInventory(ctx context.Context, locationID string, items []InventoryItem) error
	DeleteInventory(ctx context.Context, locationIDs ...string) error
}

// IdempotencyRepository хранит ключи уже обработанных событий.
type IdempotencyRepository interface {
	SetIfAbsent(ctx context.Context, key string) (bool, error)
}

type ReportRepository interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}
