package converter

import (
	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// StockEntryConverter преобразует записи леджера между domain и моделью PostgreSQL.
type StockEntryConverter interface {
	ToModel(locationID string, entity domain.StockEntry) *StockEntryModel
	ToEntity(model *StockEntryModel) domain.StockEntry
	ToArrEntity(models []*StockEntryModel) []domain.StockEntry
}

// SaleConverter преобразует сущности Sale между domain и моделью PostgreSQL.
type SaleConverter interface {
	ToModel(entity *domain.Sale) *SaleModel
	ToEntity(model *SaleModel) *domain.Sale
}

// SyncRecordConverter преобразует записи истории сверки между domain и моделью PostgreSQL.
type SyncRecordConverter interface {
	ToModel(entity *domain.SyncRecord) *SyncRecordModel
	ToEntity(model *SyncRecordModel) *domain.SyncRecord
	ToArrEntity(models []*SyncRecordModel) []*domain.SyncRecord
}

// NotificationConverter преобразует уведомления между domain и моделью PostgreSQL.
type NotificationConverter interface {
	ToModel(entity *domain.Notification) *NotificationModel
	ToEntity(model *NotificationModel) *domain.Notification
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}
