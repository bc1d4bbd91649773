package converter

import (
	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
)

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:                entity.ID,
		Name:              entity.Name,
		Category:          entity.Category,
		Price:             entity.Price,
		ReorderThreshold:  entity.ReorderThreshold,
		CriticalThreshold: entity.CriticalThreshold,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
		IsArchived:        entity.IsArchived,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:                model.ID,
		Name:              model.Name,
		Category:          model.Category,
		Price:             model.Price,
		ReorderThreshold:  model.ReorderThreshold,
		CriticalThreshold: model.CriticalThreshold,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		IsArchived:        model.IsArchived,
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []*ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type StockEntryConverterImpl struct{}

func NewStockEntryConverter() *StockEntryConverterImpl {
	return &StockEntryConverterImpl{}
}

func (c *StockEntryConverterImpl) ToModel(locationID string, entity domain.StockEntry) *StockEntryModel {
	return &StockEntryModel{
		LocationID: locationID,
		ProductID:  entity.ProductID,
		Quantity:   entity.Quantity,
		UpdatedAt:  entity.UpdatedAt,
		Source:     string(entity.Source),
	}
}

func (c *StockEntryConverterImpl) ToEntity(model *StockEntryModel) domain.StockEntry {
	return domain.StockEntry{
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		UpdatedAt: model.UpdatedAt,
		Source:    domain.UpdateSource(model.Source),
	}
}

func (c *StockEntryConverterImpl) ToArrEntity(models []*StockEntryModel) []domain.StockEntry {
	result := make([]domain.StockEntry, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}

type SaleConverterImpl struct{}

func NewSaleConverter() *SaleConverterImpl {
	return &SaleConverterImpl{}
}

func (c *SaleConverterImpl) ToModel(entity *domain.Sale) *SaleModel {
	return &SaleModel{
		ID:         entity.ID,
		LocationID: entity.LocationID,
		ProductID:  entity.ProductID,
		Quantity:   entity.Quantity,
		UnitPrice:  entity.UnitPrice,
		Total:      entity.Total,
		RecordedAt: entity.Timestamp,
	}
}

func (c *SaleConverterImpl) ToEntity(model *SaleModel) *domain.Sale {
	return &domain.Sale{
		ID:         model.ID,
		LocationID: model.LocationID,
		ProductID:  model.ProductID,
		Quantity:   model.Quantity,
		UnitPrice:  model.UnitPrice,
		Total:      model.Total,
		Timestamp:  model.RecordedAt,
	}
}

type SyncRecordConverterImpl struct{}

func NewSyncRecordConverter() *SyncRecordConverterImpl {
	return &SyncRecordConverterImpl{}
}

func (c *SyncRecordConverterImpl) ToModel(entity *domain.SyncRecord) *SyncRecordModel {
	changes := make([]SyncChangeModel, 0, len(entity.Changes))
	for _, change := range entity.Changes {
		changes = append(changes, SyncChangeModel{
			ProductID:      change.ProductID,
			PrevBranchQty:  change.PrevBranchQty,
			PrevCentralQty: change.PrevCentralQty,
			ResolvedQty:    change.ResolvedQty,
			Reason:         string(change.Reason),
		})
	}

	return &SyncRecordModel{
		ID:        entity.ID,
		BranchID:  entity.BranchID,
		CreatedAt: entity.Timestamp,
		Changes:   changes,
		Orphaned:  entity.Orphaned,
	}
}

func (c *SyncRecordConverterImpl) ToEntity(model *SyncRecordModel) *domain.SyncRecord {
	changes := make([]domain.SyncChange, 0, len(model.Changes))
	for _, change := range model.Changes {
		changes = append(changes, domain.SyncChange{
			ProductID:      change.ProductID,
			PrevBranchQty:  change.PrevBranchQty,
			PrevCentralQty: change.PrevCentralQty,
			ResolvedQty:    change.ResolvedQty,
			Reason:         domain.ResolutionReason(change.Reason),
		})
	}

	return &domain.SyncRecord{
		ID:        model.ID,
		BranchID:  model.BranchID,
		Timestamp: model.CreatedAt,
		Changes:   changes,
		Orphaned:  model.Orphaned,
	}
}

func (c *SyncRecordConverterImpl) ToArrEntity(models []*SyncRecordModel) []*domain.SyncRecord {
	result := make([]*domain.SyncRecord, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}

type NotificationConverterImpl struct{}

func NewNotificationConverter() *NotificationConverterImpl {
	return &NotificationConverterImpl{}
}

func (c *NotificationConverterImpl) ToModel(entity *domain.Notification) *NotificationModel {
	return &NotificationModel{
		ID:         entity.ID,
		CreatedAt:  entity.Timestamp,
		Severity:   string(entity.Severity),
		Kind:       string(entity.Kind),
		LocationID: entity.LocationID,
		ProductID:  entity.ProductID,
		Message:    entity.Message,
	}
}

func (c *NotificationConverterImpl) ToEntity(model *NotificationModel) *domain.Notification {
	return domain.NewNotification(
		model.ID,
		model.CreatedAt,
		domain.Severity(model.Severity),
		domain.NotificationKind(model.Kind),
		model.LocationID,
		model.ProductID,
		model.Message,
	)
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   entity.EventType,
		LocationID:  entity.LocationID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   model.EventType,
		LocationID:  model.LocationID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
