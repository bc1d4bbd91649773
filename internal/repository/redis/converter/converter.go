package converter

import (
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
)

// InventoryItemConverter преобразует позиции листинга между usecase и кэш-моделью.
type InventoryItemConverter interface {
	ToRedisModel(entity *usecase.InventoryItem) *InventoryItemRedisModel
	ToUseCase(model *InventoryItemRedisModel) *usecase.InventoryItem
	ToArrRedisModel(entities []usecase.InventoryItem) []InventoryItemRedisModel
	ToArrUseCase(models []InventoryItemRedisModel) []usecase.InventoryItem
}

type InventoryItemConverterImpl struct{}

func NewInventoryItemConverter() *InventoryItemConverterImpl {
	return &InventoryItemConverterImpl{}
}

func (c *InventoryItemConverterImpl) ToRedisModel(entity *usecase.InventoryItem) *InventoryItemRedisModel {
	return &InventoryItemRedisModel{
		ProductID: entity.ProductID,
		Name:      entity.Name,
		Category:  entity.Category,
		Price:     entity.Price,
		Quantity:  entity.Quantity,
		Status:    string(entity.Status),
		UpdatedAt: entity.UpdatedAt.UnixNano(),
		Source:    string(entity.Source),
	}
}

func (c *InventoryItemConverterImpl) ToUseCase(model *InventoryItemRedisModel) *usecase.InventoryItem {
	return &usecase.InventoryItem{
		ProductID: model.ProductID,
		Name:      model.Name,
		Category:  model.Category,
		Price:     model.Price,
		Quantity:  model.Quantity,
		Status:    domain.StockStatus(model.Status),
		UpdatedAt: time.Unix(0, model.UpdatedAt),
		Source:    domain.UpdateSource(model.Source),
	}
}

func (c *InventoryItemConverterImpl) ToArrRedisModel(entities []usecase.InventoryItem) []InventoryItemRedisModel {
	result := make([]InventoryItemRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c *InventoryItemConverterImpl) ToArrUseCase(models []InventoryItemRedisModel) []usecase.InventoryItem {
	result := make([]usecase.InventoryItem, 0, len(models))
	for i := range models {
		result = append(result, *c.ToUseCase(&models[i]))
	}

	return result
}
