package usecase

import (
	"context"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

// InventoryUseCase отдаёт инвентарные листинги локаций, аннотированные
// статусом остатка, с кэшированием полного листинга.
type InventoryUseCase struct {
	registry    *domain.Registry
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewInventoryUC(
	registry *domain.Registry,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		registry:    registry,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// Listing возвращает аннотированный листинг локации, при необходимости
// отфильтрованный по статусу. Записи без товара в каталоге в листинг не входят:
// их судьбу решает проход сверки (orphaned).
func (i *InventoryUseCase) Listing(ctx context.Context, req *ListingReq) ([]InventoryItem, error) {
	const op = "InventoryUseCase.Listing"

	ledger, err := i.registry.Ledger(req.LocationID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items, err := i.cacheRepo.GetInventory(ctx, req.LocationID)
	if err != nil {
		i.logger.Warnf("inventory cache read failed: %v", e.Wrap(whereami.WhereAmI(), err))
		items = nil
	}

	if items == nil {
		items, err = i.buildListing(ctx, ledger)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое наполнение кэша
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := i.cacheRepo.SetInventory(bgCtx, req.LocationID, items); err != nil {
				i.logger.Warnf("failed to cache inventory in background: %v", e.Wrap(op, err))
			}
		}()
	}

	if req.Status == "" {
		return items, nil
	}

	filtered := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Status == req.Status {
			filtered = append(filtered, item)
		}
	}

	return filtered, nil
}

func (i *InventoryUseCase) buildListing(ctx context.Context, ledger *domain.Ledger) ([]InventoryItem, error) {
	catalog, err := i.productRepo.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := ledger.Snapshot()
	items := make([]InventoryItem, 0, len(snapshot))
	for _, entry := range snapshot {
		product, ok := catalog[entry.ProductID]
		if !ok {
			continue
		}

		items = append(items, InventoryItem{
			ProductID: entry.ProductID,
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.Price,
			Quantity:  entry.Quantity,
			Status:    domain.ClassifyEntry(entry, product),
			UpdatedAt: entry.UpdatedAt,
			Source:    entry.Source,
		})
	}

	return items, nil
}
