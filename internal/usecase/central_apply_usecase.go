package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

// CentralApplyUseCase применяет события продаж филиалов к центральному леджеру.
// Работает только на центральном узле. Каждое событие применяется не более
// одного раза: дубликаты отсекаются по идентификатору события.
type CentralApplyUseCase struct {
	registry        *domain.Registry
	productRepo     ProductRepository
	stockRepo       StockRepository
	cacheRepo       CacheRepository
	idempotencyRepo IdempotencyRepository
	notifications   *NotificationCenter
	logger          logger.Logger
}

func NewCentralApplyUC(
	registry *domain.Registry,
	productRepo ProductRepository,
	stockRepo StockRepository,
	cacheRepo CacheRepository,
	idempotencyRepo IdempotencyRepository,
	notifications *NotificationCenter,
	logger logger.Logger,
) *CentralApplyUseCase {
	return &CentralApplyUseCase{
		registry:        registry,
		productRepo:     productRepo,
		stockRepo:       stockRepo,
		cacheRepo:       cacheRepo,
		idempotencyRepo: idempotencyRepo,
		notifications:   notifications,
		logger:          logger,
	}
}

// ApplySaleEvent списывает проданное филиалом количество с центрального леджера.
// Повторная доставка того же события не производит эффекта. Нехватка остатка в
// центре не применяется частично: расхождение закроет следующий проход сверки.
func (c *CentralApplyUseCase) ApplySaleEvent(ctx context.Context, event *SaleEventPayload) error {
	const op = "CentralApplyUseCase.ApplySaleEvent"

	fresh, err := c.idempotencyRepo.SetIfAbsent(ctx, event.EventID)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !fresh {
		c.logger.Debugf("duplicate sale event %s skipped", event.EventID)
		return nil
	}

	central := c.registry.Central()

	entry, err := central.ApplyDelta(event.ProductID, -event.Quantity, domain.SourceLocal,
		time.Unix(0, event.Timestamp))
	if err != nil {
		if errors.Is(err, e.ErrInsufficientStock) {
			c.logger.Warnf("sale event %s would underflow central stock for product %d, deferring to sync",
				event.EventID, event.ProductID)
			return nil
		}

		return e.Wrap(op, err)
	}

	if err := c.stockRepo.UpsertEntry(ctx, central.LocationID(), entry); err != nil {
		c.logger.Warnf("write-through failed for %s/%d: %v",
			central.LocationID(), event.ProductID, e.Wrap(whereami.WhereAmI(), err))
	}

	c.notifyIfLow(ctx, central.LocationID(), entry)

	if err := c.cacheRepo.DeleteInventory(ctx, central.LocationID()); err != nil {
		c.logger.Warnf("failed to invalidate inventory cache: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

func (c *CentralApplyUseCase) notifyIfLow(ctx context.Context, locationID string, entry domain.StockEntry) {
	product, err := c.productRepo.GetByID(ctx, entry.ProductID)
	if err != nil {
		c.logger.Warnf("product lookup for notification failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return
	}

	status := domain.ClassifyEntry(entry, *product)
	if status == domain.StatusLow || status == domain.StatusCritical {
		c.notifications.Record(ctx, domain.SeverityForStatus(status), domain.KindLowStock,
			locationID, entry.ProductID,
			fmt.Sprintf("%s dropped to %d at central, stock is %s", product.Name, entry.Quantity, status))
	}
}
