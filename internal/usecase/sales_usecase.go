package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// SalesUseCase проводит продажи: валидирует запрос, списывает остаток через
// леджер локации и порождает уведомления и событие для центрального узла.
// Продажа никогда не применяется частично.
type SalesUseCase struct {
	registry      *domain.Registry
	productRepo   ProductRepository
	saleRepo      SaleRepository
	stockRepo     StockRepository
	outboxRepo    OutboxRepository
	cacheRepo     CacheRepository
	notifications *NotificationCenter
	dbPool        transaction.Transactional
	logger        logger.Logger
}

func NewSalesUC(
	registry *domain.Registry,
	productRepo ProductRepository,
	saleRepo SaleRepository,
	stockRepo StockRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	notifications *NotificationCenter,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *SalesUseCase {
	return &SalesUseCase{
		registry:      registry,
		productRepo:   productRepo,
		saleRepo:      saleRepo,
		stockRepo:     stockRepo,
		outboxRepo:    outboxRepo,
		cacheRepo:     cacheRepo,
		notifications: notifications,
		dbPool:        dbPool,
		logger:        logger,
	}
}

// RecordSale обрабатывает одну продажу.
// При нехватке остатка возвращается e.ErrInsufficientStock без какой-либо мутации.
func (s *SalesUseCase) RecordSale(ctx context.Context, req *RecordSaleReq) (*RecordSaleRes, error) {
	const op = "SalesUseCase.RecordSale"

	if req.Quantity <= 0 {
		return nil, e.Wrap(op, e.ErrNonPositiveQuantity)
	}

	ledger, err := s.registry.Ledger(req.LocationID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if product.IsArchived {
		return nil, e.Wrap(op, e.ErrProductArchived)
	}

	// Статус до продажи: отсутствие записи приведёт к отказу ApplyDelta ниже
	var prevStatus domain.StockStatus
	if prev, err := ledger.Get(req.ProductID); err == nil {
		prevStatus = domain.ClassifyEntry(prev, *product)
	}

	entry, err := ledger.ApplyDelta(req.ProductID, -req.Quantity, domain.SourceLocal, req.Timestamp)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	sale := domain.NewSale(uuid.NewString(), req.LocationID, req.ProductID, req.Quantity, product.Price, req.Timestamp)

	if err := s.persistSale(ctx, sale, entry); err != nil {
		// Компенсация: откат уже применённого списания, продажа не состоялась
		if _, restoreErr := ledger.ApplyDelta(req.ProductID, req.Quantity, domain.SourceLocal, req.Timestamp); restoreErr != nil {
			s.logger.Errorf(restoreErr, "failed to restore ledger after persist failure, location: %s, product: %d",
				req.LocationID, req.ProductID)
		}
		return nil, e.Wrap(op, err)
	}

	status := domain.ClassifyEntry(entry, *product)

	s.notifications.Record(ctx, domain.SeverityInfo, domain.KindSale, req.LocationID, req.ProductID,
		fmt.Sprintf("sold %dx %s for %d", req.Quantity, product.Name, sale.Total))

	// Уведомление о низком остатке — только при пересечении порога
	if status != prevStatus && (status == domain.StatusLow || status == domain.StatusCritical) {
		s.notifications.Record(ctx, domain.SeverityForStatus(status), domain.KindLowStock,
			req.LocationID, req.ProductID,
			fmt.Sprintf("%s dropped to %d, stock is %s", product.Name, entry.Quantity, status))
	}

	if err := s.cacheRepo.DeleteInventory(ctx, req.LocationID); err != nil {
		s.logger.Warnf("failed to invalidate inventory cache: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return &RecordSaleRes{
		Sale:   sale,
		Entry:  entry,
		Status: status,
	}, nil
}

// Stats возвращает агрегаты по истории продаж локации.
func (s *SalesUseCase) Stats(ctx context.Context, locationID string) (*SalesStats, error) {
	const op = "SalesUseCase.Stats"

	if _, err := s.registry.Ledger(locationID); err != nil {
		return nil, e.Wrap(op, err)
	}

	stats, err := s.saleRepo.Stats(ctx, locationID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

// persistSale атомарно фиксирует продажу, write-through копию записи леджера
// и outbox-событие для центрального узла в одной транзакции.
func (s *SalesUseCase) persistSale(ctx context.Context, sale *domain.Sale, entry domain.StockEntry) error {
	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = s.saleRepo.Insert(ctx, sale); err != nil {
		return err
	}

	if err = s.stockRepo.UpsertEntry(ctx, sale.LocationID, entry); err != nil {
		return err
	}

	payload, merr := json.Marshal(SaleEventPayload{
		EventType:  EventTypeSale,
		EventID:    sale.ID,
		LocationID: sale.LocationID,
		ProductID:  sale.ProductID,
		Quantity:   sale.Quantity,
		Total:      sale.Total,
		Timestamp:  sale.Timestamp.UnixNano(),
	})
	if merr != nil {
		err = merr
		return err
	}

	event := NewOutboxEvent(sale.ID, EventTypeSale, sale.LocationID, payload, sale.Timestamp)
	if _, err = s.outboxRepo.Create(ctx, event); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}
