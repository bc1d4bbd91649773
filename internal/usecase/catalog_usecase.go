package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// CatalogUseCase реализует бизнес-логику управления каталогом товаров.
// Каталог — единственный владелец записей Product; везде дальше товары
// передаются по идентификатору.
type CatalogUseCase struct {
	registry    *domain.Registry
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewCatalogUC(
	registry *domain.Registry,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		registry:    registry,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// RegisterProduct создаёт новый товар каталога.
// Пороги проверяются на создании: критический строго меньше порога дозаказа.
func (c *CatalogUseCase) RegisterProduct(ctx context.Context, req *RegisterProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.RegisterProduct"

	if err := validateProduct(req.Name, req.Price, req.ReorderThreshold, req.CriticalThreshold); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Category, req.Price, req.ReorderThreshold, req.CriticalThreshold)

	created, err := c.withCatalogTx(ctx, func(txCtx context.Context) (*domain.Product, error) {
		return c.productRepo.Create(txCtx, product)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateListings(ctx)

	return created, nil
}

// UpdateProduct обновляет атрибуты существующего товара.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	if err := validateProduct(req.Name, req.Price, req.ReorderThreshold, req.CriticalThreshold); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Category, req.Price, req.ReorderThreshold, req.CriticalThreshold)
	product.ID = req.ID

	updated, err := c.withCatalogTx(ctx, func(txCtx context.Context) (*domain.Product, error) {
		return c.productRepo.Update(txCtx, product)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateListings(ctx)

	return updated, nil
}

// ArchiveProduct выводит товар из каталога. Остатки по нему не трогаются:
// при следующих проходах сверки он будет помечаться как orphaned.
func (c *CatalogUseCase) ArchiveProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.ArchiveProduct"

	if err := c.productRepo.Archive(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateListings(ctx)

	return nil
}

// ListProducts возвращает все неархивированные товары каталога.
func (c *CatalogUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// withCatalogTx выполняет изменение каталога и постановку outbox-события
// в одной транзакции.
func (c *CatalogUseCase) withCatalogTx(ctx context.Context,
	mutate func(ctx context.Context) (*domain.Product, error)) (*domain.Product, error) {

	var err error

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := mutate(ctx)
	if err != nil {
		return nil, err
	}

	payload, merr := json.Marshal(map[string]any{
		"event_type": EventTypeCatalog,
		"product_id": product.ID,
		"name":       product.Name,
	})
	if merr != nil {
		err = merr
		return nil, err
	}

	event := NewOutboxEvent(uuid.NewString(), EventTypeCatalog, c.registry.Central().LocationID(),
		payload, product.CreatedAt)
	if _, err = c.outboxRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return product, nil
}

// invalidateListings сбрасывает кэш листингов всех локаций: атрибуты товара
// входят в аннотированный листинг каждой из них.
func (c *CatalogUseCase) invalidateListings(ctx context.Context) {
	locations := append(c.registry.BranchIDs(), c.registry.Central().LocationID())
	if err := c.cacheRepo.DeleteInventory(ctx, locations...); err != nil {
		c.logger.Warnf("failed to invalidate inventory cache: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// validateProduct проверяет корректность атрибутов товара.
func validateProduct(name string, price, reorder, critical int64) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if price <= 0 {
		return e.ErrInvalidPrice
	}

	if critical < 0 || reorder < 0 || critical >= reorder {
		return e.ErrInvalidThresholds
	}

	return nil
}
