package pgdb

import (
	"context"
	"errors"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий каталога товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

const productColumns = `id, name, category, price, reorder_threshold, critical_threshold,
	created_at, updated_at, is_archived`

// Create вставляет новый товар каталога. Выполняется в транзакции вызывающего:
// создание товара и outbox-событие фиксируются вместе.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, category, price, reorder_threshold, critical_threshold)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`

	if err := tx.QueryRow(ctx, query,
		model.Name,
		model.Category,
		model.Price,
		model.ReorderThreshold,
		model.CriticalThreshold,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Update обновляет атрибуты товара. Архивированный товар не обновляется.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2,
			category = $3,
			price = $4,
			reorder_threshold = $5,
			critical_threshold = $6,
			updated_at = NOW()
		WHERE id = $1 AND NOT is_archived
		RETURNING ` + productColumns + `;
	`

	if err := tx.QueryRow(ctx, query,
		model.ID,
		model.Name,
		model.Category,
		model.Price,
		model.ReorderThreshold,
		model.CriticalThreshold,
	).Scan(
		&model.ID, &model.Name, &model.Category, &model.Price,
		&model.ReorderThreshold, &model.CriticalThreshold,
		&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Archive помечает товар архивированным. Запись не удаляется: история продаж
// и записи леджеров продолжают ссылаться на неё.
func (p *ProductRepo) Archive(ctx context.Context, id int64) error {
	query := `
		UPDATE products
		SET is_archived = true, updated_at = NOW()
		WHERE id = $1 AND NOT is_archived
	`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// GetByID возвращает товар по идентификатору, включая архивированные.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var model converter.ProductModel
	if err := p.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Name, &model.Category, &model.Price,
		&model.ReorderThreshold, &model.CriticalThreshold,
		&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает все неархивированные товары, упорядоченные по идентификатору.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE NOT is_archived ORDER BY id`

	models, err := p.queryProducts(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// Catalog возвращает срез каталога для прохода сверки.
func (p *ProductRepo) Catalog(ctx context.Context) (domain.Catalog, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE NOT is_archived`

	models, err := p.queryProducts(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog := make(domain.Catalog, len(models))
	for _, model := range models {
		catalog[model.ID] = *p.conv.ToEntity(model)
	}

	return catalog, nil
}

func (p *ProductRepo) queryProducts(ctx context.Context, query string) ([]*converter.ProductModel, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []*converter.ProductModel
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Category, &model.Price,
			&model.ReorderThreshold, &model.CriticalThreshold,
			&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
		); err != nil {
			return nil, err
		}

		models = append(models, &model)
	}

	return models, rows.Err()
}
