package pgdb

import (
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SaleRepo реализует append-only историю продаж поверх PostgreSQL.
type SaleRepo struct {
	pool *pgxpool.Pool
	conv converter.SaleConverter
}

func NewSaleRepo(pool *pgxpool.Pool, conv converter.SaleConverter) *SaleRepo {
	return &SaleRepo{
		pool: pool,
		conv: conv,
	}
}

// Insert фиксирует продажу. Выполняется в транзакции вызывающего: продажа,
// запись леджера и outbox-событие фиксируются вместе.
func (s *SaleRepo) Insert(ctx context.Context, sale *domain.Sale) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := s.conv.ToModel(sale)
	query := `
		INSERT INTO sales (id, location_id, product_id, quantity, unit_price, total, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	if _, err := tx.Exec(ctx, query,
		model.ID,
		model.LocationID,
		model.ProductID,
		model.Quantity,
		model.UnitPrice,
		model.Total,
		model.RecordedAt,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Stats возвращает агрегаты по истории продаж локации.
func (s *SaleRepo) Stats(ctx context.Context, locationID string) (*usecase.SalesStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)::bigint
		FROM sales
		WHERE location_id = $1
	`

	var stats usecase.SalesStats
	if err := s.pool.QueryRow(ctx, query, locationID).
		Scan(&stats.TotalSales, &stats.TotalRevenue, &stats.AverageSale); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}
