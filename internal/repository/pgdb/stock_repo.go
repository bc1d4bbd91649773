package pgdb

import (
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// StockRepo — durable write-through копия леджеров поверх PostgreSQL.
// Источником истины в работающем процессе остаются леджеры в памяти,
// таблица служит для восстановления состояния при старте.
type StockRepo struct {
	pool *pgxpool.Pool
	conv converter.StockEntryConverter
}

func NewStockRepo(pool *pgxpool.Pool, conv converter.StockEntryConverter) *StockRepo {
	return &StockRepo{
		pool: pool,
		conv: conv,
	}
}

// LoadLedger возвращает все записи леджера локации для восстановления при старте.
func (s *StockRepo) LoadLedger(ctx context.Context, locationID string) ([]domain.StockEntry, error) {
	query := `
		SELECT location_id, product_id, quantity, updated_at, source
		FROM stock_entries
		WHERE location_id = $1
		ORDER BY product_id
	`

	rows, err := s.pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.StockEntryModel
	for rows.Next() {
		var model converter.StockEntryModel
		if err := rows.Scan(
			&model.LocationID, &model.ProductID, &model.Quantity,
			&model.UpdatedAt, &model.Source,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToArrEntity(models), nil
}

// UpsertEntry записывает актуальное значение записи леджера.
// Если в контексте есть транзакция, запись идёт через неё (путь продажи),
// иначе напрямую через пул (write-through движка сверки).
func (s *StockRepo) UpsertEntry(ctx context.Context, locationID string, entry domain.StockEntry) error {
	model := s.conv.ToModel(locationID, entry)
	query := `
		INSERT INTO stock_entries (location_id, product_id, quantity, updated_at, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (location_id, product_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at,
			source = EXCLUDED.source;
	`

	if _, err := s.execer(ctx).Exec(ctx, query,
		model.LocationID,
		model.ProductID,
		model.Quantity,
		model.UpdatedAt,
		model.Source,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type pgExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (s *StockRepo) execer(ctx context.Context) pgExecer {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}

	return s.pool
}
