package pgdb

import (
	"context"
	"encoding/json"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SyncRecordRepo реализует append-only историю проходов сверки поверх PostgreSQL.
type SyncRecordRepo struct {
	pool *pgxpool.Pool
	conv converter.SyncRecordConverter
}

func NewSyncRecordRepo(pool *pgxpool.Pool, conv converter.SyncRecordConverter) *SyncRecordRepo {
	return &SyncRecordRepo{
		pool: pool,
		conv: conv,
	}
}

// Insert фиксирует результат прохода сверки. Пустые проходы сюда не попадают.
func (s *SyncRecordRepo) Insert(ctx context.Context, record *domain.SyncRecord) (*domain.SyncRecord, error) {
	model := s.conv.ToModel(record)

	changes, err := json.Marshal(model.Changes)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	orphaned, err := json.Marshal(model.Orphaned)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO sync_records (branch_id, created_at, changes, orphaned)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	if err := s.pool.QueryRow(ctx, query,
		model.BranchID,
		model.CreatedAt,
		changes,
		orphaned,
	).Scan(&model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(model), nil
}

// ListByBranch возвращает последние записи истории филиала, новейшие первыми.
func (s *SyncRecordRepo) ListByBranch(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error) {
	query := `
		SELECT id, branch_id, created_at, changes, orphaned
		FROM sync_records
		WHERE branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, branchID, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.SyncRecordModel
	for rows.Next() {
		var model converter.SyncRecordModel
		var changes, orphaned []byte

		if err := rows.Scan(&model.ID, &model.BranchID, &model.CreatedAt, &changes, &orphaned); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if err := json.Unmarshal(changes, &model.Changes); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if err := json.Unmarshal(orphaned, &model.Orphaned); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToArrEntity(models), nil
}
