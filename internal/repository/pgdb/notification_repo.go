package pgdb

import (
	"context"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// NotificationRepo — durable копия ленты уведомлений поверх PostgreSQL.
type NotificationRepo struct {
	pool *pgxpool.Pool
	conv converter.NotificationConverter
}

func NewNotificationRepo(pool *pgxpool.Pool, conv converter.NotificationConverter) *NotificationRepo {
	return &NotificationRepo{
		pool: pool,
		conv: conv,
	}
}

// Insert фиксирует уведомление. Повторная вставка того же идентификатора
// игнорируется: лента в памяти уже содержит запись.
func (n *NotificationRepo) Insert(ctx context.Context, notification *domain.Notification) error {
	model := n.conv.ToModel(notification)
	query := `
		INSERT INTO notifications (id, created_at, severity, kind, location_id, product_id, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`

	if _, err := n.pool.Exec(ctx, query,
		model.ID,
		model.CreatedAt,
		model.Severity,
		model.Kind,
		model.LocationID,
		model.ProductID,
		model.Message,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListRecent возвращает хвост ленты уведомлений в порядке создания,
// старейшие первыми.
func (n *NotificationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, created_at, severity, kind, location_id, product_id, message
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := n.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var model converter.NotificationModel
		if err := rows.Scan(
			&model.ID,
			&model.CreatedAt,
			&model.Severity,
			&model.Kind,
			&model.LocationID,
			&model.ProductID,
			&model.Message,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *n.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Запрос отдаёт новейшие первыми, лента хранится в порядке создания
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}
