package redis

import (
	"context"
	"fmt"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/pkg/clients"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// IdempotencyRepo хранит идентификаторы уже обработанных событий.
// Ключ живёт ограниченное время: дубликаты приходят в пределах окна ретраев брокера.
type IdempotencyRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewIdempotencyRepo(client *clients.RedisClient, cfg *cfg.RedisCfg) *IdempotencyRepo {
	return &IdempotencyRepo{
		client: client,
		cfg:    cfg,
	}
}

// SetIfAbsent атомарно помечает событие обработанным.
// Возвращает false, если событие уже было помечено ранее.
func (i *IdempotencyRepo) SetIfAbsent(ctx context.Context, key string) (bool, error) {
	ok, err := i.client.Client.SetNX(ctx, i.eventKey(key), 1, i.cfg.IdempotencyTTL).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}

func (i *IdempotencyRepo) eventKey(key string) string {
	return fmt.Sprintf("event:%s", key)
}
