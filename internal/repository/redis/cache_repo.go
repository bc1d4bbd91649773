package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/clients"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует инвентарные листинги локаций целиком. Листинг хранится
// одним JSON-значением: он читается и инвалидируется только как единое целое.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.InventoryItemConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.InventoryItemConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetInventory возвращает закэшированный листинг локации или nil при промахе.
func (c *CacheRepo) GetInventory(ctx context.Context, locationID string) ([]usecase.InventoryItem, error) {
	data, err := c.client.Client.Get(ctx, c.inventoryKey(locationID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}

		c.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.InventoryItemRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(context.Background(), c.inventoryKey(locationID)).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // cache miss
	}

	return c.conv.ToArrUseCase(models), nil
}

// SetInventory кэширует листинг локации с настроенным TTL.
// Ошибки сериализации и записи логируются и не прерывают вызывающего.
func (c *CacheRepo) SetInventory(ctx context.Context, locationID string, items []usecase.InventoryItem) error {
	models := c.conv.ToArrRedisModel(items)

	data, err := json.Marshal(models)
	if err != nil {
		c.logger.Warnf("Failed to marshal inventory for caching (location: %s): %v",
			locationID, e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := c.client.Client.Set(ctx, c.inventoryKey(locationID), data, c.cfg.InventoryTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteInventory инвалидирует листинги перечисленных локаций.
func (c *CacheRepo) DeleteInventory(ctx context.Context, locationIDs ...string) error {
	if len(locationIDs) == 0 {
		return nil
	}

	keys := make([]string, len(locationIDs))
	for i, id := range locationIDs {
		keys[i] = c.inventoryKey(id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// inventoryKey возвращает Redis-ключ листинга локации.
func (c *CacheRepo) inventoryKey(locationID string) string {
	return fmt.Sprintf("inventory:%s", locationID)
}
