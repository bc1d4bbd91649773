package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Consumer — групповой потребитель событий инвентаря на центральном узле.
// Применяет события продаж филиалов к центральному леджеру; остальные типы
// событий пропускает.
type Consumer struct {
	reader  *kafka.Reader
	applyUC *usecase.CentralApplyUseCase
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewConsumer(applyUC *usecase.CentralApplyUseCase, logger logger.Logger, cfg *cfg.KafkaCfg) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:  reader,
		applyUC: applyUC,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
}

func (c *Consumer) Stop() error {
	err := c.reader.Close()
	c.wg.Wait()
	return err
}

func (c *Consumer) run(ctx context.Context) {
	c.logger.Infof("Kafka consumer started, group: %s", c.reader.Config().GroupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.Infof("Kafka consumer stopped")
				return
			}

			c.logger.Warnf("fetch message failed: %v", err)
			continue
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			// Сообщение не коммитится и будет доставлено повторно
			c.logger.Warnf("message at offset %d failed: %v", msg.Offset, err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warnf("commit failed: %v", err)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var envelope struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		// Нечитаемое сообщение ретраями не чинится
		c.logger.Warnf("malformed event at offset %d skipped: %v", msg.Offset, err)
		return nil
	}

	switch envelope.EventType {
	case usecase.EventTypeSale:
		var payload usecase.SaleEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			c.logger.Warnf("malformed sale event at offset %d skipped: %v", msg.Offset, err)
			return nil
		}

		return c.applyUC.ApplySaleEvent(ctx, &payload)

	default:
		// sync_completed и catalog_changed потребляются внешними системами
		return nil
	}
}
