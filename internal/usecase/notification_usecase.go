package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// NotificationCenter ведёт упорядоченную append-only ленту уведомлений.
// Уведомления никогда не изменяются и не удаляются, кроме усечения до
// настроенного максимума (старейшие отбрасываются первыми).
type NotificationCenter struct {
	mu      sync.Mutex
	feed    []domain.Notification // порядок создания, новейшие в конце
	maxFeed int
	nextSub int64
	subs    map[int64]chan domain.Notification

	repo   NotificationRepository
	logger logger.Logger
}

func NewNotificationCenter(repo NotificationRepository, maxFeed int, logger logger.Logger) *NotificationCenter {
	const defaultMaxFeed = 1000

	if maxFeed <= 0 {
		maxFeed = defaultMaxFeed
	}

	return &NotificationCenter{
		feed:    make([]domain.Notification, 0),
		maxFeed: maxFeed,
		subs:    make(map[int64]chan domain.Notification),
		repo:    repo,
		logger:  logger,
	}
}

// Restore заполняет ленту из durable-копии при старте.
// Принимает уведомления в порядке создания; подписчикам ничего не рассылается.
func (n *NotificationCenter) Restore(notifications []domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.feed = append(n.feed[:0], notifications...)
	if len(n.feed) > n.maxFeed {
		n.feed = n.feed[len(n.feed)-n.maxFeed:]
	}
}

// Record создаёт уведомление, добавляет его в ленту и рассылает подписчикам.
// Ошибка записи в хранилище не теряет уведомление из ленты — оно уже добавлено.
func (n *NotificationCenter) Record(ctx context.Context, severity domain.Severity,
	kind domain.NotificationKind, locationID string, productID int64, message string) *domain.Notification {

	notification := domain.NewNotification(
		uuid.NewString(),
		time.Now(),
		severity,
		kind,
		locationID,
		productID,
		message,
	)

	n.mu.Lock()
	n.feed = append(n.feed, *notification)
	if len(n.feed) > n.maxFeed {
		n.feed = n.feed[len(n.feed)-n.maxFeed:]
	}
	for _, sub := range n.subs {
		// Медленный подписчик пропускает уведомление, лента не блокируется
		select {
		case sub <- *notification:
		default:
		}
	}
	n.mu.Unlock()

	if err := n.repo.Insert(ctx, notification); err != nil {
		n.logger.Warnf("failed to persist notification: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return notification
}

// List возвращает уведомления, новейшие первыми, с необязательной фильтрацией
// по серьёзности, типу и локации.
func (n *NotificationCenter) List(ctx context.Context, filter *NotificationFilter) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	result := make([]domain.Notification, 0, len(n.feed))
	for i := len(n.feed) - 1; i >= 0; i-- {
		notification := n.feed[i]

		if filter != nil {
			if filter.Severity != "" && notification.Severity != filter.Severity {
				continue
			}
			if filter.Kind != "" && notification.Kind != filter.Kind {
				continue
			}
			if filter.LocationID != "" && notification.LocationID != filter.LocationID {
				continue
			}
			if filter.Limit > 0 && len(result) >= filter.Limit {
				break
			}
		}

		result = append(result, notification)
	}

	return result
}

// Subscribe регистрирует потребителя новых уведомлений.
// Возвращённая функция отменяет подписку и закрывает канал.
func (n *NotificationCenter) Subscribe() (<-chan domain.Notification, func()) {
	const subBuffer = 64

	ch := make(chan domain.Notification, subBuffer)

	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = ch
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
		n.mu.Unlock()
	}

	return ch, cancel
}
