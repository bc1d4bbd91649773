package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
)

type applyEnv struct {
	uc            *CentralApplyUseCase
	central       *domain.Ledger
	stockRepo     *mockStockRepo
	cacheRepo     *mockCacheRepo
	notifications *NotificationCenter
}

func newApplyEnv(t *testing.T, products ...domain.Product) *applyEnv {
	t.Helper()

	registry := domain.NewRegistry("central", []string{"branch-1"})
	stockRepo := newMockStockRepo()
	cacheRepo := newMockCacheRepo()
	notifications := NewNotificationCenter(&mockNotificationRepo{}, 0, noopLogger{})

	uc := NewCentralApplyUC(
		registry,
		newMockProductRepo(products...),
		stockRepo,
		cacheRepo,
		newMockIdempotencyRepo(),
		notifications,
		noopLogger{},
	)

	return &applyEnv{
		uc:            uc,
		central:       registry.Central(),
		stockRepo:     stockRepo,
		cacheRepo:     cacheRepo,
		notifications: notifications,
	}
}

func saleEvent(eventID string, productID, qty int64, ts time.Time) *SaleEventPayload {
	return &SaleEventPayload{
		EventType:  EventTypeSale,
		EventID:    eventID,
		LocationID: "branch-1",
		ProductID:  productID,
		Quantity:   qty,
		Timestamp:  ts.UnixNano(),
	}
}

func TestApplySaleEventDeductsCentralStock(t *testing.T) {
	env := newApplyEnv(t, testProduct(1))
	now := time.Now()
	env.central.Resolve(1, 10, now)

	if err := env.uc.ApplySaleEvent(context.Background(), saleEvent("evt-1", 1, 3, now)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := env.central.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 7 {
		t.Fatalf("central quantity = %d, want 7", got.Quantity)
	}

	env.stockRepo.mu.Lock()
	persisted := env.stockRepo.entries["central"][1]
	env.stockRepo.mu.Unlock()
	if persisted.Quantity != 7 {
		t.Fatalf("persisted quantity = %d, want 7", persisted.Quantity)
	}
}

func TestApplySaleEventDuplicateSkipped(t *testing.T) {
	env := newApplyEnv(t, testProduct(1))
	now := time.Now()
	env.central.Resolve(1, 10, now)

	event := saleEvent("evt-dup", 1, 3, now)
	for i := 0; i < 3; i++ {
		if err := env.uc.ApplySaleEvent(context.Background(), event); err != nil {
			t.Fatalf("apply #%d: %v", i, err)
		}
	}

	got, err := env.central.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 7 {
		t.Fatalf("central quantity = %d after redelivery, want 7", got.Quantity)
	}
}

func TestApplySaleEventUnderflowDefersToSync(t *testing.T) {
	env := newApplyEnv(t, testProduct(1))
	now := time.Now()
	env.central.Resolve(1, 2, now)

	if err := env.uc.ApplySaleEvent(context.Background(), saleEvent("evt-under", 1, 5, now)); err != nil {
		t.Fatalf("underflow must not be an error: %v", err)
	}

	got, err := env.central.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 2 {
		t.Fatalf("central quantity = %d, want 2 untouched", got.Quantity)
	}

	env.stockRepo.mu.Lock()
	upserts := env.stockRepo.upserts
	env.stockRepo.mu.Unlock()
	if upserts != 0 {
		t.Fatalf("upserts = %d, want 0", upserts)
	}
}

func TestApplySaleEventEmitsLowStockNotification(t *testing.T) {
	env := newApplyEnv(t, testProduct(1))
	now := time.Now()
	env.central.Resolve(1, 6, now)

	if err := env.uc.ApplySaleEvent(context.Background(), saleEvent("evt-low", 1, 2, now)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	feed := env.notifications.List(context.Background(), &NotificationFilter{Kind: domain.KindLowStock})
	if len(feed) != 1 {
		t.Fatalf("low stock notifications = %d, want 1", len(feed))
	}
	if feed[0].LocationID != "central" {
		t.Fatalf("notification location = %q, want central", feed[0].LocationID)
	}
}
