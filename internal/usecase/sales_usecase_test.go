package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

type salesEnv struct {
	uc            *SalesUseCase
	registry      *domain.Registry
	branch        *domain.Ledger
	saleRepo      *mockSaleRepo
	outboxRepo    *mockOutboxRepo
	notifications *NotificationCenter
}

func newSalesEnv(t *testing.T, products ...domain.Product) *salesEnv {
	t.Helper()

	registry := domain.NewRegistry("central", []string{"branch-1"})
	branch, err := registry.Branch("branch-1")
	if err != nil {
		t.Fatalf("branch lookup: %v", err)
	}

	saleRepo := &mockSaleRepo{}
	outboxRepo := &mockOutboxRepo{}
	notifications := NewNotificationCenter(&mockNotificationRepo{}, 0, noopLogger{})

	uc := NewSalesUC(
		registry,
		newMockProductRepo(products...),
		saleRepo,
		newMockStockRepo(),
		outboxRepo,
		newMockCacheRepo(),
		notifications,
		&fakeTxManager{},
		noopLogger{},
	)

	return &salesEnv{
		uc:            uc,
		registry:      registry,
		branch:        branch,
		saleRepo:      saleRepo,
		outboxRepo:    outboxRepo,
		notifications: notifications,
	}
}

func TestRecordSaleDeductsStock(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 20, time.Now(), domain.SourceLocal)})

	res, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 3, time.Now()))
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if res.Entry.Quantity != 17 {
		t.Errorf("remaining quantity = %d, want 17", res.Entry.Quantity)
	}
	if res.Sale.Total != 3*250 {
		t.Errorf("sale total = %d, want %d", res.Sale.Total, 3*250)
	}
	if res.Status != domain.StatusNormal {
		t.Errorf("status = %s, want %s", res.Status, domain.StatusNormal)
	}

	if len(env.saleRepo.sales) != 1 {
		t.Errorf("expected 1 persisted sale, got %d", len(env.saleRepo.sales))
	}
	if len(env.outboxRepo.events) != 1 || env.outboxRepo.events[0].EventType != EventTypeSale {
		t.Errorf("expected 1 sale outbox event, got %+v", env.outboxRepo.events)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 2, time.Now(), domain.SourceLocal)})

	_, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 5, time.Now()))
	if !errors.Is(err, e.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	remaining, err := env.branch.Get(1)
	if err != nil {
		t.Fatalf("entry lookup: %v", err)
	}
	if remaining.Quantity != 2 {
		t.Errorf("rejected sale mutated quantity to %d, want 2", remaining.Quantity)
	}

	if got := env.notifications.List(context.Background(), nil); len(got) != 0 {
		t.Errorf("rejected sale must not notify, got %d notifications", len(got))
	}
	if len(env.saleRepo.sales) != 0 {
		t.Errorf("rejected sale must not be persisted, got %d", len(env.saleRepo.sales))
	}
}

func TestRecordSaleNonPositiveQuantity(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))

	for _, qty := range []int64{0, -1} {
		_, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, qty, time.Now()))
		if !errors.Is(err, e.ErrNonPositiveQuantity) {
			t.Errorf("quantity %d: expected ErrNonPositiveQuantity, got %v", qty, err)
		}
	}
}

func TestRecordSaleArchivedProduct(t *testing.T) {
	archived := testProduct(1)
	archived.IsArchived = true
	env := newSalesEnv(t, archived)
	env.branch.Restore([]domain.StockEntry{entry(1, 10, time.Now(), domain.SourceLocal)})

	_, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 1, time.Now()))
	if !errors.Is(err, e.ErrProductArchived) {
		t.Fatalf("expected ErrProductArchived, got %v", err)
	}
}

func TestRecordSaleNotifiesOnThresholdCrossing(t *testing.T) {
	env := newSalesEnv(t, testProduct(1)) // critical 2, reorder 5
	env.branch.Restore([]domain.StockEntry{entry(1, 6, time.Now(), domain.SourceLocal)})

	// 6 -> 4: переход normal -> low
	if _, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 2, time.Now())); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	feed := env.notifications.List(context.Background(), nil)
	if len(feed) != 2 {
		t.Fatalf("expected sale + low_stock notifications, got %d", len(feed))
	}

	// Лента отдаётся новейшими вперёд: сначала low_stock, затем sale
	if feed[0].Kind != domain.KindLowStock || feed[0].Severity != domain.SeverityWarning {
		t.Errorf("newest notification = %+v, want warning low_stock", feed[0])
	}
	if feed[1].Kind != domain.KindSale {
		t.Errorf("older notification = %+v, want sale", feed[1])
	}
}

func TestRecordSaleNoCrossingSingleNotification(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 50, time.Now(), domain.SourceLocal)})

	if _, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 5, time.Now())); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	feed := env.notifications.List(context.Background(), nil)
	if len(feed) != 1 || feed[0].Kind != domain.KindSale {
		t.Fatalf("expected single sale notification, got %+v", feed)
	}
}

func TestRecordSaleCriticalCrossing(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 4, time.Now(), domain.SourceLocal)})

	// 4 -> 1: переход low -> critical
	res, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 3, time.Now()))
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if res.Status != domain.StatusCritical {
		t.Fatalf("status = %s, want %s", res.Status, domain.StatusCritical)
	}

	critical := env.notifications.List(context.Background(), &NotificationFilter{
		Severity: domain.SeverityCritical,
		Kind:     domain.KindLowStock,
	})
	if len(critical) != 1 {
		t.Errorf("expected 1 critical low_stock notification, got %d", len(critical))
	}
}

func TestRecordSaleCompensatesOnPersistFailure(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 10, time.Now(), domain.SourceLocal)})
	env.saleRepo.failInsert = true

	_, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 4, time.Now()))
	if err == nil {
		t.Fatal("expected persist failure to surface")
	}

	restored, err := env.branch.Get(1)
	if err != nil {
		t.Fatalf("entry lookup: %v", err)
	}
	if restored.Quantity != 10 {
		t.Errorf("quantity after compensation = %d, want 10", restored.Quantity)
	}
	if got := env.notifications.List(context.Background(), nil); len(got) != 0 {
		t.Errorf("failed sale must not notify, got %d notifications", len(got))
	}
}

func TestRecordSaleConcurrentConservation(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 100, time.Now(), domain.SourceLocal)})

	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 2, time.Now()))
		}()
	}
	wg.Wait()

	remaining, err := env.branch.Get(1)
	if err != nil {
		t.Fatalf("entry lookup: %v", err)
	}
	if remaining.Quantity != 100-workers*2 {
		t.Errorf("remaining quantity = %d, want %d", remaining.Quantity, 100-workers*2)
	}
}

func TestSalesStats(t *testing.T) {
	env := newSalesEnv(t, testProduct(1))
	env.branch.Restore([]domain.StockEntry{entry(1, 100, time.Now(), domain.SourceLocal)})

	for i := 0; i < 4; i++ {
		if _, err := env.uc.RecordSale(context.Background(), NewRecordSaleReq("branch-1", 1, 2, time.Now())); err != nil {
			t.Fatalf("record sale %d: %v", i, err)
		}
	}

	stats, err := env.uc.Stats(context.Background(), "branch-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalSales != 4 {
		t.Errorf("total sales = %d, want 4", stats.TotalSales)
	}
	if stats.TotalRevenue != 4*2*250 {
		t.Errorf("total revenue = %d, want %d", stats.TotalRevenue, 4*2*250)
	}

	if _, err := env.uc.Stats(context.Background(), "branch-404"); !errors.Is(err, e.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound for unknown location, got %v", err)
	}
}
