package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

type syncEnv struct {
	uc            *SyncUseCase
	registry      *domain.Registry
	branch        *domain.Ledger
	central       *domain.Ledger
	syncRepo      *mockSyncRepo
	stockRepo     *mockStockRepo
	outboxRepo    *mockOutboxRepo
	cacheRepo     *mockCacheRepo
	notifications *NotificationCenter
}

func newSyncEnv(t *testing.T, products ...domain.Product) *syncEnv {
	t.Helper()

	registry := domain.NewRegistry("central", []string{"branch-1", "branch-2"})
	branch, err := registry.Branch("branch-1")
	if err != nil {
		t.Fatalf("branch lookup: %v", err)
	}

	syncRepo := &mockSyncRepo{}
	stockRepo := newMockStockRepo()
	outboxRepo := &mockOutboxRepo{}
	cacheRepo := newMockCacheRepo()
	notifications := NewNotificationCenter(&mockNotificationRepo{}, 0, noopLogger{})

	uc := NewSyncUC(
		registry,
		newMockProductRepo(products...),
		syncRepo,
		stockRepo,
		outboxRepo,
		cacheRepo,
		notifications,
		noopLogger{},
	)

	return &syncEnv{
		uc:            uc,
		registry:      registry,
		branch:        branch,
		central:       registry.Central(),
		syncRepo:      syncRepo,
		stockRepo:     stockRepo,
		outboxRepo:    outboxRepo,
		cacheRepo:     cacheRepo,
		notifications: notifications,
	}
}

func testProduct(id int64) domain.Product {
	return domain.Product{
		ID:                id,
		Name:              "milk",
		Category:          "dairy",
		Price:             250,
		ReorderThreshold:  5,
		CriticalThreshold: 2,
	}
}

func entry(productID, qty int64, ts time.Time, source domain.UpdateSource) domain.StockEntry {
	return domain.StockEntry{
		ProductID: productID,
		Quantity:  qty,
		UpdatedAt: ts,
		Source:    source,
	}
}

func TestReconcileLWWPicksNewerSide(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 5, base.Add(10*time.Second), domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 8, base.Add(20*time.Second), domain.SourceLocal)})

	record, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(record.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(record.Changes))
	}
	change := record.Changes[0]
	if change.Reason != domain.ReasonLWWCentral {
		t.Errorf("expected reason %s, got %s", domain.ReasonLWWCentral, change.Reason)
	}
	if change.ResolvedQty != 8 {
		t.Errorf("expected resolved quantity 8, got %d", change.ResolvedQty)
	}
	if change.PrevBranchQty == nil || *change.PrevBranchQty != 5 {
		t.Errorf("expected previous branch quantity 5, got %v", change.PrevBranchQty)
	}
	if change.PrevCentralQty == nil || *change.PrevCentralQty != 8 {
		t.Errorf("expected previous central quantity 8, got %v", change.PrevCentralQty)
	}

	resolved, err := env.branch.Get(1)
	if err != nil {
		t.Fatalf("branch entry: %v", err)
	}
	if resolved.Quantity != 8 {
		t.Errorf("branch quantity after resolution = %d, want 8", resolved.Quantity)
	}
	if resolved.Source != domain.SourceSync {
		t.Errorf("resolved entry source = %s, want %s", resolved.Source, domain.SourceSync)
	}

	centralEntry, err := env.central.Get(1)
	if err != nil {
		t.Fatalf("central entry: %v", err)
	}
	if centralEntry.Quantity != 8 {
		t.Errorf("central quantity changed to %d, want 8 untouched", centralEntry.Quantity)
	}
}

func TestReconcileTimestampTieFavorsBranch(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	ts := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 3, ts, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 7, ts, domain.SourceLocal)})

	record, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(record.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(record.Changes))
	}
	if record.Changes[0].Reason != domain.ReasonLWWBranch {
		t.Errorf("expected reason %s, got %s", domain.ReasonLWWBranch, record.Changes[0].Reason)
	}

	centralEntry, err := env.central.Get(1)
	if err != nil {
		t.Fatalf("central entry: %v", err)
	}
	if centralEntry.Quantity != 3 {
		t.Errorf("central quantity = %d, want branch value 3", centralEntry.Quantity)
	}
}

func TestReconcileAdoptsMissingEntries(t *testing.T) {
	env := newSyncEnv(t, testProduct(1), testProduct(2))

	ts := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(2, 4, ts, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 12, ts, domain.SourceLocal)})

	record, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(record.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(record.Changes))
	}

	// План упорядочен по идентификатору товара
	if record.Changes[0].ProductID != 1 || record.Changes[0].Reason != domain.ReasonBranchMissing {
		t.Errorf("change 0 = %+v, want product 1 adopted into branch", record.Changes[0])
	}
	if record.Changes[1].ProductID != 2 || record.Changes[1].Reason != domain.ReasonCentralMissing {
		t.Errorf("change 1 = %+v, want product 2 adopted into central", record.Changes[1])
	}

	branchEntry, err := env.branch.Get(1)
	if err != nil || branchEntry.Quantity != 12 {
		t.Errorf("branch entry for product 1 = %+v, %v; want quantity 12", branchEntry, err)
	}
	centralEntry, err := env.central.Get(2)
	if err != nil || centralEntry.Quantity != 4 {
		t.Errorf("central entry for product 2 = %+v, %v; want quantity 4", centralEntry, err)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	env := newSyncEnv(t, testProduct(1), testProduct(2))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 5, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{
		entry(1, 9, base.Add(time.Second), domain.SourceLocal),
		entry(2, 6, base, domain.SourceLocal),
	})

	first, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if first.Empty() {
		t.Fatal("first pass expected to produce changes")
	}

	branchBefore := env.branch.Snapshot()
	centralBefore := env.central.Snapshot()

	second, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if !second.Empty() {
		t.Errorf("second pass expected empty, got %d changes, %d orphaned",
			len(second.Changes), len(second.Orphaned))
	}

	if !reflect.DeepEqual(env.branch.Snapshot(), branchBefore) {
		t.Error("second pass mutated branch ledger")
	}
	if !reflect.DeepEqual(env.central.Snapshot(), centralBefore) {
		t.Error("second pass mutated central ledger")
	}

	// Пустой проход не попадает в историю
	if len(env.syncRepo.records) != 1 {
		t.Errorf("expected 1 history record, got %d", len(env.syncRepo.records))
	}
}

func TestReconcileEqualQuantitiesProduceNoChange(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 10, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 10, base.Add(time.Hour), domain.SourceLocal)})

	record, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if !record.Empty() {
		t.Errorf("expected empty record for matching quantities, got %+v", record)
	}
	if len(env.syncRepo.records) != 0 {
		t.Errorf("empty pass must not be recorded, got %d records", len(env.syncRepo.records))
	}
}

func TestReconcileReportsOrphanedWithoutMutation(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	ts := time.Now()
	env.branch.Restore([]domain.StockEntry{
		entry(1, 5, ts, domain.SourceLocal),
		entry(99, 7, ts, domain.SourceLocal), // нет в каталоге
	})
	env.central.Restore([]domain.StockEntry{entry(1, 5, ts, domain.SourceLocal)})

	record, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(record.Orphaned) != 1 || record.Orphaned[0] != 99 {
		t.Fatalf("expected orphaned [99], got %v", record.Orphaned)
	}
	if len(record.Changes) != 0 {
		t.Errorf("orphaned entry must not produce changes, got %+v", record.Changes)
	}

	orphan, err := env.branch.Get(99)
	if err != nil {
		t.Fatalf("orphaned entry lookup: %v", err)
	}
	if orphan.Quantity != 7 || orphan.Source != domain.SourceLocal {
		t.Errorf("orphaned entry mutated: %+v", orphan)
	}
	if _, err := env.central.Get(99); !errors.Is(err, e.ErrEntryNotFound) {
		t.Error("orphaned entry must not be adopted into central")
	}

	// Проход без изменений публикует сводку, даже если нашёл orphaned
	summaries := env.notifications.List(context.Background(), &NotificationFilter{
		Severity: domain.SeverityInfo,
		Kind:     domain.KindSync,
	})
	if len(summaries) != 1 {
		t.Fatalf("expected 1 info sync notification for a zero-change pass, got %d", len(summaries))
	}
}

func TestReconcileSnapshotDuplicateAbortsPass(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	ts := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 5, ts, domain.SourceLocal)})
	branchBefore := env.branch.Snapshot()
	centralBefore := env.central.Snapshot()

	snapshot := []domain.StockEntry{
		entry(1, 3, ts, domain.SourceLocal),
		entry(1, 4, ts, domain.SourceLocal),
	}

	_, err := env.uc.ReconcileSnapshot(context.Background(), NewReconcileSnapshotReq("branch-1", snapshot))
	if !errors.Is(err, e.ErrDuplicateSnapshotEntry) {
		t.Fatalf("expected ErrDuplicateSnapshotEntry, got %v", err)
	}

	if !reflect.DeepEqual(env.branch.Snapshot(), branchBefore) {
		t.Error("aborted pass mutated branch ledger")
	}
	if !reflect.DeepEqual(env.central.Snapshot(), centralBefore) {
		t.Error("aborted pass mutated central ledger")
	}
	if len(env.syncRepo.records) != 0 {
		t.Errorf("aborted pass must not be recorded, got %d records", len(env.syncRepo.records))
	}
}

func TestReconcileSnapshotReplacesBranchState(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 2, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 6, base, domain.SourceLocal)})

	snapshot := []domain.StockEntry{entry(1, 11, base.Add(time.Minute), domain.SourceLocal)}

	record, err := env.uc.ReconcileSnapshot(context.Background(), NewReconcileSnapshotReq("branch-1", snapshot))
	if err != nil {
		t.Fatalf("reconcile snapshot: %v", err)
	}

	if len(record.Changes) != 1 || record.Changes[0].Reason != domain.ReasonLWWBranch {
		t.Fatalf("expected lww_branch change, got %+v", record.Changes)
	}

	centralEntry, err := env.central.Get(1)
	if err != nil || centralEntry.Quantity != 11 {
		t.Errorf("central entry = %+v, %v; want quantity 11 from snapshot", centralEntry, err)
	}
}

func TestReconcileSnapshotRefreshesDurableCopyWithoutChanges(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 4, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 9, base, domain.SourceLocal)})
	env.cacheRepo.SetInventory(context.Background(), "branch-1", []InventoryItem{{ProductID: 1}})

	// Снапшот уже сходится с центром: проход не даёт изменений
	snapshot := []domain.StockEntry{entry(1, 9, base.Add(time.Minute), domain.SourceLocal)}

	record, err := env.uc.ReconcileSnapshot(context.Background(), NewReconcileSnapshotReq("branch-1", snapshot))
	if err != nil {
		t.Fatalf("reconcile snapshot: %v", err)
	}
	if len(record.Changes) != 0 {
		t.Fatalf("expected no changes, got %+v", record.Changes)
	}

	env.stockRepo.mu.Lock()
	persisted := env.stockRepo.entries["branch-1"][1]
	env.stockRepo.mu.Unlock()
	if persisted.Quantity != 9 {
		t.Errorf("durable copy quantity = %d, want 9 from snapshot", persisted.Quantity)
	}

	env.cacheRepo.mu.Lock()
	_, cached := env.cacheRepo.data["branch-1"]
	env.cacheRepo.mu.Unlock()
	if cached {
		t.Error("branch listing cache must be invalidated after snapshot push")
	}
}

func TestReconcileEmitsLowStockNotifications(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 10, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 1, base.Add(time.Second), domain.SourceLocal)})

	if _, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	critical := env.notifications.List(context.Background(), &NotificationFilter{
		Severity: domain.SeverityCritical,
		Kind:     domain.KindSync,
	})
	if len(critical) != 1 {
		t.Fatalf("expected 1 critical sync notification, got %d", len(critical))
	}
	if critical[0].ProductID != 1 || critical[0].LocationID != "branch-1" {
		t.Errorf("notification = %+v, want product 1 at branch-1", critical[0])
	}
}

func TestReconcileEnqueuesSyncEvent(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	base := time.Now()
	env.branch.Restore([]domain.StockEntry{entry(1, 5, base, domain.SourceLocal)})
	env.central.Restore([]domain.StockEntry{entry(1, 8, base.Add(time.Second), domain.SourceLocal)})

	if _, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-1", false)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(env.outboxRepo.events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(env.outboxRepo.events))
	}
	if env.outboxRepo.events[0].EventType != EventTypeSync {
		t.Errorf("event type = %s, want %s", env.outboxRepo.events[0].EventType, EventTypeSync)
	}
}

func TestReconcileUnknownBranch(t *testing.T) {
	env := newSyncEnv(t, testProduct(1))

	_, err := env.uc.Reconcile(context.Background(), NewReconcileReq("branch-404", false))
	if !errors.Is(err, e.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	base := time.Now()
	branchSnapshot := []domain.StockEntry{
		entry(1, 5, base.Add(10*time.Second), domain.SourceLocal),
		entry(3, 2, base, domain.SourceLocal),
	}
	centralSnapshot := []domain.StockEntry{
		entry(1, 8, base.Add(20*time.Second), domain.SourceLocal),
		entry(2, 4, base, domain.SourceLocal),
	}

	catalog := domain.Catalog{
		1: testProduct(1),
		2: testProduct(2),
		3: testProduct(3),
	}

	firstChanges, firstOrphaned, err := buildPlan(branchSnapshot, centralSnapshot, catalog)
	if err != nil {
		t.Fatalf("buildPlan: %v", err)
	}

	for i := 0; i < 50; i++ {
		changes, orphaned, err := buildPlan(branchSnapshot, centralSnapshot, catalog)
		if err != nil {
			t.Fatalf("buildPlan run %d: %v", i, err)
		}
		if !reflect.DeepEqual(changes, firstChanges) || !reflect.DeepEqual(orphaned, firstOrphaned) {
			t.Fatalf("run %d diverged from first plan", i)
		}
	}
}
