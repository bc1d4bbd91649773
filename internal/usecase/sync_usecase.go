package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// SyncUseCase реализует движок сверки: сравнивает леджер филиала с центральным,
// детерминированно разрешает расхождения и выводит из результата классификации
// и уведомления. Между вызовами движок не хранит состояния, кроме append-only
// истории SyncRecord и ленты уведомлений.
type SyncUseCase struct {
	registry      *domain.Registry
	productRepo   ProductRepository
	syncRepo      SyncRecordRepository
	stockRepo     StockRepository
	outboxRepo    OutboxRepository
	cacheRepo     CacheRepository
	notifications *NotificationCenter
	logger        logger.Logger
}

func NewSyncUC(
	registry *domain.Registry,
	productRepo ProductRepository,
	syncRepo SyncRecordRepository,
	stockRepo StockRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	notifications *NotificationCenter,
	logger logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		registry:      registry,
		productRepo:   productRepo,
		syncRepo:      syncRepo,
		stockRepo:     stockRepo,
		outboxRepo:    outboxRepo,
		cacheRepo:     cacheRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Reconcile выполняет один проход сверки филиала с центром по текущим снапшотам
// обоих леджеров. Проход идемпотентен: повторный запуск на сошедшихся леджерах
// не производит изменений и не создаёт записи истории.
func (s *SyncUseCase) Reconcile(ctx context.Context, req *ReconcileReq) (*domain.SyncRecord, error) {
	const op = "SyncUseCase.Reconcile"

	branchLedger, err := s.registry.Branch(req.BranchID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	record, err := s.reconcile(ctx, branchLedger, branchLedger.Snapshot())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Force {
		s.refreshWriteThrough(ctx, branchLedger)
		s.invalidateCache(ctx, req.BranchID)
	}

	return record, nil
}

// ReconcileSnapshot сверяет внешне снятый снапшот филиала с центром.
// Снапшот сначала применяется к леджеру филиала как его актуальное состояние.
func (s *SyncUseCase) ReconcileSnapshot(ctx context.Context, req *ReconcileSnapshotReq) (*domain.SyncRecord, error) {
	const op = "SyncUseCase.ReconcileSnapshot"

	branchLedger, err := s.registry.Branch(req.BranchID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Валидация до любой мутации: дубликат в снапшоте отменяет весь проход
	if _, err := indexSnapshot(req.Snapshot); err != nil {
		return nil, e.Wrap(op, err)
	}

	branchLedger.Restore(req.Snapshot)

	record, err := s.reconcile(ctx, branchLedger, branchLedger.Snapshot())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Снапшот заменил состояние филиала целиком: durable-копия и кэш
	// обновляются даже когда проход не нашёл расхождений
	s.refreshWriteThrough(ctx, branchLedger)
	s.invalidateCache(ctx, req.BranchID)

	return record, nil
}

// History возвращает последние записи истории сверки филиала.
func (s *SyncUseCase) History(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error) {
	const op = "SyncUseCase.History"

	records, err := s.syncRepo.ListByBranch(ctx, branchID, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return records, nil
}

func (s *SyncUseCase) reconcile(ctx context.Context, branchLedger *domain.Ledger,
	branchSnapshot []domain.StockEntry) (*domain.SyncRecord, error) {

	branchID := branchLedger.LocationID()
	centralLedger := s.registry.Central()

	catalog, err := s.productRepo.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	centralSnapshot := centralLedger.Snapshot()

	changes, orphaned, err := buildPlan(branchSnapshot, centralSnapshot, catalog)
	if err != nil {
		return nil, err
	}

	// Момент разрешения: одна метка времени на весь проход
	resolvedAt := time.Now()

	record := &domain.SyncRecord{
		BranchID:  branchID,
		Timestamp: resolvedAt,
		Changes:   changes,
		Orphaned:  orphaned,
	}

	// Сводка без изменений публикуется и для прохода, нашедшего только orphaned
	if len(changes) == 0 {
		s.notifications.Record(ctx, domain.SeverityInfo, domain.KindSync, branchID, 0,
			fmt.Sprintf("sync pass for %s produced no changes", branchID))

		if record.Empty() {
			return record, nil
		}
	}

	// Применение разрешённых значений; запись всегда помечается source = sync
	for _, change := range changes {
		target, targetID := s.resolutionTarget(change.Reason, branchLedger, centralLedger)
		entry := target.Resolve(change.ProductID, change.ResolvedQty, resolvedAt)

		if err := s.stockRepo.UpsertEntry(ctx, targetID, entry); err != nil {
			s.logger.Warnf("write-through failed for %s/%d: %v", targetID, change.ProductID,
				e.Wrap(whereami.WhereAmI(), err))
		}

		product := catalog[change.ProductID]
		status := domain.Classify(change.ResolvedQty, product.CriticalThreshold, product.ReorderThreshold)
		if status == domain.StatusLow || status == domain.StatusCritical {
			s.notifications.Record(ctx, domain.SeverityForStatus(status), domain.KindSync,
				targetID, change.ProductID,
				fmt.Sprintf("%s resolved to %d (%s), stock is %s", product.Name, change.ResolvedQty, change.Reason, status))
		}
	}

	stored, err := s.syncRepo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, branchID)
	s.emitSyncEvent(ctx, stored, resolvedAt)

	return stored, nil
}

// resolutionTarget возвращает леджер, в который пишется разрешённое значение.
func (s *SyncUseCase) resolutionTarget(reason domain.ResolutionReason,
	branch, central *domain.Ledger) (*domain.Ledger, string) {

	switch reason {
	case domain.ReasonBranchMissing, domain.ReasonLWWCentral:
		// значение центра пишется в филиал
		return branch, branch.LocationID()
	default:
		// domain.ReasonCentralMissing, domain.ReasonLWWBranch: значение филиала пишется в центр
		return central, central.LocationID()
	}
}

func (s *SyncUseCase) invalidateCache(ctx context.Context, branchID string) {
	if err := s.cacheRepo.DeleteInventory(ctx, branchID, s.registry.Central().LocationID()); err != nil {
		s.logger.Warnf("failed to invalidate inventory cache: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// refreshWriteThrough полностью перезаписывает durable-копию леджера филиала.
func (s *SyncUseCase) refreshWriteThrough(ctx context.Context, ledger *domain.Ledger) {
	for _, entry := range ledger.Snapshot() {
		if err := s.stockRepo.UpsertEntry(ctx, ledger.LocationID(), entry); err != nil {
			s.logger.Warnf("forced write-through failed for %s/%d: %v",
				ledger.LocationID(), entry.ProductID, e.Wrap(whereami.WhereAmI(), err))
		}
	}
}

// emitSyncEvent кладёт событие завершённого прохода в outbox; сбой публикации
// не влияет на уже применённый результат сверки.
func (s *SyncUseCase) emitSyncEvent(ctx context.Context, record *domain.SyncRecord, ts time.Time) {
	payload, err := json.Marshal(SyncEventPayload{
		EventType: EventTypeSync,
		EventID:   uuid.NewString(),
		BranchID:  record.BranchID,
		Changed:   len(record.Changes),
		Orphaned:  len(record.Orphaned),
		Timestamp: ts.UnixNano(),
	})
	if err != nil {
		s.logger.Warnf("failed to marshal sync event: %v", e.Wrap(whereami.WhereAmI(), err))
		return
	}

	event := NewOutboxEvent(uuid.NewString(), EventTypeSync, record.BranchID, payload, ts)
	if _, err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Warnf("failed to enqueue sync event: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

// buildPlan — чистое ядро алгоритма сверки. Строит объединение товаров обоих
// снапшотов, пересечённое с каталогом; товары вне каталога попадают в orphaned
// и никогда не мутируются. Совпавшие количества в план не включаются.
func buildPlan(branchSnapshot, centralSnapshot []domain.StockEntry,
	catalog domain.Catalog) ([]domain.SyncChange, []int64, error) {

	branch, err := indexSnapshot(branchSnapshot)
	if err != nil {
		return nil, nil, err
	}

	central, err := indexSnapshot(centralSnapshot)
	if err != nil {
		return nil, nil, err
	}

	ids := make(map[int64]struct{}, len(branch)+len(central))
	for id := range branch {
		ids[id] = struct{}{}
	}
	for id := range central {
		ids[id] = struct{}{}
	}

	union := make([]int64, 0, len(ids))
	for id := range ids {
		union = append(union, id)
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })

	var (
		changes  []domain.SyncChange
		orphaned []int64
	)

	for _, id := range union {
		if !catalog.Contains(id) {
			orphaned = append(orphaned, id)
			continue
		}

		branchEntry, inBranch := branch[id]
		centralEntry, inCentral := central[id]

		switch {
		case inBranch && inCentral && branchEntry.Quantity == centralEntry.Quantity:
			// сошлись — без действия и без записи в историю

		case !inBranch:
			qty := centralEntry.Quantity
			changes = append(changes, domain.SyncChange{
				ProductID:      id,
				PrevCentralQty: &qty,
				ResolvedQty:    qty,
				Reason:         domain.ReasonBranchMissing,
			})

		case !inCentral:
			qty := branchEntry.Quantity
			changes = append(changes, domain.SyncChange{
				ProductID:     id,
				PrevBranchQty: &qty,
				ResolvedQty:   qty,
				Reason:        domain.ReasonCentralMissing,
			})

		default:
			branchQty, centralQty := branchEntry.Quantity, centralEntry.Quantity
			change := domain.SyncChange{
				ProductID:      id,
				PrevBranchQty:  &branchQty,
				PrevCentralQty: &centralQty,
			}

			// Last-writer-wins; равенство меток времени трактуется в пользу филиала:
			// продажи филиала считаются более свежими, центр — eventually-consistent
			if centralEntry.UpdatedAt.After(branchEntry.UpdatedAt) {
				change.ResolvedQty = centralQty
				change.Reason = domain.ReasonLWWCentral
			} else {
				change.ResolvedQty = branchQty
				change.Reason = domain.ReasonLWWBranch
			}

			changes = append(changes, change)
		}
	}

	return changes, orphaned, nil
}

// indexSnapshot строит индекс снапшота по товару.
// Дубликат идентификатора — ошибка валидации, отменяющая весь проход.
func indexSnapshot(snapshot []domain.StockEntry) (map[int64]domain.StockEntry, error) {
	index := make(map[int64]domain.StockEntry, len(snapshot))
	for _, entry := range snapshot {
		if _, ok := index[entry.ProductID]; ok {
			return nil, fmt.Errorf("product %d: %w", entry.ProductID, e.ErrDuplicateSnapshotEntry)
		}
		index[entry.ProductID] = entry
	}

	return index, nil
}
