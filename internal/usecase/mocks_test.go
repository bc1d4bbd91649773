package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Mock ProductRepository

type mockProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
}

func newMockProductRepo(products ...domain.Product) *mockProductRepo {
	repo := &mockProductRepo{
		products: make(map[int64]domain.Product),
		nextID:   1,
	}
	for _, p := range products {
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *product
	created.ID = m.nextID
	m.nextID++
	m.products[created.ID] = created
	return &created, nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	m.products[product.ID] = *product
	return product, nil
}

func (m *mockProductRepo) Archive(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	p.IsArchived = true
	m.products[id] = p
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if !p.IsArchived {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) Catalog(ctx context.Context) (domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	catalog := make(domain.Catalog, len(m.products))
	for id, p := range m.products {
		if !p.IsArchived {
			catalog[id] = p
		}
	}
	return catalog, nil
}

// Mock StockRepository

type mockStockRepo struct {
	mu      sync.Mutex
	entries map[string]map[int64]domain.StockEntry
	upserts int
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{entries: make(map[string]map[int64]domain.StockEntry)}
}

func (m *mockStockRepo) LoadLedger(ctx context.Context, locationID string) ([]domain.StockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.StockEntry
	for _, entry := range m.entries[locationID] {
		result = append(result, entry)
	}
	return result, nil
}

func (m *mockStockRepo) UpsertEntry(ctx context.Context, locationID string, entry domain.StockEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[locationID] == nil {
		m.entries[locationID] = make(map[int64]domain.StockEntry)
	}
	m.entries[locationID][entry.ProductID] = entry
	m.upserts++
	return nil
}

// Mock SaleRepository

type mockSaleRepo struct {
	mu         sync.Mutex
	sales      []*domain.Sale
	failInsert bool
}

func (m *mockSaleRepo) Insert(ctx context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return fmt.Errorf("insert failed")
	}
	m.sales = append(m.sales, sale)
	return nil
}

func (m *mockSaleRepo) Stats(ctx context.Context, locationID string) (*SalesStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &SalesStats{}
	for _, sale := range m.sales {
		if sale.LocationID != locationID {
			continue
		}
		stats.TotalSales++
		stats.TotalRevenue += sale.Total
	}
	if stats.TotalSales > 0 {
		stats.AverageSale = stats.TotalRevenue / stats.TotalSales
	}
	return stats, nil
}

// Mock SyncRecordRepository

type mockSyncRepo struct {
	mu      sync.Mutex
	records []*domain.SyncRecord
	nextID  int64
}

func (m *mockSyncRepo) Insert(ctx context.Context, record *domain.SyncRecord) (*domain.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *record
	stored.ID = m.nextID
	m.records = append(m.records, &stored)
	return &stored, nil
}

func (m *mockSyncRepo) ListByBranch(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.SyncRecord
	for i := len(m.records) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if m.records[i].BranchID == branchID {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

// Mock NotificationRepository

type mockNotificationRepo struct {
	mu       sync.Mutex
	inserted []*domain.Notification
}

func (m *mockNotificationRepo) Insert(ctx context.Context, notification *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, notification)
	return nil
}

func (m *mockNotificationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if len(m.inserted) > limit {
		start = len(m.inserted) - limit
	}
	result := make([]domain.Notification, 0, len(m.inserted)-start)
	for _, n := range m.inserted[start:] {
		result = append(result, *n)
	}
	return result, nil
}

// Mock OutboxRepository

type mockOutboxRepo struct {
	mu         sync.Mutex
	events     []*OutboxEvent
	failCreate bool
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return nil, fmt.Errorf("create failed")
	}
	stored := *event
	stored.ID = int64(len(m.events) + 1)
	m.events = append(m.events, &stored)
	return &stored, nil
}

func (m *mockOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*OutboxEvent
	for _, event := range m.events {
		if event.Status == Pending && len(result) < limit {
			event.Status = Processing
			result = append(result, event)
		}
	}
	return result, nil
}

func (m *mockOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Status = Processed
		}
	}
	return nil
}

// Mock CacheRepository

type mockCacheRepo struct {
	mu      sync.Mutex
	data    map[string][]InventoryItem
	deletes int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{data: make(map[string][]InventoryItem)}
}

func (m *mockCacheRepo) GetInventory(ctx context.Context, locationID string) ([]InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[locationID], nil
}

func (m *mockCacheRepo) SetInventory(ctx context.Context, locationID string, items []InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[locationID] = items
	return nil
}

func (m *mockCacheRepo) DeleteInventory(ctx context.Context, locationIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range locationIDs {
		delete(m.data, id)
	}
	m.deletes++
	return nil
}

// Mock IdempotencyRepository

type mockIdempotencyRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMockIdempotencyRepo() *mockIdempotencyRepo {
	return &mockIdempotencyRepo{seen: make(map[string]bool)}
}

func (m *mockIdempotencyRepo) SetIfAbsent(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

// Fake транзакционного менеджера: пул и pgx.Tx без реальной базы

type fakeTxManager struct{}

func (f *fakeTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

func (f *fakeTxManager) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

type fakeTx struct{}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error { return nil }

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

// Тихий логгер для тестов

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any) {}

func (noopLogger) Infof(format string, args ...any) {}

func (noopLogger) Warnf(format string, args ...any) {}

func (noopLogger) Errorf(err error, format string, args ...any) {}
