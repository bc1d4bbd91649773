package domain

import (
	"sort"
	"sync"
	"time"

	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

// Ledger — леджер остатков одной локации.
// Все мутации сериализуются мьютексом: изменение одной записи — атомарная единица,
// продажа и проход сверки по одной локации никогда не перемежают свои записи.
type Ledger struct {
	locationID string
	mu         sync.RWMutex
	entries    map[int64]StockEntry
}

func NewLedger(locationID string) *Ledger {
	return &Ledger{
		locationID: locationID,
		entries:    make(map[int64]StockEntry),
	}
}

func (l *Ledger) LocationID() string {
	return l.locationID
}

// Get возвращает запись по товару или e.ErrEntryNotFound.
func (l *Ledger) Get(productID int64) (StockEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[productID]
	if !ok {
		return StockEntry{}, e.ErrEntryNotFound
	}

	return entry, nil
}

// ApplyDelta — единственный путь локальной мутации остатка.
// Отсутствующая запись трактуется как нулевой остаток. Если результат ушёл бы
// в минус, возвращается e.ErrInsufficientStock и запись не меняется.
func (l *Ledger) ApplyDelta(productID, delta int64, source UpdateSource, ts time.Time) (StockEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.entries[productID]
	entry.ProductID = productID

	if entry.Quantity+delta < 0 {
		return StockEntry{}, e.ErrInsufficientStock
	}

	entry.Quantity += delta
	entry.UpdatedAt = ts
	entry.Source = source
	l.entries[productID] = entry

	return entry, nil
}

// Resolve — прямое присваивание остатка шагом разрешения конфликта движка сверки.
// Запись всегда помечается source = sync.
func (l *Ledger) Resolve(productID, quantity int64, ts time.Time) StockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := StockEntry{
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: ts,
		Source:    SourceSync,
	}
	l.entries[productID] = entry

	return entry
}

// Snapshot возвращает согласованный срез леджера на момент вызова,
// упорядоченный по идентификатору товара. Ни одна запись не наблюдается в середине мутации.
func (l *Ledger) Snapshot() []StockEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]StockEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductID < result[j].ProductID
	})

	return result
}

// Restore загружает записи в леджер целиком, заменяя текущее состояние.
// Используется при старте процесса для восстановления из хранилища.
func (l *Ledger) Restore(entries []StockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = make(map[int64]StockEntry, len(entries))
	for _, entry := range entries {
		l.entries[entry.ProductID] = entry
	}
}

// Len возвращает количество записей в леджере.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
