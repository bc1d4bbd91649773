package domain

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

func TestLedger_ApplyDelta(t *testing.T) {
	ledger := NewLedger("sucursal-001")
	now := time.Now()

	entry, err := ledger.ApplyDelta(1, 10, SourceLocal, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", entry.Quantity)
	}
	if entry.Source != SourceLocal {
		t.Errorf("expected source local, got %s", entry.Source)
	}

	entry, err = ledger.ApplyDelta(1, -4, SourceLocal, now.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", entry.Quantity)
	}
}

func TestLedger_ApplyDelta_Underflow(t *testing.T) {
	ledger := NewLedger("sucursal-001")
	now := time.Now()

	if _, err := ledger.ApplyDelta(1, 3, SourceLocal, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := ledger.ApplyDelta(1, -5, SourceLocal, now)
	if !errors.Is(err, e.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Отклонённая операция не должна иметь частичного эффекта
	entry, err := ledger.Get(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Quantity != 3 {
		t.Errorf("expected quantity 3 after rejected delta, got %d", entry.Quantity)
	}
}

func TestLedger_Get_NotFound(t *testing.T) {
	ledger := NewLedger("sucursal-001")

	_, err := ledger.Get(42)
	if !errors.Is(err, e.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestLedger_Resolve(t *testing.T) {
	ledger := NewLedger("sucursal-001")
	now := time.Now()

	if _, err := ledger.ApplyDelta(1, 3, SourceLocal, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := ledger.Resolve(1, 12, now.Add(time.Minute))
	if entry.Quantity != 12 {
		t.Errorf("expected quantity 12, got %d", entry.Quantity)
	}
	if entry.Source != SourceSync {
		t.Errorf("expected source sync, got %s", entry.Source)
	}
}

func TestLedger_Snapshot_Ordered(t *testing.T) {
	ledger := NewLedger("sucursal-001")
	now := time.Now()

	for _, id := range []int64{5, 1, 3, 2, 4} {
		if _, err := ledger.ApplyDelta(id, id*10, SourceLocal, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap := ledger.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i-1].ProductID >= snap[i].ProductID {
			t.Fatalf("snapshot is not ordered by product id: %v", snap)
		}
	}
}

// Снапшот — копия: мутации после его получения не видны в срезе.
func TestLedger_Snapshot_Isolated(t *testing.T) {
	ledger := NewLedger("sucursal-001")
	now := time.Now()

	if _, err := ledger.ApplyDelta(1, 10, SourceLocal, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := ledger.Snapshot()

	if _, err := ledger.ApplyDelta(1, -5, SourceLocal, now.Add(time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap[0].Quantity != 10 {
		t.Errorf("snapshot mutated after ledger write: %d", snap[0].Quantity)
	}
}

// Конкурентные продажи не теряют и не перерасходуют остаток.
func TestLedger_ConcurrentDeltas(t *testing.T) {
	const (
		initialStock  = 50
		totalRequests = 100
	)

	ledger := NewLedger("sucursal-001")
	if _, err := ledger.ApplyDelta(1, initialStock, SourceLocal, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.ApplyDelta(1, -1, SourceLocal, time.Now()); err == nil {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != initialStock {
		t.Errorf("expected %d successful deltas, got %d", initialStock, successCount.Load())
	}

	entry, err := ledger.Get(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", entry.Quantity)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry("central", []string{"sucursal-002", "sucursal-001"})

	if reg.Central().LocationID() != "central" {
		t.Errorf("unexpected central id: %s", reg.Central().LocationID())
	}

	if _, err := reg.Branch("sucursal-001"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := reg.Branch("unknown"); !errors.Is(err, e.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}

	ids := reg.BranchIDs()
	if len(ids) != 2 || ids[0] != "sucursal-001" || ids[1] != "sucursal-002" {
		t.Errorf("expected sorted branch ids, got %v", ids)
	}

	if ledger, err := reg.Ledger("central"); err != nil || ledger != reg.Central() {
		t.Errorf("Ledger(central) should return the central ledger")
	}
}
