package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
)

type fakeSyncUC struct {
	mu    sync.Mutex
	calls map[string]int
}

func newFakeSyncUC() *fakeSyncUC {
	return &fakeSyncUC{calls: make(map[string]int)}
}

func (f *fakeSyncUC) Reconcile(ctx context.Context, req *usecase.ReconcileReq) (*domain.SyncRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.BranchID]++
	return &domain.SyncRecord{BranchID: req.BranchID, Timestamp: time.Now()}, nil
}

func (f *fakeSyncUC) ReconcileSnapshot(ctx context.Context, req *usecase.ReconcileSnapshotReq) (*domain.SyncRecord, error) {
	return &domain.SyncRecord{BranchID: req.BranchID, Timestamp: time.Now()}, nil
}

func (f *fakeSyncUC) History(ctx context.Context, branchID string, limit int) ([]*domain.SyncRecord, error) {
	return nil, nil
}

func (f *fakeSyncUC) callCount(branchID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[branchID]
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any) {}

func (noopLogger) Infof(format string, args ...any) {}

func (noopLogger) Warnf(format string, args ...any) {}

func (noopLogger) Errorf(err error, format string, args ...any) {}

func TestSchedulerTriggersEveryBranch(t *testing.T) {
	syncUC := newFakeSyncUC()
	branches := []string{"branch-1", "branch-2"}

	s := NewScheduler(syncUC, branches, &cfg.SyncCfg{
		Interval:     5 * time.Millisecond,
		JitterFactor: 0,
	}, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)

	deadline := time.After(2 * time.Second)
	for {
		if syncUC.callCount("branch-1") > 0 && syncUC.callCount("branch-2") > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("branches not reconciled in time: branch-1=%d branch-2=%d",
				syncUC.callCount("branch-1"), syncUC.callCount("branch-2"))
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	syncUC := newFakeSyncUC()

	s := NewScheduler(syncUC, []string{"branch-1"}, &cfg.SyncCfg{
		Interval:     time.Millisecond,
		JitterFactor: 0,
	}, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	for syncUC.callCount("branch-1") == 0 {
		time.Sleep(time.Millisecond)
	}

	cancel()
	time.Sleep(20 * time.Millisecond)

	before := syncUC.callCount("branch-1")
	time.Sleep(20 * time.Millisecond)
	if after := syncUC.callCount("branch-1"); after != before {
		t.Fatalf("reconcile kept firing after cancel: %d -> %d", before, after)
	}
}
