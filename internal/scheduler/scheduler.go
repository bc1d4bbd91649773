package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ecomarket-tech/inventory-backend/internal/cfg"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/jitter"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
)

// Scheduler запускает фоновые проходы сверки каждого филиала по расписанию.
// К интервалу добавляется джиттер, чтобы проходы филиалов не совпадали по времени.
type Scheduler struct {
	syncUC    usecase.SyncUC
	branchIDs []string
	cfg       *cfg.SyncCfg
	logger    logger.Logger
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewScheduler(syncUC usecase.SyncUC, branchIDs []string, cfg *cfg.SyncCfg, logger logger.Logger) *Scheduler {
	return &Scheduler{
		syncUC:    syncUC,
		branchIDs: branchIDs,
		cfg:       cfg,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	for _, branchID := range s.branchIDs {
		s.wg.Add(1)
		go func(branchID string) {
			defer s.wg.Done()
			s.runBranch(ctx, branchID)
		}(branchID)
	}

	s.logger.Infof("sync scheduler started for %d branches, interval: %s", len(s.branchIDs), s.cfg.Interval)
}

func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) runBranch(ctx context.Context, branchID string) {
	timer := time.NewTimer(jitter.Duration(s.cfg.Interval, s.cfg.JitterFactor))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-timer.C:
			record, err := s.syncUC.Reconcile(ctx, usecase.NewReconcileReq(branchID, false))
			if err != nil {
				s.logger.Warnf("scheduled sync for %s failed: %v", branchID, err)
			} else if !record.Empty() {
				s.logger.Infof("scheduled sync for %s: %d changes, %d orphaned",
					branchID, len(record.Changes), len(record.Orphaned))
			}

			timer.Reset(jitter.Duration(s.cfg.Interval, s.cfg.JitterFactor))
		}
	}
}
