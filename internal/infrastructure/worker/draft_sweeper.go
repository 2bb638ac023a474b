package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/infrastructure/draftstore"
)

// DefaultSweepInterval is how often expired drafts are purged
const DefaultSweepInterval = 10 * time.Minute

// DraftSweeper periodically purges expired drafts, so abandoned sessions do
// not accumulate in the store between reads.
type DraftSweeper struct {
	store    draftstore.Purger
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewDraftSweeper creates a sweeper; a non-positive interval uses DefaultSweepInterval
func NewDraftSweeper(store draftstore.Purger, interval time.Duration, logger *zap.Logger) *DraftSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &DraftSweeper{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Start begins sweeping in the background
func (s *DraftSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("draft sweeper is already running")
	}

	var loopCtx context.Context
	loopCtx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.loop(loopCtx, s.done)

	s.logger.Info("DraftSweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop ends the sweep loop and waits for an in-flight purge to finish
func (s *DraftSweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("DraftSweeper stopped")
	return nil
}

// Name returns the worker name for identification
func (s *DraftSweeper) Name() string {
	return "DraftSweeper"
}

func (s *DraftSweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep purges once and returns the number of drafts removed
func (s *DraftSweeper) Sweep(ctx context.Context) int {
	removed, err := s.store.Purge(ctx)
	if err != nil {
		s.logger.Error("Failed to purge expired drafts", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.logger.Debug("Expired drafts purged", zap.Int("count", removed))
	}
	return removed
}

var _ Worker = (*DraftSweeper)(nil)
