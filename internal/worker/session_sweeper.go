package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionExpirer exposes the subset of application functionality required by the sweeper.
type SessionExpirer interface {
	ExpireCheckoutSessions(ctx context.Context, now time.Time, limit int) ([]string, error)
}

// SessionSweeper periodically marks overdue checkout sessions expired.
// Each worker sweeps independent batches; row-level SKIP LOCKED on the
// expiry query keeps concurrent sweeps from contending on the same rows.
type SessionSweeper struct {
	expirer   SessionExpirer
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSessionSweeper constructs the sweeper worker pool.
func NewSessionSweeper(expirer SessionExpirer, interval time.Duration, batchSize, workers int, logger *slog.Logger) *SessionSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &SessionSweeper{
		expirer:   expirer,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan struct{}, workers),
	}
}

// Start launches background sweeping.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *SessionSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *SessionSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-ctx.Done():
				return
			case s.jobs <- struct{}{}:
			default:
				// a sweep is already in flight; skip this tick
			}
		}
	}
}

func (s *SessionSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-s.jobs:
			if !ok {
				return
			}
			s.sweep(ctx)
		}
	}
}

// sweep expires overdue sessions batch by batch until a batch comes back
// short, meaning no overdue sessions remain.
func (s *SessionSweeper) sweep(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		ids, err := s.expirer.ExpireCheckoutSessions(ctx, time.Now(), s.batchSize)
		if err != nil {
			s.logger.Error("checkout session sweep failed", slog.String("error", err.Error()))
			return
		}
		if len(ids) > 0 {
			s.logger.Info("checkout sessions expired", slog.Int("count", len(ids)))
		}
		if len(ids) < s.batchSize {
			return
		}
	}
}
