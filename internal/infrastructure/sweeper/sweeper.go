package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/iho/debtledger/internal/usecase"
)

// PendingProcessor re-drives pending queue entries.
type PendingProcessor interface {
	ProcessPending(ctx context.Context, limit int) (int, error)
}

// Sweeper periodically re-drives pending queue entries and prunes
// processed markers past their retention.
type Sweeper struct {
	processor PendingProcessor
	queueRepo usecase.QueueRepository
	logger    *slog.Logger
	batchSize int
	interval  time.Duration
	retention time.Duration
}

// Config for Sweeper.
type Config struct {
	Processor PendingProcessor
	QueueRepo usecase.QueueRepository
	Logger    *slog.Logger
	BatchSize int           // Number of entries to process per run
	Interval  time.Duration // Polling interval
	Retention time.Duration // How long processed markers are kept
}

// NewSweeper creates a new Sweeper.
func NewSweeper(cfg Config) *Sweeper {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Retention == 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Sweeper{
		processor: cfg.Processor,
		queueRepo: cfg.QueueRepo,
		logger:    cfg.Logger,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		retention: cfg.Retention,
	}
}

// Start begins the sweep worker.
// It runs continuously until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("queue sweeper started",
		slog.Int("batch_size", s.batchSize),
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on start
	if err := s.sweep(ctx); err != nil {
		s.logger.Error("error sweeping on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("queue sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				s.logger.Error("error sweeping queue", slog.String("error", err.Error()))
			}
		}
	}
}

// sweep runs one re-drive pass and prunes old processed markers.
func (s *Sweeper) sweep(ctx context.Context) error {
	processed, err := s.processor.ProcessPending(ctx, s.batchSize)
	if err != nil {
		return err
	}

	if processed > 0 {
		s.logger.Info("re-drove pending entries", slog.Int("count", processed))
	}

	cutoff := time.Now().Add(-s.retention)
	if err := s.queueRepo.DeleteProcessed(ctx, cutoff); err != nil {
		s.logger.Error("failed to prune processed markers", slog.String("error", err.Error()))
		// Pruning failure must not stop the re-drive loop
	}

	return nil
}
