package indexer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
)

const (
	// DefaultPollingInterval is the default polling interval for the indexer polling worker
	DefaultPollingInterval = 15 * time.Second

	shutdownTimeout = 180 * time.Second
)

// IndexerWorker is a long running module worker.
type IndexerWorker interface {
	Run(ctx context.Context) error
	Shutdown() error
	ShutdownWithTimeout(timeout time.Duration) error
	ShutdownWithContext(ctx context.Context) error
}

// Processor consumes whatever became available since its last run.
type Processor interface {
	Name() string
	// Process is called once on start and then on every polling interval.
	Process(ctx context.Context) error
	// Shutdown releases the resources of the processor, it's called once when the worker stops.
	Shutdown(ctx context.Context) error
}

// Indexer is a polling worker driving a processor.
type Indexer struct {
	Processor Processor
	interval  time.Duration

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

var _ IndexerWorker = (*Indexer)(nil)

// New creates a polling worker, a zero interval uses DefaultPollingInterval.
func New(processor Processor, interval time.Duration) *Indexer {
	if interval <= 0 {
		interval = DefaultPollingInterval
	}
	return &Indexer{
		Processor: processor,
		interval:  interval,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

func (i *Indexer) Run(ctx context.Context) (err error) {
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
	)

	defer func() {
		if shutdownErr := i.Processor.Shutdown(ctx); shutdownErr != nil {
			logger.ErrorContext(ctx, "Failed to shutdown processor", shutdownErr)
			if err == nil {
				err = errors.Wrap(shutdownErr, "processor shutdown failed")
			}
		}
	}()

	if err := i.process(ctx); err != nil {
		return errors.WithStack(err)
	}

	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()
	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := i.process(ctx); err != nil {
				return errors.WithStack(err)
			}
			logger.DebugContext(ctx, "Waiting for next polling interval")
		}
	}
}

func (i *Indexer) process(ctx context.Context) error {
	startAt := time.Now()
	if err := i.Processor.Process(ctx); err != nil {
		logger.ErrorContext(ctx, "Indexer failed while processing", err)
		return errors.Wrap(err, "process failed")
	}
	logger.DebugContext(ctx, "Processed", slogx.Duration("duration", time.Since(startAt)))
	return nil
}
