package indexer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	processed atomic.Int32
	shutdown  atomic.Int32
	failAt    int32
}

func (p *countingProcessor) Name() string { return "counting" }

func (p *countingProcessor) Process(context.Context) error {
	if n := p.processed.Add(1); n == p.failAt {
		return errors.New("boom")
	}
	return nil
}

func (p *countingProcessor) Shutdown(context.Context) error {
	p.shutdown.Add(1)
	return nil
}

func TestIndexer(t *testing.T) {
	t.Run("shutdown", func(t *testing.T) {
		processor := &countingProcessor{}
		worker := New(processor, time.Millisecond)

		errCh := make(chan error, 1)
		go func() { errCh <- worker.Run(context.Background()) }()

		require.Eventually(t, func() bool { return processor.processed.Load() >= 3 }, time.Second, time.Millisecond)
		require.NoError(t, worker.ShutdownWithTimeout(time.Second))
		require.NoError(t, <-errCh)
		assert.EqualValues(t, 1, processor.shutdown.Load())

		assert.NoError(t, worker.Shutdown(), "shutdown is idempotent")
	})
	t.Run("process_error", func(t *testing.T) {
		processor := &countingProcessor{failAt: 2}
		worker := New(processor, time.Millisecond)

		err := worker.Run(context.Background())
		assert.Error(t, err)
		assert.EqualValues(t, 2, processor.processed.Load())
		assert.EqualValues(t, 1, processor.shutdown.Load(), "processor is shut down on failure")
	})
	t.Run("context_canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		processor := &countingProcessor{}

		assert.NoError(t, New(processor, 0).Run(ctx))
		assert.EqualValues(t, 1, processor.processed.Load(), "first run happens on start")
	})
}
