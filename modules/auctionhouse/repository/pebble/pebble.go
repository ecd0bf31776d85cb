// Package pebble is the embedded storage of the auction house, values are cbor
// encoded records in a cockroachdb/pebble key space.
package pebble

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
)

// store is the subset of pebble shared by *pebble.DB and an indexed *pebble.Batch.
type store interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
	Set(key, value []byte, opts *pebble.WriteOptions) error
	Delete(key []byte, opts *pebble.WriteOptions) error
}

type Repository struct {
	db *pebble.DB
	// mu serializes writers, a transaction holds it until Commit or Rollback.
	mu *sync.Mutex

	batch  *pebble.Batch
	closed bool
}

var _ datagateway.AuctionHouseDataGateway = (*Repository)(nil)

// Open opens the store at path, an empty path keeps everything in memory.
func Open(path string) (*Repository, error) {
	opts := &pebble.Options{}
	if path == "" {
		opts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open pebble at %q", path)
	}
	return NewRepository(db), nil
}

func NewRepository(db *pebble.DB) *Repository {
	return &Repository{
		db: db,
		mu: &sync.Mutex{},
	}
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	if r.batch != nil {
		return errors.Wrap(errs.InvalidState, "can't close a transaction")
	}
	return errors.WithStack(r.db.Close())
}

func (r *Repository) BeginAuctionHouseTx(ctx context.Context) (datagateway.AuctionHouseDataGatewayWithTx, error) {
	if r.batch != nil {
		return nil, errors.Wrap(errs.InvalidState, "nested transactions are not supported")
	}
	r.mu.Lock()
	return &Repository{
		db:    r.db,
		mu:    r.mu,
		batch: r.db.NewIndexedBatch(),
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.batch == nil || r.closed {
		return nil
	}
	defer r.release(ctx)
	if err := r.batch.Commit(pebble.Sync); err != nil {
		return errors.Wrap(err, "failed to commit batch")
	}
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.batch == nil || r.closed {
		return nil
	}
	r.release(ctx)
	return nil
}

func (r *Repository) release(ctx context.Context) {
	if err := r.batch.Close(); err != nil {
		logger.WarnContext(ctx, "failed to close batch", slogx.Error(err))
	}
	r.closed = true
	r.mu.Unlock()
}

func (r *Repository) reader() store {
	if r.batch != nil {
		return r.batch
	}
	return r.db
}

// write runs fn against the transaction batch, outside a transaction fn runs in
// its own batch committed on success.
func (r *Repository) write(fn func(s store) error) error {
	if r.batch != nil {
		if r.closed {
			return errors.Wrap(errs.InvalidState, "transaction is closed")
		}
		return fn(r.batch)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := r.db.NewIndexedBatch()
	defer batch.Close()
	if err := fn(batch); err != nil {
		return err
	}
	return errors.Wrap(batch.Commit(pebble.Sync), "failed to commit batch")
}
