package auctionhouse

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/contract"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
)

// EventHandler receives the events of an operation after it's committed.
type EventHandler func(ctx context.Context, events []entity.Event)

// Collaborators are the external contracts the engine settles against.
type Collaborators struct {
	Assets contract.AssetRegistry
	Token  contract.SubstituteToken
	Native contract.NativeLedger
	Host   contract.Host
}

// Engine is the auction house. Every state changing method runs as one
// operation: all of its effects are applied or none is.
type Engine struct {
	dg      datagateway.AuctionHouseDataGateway
	assets  contract.AssetRegistry
	token   contract.SubstituteToken
	native  contract.NativeLedger
	host    contract.Host
	address common.Address

	clock    func() uint64
	handlers []EventHandler

	// running is set while an operation is in flight
	running atomic.Bool
}

type Option func(*Engine)

// WithClock replaces the wall clock, clock returns unix seconds.
func WithClock(clock func() uint64) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithEventHandler(handler EventHandler) Option {
	return func(e *Engine) {
		e.handlers = append(e.handlers, handler)
	}
}

// NewEngine creates an engine holding escrow on the address account.
func NewEngine(dg datagateway.AuctionHouseDataGateway, collaborators Collaborators, address common.Address, opts ...Option) *Engine {
	e := &Engine{
		dg:      dg,
		assets:  collaborators.Assets,
		token:   collaborators.Token,
		native:  collaborators.Native,
		host:    collaborators.Host,
		address: address,
		clock: func() uint64 {
			return uint64(time.Now().Unix())
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Address returns the account the engine escrows value with.
func (e *Engine) Address() common.Address {
	return e.address
}

// SubstituteToken returns the address of the wrapped native token.
func (e *Engine) SubstituteToken() common.Address {
	return e.token.Address()
}

// operation is the state of an in-flight engine call.
type operation struct {
	dg     datagateway.AuctionHouseDataGatewayWithTx
	now    uint64
	events []entity.Event
}

func (op *operation) emit(ctx context.Context, data entity.EventData) error {
	event, err := op.dg.CreateEvent(ctx, entity.NewEvent(op.now, data))
	if err != nil {
		return errors.Wrapf(err, "can't create %s event", data.Kind())
	}
	op.events = append(op.events, event)
	return nil
}

// execute runs fn in a data gateway transaction and a host snapshot, an error
// rolls back both.
func (e *Engine) execute(ctx context.Context, name string, fn func(ctx context.Context, op *operation) error) (err error) {
	if !e.running.CompareAndSwap(false, true) {
		return errors.Wrapf(ErrReentrantCall, "%s", name)
	}
	defer e.running.Store(false)

	ctx = logger.WithContext(ctx, slog.String("operation", name))

	tx, err := e.dg.BeginAuctionHouseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "can't begin transaction")
	}
	snapshot := e.host.Snapshot()
	defer func() {
		if err == nil {
			return
		}
		e.host.RevertToSnapshot(snapshot)
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", rollbackErr)
		}
		logger.DebugContext(ctx, "operation reverted", slogx.Error(err))
	}()

	op := &operation{dg: tx, now: e.clock()}
	if err := fn(ctx, op); err != nil {
		return errors.WithStack(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "can't commit transaction")
	}
	e.host.DiscardSnapshot(snapshot)

	logger.DebugContext(ctx, "operation committed", slog.Int("events", len(op.events)))
	for _, handler := range e.handlers {
		handler(ctx, op.events)
	}
	return nil
}

// attempt runs a sub step on the host, its effects are reverted when it fails.
func (e *Engine) attempt(fn func() error) error {
	snapshot := e.host.Snapshot()
	if err := fn(); err != nil {
		e.host.RevertToSnapshot(snapshot)
		return err
	}
	return nil
}

// Bootstrap seeds the role tables when no administrator is stored yet. It
// reports whether the tables were seeded.
func (e *Engine) Bootstrap(ctx context.Context, administrator common.Address, auctioneers []common.Address) (bool, error) {
	var bootstrapped bool
	err := e.execute(ctx, "bootstrap", func(ctx context.Context, op *operation) error {
		current, err := op.dg.GetAdministrator(ctx)
		if err == nil {
			logger.InfoContext(ctx, "role tables already bootstrapped", slogx.Stringer("administrator", current))
			return nil
		}
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "can't get administrator")
		}
		if administrator == (common.Address{}) {
			return errors.Wrap(ErrZeroAddress, "administrator")
		}

		if err := op.dg.SetAdministrator(ctx, administrator); err != nil {
			return errors.Wrap(err, "can't set administrator")
		}
		if err := op.emit(ctx, entity.AdministratorTransferred{Next: administrator}); err != nil {
			return errors.WithStack(err)
		}
		for _, auctioneer := range auctioneers {
			if err := e.setAuctioneer(ctx, op, auctioneer, true); err != nil {
				return errors.WithStack(err)
			}
		}
		bootstrapped = true
		return nil
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return bootstrapped, nil
}

func (e *Engine) getAuction(ctx context.Context, dg datagateway.AuctionReader, id uint64) (*entity.Auction, error) {
	auction, err := dg.GetAuction(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(ErrAuctionNotFound, "auction %d", id)
		}
		return nil, errors.Wrapf(err, "can't get auction %d", id)
	}
	return auction, nil
}

func (e *Engine) isSupportedCurrency(currency common.Address) bool {
	return currency == entity.NativeCurrency || currency == e.token.Address()
}
