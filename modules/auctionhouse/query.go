package auctionhouse

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
)

// Auction returns the auction record, the zero record (no token owner) when it doesn't exist.
func (e *Engine) Auction(ctx context.Context, id uint64) (entity.Auction, error) {
	auction, err := e.dg.GetAuction(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return entity.Auction{}, nil
		}
		return entity.Auction{}, errors.Wrapf(err, "can't get auction %d", id)
	}
	return *auction, nil
}

// Auctions returns the live auctions ordered by id.
func (e *Engine) Auctions(ctx context.Context) ([]*entity.Auction, error) {
	auctions, err := e.dg.GetAuctions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get auctions")
	}
	return auctions, nil
}

func (e *Engine) Administrator(ctx context.Context) (common.Address, error) {
	administrator, err := e.dg.GetAdministrator(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return common.Address{}, errors.Wrap(err, "can't get administrator")
	}
	return administrator, nil
}

func (e *Engine) IsAdministrator(ctx context.Context, account common.Address) (bool, error) {
	return isAdministrator(ctx, e.dg, account)
}

func (e *Engine) IsAuctioneer(ctx context.Context, account common.Address) (bool, error) {
	ok, err := e.dg.IsAuctioneer(ctx, account)
	if err != nil {
		return false, errors.Wrapf(err, "can't get auctioneer %s", account)
	}
	return ok, nil
}

func (e *Engine) Auctioneers(ctx context.Context) ([]common.Address, error) {
	auctioneers, err := e.dg.GetAuctioneers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get auctioneers")
	}
	return auctioneers, nil
}

func (e *Engine) IsWhitelisted(ctx context.Context, account common.Address) (bool, error) {
	ok, err := e.dg.IsWhitelisted(ctx, account)
	if err != nil {
		return false, errors.Wrapf(err, "can't get whitelist of %s", account)
	}
	return ok, nil
}

func (e *Engine) PublicAuctionsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.dg.GetPublicAuctionsEnabled(ctx)
	if err != nil {
		return false, errors.Wrap(err, "can't get public auctions flag")
	}
	return enabled, nil
}

// Royalty returns the royalty of an asset contract, the zero royalty when none is set.
func (e *Engine) Royalty(ctx context.Context, assetContract common.Address) (entity.Royalty, error) {
	return getRoyalty(ctx, e.dg, assetContract)
}

func (e *Engine) PendingWithdrawal(ctx context.Context, account, currency common.Address) (uint128.Uint128, error) {
	amount, err := e.dg.GetPendingWithdrawal(ctx, account, currency)
	if err != nil {
		return uint128.Zero, errors.Wrapf(err, "can't get pending withdrawal of %s", account)
	}
	return amount, nil
}

func (e *Engine) PendingWithdrawals(ctx context.Context) ([]entity.PendingWithdrawal, error) {
	withdrawals, err := e.dg.GetPendingWithdrawals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get pending withdrawals")
	}
	return withdrawals, nil
}

// Events returns the event log of an auction in sequence order.
func (e *Engine) Events(ctx context.Context, auctionID uint64) ([]entity.Event, error) {
	events, err := e.dg.GetEventsByAuction(ctx, auctionID)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get events of auction %d", auctionID)
	}
	return events, nil
}

// EventLog returns up to limit events starting at sequence from.
func (e *Engine) EventLog(ctx context.Context, from uint64, limit int) ([]entity.Event, error) {
	events, err := e.dg.GetEvents(ctx, from, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get events from %d", from)
	}
	return events, nil
}

func (e *Engine) MinBidIncrementPercentage() uint64 {
	return MinBidIncrementPercentage
}

func (e *Engine) TimeBuffer() uint64 {
	return TimeBuffer
}
