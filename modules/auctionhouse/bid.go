package auctionhouse

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
)

// CreateBid places a bid of amount on an auction. value is the native value sent
// with the call: it must equal amount in native auctions and be zero in
// substitute token auctions, where amount is pulled through the allowance the
// bidder granted to the engine.
func (e *Engine) CreateBid(ctx context.Context, caller common.Address, id uint64, amount, value uint128.Uint128) error {
	return e.execute(ctx, "create_bid", func(ctx context.Context, op *operation) error {
		auction, err := e.getAuction(ctx, op.dg, id)
		if err != nil {
			return errors.WithStack(err)
		}
		if amount.IsZero() {
			return errors.Wrapf(ErrZeroBid, "auction %d", id)
		}
		if auction.IsNative() {
			if !value.Equals(amount) {
				return errors.Wrapf(ErrAmountMismatch, "value %s, amount %s", value, amount)
			}
		} else if !value.IsZero() {
			return errors.Wrapf(ErrAmountMismatch, "native value %s sent to a substitute token auction", value)
		}

		firstBid := !auction.Started()
		if firstBid {
			if amount.Cmp(auction.ReservePrice) < 0 {
				return errors.Wrapf(ErrBelowReserve, "amount %s, reserve %s", amount, auction.ReservePrice)
			}
		} else {
			if op.now > auction.EndTime() {
				return errors.Wrapf(ErrAuctionExpired, "auction %d ended at %d", id, auction.EndTime())
			}
			if !meetsIncrement(auction.Amount, amount) {
				return errors.Wrapf(ErrInsufficientIncrement, "amount %s, last bid %s", amount, auction.Amount)
			}
		}

		previousBidder, previousAmount := auction.Bidder, auction.Amount
		if firstBid {
			auction.FirstBidTime = op.now
		}
		auction.Amount = amount
		auction.Bidder = caller

		extended := false
		if end := auction.EndTime(); end-op.now < TimeBuffer {
			auction.Duration = op.now + TimeBuffer - auction.FirstBidTime
			extended = true
		}

		if err := op.dg.SaveAuction(ctx, *auction); err != nil {
			return errors.Wrapf(err, "can't save auction %d", id)
		}

		if err := e.escrow(ctx, auction.Currency, caller, amount); err != nil {
			return errors.WithStack(err)
		}
		if !firstBid {
			if err := e.deliver(ctx, op, previousBidder, auction.Currency, previousAmount); err != nil {
				return errors.Wrap(err, "can't refund last bidder")
			}
		}

		logger.DebugContext(ctx, "bid placed",
			slog.Uint64("auction_id", id),
			slogx.Stringer("bidder", caller),
			slogx.Stringer("amount", amount),
			slog.Bool("extended", extended),
		)

		if err := op.emit(ctx, entity.AuctionBid{
			AuctionID:     id,
			AssetID:       auction.AssetID,
			AssetContract: auction.AssetContract,
			Sender:        caller,
			Value:         amount,
			BidTime:       op.now,
			FirstBid:      firstBid,
			Extended:      extended,
		}); err != nil {
			return errors.WithStack(err)
		}
		if extended {
			return op.emit(ctx, entity.AuctionDurationExtended{
				AuctionID:     id,
				AssetID:       auction.AssetID,
				AssetContract: auction.AssetContract,
				Duration:      auction.Duration,
			})
		}
		return nil
	})
}

// meetsIncrement reports whether amount >= last + last*MinBidIncrementPercentage/100.
func meetsIncrement(last, amount uint128.Uint128) bool {
	scaled, overflow := last.MulOverflow(uint128.From64(MinBidIncrementPercentage))
	if overflow {
		return false
	}
	required, overflow := last.AddOverflow(scaled.Div64(100))
	if overflow {
		return false
	}
	return amount.Cmp(required) >= 0
}

// escrow moves a bid from the bidder to the engine, escrow is always held as substitute token.
func (e *Engine) escrow(ctx context.Context, currency, bidder common.Address, amount uint128.Uint128) error {
	if currency == entity.NativeCurrency {
		if err := e.native.Transfer(ctx, bidder, e.address, amount); err != nil {
			return errors.Wrap(err, "can't receive native value")
		}
		if err := e.token.Deposit(ctx, e.address, amount); err != nil {
			return errors.Wrap(err, "can't wrap native value")
		}
		return nil
	}
	if err := e.token.TransferFrom(ctx, e.address, bidder, e.address, amount); err != nil {
		return errors.Wrap(err, "can't pull substitute token")
	}
	return nil
}
