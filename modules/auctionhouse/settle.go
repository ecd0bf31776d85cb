package auctionhouse

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
)

// Settlement is the outcome of EndAuction, exactly one of Ended and Canceled is set.
type Settlement struct {
	Ended    *entity.AuctionEnded    `json:"ended,omitempty"`
	Canceled *entity.AuctionCanceled `json:"canceled,omitempty"`
}

// Delivered reports whether the asset went to the winner.
func (s Settlement) Delivered() bool {
	return s.Ended != nil
}

// assetDelivery is the result of moving the asset to the winner.
type assetDelivery struct {
	delivered bool
	reason    error
}

// EndAuction settles a finished auction, anybody may call it. The winner gets the
// asset and the proceeds go to the royalty beneficiary and the seller. When the
// asset can't be delivered the auction is canceled and the winner is refunded instead.
func (e *Engine) EndAuction(ctx context.Context, caller common.Address, id uint64) (Settlement, error) {
	var settlement Settlement
	err := e.execute(ctx, "end_auction", func(ctx context.Context, op *operation) error {
		auction, err := e.getAuction(ctx, op.dg, id)
		if err != nil {
			return errors.WithStack(err)
		}
		if !auction.Started() {
			return errors.Wrapf(ErrAuctionNotStarted, "auction %d", id)
		}
		if op.now <= auction.EndTime() {
			return errors.Wrapf(ErrAuctionNotComplete, "auction %d ends at %d", id, auction.EndTime())
		}

		if err := op.dg.DeleteAuction(ctx, id); err != nil {
			return errors.Wrapf(err, "can't delete auction %d", id)
		}

		delivery, err := e.deliverAsset(ctx, *auction)
		if err != nil {
			return errors.WithStack(err)
		}
		ctx = logger.WithContext(ctx, slog.Uint64("auction_id", id), slogx.Stringer("caller", caller))
		if delivery.delivered {
			ended, err := e.payOut(ctx, op, *auction)
			if err != nil {
				return errors.WithStack(err)
			}
			settlement.Ended = ended
			return op.emit(ctx, *ended)
		}

		canceled, err := e.refundWinner(ctx, op, *auction, delivery.reason)
		if err != nil {
			return errors.WithStack(err)
		}
		settlement.Canceled = canceled
		return op.emit(ctx, *canceled)
	})
	if err != nil {
		return Settlement{}, errors.WithStack(err)
	}
	return settlement, nil
}

// deliverAsset moves the asset from the seller to the winner. A refused or
// impossible transfer is reported as not delivered, other failures are errors.
func (e *Engine) deliverAsset(ctx context.Context, auction entity.Auction) (assetDelivery, error) {
	err := e.attempt(func() error {
		return e.assets.TransferFrom(ctx, auction.AssetContract, e.address, auction.TokenOwner, auction.Bidder, auction.AssetID)
	})
	switch {
	case err == nil:
		return assetDelivery{delivered: true}, nil
	case errors.Is(err, errs.TransferFailure), errors.Is(err, errs.NotFound):
		return assetDelivery{reason: err}, nil
	default:
		return assetDelivery{}, errors.Wrapf(err, "can't deliver asset of auction %d", auction.ID)
	}
}

func (e *Engine) payOut(ctx context.Context, op *operation, auction entity.Auction) (*entity.AuctionEnded, error) {
	royalty, err := getRoyalty(ctx, op.dg, auction.AssetContract)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	share, err := royalty.Share(auction.Amount)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errs.InvalidAmount), "can't compute royalty")
	}

	ended := &entity.AuctionEnded{
		AuctionID:     auction.ID,
		AssetID:       auction.AssetID,
		AssetContract: auction.AssetContract,
		TokenOwner:    auction.TokenOwner,
		Winner:        auction.Bidder,
		Amount:        auction.Amount,
		Currency:      auction.Currency,
	}
	// native escrow is held in the substitute token, the outcome names it
	if auction.IsNative() {
		ended.Currency = e.token.Address()
	}
	if !share.IsZero() {
		if err := e.deliver(ctx, op, royalty.Beneficiary, auction.Currency, share); err != nil {
			return nil, errors.Wrap(err, "can't pay royalty")
		}
		ended.Royalty = &entity.RoyaltyPayout{
			Beneficiary: royalty.Beneficiary,
			Percentage:  royalty.Percentage,
			Amount:      share,
		}
	}
	proceeds := auction.Amount.Sub(share)
	if err := e.deliver(ctx, op, auction.TokenOwner, auction.Currency, proceeds); err != nil {
		return nil, errors.Wrap(err, "can't pay seller")
	}

	logger.InfoContext(ctx, "auction settled",
		slogx.Stringer("winner", auction.Bidder),
		slogx.Stringer("amount", auction.Amount),
		slogx.Stringer("royalty", share),
		slogx.Stringer("proceeds", proceeds),
	)
	return ended, nil
}

func (e *Engine) refundWinner(ctx context.Context, op *operation, auction entity.Auction, reason error) (*entity.AuctionCanceled, error) {
	logger.WarnContext(ctx, "asset undeliverable to winner, refunding",
		slogx.Stringer("winner", auction.Bidder),
		slogx.Error(reason),
	)
	if err := e.deliver(ctx, op, auction.Bidder, auction.Currency, auction.Amount); err != nil {
		return nil, errors.Wrap(err, "can't refund winner")
	}
	return &entity.AuctionCanceled{
		AuctionID:     auction.ID,
		AssetID:       auction.AssetID,
		AssetContract: auction.AssetContract,
		TokenOwner:    auction.TokenOwner,
		Reason:        entity.CancelReasonAssetUndeliverable,
	}, nil
}
