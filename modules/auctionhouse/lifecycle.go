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
	"github.com/gaze-network/uint128"
)

type CreateAuctionParams struct {
	AssetID       uint128.Uint128
	AssetContract common.Address
	Duration      uint64
	ReservePrice  uint128.Uint128
	Currency      common.Address
}

// CreateAuction lists an asset owned by caller and returns the auction id. The
// asset stays with its owner, the engine must be approved to move it by the time
// the auction ends.
func (e *Engine) CreateAuction(ctx context.Context, caller common.Address, params CreateAuctionParams) (uint64, error) {
	var id uint64
	err := e.execute(ctx, "create_auction", func(ctx context.Context, op *operation) error {
		if !e.isSupportedCurrency(params.Currency) {
			return errors.Wrapf(ErrUnsupportedCurrency, "currency %s", params.Currency)
		}

		supported, err := e.assets.SupportsUniqueAssetInterface(ctx, params.AssetContract)
		if err != nil {
			return errors.Wrapf(err, "can't probe asset contract %s", params.AssetContract)
		}
		if !supported {
			return errors.Wrapf(ErrUnsupportedAsset, "asset contract %s", params.AssetContract)
		}

		owner, err := e.assets.OwnerOf(ctx, params.AssetContract, params.AssetID)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return errors.Wrapf(ErrAssetNotFound, "asset %s of %s", params.AssetID, params.AssetContract)
			}
			return errors.Wrapf(err, "can't get owner of asset %s", params.AssetID)
		}
		if owner != caller {
			return errors.Wrapf(ErrNotAssetOwner, "caller %s", caller)
		}

		if err := e.authorizeSeller(ctx, op, caller, params.AssetContract); err != nil {
			return errors.WithStack(err)
		}

		id, err = op.dg.NextAuctionID(ctx)
		if err != nil {
			return errors.Wrap(err, "can't allocate auction id")
		}
		auction := entity.Auction{
			ID:            id,
			AssetID:       params.AssetID,
			AssetContract: params.AssetContract,
			TokenOwner:    owner,
			Duration:      params.Duration,
			ReservePrice:  params.ReservePrice,
			Currency:      params.Currency,
		}
		if err := op.dg.SaveAuction(ctx, auction); err != nil {
			return errors.Wrapf(err, "can't save auction %d", id)
		}

		e.warnIfNotApproved(ctx, auction)

		return op.emit(ctx, entity.AuctionCreated{
			AuctionID:     id,
			AssetID:       auction.AssetID,
			AssetContract: auction.AssetContract,
			Duration:      auction.Duration,
			ReservePrice:  auction.ReservePrice,
			TokenOwner:    auction.TokenOwner,
			Currency:      auction.Currency,
		})
	})
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return id, nil
}

// authorizeSeller passes administrators and auctioneers, anybody else needs
// public auctions enabled and either itself or the asset contract whitelisted.
func (e *Engine) authorizeSeller(ctx context.Context, op *operation, caller, assetContract common.Address) error {
	privileged, err := isAuctioneerOrAdministrator(ctx, op.dg, caller)
	if err != nil {
		return errors.WithStack(err)
	}
	if privileged {
		return nil
	}

	public, err := op.dg.GetPublicAuctionsEnabled(ctx)
	if err != nil {
		return errors.Wrap(err, "can't get public auctions flag")
	}
	if !public {
		return errors.Wrapf(ErrNotAuthorizedSeller, "caller %s, public auctions disabled", caller)
	}
	for _, account := range []common.Address{caller, assetContract} {
		whitelisted, err := op.dg.IsWhitelisted(ctx, account)
		if err != nil {
			return errors.Wrapf(err, "can't get whitelist of %s", account)
		}
		if whitelisted {
			return nil
		}
	}
	return errors.Wrapf(ErrNotAuthorizedSeller, "caller %s", caller)
}

func (e *Engine) warnIfNotApproved(ctx context.Context, auction entity.Auction) {
	approved, err := e.assets.GetApproved(ctx, auction.AssetContract, auction.AssetID)
	if err == nil && approved == e.address {
		return
	}
	operator, err := e.assets.IsApprovedForAll(ctx, auction.AssetContract, auction.TokenOwner, e.address)
	if err == nil && operator {
		return
	}
	logger.WarnContext(ctx, "auction created without engine approval, settlement will fall back to refund",
		slog.Uint64("auction_id", auction.ID),
		slogx.Stringer("asset_contract", auction.AssetContract),
		slogx.Stringer("asset_id", auction.AssetID),
	)
}

// CancelAuction removes an auction that didn't receive any bid.
func (e *Engine) CancelAuction(ctx context.Context, caller common.Address, id uint64) error {
	return e.execute(ctx, "cancel_auction", func(ctx context.Context, op *operation) error {
		auction, err := e.getUnstartedAuction(ctx, op, caller, id)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := op.dg.DeleteAuction(ctx, id); err != nil {
			return errors.Wrapf(err, "can't delete auction %d", id)
		}
		return op.emit(ctx, entity.AuctionCanceled{
			AuctionID:     id,
			AssetID:       auction.AssetID,
			AssetContract: auction.AssetContract,
			TokenOwner:    auction.TokenOwner,
			Reason:        entity.CancelReasonCanceled,
		})
	})
}

func (e *Engine) SetAuctionReservePrice(ctx context.Context, caller common.Address, id uint64, reservePrice uint128.Uint128) error {
	return e.execute(ctx, "set_auction_reserve_price", func(ctx context.Context, op *operation) error {
		auction, err := e.getUnstartedAuction(ctx, op, caller, id)
		if err != nil {
			return errors.WithStack(err)
		}
		auction.ReservePrice = reservePrice
		if err := op.dg.SaveAuction(ctx, *auction); err != nil {
			return errors.Wrapf(err, "can't save auction %d", id)
		}
		return op.emit(ctx, entity.AuctionReservePriceUpdated{
			AuctionID:     id,
			AssetID:       auction.AssetID,
			AssetContract: auction.AssetContract,
			ReservePrice:  reservePrice,
		})
	})
}

// getUnstartedAuction loads an auction that caller may still modify.
func (e *Engine) getUnstartedAuction(ctx context.Context, op *operation, caller common.Address, id uint64) (*entity.Auction, error) {
	auction, err := e.getAuction(ctx, op.dg, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if caller != auction.TokenOwner {
		privileged, err := isAuctioneerOrAdministrator(ctx, op.dg, caller)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !privileged {
			return nil, errors.Wrapf(ErrNotAuctioneerOrSeller, "caller %s", caller)
		}
	}
	if auction.Started() {
		return nil, errors.Wrapf(ErrAuctionAlreadyStarted, "auction %d", id)
	}
	return auction, nil
}
