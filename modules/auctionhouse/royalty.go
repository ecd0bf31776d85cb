package auctionhouse

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
)

// SetRoyalty overwrites the royalty of an asset contract. It applies to the next
// settlement of every auction of the contract, including running ones.
func (e *Engine) SetRoyalty(ctx context.Context, caller, assetContract, beneficiary common.Address, percentage uint8) error {
	return e.execute(ctx, "set_royalty", func(ctx context.Context, op *operation) error {
		if err := requireAuctioneer(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if percentage > entity.MaxRoyaltyPercentage {
			return errors.Wrapf(ErrInvalidRoyalty, "percentage %d exceeds %d", percentage, entity.MaxRoyaltyPercentage)
		}
		if percentage > 0 && beneficiary == (common.Address{}) {
			return errors.Wrap(ErrInvalidRoyalty, "beneficiary must be set")
		}

		royalty := entity.Royalty{
			AssetContract: assetContract,
			Beneficiary:   beneficiary,
			Percentage:    percentage,
		}
		if err := op.dg.SetRoyalty(ctx, royalty); err != nil {
			return errors.Wrapf(err, "can't set royalty of %s", assetContract)
		}
		return op.emit(ctx, entity.RoyaltySet{
			AssetContract: assetContract,
			Beneficiary:   beneficiary,
			Percentage:    percentage,
		})
	})
}

// getRoyalty returns the royalty of the contract, the zero royalty when none is set.
func getRoyalty(ctx context.Context, dg datagateway.AuctionReader, assetContract common.Address) (entity.Royalty, error) {
	royalty, err := dg.GetRoyalty(ctx, assetContract)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return entity.Royalty{AssetContract: assetContract}, nil
		}
		return entity.Royalty{}, errors.Wrapf(err, "can't get royalty of %s", assetContract)
	}
	return *royalty, nil
}
