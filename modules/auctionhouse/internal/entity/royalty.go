package entity

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
)

// MaxRoyaltyPercentage is the upper bound of a royalty percentage.
const MaxRoyaltyPercentage = 100

type Royalty struct {
	AssetContract common.Address
	Beneficiary   common.Address
	Percentage    uint8
}

// Share returns the royalty cut of amount, rounded down.
func (r Royalty) Share(amount uint128.Uint128) (uint128.Uint128, error) {
	if r.Percentage == 0 || r.Beneficiary == (common.Address{}) {
		return uint128.Zero, nil
	}
	scaled, overflow := amount.MulOverflow(uint128.From64(uint64(r.Percentage)))
	if overflow {
		return uint128.Zero, errors.Wrapf(errs.OverflowUint128, "royalty of %s", amount)
	}
	return scaled.Div64(100), nil
}
