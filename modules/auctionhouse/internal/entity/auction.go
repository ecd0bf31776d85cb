package entity

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

// NativeCurrency is the currency of auctions settled in the native value unit.
var NativeCurrency = common.Address{}

type Auction struct {
	ID            uint64
	AssetID       uint128.Uint128
	AssetContract common.Address
	TokenOwner    common.Address
	Duration      uint64
	FirstBidTime  uint64
	ReservePrice  uint128.Uint128
	Amount        uint128.Uint128
	Bidder        common.Address
	Currency      common.Address
}

// Exists reports whether the record is live, a deleted or unknown auction has no token owner.
func (a Auction) Exists() bool {
	return a.TokenOwner != (common.Address{})
}

// Started reports whether the auction received its first bid.
func (a Auction) Started() bool {
	return a.FirstBidTime != 0
}

// EndTime returns the scheduled end of a started auction.
func (a Auction) EndTime() uint64 {
	if a.Duration > math.MaxUint64-a.FirstBidTime {
		return math.MaxUint64
	}
	return a.FirstBidTime + a.Duration
}

// IsNative reports whether bids are paid in the native value unit.
func (a Auction) IsNative() bool {
	return a.Currency == NativeCurrency
}
