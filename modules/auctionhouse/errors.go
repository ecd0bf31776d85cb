package auctionhouse

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
)

var (
	ErrAuctionNotFound     = errors.Mark(errors.New("auction doesn't exist"), errs.NotFound)
	ErrAssetNotFound       = errors.Mark(errors.New("asset doesn't exist"), errs.NotFound)
	ErrUnsupportedAsset    = errors.Mark(errors.New("asset contract doesn't support the unique asset interface"), errs.InvalidArgument)
	ErrUnsupportedCurrency = errors.Mark(errors.New("currency must be native or the substitute token"), errs.InvalidArgument)
	ErrInvalidRoyalty      = errors.Mark(errors.New("invalid royalty"), errs.InvalidArgument)
	ErrZeroAddress         = errors.Mark(errors.New("address must not be zero"), errs.InvalidArgument)

	ErrNotAssetOwner         = errors.Mark(errors.New("caller must own the asset"), errs.Unauthorized)
	ErrNotAuthorizedSeller   = errors.Mark(errors.New("caller must be designated auctioneer"), errs.Unauthorized)
	ErrNotAdministrator      = errors.Mark(errors.New("call must be made by administrator"), errs.Unauthorized)
	ErrNotAuctioneer         = errors.Mark(errors.New("call must be made by authorized auctioneer"), errs.Unauthorized)
	ErrNotAuctioneerOrSeller = errors.Mark(errors.New("must be auctioneer or owner of asset"), errs.Unauthorized)

	ErrAuctionAlreadyStarted = errors.Mark(errors.New("auction already started"), errs.InvalidState)
	ErrAuctionNotStarted     = errors.Mark(errors.New("auction hasn't begun"), errs.InvalidState)
	ErrAuctionNotComplete    = errors.Mark(errors.New("auction hasn't completed"), errs.InvalidState)
	ErrAuctionExpired        = errors.Mark(errors.New("auction expired"), errs.InvalidState)
	ErrReentrantCall         = errors.Mark(errors.New("reentrant call"), errs.InvalidState)

	ErrBelowReserve          = errors.Mark(errors.New("must send at least reserve price"), errs.InvalidAmount)
	ErrInsufficientIncrement = errors.Mark(errors.New("must send more than last bid by minimum bid increment percentage amount"), errs.InvalidAmount)
	ErrAmountMismatch        = errors.Mark(errors.New("sent value doesn't equal amount"), errs.InvalidAmount)
	ErrZeroBid               = errors.Mark(errors.New("bid amount must not be zero"), errs.InvalidAmount)
	ErrNothingToWithdraw     = errors.Mark(errors.New("nothing to withdraw"), errs.InvalidAmount)
)
