package httphandler

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/decimals"
	"github.com/gaze-network/uint128"
)

// Engine is the read side of the auction house.
type Engine interface {
	Address() common.Address
	SubstituteToken() common.Address
	MinBidIncrementPercentage() uint64
	TimeBuffer() uint64

	Auction(ctx context.Context, id uint64) (entity.Auction, error)
	Auctions(ctx context.Context) ([]*entity.Auction, error)
	Events(ctx context.Context, auctionID uint64) ([]entity.Event, error)
	Administrator(ctx context.Context) (common.Address, error)
	IsAuctioneer(ctx context.Context, account common.Address) (bool, error)
	IsWhitelisted(ctx context.Context, account common.Address) (bool, error)
	PublicAuctionsEnabled(ctx context.Context) (bool, error)
	Royalty(ctx context.Context, assetContract common.Address) (entity.Royalty, error)
	PendingWithdrawal(ctx context.Context, account, currency common.Address) (uint128.Uint128, error)
}

// Executor runs state changing calls.
type Executor interface {
	Execute(ctx context.Context, call entity.Call) (entity.Receipt, error)
}

type HttpHandler struct {
	engine   Engine
	executor Executor
}

// New creates the http handler, the call endpoint is mounted only when executor is not nil.
func New(engine Engine, executor Executor) *HttpHandler {
	return &HttpHandler{
		engine:   engine,
		executor: executor,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

// amount is a base unit amount with its decimal representation.
type amount struct {
	Value   string `json:"value"`
	Decimal string `json:"decimal"`
}

func newAmount(value uint128.Uint128) amount {
	return amount{
		Value:   value.String(),
		Decimal: decimals.FromUint128(value, decimals.NativeDecimals).String(),
	}
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errs.NewPublicError(field + " is not a hex address")
	}
	return common.HexToAddress(s), nil
}

func parseAuctionID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errs.WithPublicMessage(errors.Mark(err, errs.InvalidArgument), "invalid auction id")
	}
	return id, nil
}
