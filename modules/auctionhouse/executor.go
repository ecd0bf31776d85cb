package auctionhouse

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/config"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
	"github.com/google/uuid"
)

// Executor orders calls to the engine, one call runs at a time.
type Executor struct {
	mu     sync.Mutex
	engine *Engine
}

func NewExecutor(engine *Engine) *Executor {
	return &Executor{engine: engine}
}

func (x *Executor) Engine() *Engine {
	return x.engine
}

// Execute decodes and runs a call.
func (x *Executor) Execute(ctx context.Context, call entity.Call) (entity.Receipt, error) {
	if call.ID == uuid.Nil {
		call.ID = uuid.New()
	}
	ctx = logger.WithContext(ctx,
		slogx.Stringer("call_id", call.ID),
		slog.String("op", string(call.Op)),
		slogx.Stringer("caller", call.Caller),
	)

	value := uint128.Zero
	if strings.TrimSpace(call.Value) != "" {
		var err error
		if value, err = config.ParseAmount(call.Value); err != nil {
			return entity.Receipt{}, errors.Wrap(err, "invalid call value")
		}
	}
	if !value.IsZero() && call.Op != entity.OpCreateBid {
		return entity.Receipt{}, errors.Wrapf(ErrAmountMismatch, "%s doesn't accept native value", call.Op)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	output, err := x.dispatch(ctx, call, value)
	if err != nil {
		logger.DebugContext(ctx, "call failed", slogx.Error(err))
		return entity.Receipt{}, errors.WithStack(err)
	}
	return entity.Receipt{CallID: call.ID, Op: call.Op, Output: output}, nil
}

func (x *Executor) dispatch(ctx context.Context, call entity.Call, value uint128.Uint128) (any, error) {
	e := x.engine
	switch call.Op {
	case entity.OpCreateAuction:
		params, err := decodeParams[entity.CreateAuctionCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		assetID, err := config.ParseAmount(params.AssetID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid assetId")
		}
		reserve := uint128.Zero
		if params.ReservePrice != "" {
			if reserve, err = config.ParseAmount(params.ReservePrice); err != nil {
				return nil, errors.Wrap(err, "invalid reservePrice")
			}
		}
		id, err := e.CreateAuction(ctx, call.Caller, CreateAuctionParams{
			AssetID:       assetID,
			AssetContract: params.AssetContract,
			Duration:      params.Duration,
			ReservePrice:  reserve,
			Currency:      params.Currency,
		})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return entity.AuctionCallParams{AuctionID: id}, nil
	case entity.OpCancelAuction:
		params, err := decodeParams[entity.AuctionCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, e.CancelAuction(ctx, call.Caller, params.AuctionID)
	case entity.OpSetAuctionReservePrice:
		params, err := decodeParams[entity.SetReservePriceCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		reserve, err := config.ParseAmount(params.ReservePrice)
		if err != nil {
			return nil, errors.Wrap(err, "invalid reservePrice")
		}
		return nil, e.SetAuctionReservePrice(ctx, call.Caller, params.AuctionID, reserve)
	case entity.OpCreateBid:
		params, err := decodeParams[entity.CreateBidCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		amount, err := config.ParseAmount(params.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "invalid amount")
		}
		return nil, e.CreateBid(ctx, call.Caller, params.AuctionID, amount, value)
	case entity.OpEndAuction:
		params, err := decodeParams[entity.AuctionCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		settlement, err := e.EndAuction(ctx, call.Caller, params.AuctionID)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return settlement, nil
	case entity.OpWithdraw:
		params, err := decodeParams[entity.WithdrawCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		amount, err := e.Withdraw(ctx, call.Caller, params.Currency)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return map[string]string{"amount": amount.String()}, nil
	case entity.OpSetRoyalty:
		params, err := decodeParams[entity.SetRoyaltyCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, e.SetRoyalty(ctx, call.Caller, params.AssetContract, params.Beneficiary, params.Percentage)
	case entity.OpAddAuctioneer, entity.OpRemoveAuctioneer, entity.OpWhitelistAccount, entity.OpRemoveWhitelistedAccount, entity.OpTransferAdministrator:
		params, err := decodeParams[entity.AccountCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, x.dispatchAccount(ctx, call.Op, call.Caller, params.Account)
	case entity.OpSetPublicAuctionsEnabled:
		params, err := decodeParams[entity.PublicAuctionsCallParams](call.Params)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return nil, e.SetPublicAuctionsEnabled(ctx, call.Caller, params.Enabled)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "unknown op %q", call.Op)
	}
}

func (x *Executor) dispatchAccount(ctx context.Context, op entity.Opcode, caller, account common.Address) error {
	switch op {
	case entity.OpAddAuctioneer:
		return x.engine.AddAuctioneer(ctx, caller, account)
	case entity.OpRemoveAuctioneer:
		return x.engine.RemoveAuctioneer(ctx, caller, account)
	case entity.OpWhitelistAccount:
		return x.engine.WhitelistAccount(ctx, caller, account)
	case entity.OpRemoveWhitelistedAccount:
		return x.engine.RemoveWhitelistedAccount(ctx, caller, account)
	default:
		return x.engine.TransferAdministrator(ctx, caller, account)
	}
}

func decodeParams[T any](raw json.RawMessage) (T, error) {
	var params T
	if len(raw) == 0 {
		return params, errors.Wrap(errs.InvalidArgument, "params are required")
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, errors.Wrap(errors.Mark(err, errs.InvalidArgument), "can't decode params")
	}
	return params, nil
}
