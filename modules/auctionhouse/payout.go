package auctionhouse

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
)

// deliver pays amount of escrow to an account in currency. Native value is
// unwrapped and pushed first, the substitute token is the fallback. When the
// account takes neither, the amount is credited to its pending withdrawals so a
// refusing payee can't block the operation.
func (e *Engine) deliver(ctx context.Context, op *operation, to, currency common.Address, amount uint128.Uint128) error {
	if amount.IsZero() {
		return nil
	}
	err := e.push(ctx, to, currency, amount)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.TransferFailure) {
		return errors.WithStack(err)
	}

	logger.WarnContext(ctx, "payout undeliverable, crediting pending withdrawal",
		slogx.Stringer("account", to),
		slogx.Stringer("currency", currency),
		slogx.Stringer("amount", amount),
		slogx.Error(err),
	)
	return e.credit(ctx, op, to, currency, amount)
}

// push transfers escrow out of the engine, it fails with errs.TransferFailure when
// the account refuses every form of the payment.
func (e *Engine) push(ctx context.Context, to, currency common.Address, amount uint128.Uint128) error {
	if currency == entity.NativeCurrency {
		nativeErr := e.attempt(func() error {
			if err := e.token.Withdraw(ctx, e.address, amount); err != nil {
				return errors.Wrap(err, "can't unwrap escrow")
			}
			return e.native.Transfer(ctx, e.address, to, amount)
		})
		if nativeErr == nil {
			return nil
		}
		logger.DebugContext(ctx, "native payout failed, sending substitute token", slogx.Stringer("account", to), slogx.Error(nativeErr))
	}
	if err := e.attempt(func() error {
		return e.token.Transfer(ctx, e.address, to, amount)
	}); err != nil {
		return errors.Wrapf(errors.Mark(err, errs.TransferFailure), "can't pay %s", to)
	}
	return nil
}

func (e *Engine) credit(ctx context.Context, op *operation, to, currency common.Address, amount uint128.Uint128) error {
	pending, err := op.dg.GetPendingWithdrawal(ctx, to, currency)
	if err != nil {
		return errors.Wrapf(err, "can't get pending withdrawal of %s", to)
	}
	total, overflow := pending.AddOverflow(amount)
	if overflow {
		return errors.Wrapf(errs.OverflowUint128, "pending withdrawal of %s", to)
	}
	if err := op.dg.SetPendingWithdrawal(ctx, entity.PendingWithdrawal{
		Account:  to,
		Currency: currency,
		Amount:   total,
	}); err != nil {
		return errors.Wrapf(err, "can't set pending withdrawal of %s", to)
	}
	return op.emit(ctx, entity.RefundCredited{
		Account:  to,
		Currency: currency,
		Amount:   amount,
	})
}

// Withdraw claims the value credited to caller in currency when a payout
// couldn't be delivered. It returns the claimed amount.
func (e *Engine) Withdraw(ctx context.Context, caller, currency common.Address) (uint128.Uint128, error) {
	var amount uint128.Uint128
	err := e.execute(ctx, "withdraw", func(ctx context.Context, op *operation) error {
		if !e.isSupportedCurrency(currency) {
			return errors.Wrapf(ErrUnsupportedCurrency, "currency %s", currency)
		}
		pending, err := op.dg.GetPendingWithdrawal(ctx, caller, currency)
		if err != nil {
			return errors.Wrapf(err, "can't get pending withdrawal of %s", caller)
		}
		if pending.IsZero() {
			return errors.Wrapf(ErrNothingToWithdraw, "account %s", caller)
		}
		amount = pending

		if err := op.dg.SetPendingWithdrawal(ctx, entity.PendingWithdrawal{
			Account:  caller,
			Currency: currency,
			Amount:   uint128.Zero,
		}); err != nil {
			return errors.Wrapf(err, "can't clear pending withdrawal of %s", caller)
		}
		if err := e.push(ctx, caller, currency, amount); err != nil {
			return errors.WithStack(err)
		}

		logger.InfoContext(ctx, "pending withdrawal claimed",
			slogx.Stringer("account", caller),
			slogx.Stringer("currency", currency),
			slogx.Stringer("amount", amount),
		)
		return op.emit(ctx, entity.Withdrawn{
			Account:  caller,
			Currency: currency,
			Amount:   amount,
		})
	})
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return amount, nil
}
