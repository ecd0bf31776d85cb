package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

// Token is a wrapped native token, every unit is backed by native value held at its address.
type Token struct {
	world      *World
	address    common.Address
	balances   map[common.Address]uint128.Uint128
	allowances map[allowanceKey]uint128.Uint128
	frozen     map[common.Address]bool
}

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) BalanceOf(_ context.Context, account common.Address) (uint128.Uint128, error) {
	return t.balances[account], nil
}

func (t *Token) Allowance(_ context.Context, owner, spender common.Address) (uint128.Uint128, error) {
	return t.allowances[allowanceKey{owner, spender}], nil
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount uint128.Uint128) {
	setBalance(t.world, t.allowances, allowanceKey{owner, spender}, amount)
}

// Freeze makes every transfer to account fail.
func (t *Token) Freeze(account common.Address, frozen bool) {
	prev := t.frozen[account]
	t.frozen[account] = frozen
	t.world.record(func() { t.frozen[account] = prev })
}

func (t *Token) Transfer(_ context.Context, from, to common.Address, amount uint128.Uint128) error {
	return t.world.atomic(func() error {
		return t.move(from, to, amount)
	})
}

func (t *Token) TransferFrom(_ context.Context, spender, from, to common.Address, amount uint128.Uint128) error {
	return t.world.atomic(func() error {
		if spender != from {
			key := allowanceKey{from, spender}
			if err := debit(t.world, t.allowances, key, amount, "allowance"); err != nil {
				return errors.Wrapf(err, "spender %s", spender)
			}
		}
		return t.move(from, to, amount)
	})
}

func (t *Token) Deposit(_ context.Context, account common.Address, amount uint128.Uint128) error {
	return t.world.atomic(func() error {
		if err := t.world.native.move(account, t.address, amount); err != nil {
			return errors.Wrap(err, "can't deposit native value")
		}
		return credit(t.world, t.balances, account, amount)
	})
}

func (t *Token) Withdraw(ctx context.Context, account common.Address, amount uint128.Uint128) error {
	return t.world.atomic(func() error {
		if err := debit(t.world, t.balances, account, amount, "token balance"); err != nil {
			return errors.Wrapf(err, "account %s", account)
		}
		if err := t.world.native.move(t.address, account, amount); err != nil {
			return errors.Wrap(err, "can't release native value")
		}
		return t.world.notifyNative(ctx, t.address, account, amount)
	})
}

func (t *Token) move(from, to common.Address, amount uint128.Uint128) error {
	if t.frozen[to] {
		return errors.Wrapf(errs.TransferFailure, "account %s is frozen", to)
	}
	if err := debit(t.world, t.balances, from, amount, "token balance"); err != nil {
		return errors.Wrapf(err, "from %s", from)
	}
	return credit(t.world, t.balances, to, amount)
}
