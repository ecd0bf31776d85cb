package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

type NativeBank struct {
	world    *World
	balances map[common.Address]uint128.Uint128
	supply   uint128.Uint128
}

func (b *NativeBank) BalanceOf(_ context.Context, account common.Address) (uint128.Uint128, error) {
	return b.balances[account], nil
}

// TotalSupply returns the amount of native value ever minted.
func (b *NativeBank) TotalSupply() uint128.Uint128 {
	return b.supply
}

// Mint credits new native value to account.
func (b *NativeBank) Mint(account common.Address, amount uint128.Uint128) error {
	return b.world.atomic(func() error {
		if err := credit(b.world, b.balances, account, amount); err != nil {
			return errors.WithStack(err)
		}
		prev := b.supply
		b.supply = b.supply.Add(amount)
		b.world.record(func() { b.supply = prev })
		return nil
	})
}

func (b *NativeBank) Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	return b.world.atomic(func() error {
		if err := b.move(from, to, amount); err != nil {
			return errors.WithStack(err)
		}
		return b.world.notifyNative(ctx, from, to, amount)
	})
}

func (b *NativeBank) move(from, to common.Address, amount uint128.Uint128) error {
	if err := debit(b.world, b.balances, from, amount, "native balance"); err != nil {
		return errors.Wrapf(err, "from %s", from)
	}
	return credit(b.world, b.balances, to, amount)
}
