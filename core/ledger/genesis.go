package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

// Genesis is the initial state of a world.
type Genesis struct {
	NativeBalances map[common.Address]uint128.Uint128
	// TokenBalances are minted as native value and wrapped.
	TokenBalances  map[common.Address]uint128.Uint128
	AssetContracts []GenesisAssetContract
}

type GenesisAssetContract struct {
	Address common.Address
	Assets  []GenesisAsset
}

type GenesisAsset struct {
	ID    uint128.Uint128
	Owner common.Address
}

// ApplyGenesis seeds the world, nothing is applied when it fails. The applied
// state can't be reverted afterwards.
func (w *World) ApplyGenesis(ctx context.Context, genesis Genesis) error {
	err := w.atomic(func() error {
		for account, amount := range genesis.NativeBalances {
			if err := w.native.Mint(account, amount); err != nil {
				return errors.Wrapf(err, "can't mint native value to %s", account)
			}
		}
		for account, amount := range genesis.TokenBalances {
			if err := w.native.Mint(account, amount); err != nil {
				return errors.Wrapf(err, "can't mint native value to %s", account)
			}
			if err := w.token.Deposit(ctx, account, amount); err != nil {
				return errors.Wrapf(err, "can't wrap native value of %s", account)
			}
		}
		for _, contract := range genesis.AssetContracts {
			if _, ok := w.assets.contracts[contract.Address]; !ok {
				w.assets.Deploy(contract.Address, true)
			}
			for _, asset := range contract.Assets {
				if err := w.assets.Mint(contract.Address, asset.ID, asset.Owner); err != nil {
					return errors.Wrapf(err, "can't mint asset %s of %s", asset.ID, contract.Address)
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}
	w.journal = nil
	return nil
}
