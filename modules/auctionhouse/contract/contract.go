// Package contract declares the collaborators the auction house settles against.
//
// Collaborator calls are atomic: a call that returns an error leaves no effect
// behind. Transfers that the counterparty refuses fail with errs.TransferFailure.
package contract

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/uint128"
)

// AssetRegistry is the registry of uniquely identified assets (an ERC-721 style contract per asset contract address).
type AssetRegistry interface {
	// SupportsUniqueAssetInterface reports whether assetContract implements the unique asset interface.
	SupportsUniqueAssetInterface(ctx context.Context, assetContract common.Address) (bool, error)
	// OwnerOf returns errs.NotFound when the asset doesn't exist.
	OwnerOf(ctx context.Context, assetContract common.Address, assetID uint128.Uint128) (common.Address, error)
	GetApproved(ctx context.Context, assetContract common.Address, assetID uint128.Uint128) (common.Address, error)
	IsApprovedForAll(ctx context.Context, assetContract common.Address, owner, operator common.Address) (bool, error)
	// TransferFrom moves the asset on behalf of operator, the receiver may refuse it.
	TransferFrom(ctx context.Context, assetContract common.Address, operator, from, to common.Address, assetID uint128.Uint128) error
}

// SubstituteToken is the fungible wrapped form of the native value unit.
type SubstituteToken interface {
	Address() common.Address
	BalanceOf(ctx context.Context, account common.Address) (uint128.Uint128, error)
	Allowance(ctx context.Context, owner, spender common.Address) (uint128.Uint128, error)
	Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error
	// TransferFrom moves amount from `from` to `to` consuming the allowance granted to spender.
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount uint128.Uint128) error
	// Deposit wraps amount of account's native balance.
	Deposit(ctx context.Context, account common.Address, amount uint128.Uint128) error
	// Withdraw unwraps amount back into account's native balance.
	Withdraw(ctx context.Context, account common.Address, amount uint128.Uint128) error
}

// NativeLedger is the ledger of the native value unit.
type NativeLedger interface {
	BalanceOf(ctx context.Context, account common.Address) (uint128.Uint128, error)
	// Transfer fails with errs.TransferFailure when the receiver refuses the value.
	Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error
}

// Host journals collaborator state so an operation can be reverted as a whole.
type Host interface {
	Snapshot() int
	RevertToSnapshot(id int)
	// DiscardSnapshot commits the changes made after the outermost snapshot.
	DiscardSnapshot(id int)
}
