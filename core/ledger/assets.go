package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
)

type operatorKey struct {
	owner    common.Address
	operator common.Address
}

type assetContract struct {
	unique    bool
	owners    map[uint128.Uint128]common.Address
	approvals map[uint128.Uint128]common.Address
	operators map[operatorKey]bool
}

type AssetRegistry struct {
	world     *World
	contracts map[common.Address]*assetContract
}

// Deploy registers an asset contract. A contract deployed with unique false
// doesn't expose the unique asset interface.
func (r *AssetRegistry) Deploy(address common.Address, unique bool) {
	prev, existed := r.contracts[address]
	r.contracts[address] = &assetContract{
		unique:    unique,
		owners:    make(map[uint128.Uint128]common.Address),
		approvals: make(map[uint128.Uint128]common.Address),
		operators: make(map[operatorKey]bool),
	}
	r.world.record(func() {
		if existed {
			r.contracts[address] = prev
		} else {
			delete(r.contracts, address)
		}
	})
}

// Mint creates assetID owned by owner.
func (r *AssetRegistry) Mint(address common.Address, assetID uint128.Uint128, owner common.Address) error {
	contract, err := r.contract(address)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, exists := contract.owners[assetID]; exists {
		return errors.Wrapf(errs.InvalidArgument, "asset %s already minted", assetID)
	}
	setEntry(r.world, contract.owners, assetID, owner)
	return nil
}

// Approve lets approved move assetID once, owner must own it.
func (r *AssetRegistry) Approve(address common.Address, owner, approved common.Address, assetID uint128.Uint128) error {
	contract, err := r.contract(address)
	if err != nil {
		return errors.WithStack(err)
	}
	if contract.owners[assetID] != owner {
		return errors.Wrapf(errs.Unauthorized, "%s doesn't own asset %s", owner, assetID)
	}
	setEntry(r.world, contract.approvals, assetID, approved)
	return nil
}

// SetApprovalForAll lets operator move every asset of owner.
func (r *AssetRegistry) SetApprovalForAll(address common.Address, owner, operator common.Address, approved bool) error {
	contract, err := r.contract(address)
	if err != nil {
		return errors.WithStack(err)
	}
	key := operatorKey{owner, operator}
	prev := contract.operators[key]
	contract.operators[key] = approved
	r.world.record(func() { contract.operators[key] = prev })
	return nil
}

func (r *AssetRegistry) SupportsUniqueAssetInterface(_ context.Context, address common.Address) (bool, error) {
	contract, ok := r.contracts[address]
	return ok && contract.unique, nil
}

func (r *AssetRegistry) OwnerOf(_ context.Context, address common.Address, assetID uint128.Uint128) (common.Address, error) {
	contract, err := r.contract(address)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	owner, ok := contract.owners[assetID]
	if !ok {
		return common.Address{}, errors.Wrapf(errs.NotFound, "asset %s of %s", assetID, address)
	}
	return owner, nil
}

func (r *AssetRegistry) GetApproved(_ context.Context, address common.Address, assetID uint128.Uint128) (common.Address, error) {
	contract, err := r.contract(address)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return contract.approvals[assetID], nil
}

func (r *AssetRegistry) IsApprovedForAll(_ context.Context, address common.Address, owner, operator common.Address) (bool, error) {
	contract, err := r.contract(address)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return contract.operators[operatorKey{owner, operator}], nil
}

func (r *AssetRegistry) TransferFrom(ctx context.Context, address common.Address, operator, from, to common.Address, assetID uint128.Uint128) error {
	contract, err := r.contract(address)
	if err != nil {
		return errors.WithStack(err)
	}
	return r.world.atomic(func() error {
		owner, ok := contract.owners[assetID]
		if !ok {
			return errors.Wrapf(errs.NotFound, "asset %s of %s", assetID, address)
		}
		if owner != from {
			return errors.Wrapf(errs.TransferFailure, "%s doesn't own asset %s", from, assetID)
		}
		if operator != owner && contract.approvals[assetID] != operator && !contract.operators[operatorKey{owner, operator}] {
			return errors.Wrapf(errs.TransferFailure, "%s isn't approved for asset %s", operator, assetID)
		}
		if to == (common.Address{}) {
			return errors.Wrap(errs.TransferFailure, "transfer to the zero address")
		}
		setEntry(r.world, contract.approvals, assetID, common.Address{})
		setEntry(r.world, contract.owners, assetID, to)
		return r.world.notifyAsset(ctx, operator, from, to, address, assetID)
	})
}

func (r *AssetRegistry) contract(address common.Address) (*assetContract, error) {
	contract, ok := r.contracts[address]
	if !ok || !contract.unique {
		return nil, errors.Wrapf(errs.Unsupported, "%s isn't a unique asset contract", address)
	}
	return contract, nil
}

// setEntry writes a journaled address entry, the zero address deletes it.
func setEntry(w *World, entries map[uint128.Uint128]common.Address, key uint128.Uint128, value common.Address) {
	prev, existed := entries[key]
	if value == (common.Address{}) {
		delete(entries, key)
	} else {
		entries[key] = value
	}
	w.record(func() {
		if existed {
			entries[key] = prev
		} else {
			delete(entries, key)
		}
	})
}
