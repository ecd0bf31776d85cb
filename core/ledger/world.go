// Package ledger is an in-process host for the auction house: a native value
// ledger, a wrapped native token and a registry of unique assets, all sharing
// one revertible journal.
//
// A World is not safe for concurrent use, callers must serialize access.
package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
)

// Receiver is implemented by contract accounts that run code when they receive value or assets.
// Returning an error refuses the transfer.
type Receiver interface {
	OnNativeReceived(ctx context.Context, from common.Address, amount uint128.Uint128) error
	OnAssetReceived(ctx context.Context, operator, from, assetContract common.Address, assetID uint128.Uint128) error
}

// ReceiverFuncs adapts functions to a Receiver, a nil function accepts.
type ReceiverFuncs struct {
	Native func(ctx context.Context, from common.Address, amount uint128.Uint128) error
	Asset  func(ctx context.Context, operator, from, assetContract common.Address, assetID uint128.Uint128) error
}

func (r ReceiverFuncs) OnNativeReceived(ctx context.Context, from common.Address, amount uint128.Uint128) error {
	if r.Native == nil {
		return nil
	}
	return r.Native(ctx, from, amount)
}

func (r ReceiverFuncs) OnAssetReceived(ctx context.Context, operator, from, assetContract common.Address, assetID uint128.Uint128) error {
	if r.Asset == nil {
		return nil
	}
	return r.Asset(ctx, operator, from, assetContract, assetID)
}

// RejectAll refuses every native value and asset it receives.
var RejectAll Receiver = ReceiverFuncs{
	Native: func(context.Context, common.Address, uint128.Uint128) error {
		return errors.New("receiver rejects native value")
	},
	Asset: func(context.Context, common.Address, common.Address, common.Address, uint128.Uint128) error {
		return errors.New("receiver rejects assets")
	},
}

type World struct {
	journal   []func()
	receivers map[common.Address]Receiver

	native *NativeBank
	token  *Token
	assets *AssetRegistry
}

// New creates an empty world whose wrapped native token lives at tokenAddress.
func New(tokenAddress common.Address) *World {
	w := &World{
		receivers: make(map[common.Address]Receiver),
	}
	w.native = &NativeBank{world: w, balances: make(map[common.Address]uint128.Uint128)}
	w.token = &Token{
		world:      w,
		address:    tokenAddress,
		balances:   make(map[common.Address]uint128.Uint128),
		allowances: make(map[allowanceKey]uint128.Uint128),
		frozen:     make(map[common.Address]bool),
	}
	w.assets = &AssetRegistry{world: w, contracts: make(map[common.Address]*assetContract)}
	return w
}

func (w *World) Native() *NativeBank { return w.native }

func (w *World) Token() *Token { return w.token }

func (w *World) Assets() *AssetRegistry { return w.assets }

// SetReceiver installs receiver code on account, a nil receiver removes it.
func (w *World) SetReceiver(account common.Address, receiver Receiver) {
	if receiver == nil {
		delete(w.receivers, account)
		return
	}
	w.receivers[account] = receiver
}

// Snapshot returns an identifier of the current state.
func (w *World) Snapshot() int {
	return len(w.journal)
}

// RevertToSnapshot undoes every change made after the snapshot was taken.
func (w *World) RevertToSnapshot(id int) {
	if id < 0 {
		id = 0
	}
	for i := len(w.journal) - 1; i >= id; i-- {
		w.journal[i]()
	}
	if id < len(w.journal) {
		w.journal = w.journal[:id]
	}
}

// DiscardSnapshot commits every change made after the snapshot was taken, the
// changes can no longer be reverted. Only the outermost snapshot may be discarded.
func (w *World) DiscardSnapshot(id int) {
	if id < 0 {
		id = 0
	}
	if id >= len(w.journal) {
		return
	}
	clear(w.journal[id:])
	w.journal = w.journal[:id]
}

func (w *World) record(undo func()) {
	w.journal = append(w.journal, undo)
}

// atomic runs fn and reverts its effects when it fails.
func (w *World) atomic(fn func() error) error {
	snapshot := w.Snapshot()
	if err := fn(); err != nil {
		w.RevertToSnapshot(snapshot)
		return err
	}
	return nil
}

func (w *World) notifyNative(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	receiver, ok := w.receivers[to]
	if !ok {
		return nil
	}
	if err := receiver.OnNativeReceived(ctx, from, amount); err != nil {
		return errors.Wrapf(errors.Mark(err, errs.TransferFailure), "%s refused native value", to)
	}
	return nil
}

func (w *World) notifyAsset(ctx context.Context, operator, from, to, assetContract common.Address, assetID uint128.Uint128) error {
	receiver, ok := w.receivers[to]
	if !ok {
		return nil
	}
	if err := receiver.OnAssetReceived(ctx, operator, from, assetContract, assetID); err != nil {
		return errors.Wrapf(errors.Mark(err, errs.TransferFailure), "%s refused asset %s", to, assetID)
	}
	return nil
}

// setBalance writes a journaled balance entry.
func setBalance[K comparable](w *World, balances map[K]uint128.Uint128, key K, value uint128.Uint128) {
	prev, existed := balances[key]
	if value.IsZero() {
		delete(balances, key)
	} else {
		balances[key] = value
	}
	w.record(func() {
		if existed {
			balances[key] = prev
		} else {
			delete(balances, key)
		}
	})
}

func credit[K comparable](w *World, balances map[K]uint128.Uint128, key K, amount uint128.Uint128) error {
	next, overflow := balances[key].AddOverflow(amount)
	if overflow {
		return errors.Wrap(errs.OverflowUint128, "balance overflow")
	}
	setBalance(w, balances, key, next)
	return nil
}

func debit[K comparable](w *World, balances map[K]uint128.Uint128, key K, amount uint128.Uint128, what string) error {
	balance := balances[key]
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(errs.TransferFailure, "insufficient %s: have %s, need %s", what, balance, amount)
	}
	setBalance(w, balances, key, balance.Sub(amount))
	return nil
}
