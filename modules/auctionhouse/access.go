package auctionhouse

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
)

func isAdministrator(ctx context.Context, dg datagateway.RoleReader, account common.Address) (bool, error) {
	administrator, err := dg.GetAdministrator(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "can't get administrator")
	}
	return administrator == account, nil
}

// isAuctioneerOrAdministrator reports whether account holds any role.
func isAuctioneerOrAdministrator(ctx context.Context, dg datagateway.RoleReader, account common.Address) (bool, error) {
	ok, err := isAdministrator(ctx, dg, account)
	if err != nil || ok {
		return ok, err
	}
	ok, err = dg.IsAuctioneer(ctx, account)
	if err != nil {
		return false, errors.Wrap(err, "can't get auctioneer")
	}
	return ok, nil
}

func requireAdministrator(ctx context.Context, dg datagateway.RoleReader, caller common.Address) error {
	ok, err := isAdministrator(ctx, dg, caller)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		return errors.Wrapf(ErrNotAdministrator, "caller %s", caller)
	}
	return nil
}

func requireAuctioneer(ctx context.Context, dg datagateway.RoleReader, caller common.Address) error {
	ok, err := isAuctioneerOrAdministrator(ctx, dg, caller)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		return errors.Wrapf(ErrNotAuctioneer, "caller %s", caller)
	}
	return nil
}

func (e *Engine) AddAuctioneer(ctx context.Context, caller, account common.Address) error {
	return e.execute(ctx, "add_auctioneer", func(ctx context.Context, op *operation) error {
		if err := requireAdministrator(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if account == (common.Address{}) {
			return errors.Wrap(ErrZeroAddress, "auctioneer")
		}
		return e.setAuctioneer(ctx, op, account, true)
	})
}

func (e *Engine) RemoveAuctioneer(ctx context.Context, caller, account common.Address) error {
	return e.execute(ctx, "remove_auctioneer", func(ctx context.Context, op *operation) error {
		if err := requireAdministrator(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		return e.setAuctioneer(ctx, op, account, false)
	})
}

func (e *Engine) setAuctioneer(ctx context.Context, op *operation, account common.Address, enabled bool) error {
	if err := op.dg.SetAuctioneer(ctx, account, enabled); err != nil {
		return errors.Wrapf(err, "can't set auctioneer %s", account)
	}
	if enabled {
		return op.emit(ctx, entity.AuctioneerAdded{Account: account})
	}
	return op.emit(ctx, entity.AuctioneerRemoved{Account: account})
}

// WhitelistAccount lets a seller or an asset contract create auctions while public auctions are enabled.
func (e *Engine) WhitelistAccount(ctx context.Context, caller, account common.Address) error {
	return e.execute(ctx, "whitelist_account", func(ctx context.Context, op *operation) error {
		if err := requireAuctioneer(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if account == (common.Address{}) {
			return errors.Wrap(ErrZeroAddress, "whitelisted account")
		}
		if err := op.dg.SetWhitelisted(ctx, account, true); err != nil {
			return errors.Wrapf(err, "can't whitelist %s", account)
		}
		return op.emit(ctx, entity.AccountWhitelisted{Account: account})
	})
}

func (e *Engine) RemoveWhitelistedAccount(ctx context.Context, caller, account common.Address) error {
	return e.execute(ctx, "remove_whitelisted_account", func(ctx context.Context, op *operation) error {
		if err := requireAuctioneer(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if err := op.dg.SetWhitelisted(ctx, account, false); err != nil {
			return errors.Wrapf(err, "can't remove %s from whitelist", account)
		}
		return op.emit(ctx, entity.WhitelistRemoved{Account: account})
	})
}

func (e *Engine) SetPublicAuctionsEnabled(ctx context.Context, caller common.Address, enabled bool) error {
	return e.execute(ctx, "set_public_auctions_enabled", func(ctx context.Context, op *operation) error {
		if err := requireAdministrator(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if err := op.dg.SetPublicAuctionsEnabled(ctx, enabled); err != nil {
			return errors.Wrap(err, "can't set public auctions flag")
		}
		return op.emit(ctx, entity.PublicAuctionsEnabledSet{Enabled: enabled})
	})
}

// TransferAdministrator hands the administrator role over to next.
func (e *Engine) TransferAdministrator(ctx context.Context, caller, next common.Address) error {
	return e.execute(ctx, "transfer_administrator", func(ctx context.Context, op *operation) error {
		if err := requireAdministrator(ctx, op.dg, caller); err != nil {
			return errors.WithStack(err)
		}
		if next == (common.Address{}) {
			return errors.Wrap(ErrZeroAddress, "administrator")
		}
		if err := op.dg.SetAdministrator(ctx, next); err != nil {
			return errors.Wrap(err, "can't set administrator")
		}
		return op.emit(ctx, entity.AdministratorTransferred{Previous: caller, Next: next})
	})
}
