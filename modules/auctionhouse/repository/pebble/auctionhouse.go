package pebble

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
)

var present = []byte{1}

// get returns a copy of the value of k, errs.NotFound if it's absent.
func get(s store, k []byte) ([]byte, error) {
	value, closer, err := s.Get(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrapf(err, "failed to get %q", k)
	}
	defer closer.Close()
	return bytes.Clone(value), nil
}

func has(s store, k []byte) (bool, error) {
	_, err := get(s, k)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}

// scan visits the keys with prefix in order until fn returns false or an error.
func scan(s store, prefix []byte, fn func(key, value []byte) (bool, error)) error {
	iter, err := s.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create iterator")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return errors.Wrap(err, "failed to read value")
		}
		next, err := fn(bytes.Clone(iter.Key()), bytes.Clone(value))
		if err != nil {
			return errors.WithStack(err)
		}
		if !next {
			break
		}
	}
	return errors.Wrap(iter.Error(), "iterator failed")
}

// next increments the counter at k and returns its previous value.
func next(s store, k []byte) (uint64, error) {
	value, err := get(s, k)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return 0, errors.WithStack(err)
	}
	var current uint64
	if len(value) == 8 {
		current = binary.BigEndian.Uint64(value)
	}
	if err := s.Set(k, uint64Bytes(current+1), nil); err != nil {
		return 0, errors.Wrapf(err, "failed to set %q", k)
	}
	return current, nil
}

func setFlag(s store, k []byte, enabled bool) error {
	if enabled {
		return errors.WithStack(s.Set(k, present, nil))
	}
	return errors.WithStack(s.Delete(k, nil))
}

func (r *Repository) GetAuction(ctx context.Context, id uint64) (*entity.Auction, error) {
	value, err := get(r.reader(), auctionKey(id))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	model, err := decode[auctionModel](value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	auction, err := mapAuctionModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &auction, nil
}

func (r *Repository) GetAuctions(ctx context.Context) ([]*entity.Auction, error) {
	auctions := make([]*entity.Auction, 0)
	err := scan(r.reader(), prefixAuction, func(_, value []byte) (bool, error) {
		model, err := decode[auctionModel](value)
		if err != nil {
			return false, errors.WithStack(err)
		}
		auction, err := mapAuctionModelToType(model)
		if err != nil {
			return false, errors.WithStack(err)
		}
		auctions = append(auctions, &auction)
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan auctions")
	}
	return auctions, nil
}

func (r *Repository) GetRoyalty(ctx context.Context, assetContract common.Address) (*entity.Royalty, error) {
	value, err := get(r.reader(), royaltyKey(assetContract))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	model, err := decode[royaltyModel](value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &entity.Royalty{
		AssetContract: model.AssetContract,
		Beneficiary:   model.Beneficiary,
		Percentage:    model.Percentage,
	}, nil
}

func (r *Repository) GetPendingWithdrawal(ctx context.Context, account, currency common.Address) (uint128.Uint128, error) {
	value, err := get(r.reader(), withdrawalKey(account, currency))
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return uint128.Zero, nil
		}
		return uint128.Zero, errors.WithStack(err)
	}
	amount, err := uint128.FromString(string(value))
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to parse pending withdrawal")
	}
	return amount, nil
}

func (r *Repository) GetPendingWithdrawals(ctx context.Context) ([]entity.PendingWithdrawal, error) {
	withdrawals := make([]entity.PendingWithdrawal, 0)
	err := scan(r.reader(), prefixWithdrawal, func(k, value []byte) (bool, error) {
		suffix := k[len(prefixWithdrawal):]
		if len(suffix) != 2*common.AddressLength {
			return false, errors.Newf("malformed withdrawal key %x", k)
		}
		amount, err := uint128.FromString(string(value))
		if err != nil {
			return false, errors.Wrap(err, "failed to parse pending withdrawal")
		}
		withdrawals = append(withdrawals, entity.PendingWithdrawal{
			Account:  common.BytesToAddress(suffix[:common.AddressLength]),
			Currency: common.BytesToAddress(suffix[common.AddressLength:]),
			Amount:   amount,
		})
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan pending withdrawals")
	}
	return withdrawals, nil
}

func (r *Repository) NextAuctionID(ctx context.Context) (uint64, error) {
	var id uint64
	err := r.write(func(s store) (err error) {
		id, err = next(s, keyNextAuctionID)
		return errors.WithStack(err)
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to reserve auction id")
	}
	return id, nil
}

func (r *Repository) SaveAuction(ctx context.Context, auction entity.Auction) error {
	value, err := encode(mapAuctionTypeToModel(auction))
	if err != nil {
		return errors.WithStack(err)
	}
	return r.write(func(s store) error {
		return errors.Wrapf(s.Set(auctionKey(auction.ID), value, nil), "failed to save auction %d", auction.ID)
	})
}

func (r *Repository) DeleteAuction(ctx context.Context, id uint64) error {
	return r.write(func(s store) error {
		return errors.Wrapf(s.Delete(auctionKey(id), nil), "failed to delete auction %d", id)
	})
}

func (r *Repository) SetRoyalty(ctx context.Context, royalty entity.Royalty) error {
	value, err := encode(royaltyModel{
		AssetContract: royalty.AssetContract,
		Beneficiary:   royalty.Beneficiary,
		Percentage:    royalty.Percentage,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return r.write(func(s store) error {
		return errors.Wrapf(s.Set(royaltyKey(royalty.AssetContract), value, nil), "failed to set royalty of %s", royalty.AssetContract)
	})
}

// SetPendingWithdrawal stores the amount owed, a zero amount removes the entry.
func (r *Repository) SetPendingWithdrawal(ctx context.Context, withdrawal entity.PendingWithdrawal) error {
	k := withdrawalKey(withdrawal.Account, withdrawal.Currency)
	return r.write(func(s store) error {
		if withdrawal.Amount.IsZero() {
			return errors.Wrap(s.Delete(k, nil), "failed to delete pending withdrawal")
		}
		return errors.Wrap(s.Set(k, []byte(withdrawal.Amount.String()), nil), "failed to set pending withdrawal")
	})
}

func (r *Repository) GetAdministrator(ctx context.Context) (common.Address, error) {
	value, err := get(r.reader(), keyAdministrator)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return common.BytesToAddress(value), nil
}

func (r *Repository) IsAuctioneer(ctx context.Context, account common.Address) (bool, error) {
	return has(r.reader(), auctioneerKey(account))
}

func (r *Repository) GetAuctioneers(ctx context.Context) ([]common.Address, error) {
	auctioneers := make([]common.Address, 0)
	err := scan(r.reader(), prefixAuctioneer, func(k, _ []byte) (bool, error) {
		auctioneers = append(auctioneers, common.BytesToAddress(k[len(prefixAuctioneer):]))
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan auctioneers")
	}
	return auctioneers, nil
}

func (r *Repository) IsWhitelisted(ctx context.Context, account common.Address) (bool, error) {
	return has(r.reader(), whitelistKey(account))
}

func (r *Repository) GetPublicAuctionsEnabled(ctx context.Context) (bool, error) {
	return has(r.reader(), keyPublicAuctions)
}

func (r *Repository) SetAdministrator(ctx context.Context, account common.Address) error {
	return r.write(func(s store) error {
		return errors.Wrap(s.Set(keyAdministrator, account.Bytes(), nil), "failed to set administrator")
	})
}

func (r *Repository) SetAuctioneer(ctx context.Context, account common.Address, enabled bool) error {
	return r.write(func(s store) error {
		return errors.Wrapf(setFlag(s, auctioneerKey(account), enabled), "failed to set auctioneer %s", account)
	})
}

func (r *Repository) SetWhitelisted(ctx context.Context, account common.Address, enabled bool) error {
	return r.write(func(s store) error {
		return errors.Wrapf(setFlag(s, whitelistKey(account), enabled), "failed to set whitelist of %s", account)
	})
}

func (r *Repository) SetPublicAuctionsEnabled(ctx context.Context, enabled bool) error {
	return r.write(func(s store) error {
		return errors.Wrap(setFlag(s, keyPublicAuctions, enabled), "failed to set public auctions flag")
	})
}

func (r *Repository) GetEventsByAuction(ctx context.Context, auctionID uint64) ([]entity.Event, error) {
	s := r.reader()
	events := make([]entity.Event, 0)
	prefix := key(prefixAuctionEvent, uint64Bytes(auctionID))
	err := scan(s, prefix, func(k, _ []byte) (bool, error) {
		sequence := binary.BigEndian.Uint64(k[len(prefix):])
		event, err := r.getEvent(s, sequence)
		if err != nil {
			return false, errors.WithStack(err)
		}
		events = append(events, event)
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan events of auction %d", auctionID)
	}
	return events, nil
}

func (r *Repository) GetEvents(ctx context.Context, fromSequence uint64, limit int) ([]entity.Event, error) {
	events := make([]entity.Event, 0)
	if limit <= 0 {
		return events, nil
	}
	iter, err := r.reader().NewIter(&pebble.IterOptions{
		LowerBound: eventKey(fromSequence),
		UpperBound: prefixUpperBound(prefixEvent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create iterator")
	}
	defer iter.Close()

	for iter.First(); iter.Valid() && len(events) < limit; iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read event")
		}
		event, err := decodeEvent(value)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		events = append(events, event)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterator failed")
	}
	return events, nil
}

func (r *Repository) CreateEvent(ctx context.Context, event entity.Event) (entity.Event, error) {
	err := r.write(func(s store) error {
		sequence, err := next(s, keyNextEventSequence)
		if err != nil {
			return errors.Wrap(err, "failed to reserve event sequence")
		}
		event.Sequence = sequence

		model, err := mapEventTypeToModel(event)
		if err != nil {
			return errors.WithStack(err)
		}
		value, err := encode(model)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := s.Set(eventKey(sequence), value, nil); err != nil {
			return errors.Wrapf(err, "failed to set event %d", sequence)
		}
		if event.AuctionID != nil {
			if err := s.Set(auctionEventKey(*event.AuctionID, sequence), present, nil); err != nil {
				return errors.Wrapf(err, "failed to index event %d", sequence)
			}
		}
		return nil
	})
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	return event, nil
}

func (r *Repository) getEvent(s store, sequence uint64) (entity.Event, error) {
	value, err := get(s, eventKey(sequence))
	if err != nil {
		return entity.Event{}, errors.Wrapf(err, "failed to get event %d", sequence)
	}
	return decodeEvent(value)
}

func decodeEvent(value []byte) (entity.Event, error) {
	model, err := decode[eventModel](value)
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	event, err := mapEventModelToType(model)
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	return event, nil
}
