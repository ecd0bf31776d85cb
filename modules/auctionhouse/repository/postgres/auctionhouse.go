package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	auctionColumns = `"id", "asset_id", "asset_contract", "token_owner", "duration", "first_bid_time", "reserve_price", "amount", "bidder", "currency"`
	eventColumns   = `"sequence", "kind", "auction_id", "timestamp", "data"`

	flagPublicAuctions = "public_auctions"
	sequenceAuction    = "auction"
	sequenceEvent      = "event"
)

func (r *Repository) GetAuction(ctx context.Context, id uint64) (*entity.Auction, error) {
	var model auctionModel
	err := r.queryable().QueryRow(ctx, `SELECT `+auctionColumns+` FROM "auctionhouse_auctions" WHERE "id" = $1`, int64(id)).Scan(model.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	auction, err := mapAuctionModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse auction model")
	}
	return &auction, nil
}

func (r *Repository) GetAuctions(ctx context.Context) ([]*entity.Auction, error) {
	rows, err := r.queryable().Query(ctx, `SELECT `+auctionColumns+` FROM "auctionhouse_auctions" ORDER BY "id"`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	auctions := make([]*entity.Auction, 0)
	for rows.Next() {
		var model auctionModel
		if err := rows.Scan(model.fields()...); err != nil {
			return nil, errors.Wrap(err, "failed to scan auction")
		}
		auction, err := mapAuctionModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse auction model")
		}
		auctions = append(auctions, &auction)
	}
	return auctions, errors.WithStack(rows.Err())
}

func (r *Repository) GetRoyalty(ctx context.Context, assetContract common.Address) (*entity.Royalty, error) {
	var (
		beneficiary string
		percentage  int16
	)
	err := r.queryable().QueryRow(ctx, `SELECT "beneficiary", "percentage" FROM "auctionhouse_royalties" WHERE "asset_contract" = $1`, assetContract.Hex()).Scan(&beneficiary, &percentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	return &entity.Royalty{
		AssetContract: assetContract,
		Beneficiary:   common.HexToAddress(beneficiary),
		Percentage:    uint8(percentage),
	}, nil
}

func (r *Repository) GetPendingWithdrawal(ctx context.Context, account, currency common.Address) (uint128.Uint128, error) {
	var amount pgtype.Numeric
	err := r.queryable().QueryRow(ctx, `SELECT "amount" FROM "auctionhouse_pending_withdrawals" WHERE "account" = $1 AND "currency" = $2`, account.Hex(), currency.Hex()).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uint128.Zero, nil
		}
		return uint128.Zero, errors.Wrap(err, "error during query")
	}
	result, err := uint128FromNumeric(amount)
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to parse pending withdrawal")
	}
	return result, nil
}

func (r *Repository) GetPendingWithdrawals(ctx context.Context) ([]entity.PendingWithdrawal, error) {
	rows, err := r.queryable().Query(ctx, `SELECT "account", "currency", "amount" FROM "auctionhouse_pending_withdrawals" ORDER BY "account", "currency"`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	withdrawals := make([]entity.PendingWithdrawal, 0)
	for rows.Next() {
		var (
			account, currency string
			numeric           pgtype.Numeric
		)
		if err := rows.Scan(&account, &currency, &numeric); err != nil {
			return nil, errors.Wrap(err, "failed to scan pending withdrawal")
		}
		amount, err := uint128FromNumeric(numeric)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse pending withdrawal")
		}
		withdrawals = append(withdrawals, entity.PendingWithdrawal{
			Account:  common.HexToAddress(account),
			Currency: common.HexToAddress(currency),
			Amount:   amount,
		})
	}
	return withdrawals, errors.WithStack(rows.Err())
}

// nextSequence reserves the current value of a named counter and advances it.
func (r *Repository) nextSequence(ctx context.Context, name string) (uint64, error) {
	var next int64
	err := r.queryable().QueryRow(ctx, `UPDATE "auctionhouse_sequences" SET "next" = "next" + 1 WHERE "name" = $1 RETURNING "next" - 1`, name).Scan(&next)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to reserve %s sequence", name)
	}
	return uint64(next), nil
}

func (r *Repository) NextAuctionID(ctx context.Context) (uint64, error) {
	return r.nextSequence(ctx, sequenceAuction)
}

func (r *Repository) SaveAuction(ctx context.Context, auction entity.Auction) error {
	model, err := mapAuctionTypeToModel(auction)
	if err != nil {
		return errors.Wrap(err, "failed to map auction")
	}
	_, err = r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_auctions" (`+auctionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ("id") DO UPDATE SET
			"duration" = EXCLUDED."duration",
			"first_bid_time" = EXCLUDED."first_bid_time",
			"reserve_price" = EXCLUDED."reserve_price",
			"amount" = EXCLUDED."amount",
			"bidder" = EXCLUDED."bidder"`,
		model.ID, model.AssetID, model.AssetContract, model.TokenOwner, model.Duration,
		model.FirstBidTime, model.ReservePrice, model.Amount, model.Bidder, model.Currency,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteAuction(ctx context.Context, id uint64) error {
	if _, err := r.queryable().Exec(ctx, `DELETE FROM "auctionhouse_auctions" WHERE "id" = $1`, int64(id)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SetRoyalty(ctx context.Context, royalty entity.Royalty) error {
	_, err := r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_royalties" ("asset_contract", "beneficiary", "percentage") VALUES ($1, $2, $3)
		ON CONFLICT ("asset_contract") DO UPDATE SET "beneficiary" = EXCLUDED."beneficiary", "percentage" = EXCLUDED."percentage"`,
		royalty.AssetContract.Hex(), royalty.Beneficiary.Hex(), int16(royalty.Percentage),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

// SetPendingWithdrawal stores the owed amount, a zero amount removes the entry.
func (r *Repository) SetPendingWithdrawal(ctx context.Context, withdrawal entity.PendingWithdrawal) error {
	account, currency := withdrawal.Account.Hex(), withdrawal.Currency.Hex()
	if withdrawal.Amount.IsZero() {
		if _, err := r.queryable().Exec(ctx, `DELETE FROM "auctionhouse_pending_withdrawals" WHERE "account" = $1 AND "currency" = $2`, account, currency); err != nil {
			return errors.Wrap(err, "error during exec")
		}
		return nil
	}
	amount, err := numericFromUint128(withdrawal.Amount)
	if err != nil {
		return errors.Wrap(err, "failed to map pending withdrawal")
	}
	_, err = r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_pending_withdrawals" ("account", "currency", "amount") VALUES ($1, $2, $3)
		ON CONFLICT ("account", "currency") DO UPDATE SET "amount" = EXCLUDED."amount"`,
		account, currency, amount,
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetAdministrator(ctx context.Context) (common.Address, error) {
	var account string
	err := r.queryable().QueryRow(ctx, `SELECT "account" FROM "auctionhouse_administrator"`).Scan(&account)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.Address{}, errors.WithStack(errs.NotFound)
		}
		return common.Address{}, errors.Wrap(err, "error during query")
	}
	return common.HexToAddress(account), nil
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.queryable().QueryRow(ctx, `SELECT EXISTS (`+query+`)`, args...).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "error during query")
	}
	return ok, nil
}

func (r *Repository) IsAuctioneer(ctx context.Context, account common.Address) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM "auctionhouse_auctioneers" WHERE "account" = $1`, account.Hex())
}

func (r *Repository) GetAuctioneers(ctx context.Context) ([]common.Address, error) {
	rows, err := r.queryable().Query(ctx, `SELECT "account" FROM "auctionhouse_auctioneers" ORDER BY "account"`)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan auctioneers")
	}
	auctioneers := make([]common.Address, 0, len(accounts))
	for _, account := range accounts {
		auctioneers = append(auctioneers, common.HexToAddress(account))
	}
	return auctioneers, nil
}

func (r *Repository) IsWhitelisted(ctx context.Context, account common.Address) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM "auctionhouse_whitelist" WHERE "account" = $1`, account.Hex())
}

func (r *Repository) GetPublicAuctionsEnabled(ctx context.Context) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM "auctionhouse_flags" WHERE "name" = $1 AND "enabled"`, flagPublicAuctions)
}

func (r *Repository) SetAdministrator(ctx context.Context, account common.Address) error {
	_, err := r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_administrator" ("id", "account") VALUES (TRUE, $1)
		ON CONFLICT ("id") DO UPDATE SET "account" = EXCLUDED."account"`, account.Hex())
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) setMembership(ctx context.Context, table string, account common.Address, enabled bool) error {
	query := `DELETE FROM "` + table + `" WHERE "account" = $1`
	if enabled {
		query = `INSERT INTO "` + table + `" ("account") VALUES ($1) ON CONFLICT DO NOTHING`
	}
	if _, err := r.queryable().Exec(ctx, query, account.Hex()); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SetAuctioneer(ctx context.Context, account common.Address, enabled bool) error {
	return r.setMembership(ctx, "auctionhouse_auctioneers", account, enabled)
}

func (r *Repository) SetWhitelisted(ctx context.Context, account common.Address, enabled bool) error {
	return r.setMembership(ctx, "auctionhouse_whitelist", account, enabled)
}

func (r *Repository) SetPublicAuctionsEnabled(ctx context.Context, enabled bool) error {
	_, err := r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_flags" ("name", "enabled") VALUES ($1, $2)
		ON CONFLICT ("name") DO UPDATE SET "enabled" = EXCLUDED."enabled"`, flagPublicAuctions, enabled)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]entity.Event, error) {
	rows, err := r.queryable().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	events := make([]entity.Event, 0)
	for rows.Next() {
		var model eventModel
		if err := rows.Scan(model.fields()...); err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		event, err := mapEventModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse event model")
		}
		events = append(events, event)
	}
	return events, errors.WithStack(rows.Err())
}

func (r *Repository) GetEventsByAuction(ctx context.Context, auctionID uint64) ([]entity.Event, error) {
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM "auctionhouse_events" WHERE "auction_id" = $1 ORDER BY "sequence"`, int64(auctionID))
}

func (r *Repository) GetEvents(ctx context.Context, fromSequence uint64, limit int) ([]entity.Event, error) {
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM "auctionhouse_events" WHERE "sequence" >= $1 ORDER BY "sequence" LIMIT $2`, int64(fromSequence), limit)
}

func (r *Repository) CreateEvent(ctx context.Context, event entity.Event) (entity.Event, error) {
	sequence, err := r.nextSequence(ctx, sequenceEvent)
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	event.Sequence = sequence
	model, err := mapEventTypeToModel(event)
	if err != nil {
		return entity.Event{}, errors.Wrap(err, "failed to map event")
	}
	_, err = r.queryable().Exec(ctx, `INSERT INTO "auctionhouse_events" (`+eventColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		model.Sequence, model.Kind, model.AuctionID, model.Timestamp, model.Data,
	)
	if err != nil {
		return entity.Event{}, errors.Wrap(err, "error during exec")
	}
	return event, nil
}
