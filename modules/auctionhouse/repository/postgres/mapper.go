package postgres

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
)

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	if !src.Valid {
		return uint128.Zero, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint128(src uint128.Uint128) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.String())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

// durations and timestamps are unsigned 64-bit, they don't fit in BIGINT

func uint64FromNumeric(src pgtype.Numeric) (uint64, error) {
	if !src.Valid {
		return 0, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	result, err := strconv.ParseUint(string(bytes), 10, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint64(src uint64) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(strconv.FormatUint(src, 10))); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

type auctionModel struct {
	ID            int64
	AssetID       pgtype.Numeric
	AssetContract string
	TokenOwner    string
	Duration      pgtype.Numeric
	FirstBidTime  pgtype.Numeric
	ReservePrice  pgtype.Numeric
	Amount        pgtype.Numeric
	Bidder        string
	Currency      string
}

func (m *auctionModel) fields() []any {
	return []any{
		&m.ID, &m.AssetID, &m.AssetContract, &m.TokenOwner, &m.Duration,
		&m.FirstBidTime, &m.ReservePrice, &m.Amount, &m.Bidder, &m.Currency,
	}
}

func mapAuctionTypeToModel(src entity.Auction) (auctionModel, error) {
	assetID, err := numericFromUint128(src.AssetID)
	if err != nil {
		return auctionModel{}, errors.Wrap(err, "failed to parse asset id")
	}
	duration, err := numericFromUint64(src.Duration)
	if err != nil {
		return auctionModel{}, errors.Wrap(err, "failed to parse duration")
	}
	firstBidTime, err := numericFromUint64(src.FirstBidTime)
	if err != nil {
		return auctionModel{}, errors.Wrap(err, "failed to parse first bid time")
	}
	reservePrice, err := numericFromUint128(src.ReservePrice)
	if err != nil {
		return auctionModel{}, errors.Wrap(err, "failed to parse reserve price")
	}
	amount, err := numericFromUint128(src.Amount)
	if err != nil {
		return auctionModel{}, errors.Wrap(err, "failed to parse amount")
	}
	return auctionModel{
		ID:            int64(src.ID),
		AssetID:       assetID,
		AssetContract: src.AssetContract.Hex(),
		TokenOwner:    src.TokenOwner.Hex(),
		Duration:      duration,
		FirstBidTime:  firstBidTime,
		ReservePrice:  reservePrice,
		Amount:        amount,
		Bidder:        src.Bidder.Hex(),
		Currency:      src.Currency.Hex(),
	}, nil
}

func mapAuctionModelToType(src auctionModel) (entity.Auction, error) {
	assetID, err := uint128FromNumeric(src.AssetID)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse asset id")
	}
	duration, err := uint64FromNumeric(src.Duration)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse duration")
	}
	firstBidTime, err := uint64FromNumeric(src.FirstBidTime)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse first bid time")
	}
	reservePrice, err := uint128FromNumeric(src.ReservePrice)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse reserve price")
	}
	amount, err := uint128FromNumeric(src.Amount)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse amount")
	}
	return entity.Auction{
		ID:            uint64(src.ID),
		AssetID:       assetID,
		AssetContract: common.HexToAddress(src.AssetContract),
		TokenOwner:    common.HexToAddress(src.TokenOwner),
		Duration:      duration,
		FirstBidTime:  firstBidTime,
		ReservePrice:  reservePrice,
		Amount:        amount,
		Bidder:        common.HexToAddress(src.Bidder),
		Currency:      common.HexToAddress(src.Currency),
	}, nil
}

type eventModel struct {
	Sequence  int64
	Kind      string
	AuctionID pgtype.Int8
	Timestamp int64
	Data      []byte
}

func (m *eventModel) fields() []any {
	return []any{&m.Sequence, &m.Kind, &m.AuctionID, &m.Timestamp, &m.Data}
}

func mapEventTypeToModel(src entity.Event) (eventModel, error) {
	data, err := entity.EncodeEventData(src.Data)
	if err != nil {
		return eventModel{}, errors.WithStack(err)
	}
	var auctionID pgtype.Int8
	if src.AuctionID != nil {
		auctionID = pgtype.Int8{Int64: int64(*src.AuctionID), Valid: true}
	}
	return eventModel{
		Sequence:  int64(src.Sequence),
		Kind:      string(src.Kind),
		AuctionID: auctionID,
		Timestamp: int64(src.Timestamp),
		Data:      data,
	}, nil
}

func mapEventModelToType(src eventModel) (entity.Event, error) {
	data, err := entity.DecodeEventData(entity.EventKind(src.Kind), src.Data)
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	var auctionID *uint64
	if src.AuctionID.Valid {
		id := uint64(src.AuctionID.Int64)
		auctionID = &id
	}
	return entity.Event{
		Sequence:  uint64(src.Sequence),
		Kind:      entity.EventKind(src.Kind),
		AuctionID: auctionID,
		Timestamp: uint64(src.Timestamp),
		Data:      data,
	}, nil
}
