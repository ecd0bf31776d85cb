package pebble

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
)

// amounts are stored as decimal strings

type auctionModel struct {
	ID            uint64         `cbor:"1,keyasint"`
	AssetID       string         `cbor:"2,keyasint"`
	AssetContract common.Address `cbor:"3,keyasint"`
	TokenOwner    common.Address `cbor:"4,keyasint"`
	Duration      uint64         `cbor:"5,keyasint"`
	FirstBidTime  uint64         `cbor:"6,keyasint"`
	ReservePrice  string         `cbor:"7,keyasint"`
	Amount        string         `cbor:"8,keyasint"`
	Bidder        common.Address `cbor:"9,keyasint"`
	Currency      common.Address `cbor:"10,keyasint"`
}

type royaltyModel struct {
	AssetContract common.Address `cbor:"1,keyasint"`
	Beneficiary   common.Address `cbor:"2,keyasint"`
	Percentage    uint8          `cbor:"3,keyasint"`
}

type eventModel struct {
	Sequence  uint64  `cbor:"1,keyasint"`
	Kind      string  `cbor:"2,keyasint"`
	AuctionID *uint64 `cbor:"3,keyasint,omitempty"`
	Timestamp uint64  `cbor:"4,keyasint"`
	Data      []byte  `cbor:"5,keyasint"`
}

func encode(v any) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode record")
	}
	return data, nil
}

func decode[T any](data []byte) (T, error) {
	var v T
	if err := cbor.Unmarshal(data, &v); err != nil {
		return v, errors.Wrap(err, "failed to decode record")
	}
	return v, nil
}

func mapAuctionTypeToModel(auction entity.Auction) auctionModel {
	return auctionModel{
		ID:            auction.ID,
		AssetID:       auction.AssetID.String(),
		AssetContract: auction.AssetContract,
		TokenOwner:    auction.TokenOwner,
		Duration:      auction.Duration,
		FirstBidTime:  auction.FirstBidTime,
		ReservePrice:  auction.ReservePrice.String(),
		Amount:        auction.Amount.String(),
		Bidder:        auction.Bidder,
		Currency:      auction.Currency,
	}
}

func mapAuctionModelToType(model auctionModel) (entity.Auction, error) {
	assetID, err := uint128.FromString(model.AssetID)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse asset id")
	}
	reservePrice, err := uint128.FromString(model.ReservePrice)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse reserve price")
	}
	amount, err := uint128.FromString(model.Amount)
	if err != nil {
		return entity.Auction{}, errors.Wrap(err, "failed to parse amount")
	}
	return entity.Auction{
		ID:            model.ID,
		AssetID:       assetID,
		AssetContract: model.AssetContract,
		TokenOwner:    model.TokenOwner,
		Duration:      model.Duration,
		FirstBidTime:  model.FirstBidTime,
		ReservePrice:  reservePrice,
		Amount:        amount,
		Bidder:        model.Bidder,
		Currency:      model.Currency,
	}, nil
}

func mapEventTypeToModel(event entity.Event) (eventModel, error) {
	data, err := entity.EncodeEventData(event.Data)
	if err != nil {
		return eventModel{}, errors.WithStack(err)
	}
	return eventModel{
		Sequence:  event.Sequence,
		Kind:      string(event.Kind),
		AuctionID: event.AuctionID,
		Timestamp: event.Timestamp,
		Data:      data,
	}, nil
}

func mapEventModelToType(model eventModel) (entity.Event, error) {
	data, err := entity.DecodeEventData(entity.EventKind(model.Kind), model.Data)
	if err != nil {
		return entity.Event{}, errors.WithStack(err)
	}
	return entity.Event{
		Sequence:  model.Sequence,
		Kind:      entity.EventKind(model.Kind),
		AuctionID: model.AuctionID,
		Timestamp: model.Timestamp,
		Data:      data,
	}, nil
}
