package entity

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
)

type EventKind string

const (
	EventAuctionCreated             EventKind = "AuctionCreated"
	EventAuctionBid                 EventKind = "AuctionBid"
	EventAuctionDurationExtended    EventKind = "AuctionDurationExtended"
	EventAuctionReservePriceUpdated EventKind = "AuctionReservePriceUpdated"
	EventAuctionCanceled            EventKind = "AuctionCanceled"
	EventAuctionEnded               EventKind = "AuctionEnded"
	EventRoyaltySet                 EventKind = "RoyaltySet"
	EventAuctioneerAdded            EventKind = "AuctioneerAdded"
	EventAuctioneerRemoved          EventKind = "AuctioneerRemoved"
	EventAccountWhitelisted         EventKind = "AccountWhitelisted"
	EventWhitelistRemoved           EventKind = "WhitelistRemoved"
	EventPublicAuctionsEnabledSet   EventKind = "PublicAuctionsEnabledSet"
	EventAdministratorTransferred   EventKind = "AdministratorTransferred"
	EventRefundCredited             EventKind = "RefundCredited"
	EventWithdrawn                  EventKind = "Withdrawn"
)

// Event is an entry of the event log.
type Event struct {
	Sequence  uint64
	Kind      EventKind
	AuctionID *uint64
	Timestamp uint64
	Data      EventData
}

// EventData is the typed payload of an event.
type EventData interface {
	Kind() EventKind
}

// auctionScoped is implemented by payloads that belong to an auction.
type auctionScoped interface {
	auctionID() uint64
}

// NewEvent creates an unsequenced event, the data store assigns the sequence.
func NewEvent(timestamp uint64, data EventData) Event {
	event := Event{
		Kind:      data.Kind(),
		Timestamp: timestamp,
		Data:      data,
	}
	if scoped, ok := data.(auctionScoped); ok {
		id := scoped.auctionID()
		event.AuctionID = &id
	}
	return event
}

// CancelReason tells why an auction was removed without a sale.
type CancelReason string

const (
	CancelReasonCanceled           CancelReason = "canceled"
	CancelReasonAssetUndeliverable CancelReason = "asset_undeliverable"
)

type AuctionCreated struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	Duration      uint64          `json:"duration"`
	ReservePrice  uint128.Uint128 `json:"reservePrice"`
	TokenOwner    common.Address  `json:"tokenOwner"`
	Currency      common.Address  `json:"currency"`
}

type AuctionBid struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	Sender        common.Address  `json:"sender"`
	Value         uint128.Uint128 `json:"value"`
	BidTime       uint64          `json:"bidTime"`
	FirstBid      bool            `json:"firstBid"`
	Extended      bool            `json:"extended"`
}

type AuctionDurationExtended struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	Duration      uint64          `json:"duration"`
}

type AuctionReservePriceUpdated struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	ReservePrice  uint128.Uint128 `json:"reservePrice"`
}

type AuctionCanceled struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	TokenOwner    common.Address  `json:"tokenOwner"`
	Reason        CancelReason    `json:"reason"`
}

// RoyaltyPayout is the royalty part of a settlement.
type RoyaltyPayout struct {
	Beneficiary common.Address  `json:"beneficiary"`
	Percentage  uint8           `json:"percentage"`
	Amount      uint128.Uint128 `json:"amount"`
}

// AuctionEnded is a single settlement outcome, Royalty is nil when no royalty was paid.
type AuctionEnded struct {
	AuctionID     uint64          `json:"auctionId"`
	AssetID       uint128.Uint128 `json:"assetId"`
	AssetContract common.Address  `json:"assetContract"`
	TokenOwner    common.Address  `json:"tokenOwner"`
	Winner        common.Address  `json:"winner"`
	Amount        uint128.Uint128 `json:"amount"`
	Currency      common.Address  `json:"currency"`
	Royalty       *RoyaltyPayout  `json:"royalty,omitempty"`
}

type RoyaltySet struct {
	AssetContract common.Address `json:"assetContract"`
	Beneficiary   common.Address `json:"beneficiary"`
	Percentage    uint8          `json:"percentage"`
}

type AuctioneerAdded struct {
	Account common.Address `json:"account"`
}

type AuctioneerRemoved struct {
	Account common.Address `json:"account"`
}

type AccountWhitelisted struct {
	Account common.Address `json:"account"`
}

type WhitelistRemoved struct {
	Account common.Address `json:"account"`
}

type PublicAuctionsEnabledSet struct {
	Enabled bool `json:"enabled"`
}

type AdministratorTransferred struct {
	Previous common.Address `json:"previous"`
	Next     common.Address `json:"next"`
}

type RefundCredited struct {
	Account  common.Address  `json:"account"`
	Currency common.Address  `json:"currency"`
	Amount   uint128.Uint128 `json:"amount"`
}

type Withdrawn struct {
	Account  common.Address  `json:"account"`
	Currency common.Address  `json:"currency"`
	Amount   uint128.Uint128 `json:"amount"`
}

func (AuctionCreated) Kind() EventKind             { return EventAuctionCreated }
func (AuctionBid) Kind() EventKind                 { return EventAuctionBid }
func (AuctionDurationExtended) Kind() EventKind    { return EventAuctionDurationExtended }
func (AuctionReservePriceUpdated) Kind() EventKind { return EventAuctionReservePriceUpdated }
func (AuctionCanceled) Kind() EventKind            { return EventAuctionCanceled }
func (AuctionEnded) Kind() EventKind               { return EventAuctionEnded }
func (RoyaltySet) Kind() EventKind                 { return EventRoyaltySet }
func (AuctioneerAdded) Kind() EventKind            { return EventAuctioneerAdded }
func (AuctioneerRemoved) Kind() EventKind          { return EventAuctioneerRemoved }
func (AccountWhitelisted) Kind() EventKind         { return EventAccountWhitelisted }
func (WhitelistRemoved) Kind() EventKind           { return EventWhitelistRemoved }
func (PublicAuctionsEnabledSet) Kind() EventKind   { return EventPublicAuctionsEnabledSet }
func (AdministratorTransferred) Kind() EventKind   { return EventAdministratorTransferred }
func (RefundCredited) Kind() EventKind             { return EventRefundCredited }
func (Withdrawn) Kind() EventKind                  { return EventWithdrawn }

func (e AuctionCreated) auctionID() uint64             { return e.AuctionID }
func (e AuctionBid) auctionID() uint64                 { return e.AuctionID }
func (e AuctionDurationExtended) auctionID() uint64    { return e.AuctionID }
func (e AuctionReservePriceUpdated) auctionID() uint64 { return e.AuctionID }
func (e AuctionCanceled) auctionID() uint64            { return e.AuctionID }
func (e AuctionEnded) auctionID() uint64               { return e.AuctionID }

var eventDecoders = map[EventKind]func([]byte) (EventData, error){
	EventAuctionCreated:             decodeEventData[AuctionCreated],
	EventAuctionBid:                 decodeEventData[AuctionBid],
	EventAuctionDurationExtended:    decodeEventData[AuctionDurationExtended],
	EventAuctionReservePriceUpdated: decodeEventData[AuctionReservePriceUpdated],
	EventAuctionCanceled:            decodeEventData[AuctionCanceled],
	EventAuctionEnded:               decodeEventData[AuctionEnded],
	EventRoyaltySet:                 decodeEventData[RoyaltySet],
	EventAuctioneerAdded:            decodeEventData[AuctioneerAdded],
	EventAuctioneerRemoved:          decodeEventData[AuctioneerRemoved],
	EventAccountWhitelisted:         decodeEventData[AccountWhitelisted],
	EventWhitelistRemoved:           decodeEventData[WhitelistRemoved],
	EventPublicAuctionsEnabledSet:   decodeEventData[PublicAuctionsEnabledSet],
	EventAdministratorTransferred:   decodeEventData[AdministratorTransferred],
	EventRefundCredited:             decodeEventData[RefundCredited],
	EventWithdrawn:                  decodeEventData[Withdrawn],
}

func decodeEventData[T EventData](raw []byte) (EventData, error) {
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// EncodeEventData serializes the payload of an event for storage.
func EncodeEventData(data EventData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "can't encode %s event", data.Kind())
	}
	return raw, nil
}

// DecodeEventData parses a stored payload of the given kind.
func DecodeEventData(kind EventKind, raw []byte) (EventData, error) {
	decode, ok := eventDecoders[kind]
	if !ok {
		return nil, errors.Wrapf(errs.Unsupported, "unknown event kind %q", kind)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode %s event", kind)
	}
	return data, nil
}
