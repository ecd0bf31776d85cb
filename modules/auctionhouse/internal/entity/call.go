package entity

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

type Opcode string

const (
	OpCreateAuction            Opcode = "create_auction"
	OpCancelAuction            Opcode = "cancel_auction"
	OpSetAuctionReservePrice   Opcode = "set_auction_reserve_price"
	OpCreateBid                Opcode = "create_bid"
	OpEndAuction               Opcode = "end_auction"
	OpWithdraw                 Opcode = "withdraw"
	OpSetRoyalty               Opcode = "set_royalty"
	OpAddAuctioneer            Opcode = "add_auctioneer"
	OpRemoveAuctioneer         Opcode = "remove_auctioneer"
	OpWhitelistAccount         Opcode = "whitelist_account"
	OpRemoveWhitelistedAccount Opcode = "remove_whitelisted_account"
	OpSetPublicAuctionsEnabled Opcode = "set_public_auctions_enabled"
	OpTransferAdministrator    Opcode = "transfer_administrator"
)

// Call is a state changing request to the engine. Value is the native value
// sent along, in base units.
type Call struct {
	ID     uuid.UUID       `json:"id"`
	Op     Opcode          `json:"op"`
	Caller common.Address  `json:"caller"`
	Value  string          `json:"value,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

type Receipt struct {
	CallID uuid.UUID `json:"callId"`
	Op     Opcode    `json:"op"`
	Output any       `json:"output,omitempty"`
}

type CreateAuctionCallParams struct {
	AssetID       string         `json:"assetId"`
	AssetContract common.Address `json:"assetContract"`
	Duration      uint64         `json:"duration"`
	ReservePrice  string         `json:"reservePrice"`
	Currency      common.Address `json:"currency"`
}

type AuctionCallParams struct {
	AuctionID uint64 `json:"auctionId"`
}

type CreateBidCallParams struct {
	AuctionID uint64 `json:"auctionId"`
	Amount    string `json:"amount"`
}

type SetReservePriceCallParams struct {
	AuctionID    uint64 `json:"auctionId"`
	ReservePrice string `json:"reservePrice"`
}

type SetRoyaltyCallParams struct {
	AssetContract common.Address `json:"assetContract"`
	Beneficiary   common.Address `json:"beneficiary"`
	Percentage    uint8          `json:"percentage"`
}

type AccountCallParams struct {
	Account common.Address `json:"account"`
}

type PublicAuctionsCallParams struct {
	Enabled bool `json:"enabled"`
}

type WithdrawCallParams struct {
	Currency common.Address `json:"currency"`
}
