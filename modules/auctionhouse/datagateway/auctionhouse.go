package datagateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
)

type AuctionHouseDataGateway interface {
	AuctionReader
	AuctionWriter
	RoleReader
	RoleWriter
	EventReader
	EventWriter

	BeginAuctionHouseTx(ctx context.Context) (AuctionHouseDataGatewayWithTx, error)
}

type AuctionHouseDataGatewayWithTx interface {
	AuctionHouseDataGateway
	Tx
}

type AuctionReader interface {
	// GetAuction returns errs.NotFound if the auction doesn't exist.
	GetAuction(ctx context.Context, id uint64) (*entity.Auction, error)
	GetAuctions(ctx context.Context) ([]*entity.Auction, error)
	// GetRoyalty returns errs.NotFound if no royalty is set for the contract.
	GetRoyalty(ctx context.Context, assetContract common.Address) (*entity.Royalty, error)
	GetPendingWithdrawal(ctx context.Context, account, currency common.Address) (uint128.Uint128, error)
	GetPendingWithdrawals(ctx context.Context) ([]entity.PendingWithdrawal, error)
}

type AuctionWriter interface {
	// NextAuctionID reserves the next auction identifier, identifiers start at 0 and are never reused.
	NextAuctionID(ctx context.Context) (uint64, error)
	SaveAuction(ctx context.Context, auction entity.Auction) error
	DeleteAuction(ctx context.Context, id uint64) error
	SetRoyalty(ctx context.Context, royalty entity.Royalty) error
	SetPendingWithdrawal(ctx context.Context, withdrawal entity.PendingWithdrawal) error
}

type RoleReader interface {
	// GetAdministrator returns errs.NotFound before the role tables are bootstrapped.
	GetAdministrator(ctx context.Context) (common.Address, error)
	IsAuctioneer(ctx context.Context, account common.Address) (bool, error)
	GetAuctioneers(ctx context.Context) ([]common.Address, error)
	IsWhitelisted(ctx context.Context, account common.Address) (bool, error)
	GetPublicAuctionsEnabled(ctx context.Context) (bool, error)
}

type RoleWriter interface {
	SetAdministrator(ctx context.Context, account common.Address) error
	SetAuctioneer(ctx context.Context, account common.Address, enabled bool) error
	SetWhitelisted(ctx context.Context, account common.Address, enabled bool) error
	SetPublicAuctionsEnabled(ctx context.Context, enabled bool) error
}

type EventReader interface {
	GetEventsByAuction(ctx context.Context, auctionID uint64) ([]entity.Event, error)
	// GetEvents returns up to limit events with a sequence greater or equal to fromSequence.
	GetEvents(ctx context.Context, fromSequence uint64, limit int) ([]entity.Event, error)
}

type EventWriter interface {
	// CreateEvent appends the event to the log and returns it with its sequence assigned.
	CreateEvent(ctx context.Context, event entity.Event) (entity.Event, error)
}
