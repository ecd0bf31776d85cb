package auctionhouse

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdministratorOnly(t *testing.T) {
	h := newTestHouse(t)

	calls := map[string]func(caller common.Address) error{
		"add_auctioneer": func(caller common.Address) error {
			return h.engine.AddAuctioneer(h.ctx, caller, alice)
		},
		"remove_auctioneer": func(caller common.Address) error {
			return h.engine.RemoveAuctioneer(h.ctx, caller, auctioneer)
		},
		"set_public_auctions_enabled": func(caller common.Address) error {
			return h.engine.SetPublicAuctionsEnabled(h.ctx, caller, false)
		},
		"transfer_administrator": func(caller common.Address) error {
			return h.engine.TransferAdministrator(h.ctx, caller, alice)
		},
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			for _, caller := range []common.Address{auctioneer, stranger} {
				err := call(caller)
				require.Error(t, err)
				assert.True(t, isKind(err, ErrNotAdministrator), err.Error())
				assert.True(t, isKind(err, errs.Unauthorized))
			}
		})
	}
	assert.Empty(t, h.events)
}

func TestAuctioneerRoles(t *testing.T) {
	h := newTestHouse(t)

	err := h.engine.AddAuctioneer(h.ctx, administrator, common.Address{})
	assert.True(t, isKind(err, ErrZeroAddress))

	require.NoError(t, h.engine.AddAuctioneer(h.ctx, administrator, alice))
	auctioneers, err := h.engine.Auctioneers(h.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []common.Address{auctioneer, alice}, auctioneers)

	require.NoError(t, h.engine.RemoveAuctioneer(h.ctx, administrator, alice))
	ok, err := h.engine.IsAuctioneer(h.ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []entity.EventKind{entity.EventAuctioneerAdded, entity.EventAuctioneerRemoved}, h.kinds())
}

func TestWhitelist(t *testing.T) {
	h := newTestHouse(t)

	err := h.engine.WhitelistAccount(h.ctx, stranger, alice)
	assert.True(t, isKind(err, ErrNotAuctioneer))

	require.NoError(t, h.engine.WhitelistAccount(h.ctx, auctioneer, alice))
	ok, err := h.engine.IsWhitelisted(h.ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	err = h.engine.RemoveWhitelistedAccount(h.ctx, alice, alice)
	assert.True(t, isKind(err, ErrNotAuctioneer))
	require.NoError(t, h.engine.RemoveWhitelistedAccount(h.ctx, administrator, alice))
	ok, err = h.engine.IsWhitelisted(h.ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransferAdministrator(t *testing.T) {
	h := newTestHouse(t)

	err := h.engine.TransferAdministrator(h.ctx, administrator, common.Address{})
	assert.True(t, isKind(err, ErrZeroAddress))

	require.NoError(t, h.engine.TransferAdministrator(h.ctx, administrator, alice))
	ok, err := h.engine.IsAdministrator(h.ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.engine.IsAdministrator(h.ctx, administrator)
	require.NoError(t, err)
	assert.False(t, ok)

	transferred, ok := h.events[0].Data.(entity.AdministratorTransferred)
	require.True(t, ok)
	assert.Equal(t, administrator, transferred.Previous)
	assert.Equal(t, alice, transferred.Next)

	err = h.engine.SetPublicAuctionsEnabled(h.ctx, administrator, false)
	assert.True(t, isKind(err, ErrNotAdministrator))
	require.NoError(t, h.engine.SetPublicAuctionsEnabled(h.ctx, alice, false))
	enabled, err := h.engine.PublicAuctionsEnabled(h.ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetRoyalty(t *testing.T) {
	h := newTestHouse(t)

	err := h.engine.SetRoyalty(h.ctx, seller, nftContract, beneficiary, 10)
	assert.True(t, isKind(err, ErrNotAuctioneer))

	err = h.engine.SetRoyalty(h.ctx, auctioneer, nftContract, beneficiary, 101)
	assert.True(t, isKind(err, ErrInvalidRoyalty))
	assert.True(t, isKind(err, errs.InvalidArgument))

	err = h.engine.SetRoyalty(h.ctx, auctioneer, nftContract, common.Address{}, 10)
	assert.True(t, isKind(err, ErrInvalidRoyalty))

	royalty, err := h.engine.Royalty(h.ctx, nftContract)
	require.NoError(t, err)
	assert.Zero(t, royalty.Percentage)

	require.NoError(t, h.engine.SetRoyalty(h.ctx, auctioneer, nftContract, beneficiary, 100))
	royalty, err = h.engine.Royalty(h.ctx, nftContract)
	require.NoError(t, err)
	assert.Equal(t, entity.Royalty{AssetContract: nftContract, Beneficiary: beneficiary, Percentage: 100}, royalty)

	require.NoError(t, h.engine.SetRoyalty(h.ctx, administrator, nftContract, common.Address{}, 0), "clearing a royalty")
	assert.Equal(t, entity.EventRoyaltySet, h.events[len(h.events)-1].Kind)
}
