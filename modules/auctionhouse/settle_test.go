package auctionhouse

import (
	"testing"

	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/core/ledger"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndAuctionTiming(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)

	_, err := h.engine.EndAuction(h.ctx, stranger, 9)
	assert.True(t, isKind(err, ErrAuctionNotFound))

	_, err = h.engine.EndAuction(h.ctx, stranger, id)
	assert.True(t, isKind(err, ErrAuctionNotStarted))
	assert.True(t, isKind(err, errs.InvalidState))

	require.NoError(t, h.bid(alice, id, eth(1)))
	h.now = h.auction(id).EndTime()
	_, err = h.engine.EndAuction(h.ctx, stranger, id)
	assert.True(t, isKind(err, ErrAuctionNotComplete))
	assert.True(t, h.auction(id).Exists())
}

func TestEndAuctionPayout(t *testing.T) {
	testcases := []struct {
		name        string
		royalty     uint8
		beneficiary string
		seller      string
	}{
		{"fifteen_percent_royalty", 15, "300000000000000000", "1700000000000000000"},
		{"no_royalty", 0, "0", "2000000000000000000"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHouse(t)
			if tc.royalty > 0 {
				require.NoError(t, h.engine.SetRoyalty(h.ctx, auctioneer, nftContract, beneficiary, tc.royalty))
			}
			id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)
			require.NoError(t, h.bid(bob, id, eth(1)))
			require.NoError(t, h.bid(alice, id, eth(2)))

			h.now = h.auction(id).EndTime() + 1
			settlement, err := h.engine.EndAuction(h.ctx, stranger, id)
			require.NoError(t, err)
			require.True(t, settlement.Delivered())
			assert.Nil(t, settlement.Canceled)

			assert.Equal(t, alice, h.ownerOf(1))
			assert.Equal(t, tc.beneficiary, h.native(beneficiary).String())
			assert.Equal(t, tc.seller, h.native(seller).String())
			assert.Equal(t, eth(8).String(), h.native(alice).String())
			assert.Equal(t, eth(10).String(), h.native(bob).String())
			assert.False(t, h.auction(id).Exists(), "record is cleared")

			ended := settlement.Ended
			assert.Equal(t, alice, ended.Winner)
			assert.Equal(t, seller, ended.TokenOwner)
			assert.Equal(t, eth(2).String(), ended.Amount.String())
			assert.Equal(t, tokenAddress, ended.Currency, "native outcome names the substitute token")
			if tc.royalty > 0 {
				require.NotNil(t, ended.Royalty)
				assert.Equal(t, beneficiary, ended.Royalty.Beneficiary)
				assert.Equal(t, tc.beneficiary, ended.Royalty.Amount.String())
			} else {
				assert.Nil(t, ended.Royalty)
			}

			last := h.events[len(h.events)-1]
			assert.Equal(t, entity.EventAuctionEnded, last.Kind)
			assert.Equal(t, *ended, last.Data)

			_, err = h.engine.EndAuction(h.ctx, stranger, id)
			assert.True(t, isKind(err, errs.NotFound), "second end")
			h.assertConserved()
		})
	}
}

func TestEndAuctionUndeliverable(t *testing.T) {
	t.Run("winner_refuses_asset", func(t *testing.T) {
		h := newTestHouse(t)
		id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)
		require.NoError(t, h.bid(alice, id, eth(1)))
		h.world.SetReceiver(alice, ledger.RejectAll)

		h.now = h.auction(id).EndTime() + 1
		settlement, err := h.engine.EndAuction(h.ctx, stranger, id)
		require.NoError(t, err)
		require.False(t, settlement.Delivered())
		require.NotNil(t, settlement.Canceled)
		assert.Equal(t, entity.CancelReasonAssetUndeliverable, settlement.Canceled.Reason)

		assert.Equal(t, seller, h.ownerOf(1), "seller keeps the asset")
		assert.True(t, h.native(seller).IsZero())
		// the winner refuses native value too, the refund is wrapped
		assert.Equal(t, eth(9).String(), h.native(alice).String())
		assert.Equal(t, eth(6).String(), h.token(alice).String())
		assert.False(t, h.auction(id).Exists())

		last := h.events[len(h.events)-1]
		assert.Equal(t, entity.EventAuctionCanceled, last.Kind)

		_, err = h.engine.EndAuction(h.ctx, stranger, id)
		assert.True(t, isKind(err, errs.NotFound))
		h.assertConserved()
	})

	t.Run("approval_revoked", func(t *testing.T) {
		h := newTestHouse(t)
		id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)
		require.NoError(t, h.bid(alice, id, eth(1)))
		require.NoError(t, h.world.Assets().SetApprovalForAll(nftContract, seller, engineAddress, false))

		h.now = h.auction(id).EndTime() + 1
		settlement, err := h.engine.EndAuction(h.ctx, stranger, id)
		require.NoError(t, err)
		require.False(t, settlement.Delivered())
		assert.Equal(t, seller, h.ownerOf(1))
		assert.Equal(t, eth(10).String(), h.native(alice).String(), "refunded in native value")
		h.assertConserved()
	})
}

func TestEndAuctionSellerRefusesNative(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)
	require.NoError(t, h.bid(alice, id, eth(2)))
	h.world.SetReceiver(seller, ledger.RejectAll)

	h.now = h.auction(id).EndTime() + 1
	settlement, err := h.engine.EndAuction(h.ctx, stranger, id)
	require.NoError(t, err)
	require.True(t, settlement.Delivered())
	assert.Equal(t, alice, h.ownerOf(1))
	assert.True(t, h.native(seller).IsZero())
	assert.Equal(t, eth(2).String(), h.token(seller).String())
	h.assertConserved()
}

func TestAuctionRoundTrip(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(2, milliEth(100), entity.NativeCurrency)
	require.NoError(t, h.bid(bob, id, milliEth(100)))
	h.now += 3_600
	require.NoError(t, h.bid(alice, id, milliEth(200)))
	h.now += 86_400
	_, err := h.engine.EndAuction(h.ctx, alice, id)
	require.NoError(t, err)

	assert.Equal(t, []entity.EventKind{
		entity.EventAuctionCreated,
		entity.EventAuctionBid,
		entity.EventAuctionBid,
		entity.EventAuctionEnded,
	}, h.kinds())

	events, err := h.engine.Events(h.ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Sequence, events[i-1].Sequence)
	}

	auctions, err := h.engine.Auctions(h.ctx)
	require.NoError(t, err)
	assert.Empty(t, auctions)
	h.assertConserved()
}
