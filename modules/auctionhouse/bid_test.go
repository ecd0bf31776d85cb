package auctionhouse

import (
	"testing"

	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBidValidation(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, milliEth(500), entity.NativeCurrency)

	testcases := []struct {
		name     string
		id       uint64
		amount   uint128.Uint128
		value    uint128.Uint128
		expected error
		kind     error
	}{
		{"unknown_auction", 7, eth(1), eth(1), ErrAuctionNotFound, errs.NotFound},
		{"zero_bid", id, uint128.Zero, uint128.Zero, ErrZeroBid, errs.InvalidAmount},
		{"value_mismatch", id, eth(1), milliEth(900), ErrAmountMismatch, errs.InvalidAmount},
		{"below_reserve", id, milliEth(499), milliEth(499), ErrBelowReserve, errs.InvalidAmount},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.engine.CreateBid(h.ctx, alice, tc.id, tc.amount, tc.value)
			require.Error(t, err)
			assert.True(t, isKind(err, tc.expected), err.Error())
			assert.True(t, isKind(err, tc.kind), err.Error())
		})
	}
	assert.False(t, h.auction(id).Started())
	assert.Empty(t, h.events[1:])
}

func TestCreateBidIncrement(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)

	require.NoError(t, h.bid(alice, id, eth(1)))
	auction := h.auction(id)
	assert.Equal(t, startTime, auction.FirstBidTime)
	assert.Equal(t, alice, auction.Bidder)
	assert.Equal(t, eth(9).String(), h.native(alice).String())
	assert.Equal(t, eth(1).String(), h.token(engineAddress).String(), "escrow is held wrapped")

	justBelow := milliEth(1_050).Sub(uint128.From64(1))
	err := h.bid(bob, id, justBelow)
	assert.True(t, isKind(err, ErrInsufficientIncrement))
	assert.True(t, isKind(err, errs.InvalidAmount))

	h.now += 60
	require.NoError(t, h.bid(bob, id, milliEth(1_050)))
	auction = h.auction(id)
	assert.Equal(t, bob, auction.Bidder)
	assert.Equal(t, startTime, auction.FirstBidTime, "first bid time is kept")
	assert.Equal(t, eth(10).String(), h.native(alice).String(), "outbid bidder is refunded in native value")
	assert.Equal(t, eth(5).String(), h.token(alice).String())

	bid, ok := h.events[len(h.events)-1].Data.(entity.AuctionBid)
	require.True(t, ok)
	assert.False(t, bid.FirstBid)
	assert.False(t, bid.Extended)
	assert.Equal(t, startTime+60, bid.BidTime)
	h.assertConserved()
}

func TestCreateBidExtension(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, uint128.Zero, entity.NativeCurrency)
	require.NoError(t, h.bid(alice, id, eth(1)))
	end := h.auction(id).EndTime()
	assert.Equal(t, startTime+86_400, end)

	h.now = end - 1
	require.NoError(t, h.bid(bob, id, eth(2)))
	auction := h.auction(id)
	assert.Equal(t, h.now+TimeBuffer, auction.EndTime())
	assert.Equal(t, []entity.EventKind{
		entity.EventAuctionBid,
		entity.EventAuctionBid,
		entity.EventAuctionDurationExtended,
	}, h.kinds()[1:])
	bid, ok := h.events[2].Data.(entity.AuctionBid)
	require.True(t, ok)
	assert.True(t, bid.Extended)
	extended, ok := h.events[3].Data.(entity.AuctionDurationExtended)
	require.True(t, ok)
	assert.Equal(t, auction.Duration, extended.Duration)

	h.now = auction.EndTime()
	require.NoError(t, h.bid(alice, id, eth(3)), "a bid at the scheduled end is accepted")

	h.now = h.auction(id).EndTime() + 1
	err := h.bid(bob, id, eth(4))
	assert.True(t, isKind(err, ErrAuctionExpired))
	assert.True(t, isKind(err, errs.InvalidState))
	h.assertConserved()
}

func TestCreateBidShortAuction(t *testing.T) {
	h := newTestHouse(t)
	id, err := h.engine.CreateAuction(h.ctx, seller, CreateAuctionParams{
		AssetID:       uint128.From64(1),
		AssetContract: nftContract,
		Duration:      60,
	})
	require.NoError(t, err)

	require.NoError(t, h.bid(alice, id, eth(1)))
	assert.Equal(t, startTime+TimeBuffer, h.auction(id).EndTime(), "a first bid inside the window extends too")
}

func TestTokenAuction(t *testing.T) {
	h := newTestHouse(t)
	id := h.createAuction(1, uint128.Zero, tokenAddress)

	err := h.engine.CreateBid(h.ctx, alice, id, eth(1), eth(1))
	assert.True(t, isKind(err, ErrAmountMismatch), "native value in a token auction")

	err = h.engine.CreateBid(h.ctx, alice, id, eth(1), uint128.Zero)
	assert.True(t, isKind(err, errs.TransferFailure), "no allowance")

	h.world.Token().Approve(alice, engineAddress, eth(3))
	h.world.Token().Approve(bob, engineAddress, eth(3))
	require.NoError(t, h.engine.CreateBid(h.ctx, alice, id, eth(1), uint128.Zero))
	assert.Equal(t, eth(4).String(), h.token(alice).String())
	assert.Equal(t, eth(10).String(), h.native(alice).String())

	require.NoError(t, h.engine.CreateBid(h.ctx, bob, id, eth(2), uint128.Zero))
	assert.Equal(t, eth(5).String(), h.token(alice).String(), "refunded in the substitute token")
	assert.Equal(t, eth(3).String(), h.token(bob).String())
	h.assertConserved()

	h.now = h.auction(id).EndTime() + 1
	settlement, err := h.engine.EndAuction(h.ctx, stranger, id)
	require.NoError(t, err)
	require.True(t, settlement.Delivered())
	assert.Equal(t, tokenAddress, settlement.Ended.Currency)
	assert.Equal(t, bob, h.ownerOf(1))
	assert.Equal(t, eth(2).String(), h.token(seller).String())
	assert.True(t, h.native(seller).IsZero())
	h.assertConserved()
}
