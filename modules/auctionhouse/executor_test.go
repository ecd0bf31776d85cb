package auctionhouse

import (
	"encoding/json"
	"testing"

	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestExecutor(t *testing.T) {
	h := newTestHouse(t)
	x := NewExecutor(h.engine)

	receipt, err := x.Execute(h.ctx, entity.Call{
		Op:     entity.OpCreateAuction,
		Caller: seller,
		Params: mustParams(t, entity.CreateAuctionCallParams{
			AssetID:       "1",
			AssetContract: nftContract,
			Duration:      3_600,
			ReservePrice:  "1000",
		}),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, receipt.CallID)
	assert.Equal(t, entity.AuctionCallParams{AuctionID: 0}, receipt.Output)

	callID := uuid.New()
	receipt, err = x.Execute(h.ctx, entity.Call{
		ID:     callID,
		Op:     entity.OpCreateBid,
		Caller: alice,
		Value:  "1000",
		Params: mustParams(t, entity.CreateBidCallParams{AuctionID: 0, Amount: "1000"}),
	})
	require.NoError(t, err)
	assert.Equal(t, callID, receipt.CallID)
	assert.Equal(t, alice, h.auction(0).Bidder)

	h.now += 86_401
	receipt, err = x.Execute(h.ctx, entity.Call{
		Op:     entity.OpEndAuction,
		Caller: stranger,
		Params: json.RawMessage(`{"auctionId":0}`),
	})
	require.NoError(t, err)
	settlement, ok := receipt.Output.(Settlement)
	require.True(t, ok)
	assert.True(t, settlement.Delivered())
	assert.Equal(t, alice, h.ownerOf(1))
}

func TestExecutorAccountCalls(t *testing.T) {
	h := newTestHouse(t)
	x := NewExecutor(h.engine)

	testcases := []struct {
		op     entity.Opcode
		params any
	}{
		{entity.OpAddAuctioneer, entity.AccountCallParams{Account: alice}},
		{entity.OpRemoveAuctioneer, entity.AccountCallParams{Account: alice}},
		{entity.OpWhitelistAccount, entity.AccountCallParams{Account: bob}},
		{entity.OpRemoveWhitelistedAccount, entity.AccountCallParams{Account: bob}},
		{entity.OpSetRoyalty, entity.SetRoyaltyCallParams{AssetContract: nftContract, Beneficiary: beneficiary, Percentage: 5}},
		{entity.OpSetPublicAuctionsEnabled, entity.PublicAuctionsCallParams{Enabled: false}},
		{entity.OpTransferAdministrator, entity.AccountCallParams{Account: alice}},
	}
	for _, tc := range testcases {
		_, err := x.Execute(h.ctx, entity.Call{Op: tc.op, Caller: administrator, Params: mustParams(t, tc.params)})
		require.NoError(t, err, tc.op)
	}
	assert.Equal(t, []entity.EventKind{
		entity.EventAuctioneerAdded,
		entity.EventAuctioneerRemoved,
		entity.EventAccountWhitelisted,
		entity.EventWhitelistRemoved,
		entity.EventRoyaltySet,
		entity.EventPublicAuctionsEnabledSet,
		entity.EventAdministratorTransferred,
	}, h.kinds())
}

func TestExecutorRejects(t *testing.T) {
	h := newTestHouse(t)
	x := NewExecutor(h.engine)

	testcases := []struct {
		name string
		call entity.Call
		kind error
	}{
		{"unknown_op", entity.Call{Op: "mint", Caller: alice}, errs.Unsupported},
		{"missing_params", entity.Call{Op: entity.OpCancelAuction, Caller: alice}, errs.InvalidArgument},
		{"malformed_params", entity.Call{Op: entity.OpCancelAuction, Caller: alice, Params: json.RawMessage(`{"auctionId":"x"}`)}, errs.InvalidArgument},
		{"malformed_value", entity.Call{Op: entity.OpCreateBid, Caller: alice, Value: "1e18"}, errs.InvalidArgument},
		{"value_on_non_bid", entity.Call{Op: entity.OpWithdraw, Caller: alice, Value: "1", Params: json.RawMessage(`{}`)}, errs.InvalidAmount},
		{"malformed_amount", entity.Call{Op: entity.OpCreateBid, Caller: alice, Params: json.RawMessage(`{"auctionId":0,"amount":"-1"}`)}, errs.InvalidArgument},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := x.Execute(h.ctx, tc.call)
			require.Error(t, err)
			assert.True(t, isKind(err, tc.kind), err.Error())
		})
	}
}
