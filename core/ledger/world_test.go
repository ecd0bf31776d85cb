package ledger

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddress = common.HexToAddress("0xe7e4")
	alice        = common.HexToAddress("0xa11ce")
	bob          = common.HexToAddress("0xb0b")
	nftContract  = common.HexToAddress("0x0721")
)

func balance(t *testing.T, get func(context.Context, common.Address) (uint128.Uint128, error), account common.Address) string {
	t.Helper()
	amount, err := get(context.Background(), account)
	require.NoError(t, err)
	return amount.String()
}

func TestNativeTransfer(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	native := w.Native()
	require.NoError(t, native.Mint(alice, uint128.From64(100)))

	require.NoError(t, native.Transfer(ctx, alice, bob, uint128.From64(40)))
	assert.Equal(t, "60", balance(t, native.BalanceOf, alice))
	assert.Equal(t, "40", balance(t, native.BalanceOf, bob))

	err := native.Transfer(ctx, alice, bob, uint128.From64(61))
	assert.True(t, errors.Is(err, errs.TransferFailure))
	assert.Equal(t, "60", balance(t, native.BalanceOf, alice))

	w.SetReceiver(bob, RejectAll)
	err = native.Transfer(ctx, alice, bob, uint128.From64(1))
	assert.True(t, errors.Is(err, errs.TransferFailure))
	assert.Equal(t, "60", balance(t, native.BalanceOf, alice), "refused transfer is reverted")
	assert.Equal(t, "40", balance(t, native.BalanceOf, bob))
	assert.Equal(t, "100", native.TotalSupply().String())
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	require.NoError(t, w.Native().Mint(alice, uint128.From64(10)))

	outer := w.Snapshot()
	require.NoError(t, w.Native().Transfer(ctx, alice, bob, uint128.From64(3)))
	inner := w.Snapshot()
	require.NoError(t, w.Native().Transfer(ctx, alice, bob, uint128.From64(3)))

	w.RevertToSnapshot(inner)
	assert.Equal(t, "7", balance(t, w.Native().BalanceOf, alice))
	assert.Equal(t, "3", balance(t, w.Native().BalanceOf, bob))

	w.RevertToSnapshot(outer)
	assert.Equal(t, "10", balance(t, w.Native().BalanceOf, alice))
	assert.Equal(t, "0", balance(t, w.Native().BalanceOf, bob))
}

func TestDiscardSnapshot(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	require.NoError(t, w.Native().Mint(alice, uint128.From64(10)))
	baseline := w.Snapshot()

	for i := 0; i < 100; i++ {
		snapshot := w.Snapshot()
		require.NoError(t, w.Native().Transfer(ctx, alice, bob, uint128.From64(1)))
		require.NoError(t, w.Native().Transfer(ctx, bob, alice, uint128.From64(1)))
		w.DiscardSnapshot(snapshot)
	}
	assert.Equal(t, baseline, w.Snapshot())

	snapshot := w.Snapshot()
	require.NoError(t, w.Native().Transfer(ctx, alice, bob, uint128.From64(4)))
	w.DiscardSnapshot(snapshot)
	w.RevertToSnapshot(snapshot)
	assert.Equal(t, "6", balance(t, w.Native().BalanceOf, alice), "discarded changes are kept")
	assert.Equal(t, "4", balance(t, w.Native().BalanceOf, bob))
}

func TestToken(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	token := w.Token()
	require.NoError(t, w.Native().Mint(alice, uint128.From64(100)))

	t.Run("deposit_withdraw", func(t *testing.T) {
		require.NoError(t, token.Deposit(ctx, alice, uint128.From64(50)))
		assert.Equal(t, "50", balance(t, token.BalanceOf, alice))
		assert.Equal(t, "50", balance(t, w.Native().BalanceOf, alice))
		assert.Equal(t, "50", balance(t, w.Native().BalanceOf, tokenAddress))

		require.NoError(t, token.Withdraw(ctx, alice, uint128.From64(20)))
		assert.Equal(t, "30", balance(t, token.BalanceOf, alice))
		assert.Equal(t, "70", balance(t, w.Native().BalanceOf, alice))

		err := token.Withdraw(ctx, alice, uint128.From64(31))
		assert.True(t, errors.Is(err, errs.TransferFailure))
	})

	t.Run("withdraw_refused", func(t *testing.T) {
		w.SetReceiver(alice, RejectAll)
		defer w.SetReceiver(alice, nil)

		err := token.Withdraw(ctx, alice, uint128.From64(10))
		assert.True(t, errors.Is(err, errs.TransferFailure))
		assert.Equal(t, "30", balance(t, token.BalanceOf, alice))
		assert.Equal(t, "70", balance(t, w.Native().BalanceOf, alice))
	})

	t.Run("allowance", func(t *testing.T) {
		err := token.TransferFrom(ctx, bob, alice, bob, uint128.From64(5))
		assert.True(t, errors.Is(err, errs.TransferFailure))

		token.Approve(alice, bob, uint128.From64(8))
		require.NoError(t, token.TransferFrom(ctx, bob, alice, bob, uint128.From64(5)))
		assert.Equal(t, "3", balance(t, func(ctx context.Context, spender common.Address) (uint128.Uint128, error) {
			return token.Allowance(ctx, alice, spender)
		}, bob))
		assert.Equal(t, "5", balance(t, token.BalanceOf, bob))

		err = token.TransferFrom(ctx, bob, alice, bob, uint128.From64(4))
		assert.True(t, errors.Is(err, errs.TransferFailure))
	})

	t.Run("frozen", func(t *testing.T) {
		token.Freeze(bob, true)
		err := token.Transfer(ctx, alice, bob, uint128.From64(1))
		assert.True(t, errors.Is(err, errs.TransferFailure))
		token.Freeze(bob, false)
		require.NoError(t, token.Transfer(ctx, alice, bob, uint128.From64(1)))
	})
}

func TestAssetTransfer(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	assets := w.Assets()
	operator := common.HexToAddress("0x0e")
	id := uint128.From64(1)

	assets.Deploy(nftContract, true)
	require.NoError(t, assets.Mint(nftContract, id, alice))
	assert.True(t, errors.Is(assets.Mint(nftContract, id, bob), errs.InvalidArgument))

	ok, err := assets.SupportsUniqueAssetInterface(ctx, nftContract)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = assets.OwnerOf(ctx, nftContract, uint128.From64(2))
	assert.True(t, errors.Is(err, errs.NotFound))

	err = assets.TransferFrom(ctx, nftContract, operator, alice, bob, id)
	assert.True(t, errors.Is(err, errs.TransferFailure), "unapproved operator")

	require.NoError(t, assets.Approve(nftContract, alice, operator, id))
	approved, err := assets.GetApproved(ctx, nftContract, id)
	require.NoError(t, err)
	assert.Equal(t, operator, approved)

	w.SetReceiver(bob, RejectAll)
	err = assets.TransferFrom(ctx, nftContract, operator, alice, bob, id)
	assert.True(t, errors.Is(err, errs.TransferFailure))
	owner, err := assets.OwnerOf(ctx, nftContract, id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	approved, err = assets.GetApproved(ctx, nftContract, id)
	require.NoError(t, err)
	assert.Equal(t, operator, approved, "refused transfer keeps approval")

	w.SetReceiver(bob, nil)
	require.NoError(t, assets.TransferFrom(ctx, nftContract, operator, alice, bob, id))
	owner, err = assets.OwnerOf(ctx, nftContract, id)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	approved, err = assets.GetApproved(ctx, nftContract, id)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, approved)

	require.NoError(t, assets.SetApprovalForAll(nftContract, bob, operator, true))
	require.NoError(t, assets.TransferFrom(ctx, nftContract, operator, bob, alice, id))

	assets.Deploy(common.HexToAddress("0x20"), false)
	_, err = assets.OwnerOf(ctx, common.HexToAddress("0x20"), id)
	assert.True(t, errors.Is(err, errs.Unsupported))
}

func TestReceiverCallback(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	require.NoError(t, w.Native().Mint(alice, uint128.From64(10)))

	var received []string
	w.SetReceiver(bob, ReceiverFuncs{
		Native: func(_ context.Context, from common.Address, amount uint128.Uint128) error {
			received = append(received, amount.String())
			if amount.Cmp(uint128.From64(5)) > 0 {
				return errors.New("too much")
			}
			return nil
		},
	})
	require.NoError(t, w.Native().Transfer(ctx, alice, bob, uint128.From64(2)))
	assert.True(t, errors.Is(w.Native().Transfer(ctx, alice, bob, uint128.From64(6)), errs.TransferFailure))
	assert.Equal(t, []string{"2", "6"}, received)
	assert.Equal(t, "8", balance(t, w.Native().BalanceOf, alice))
}

func TestApplyGenesis(t *testing.T) {
	ctx := context.Background()
	w := New(tokenAddress)
	err := w.ApplyGenesis(ctx, Genesis{
		NativeBalances: map[common.Address]uint128.Uint128{alice: uint128.From64(10)},
		TokenBalances:  map[common.Address]uint128.Uint128{bob: uint128.From64(4)},
		AssetContracts: []GenesisAssetContract{{
			Address: nftContract,
			Assets:  []GenesisAsset{{ID: uint128.From64(1), Owner: alice}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "10", balance(t, w.Native().BalanceOf, alice))
	assert.Equal(t, "4", balance(t, w.Token().BalanceOf, bob))
	assert.Equal(t, "4", balance(t, w.Native().BalanceOf, tokenAddress))
	owner, err := w.Assets().OwnerOf(ctx, nftContract, uint128.From64(1))
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	assert.Zero(t, w.Snapshot())

	err = New(tokenAddress).ApplyGenesis(ctx, Genesis{
		AssetContracts: []GenesisAssetContract{{
			Address: nftContract,
			Assets:  []GenesisAsset{{ID: uint128.From64(1), Owner: alice}, {ID: uint128.From64(1), Owner: bob}},
		}},
	})
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}
