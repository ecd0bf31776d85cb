package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/core/ledger"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/api/httphandler"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/repository/pebble"
	"github.com/gaze-network/auctionhouse/pkg/errorhandler"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	engineAddress = common.HexToAddress("0xa0c7")
	tokenAddress  = common.HexToAddress("0xe7e4")
	nftContract   = common.HexToAddress("0x0721")
	administrator = common.HexToAddress("0xad")
	seller        = common.HexToAddress("0x5e")
	alice         = common.HexToAddress("0xa1")
	stranger      = common.HexToAddress("0x99")
)

const oneEther = "1000000000000000000"

func newTestApp(t *testing.T, enableCalls bool) *fiber.App {
	t.Helper()
	ctx := context.Background()

	repo, err := pebble.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	tenEther, err := uint128.FromString("10000000000000000000")
	require.NoError(t, err)
	world := ledger.New(tokenAddress)
	require.NoError(t, world.ApplyGenesis(ctx, ledger.Genesis{
		NativeBalances: map[common.Address]uint128.Uint128{alice: tenEther},
		AssetContracts: []ledger.GenesisAssetContract{{
			Address: nftContract,
			Assets:  []ledger.GenesisAsset{{ID: uint128.From64(1), Owner: seller}},
		}},
	}))
	require.NoError(t, world.Assets().SetApprovalForAll(nftContract, seller, engineAddress, true))

	now := uint64(1_700_000_000)
	engine := auctionhouse.NewEngine(repo, auctionhouse.Collaborators{
		Assets: world.Assets(),
		Token:  world.Token(),
		Native: world.Native(),
		Host:   world,
	}, engineAddress, auctionhouse.WithClock(func() uint64 { return now }))
	_, err = engine.Bootstrap(ctx, administrator, nil)
	require.NoError(t, err)
	require.NoError(t, engine.SetPublicAuctionsEnabled(ctx, administrator, true))
	require.NoError(t, engine.WhitelistAccount(ctx, administrator, seller))

	var executor httphandler.Executor
	if enableCalls {
		executor = auctionhouse.NewExecutor(engine)
	}
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, httphandler.New(engine, executor).Mount(app))
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), string(raw))
	}
	return resp.StatusCode, result
}

func assertAddress(t *testing.T, expected common.Address, actual any) {
	t.Helper()
	raw, ok := actual.(string)
	require.True(t, ok, "address must be a string, got %T", actual)
	assert.True(t, common.IsHexAddress(raw), raw)
	assert.Equal(t, expected, common.HexToAddress(raw))
}

func call(op string, caller common.Address, value string, params any) map[string]any {
	return map[string]any{
		"op":     op,
		"caller": caller,
		"value":  value,
		"params": params,
	}
}

func TestInfo(t *testing.T) {
	app := newTestApp(t, false)

	status, body := do(t, app, http.MethodGet, "/v1/auctionhouse/info", nil)
	require.Equal(t, http.StatusOK, status)
	result := body["result"].(map[string]any)
	assert.EqualValues(t, 900, result["timeBuffer"])
	assert.EqualValues(t, 5, result["minBidIncrementPercentage"])
	assertAddress(t, tokenAddress, result["substituteToken"])
	assertAddress(t, administrator, result["administrator"])
	assert.Equal(t, true, result["publicAuctionsEnabled"])

	status, _ = do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("withdraw", alice, "", nil))
	assert.Equal(t, http.StatusNotFound, status, "call api is disabled")
}

func TestAuctionFlow(t *testing.T) {
	app := newTestApp(t, true)

	status, body := do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("create_auction", seller, "", map[string]any{
		"assetId":       "1",
		"assetContract": nftContract,
		"duration":      86_400,
	}))
	require.Equal(t, http.StatusOK, status, body)
	receipt := body["result"].(map[string]any)
	assert.Equal(t, map[string]any{"auctionId": float64(0)}, receipt["output"])
	assert.NotEmpty(t, receipt["callId"])

	status, body = do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("create_bid", alice, oneEther, map[string]any{
		"auctionId": 0,
		"amount":    oneEther,
	}))
	require.Equal(t, http.StatusOK, status, body)

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/auctions/0", nil)
	require.Equal(t, http.StatusOK, status)
	auction := body["result"].(map[string]any)
	assertAddress(t, alice, auction["bidder"])
	assertAddress(t, seller, auction["tokenOwner"])
	assert.Equal(t, map[string]any{"value": oneEther, "decimal": "1"}, auction["amount"])
	assert.EqualValues(t, 1_700_000_000+86_400, auction["endTime"])

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/auctions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["result"].(map[string]any)["list"], 1)

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/auctions/0/events", nil)
	require.Equal(t, http.StatusOK, status)
	events := body["result"].(map[string]any)["list"].([]any)
	require.Len(t, events, 2)
	assert.Equal(t, "AuctionCreated", events[0].(map[string]any)["kind"])
	assert.Equal(t, "AuctionBid", events[1].(map[string]any)["kind"])

	status, body = do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("create_bid", alice, "1000", map[string]any{
		"auctionId": 0,
		"amount":    "1000",
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, status, "insufficient increment")
	assert.NotEmpty(t, body["error"])

	status, _ = do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("add_auctioneer", stranger, "", map[string]any{
		"account": stranger,
	}))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, app, http.MethodPost, "/v1/auctionhouse/calls", call("mint", stranger, "", nil))
	assert.Equal(t, http.StatusNotImplemented, status)
}

func TestAuctionNotFound(t *testing.T) {
	app := newTestApp(t, false)

	testcases := []struct {
		path   string
		status int
	}{
		{"/v1/auctionhouse/auctions/9", http.StatusNotFound},
		{"/v1/auctionhouse/auctions/x", http.StatusBadRequest},
		{"/v1/auctionhouse/roles/alice", http.StatusBadRequest},
		{"/v1/auctionhouse/royalties/0x12", http.StatusBadRequest},
	}
	for _, tc := range testcases {
		t.Run(tc.path, func(t *testing.T) {
			status, body := do(t, app, http.MethodGet, tc.path, nil)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRolesAndWithdrawals(t *testing.T) {
	app := newTestApp(t, false)

	status, body := do(t, app, http.MethodGet, "/v1/auctionhouse/roles/"+seller.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	roles := body["result"].(map[string]any)
	assert.Equal(t, false, roles["administrator"])
	assert.Equal(t, true, roles["whitelisted"])
	assert.Equal(t, true, roles["canCreateAuction"])

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/roles/"+stranger.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["result"].(map[string]any)["canCreateAuction"])

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/royalties/"+nftContract.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["result"].(map[string]any)["percentage"])

	status, body = do(t, app, http.MethodGet, "/v1/auctionhouse/withdrawals/"+alice.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["result"].(map[string]any)["list"])
}
