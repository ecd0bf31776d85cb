package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/core/ledger"
	"github.com/gaze-network/auctionhouse/internal/postgres"
	"github.com/gaze-network/auctionhouse/pkg/decimals"
	"github.com/gaze-network/uint128"
)

const (
	DatabasePebble   = "pebble"
	DatabasePostgres = "postgres"
)

type Config struct {
	Database string          `mapstructure:"database"` // `pebble` | `postgres`
	Pebble   PebbleConfig    `mapstructure:"pebble"`
	Postgres postgres.Config `mapstructure:"postgres"`

	// EngineAddress is the account the auction house holds escrow with.
	EngineAddress string `mapstructure:"engine_address"`

	// Administrator and Auctioneers bootstrap the role tables on first start only.
	Administrator string   `mapstructure:"administrator"`
	Auctioneers   []string `mapstructure:"auctioneers"`

	// SubstituteToken is the address of the wrapped native token.
	SubstituteToken string `mapstructure:"substitute_token"`

	// EnableCallAPI exposes `POST /calls`, it trusts the caller field of the request.
	EnableCallAPI bool `mapstructure:"enable_call_api"`

	Genesis GenesisConfig `mapstructure:"genesis"`
}

type PebbleConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// GenesisConfig seeds the in-process ledger, balances are decimal amounts of whole native units.
type GenesisConfig struct {
	NativeBalances map[string]string     `mapstructure:"native_balances"`
	TokenBalances  map[string]string     `mapstructure:"token_balances"`
	AssetContracts []AssetContractConfig `mapstructure:"asset_contracts"`
}

type AssetContractConfig struct {
	Address string        `mapstructure:"address"`
	Assets  []AssetConfig `mapstructure:"assets"`
}

type AssetConfig struct {
	ID    string `mapstructure:"id"`
	Owner string `mapstructure:"owner"`
}

func Default() Config {
	return Config{
		Database: DatabasePebble,
		Pebble: PebbleConfig{
			Path: "data/auctionhouse",
		},
		EngineAddress:   "0x000000000000000000000000000000000000a0c7",
		SubstituteToken: "0x000000000000000000000000000000000000e7e4",
	}
}

// Roles is the typed form of the role bootstrap configuration.
type Roles struct {
	Engine          common.Address
	Administrator   common.Address
	Auctioneers     []common.Address
	SubstituteToken common.Address
}

// ParseRoles validates and parses the configured addresses.
func (c Config) ParseRoles() (Roles, error) {
	var roles Roles
	var err error
	if roles.Engine, err = ParseAddress(c.EngineAddress); err != nil {
		return Roles{}, errors.Wrap(err, "invalid engine_address")
	}
	if roles.Administrator, err = ParseAddress(c.Administrator); err != nil {
		return Roles{}, errors.Wrap(err, "invalid administrator")
	}
	if roles.SubstituteToken, err = ParseAddress(c.SubstituteToken); err != nil {
		return Roles{}, errors.Wrap(err, "invalid substitute_token")
	}
	for _, auctioneer := range c.Auctioneers {
		addr, err := ParseAddress(auctioneer)
		if err != nil {
			return Roles{}, errors.Wrap(err, "invalid auctioneers")
		}
		roles.Auctioneers = append(roles.Auctioneers, addr)
	}
	return roles, nil
}

// ParseAddress parses a non-zero hex address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Wrapf(errs.InvalidArgument, "%q is not a hex address", s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, errors.Wrap(errs.InvalidArgument, "address must not be zero")
	}
	return addr, nil
}

// ParseAmount parses a base unit decimal amount.
func ParseAmount(s string) (uint128.Uint128, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	amount, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errors.Mark(err, errs.InvalidArgument), "invalid amount %q", s)
	}
	return amount, nil
}

// Parse validates the genesis configuration and converts it to the ledger genesis.
func (g GenesisConfig) Parse() (ledger.Genesis, error) {
	genesis := ledger.Genesis{
		NativeBalances: make(map[common.Address]uint128.Uint128, len(g.NativeBalances)),
		TokenBalances:  make(map[common.Address]uint128.Uint128, len(g.TokenBalances)),
	}
	balances := []struct {
		name string
		src  map[string]string
		dst  map[common.Address]uint128.Uint128
	}{
		{"native_balances", g.NativeBalances, genesis.NativeBalances},
		{"token_balances", g.TokenBalances, genesis.TokenBalances},
	}
	for _, b := range balances {
		for account, balance := range b.src {
			addr, err := ParseAddress(account)
			if err != nil {
				return ledger.Genesis{}, errors.Wrapf(err, "invalid genesis.%s", b.name)
			}
			amount, err := decimals.Parse(balance, decimals.NativeDecimals)
			if err != nil {
				return ledger.Genesis{}, errors.Wrapf(err, "invalid genesis.%s of %s", b.name, account)
			}
			b.dst[addr] = amount
		}
	}
	for _, contract := range g.AssetContracts {
		addr, err := ParseAddress(contract.Address)
		if err != nil {
			return ledger.Genesis{}, errors.Wrap(err, "invalid genesis.asset_contracts address")
		}
		parsed := ledger.GenesisAssetContract{Address: addr}
		for _, asset := range contract.Assets {
			id, err := ParseAmount(asset.ID)
			if err != nil {
				return ledger.Genesis{}, errors.Wrapf(err, "invalid asset id of %s", contract.Address)
			}
			owner, err := ParseAddress(asset.Owner)
			if err != nil {
				return ledger.Genesis{}, errors.Wrapf(err, "invalid owner of asset %s", asset.ID)
			}
			parsed.Assets = append(parsed.Assets, ledger.GenesisAsset{ID: id, Owner: owner})
		}
		genesis.AssetContracts = append(genesis.AssetContracts, parsed)
	}
	return genesis, nil
}
