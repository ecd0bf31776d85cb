package auctionhouse

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/common/errs"
	"github.com/gaze-network/auctionhouse/core/indexer"
	"github.com/gaze-network/auctionhouse/core/ledger"
	"github.com/gaze-network/auctionhouse/internal/config"
	"github.com/gaze-network/auctionhouse/internal/postgres"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/api/httphandler"
	auctionhouseconfig "github.com/gaze-network/auctionhouse/modules/auctionhouse/config"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	auctionhousepebble "github.com/gaze-network/auctionhouse/modules/auctionhouse/repository/pebble"
	auctionhousepostgres "github.com/gaze-network/auctionhouse/modules/auctionhouse/repository/postgres"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"github.com/gaze-network/auctionhouse/pkg/reportingclient"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
)

func New(injector do.Injector) (_ indexer.IndexerWorker, err error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	reportingClient := do.MustInvoke[*reportingclient.ReportingClient](injector)
	moduleConf := conf.Modules.AuctionHouse

	roles, err := moduleConf.ParseRoles()
	if err != nil {
		return nil, errors.Wrap(err, "invalid auctionhouse configuration")
	}
	genesis, err := moduleConf.Genesis.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "invalid auctionhouse genesis")
	}

	var auctionHouseDg datagateway.AuctionHouseDataGateway
	var cleanupFuncs []func(context.Context) error
	defer func() {
		if err == nil {
			return
		}
		if cleanupErr := runCleanups(ctx, cleanupFuncs); cleanupErr != nil {
			logger.ErrorContext(ctx, "Failed to release auctionhouse resources", cleanupErr)
		}
	}()
	switch strings.ToLower(moduleConf.Database) {
	case auctionhouseconfig.DatabasePebble:
		path := moduleConf.Pebble.Path
		if moduleConf.Pebble.InMemory {
			path = ""
		}
		repo, err := auctionhousepebble.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "can't open pebble database")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			return repo.Close()
		})
		auctionHouseDg = repo
	case auctionhouseconfig.DatabasePostgres, "postgresql", "pg":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for auctionhouse")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		auctionHouseDg = auctionhousepostgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for auctionhouse is not supported", moduleConf.Database)
	}

	world, err := newWorld(ctx, roles, genesis)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	engine := NewEngine(auctionHouseDg, Collaborators{
		Assets: world.Assets(),
		Token:  world.Token(),
		Native: world.Native(),
		Host:   world,
	}, roles.Engine)
	bootstrapped, err := engine.Bootstrap(ctx, roles.Administrator, roles.Auctioneers)
	if err != nil {
		return nil, errors.Wrap(err, "can't bootstrap role tables")
	}
	if bootstrapped {
		logger.InfoContext(ctx, "Bootstrapped role tables", slogx.Stringer("administrator", roles.Administrator))
	}

	// Mount API
	var executor httphandler.Executor
	if moduleConf.EnableCallAPI {
		executor = NewExecutor(engine)
		logger.WarnContext(ctx, "Call API is enabled, callers are not authenticated")
	}
	httpServer, err := do.Invoke[*fiber.App](injector)
	if err != nil {
		return nil, errors.Wrap(err, "can't get HTTP server")
	}
	if err := httphandler.New(engine, executor).Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount auctionhouse API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	var reporter EventReporter
	if reportingClient != nil {
		if err := reportingClient.SubmitNodeReport(ctx, "auctionhouse", roles.Engine); err != nil {
			return nil, errors.Wrap(err, "failed to submit node report")
		}
		reporter = reportingClient
	}

	processor := NewProcessor(auctionHouseDg, reporter, roles.Engine, cleanupFuncs)
	return indexer.New(processor, 0), nil
}

// newWorld creates the in-process ledger the engine settles against, every
// genesis asset is approved for the engine.
func newWorld(ctx context.Context, roles auctionhouseconfig.Roles, genesis ledger.Genesis) (*ledger.World, error) {
	world := ledger.New(roles.SubstituteToken)
	if err := world.ApplyGenesis(ctx, genesis); err != nil {
		return nil, errors.Wrap(err, "can't apply genesis")
	}
	for _, contract := range genesis.AssetContracts {
		for _, asset := range contract.Assets {
			if err := world.Assets().SetApprovalForAll(contract.Address, asset.Owner, roles.Engine, true); err != nil {
				return nil, errors.Wrapf(err, "can't approve engine on %s", contract.Address)
			}
		}
	}
	return world, nil
}
