package auctionhouse

import (
	"context"
	"testing"

	"github.com/gaze-network/auctionhouse/core/indexer"
	"github.com/gaze-network/auctionhouse/internal/config"
	auctionhouseconfig "github.com/gaze-network/auctionhouse/modules/auctionhouse/config"
	auctionhousepebble "github.com/gaze-network/auctionhouse/modules/auctionhouse/repository/pebble"
	"github.com/gaze-network/auctionhouse/pkg/reportingclient"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInjector(t *testing.T, path string, withHTTPServer bool) do.Injector {
	t.Helper()
	conf := config.Config{}
	conf.Modules.AuctionHouse = auctionhouseconfig.Default()
	conf.Modules.AuctionHouse.Administrator = administrator.Hex()
	conf.Modules.AuctionHouse.Pebble.Path = path

	injector := do.New()
	do.ProvideValue[context.Context](injector, context.Background())
	do.ProvideValue(injector, conf)
	do.ProvideValue[*reportingclient.ReportingClient](injector, nil)
	if withHTTPServer {
		do.ProvideValue(injector, fiber.New())
	}
	return injector
}

func TestNew(t *testing.T) {
	t.Run("releases_database_on_failure", func(t *testing.T) {
		path := t.TempDir()
		_, err := New(newTestInjector(t, path, false))
		require.Error(t, err)

		repo, err := auctionhousepebble.Open(path)
		require.NoError(t, err, "database must be closed after a failed start")
		assert.NoError(t, repo.Close())
	})
	t.Run("processor_owns_database", func(t *testing.T) {
		path := t.TempDir()
		worker, err := New(newTestInjector(t, path, true))
		require.NoError(t, err)

		_, err = auctionhousepebble.Open(path)
		require.Error(t, err, "database is held by the running module")

		require.NoError(t, worker.(*indexer.Indexer).Processor.Shutdown(context.Background()))
		repo, err := auctionhousepebble.Open(path)
		require.NoError(t, err)
		assert.NoError(t, repo.Close())
	})
}
