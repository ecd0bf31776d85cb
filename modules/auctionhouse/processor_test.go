package auctionhouse

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/internal/entity"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/repository/pebble"
	"github.com/gaze-network/auctionhouse/pkg/reportingclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	reports []reportingclient.SubmitEventReportPayloadData
	fail    bool
}

func (r *fakeReporter) SubmitEventReport(_ context.Context, payload reportingclient.SubmitEventReportPayloadData) error {
	if r.fail {
		return errors.New("report center unavailable")
	}
	r.reports = append(r.reports, payload)
	return nil
}

func newTestEventLog(t *testing.T, n int) *pebble.Repository {
	t.Helper()
	repo, err := pebble.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	appendTestEvents(t, repo, n)
	return repo
}

func appendTestEvents(t *testing.T, repo *pebble.Repository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.CreateEvent(context.Background(), entity.NewEvent(startTime, entity.AuctioneerAdded{Account: alice}))
		require.NoError(t, err)
	}
}

func TestEventHash(t *testing.T) {
	auctionID := uint64(4)
	event := entity.Event{
		Sequence:  2,
		Kind:      entity.EventAuctionCanceled,
		AuctionID: &auctionID,
		Timestamp: startTime,
		Data: entity.AuctionCanceled{
			AuctionID:     auctionID,
			AssetContract: nftContract,
			TokenOwner:    seller,
			Reason:        entity.CancelReasonCanceled,
		},
	}
	s, err := getEventString(event)
	require.NoError(t, err)
	assert.Contains(t, s, "2;AuctionCanceled;4;1700000000;{")

	house := entity.NewEvent(startTime, entity.PublicAuctionsEnabledSet{Enabled: true})
	s, err = getEventString(house)
	require.NoError(t, err)
	assert.Contains(t, s, "0;PublicAuctionsEnabledSet;-;1700000000;")

	first, err := hashEvents([]entity.Event{event, house})
	require.NoError(t, err)
	second, err := hashEvents([]entity.Event{house, event})
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "order matters")

	again, err := hashEvents([]entity.Event{event, house})
	require.NoError(t, err)
	assert.Equal(t, first, again)

	assert.NotEqual(t, chainEventHash(common.Hash{}, first), chainEventHash(first, common.Hash{}))
}

func TestProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("reports_new_events", func(t *testing.T) {
		repo := newTestEventLog(t, 3)
		reporter := &fakeReporter{}
		processor := NewProcessor(repo, reporter, engineAddress, nil)

		require.NoError(t, processor.Process(ctx))
		require.Len(t, reporter.reports, 1)
		report := reporter.reports[0]
		assert.Equal(t, "auctionhouse", report.Type)
		assert.Equal(t, engineAddress, report.EngineAddress)
		assert.EqualValues(t, 0, report.FromSequence)
		assert.EqualValues(t, 2, report.ToSequence)
		assert.Equal(t, 3, report.TotalEvents)
		assert.Equal(t, chainEventHash(common.Hash{}, report.EventHash), report.CumulativeEventHash)

		require.NoError(t, processor.Process(ctx))
		assert.Len(t, reporter.reports, 1, "nothing new to report")

		appendTestEvents(t, repo, 2)
		require.NoError(t, processor.Process(ctx))
		require.Len(t, reporter.reports, 2)
		assert.EqualValues(t, 3, reporter.reports[1].FromSequence)
		assert.EqualValues(t, 4, reporter.reports[1].ToSequence)
		assert.Equal(t, chainEventHash(report.CumulativeEventHash, reporter.reports[1].EventHash), reporter.reports[1].CumulativeEventHash)
	})
	t.Run("batches", func(t *testing.T) {
		repo := newTestEventLog(t, reportBatchSize+1)
		reporter := &fakeReporter{}
		processor := NewProcessor(repo, reporter, engineAddress, nil)

		require.NoError(t, processor.Process(ctx))
		require.Len(t, reporter.reports, 2)
		assert.Equal(t, reportBatchSize, reporter.reports[0].TotalEvents)
		assert.Equal(t, 1, reporter.reports[1].TotalEvents)
	})
	t.Run("retries_failed_report", func(t *testing.T) {
		repo := newTestEventLog(t, 2)
		reporter := &fakeReporter{fail: true}
		processor := NewProcessor(repo, reporter, engineAddress, nil)

		require.NoError(t, processor.Process(ctx))
		assert.Empty(t, reporter.reports)

		reporter.fail = false
		require.NoError(t, processor.Process(ctx))
		require.Len(t, reporter.reports, 1)
		assert.EqualValues(t, 0, reporter.reports[0].FromSequence)
	})
	t.Run("reporting_disabled", func(t *testing.T) {
		processor := NewProcessor(newTestEventLog(t, 1), nil, engineAddress, nil)
		assert.NoError(t, processor.Process(ctx))
	})
	t.Run("shutdown", func(t *testing.T) {
		var closed int
		processor := NewProcessor(newTestEventLog(t, 0), nil, engineAddress, []func(context.Context) error{
			func(context.Context) error { closed++; return nil },
			func(context.Context) error { closed++; return errors.New("close failed") },
		})
		assert.Error(t, processor.Shutdown(ctx))
		assert.Equal(t, 2, closed)
	})
}
