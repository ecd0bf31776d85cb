package auctionhouse

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/auctionhouse/core/constants"
	"github.com/gaze-network/auctionhouse/core/indexer"
	"github.com/gaze-network/auctionhouse/modules/auctionhouse/datagateway"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"github.com/gaze-network/auctionhouse/pkg/reportingclient"
)

const reportBatchSize = 500

// EventReporter submits summaries of the event log.
type EventReporter interface {
	SubmitEventReport(ctx context.Context, payload reportingclient.SubmitEventReportPayloadData) error
}

// Processor reports the event log of the auction house and owns the resources
// of the module. The cumulative hash starts over on every start, so the whole
// log is reported again after a restart.
type Processor struct {
	eventDg       datagateway.EventReader
	reporter      EventReporter
	engineAddress common.Address
	cleanupFuncs  []func(context.Context) error

	nextSequence   uint64
	cumulativeHash common.Hash
}

var _ indexer.Processor = (*Processor)(nil)

// NewProcessor creates the module processor, reporter is nil when reporting is disabled.
func NewProcessor(eventDg datagateway.EventReader, reporter EventReporter, engineAddress common.Address, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		eventDg:       eventDg,
		reporter:      reporter,
		engineAddress: engineAddress,
		cleanupFuncs:  cleanupFuncs,
	}
}

func (p *Processor) Name() string {
	return "auctionhouse"
}

// Process reports every event committed since the last report.
func (p *Processor) Process(ctx context.Context) error {
	if p.reporter == nil {
		return nil
	}
	for {
		events, err := p.eventDg.GetEvents(ctx, p.nextSequence, reportBatchSize)
		if err != nil {
			return errors.Wrapf(err, "can't get events from %d", p.nextSequence)
		}
		if len(events) == 0 {
			return nil
		}

		eventHash, err := hashEvents(events)
		if err != nil {
			return errors.Wrap(err, "can't hash events")
		}
		from, to := events[0].Sequence, events[len(events)-1].Sequence
		cumulativeHash := chainEventHash(p.cumulativeHash, eventHash)
		payload := reportingclient.SubmitEventReportPayloadData{
			Type:                p.Name(),
			ClientVersion:       constants.Version,
			DBVersion:           DBVersion,
			EventHashVersion:    EventHashVersion,
			EngineAddress:       p.engineAddress,
			FromSequence:        from,
			ToSequence:          to,
			TotalEvents:         len(events),
			EventHash:           eventHash,
			CumulativeEventHash: cumulativeHash,
		}
		if err := p.reporter.SubmitEventReport(ctx, payload); err != nil {
			// the same range is submitted again on the next run
			logger.WarnContext(ctx, "failed to submit event report", slogx.Error(err), slog.Uint64("from", from))
			return nil
		}
		p.nextSequence = to + 1
		p.cumulativeHash = cumulativeHash

		if len(events) < reportBatchSize {
			return nil
		}
	}
}

func (p *Processor) Shutdown(ctx context.Context) error {
	return runCleanups(ctx, p.cleanupFuncs)
}

// runCleanups runs every cleanup and joins their errors.
func runCleanups(ctx context.Context, cleanupFuncs []func(context.Context) error) error {
	var errs []error
	for _, cleanup := range cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.WithStack(errors.Join(errs...))
}
