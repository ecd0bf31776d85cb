package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/auctionhouse/pkg/logger"
	"github.com/gaze-network/auctionhouse/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	undo func()

	// initialMaxProcs is GOMAXPROCS before Init.
	initialMaxProcs = Current()
)

// Init sets GOMAXPROCS to match the container CPU quota. It is a no-op outside
// Linux or without a quota, and honors the GOMAXPROCS environment variable.
func Init(ctx context.Context) error {
	ctx = logger.WithContext(ctx,
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", initialMaxProcs),
	)

	printf := func(format string, v ...any) {
		attrs := []slog.Attr{slogx.String("event", "set_gomaxprocs")}
		if val, ok := utils.Optional(v); ok {
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				val = Current()
			}
			if n, ok := val.(int); ok {
				attrs = append(attrs, slogx.Int("set_maxprocs", n))
			}
		}
		logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	revert, err := maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1))
	if err != nil {
		return errors.WithStack(err)
	}
	undo = revert
	return nil
}

// Undo restores GOMAXPROCS to the value before Init and returns it.
func Undo() int {
	if undo != nil {
		undo()
		return Current()
	}
	runtime.GOMAXPROCS(initialMaxProcs)
	return initialMaxProcs
}

// Current returns the current value of GOMAXPROCS.
func Current() int {
	return runtime.GOMAXPROCS(0)
}
