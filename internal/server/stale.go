package server

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sbts/internal/logging"
)

type staleReporter interface {
	ReportStaleUploads(ctx context.Context, olderThan time.Duration) (int, error)
}

// runStaleReporter periodically logs uploads stuck in the uploading state
// until ctx is done. A non-positive interval disables it.
func runStaleReporter(ctx context.Context, r staleReporter, interval, age time.Duration, logger logging.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ReportStaleUploads logs each stale row.
			n, err := r.ReportStaleUploads(ctx, age)
			if err != nil {
				logger.Error(ctx, "stale upload scan failed", "error", err)
				continue
			}
			logger.Debug(ctx, "stale upload scan finished", "count", n, "older_than", age)
		}
	}
}
