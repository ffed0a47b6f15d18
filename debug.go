package motion

import (
	"log/slog"
	"time"
)

// frameStats holds per-tick counters. Only logged when debug mode is on.
type frameStats struct {
	advanced  int
	delayed   int
	looped    int
	completed int
	records   int
	tickTime  time.Duration
}

// SetDebugMode enables or disables per-tick statistics, logged at debug
// level through the package logger.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugLog reports tick timing and record counters.
func (e *Engine) debugLog(stats frameStats) {
	if !e.debug {
		return
	}
	logger.Debug("tick",
		slog.Duration("took", stats.tickTime),
		slog.Int("advanced", stats.advanced),
		slog.Int("delayed", stats.delayed),
		slog.Int("looped", stats.looped),
		slog.Int("completed", stats.completed),
		slog.Int("records", stats.records),
	)
}

// debugMaxRecords is the live-record count above which Create warns.
const debugMaxRecords = 1000

func (e *Engine) debugCheckRecordCount() {
	if e.debug && len(e.records) > debugMaxRecords {
		logger.Warn("live animation count exceeds threshold",
			slog.Int("records", len(e.records)),
			slog.Int("threshold", debugMaxRecords))
	}
}
