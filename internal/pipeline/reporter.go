package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/message"
	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

// HostExporter mirrors readings taken on a remote host.
type HostExporter interface {
	ExportHost(host string, readings []monitor.Reading)
}

// Reporter logs received snapshots and mirrors them to an exporter.
type Reporter struct {
	input    <-chan message.Snapshot
	exporter HostExporter
	logger   *zap.Logger

	lastSeen map[string]time.Time
}

// NewReporter creates a Reporter. exporter may be nil.
func NewReporter(input <-chan message.Snapshot, exporter HostExporter, logger *zap.Logger) *Reporter {
	return &Reporter{
		input:    input,
		exporter: exporter,
		logger:   logger,
		lastSeen: make(map[string]time.Time),
	}
}

// Run processes snapshots until the input closes or ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) error {
	sugar := r.logger.Sugar()
	sugar.Info("Starting reporter loop...")
	defer sugar.Info("Reporter loop stopped.")

	for {
		select {
		case snap, ok := <-r.input:
			if !ok {
				sugar.Info("Reporter input channel closed.")
				return nil
			}
			r.report(snap)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping reporter.")
			return ctx.Err()
		}
	}
}

func (r *Reporter) report(snap message.Snapshot) {
	sugar := r.logger.Sugar()

	if prev, ok := r.lastSeen[snap.Host]; ok && !snap.Time.After(prev) {
		sugar.Warnw("Out-of-order snapshot, skipping",
			zap.String("host", snap.Host),
			zap.Time("time", snap.Time),
			zap.Time("last_seen", prev),
		)
		return
	}
	r.lastSeen[snap.Host] = snap.Time

	if r.exporter != nil {
		r.exporter.ExportHost(snap.Host, snap.Readings)
	}

	sugar.Infow("Snapshot received",
		zap.String("host", snap.Host),
		zap.Time("time", snap.Time),
		zap.Int("readings", len(snap.Readings)),
		zap.String("summary", snap.Summary()),
	)
}
