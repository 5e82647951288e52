package export

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/config"
	"github.com/sanspareilsmyn/perfmon/internal/message"
	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

const publishQueueSize = 16

// MessageWriter is the part of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Clock is the loop time used to throttle snapshots.
type Clock interface {
	Now() time.Duration
}

// KafkaLogger adapts zap to kafka-go's Logger.
type KafkaLogger struct {
	Log *zap.Logger
}

func (l KafkaLogger) Printf(msg string, args ...interface{}) {
	l.Log.Debug(fmt.Sprintf(msg, args...))
}

// KafkaErrorLogger adapts zap to kafka-go's ErrorLogger.
type KafkaErrorLogger struct {
	Log *zap.Logger
}

func (l KafkaErrorLogger) Printf(msg string, args ...interface{}) {
	l.Log.Error(fmt.Sprintf(msg, args...))
}

// NewKafkaWriter creates a writer for the snapshot topic.
func NewKafkaWriter(cfg config.KafkaConfig, logger *zap.Logger) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return nil, ErrInvalidKafkaConfig
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       KafkaLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger:  KafkaErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}
	logger.Info("Kafka writer created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
	)
	return w, nil
}

// Publisher sends at most one snapshot per interval to Kafka. Export runs on
// the loop and never blocks: snapshots are handed to Run through a bounded
// queue and dropped when it is full.
type Publisher struct {
	writer   MessageWriter
	clock    Clock
	interval time.Duration
	host     string
	queue    chan message.Snapshot
	logger   *zap.Logger

	last    time.Duration
	sent    bool
	dropped uint64
}

func NewPublisher(writer MessageWriter, clock Clock, interval time.Duration, host string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer:   writer,
		clock:    clock,
		interval: interval,
		host:     host,
		queue:    make(chan message.Snapshot, publishQueueSize),
		logger:   logger,
	}
}

// Export implements monitor.Sink.
func (p *Publisher) Export(readings []monitor.Reading) {
	now := p.clock.Now()
	if p.sent && now-p.last < p.interval {
		return
	}
	p.sent, p.last = true, now

	snap := message.Snapshot{Time: time.Now().UTC(), Host: p.host, Readings: readings}
	select {
	case p.queue <- snap:
	default:
		p.dropped++
		p.logger.Warn("Publisher queue full, dropping snapshot",
			zap.Uint64("dropped_total", p.dropped),
		)
	}
}

// Dropped reports how many snapshots were discarded. Read it on the loop.
func (p *Publisher) Dropped() uint64 { return p.dropped }

// Run writes queued snapshots until ctx is cancelled, then closes the writer.
func (p *Publisher) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	sugar.Info("Starting snapshot publisher loop...")

	defer func() {
		if err := p.writer.Close(); err != nil {
			sugar.Errorw("Failed to close Kafka writer cleanly", zap.Error(err))
		}
		sugar.Info("Snapshot publisher loop stopped.")
	}()

	for {
		select {
		case snap := <-p.queue:
			p.publish(ctx, snap)

		case <-ctx.Done():
			sugar.Debugw("Context cancelled, stopping publisher", zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
}

func (p *Publisher) publish(ctx context.Context, snap message.Snapshot) {
	data, err := message.EncodeSnapshot(snap)
	if err != nil {
		p.logger.Error("Failed to encode snapshot", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(snap.Host), Value: data})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("Failed to publish snapshot",
			zap.Error(fmt.Errorf("%w: %w", ErrPublishFailed, err)),
			zap.Int("readings", len(snap.Readings)),
		)
		return
	}
	p.logger.Debug("Snapshot published", zap.Int("bytes", len(data)))
}
