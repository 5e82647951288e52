// Package pipeline consumes published monitor snapshots: consumer, parser
// and reporter stages connected by channels.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/message"
)

const channelBufferSize = 100

// Pipeline orchestrates the different stages: consumer, parsing, reporting.
type Pipeline struct {
	consumer *Consumer
	reporter *Reporter
	logger   *zap.Logger

	rawMessages chan []byte
	snapshots   chan message.Snapshot
}

// New wires a pipeline reading from reader. exporter may be nil.
func New(reader MessageReader, exporter HostExporter, logger *zap.Logger) *Pipeline {
	initLogger := logger.Named("pipeline.init")

	rawMessages := make(chan []byte, channelBufferSize)
	snapshots := make(chan message.Snapshot, channelBufferSize)
	initLogger.Debug("Channels created", zap.Int("bufferSize", channelBufferSize))

	p := &Pipeline{
		consumer:    NewConsumer(reader, rawMessages, logger.Named("consumer")),
		reporter:    NewReporter(snapshots, exporter, logger.Named("reporter")),
		logger:      logger.Named("pipeline"),
		rawMessages: rawMessages,
		snapshots:   snapshots,
	}

	initLogger.Info("Pipeline instance created successfully")
	return p
}

// Run starts all pipeline components and waits for them to complete or context cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	var wg sync.WaitGroup
	pipelineErr := make(chan error, 3) // consumer, parser, reporter

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sugar.Info("Pipeline Run: Starting components...")

	wg.Add(3)
	go p.runConsumer(ctx, &wg, pipelineErr)
	go p.runParser(ctx, &wg)
	go p.runReporter(ctx, &wg, pipelineErr)

	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
		firstErr = ctx.Err()
	case err := <-pipelineErr:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(err))
		firstErr = err
		cancel()
	}

	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return firstErr
	}
	return nil
}

func (p *Pipeline) runConsumer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer close(p.rawMessages)

	if err := p.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Consumer component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrConsumerRunFailed, err)
	}
}

func (p *Pipeline) runParser(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(p.snapshots)

	parserLogger := p.logger.Named("parser").Sugar()

	for {
		select {
		case raw, ok := <-p.rawMessages:
			if !ok {
				parserLogger.Debug("Parser finished (raw message channel closed).")
				return
			}

			snap, err := message.ParseSnapshot(raw)
			if err != nil {
				parserLogger.Warnw("Failed to parse snapshot, skipping", zap.Error(err))
				continue
			}

			select {
			case p.snapshots <- snap:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) runReporter(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	if err := p.reporter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Reporter component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrReporterRunFailed, err)
	}
}
