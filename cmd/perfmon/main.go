package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/config"
	"github.com/sanspareilsmyn/perfmon/internal/export"
	"github.com/sanspareilsmyn/perfmon/internal/logging"
	"github.com/sanspareilsmyn/perfmon/internal/loop"
	"github.com/sanspareilsmyn/perfmon/internal/monitor"
	"github.com/sanspareilsmyn/perfmon/internal/widget"
)

var (
	configFile = flag.String("config", "configs/perfmon.yaml", "Path to the configuration file")
	logger     *zap.Logger
)

// screenDisplay presents a tcell screen once per frame.
type screenDisplay struct {
	tcell.Screen
}

func (d screenDisplay) Show() { d.Screen.Show() }

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	// The terminal belongs to the display while it is enabled.
	if cfg.Display.Enabled {
		cfg.Log.Format = logging.FormatNone
	}

	var logErr error
	logger, logErr = logging.NewLogger(cfg.Log)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", logErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded successfully", "path", *configFile)

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("perfmon stopped unexpectedly", zap.Error(err))
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	sugar.Info("perfmon finished.")
}

func run(cfg *config.Config) error {
	sugar := logger.Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case sig := <-signals:
			sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	l := loop.New(cfg.Monitor.FrameInterval, logger.Named("loop"))

	opts := []monitor.Option{
		monitor.WithLogger(logger.Named("monitor")),
		monitor.WithMaxSamples(cfg.Monitor.MaxSamples),
		monitor.WithGraphRows(cfg.Display.GraphRows),
	}

	var screen tcell.Screen
	if cfg.Display.Enabled {
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		defer screen.Fini()
		screen.Clear()
		opts = append(opts, monitor.WithDisplay(screenDisplay{screen}, cfg.Display.Width))
	}

	var wg sync.WaitGroup
	// stop ends every goroutine started below and waits for them.
	stop := func() {
		cancel()
		wg.Wait()
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		opts = append(opts, monitor.WithSink(export.NewPrometheus(reg, cfg.Metrics.Namespace, host)))

		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveMetrics(ctx, srv)
		}()
	}

	if cfg.Kafka.Enabled {
		writer, err := export.NewKafkaWriter(cfg.Kafka, logger.Named("kafka"))
		if err != nil {
			stop()
			return err
		}
		pub := export.NewPublisher(writer, l, cfg.Kafka.PublishInterval, host, logger.Named("publisher"))
		opts = append(opts, monitor.WithSink(pub))

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pub.Run(ctx)
		}()
	}

	// Nothing else touches the loop before Run starts, so setup happens here.
	m := monitor.New(l, opts...)
	defer m.Close()

	w, err := setupBuckets(m, l, cfg)
	if err != nil {
		stop()
		return err
	}
	w.start()

	if screen != nil {
		go pollEvents(screen, l, m, cancel)
	}

	sugar.Infow("Starting monitor",
		"buckets", len(m.Names()),
		"display", cfg.Display.Enabled,
		"metrics", cfg.Metrics.Enabled,
		"kafka", cfg.Kafka.Enabled,
	)
	runErr := l.Run(ctx)

	stop()
	return runErr
}

// setupBuckets registers the configured buckets plus the built-in samplers.
func setupBuckets(m *monitor.Monitor, rt scheduler, cfg *config.Config) (*workload, error) {
	if cfg.Monitor.FPS {
		if err := m.StartFPSMonitor(); err != nil {
			return nil, err
		}
	}
	if cfg.Monitor.Memory {
		if err := m.StartMemoryMonitor(cfg.Monitor.MemoryInterval); err != nil {
			return nil, err
		}
	}

	for _, b := range cfg.Buckets {
		var err error
		switch b.Type {
		case config.BucketProfiler:
			_, err = m.NewProfiler(b.Name)
		case config.BucketCounter:
			_, err = m.NewCounter(b.Name)
		case config.BucketSliding:
			_, err = m.NewSlidingCounter(b.Name, b.Interval)
		case config.BucketEMA:
			_, err = m.NewEMA(b.Name, b.Unit, b.Alpha)
		case config.BucketSeries:
			var flags widget.Flags
			flags, err = widget.ParseFlags(b.Flags)
			if err == nil {
				_, err = m.NewSeries(b.Name, b.Unit, flags)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("bucket %q: %w", b.Name, err)
		}
	}
	return newWorkload(m, rt, cfg.Buckets), nil
}

func pollEvents(screen tcell.Screen, l *loop.Loop, m *monitor.Monitor, cancel context.CancelFunc) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			l.Post(func() {
				screen.Clear()
				m.Resize()
				screen.Sync()
			})
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				cancel()
				return
			}
		}
	}
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

func serveMetrics(ctx context.Context, srv *http.Server) {
	sugar := logger.Named("metrics").Sugar()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	sugar.Infow("Serving metrics", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Metrics server failed", zap.Error(err))
	}
}
