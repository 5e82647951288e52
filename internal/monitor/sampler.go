package monitor

import (
	"math"
	"sync"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/perfmon/internal/samples"
	"github.com/sanspareilsmyn/perfmon/internal/widget"
)

const (
	FPSName    = "FPS"
	MemoryName = "Memory"

	// FPSSamples is how many frame rates are averaged into each FPS sample.
	FPSSamples = 64
	// DefaultMemoryInterval is the heap sampling period.
	DefaultMemoryInterval = 30 * time.Millisecond

	bytesPerMB = 1024 * 1024
)

// StartFPSMonitor registers the FPS series and samples it every frame.
func (m *Monitor) StartFPSMonitor() error {
	series, err := m.NewSeries(FPSName, "", widget.HideMin|widget.HideMax|widget.HideMean|widget.RoundValues)
	if err != nil {
		return err
	}

	rates := samples.NewWindow(FPSSamples)
	last := time.Duration(-1)

	var update func(now time.Duration)
	update = func(now time.Duration) {
		if m.closed {
			return
		}
		if last >= 0 && now > last {
			rates.Add(1 / (now - last).Seconds())
			series.Add(rates.Aggregate().Mean)
		}
		last = now
		m.rt.RequestFrame(update)
	}
	m.rt.RequestFrame(update)

	m.logger.Info("FPS monitor started", zap.Int("fps_samples", FPSSamples))
	return nil
}

// StartMemoryMonitor registers the Memory series and samples heap usage in
// megabytes every interval.
func (m *Monitor) StartMemoryMonitor(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultMemoryInterval
	}
	series, err := m.NewSeries(MemoryName, "MB", widget.HideMin|widget.HideMean)
	if err != nil {
		return err
	}

	heapBytes := m.heapBytes
	if heapBytes == nil {
		heapBytes = runtimeHeapReader()
	}

	var update func()
	update = func() {
		if m.closed {
			return
		}
		series.Add(math.Round(float64(heapBytes()) / bytesPerMB))
		m.rt.AfterFunc(interval, update)
	}
	update()

	m.logger.Info("Memory monitor started", zap.Duration("interval", interval))
	return nil
}

// go-metrics keeps its runtime MemStats gauges in package state, so every
// Monitor in the process shares one registry.
var (
	heapOnce     sync.Once
	heapMu       sync.Mutex
	heapRegistry metrics.Registry
	heapGauge    metrics.Gauge
)

// runtimeHeapReader samples the heap through go-metrics' runtime MemStats
// gauges. Readers returned by separate calls stay live together.
func runtimeHeapReader() func() uint64 {
	heapOnce.Do(func() {
		heapRegistry = metrics.NewRegistry()
		metrics.RegisterRuntimeMemStats(heapRegistry)
		heapGauge, _ = heapRegistry.Get("runtime.MemStats.HeapAlloc").(metrics.Gauge)
	})
	return readHeap
}

func readHeap() uint64 {
	heapMu.Lock()
	defer heapMu.Unlock()

	metrics.CaptureRuntimeMemStatsOnce(heapRegistry)
	if heapGauge == nil {
		return 0
	}
	return uint64(heapGauge.Value())
}
