package main

import (
	"math/rand"
	"time"

	"github.com/sanspareilsmyn/perfmon/internal/config"
	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

const tickInterval = 10 * time.Millisecond

type scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// workload feeds every configured bucket with synthetic activity so the
// display and the sinks have something to show.
type workload struct {
	m       *monitor.Monitor
	rt      scheduler
	rng     *rand.Rand
	buckets []config.BucketConfig
}

func newWorkload(m *monitor.Monitor, rt scheduler, buckets []config.BucketConfig) *workload {
	return &workload{
		m:       m,
		rt:      rt,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		buckets: buckets,
	}
}

func (w *workload) start() {
	w.rt.AfterFunc(tickInterval, w.tick)
}

func (w *workload) tick() {
	for _, b := range w.buckets {
		switch b.Type {
		case config.BucketProfiler:
			w.m.StartProfile(b.Name)
			w.spin(time.Duration(200+w.rng.Intn(800)) * time.Microsecond)
			w.m.EndProfile(b.Name)
		case config.BucketCounter, config.BucketSliding:
			// ~30% of ticks see a burst of events
			if w.rng.Float64() < 0.3 {
				w.m.CountN(b.Name, int64(1+w.rng.Intn(5)))
			}
		case config.BucketEMA:
			// Normal distribution around 10, stddev 2, plus occasional outlier
			v := 10.0 + w.rng.NormFloat64()*2.0
			if w.rng.Float64() < 0.02 {
				v += w.rng.Float64() * 30.0
			}
			w.m.Push(b.Name, v)
		case config.BucketSeries:
			w.m.Sample(b.Name, 50.0+w.rng.Float64()*10.0)
		}
	}
	w.rt.AfterFunc(tickInterval, w.tick)
}

// spin burns CPU for roughly d.
func (w *workload) spin(d time.Duration) {
	deadline := time.Now().Add(d)
	x := 1.0
	for time.Now().Before(deadline) {
		x = x*1.0000001 + 1
	}
	_ = x
}
