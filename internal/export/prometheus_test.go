package export

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

var _ monitor.Sink = (*Prometheus)(nil)

func TestPrometheusExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "perfmon", "box")

	p.Export([]monitor.Reading{
		{Name: "FPS", Kind: monitor.KindSeries, Min: 55, Max: 61, Mean: 59, Last: 60},
		{Name: "hits", Kind: monitor.KindCounter, Value: 12},
		{Name: "lat", Kind: monitor.KindEMA, Avg: 3.5, Std: 0.5, Min: 2},
	})

	checks := []struct {
		vec    *prometheus.GaugeVec
		labels []string
		want   float64
	}{
		{p.last, []string{"box", "FPS", "series"}, 60},
		{p.min, []string{"box", "FPS", "series"}, 55},
		{p.value, []string{"box", "hits", "counter"}, 12},
		{p.avg, []string{"box", "lat", "ema"}, 3.5},
		{p.std, []string{"box", "lat", "ema"}, 0.5},
		{p.emaMin, []string{"box", "lat", "ema"}, 2},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.vec.WithLabelValues(c.labels...)); got != c.want {
			t.Errorf("%v = %v, want %v", c.labels, got, c.want)
		}
	}

	if n := testutil.CollectAndCount(p.value); n != 1 {
		t.Errorf("counter gauge series = %d, want 1", n)
	}
	if n, err := testutil.GatherAndCount(reg, "perfmon_bucket_window_last"); err != nil || n != 1 {
		t.Errorf("gathered window_last series = %d, %v", n, err)
	}
	// EMA readings stay out of the window gauges.
	if n, err := testutil.GatherAndCount(reg, "perfmon_bucket_window_min"); err != nil || n != 1 {
		t.Errorf("gathered window_min series = %d, %v", n, err)
	}
	if n, err := testutil.GatherAndCount(reg, "perfmon_bucket_ema_min"); err != nil || n != 1 {
		t.Errorf("gathered ema_min series = %d, %v", n, err)
	}
}

func TestPrometheusExportHostKeepsHostsApart(t *testing.T) {
	p := NewPrometheus(prometheus.NewRegistry(), "perfmon", "local")
	p.ExportHost("a", []monitor.Reading{{Name: "n", Kind: monitor.KindSliding, Value: 1}})
	p.ExportHost("b", []monitor.Reading{{Name: "n", Kind: monitor.KindSliding, Value: 2}})

	if n := testutil.CollectAndCount(p.value); n != 2 {
		t.Fatalf("series = %d, want 2", n)
	}
	if got := testutil.ToFloat64(p.value.WithLabelValues("b", "n", "sliding")); got != 2 {
		t.Errorf("host b value = %v", got)
	}
}
