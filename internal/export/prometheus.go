// Package export mirrors monitor readings to Prometheus and Kafka.
package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

var readingLabels = []string{"host", "bucket", "kind"} // Labels: host, bucket name, bucket kind

// Prometheus keeps one gauge per reading field, labelled by bucket.
type Prometheus struct {
	host   string
	min    *prometheus.GaugeVec
	max    *prometheus.GaugeVec
	mean   *prometheus.GaugeVec
	last   *prometheus.GaugeVec
	avg    *prometheus.GaugeVec
	std    *prometheus.GaugeVec
	emaMin *prometheus.GaugeVec
	value  *prometheus.GaugeVec
}

// NewPrometheus registers the gauges on reg. Readings exported through
// Export are labelled with host.
func NewPrometheus(reg prometheus.Registerer, namespace, host string) *Prometheus {
	factory := promauto.With(reg)
	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, readingLabels)
	}

	return &Prometheus{
		host:   host,
		min:    gauge("bucket_window_min", "Minimum of the bucket's sample window."),
		max:    gauge("bucket_window_max", "Maximum of the bucket's sample window."),
		mean:   gauge("bucket_window_mean", "Mean of the bucket's sample window."),
		last:   gauge("bucket_window_last", "Most recent sample of the bucket's window."),
		avg:    gauge("bucket_ema_avg", "Exponential moving average of the bucket."),
		std:    gauge("bucket_ema_stddev", "Exponentially weighted standard deviation of the bucket."),
		emaMin: gauge("bucket_ema_min", "Smallest value ever pushed to the EMA bucket."),
		value:  gauge("bucket_counter_value", "Current value of the counter bucket."),
	}
}

// Export implements monitor.Sink.
func (p *Prometheus) Export(readings []monitor.Reading) {
	p.ExportHost(p.host, readings)
}

// ExportHost records readings taken on host.
func (p *Prometheus) ExportHost(host string, readings []monitor.Reading) {
	for _, r := range readings {
		labels := []string{host, r.Name, string(r.Kind)}
		switch r.Kind {
		case monitor.KindSeries, monitor.KindProfiler:
			p.min.WithLabelValues(labels...).Set(r.Min)
			p.max.WithLabelValues(labels...).Set(r.Max)
			p.mean.WithLabelValues(labels...).Set(r.Mean)
			p.last.WithLabelValues(labels...).Set(r.Last)
		case monitor.KindEMA:
			p.avg.WithLabelValues(labels...).Set(r.Avg)
			p.std.WithLabelValues(labels...).Set(r.Std)
			p.emaMin.WithLabelValues(labels...).Set(r.Min)
		case monitor.KindCounter, monitor.KindSliding:
			p.value.WithLabelValues(labels...).Set(float64(r.Value))
		}
	}
}
