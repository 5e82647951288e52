package monitor

// Kind identifies the structure behind a registered bucket.
type Kind string

const (
	KindSeries   Kind = "series"
	KindProfiler Kind = "profiler"
	KindCounter  Kind = "counter"
	KindSliding  Kind = "sliding"
	KindEMA      Kind = "ema"
)

// Reading is a point-in-time view of one bucket. Series and profilers fill
// Min/Max/Mean/Last, EMA buckets fill Avg/Std/Min, counters fill Value.
type Reading struct {
	Name  string  `json:"name"`
	Kind  Kind    `json:"kind"`
	Unit  string  `json:"unit,omitempty"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Last  float64 `json:"last"`
	Avg   float64 `json:"avg"`
	Std   float64 `json:"std"`
	Value int64   `json:"value"`
}

// Sink receives the readings of every bucket once per flushed frame.
type Sink interface {
	Export(readings []Reading)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(readings []Reading)

func (f SinkFunc) Export(readings []Reading) { f(readings) }
