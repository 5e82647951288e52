// Package message defines the snapshot payload published to Kafka.
package message

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal snapshot JSON")
	ErrJSONMarshalFailed   = errors.New("failed to marshal snapshot JSON")
)

// Snapshot is the readout of one monitor at a point in time.
type Snapshot struct {
	Time     time.Time         `json:"time"`
	Host     string            `json:"host"`
	Readings []monitor.Reading `json:"readings"`
}

// Find returns the reading with the given bucket name.
func (s Snapshot) Find(name string) (monitor.Reading, bool) {
	for _, r := range s.Readings {
		if r.Name == name {
			return r, true
		}
	}
	return monitor.Reading{}, false
}

// Summary renders the snapshot on one line, useful for logging.
func (s Snapshot) Summary() string {
	var b strings.Builder
	for i, r := range s.Readings {
		if i > 0 {
			b.WriteString(" ")
		}
		switch r.Kind {
		case monitor.KindCounter, monitor.KindSliding:
			fmt.Fprintf(&b, "%s=%d", r.Name, r.Value)
		case monitor.KindEMA:
			fmt.Fprintf(&b, "%s=%.2f±%.2f%s", r.Name, r.Avg, r.Std, r.Unit)
		default:
			fmt.Fprintf(&b, "%s=%.2f%s", r.Name, r.Last, r.Unit)
		}
	}
	return b.String()
}
