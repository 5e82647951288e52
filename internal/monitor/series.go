package monitor

import (
	"github.com/sanspareilsmyn/perfmon/internal/samples"
	"github.com/sanspareilsmyn/perfmon/internal/widget"
)

// Series is a host-fed sample window bound to its widget.
type Series struct {
	window *samples.Window
	widget *widget.Monitor
}

// Add records v and schedules a redraw.
func (s *Series) Add(v float64) {
	s.window.Add(v)
	s.widget.Invalidate()
}

func (s *Series) Window() *samples.Window { return s.window }
