// Package widget renders monitor buckets as text blocks with an optional bar
// graph. Widgets never redraw synchronously: a change marks the widget dirty
// and schedules one sync for the next frame.
package widget

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Scheduler defers work to the next animation frame.
type Scheduler interface {
	ScheduleOnce(task func())
}

// Surface is the drawing target; tcell.Screen satisfies it.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Rect is a widget's placement on the surface.
type Rect struct {
	X, Y, W, H int
}

// Widget is implemented by every concrete widget in this package.
type Widget interface {
	Name() string
	Invalidate()
	// Lines returns the text produced by the most recent sync.
	Lines() []string
	base() *Base
}

var (
	textStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(0, 0x22, 0)).Foreground(tcell.NewRGBColor(0, 0xff, 0))
	graphStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0, 0x11, 0)).Foreground(tcell.NewRGBColor(0, 0xff, 0))
)

// view is what a widget shows after a sync.
type view struct {
	lines []string
	graph []float64
	max   float64
}

// Base carries the dirty flag and the drawing shared by all widgets.
type Base struct {
	name      string
	labeled   bool
	textRows  int
	graphRows int
	sched     Scheduler
	content   func() view
	surface   Surface
	rect      Rect
	placed    bool
	dirty     bool
	syncs     uint64
	last      view
}

func newBase(name string, sched Scheduler, labeled bool, textRows, graphRows int, content func() view) Base {
	return Base{
		name:      name,
		labeled:   labeled,
		textRows:  textRows,
		graphRows: graphRows,
		sched:     sched,
		content:   content,
	}
}

func (b *Base) base() *Base { return b }

func (b *Base) Name() string { return b.name }

// Invalidate schedules a sync unless one is already pending.
func (b *Base) Invalidate() {
	if b.dirty {
		return
	}
	b.dirty = true
	b.sched.ScheduleOnce(b.sync)
}

// Dirty reports whether a sync is pending.
func (b *Base) Dirty() bool { return b.dirty }

// Syncs reports how many times the widget was synced.
func (b *Base) Syncs() uint64 { return b.syncs }

func (b *Base) Lines() []string { return b.last.lines }

// Height is the number of rows the widget occupies.
func (b *Base) Height() int {
	h := b.textRows + b.graphRows
	if b.labeled {
		h++
	}
	return h
}

func (b *Base) sync() {
	b.last = b.content()
	b.syncs++
	if b.surface != nil && b.placed {
		b.draw()
	}
	b.dirty = false
}

func (b *Base) draw() {
	r := b.rect
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			b.set(x, y, ' ', textStyle)
		}
	}

	row := r.Y
	if b.labeled {
		pad := (r.W - runewidth.StringWidth(b.name)) / 2
		if pad < 0 {
			pad = 0
		}
		b.text(r.X+pad, row, b.name)
		row++
	}
	for i := 0; i < b.textRows; i++ {
		if i < len(b.last.lines) {
			b.text(r.X, row, b.last.lines[i])
		}
		row++
	}
	if b.graphRows > 0 {
		b.drawGraph(Rect{X: r.X, Y: row, W: r.W, H: b.graphRows})
	}
}

// drawGraph draws one column per sample, newest at the right edge, scaled so
// that max*1.2 fills the graph.
func (b *Base) drawGraph(r Rect) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			b.set(x, y, ' ', graphStyle)
		}
	}

	values := b.last.graph
	if len(values) > r.W {
		values = values[len(values)-r.W:]
	}
	if b.last.max <= 0 {
		return
	}
	scale := float64(r.H*len(eighths)) / (b.last.max * 1.2)

	for i, v := range values {
		x := r.X + i
		level := int(v * scale)
		for y := r.Y + r.H - 1; y >= r.Y && level > 0; y-- {
			cell := level
			if cell > len(eighths) {
				cell = len(eighths)
			}
			b.set(x, y, eighths[cell-1], graphStyle)
			level -= cell
		}
	}
}

var eighths = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func (b *Base) text(x, y int, s string) {
	end := b.rect.X + b.rect.W
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		// A wide rune that would straddle the edge is dropped.
		if x+cw > end {
			return
		}
		b.set(x, y, ch, textStyle)
		x += cw
	}
}

func (b *Base) set(x, y int, ch rune, style tcell.Style) {
	w, h := b.surface.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	b.surface.SetContent(x, y, ch, nil, style)
}
