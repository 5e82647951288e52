package widget

// DefaultColumnWidth is the width of the widget column in cells.
const DefaultColumnWidth = 32

// Column stacks widgets top to bottom along the right edge of a surface.
type Column struct {
	surface Surface
	width   int
	widgets []Widget
}

// NewColumn lays widgets out on surface. A nil surface keeps widgets headless.
func NewColumn(surface Surface, width int) *Column {
	if width <= 0 {
		width = DefaultColumnWidth
	}
	return &Column{surface: surface, width: width}
}

// Add places w below the previously added widgets.
func (c *Column) Add(w Widget) {
	c.widgets = append(c.widgets, w)
	if c.surface == nil {
		return
	}
	b := w.base()
	b.surface = c.surface
	b.rect = c.rectAt(len(c.widgets) - 1)
	b.placed = true
	w.Invalidate()
}

// Relayout recomputes every placement, typically after a resize, and
// invalidates all widgets.
func (c *Column) Relayout() {
	if c.surface == nil {
		return
	}
	for i, w := range c.widgets {
		w.base().rect = c.rectAt(i)
		w.Invalidate()
	}
}

func (c *Column) Widgets() []Widget { return c.widgets }

func (c *Column) rectAt(i int) Rect {
	sw, _ := c.surface.Size()
	x := sw - c.width
	if x < 0 {
		x = 0
	}
	y := 0
	for _, w := range c.widgets[:i] {
		y += w.base().Height()
	}
	return Rect{X: x, Y: y, W: c.width, H: c.widgets[i].base().Height()}
}
