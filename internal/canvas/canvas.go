// Package canvas is the terminal framebuffer sketches draw into. Primitives
// rasterize into a cell grid; Render turns the grid into styled terminal
// lines once per frame.
package canvas

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell is one framebuffer cell: a rune plus an ANSI-256 foreground color.
type Cell struct {
	Ch    rune
	Color uint8
}

const blank = ' '

// Canvas is a W×H cell grid with current draw state (color, background).
type Canvas struct {
	w, h  int
	cells []Cell
	color uint8
	bg    uint8
}

// New creates a canvas of the given size, cleared to the default background.
func New(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{w: w, h: h, color: 7}
	c.cells = make([]Cell, w*h)
	c.Clear()
	return c
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

// Resize rebuilds the grid, keeping the overlapping region.
func (c *Canvas) Resize(w, h int) {
	if w < 1 || h < 1 || (w == c.w && h == c.h) {
		return
	}
	next := make([]Cell, w*h)
	for i := range next {
		next[i] = Cell{Ch: blank, Color: c.bg}
	}
	for y := 0; y < min(h, c.h); y++ {
		copy(next[y*w:y*w+min(w, c.w)], c.cells[y*c.w:y*c.w+min(w, c.w)])
	}
	c.w, c.h, c.cells = w, h, next
}

// SetColor sets the current draw color (ANSI-256 index).
func (c *Canvas) SetColor(idx uint8) { c.color = idx }

// Background clears the whole canvas to the given color.
func (c *Canvas) Background(idx uint8) {
	c.bg = idx
	c.Clear()
}

// Clear resets every cell to the background.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Ch: blank, Color: c.bg}
	}
}

// Point plots one cell in the current color. Out-of-bounds is a no-op.
func (c *Canvas) Point(x, y int) { c.set(x, y, '█') }

func (c *Canvas) set(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = Cell{Ch: ch, Color: c.color}
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Point(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect draws an axis-aligned outline.
func (c *Canvas) Rect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.Line(x, y, x+w-1, y)
	c.Line(x, y+h-1, x+w-1, y+h-1)
	c.Line(x, y, x, y+h-1)
	c.Line(x+w-1, y, x+w-1, y+h-1)
}

// Circle draws a midpoint circle. Terminal cells are roughly twice as tall
// as they are wide, so x is stretched to keep circles visually round.
func (c *Canvas) Circle(cx, cy, r int) {
	if r < 0 {
		return
	}
	if r == 0 {
		c.Point(cx, cy)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.plot8(cx, cy, x, y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) plot8(cx, cy, x, y int) {
	// растяжение по горизонтали под пропорции ячейки
	c.Point(cx+2*x, cy+y)
	c.Point(cx-2*x, cy+y)
	c.Point(cx+2*x, cy-y)
	c.Point(cx-2*x, cy-y)
	c.Point(cx+2*y, cy+x)
	c.Point(cx-2*y, cy+x)
	c.Point(cx+2*y, cy-x)
	c.Point(cx-2*y, cy-x)
}

// Text writes a string starting at (x, y) in the current color. Wide runes
// occupy the width runewidth reports for them.
func (c *Canvas) Text(x, y int, s string) {
	col := x
	for _, r := range s {
		c.set(col, y, r)
		col += runewidth.RuneWidth(r)
	}
}

// Render materializes the grid into styled terminal lines. Adjacent cells
// with the same color collapse into one styled run.
func (c *Canvas) Render() string {
	styles := make(map[uint8]lipgloss.Style)
	styleFor := func(idx uint8) lipgloss.Style {
		st, ok := styles[idx]
		if !ok {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(colorName(idx)))
			styles[idx] = st
		}
		return st
	}

	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		start := 0
		for start < len(row) {
			end := start
			for end < len(row) && row[end].Color == row[start].Color {
				end++
			}
			var run strings.Builder
			for _, cell := range row[start:end] {
				run.WriteRune(cell.Ch)
			}
			b.WriteString(styleFor(row[start].Color).Render(run.String()))
			start = end
		}
	}
	return b.String()
}

// Cells returns a copy of the grid (snapshot capture).
func (c *Canvas) Cells() []Cell {
	out := make([]Cell, len(c.cells))
	copy(out, c.cells)
	return out
}

// Restore replaces the grid with previously captured cells, if the size
// still matches.
func (c *Canvas) Restore(cells []Cell) bool {
	if len(cells) != len(c.cells) {
		return false
	}
	copy(c.cells, cells)
	return true
}

func colorName(idx uint8) string {
	return strconv.Itoa(int(idx))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
