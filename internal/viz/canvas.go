package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/lumitree/internal/lumen"
)

const (
	emptyGlyph = ' '
	dimGlyph   = '·'
	litGlyph   = '●'
	// darkLevel is the brightness below which an LED is drawn as off.
	darkLevel = 0.04
)

type cell struct {
	glyph rune
	color lumen.Color
	depth float64
}

// Canvas is a grid of character cells with a depth buffer so nearer LEDs
// cover farther ones.
type Canvas struct {
	Width, Height int
	cells         []cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.cells = make([]cell, c.Width*c.Height)
	c.Clear()
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{glyph: emptyGlyph, depth: math.Inf(1)}
	}
}

// Set plots an LED color at (x, y). Colors are in [0,1]. Smaller depth is
// nearer the viewer.
func (c *Canvas) Set(x, y int, col lumen.Color, depth float64) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	cl := &c.cells[y*c.Width+x]
	if depth > cl.depth {
		return
	}
	glyph := litGlyph
	if math.Max(col.R, math.Max(col.G, col.B)) < darkLevel {
		glyph = dimGlyph
	}
	*cl = cell{glyph: glyph, color: col, depth: depth}
}

// At returns the glyph and color drawn at (x, y).
func (c *Canvas) At(x, y int) (rune, lumen.Color) {
	cl := c.cells[y*c.Width+x]
	return cl.glyph, cl.color
}

func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cl := c.cells[y*c.Width+x]
			switch cl.glyph {
			case emptyGlyph:
				b.WriteRune(emptyGlyph)
			case dimGlyph:
				b.WriteString(Subtle.Render(string(dimGlyph)))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex(cl.color))).Render(string(cl.glyph)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hex(c lumen.Color) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
