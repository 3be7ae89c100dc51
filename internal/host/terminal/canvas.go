package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dshills/interact/internal/ctxapi"
)

// lineGlyph is drawn along lines.
const lineGlyph = '.'

// Canvas implements ctxapi.RenderAPI on a tcell screen. Drawing is clipped
// to the top height rows.
type Canvas struct {
	screen tcell.Screen
	view   ctxapi.ViewState
	height int
}

// NewCanvas returns a canvas drawing into screen above the given row
// limit.
func NewCanvas(screen tcell.Screen, view ctxapi.ViewState, height int) *Canvas {
	return &Canvas{screen: screen, view: view, height: height}
}

// ViewState implements ctxapi.RenderAPI.
func (c *Canvas) ViewState() ctxapi.ViewState {
	return c.view
}

// DrawPoint implements ctxapi.RenderAPI.
func (c *Canvas) DrawPoint(pos mgl64.Vec2, glyph rune, color ctxapi.Color) {
	c.set(int(math.Round(pos.X())), int(math.Round(pos.Y())), glyph, styleFor(color))
}

// DrawLine implements ctxapi.RenderAPI using Bresenham's algorithm.
func (c *Canvas) DrawLine(from, to mgl64.Vec2, color ctxapi.Color) {
	st := styleFor(color)
	x0, y0 := int(math.Round(from.X())), int(math.Round(from.Y()))
	x1, y1 := int(math.Round(to.X())), int(math.Round(to.Y()))
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, lineGlyph, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawText implements ctxapi.RenderAPI.
func (c *Canvas) DrawText(pos mgl64.Vec2, text string, color ctxapi.Color) {
	st := styleFor(color)
	x, y := int(math.Round(pos.X())), int(math.Round(pos.Y()))
	for _, r := range text {
		c.set(x, y, r, st)
		x++
	}
}

func (c *Canvas) set(x, y int, r rune, st tcell.Style) {
	w, _ := c.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= c.height {
		return
	}
	c.screen.SetContent(x, y, r, nil, st)
}

// styleFor maps a color to a foreground style. A fully transparent color
// keeps the terminal default.
func styleFor(color ctxapi.Color) tcell.Style {
	if color.A == 0 {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(color.R), int32(color.G), int32(color.B)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
