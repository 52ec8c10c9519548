package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille pixel grid with a layer of whole-cell glyphs drawn
// over it. Trails go to the pixel layer, charges to the glyph layer.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	glyphs        [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		glyphs: make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.glyphs[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Put places a glyph on the cell that holds sub-pixel (x, y).
func (c *Canvas) Put(x, y int, g rune) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.glyphs[row][col] = g
}

// Glyph returns the glyph on cell (col, row), or 0.
func (c *Canvas) Glyph(col, row int) rune {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return c.glyphs[row][col]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.glyphs[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Render writes every row, passing glyph cells through style and pixel
// cells through trail.
func (c *Canvas) Render(style func(rune) string, trail func(string) string) string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(trail(run.String()))
				run.Reset()
			}
		}
		for j, r := range row {
			if g := c.glyphs[i][j]; g != 0 {
				flush()
				b.WriteString(style(g))
				continue
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) String() string {
	plain := func(s string) string { return s }
	return c.Render(func(g rune) string { return string(g) }, plain)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
