// Package export renders canvases and charge paths as SVG documents.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/coulombsim/internal/analysis"
	"github.com/san-kum/coulombsim/internal/viz"
)

// GlyphColors maps charge glyphs to fill colors.
var GlyphColors = map[rune]string{
	viz.GlyphPositive: "#ff5555",
	viz.GlyphNegative: "#5599ff",
	viz.GlyphNeutral:  "#aaaaaa",
	viz.GlyphFixed:    "#ffcc00",
	viz.GlyphProbe:    "#55ff55",
}

// TracePalette colors successive traces.
var TracePalette = []string{"#ff5555", "#5599ff", "#55ff55", "#ffcc00", "#ff55ff", "#55ffff"}

// CanvasToSVG converts a Braille canvas to SVG format. Glyph cells are drawn
// as larger dots in their GlyphColors color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}
	sb.WriteString("</g>\n")

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			g := canvas.Glyph(col, row)
			if g == 0 {
				continue
			}
			color, ok := GlyphColors[g]
			if !ok {
				color = "#ffffff"
			}
			cx := (float64(col) + 0.5) * scale * 2
			cy := (float64(row) + 0.5) * scale * 4
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, scale*1.5, color)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TracesToSVG draws every trace as a polyline on shared axes, padded by 10%
// of the data range. Traces with fewer than two points are skipped.
func TracesToSVG(traces []*analysis.Trace, width, height int) string {
	first := true
	var minX, maxX, minY, maxY float64
	for _, tr := range traces {
		for _, p := range tr.Points {
			if first {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	if first {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, tr := range traces {
		if len(tr.Points) < 2 {
			continue
		}
		color := TracePalette[i%len(TracePalette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)

		for j, p := range tr.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)

			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteFile writes an SVG document to path.
func WriteFile(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}
