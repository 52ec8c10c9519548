package analysis

import (
	"strings"

	"github.com/san-kum/coulombsim/internal/sim"
)

type Point struct{ X, Y float64 }

// Trace is the projected path of one charge.
type Trace struct {
	Index  int
	Points []Point
}

// TraceCharge projects the path of charge idx onto the axes xAxis and yAxis
// (0=x, 1=y, 2=z).
func TraceCharge(result *sim.Result, idx, xAxis, yAxis int) *Trace {
	if xAxis < 0 || xAxis > 2 || yAxis < 0 || yAxis > 2 {
		return nil
	}

	trace := &Trace{
		Index:  idx,
		Points: make([]Point, 0, len(result.Frames)),
	}
	for _, f := range result.Frames {
		if idx >= len(f.Positions) {
			continue
		}
		p := f.Positions[idx]
		trace.Points = append(trace.Points, Point{X: p[xAxis], Y: p[yAxis]})
	}
	return trace
}

// Crossings returns the times at which series passes threshold going
// upward, linearly interpolated between samples.
func Crossings(times, series []float64, threshold float64) []float64 {
	out := make([]float64, 0)
	n := len(series)
	if len(times) < n {
		n = len(times)
	}

	for i := 1; i < n; i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// TraceToASCII draws every traced point, plus the axes where they are in
// view, on a width by height grid.
func TraceToASCII(traces []*Trace, width, height int) string {
	points := make([]Point, 0)
	for _, tr := range traces {
		if tr != nil {
			points = append(points, tr.Points...)
		}
	}
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// pad so the extremes are not drawn on the border
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	toCell := func(x, y float64) (int, int) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col
	}

	for i, tr := range traces {
		if tr == nil {
			continue
		}
		mark := rune('a' + i%26)
		for _, p := range tr.Points {
			row, col := toCell(p.X, p.Y)
			if row >= 0 && row < height && col >= 0 && col < width {
				canvas[row][col] = mark
			}
		}
	}

	if minX <= 0 && maxX >= 0 {
		_, col := toCell(0, 0)
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _ := toCell(0, 0)
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
