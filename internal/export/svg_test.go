package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/coulombsim/internal/analysis"
	"github.com/san-kum/coulombsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	assert.Empty(t, CanvasToSVG(nil, 4))

	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Put(4, 4, viz.GlyphPositive)

	svg := CanvasToSVG(c, 2)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `width="16" height="16"`)
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, GlyphColors[viz.GlyphPositive])
}

func TestTracesToSVG(t *testing.T) {
	assert.Empty(t, TracesToSVG(nil, 100, 100))

	traces := []*analysis.Trace{
		{Index: 0, Points: []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}},
		{Index: 1, Points: []analysis.Point{{X: 5, Y: 5}}},
		{Index: 2, Points: []analysis.Point{{X: 2, Y: 2}, {X: 3, Y: 3}}},
	}
	svg := TracesToSVG(traces, 200, 100)

	assert.Equal(t, 2, strings.Count(svg, "<path"))
	assert.Contains(t, svg, TracePalette[0])
	assert.Contains(t, svg, TracePalette[2])
	assert.NotContains(t, svg, TracePalette[1])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	require.NoError(t, WriteFile(path, "<svg></svg>"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(data))
}
