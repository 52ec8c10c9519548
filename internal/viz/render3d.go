package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/coulombsim/internal/dynamo"
)

// Camera maps world positions onto canvas sub-pixels. Span is the world
// half-extent that fits the shorter canvas side. Perspective is only applied
// when Perspective is set.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Span             float64
	Perspective      bool
}

func NewCamera(span float64) *Camera {
	if span <= 0 {
		span = 5
	}
	return &Camera{Distance: 50, Zoom: 1.0, Span: span}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) Reset() {
	c.RotX, c.RotY, c.RotZ = 0, 0, 0
	c.Zoom = 1
}

// RotatePoint rotates p about x, then y, then z.
func (c *Camera) RotatePoint(p dynamo.Vec3) dynamo.Vec3 {
	rot := mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX))
	return rot.Mul3x1(p)
}

// Project returns the sub-pixel of p on a sw by sh canvas and whether it
// lands inside.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, bool) {
	rot := c.RotatePoint(p).Mul(c.Zoom)
	scale := 1.0
	if c.Perspective {
		if rot.Z() >= c.Distance-0.1 {
			return 0, 0, false
		}
		scale = c.Distance / (c.Distance - rot.Z())
	}
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / (2 * c.Span)
	sx := int(math.Round(rot.X()*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y()*scale*pScale)) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawAxes draws the three world axes out to length l.
func (c *Camera) DrawAxes(cv *Canvas, l float64) {
	sw, sh := cv.Width*2, cv.Height*4
	ox, oy, _ := c.Project(dynamo.Vec3{}, sw, sh)
	for _, axis := range []dynamo.Vec3{{l, 0, 0}, {0, l, 0}, {0, 0, l}} {
		x, y, _ := c.Project(axis, sw, sh)
		cv.DrawLine(ox, oy, x, y)
	}
}
