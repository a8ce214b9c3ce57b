package viz

import (
	"math"

	"github.com/san-kum/lumitree/internal/topology"
)

// cellAspect compensates for terminal cells being about twice as tall as
// they are wide.
const cellAspect = 2.0

// Camera orbits the sculpture. Sculpture z is up; the camera looks along
// the horizontal plane by default.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	Distance   float64
	Center     topology.Vec3
}

func NewCamera(center topology.Vec3) *Camera {
	return &Camera{Zoom: 1, Distance: 3, Center: center}
}

func (c *Camera) Rotate(d float64) { c.Yaw += d }

func (c *Camera) Tilt(d float64) {
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+d))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// view maps a sculpture point to camera space: x right, y up, z toward the
// viewer.
func (c *Camera) view(p topology.Vec3) (x, y, z float64) {
	d := p.Sub(c.Center)
	// Sculpture axes to camera axes: x stays, z becomes up, y depth.
	x, y, z = d[0], d[2], d[1]

	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x, z = x*cy+z*sy, -x*sy+z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	y, z = y*cp-z*sp, y*sp+z*cp
	return x * c.Zoom, y * c.Zoom, z * c.Zoom
}

// Plane applies perspective and returns the point on the image plane in
// sculpture units, with y up, plus its distance from the camera. ok is false
// for points behind the camera.
func (c *Camera) Plane(p topology.Vec3) (x, y, dist float64, ok bool) {
	x, y, z := c.view(p)
	dist = c.Distance - z
	if dist <= 0.05 {
		return 0, 0, 0, false
	}
	scale := c.Distance / dist
	return x * scale, y * scale, dist, true
}

// Project converts a sculpture point to cell coordinates on a w by h
// canvas. It returns the depth (larger is farther) and whether the point is
// on screen.
func (c *Camera) Project(p topology.Vec3, w, h int) (int, int, float64, bool) {
	x, y, dist, ok := c.Plane(p)
	if !ok {
		return 0, 0, 0, false
	}
	unit := math.Min(float64(h), float64(w)/cellAspect) * 0.8
	sx := int(math.Round(x*unit*cellAspect)) + w/2
	sy := int(math.Round(-y*unit)) + h/2
	return sx, sy, dist, sx >= 0 && sx < w && sy >= 0 && sy < h
}

// Centroid is the mean of all LED centers.
func Centroid(m *topology.Model) topology.Vec3 {
	var sum topology.Vec3
	n := m.NumLEDs()
	if n == 0 {
		return sum
	}
	for i := 0; i < n; i++ {
		c := m.Center(i)
		sum[0] += c[0]
		sum[1] += c[1]
		sum[2] += c[2]
	}
	return topology.Vec3{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}
}
