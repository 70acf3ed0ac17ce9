package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/wavesim/internal/waves"
)

// Camera orbits the origin. Distance is in multiples of the surface extent.
type Camera struct {
	Yaw, Pitch  float32
	Distance    float32
	HeightScale float32
}

func NewCamera() *Camera {
	return &Camera{Yaw: mgl32.DegToRad(30), Pitch: mgl32.DegToRad(35), Distance: 1.2, HeightScale: 8}
}

func (c *Camera) Orbit(dYaw float32) { c.Yaw += dYaw }

func (c *Camera) Tilt(dPitch float32) {
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, mgl32.DegToRad(5), mgl32.DegToRad(85))
}

func (c *Camera) ZoomIn()  { c.Distance = float32(math.Max(0.3, float64(c.Distance)/1.2)) }
func (c *Camera) ZoomOut() { c.Distance = float32(math.Min(5, float64(c.Distance)*1.2)) }

// Matrix is projection*view for a surface of the given extent.
func (c *Camera) Matrix(aspect, extent float32) mgl32.Mat4 {
	yaw, pitch := float64(c.Yaw), float64(c.Pitch)
	r := c.Distance * extent
	eye := mgl32.Vec3{
		r * float32(math.Cos(pitch)*math.Sin(yaw)),
		r * float32(math.Sin(pitch)),
		r * float32(math.Cos(pitch)*math.Cos(yaw)),
	}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.01*extent, 10*extent)
	return proj.Mul4(view)
}

// project maps a world point to canvas sub-pixels. ok is false behind the
// eye, for non-finite points, and for points far enough off screen that a
// line to them would walk billions of pixels.
func project(mvp mgl32.Mat4, p mgl32.Vec3, w, h int) (int, int, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if !(clip.W() > 0) {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if !(math.Abs(float64(ndc.X())) <= maxNDC && math.Abs(float64(ndc.Y())) <= maxNDC) {
		return 0, 0, false
	}
	x := int((ndc.X() + 1) / 2 * float32(w-1))
	y := int((1 - ndc.Y()) / 2 * float32(h-1))
	return x, y, true
}

const maxNDC = 4

// RenderSurface draws a wireframe of every stride-th row and column.
func RenderSurface(c *Canvas, f *waves.Field, cam *Camera) {
	rows, cols := f.RowCount(), f.ColumnCount()
	w, h := c.PixelWidth(), c.PixelHeight()
	extent := float32(math.Max(f.Width(), f.Depth()))
	mvp := cam.Matrix(float32(w)/float32(h)*0.5, extent)
	stride := max(1, max(rows, cols)/24)

	at := func(i, j int) (int, int, bool) {
		p := f.Position(f.Index(i, j))
		p[1] *= cam.HeightScale
		return project(mvp, p, w, h)
	}
	segment := func(i0, j0, i1, j1 int) {
		x0, y0, ok0 := at(i0, j0)
		x1, y1, ok1 := at(i1, j1)
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	for i := 0; i < rows; i += stride {
		for j := 0; j+stride < cols; j += stride {
			segment(i, j, i, j+stride)
		}
	}
	for j := 0; j < cols; j += stride {
		for i := 0; i+stride < rows; i += stride {
			segment(i, j, i+stride, j)
		}
	}
}
