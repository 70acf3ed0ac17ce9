package waves

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func (f *Field) RowCount() int      { return f.rows }
func (f *Field) ColumnCount() int   { return f.cols }
func (f *Field) VertexCount() int   { return f.rows * f.cols }
func (f *Field) TriangleCount() int { return 2 * (f.rows - 1) * (f.cols - 1) }
func (f *Field) Width() float64     { return float64(f.cols) * f.params.SpatialStep }
func (f *Field) Depth() float64     { return float64(f.rows) * f.params.SpatialStep }

func (f *Field) SpatialStep() float64 { return f.params.SpatialStep }
func (f *Field) TimeStep() float64    { return f.params.TimeStep }
func (f *Field) Params() Params       { return f.params }

// Steps is the number of internal steps applied since Init or Reset.
func (f *Field) Steps() int { return f.steps }

// Coefficients returns k1, k2 and k3.
func (f *Field) Coefficients() (k1, k2, k3 float32) { return f.k1, f.k2, f.k3 }

// Index flattens (i, j) in row-major order. Out-of-range coordinates panic.
func (f *Field) Index(i, j int) int {
	if i < 0 || i >= f.rows || j < 0 || j >= f.cols {
		panic(fmt.Sprintf("waves: index (%d,%d) outside %dx%d grid", i, j, f.rows, f.cols))
	}
	return i*f.cols + j
}

// Position returns the current solution at flattened index k.
func (f *Field) Position(k int) mgl32.Vec3 { return f.buf[f.cur][k] }

// Normal returns the surface normal at flattened index k.
func (f *Field) Normal(k int) mgl32.Vec3 { return f.normals[k] }

// TangentX returns the unit tangent along the local x axis at flattened index k.
func (f *Field) TangentX(k int) mgl32.Vec3 { return f.tangents[k] }

// Height returns the displacement at (i, j).
func (f *Field) Height(i, j int) float32 { return f.buf[f.cur][f.Index(i, j)][1] }

// Heights copies the current displacement grid in row-major order.
func (f *Field) Heights() []float32 {
	curr := f.buf[f.cur]
	out := make([]float32, len(curr))
	for k, p := range curr {
		out[k] = p[1]
	}
	return out
}

// Energy is the sum of squared current heights.
func (f *Field) Energy() float64 {
	sum := 0.0
	for _, p := range f.buf[f.cur] {
		y := float64(p[1])
		sum += y * y
	}
	return sum
}

// MaxAbsHeight returns the largest |y| on the current grid.
func (f *Field) MaxAbsHeight() float64 {
	peak := 0.0
	for _, p := range f.buf[f.cur] {
		peak = math.Max(peak, math.Abs(float64(p[1])))
	}
	return peak
}

// IsValid reports whether every height is finite.
func (f *Field) IsValid() bool {
	for _, p := range f.buf[f.cur] {
		y := float64(p[1])
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return false
		}
	}
	return true
}
