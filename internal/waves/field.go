package waves

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Params are the physical and grid parameters fixed at Init time.
type Params struct {
	Rows        int     `yaml:"rows" json:"rows"`
	Cols        int     `yaml:"cols" json:"cols"`
	SpatialStep float64 `yaml:"spatial_step" json:"spatial_step"`
	TimeStep    float64 `yaml:"time_step" json:"time_step"`
	Speed       float64 `yaml:"speed" json:"speed"`
	Damping     float64 `yaml:"damping" json:"damping"`
}

// DefaultParams matches the lighting demo's pond.
func DefaultParams() Params {
	return Params{Rows: 160, Cols: 160, SpatialStep: 1.0, TimeStep: 0.03, Speed: 3.25, Damping: 0.4}
}

func (p Params) Validate() error {
	if p.Rows < 3 || p.Cols < 3 {
		return fmt.Errorf("%w: grid must be at least 3x3, got %dx%d", ErrInvalidParams, p.Rows, p.Cols)
	}
	if !(p.SpatialStep > 0) {
		return fmt.Errorf("%w: spatial step must be positive, got %g", ErrInvalidParams, p.SpatialStep)
	}
	if !(p.TimeStep > 0) {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidParams, p.TimeStep)
	}
	if p.Speed < 0 || math.IsNaN(p.Speed) {
		return fmt.Errorf("%w: wave speed must be non-negative, got %g", ErrInvalidParams, p.Speed)
	}
	if p.Damping < 0 || math.IsNaN(p.Damping) {
		return fmt.Errorf("%w: damping must be non-negative, got %g", ErrInvalidParams, p.Damping)
	}
	return nil
}

// Courant is speed*dt/dx.
func (p Params) Courant() float64 {
	return p.Speed * p.TimeStep / p.SpatialStep
}

// Stable reports whether the undamped explicit 2D bound c*dt/dx <= 1/sqrt(2) holds.
// The field never enforces it.
func (p Params) Stable() bool {
	return p.Courant() <= 1/math.Sqrt2
}

// Field is a damped 2D wave equation solved on a fixed grid. Heights live in
// the Y component of each position; X and Z are fixed lattice coordinates
// centered on the origin. A Field is not safe for concurrent use.
type Field struct {
	params Params
	rows   int
	cols   int

	k1, k2, k3 float32
	dx         float32

	// buf[cur] is the solution at t, buf[1-cur] the solution at t-dt.
	buf      [2][]mgl32.Vec3
	cur      int
	normals  []mgl32.Vec3
	tangents []mgl32.Vec3

	timeSinceLastStep float64
	steps             int
}

// New allocates a field and calls Init.
func New(p Params) (*Field, error) {
	f := &Field{}
	if err := f.Init(p); err != nil {
		return nil, err
	}
	return f, nil
}

// Init (re)allocates every buffer and derives the scheme coefficients.
func (f *Field) Init(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	n := p.Rows * p.Cols
	f.params = p
	f.rows, f.cols = p.Rows, p.Cols
	f.dx = float32(p.SpatialStep)
	f.buf[0] = make([]mgl32.Vec3, n)
	f.buf[1] = make([]mgl32.Vec3, n)
	f.normals = make([]mgl32.Vec3, n)
	f.tangents = make([]mgl32.Vec3, n)
	f.cur = 0

	dt := float32(p.TimeStep)
	damping := float32(p.Damping)
	ct := float32(p.Speed) * dt / f.dx
	e := ct * ct
	d := damping*dt + 2
	f.k1 = (damping*dt - 2) / d
	f.k2 = (4 - 8*e) / d
	f.k3 = (2 * e) / d

	f.Reset()
	return nil
}

// Reset zeroes every height and restores the default normal frame without
// reallocating.
func (f *Field) Reset() {
	halfWidth := float32(f.cols-1) * f.dx * 0.5
	halfDepth := float32(f.rows-1) * f.dx * 0.5
	for i := 0; i < f.rows; i++ {
		z := halfDepth - float32(i)*f.dx
		for j := 0; j < f.cols; j++ {
			x := -halfWidth + float32(j)*f.dx
			k := i*f.cols + j
			f.buf[0][k] = mgl32.Vec3{x, 0, z}
			f.buf[1][k] = mgl32.Vec3{x, 0, z}
			f.normals[k] = mgl32.Vec3{0, 1, 0}
			f.tangents[k] = mgl32.Vec3{1, 0, 0}
		}
	}
	f.timeSinceLastStep = 0
	f.steps = 0
}

// Update accumulates frame time and applies one Step once at least one
// internal time step has elapsed. The accumulator restarts from zero after a
// step, so at most one step runs per call.
func (f *Field) Update(frameDt float64) bool {
	f.timeSinceLastStep += frameDt
	if f.timeSinceLastStep < f.params.TimeStep {
		return false
	}
	f.Step()
	f.timeSinceLastStep = 0
	return true
}

// Step advances the solution by exactly one internal time step.
func (f *Field) Step() {
	m, n := f.rows, f.cols
	curr := f.buf[f.cur]
	next := f.buf[1-f.cur] // holds t-dt until overwritten

	for i := 1; i < m-1; i++ {
		row := i * n
		for j := 1; j < n-1; j++ {
			k := row + j
			next[k][1] = f.k1*next[k][1] +
				f.k2*curr[k][1] +
				f.k3*(curr[k+n][1]+curr[k-n][1]+curr[k+1][1]+curr[k-1][1])
		}
	}

	// boundaries keep their last value
	last := (m - 1) * n
	for j := 0; j < n; j++ {
		next[j][1] = curr[j][1]
		next[last+j][1] = curr[last+j][1]
	}
	for i := 1; i < m-1; i++ {
		row := i * n
		next[row][1] = curr[row][1]
		next[row+n-1][1] = curr[row+n-1][1]
	}

	f.cur = 1 - f.cur
	f.steps++
	f.computeNormals()
}

func (f *Field) computeNormals() {
	m, n := f.rows, f.cols
	curr := f.buf[f.cur]
	twoDx := 2 * f.dx
	for i := 1; i < m-1; i++ {
		for j := 1; j < n-1; j++ {
			k := i*n + j
			l := curr[k-1][1]
			r := curr[k+1][1]
			t := curr[k-n][1]
			b := curr[k+n][1]
			f.normals[k] = mgl32.Vec3{l - r, twoDx, b - t}.Normalize()
			f.tangents[k] = mgl32.Vec3{twoDx, r - l, 0}.Normalize()
		}
	}
}

// Disturb adds magnitude/2 to the current height at (i, j) and at its four
// axis neighbours. (i, j) must not lie on the outer ring.
func (f *Field) Disturb(i, j int, magnitude float32) {
	if i < 1 || i > f.rows-2 || j < 1 || j > f.cols-2 {
		panic(fmt.Sprintf("waves: disturb (%d,%d) outside interior of %dx%d grid", i, j, f.rows, f.cols))
	}
	half := 0.5 * magnitude
	curr := f.buf[f.cur]
	k := i*f.cols + j
	curr[k][1] += half
	curr[k+1][1] += half
	curr[k-1][1] += half
	curr[k+f.cols][1] += half
	curr[k-f.cols][1] += half
}
