// Package waves simulates a height field with the damped 2D wave equation.
//
// The solver is an explicit finite-difference scheme with a five-point
// Laplacian and a three-level time stencil:
//
//	next = k1*prev + k2*curr + k3*(up + down + left + right)
//
// where k1, k2 and k3 are derived once from the spatial step, time step,
// wave speed and damping passed to [Field.Init]. Only interior points are
// updated; the outer ring keeps its last value.
//
// # Frame Loop
//
// A caller disturbs the field zero or more times, updates it once, then
// copies positions and normals out for rendering:
//
//	f, _ := waves.New(waves.DefaultParams())
//	f.Disturb(80, 80, 0.5)
//	f.Update(frameDt)
//	for k := 0; k < f.VertexCount(); k++ {
//	    pos, n := f.Position(k), f.Normal(k)
//	}
//
// # Stability
//
// The scheme diverges when speed*dt/dx is too large. [Params.Stable] reports
// the undamped bound, but the field never checks it.
package waves
