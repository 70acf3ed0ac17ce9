// Package viz renders a running wave field in the terminal with Bubble Tea.
//
//   - [Model]: live view of one field with rain, tuning and three renderings
//   - [Canvas]: braille sub-pixel canvas for profiles and wireframes
//   - [Heightmap]: shaded character map of the height grid
//   - [RenderSurface]: perspective wireframe of the surface
//
// # Key Bindings
//
//	Space - Pause/Resume
//	D     - Splash the centre
//	R     - Flatten the surface
//	Tab   - Select speed or damping
//	Up/Dn - Tune selected parameter (re-initializes the field)
//	V     - Cycle heightmap, profile and surface views
//	T     - Cycle color themes
package viz
