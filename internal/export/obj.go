package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/wavesim/internal/mesh"
)

// Grid is a mesh source that knows its lattice shape.
type Grid interface {
	mesh.Source
	RowCount() int
	ColumnCount() int
}

// WriteOBJ writes the surface as a Wavefront OBJ with per-vertex normals.
func WriteOBJ(w io.Writer, g Grid) error {
	bw := bufio.NewWriter(w)
	verts := mesh.NewVertices(g)

	fmt.Fprintf(bw, "# %dx%d wave surface\n", g.RowCount(), g.ColumnCount())
	for _, v := range verts {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Pos.X(), v.Pos.Y(), v.Pos.Z())
	}
	for _, v := range verts {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal.X(), v.Normal.Y(), v.Normal.Z())
	}

	idx := mesh.Indices(g.RowCount(), g.ColumnCount())
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, c := idx[t]+1, idx[t+1]+1, idx[t+2]+1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return bw.Flush()
}
