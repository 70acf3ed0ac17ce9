package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrShortBuffer = errors.New("mesh: vertex buffer too small")

// Vertex is the position+normal layout uploaded for the water surface.
type Vertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
}

// Source is the read side of a simulated grid.
type Source interface {
	VertexCount() int
	Position(k int) mgl32.Vec3
	Normal(k int) mgl32.Vec3
}

type shape struct{ rows, cols int }

// index buffers are immutable per shape
var indexCache = mustCache(8)

func mustCache(size int) *lru.Cache[shape, []uint32] {
	c, err := lru.New[shape, []uint32](size)
	if err != nil {
		panic(fmt.Sprintf("mesh: index cache: %v", err))
	}
	return c
}

// Indices returns the triangle list for a rows x cols grid, two triangles per
// quad. The returned slice is shared and must not be modified.
func Indices(rows, cols int) []uint32 {
	if rows < 2 || cols < 2 {
		return nil
	}
	key := shape{rows, cols}
	if cached, ok := indexCache.Get(key); ok {
		return cached
	}

	indices := make([]uint32, 0, 6*(rows-1)*(cols-1))
	n := uint32(cols)
	for i := uint32(0); i < uint32(rows-1); i++ {
		for j := uint32(0); j < n-1; j++ {
			indices = append(indices,
				i*n+j, i*n+j+1, (i+1)*n+j,
				(i+1)*n+j, i*n+j+1, (i+1)*n+j+1,
			)
		}
	}

	indexCache.Add(key, indices)
	return indices
}

// Fill copies every grid point's position and normal into dst.
func Fill(dst []Vertex, src Source) error {
	n := src.VertexCount()
	if len(dst) < n {
		return fmt.Errorf("%w: need %d vertices, have %d", ErrShortBuffer, n, len(dst))
	}
	fill(dst[:n], src)
	return nil
}

// NewVertices allocates and fills a vertex slice sized for src.
func NewVertices(src Source) []Vertex {
	v := make([]Vertex, src.VertexCount())
	fill(v, src)
	return v
}

func fill(dst []Vertex, src Source) {
	for k := range dst {
		dst[k].Pos = src.Position(k)
		dst[k].Normal = src.Normal(k)
	}
}
