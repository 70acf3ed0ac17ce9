package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/wavesim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#001a33"/>
`

// CanvasToSVG draws every set braille dot as a circle, scale pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.PixelWidth(), canvas.PixelHeight()
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, int(float64(w)*scale), int(float64(h)*scale), int(float64(w)*scale), int(float64(h)*scale))
	sb.WriteString(`<g fill="#e0f0ff">` + "\n")

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HeightmapToSVG renders a row-major height grid as cells coloured from
// deep blue (trough) through the background to white (crest).
func HeightmapToSVG(heights []float32, rows, cols int, cell float64) string {
	if rows*cols != len(heights) || rows == 0 {
		return ""
	}

	scale := 0.0
	for _, v := range heights {
		scale = math.Max(scale, math.Abs(float64(v)))
	}
	if scale == 0 {
		scale = 1
	}

	w, h := int(float64(cols)*cell), int(float64(rows)*cell)
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := float64(heights[i*cols+j]) / scale
			if v == 0 || math.IsNaN(v) {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(j)*cell, float64(i)*cell, cell, cell, heightColor(v))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// heightColor blends #001a33 towards #ffffff for v>0 and towards #0077be for v<0.
func heightColor(v float64) string {
	base := [3]float64{0x00, 0x1a, 0x33}
	target := [3]float64{0xff, 0xff, 0xff}
	if v < 0 {
		target = [3]float64{0x00, 0x77, 0xbe}
		v = -v
	}
	v = math.Min(v, 1)
	var c [3]int
	for k := range c {
		c[k] = int(base[k] + v*(target[k]-base[k]))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// SeriesToSVG plots ys against xs as a single polyline.
func SeriesToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
