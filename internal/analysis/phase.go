package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs a probe height with its finite-difference velocity.
type PhasePortrait2D struct {
	Points []Point
}

// GeneratePhasePortrait builds (h, dh/dt) pairs using central differences.
func GeneratePhasePortrait(series []float64, sampleDt float64) *PhasePortrait2D {
	if len(series) < 3 || sampleDt <= 0 {
		return nil
	}

	portrait := &PhasePortrait2D{Points: make([]Point, 0, len(series)-2)}
	for i := 1; i < len(series)-1; i++ {
		v := (series[i+1] - series[i-1]) / (2 * sampleDt)
		portrait.Points = append(portrait.Points, Point{X: series[i], Y: v})
	}
	return portrait
}

// ZeroCrossings returns the interpolated times of upward crossings of level.
func ZeroCrossings(series []float64, sampleDt, level float64) []float64 {
	crossings := make([]float64, 0)
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, (float64(i-1)+frac)*sampleDt)
		}
	}
	return crossings
}

// MeanPeriod averages the gaps between consecutive crossings.
func MeanPeriod(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

// PhasePortraitToASCII plots the portrait on a width x height character grid
// with axes drawn where they cross the view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	toCol := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	if minX <= 0 && maxX >= 0 {
		col := toCol(0)
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := toRow(0)
		for col := range canvas[row] {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		col, row := toCol(p.X), toRow(p.Y)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side and never returns an empty range.
func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - r*0.1, hi + r*0.1
}
