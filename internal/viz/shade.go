package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ramp = " .:-=+*#%@"

// ShadeRows samples a row-major rows x cols height grid onto a w x h
// character map. Characters grow denser with |height|/scale. signs holds
// +1, -1 or 0 per output cell.
func ShadeRows(heights []float32, rows, cols, w, h int, scale float64) (lines []string, signs [][]int8) {
	if rows == 0 || cols == 0 || w <= 0 || h <= 0 || scale <= 0 {
		return nil, nil
	}
	scale = finiteScale(scale)
	lines = make([]string, h)
	signs = make([][]int8, h)
	top := len(ramp) - 1

	for r := 0; r < h; r++ {
		i := r * rows / h
		var b strings.Builder
		signs[r] = make([]int8, w)
		for c := 0; c < w; c++ {
			j := c * cols / w
			v := float64(heights[i*cols+j])
			level := int(math.Min(math.Abs(v)/scale, 1)*float64(top) + 0.5)
			if math.IsNaN(v) {
				level = top
			}
			b.WriteByte(ramp[level])
			switch {
			case level > 0 && v > 0:
				signs[r][c] = 1
			case level > 0 && v < 0:
				signs[r][c] = -1
			}
		}
		lines[r] = b.String()
	}
	return lines, signs
}

// Heightmap renders ShadeRows with crest and trough colours from the theme.
func Heightmap(heights []float32, rows, cols, w, h int, scale float64) string {
	lines, signs := ShadeRows(heights, rows, cols, w, h, scale)
	crest := lipgloss.NewStyle().Foreground(CurrentTheme.Crest)
	trough := lipgloss.NewStyle().Foreground(CurrentTheme.Trough)

	var out strings.Builder
	for r, line := range lines {
		start := 0
		for c := 1; c <= len(line); c++ {
			if c < len(line) && signs[r][c] == signs[r][start] {
				continue
			}
			run := line[start:c]
			switch signs[r][start] {
			case 1:
				out.WriteString(crest.Render(run))
			case -1:
				out.WriteString(trough.Render(run))
			default:
				out.WriteString(run)
			}
			start = c
		}
		out.WriteByte('\n')
	}
	return out.String()
}
