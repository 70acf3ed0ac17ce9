package export

import (
	"strings"
	"testing"

	"github.com/san-kum/wavesim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected closed svg")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestHeightmapToSVG(t *testing.T) {
	h := []float32{0, 1, -1, 0}
	svg := HeightmapToSVG(h, 2, 2, 4)
	if got := strings.Count(svg, "<rect x="); got != 2 {
		t.Errorf("expected 2 cells, got %d", got)
	}
	if !strings.Contains(svg, "#ffffff") || !strings.Contains(svg, "#0077be") {
		t.Error("expected crest and trough colours")
	}
	if HeightmapToSVG(h, 3, 3, 1) != "" {
		t.Error("expected empty output for mismatched shape")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{0, 1, 0}, 100, 50, "#00ff88")
	if !strings.Contains(svg, `d="M0.0,`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path: %s", svg)
	}
	if SeriesToSVG([]float64{0}, []float64{0}, 10, 10, "red") != "" {
		t.Error("expected empty output for a single point")
	}
}
