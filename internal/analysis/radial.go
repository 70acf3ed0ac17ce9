package analysis

import "math"

// RadialProfile averages |height| over rings of integer distance from
// (ci, cj) on a row-major rows x cols grid. Entry r covers distances in
// [r, r+1).
func RadialProfile(heights []float32, rows, cols, ci, cj int) []float64 {
	if rows*cols != len(heights) || rows == 0 {
		return nil
	}

	maxR := int(math.Ceil(math.Hypot(float64(max(ci, rows-1-ci)), float64(max(cj, cols-1-cj))))) + 1
	sums := make([]float64, maxR)
	counts := make([]int, maxR)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r := int(math.Hypot(float64(i-ci), float64(j-cj)))
			sums[r] += math.Abs(float64(heights[i*cols+j]))
			counts[r]++
		}
	}

	for r := range sums {
		if counts[r] > 0 {
			sums[r] /= float64(counts[r])
		}
	}
	return sums
}

// FrontRadius is the outermost ring whose mean |height| reaches threshold,
// or -1 when none does.
func FrontRadius(profile []float64, threshold float64) int {
	for r := len(profile) - 1; r >= 0; r-- {
		if profile[r] >= threshold {
			return r
		}
	}
	return -1
}
