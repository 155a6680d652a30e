package conjugate

import (
	"math"

	"github.com/verte-zerg/camkin/internal/parallel"
)

// derivative returns the periodic central difference dr/dθ with θ in radians.
func derivative(r []float64, stepRad float64, workers int) []float64 {
	n := len(r)
	dr := make([]float64, n)
	parallel.For(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dr[i] = (r[wrapIndex(i+1, n)] - r[wrapIndex(i-1, n)]) / (2 * stepRad)
		}
	})
	return dr
}

// arcLength fills s with the cumulative polar arc length of r; s[i] includes sample i.
func arcLength(s, r, dr []float64, stepRad float64) float64 {
	var acc float64
	for i := range r {
		acc += math.Hypot(r[i], dr[i]) * stepRad
		s[i] = acc
	}
	return acc
}

// Sample interpolates a periodic table on a uniform grid of spacing stepDeg at xDeg.
func Sample(table []float64, xDeg, stepDeg float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	idx := xDeg / stepDeg
	i0 := math.Floor(idx)
	w := idx - i0
	lo := wrapIndex(int(i0), n)
	return table[lo]*(1-w) + table[wrapIndex(lo+1, n)]*w
}

// invert locates target in the ascending table and returns the fractional grid angle.
func invert(table []float64, target, stepDeg float64) float64 {
	lo, hi := 0, len(table)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if table[mid] < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	var w float64
	if d := table[hi] - table[lo]; math.Abs(d) > 1e-12 {
		w = (target - table[lo]) / d
	}
	return (float64(lo) + w) * stepDeg
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
