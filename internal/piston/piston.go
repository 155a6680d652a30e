// Package piston generates the eight-segment dwell/ramp/constant-velocity piston law.
package piston

import (
	"math"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/ramp"
)

const (
	degToRad = math.Pi / 180
	epsilon  = 1e-12
)

// Profile is a sampled piston law over one revolution.
//
// V and A are per unit crank angle (mm/rad and mm/rad²). X is re-centered so that the
// stroke is symmetric about zero.
type Profile struct {
	ThetaDeg []float64
	X        []float64
	V        []float64
	A        []float64

	VUp     float64
	VDn     float64
	StepDeg float64
	Shape   ramp.Profile

	// Edges[k] and Edges[k+1] bound segment k.
	Edges [segmentCount + 1]float64
}

// Grid returns the uniform crank-angle grid [0, 360) for the given step.
func Grid(stepDeg float64) ([]float64, error) {
	const op = "piston grid"
	if !(stepDeg > 0) {
		return nil, kinerr.Configuration(op, "sampling step must be positive (got %g)", stepDeg)
	}
	n := int(math.Ceil(360/stepDeg - 1e-9))
	if n < 3 {
		return nil, kinerr.Configuration(op, "sampling grid too small (%d points)", n)
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = math.Round(float64(i)*stepDeg*1e12) / 1e12
	}
	return grid, nil
}

// Edges computes the segment boundaries for params, with the BDC dwell centered at 180°.
func Edges(params model.LitvinParameters) [segmentCount + 1]float64 {
	bdcStart := 180 - params.DwellBDCDeg/2
	bdcEnd := 180 + params.DwellBDCDeg/2
	return [segmentCount + 1]float64{
		0,
		params.DwellTDCDeg,
		params.DwellTDCDeg + params.RampAfterTDCDeg,
		bdcStart - params.RampBeforeBDCDeg,
		bdcStart,
		bdcEnd,
		bdcEnd + params.RampAfterBDCDeg,
		360 - params.RampBeforeTDCDeg,
		360,
	}
}

// Generate samples the piston law described by params. Parameter ranges are checked by
// model.LitvinParameters.Validate; Generate itself only rejects a degenerate grid.
func Generate(params model.LitvinParameters) (*Profile, error) {
	grid, err := Grid(params.SamplingStepDeg)
	if err != nil {
		return nil, err
	}
	pr := &Profile{
		ThetaDeg: grid,
		StepDeg:  params.SamplingStepDeg,
		Shape:    params.RampProfile,
		Edges:    Edges(params),
	}
	pr.VUp, pr.VDn = pr.strokeVelocities(params.RodLength)

	n := len(grid)
	pr.X = make([]float64, n)
	pr.V = make([]float64, n)
	pr.A = make([]float64, n)
	stepRad := params.SamplingStepDeg * degToRad
	for k, theta := range grid {
		pr.V[k], pr.A[k] = pr.rates(theta)
		if k > 0 {
			pr.X[k] = pr.X[k-1] + 0.5*(pr.V[k-1]+pr.V[k])*stepRad
		}
	}
	recenter(pr.X)
	return pr, nil
}

// strokeVelocities solves the constant-velocity levels that make each stroke span rod length.
func (pr *Profile) strokeVelocities(stroke float64) (float64, float64) {
	integral := pr.Shape.Integral(1)
	e := pr.Edges
	cvUp := math.Max(0, e[3]-e[2])
	cvDn := math.Max(0, e[7]-e[6])
	denomUp := ((e[2]-e[1])*integral + cvUp + (e[4]-e[3])*(1-integral)) * degToRad
	denomDn := ((e[6]-e[5])*integral + cvDn + (e[8]-e[7])*(1-integral)) * degToRad
	stroke = math.Max(0, stroke)
	var vUp, vDn float64
	if denomUp > epsilon {
		vUp = stroke / denomUp
	}
	if denomDn > epsilon {
		vDn = stroke / denomDn
	}
	return vUp, vDn
}

// SegmentAt returns the segment containing theta degrees (normalized into [0, 360)).
func (pr *Profile) SegmentAt(theta float64) Segment {
	theta = wrapDeg(theta)
	for k := 0; k < segmentCount; k++ {
		if theta < pr.Edges[k+1] {
			return Segment(k)
		}
	}
	return RampBeforeTDC
}

// Bounds returns the start and end angle of s.
func (pr *Profile) Bounds(s Segment) (float64, float64) {
	return pr.Edges[s], pr.Edges[s+1]
}

// progress returns the normalized ramp position and the span in radians.
func (pr *Profile) progress(s Segment, theta float64) (float64, float64) {
	start, end := pr.Bounds(s)
	span := end - start
	if span <= 0 {
		return 0, 0
	}
	return (theta - start) / span, span * degToRad
}

func (pr *Profile) rates(theta float64) (float64, float64) {
	seg := pr.SegmentAt(theta)
	switch seg {
	case ConstVUp:
		return pr.VUp, 0
	case ConstVDown:
		return -pr.VDn, 0
	case TDCDwell, BDCDwell:
		return 0, 0
	}
	t, spanRad := pr.progress(seg, theta)
	if spanRad <= 0 {
		return 0, 0
	}
	ev := pr.Shape.Eval(t)
	switch seg {
	case RampAfterTDC:
		return pr.VUp * ev.S, pr.VUp * ev.DS / spanRad
	case RampBeforeBDC:
		return pr.VUp * (1 - ev.S), -pr.VUp * ev.DS / spanRad
	case RampAfterBDC:
		return -pr.VDn * ev.S, -pr.VDn * ev.DS / spanRad
	default:
		return -pr.VDn * (1 - ev.S), pr.VDn * ev.DS / spanRad
	}
}

// RampJerk returns the analytic jerk magnitude at theta for a crank speed of omega rad/s.
// Dwell and constant-velocity segments have zero jerk.
func (pr *Profile) RampJerk(theta, omega float64) float64 {
	seg := pr.SegmentAt(theta)
	if !seg.IsRamp() {
		return 0
	}
	t, spanRad := pr.progress(seg, wrapDeg(theta))
	if spanRad <= 0 {
		return 0
	}
	level := pr.VUp
	if seg == RampAfterBDC || seg == RampBeforeTDC {
		level = pr.VDn
	}
	return math.Abs(level * pr.Shape.D3(t) * omega * omega * omega / (spanRad * spanRad * spanRad))
}

// Stroke returns max(X) - min(X).
func (pr *Profile) Stroke() float64 {
	lo, hi := minMax(pr.X)
	return hi - lo
}

func recenter(x []float64) {
	lo, hi := minMax(x)
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return
	}
	offset := (lo + hi) / 2
	for i := range x {
		x[i] -= offset
	}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func wrapDeg(theta float64) float64 {
	a := math.Mod(theta, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
