// Package conjugate synthesizes a ring pitch curve conjugate to a cam pitch curve by
// matching cumulative arc length.
package conjugate

import (
	"math"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/parallel"
	"github.com/verte-zerg/camkin/internal/piston"
)

const (
	radiusFloor   = 1e-6
	velocityFloor = 1e-12
	monotonicEps  = 1e-9
	smoothing     = 0.25
)

// Convergence reports how the arc-length iteration ended.
type Convergence struct {
	ResidualMax float64
	ResidualRMS float64
	Iterations  int
	UsedMaxIter bool
	Regularized bool
}

// Result is the synthesized curve pair with its convergence record.
type Result struct {
	Curves         model.PitchCurves
	CenterDistance float64
	Convergence    Convergence
}

// Synthesizer runs the arc-length iteration. The zero value runs single-threaded.
type Synthesizer struct {
	// Workers bounds per-grid fan-out inside each iteration. Values <= 0 use GOMAXPROCS.
	Workers int
}

type iterate struct {
	residualMax float64
	residualRMS float64
	sRing       []float64
	rRing       []float64
	phi         []float64
}

// Synthesize derives the cam radius from the piston velocity and iterates the ring radius
// until the arc-length residual drops to the configured tolerance or max_iter is reached.
// Reaching max_iter is not an error; the lowest-residual iterate is returned.
func (s Synthesizer) Synthesize(pr *piston.Profile, params model.LitvinParameters) (Result, error) {
	const op = "conjugate synthesis"
	n := len(pr.ThetaDeg)
	if n < 3 {
		return Result{}, kinerr.Configuration(op, "sampling grid too small (%d points)", n)
	}
	if len(pr.V) != n {
		return Result{}, kinerr.Calculation(op, "velocity has %d samples, grid has %d", len(pr.V), n)
	}
	stepDeg := pr.StepDeg
	stepRad := stepDeg * math.Pi / 180

	vMax := velocityFloor
	for _, v := range pr.V {
		vMax = math.Max(vMax, math.Abs(v))
	}
	rCam := make([]float64, n)
	parallel.For(n, s.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rCam[i] = math.Max(radiusFloor, params.CamR0+params.CamKPerUnit*pr.V[i]/vMax)
		}
	})
	sCam := make([]float64, n)
	totalCam := arcLength(sCam, rCam, derivative(rCam, stepRad, s.Workers), stepRad)

	center := params.CenterDistance()
	rRing := make([]float64, n)
	for i, rc := range rCam {
		rRing[i] = math.Max(radiusFloor, center-rc)
	}

	tol := params.ArcResidualTolMM
	maxIter := max(1, params.MaxIter)
	maxPhi := 360 - stepDeg

	var conv Convergence
	var best *iterate
	residual := make([]float64, n)
	for it := 0; it < maxIter; it++ {
		sRing := make([]float64, n)
		totalRing := arcLength(sRing, rRing, derivative(rRing, stepRad, s.Workers), stepRad)
		scale := 1.0
		if totalRing > 0 {
			scale = totalCam / totalRing
		}

		phi := make([]float64, n)
		parallel.For(n, s.Workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				phi[i] = invert(sRing, sCam[i]/scale, stepDeg)
			}
		})
		phi[0] = 0
		for i := 1; i < n; i++ {
			v := phi[i]
			if v < phi[i-1] {
				v = phi[i-1] + monotonicEps
			}
			phi[i] = math.Max(0, math.Min(v, maxPhi))
		}

		parallel.For(n, s.Workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				residual[i] = math.Abs(sCam[i] - Sample(sRing, phi[i], stepDeg)*scale)
			}
		})
		var resMax, sumSq float64
		for _, r := range residual {
			resMax = math.Max(resMax, r)
			sumSq += r * r
		}
		conv.Iterations = it + 1
		if best == nil || resMax < best.residualMax {
			best = &iterate{
				residualMax: resMax,
				residualRMS: math.Sqrt(sumSq / float64(n)),
				sRing:       sRing,
				rRing:       rRing,
				phi:         phi,
			}
		}
		if resMax <= tol {
			break
		}

		rRing = relax(rRing, scale, s.Workers)
		conv.Regularized = true
		if it == maxIter-1 {
			conv.UsedMaxIter = true
		}
	}

	conv.ResidualMax = best.residualMax
	conv.ResidualRMS = best.residualRMS
	return Result{
		Curves: model.PitchCurves{
			ThetaDeg:      append([]float64(nil), pr.ThetaDeg...),
			RCam:          rCam,
			PhiDeg:        append([]float64(nil), pr.ThetaDeg...),
			RRing:         best.rRing,
			SCam:          sCam,
			SRing:         best.sRing,
			PhiOfThetaDeg: best.phi,
		},
		CenterDistance: center,
		Convergence:    conv,
	}, nil
}

// relax rescales the ring radius and applies one damped three-point periodic smoothing pass.
func relax(r []float64, scale float64, workers int) []float64 {
	n := len(r)
	scaled := make([]float64, n)
	for i, v := range r {
		scaled[i] = math.Max(radiusFloor, v*scale)
	}
	out := make([]float64, n)
	parallel.For(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			avg := (scaled[wrapIndex(i-1, n)] + scaled[i] + scaled[wrapIndex(i+1, n)]) / 3
			out[i] = scaled[i]*(1-smoothing) + avg*smoothing
		}
	})
	return out
}
