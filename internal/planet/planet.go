// Package planet derives planet carrier, journal and piston trajectories from a conjugate
// curve pair.
package planet

import (
	"math"

	"github.com/verte-zerg/camkin/internal/conjugate"
	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
)

const degToRad = math.Pi / 180

// SpinAngles integrates dψ/dα = r_ring(φ(α))/r_cam(α) - 1 over the grid. Angles are
// wrapped into [0, 360) and ψ(0) = 0.
func SpinAngles(curves model.PitchCurves, stepDeg float64) []float64 {
	n := curves.Len()
	psi := make([]float64, n)
	var total float64
	for i := 1; i < n; i++ {
		rr := conjugate.Sample(curves.RRing, curves.PhiOfThetaDeg[i], stepDeg)
		total += stepDeg * (rr/curves.RCam[i] - 1)
		psi[i] = wrap360(total)
	}
	return psi
}

// Solve returns one PlanetState per configured planet. Planet p sits at a carrier offset of
// p times carrier_offset_deg; all planets share the same spin series.
func Solve(curves model.PitchCurves, alphaDeg []float64, centerDistance float64, params model.LitvinParameters) ([]model.PlanetState, error) {
	const op = "planet kinematics"
	n := len(alphaDeg)
	if curves.Len() != n || len(curves.RCam) != n || len(curves.PhiOfThetaDeg) != n {
		return nil, kinerr.Calculation(op, "curves have %d samples, grid has %d", curves.Len(), n)
	}
	if params.PlanetCount < 1 || params.PlanetCount > 2 {
		return nil, kinerr.Validation(op, "planet_count", "must be 1 or 2 (got %d)", params.PlanetCount)
	}
	psi := SpinAngles(curves, params.SamplingStepDeg)
	beta := params.JournalPhaseBetaDeg * degToRad
	axisX := math.Cos(params.SliderAxisDeg * degToRad)
	axisY := math.Sin(params.SliderAxisDeg * degToRad)

	planets := make([]model.PlanetState, params.PlanetCount)
	for p := range planets {
		offset := float64(p) * params.CarrierOffsetDeg
		st := model.PlanetState{
			CenterX:    make([]float64, n),
			CenterY:    make([]float64, n),
			SpinPsiDeg: append([]float64(nil), psi...),
			JournalX:   make([]float64, n),
			JournalY:   make([]float64, n),
			PistonS:    make([]float64, n),
		}
		for k, alpha := range alphaDeg {
			a := (alpha + offset) * degToRad
			cx := centerDistance * math.Cos(a)
			cy := centerDistance * math.Sin(a)
			ang := psi[k]*degToRad + beta
			jx := cx + params.JournalRadius*math.Cos(ang)
			jy := cy + params.JournalRadius*math.Sin(ang)
			st.CenterX[k] = cx
			st.CenterY[k] = cy
			st.JournalX[k] = jx
			st.JournalY[k] = jy
			st.PistonS[k] = jx*axisX + jy*axisY
		}
		planets[p] = st
	}
	return planets, nil
}

func wrap360(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w = 0
	}
	return w
}
