// Package diagnostics scores a synthesized gear pair: clearance, manufacturability, motion
// fidelity, sliding, jerk and low-order NVH content.
package diagnostics

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/verte-zerg/camkin/internal/conjugate"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/piston"
)

// Harmonics is the number of engine orders reported in NvhPeaks.
const Harmonics = 5

type calc struct {
	params    model.LitvinParameters
	profile   *piston.Profile
	curves    model.PitchCurves
	planets   []model.PlanetState
	alpha     []float64
	ringAtPhi []float64
	out       model.Diagnostics
}

// Compute evaluates every diagnostic for one build. planets must hold at least one planet
// aligned with the profile grid.
func Compute(params model.LitvinParameters, pr *piston.Profile, res conjugate.Result, planets []model.PlanetState) model.Diagnostics {
	c := &calc{
		params:  params,
		profile: pr,
		curves:  res.Curves,
		planets: planets,
		alpha:   pr.ThetaDeg,
	}
	c.out.ArcLengthResidualMax = res.Convergence.ResidualMax
	c.out.ArcLengthResidualRMS = res.Convergence.ResidualRMS
	c.out.IterCount = res.Convergence.Iterations
	c.out.UsedMaxIter = res.Convergence.UsedMaxIter
	c.out.RegularizationApplied = res.Convergence.Regularized

	c.ringAtPhi = make([]float64, len(c.alpha))
	for i, phi := range res.Curves.PhiOfThetaDeg {
		c.ringAtPhi[i] = conjugate.Sample(res.Curves.RRing, phi, params.SamplingStepDeg)
	}

	c.clearance()
	c.manufacturability()
	c.tracking()
	c.sliding()
	accel := c.dynamics()
	c.out.NvhPeaks = Spectrum(accel, params.RPM)
	c.out.Notes = c.notes()
	return c.out
}

func (c *calc) tracking() {
	var sum float64
	for i, x := range c.profile.X {
		d := x - c.planets[0].PistonS[i]
		sum += d * d
	}
	c.out.TrackingRMS = math.Sqrt(sum / float64(len(c.profile.X)))
}

func (c *calc) sliding() {
	phi := c.curves.PhiOfThetaDeg
	n := len(phi)
	step := c.params.SamplingStepDeg
	omega := c.params.RPM * 2 * math.Pi / 60
	var sum, peak float64
	for i := range phi {
		d := phi[(i+1)%n] - phi[(i-1+n)%n]
		switch {
		case d < -180:
			d += 360
		case d > 180:
			d -= 360
		}
		ratio := d / (2 * step)
		slip := math.Abs(c.curves.RCam[i]*omega - c.ringAtPhi[i]*omega*ratio)
		sum += slip
		peak = math.Max(peak, slip)
	}
	c.out.SlidingVelMean = sum / float64(n)
	c.out.SlidingVelMax = peak
}

// dynamics differentiates the piston path of the first planet in time and evaluates the
// analytic ramp jerk. It returns the numeric acceleration series.
func (c *calc) dynamics() []float64 {
	s := c.planets[0].PistonS
	n := len(s)
	degPerSec := 6 * c.params.RPM
	dt := c.params.SamplingStepDeg / degPerSec
	accel := make([]float64, n)
	for i := range s {
		accel[i] = (s[(i+1)%n] - 2*s[i] + s[(i-1+n)%n]) / (dt * dt)
		c.out.AccelMax = math.Max(c.out.AccelMax, math.Abs(accel[i]))
	}
	for i := range accel {
		j := (accel[(i+1)%n] - accel[(i-1+n)%n]) / (2 * dt)
		c.out.JerkMaxNumeric = math.Max(c.out.JerkMaxNumeric, math.Abs(j))
	}
	omega := degPerSec * math.Pi / 180
	for _, theta := range c.alpha {
		c.out.JerkMax = math.Max(c.out.JerkMax, c.profile.RampJerk(theta, omega))
	}
	return accel
}

// Spectrum evaluates the first Harmonics DFT bins of accel. Bin k is reported at k engine
// orders with single-sided amplitude 2|X_k|/n.
func Spectrum(accel []float64, rpm float64) []model.NvhPeak {
	n := float64(len(accel))
	peaks := make([]model.NvhPeak, 0, Harmonics)
	for k := 1; k <= Harmonics; k++ {
		var x complex128
		for m, a := range accel {
			x += complex(a, 0) * cmplx.Rect(1, -2*math.Pi*float64(k)*float64(m)/n)
		}
		amp := 0.0
		if n > 0 {
			amp = 2 * cmplx.Abs(x) / n
		}
		peaks = append(peaks, model.NvhPeak{FreqHz: float64(k) * rpm / 60, Amp: amp})
	}
	return peaks
}

func (c *calc) notes() []string {
	d := c.out
	status := "converged"
	if d.UsedMaxIter {
		status = "not converged"
	}
	return []string{
		fmt.Sprintf("iterations: %d/%d (%s), arc residual %.6e, tracking rms %.6e",
			d.IterCount, c.params.MaxIter, status, d.ArcLengthResidualMax, d.TrackingRMS),
		fmt.Sprintf("sliding velocity: mean=%.6e max=%.6e", d.SlidingVelMean, d.SlidingVelMax),
		fmt.Sprintf("ramp profile %s: jerk analytic=%.6e numeric=%.6e",
			c.params.RampProfile, d.JerkMax, d.JerkMaxNumeric),
		fmt.Sprintf("clearance violations: %d (envelope %d)",
			len(d.ClearanceViolations), len(d.EnvelopeViolations)),
	}
}
