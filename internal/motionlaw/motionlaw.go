// Package motionlaw evaluates a closed-form modified-sine cam motion law.
//
// A MotionLaw is immutable after New and may be shared by any number of goroutines.
package motionlaw

import (
	"math"
)

const degToRad = math.Pi / 180

// MotionLaw evaluates displacement and its time derivatives for a validated cam.
type MotionLaw struct {
	params Parameters
	omega  float64
	total  float64
	chain  float64
}

// New validates params and precomputes the derived state.
func New(params Parameters) (*MotionLaw, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	omega := 2 * math.Pi * params.RPM / 60
	return &MotionLaw{
		params: params,
		omega:  omega,
		total:  params.TotalDuration(),
		chain:  omega * degToRad,
	}, nil
}

// Parameters returns a copy of the validated parameters.
func (m *MotionLaw) Parameters() Parameters {
	return m.params
}

// AngularVelocity returns ω in rad/s.
func (m *MotionLaw) AngularVelocity() float64 {
	return m.omega
}

// TotalDuration returns rise + dwell + fall in degrees.
func (m *MotionLaw) TotalDuration() float64 {
	return m.total
}

// NormalizeAngle maps any angle into [0, 360).
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(theta, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

type phase int

const (
	phaseOutside phase = iota
	phaseRise
	phaseDwell
	phaseFall
)

// locate returns the phase for theta together with the normalized progress β and span.
func (m *MotionLaw) locate(theta float64) (phase, float64, float64) {
	a := NormalizeAngle(theta)
	p := m.params
	if p.RiseDuration > 0 && a <= p.RiseDuration {
		return phaseRise, a / p.RiseDuration, p.RiseDuration
	}
	if a <= p.RiseDuration+p.DwellDuration {
		return phaseDwell, 0, p.DwellDuration
	}
	if p.FallDuration > 0 && a <= m.total {
		return phaseFall, (a - p.RiseDuration - p.DwellDuration) / p.FallDuration, p.FallDuration
	}
	return phaseOutside, 0, 0
}

// Displacement returns follower lift in mm at theta degrees.
func (m *MotionLaw) Displacement(theta float64) float64 {
	ph, beta, _ := m.locate(theta)
	lift := m.params.MaxLift
	switch ph {
	case phaseRise:
		return lift * (beta - math.Sin(2*math.Pi*beta)/(2*math.Pi))
	case phaseDwell:
		return lift
	case phaseFall:
		return lift * (1 - beta + math.Sin(2*math.Pi*beta)/(2*math.Pi))
	}
	return 0
}

// Velocity returns the follower velocity at theta degrees.
func (m *MotionLaw) Velocity(theta float64) float64 {
	ph, beta, span := m.locate(theta)
	if ph != phaseRise && ph != phaseFall {
		return 0
	}
	v := m.params.MaxLift * (1 / span) * (1 - math.Cos(2*math.Pi*beta)) * m.chain
	if ph == phaseFall {
		return -v
	}
	return v
}

// Acceleration returns the follower acceleration at theta degrees.
func (m *MotionLaw) Acceleration(theta float64) float64 {
	ph, beta, span := m.locate(theta)
	if ph != phaseRise && ph != phaseFall {
		return 0
	}
	a := m.params.MaxLift * (1 / (span * span)) * 2 * math.Pi * math.Sin(2*math.Pi*beta) * m.chain * m.chain
	if ph == phaseFall {
		return -a
	}
	return a
}

// Jerk returns the follower jerk at theta degrees.
func (m *MotionLaw) Jerk(theta float64) float64 {
	ph, beta, span := m.locate(theta)
	if ph != phaseRise && ph != phaseFall {
		return 0
	}
	c3 := m.chain * m.chain * m.chain
	j := m.params.MaxLift * (1 / (span * span * span)) * 4 * math.Pi * math.Pi * math.Cos(2*math.Pi*beta) * c3
	if ph == phaseFall {
		return -j
	}
	return j
}
