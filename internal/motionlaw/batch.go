package motionlaw

import (
	"fmt"

	"github.com/verte-zerg/camkin/internal/parallel"
)

// Quantity selects which kinematic value a batch evaluates.
type Quantity int

const (
	Displacement Quantity = iota
	Velocity
	Acceleration
	Jerk
)

func (q Quantity) String() string {
	switch q {
	case Displacement:
		return "displacement"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	case Jerk:
		return "jerk"
	default:
		return fmt.Sprintf("quantity(%d)", int(q))
	}
}

// ParseQuantity resolves a quantity name.
func ParseQuantity(name string) (Quantity, error) {
	for _, q := range []Quantity{Displacement, Velocity, Acceleration, Jerk} {
		if q.String() == name {
			return q, nil
		}
	}
	return Displacement, fmt.Errorf("unknown quantity %q", name)
}

// Eval evaluates q at one angle.
func (m *MotionLaw) Eval(q Quantity, theta float64) float64 {
	switch q {
	case Velocity:
		return m.Velocity(theta)
	case Acceleration:
		return m.Acceleration(theta)
	case Jerk:
		return m.Jerk(theta)
	default:
		return m.Displacement(theta)
	}
}

// Batch evaluates q for every angle on the calling goroutine.
func (m *MotionLaw) Batch(q Quantity, angles []float64) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		out[i] = m.Eval(q, a)
	}
	return out
}

// ParallelBatch evaluates q for every angle on up to workers goroutines.
// The result is element-wise identical to Batch.
func (m *MotionLaw) ParallelBatch(q Quantity, angles []float64, workers int) []float64 {
	return parallel.Map(angles, workers, func(a float64) float64 {
		return m.Eval(q, a)
	})
}

// DisplacementBatch evaluates displacement for every angle.
func (m *MotionLaw) DisplacementBatch(angles []float64) []float64 {
	return m.Batch(Displacement, angles)
}

// VelocityBatch evaluates velocity for every angle.
func (m *MotionLaw) VelocityBatch(angles []float64) []float64 {
	return m.Batch(Velocity, angles)
}

// AccelerationBatch evaluates acceleration for every angle.
func (m *MotionLaw) AccelerationBatch(angles []float64) []float64 {
	return m.Batch(Acceleration, angles)
}

// JerkBatch evaluates jerk for every angle.
func (m *MotionLaw) JerkBatch(angles []float64) []float64 {
	return m.Batch(Jerk, angles)
}
