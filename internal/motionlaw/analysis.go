package motionlaw

import (
	"math"

	"github.com/verte-zerg/camkin/internal/kinerr"
)

// KinematicAnalysis bundles sampled kinematics over the motion duration.
// All sequences share the index of Angles.
type KinematicAnalysis struct {
	Angles                    []float64 `json:"angles"`
	Displacement              []float64 `json:"displacement"`
	Velocity                  []float64 `json:"velocity"`
	Acceleration              []float64 `json:"acceleration"`
	Jerk                      []float64 `json:"jerk"`
	MaxVelocity               float64   `json:"max_velocity"`
	MaxAcceleration           float64   `json:"max_acceleration"`
	MaxJerk                   float64   `json:"max_jerk"`
	RMSAcceleration           float64   `json:"rms_acceleration"`
	RMSJerk                   float64   `json:"rms_jerk"`
	VelocityLimitExceeded     bool      `json:"velocity_limit_exceeded"`
	AccelerationLimitExceeded bool      `json:"acceleration_limit_exceeded"`
	JerkLimitExceeded         bool      `json:"jerk_limit_exceeded"`
}

// BoundaryCondition is the kinematic state at an instant, as consumed by FEA tooling.
type BoundaryCondition struct {
	Time         float64 `json:"time"`
	Angle        float64 `json:"angle"`
	Displacement float64 `json:"displacement"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
}

// SampleAngles returns n evenly spaced angles from 0 to the total duration inclusive.
func (m *MotionLaw) SampleAngles(n int) ([]float64, error) {
	if n < 2 {
		return nil, kinerr.Calculation("analyze kinematics", "need at least 2 points, got %d", n)
	}
	angles := make([]float64, n)
	step := m.total / float64(n-1)
	for i := range angles {
		angles[i] = float64(i) * step
	}
	return angles, nil
}

// AnalyzeKinematics samples n angles and summarizes the four quantities.
func (m *MotionLaw) AnalyzeKinematics(n int) (KinematicAnalysis, error) {
	angles, err := m.SampleAngles(n)
	if err != nil {
		return KinematicAnalysis{}, err
	}
	return m.summarize(angles,
		m.Batch(Displacement, angles),
		m.Batch(Velocity, angles),
		m.Batch(Acceleration, angles),
		m.Batch(Jerk, angles),
	), nil
}

// AnalyzeKinematicsParallel is AnalyzeKinematics with batch evaluation on a worker pool.
func (m *MotionLaw) AnalyzeKinematicsParallel(n, workers int) (KinematicAnalysis, error) {
	angles, err := m.SampleAngles(n)
	if err != nil {
		return KinematicAnalysis{}, err
	}
	return m.summarize(angles,
		m.ParallelBatch(Displacement, angles, workers),
		m.ParallelBatch(Velocity, angles, workers),
		m.ParallelBatch(Acceleration, angles, workers),
		m.ParallelBatch(Jerk, angles, workers),
	), nil
}

func (m *MotionLaw) summarize(angles, disp, vel, acc, jerk []float64) KinematicAnalysis {
	out := KinematicAnalysis{
		Angles:          angles,
		Displacement:    disp,
		Velocity:        vel,
		Acceleration:    acc,
		Jerk:            jerk,
		MaxVelocity:     maxAbs(vel),
		MaxAcceleration: maxAbs(acc),
		MaxJerk:         maxAbs(jerk),
		RMSAcceleration: rms(acc),
		RMSJerk:         rms(jerk),
	}
	out.VelocityLimitExceeded = out.MaxVelocity > m.params.VelocityLimit
	out.AccelerationLimitExceeded = out.MaxAcceleration > m.params.AccelerationLimit
	out.JerkLimitExceeded = out.MaxJerk > m.params.JerkLimit
	return out
}

// BoundaryConditionAtTime maps t seconds to a cam angle and evaluates the motion there.
func (m *MotionLaw) BoundaryConditionAtTime(t float64) BoundaryCondition {
	angle := NormalizeAngle(t * m.omega * 180 / math.Pi)
	return BoundaryCondition{
		Time:         t,
		Angle:        angle,
		Displacement: m.Displacement(angle),
		Velocity:     m.Velocity(angle),
		Acceleration: m.Acceleration(angle),
	}
}

// BoundaryConditions evaluates BoundaryConditionAtTime for every time value.
func (m *MotionLaw) BoundaryConditions(times []float64) []BoundaryCondition {
	out := make([]BoundaryCondition, len(times))
	for i, t := range times {
		out[i] = m.BoundaryConditionAtTime(t)
	}
	return out
}

func maxAbs(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

func rms(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}
