package motionlaw

import (
	"math"

	"github.com/verte-zerg/camkin/internal/kinerr"
)

// Parameters configures a modified-sine cam motion law. Angles are in degrees, lengths in mm.
type Parameters struct {
	BaseRadius        float64 `json:"base_radius"`
	MaxLift           float64 `json:"max_lift"`
	CamDuration       float64 `json:"cam_duration"`
	RiseDuration      float64 `json:"rise_duration"`
	DwellDuration     float64 `json:"dwell_duration"`
	FallDuration      float64 `json:"fall_duration"`
	JerkLimit         float64 `json:"jerk_limit"`
	AccelerationLimit float64 `json:"acceleration_limit"`
	VelocityLimit     float64 `json:"velocity_limit"`
	RPM               float64 `json:"rpm"`
}

// DefaultParameters returns the reference cam configuration.
func DefaultParameters() Parameters {
	return Parameters{
		BaseRadius:        25,
		MaxLift:           10,
		CamDuration:       180,
		RiseDuration:      90,
		DwellDuration:     45,
		FallDuration:      90,
		JerkLimit:         1000,
		AccelerationLimit: 500,
		VelocityLimit:     100,
		RPM:               3000,
	}
}

// TotalDuration is the angular span covered by rise, dwell and fall.
func (p Parameters) TotalDuration() float64 {
	return p.RiseDuration + p.DwellDuration + p.FallDuration
}

// Validate rejects parameters that cannot describe a physical cam.
func (p Parameters) Validate() error {
	const op = "motion parameters"
	positive := []struct {
		name  string
		value float64
	}{
		{"base_radius", p.BaseRadius},
		{"max_lift", p.MaxLift},
		{"rpm", p.RPM},
		{"jerk_limit", p.JerkLimit},
		{"acceleration_limit", p.AccelerationLimit},
		{"velocity_limit", p.VelocityLimit},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return kinerr.Validation(op, f.name, "must be > 0 (got %g)", f.value)
		}
	}
	durations := []struct {
		name  string
		value float64
	}{
		{"cam_duration", p.CamDuration},
		{"rise_duration", p.RiseDuration},
		{"dwell_duration", p.DwellDuration},
		{"fall_duration", p.FallDuration},
	}
	for _, f := range durations {
		if !(f.value >= 0) || f.value > 360 {
			return kinerr.Validation(op, f.name, "must be within [0, 360] (got %g)", f.value)
		}
	}
	total := p.TotalDuration()
	if !(total > 0) {
		return kinerr.Validation(op, "total_duration", "must be > 0")
	}
	if total > 360 {
		return kinerr.Validation(op, "total_duration", "must be <= 360 (got %g)", total)
	}
	return nil
}
