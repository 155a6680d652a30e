package model

import (
	"math"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/ramp"
)

// LitvinParameters configures the piston law, the conjugate synthesis and the planet carrier.
// Angles are in degrees and lengths in mm.
type LitvinParameters struct {
	UpFraction          float64      `json:"up_fraction"`
	DwellTDCDeg         float64      `json:"dwell_tdc_deg"`
	DwellBDCDeg         float64      `json:"dwell_bdc_deg"`
	RampBeforeTDCDeg    float64      `json:"ramp_before_tdc_deg"`
	RampAfterTDCDeg     float64      `json:"ramp_after_tdc_deg"`
	RampBeforeBDCDeg    float64      `json:"ramp_before_bdc_deg"`
	RampAfterBDCDeg     float64      `json:"ramp_after_bdc_deg"`
	RampProfile         ramp.Profile `json:"ramp_profile"`
	RodLength           float64      `json:"rod_length"`
	InterferenceBuffer  float64      `json:"interference_buffer"`
	JournalRadius       float64      `json:"journal_radius"`
	JournalPhaseBetaDeg float64      `json:"journal_phase_beta_deg"`
	SliderAxisDeg       float64      `json:"slider_axis_deg"`
	PlanetCount         int          `json:"planet_count"`
	CarrierOffsetDeg    float64      `json:"carrier_offset_deg"`
	RingThicknessVisual float64      `json:"ring_thickness_visual"`
	SamplingStepDeg     float64      `json:"sampling_step_deg"`
	RPM                 float64      `json:"rpm"`
	CamR0               float64      `json:"cam_r0"`
	CamKPerUnit         float64      `json:"cam_k_per_unit"`
	CenterDistanceBias  float64      `json:"center_distance_bias"`
	CenterDistanceScale float64      `json:"center_distance_scale"`
	ArcResidualTolMM    float64      `json:"arc_residual_tol_mm"`
	MaxIter             int          `json:"max_iter"`
}

// DefaultLitvinParameters returns the reference two-planet configuration.
func DefaultLitvinParameters() LitvinParameters {
	return LitvinParameters{
		UpFraction:          0.5,
		DwellTDCDeg:         20,
		DwellBDCDeg:         20,
		RampBeforeTDCDeg:    10,
		RampAfterTDCDeg:     10,
		RampBeforeBDCDeg:    10,
		RampAfterBDCDeg:     10,
		RampProfile:         ramp.S5,
		RodLength:           100,
		InterferenceBuffer:  0.5,
		JournalRadius:       5,
		JournalPhaseBetaDeg: 0,
		SliderAxisDeg:       0,
		PlanetCount:         2,
		CarrierOffsetDeg:    180,
		RingThicknessVisual: 6,
		SamplingStepDeg:     0.5,
		RPM:                 3000,
		CamR0:               40,
		CamKPerUnit:         1,
		CenterDistanceBias:  50,
		CenterDistanceScale: 1,
		ArcResidualTolMM:    0.01,
		MaxIter:             20,
	}
}

// CenterDistance is the fixed cam-to-ring center distance.
func (p LitvinParameters) CenterDistance() float64 {
	return math.Max(1e-6, p.CenterDistanceBias*p.CenterDistanceScale)
}

// Validate rejects out-of-range or geometrically infeasible parameters.
func (p LitvinParameters) Validate() error {
	const op = "litvin parameters"
	if !(p.UpFraction >= 0 && p.UpFraction <= 1) {
		return kinerr.Validation(op, "up_fraction", "must be within [0, 1] (got %g)", p.UpFraction)
	}
	if !(p.SamplingStepDeg > 0 && p.SamplingStepDeg <= 360) {
		return kinerr.Validation(op, "sampling_step_deg", "must be within (0, 360] (got %g)", p.SamplingStepDeg)
	}
	if p.PlanetCount != 1 && p.PlanetCount != 2 {
		return kinerr.Validation(op, "planet_count", "must be 1 or 2 (got %d)", p.PlanetCount)
	}
	if !p.RampProfile.Valid() {
		return kinerr.Validation(op, "ramp_profile", "is not a known profile (%d)", int(p.RampProfile))
	}
	spans := []struct {
		name  string
		value float64
	}{
		{"dwell_tdc_deg", p.DwellTDCDeg},
		{"dwell_bdc_deg", p.DwellBDCDeg},
		{"ramp_before_tdc_deg", p.RampBeforeTDCDeg},
		{"ramp_after_tdc_deg", p.RampAfterTDCDeg},
		{"ramp_before_bdc_deg", p.RampBeforeBDCDeg},
		{"ramp_after_bdc_deg", p.RampAfterBDCDeg},
	}
	for _, s := range spans {
		if !(s.value >= 0) {
			return kinerr.Validation(op, s.name, "must be >= 0 (got %g)", s.value)
		}
	}
	if up := p.DwellTDCDeg + p.RampAfterTDCDeg + p.RampBeforeBDCDeg + p.DwellBDCDeg/2; up > 180 {
		return kinerr.Validation(op, "up stroke", "dwell and ramp spans total %g deg, exceeding 180", up)
	}
	if down := p.DwellBDCDeg/2 + p.RampAfterBDCDeg + p.RampBeforeTDCDeg; down > 180 {
		return kinerr.Validation(op, "down stroke", "dwell and ramp spans total %g deg, exceeding 180", down)
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"rod_length", p.RodLength},
		{"rpm", p.RPM},
		{"cam_r0", p.CamR0},
		{"center_distance_bias", p.CenterDistanceBias},
		{"center_distance_scale", p.CenterDistanceScale},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return kinerr.Validation(op, f.name, "must be > 0 (got %g)", f.value)
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"interference_buffer", p.InterferenceBuffer},
		{"journal_radius", p.JournalRadius},
		{"cam_k_per_unit", p.CamKPerUnit},
		{"ring_thickness_visual", p.RingThicknessVisual},
		{"arc_residual_tol_mm", p.ArcResidualTolMM},
	}
	for _, f := range nonNegative {
		if !(f.value >= 0) || math.IsInf(f.value, 0) {
			return kinerr.Validation(op, f.name, "must be >= 0 (got %g)", f.value)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"journal_phase_beta_deg", p.JournalPhaseBetaDeg},
		{"slider_axis_deg", p.SliderAxisDeg},
		{"carrier_offset_deg", p.CarrierOffsetDeg},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return kinerr.Validation(op, f.name, "must be finite")
		}
	}
	if p.MaxIter < 1 {
		return kinerr.Validation(op, "max_iter", "must be >= 1 (got %d)", p.MaxIter)
	}
	return nil
}
