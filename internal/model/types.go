// Package model defines shared data structures for the planetary synthesis pipeline.
package model

import (
	"github.com/verte-zerg/camkin/internal/kinerr"
)

// PitchCurves holds the conjugate pitch curves on a uniform angle grid.
// Every slice has the same length and index i corresponds to ThetaDeg[i].
type PitchCurves struct {
	ThetaDeg      []float64 `json:"theta_deg"`
	RCam          []float64 `json:"r_cam"`
	PhiDeg        []float64 `json:"phi_deg"`
	RRing         []float64 `json:"r_ring"`
	SCam          []float64 `json:"s_cam"`
	SRing         []float64 `json:"s_ring"`
	PhiOfThetaDeg []float64 `json:"phi_of_theta_deg"`
}

// Len returns the grid size.
func (c PitchCurves) Len() int {
	return len(c.ThetaDeg)
}

// PlanetState is the trajectory of one planet over the carrier grid.
type PlanetState struct {
	CenterX    []float64 `json:"center_x"`
	CenterY    []float64 `json:"center_y"`
	SpinPsiDeg []float64 `json:"spin_psi_deg"`
	JournalX   []float64 `json:"journal_x"`
	JournalY   []float64 `json:"journal_y"`
	PistonS    []float64 `json:"piston_s"`
}

// ClearanceViolation is a contiguous run of grid angles with negative clearance.
type ClearanceViolation struct {
	AlphaStartDeg float64 `json:"alpha_start_deg"`
	AlphaEndDeg   float64 `json:"alpha_end_deg"`
	MinClearance  float64 `json:"min_clearance"`
}

// NvhPeak is one harmonic of the piston acceleration spectrum.
type NvhPeak struct {
	FreqHz float64 `json:"freq_hz"`
	Amp    float64 `json:"amp"`
}

// Diagnostics summarizes convergence, clearance, manufacturability and dynamics.
type Diagnostics struct {
	ArcLengthResidualMax  float64 `json:"arc_length_residual_max"`
	ArcLengthResidualRMS  float64 `json:"arc_length_residual_rms"`
	IterCount             int     `json:"iter_count"`
	UsedMaxIter           bool    `json:"used_max_iter"`
	RegularizationApplied bool    `json:"regularization_applied"`

	ClearanceMin         float64              `json:"clearance_min"`
	ClearanceViolations  []ClearanceViolation `json:"clearance_violations"`
	EnvelopeClearanceMin float64              `json:"envelope_clearance_min"`
	EnvelopeViolations   []ClearanceViolation `json:"envelope_violations"`

	ToothThicknessMin  float64 `json:"tooth_thickness_min"`
	UndercutFlag       bool    `json:"undercut_flag"`
	CurvatureRadiusMin float64 `json:"curvature_radius_min"`

	TrackingRMS    float64 `json:"tracking_rms"`
	AccelMax       float64 `json:"accel_max"`
	JerkMax        float64 `json:"jerk_max"`
	JerkMaxNumeric float64 `json:"jerk_max_numeric"`

	SlidingVelMean float64 `json:"sliding_vel_mean"`
	SlidingVelMax  float64 `json:"sliding_vel_max"`

	NvhPeaks []NvhPeak `json:"nvh_peaks"`

	SuggestedCenterDistanceInflation float64 `json:"suggested_center_distance_inflation"`
	BuildMs                          float64 `json:"build_ms"`

	Notes []string `json:"notes"`
}

// LitvinTables is the complete result of one synthesis run.
type LitvinTables struct {
	Params      LitvinParameters `json:"params"`
	Curves      PitchCurves      `json:"curves"`
	AlphaDeg    []float64        `json:"alpha_deg"`
	Planets     []PlanetState    `json:"planets"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

// Check verifies that every sequence is aligned with the angle grid.
func (t *LitvinTables) Check() error {
	const op = "litvin tables"
	n := len(t.AlphaDeg)
	if n == 0 {
		return kinerr.Calculation(op, "empty angle grid")
	}
	curves := map[string][]float64{
		"theta_deg":        t.Curves.ThetaDeg,
		"r_cam":            t.Curves.RCam,
		"phi_deg":          t.Curves.PhiDeg,
		"r_ring":           t.Curves.RRing,
		"s_cam":            t.Curves.SCam,
		"s_ring":           t.Curves.SRing,
		"phi_of_theta_deg": t.Curves.PhiOfThetaDeg,
	}
	for name, seq := range curves {
		if len(seq) != n {
			return kinerr.Calculation(op, "curve %s has %d samples, grid has %d", name, len(seq), n)
		}
	}
	if len(t.Planets) != t.Params.PlanetCount {
		return kinerr.Calculation(op, "have %d planets, expected %d", len(t.Planets), t.Params.PlanetCount)
	}
	for i, p := range t.Planets {
		for name, seq := range map[string][]float64{
			"center_x":     p.CenterX,
			"center_y":     p.CenterY,
			"spin_psi_deg": p.SpinPsiDeg,
			"journal_x":    p.JournalX,
			"journal_y":    p.JournalY,
			"piston_s":     p.PistonS,
		} {
			if len(seq) != n {
				return kinerr.Calculation(op, "planet %d %s has %d samples, grid has %d", i, name, len(seq), n)
			}
		}
	}
	return nil
}
