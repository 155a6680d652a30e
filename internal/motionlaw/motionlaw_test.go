package motionlaw

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/camkin/internal/kinerr"
)

func newDefault(t *testing.T) *MotionLaw {
	t.Helper()
	m, err := New(DefaultParameters())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestDefaultDisplacementProfile(t *testing.T) {
	m := newDefault(t)
	if got := m.Displacement(0); math.Abs(got) > 1e-10 {
		t.Fatalf("displacement(0) = %g, want 0", got)
	}
	if got := m.Displacement(90); got <= 9 || got > 10 {
		t.Fatalf("displacement(90) = %g, want (9, 10]", got)
	}
	if got := m.Displacement(120); math.Abs(got-10) > 1e-10 {
		t.Fatalf("displacement(120) = %g, want 10", got)
	}
	if got := m.Displacement(300); got != 0 {
		t.Fatalf("displacement outside duration = %g, want 0", got)
	}
}

func TestVelocityZeroAtRiseEndsAndDwell(t *testing.T) {
	m := newDefault(t)
	if v := m.Velocity(0); math.Abs(v) > 1e-6 {
		t.Fatalf("velocity(0) = %g", v)
	}
	if v := m.Velocity(90); math.Abs(v) > 1e-6 {
		t.Fatalf("velocity(90) = %g", v)
	}
	for theta := 90.5; theta <= 135; theta += 0.5 {
		if v := m.Velocity(theta); v != 0 {
			t.Fatalf("velocity(%g) in dwell = %g", theta, v)
		}
		if a := m.Acceleration(theta); a != 0 {
			t.Fatalf("acceleration(%g) in dwell = %g", theta, a)
		}
	}
}

func TestFallMirrorsRise(t *testing.T) {
	m := newDefault(t)
	for _, beta := range []float64{0.1, 0.3, 0.5, 0.8} {
		rise := m.Displacement(90 * beta)
		fall := m.Displacement(135 + 90*beta)
		if math.Abs(rise+fall-10) > 1e-9 {
			t.Fatalf("beta=%g: rise %g + fall %g != lift", beta, rise, fall)
		}
		if math.Abs(m.Velocity(90*beta)+m.Velocity(135+90*beta)) > 1e-9 {
			t.Fatalf("beta=%g: fall velocity is not the negated rise velocity", beta)
		}
	}
}

func TestAccelerationMatchesVelocitySlope(t *testing.T) {
	m := newDefault(t)
	scale := m.AngularVelocity() * degToRad
	const h = 1e-4
	for _, theta := range []float64{20, 60, 150, 200} {
		slope := (m.Velocity(theta+h) - m.Velocity(theta-h)) / (2 * h)
		want := slope * scale
		got := m.Acceleration(theta)
		if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
			t.Fatalf("theta=%g: acceleration %g, slope-derived %g", theta, got, want)
		}
	}
}

func TestNegativeAnglesWrap(t *testing.T) {
	m := newDefault(t)
	if got, want := m.Displacement(-300), m.Displacement(60); math.Abs(got-want) > 1e-12 {
		t.Fatalf("displacement(-300) = %g, want displacement(60) = %g", got, want)
	}
	if got := NormalizeAngle(-1e-15); got < 0 || got >= 360 {
		t.Fatalf("NormalizeAngle out of range: %g", got)
	}
	if got := NormalizeAngle(720); got != 0 {
		t.Fatalf("NormalizeAngle(720) = %g", got)
	}
}

func TestParallelBatchMatchesSequential(t *testing.T) {
	m := newDefault(t)
	angles := make([]float64, 1000)
	for i := range angles {
		angles[i] = float64(i) * 0.36
	}
	for _, q := range []Quantity{Displacement, Velocity, Acceleration, Jerk} {
		seq := m.Batch(q, angles)
		par := m.ParallelBatch(q, angles, 8)
		if len(seq) != len(par) {
			t.Fatalf("%s: length mismatch %d vs %d", q, len(seq), len(par))
		}
		for i := range seq {
			if math.Abs(seq[i]-par[i]) > 1e-12 {
				t.Fatalf("%s[%d]: sequential %g, parallel %g", q, i, seq[i], par[i])
			}
		}
	}
}

func TestAnalyzeKinematics(t *testing.T) {
	m := newDefault(t)
	analysis, err := m.AnalyzeKinematics(1000)
	if err != nil {
		t.Fatalf("AnalyzeKinematics failed: %v", err)
	}
	for name, seq := range map[string][]float64{
		"angles":       analysis.Angles,
		"displacement": analysis.Displacement,
		"velocity":     analysis.Velocity,
		"acceleration": analysis.Acceleration,
		"jerk":         analysis.Jerk,
	} {
		if len(seq) != 1000 {
			t.Fatalf("%s has length %d, want 1000", name, len(seq))
		}
	}
	if analysis.MaxVelocity <= 0 {
		t.Fatalf("expected positive max velocity")
	}
	if analysis.RMSAcceleration <= 0 {
		t.Fatalf("expected positive acceleration RMS")
	}
	if analysis.Angles[999] != m.TotalDuration() {
		t.Fatalf("last angle %g, want %g", analysis.Angles[999], m.TotalDuration())
	}
	par, err := m.AnalyzeKinematicsParallel(1000, 4)
	if err != nil {
		t.Fatalf("AnalyzeKinematicsParallel failed: %v", err)
	}
	if par.MaxJerk != analysis.MaxJerk || par.RMSJerk != analysis.RMSJerk {
		t.Fatalf("parallel analysis differs from sequential")
	}
}

func TestAnalyzeKinematicsRejectsTinyGrid(t *testing.T) {
	m := newDefault(t)
	if _, err := m.AnalyzeKinematics(1); !errors.Is(err, kinerr.ErrCalculation) {
		t.Fatalf("expected calculation error, got %v", err)
	}
}

func TestLimitFlags(t *testing.T) {
	params := DefaultParameters()
	params.VelocityLimit = 1e-3
	m, err := New(params)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	analysis, err := m.AnalyzeKinematics(200)
	if err != nil {
		t.Fatalf("AnalyzeKinematics failed: %v", err)
	}
	if !analysis.VelocityLimitExceeded {
		t.Fatalf("expected velocity limit to be exceeded (max %g)", analysis.MaxVelocity)
	}
}

func TestBoundaryConditions(t *testing.T) {
	m := newDefault(t)
	// 3000 rpm covers 18 degrees per millisecond.
	bc := m.BoundaryConditionAtTime(0.005)
	if math.Abs(bc.Angle-90) > 1e-9 {
		t.Fatalf("angle at 5ms = %g, want 90", bc.Angle)
	}
	if math.Abs(bc.Displacement-m.Displacement(90)) > 1e-9 {
		t.Fatalf("displacement mismatch at 5ms")
	}
	all := m.BoundaryConditions([]float64{0, 0.005, 0.1})
	if len(all) != 3 {
		t.Fatalf("expected 3 boundary conditions, got %d", len(all))
	}
	if all[2].Angle < 0 || all[2].Angle >= 360 {
		t.Fatalf("angle not wrapped: %g", all[2].Angle)
	}
}

func TestValidateRejectsBadParameters(t *testing.T) {
	cases := map[string]func(*Parameters){
		"lift":      func(p *Parameters) { p.MaxLift = 0 },
		"radius":    func(p *Parameters) { p.BaseRadius = -1 },
		"rpm":       func(p *Parameters) { p.RPM = 0 },
		"negative":  func(p *Parameters) { p.DwellDuration = -5 },
		"too long":  func(p *Parameters) { p.RiseDuration = 200; p.FallDuration = 200 },
		"zero span": func(p *Parameters) { p.RiseDuration = 0; p.DwellDuration = 0; p.FallDuration = 0 },
		"limit":     func(p *Parameters) { p.JerkLimit = 0 },
		"nan":       func(p *Parameters) { p.MaxLift = math.NaN() },
	}
	for name, mutate := range cases {
		params := DefaultParameters()
		mutate(&params)
		if _, err := New(params); !errors.Is(err, kinerr.ErrParameterValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity("jerk")
	if err != nil || q != Jerk {
		t.Fatalf("expected jerk, got %v %v", q, err)
	}
	if _, err := ParseQuantity("snap"); err == nil {
		t.Fatalf("expected error for unknown quantity")
	}
}
