// Package ramp provides normalized ramp shapes used to blend between two velocity levels.
//
// Every shape maps t in [0,1] to s in [0,1] with s(0)=0, s(1)=1 and zero slope at both
// ends. Inputs outside [0,1] are clamped.
package ramp

import (
	"fmt"
	"math"
	"strings"
)

// Profile selects a ramp shape.
type Profile int

const (
	// Cycloidal is the half-cosine blend.
	Cycloidal Profile = iota
	// S5 is the quintic blend, continuous in acceleration.
	S5
	// S7 is the septic blend, continuous in jerk.
	S7
)

// Default is the shape used when none is configured.
const Default = S5

// Eval holds a shape sample and its first two derivatives with respect to t.
type Eval struct {
	S   float64
	DS  float64
	D2S float64
}

// All returns every shape in declaration order.
func All() []Profile {
	return []Profile{Cycloidal, S5, S7}
}

func (p Profile) String() string {
	switch p {
	case Cycloidal:
		return "cycloidal"
	case S5:
		return "s5"
	case S7:
		return "s7"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// Valid reports whether p names a known shape.
func (p Profile) Valid() bool {
	return p >= Cycloidal && p <= S7
}

// Parse resolves a shape name, case-insensitively.
func Parse(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cycloidal", "cyc":
		return Cycloidal, nil
	case "s5", "quintic":
		return S5, nil
	case "s7", "septic":
		return S7, nil
	}
	return Default, fmt.Errorf("unknown ramp profile %q (want cycloidal, s5 or s7)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown ramp profile %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Eval evaluates the shape at t.
func (p Profile) Eval(t float64) Eval {
	t = clamp01(t)
	switch p {
	case Cycloidal:
		return Eval{
			S:   0.5 * (1 - math.Cos(math.Pi*t)),
			DS:  0.5 * math.Pi * math.Sin(math.Pi*t),
			D2S: 0.5 * math.Pi * math.Pi * math.Cos(math.Pi*t),
		}
	case S7:
		t2 := t * t
		t3 := t2 * t
		t4 := t3 * t
		t5 := t4 * t
		t6 := t5 * t
		t7 := t6 * t
		return Eval{
			S:   35*t4 - 84*t5 + 70*t6 - 20*t7,
			DS:  140*t3 - 420*t4 + 420*t5 - 140*t6,
			D2S: 420*t2 - 1680*t3 + 2100*t4 - 840*t5,
		}
	default:
		t2 := t * t
		t3 := t2 * t
		t4 := t3 * t
		t5 := t4 * t
		return Eval{
			S:   10*t3 - 15*t4 + 6*t5,
			DS:  30*t2 - 60*t3 + 30*t4,
			D2S: 60*t - 180*t2 + 120*t3,
		}
	}
}

// D3 returns the third derivative d³s/dt³ at t.
func (p Profile) D3(t float64) float64 {
	t = clamp01(t)
	switch p {
	case Cycloidal:
		return -0.5 * math.Pi * math.Pi * math.Pi * math.Sin(math.Pi*t)
	case S7:
		t2 := t * t
		t3 := t2 * t
		t4 := t3 * t
		return 840*t - 5040*t2 + 8400*t3 - 4200*t4
	default:
		return 60 - 360*t + 360*t*t
	}
}

// Integral returns the definite integral of s over [0, t].
func (p Profile) Integral(t float64) float64 {
	t = clamp01(t)
	switch p {
	case Cycloidal:
		return 0.5 * (t - math.Sin(math.Pi*t)/math.Pi)
	case S7:
		t5 := math.Pow(t, 5)
		return 7*t5 - 14*t5*t + 10*t5*t*t - 2.5*t5*t*t*t
	default:
		t4 := t * t * t * t
		return 2.5*t4 - 3*t4*t + t4*t*t
	}
}

// PeakJerk returns max |d³s/dt³| over [0,1], sampled on a fine grid.
func (p Profile) PeakJerk() float64 {
	const samples = 2000
	peak := 0.0
	for i := 0; i <= samples; i++ {
		if v := math.Abs(p.D3(float64(i) / samples)); v > peak {
			peak = v
		}
	}
	return peak
}

func clamp01(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
