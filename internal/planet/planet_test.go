package planet

import (
	"errors"
	"math"
	"testing"

	"github.com/verte-zerg/camkin/internal/conjugate"
	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/piston"
	"github.com/verte-zerg/camkin/internal/ramp"
)

func build(t *testing.T, params model.LitvinParameters) (conjugate.Result, []float64) {
	t.Helper()
	pr, err := piston.Generate(params)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	res, err := conjugate.Synthesizer{}.Synthesize(pr, params)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	return res, pr.ThetaDeg
}

func TestSpinAnglesWrapped(t *testing.T) {
	for _, shape := range ramp.All() {
		params := model.DefaultLitvinParameters()
		params.SamplingStepDeg = 1
		params.RampProfile = shape
		res, grid := build(t, params)
		planets, err := Solve(res.Curves, grid, res.CenterDistance, params)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		if len(planets) != 2 {
			t.Fatalf("expected 2 planets, got %d", len(planets))
		}
		for pi, p := range planets {
			for i, psi := range p.SpinPsiDeg {
				if psi < 0 || psi >= 360 {
					t.Fatalf("%s planet %d: psi[%d] = %g outside [0,360)", shape, pi, i, psi)
				}
			}
		}
	}
}

func TestCarrierGeometry(t *testing.T) {
	params := model.DefaultLitvinParameters()
	params.SamplingStepDeg = 2
	res, grid := build(t, params)
	planets, err := Solve(res.Curves, grid, res.CenterDistance, params)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	c := res.CenterDistance
	for k := range grid {
		r := math.Hypot(planets[0].CenterX[k], planets[0].CenterY[k])
		if math.Abs(r-c) > 1e-9 {
			t.Fatalf("planet 0 center radius %g, want %g", r, c)
		}
		// A 180 degree carrier offset mirrors the second planet through the origin.
		if math.Abs(planets[0].CenterX[k]+planets[1].CenterX[k]) > 1e-9 {
			t.Fatalf("planet centers not opposite at %d", k)
		}
		dj := math.Hypot(planets[0].JournalX[k]-planets[0].CenterX[k], planets[0].JournalY[k]-planets[0].CenterY[k])
		if math.Abs(dj-params.JournalRadius) > 1e-9 {
			t.Fatalf("journal offset %g, want %g", dj, params.JournalRadius)
		}
		// With the slider axis at 0 degrees the piston coordinate is the journal x.
		if planets[0].PistonS[k] != planets[0].JournalX[k] {
			t.Fatalf("piston projection mismatch at %d", k)
		}
	}
}

func TestSolveSinglePlanetAndMismatch(t *testing.T) {
	params := model.DefaultLitvinParameters()
	params.SamplingStepDeg = 2
	params.PlanetCount = 1
	res, grid := build(t, params)
	planets, err := Solve(res.Curves, grid, res.CenterDistance, params)
	if err != nil || len(planets) != 1 {
		t.Fatalf("expected one planet, got %d (%v)", len(planets), err)
	}
	if _, err := Solve(res.Curves, grid[:10], res.CenterDistance, params); !errors.Is(err, kinerr.ErrCalculation) {
		t.Fatalf("expected calculation error for misaligned grid, got %v", err)
	}
}

func TestWrap360(t *testing.T) {
	cases := map[float64]float64{-30: 330, 725: 5, 0: 0, -1e-15: 0}
	for in, want := range cases {
		if got := wrap360(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("wrap360(%g) = %g, want %g", in, got, want)
		}
	}
}
