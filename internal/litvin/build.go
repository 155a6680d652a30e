// Package litvin runs the full synthesis pipeline: piston law, conjugate curves, planet
// kinematics and diagnostics.
package litvin

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/camkin/internal/conjugate"
	"github.com/verte-zerg/camkin/internal/diagnostics"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/piston"
	"github.com/verte-zerg/camkin/internal/planet"
)

type options struct {
	workers int
	log     logrus.FieldLogger
}

// Option configures BuildTables.
type Option func(*options)

// WithWorkers bounds the per-grid fan-out of the synthesizer. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger receives a debug entry per pipeline stage.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// BuildTables validates params and synthesizes a complete table set. The returned tables
// share no memory with params or any other build.
func BuildTables(params model.LitvinParameters, opts ...Option) (*model.LitvinTables, error) {
	o := options{workers: 1, log: discard()}
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	pr, err := piston.Generate(params)
	if err != nil {
		return nil, fmt.Errorf("generate piston law: %w", err)
	}
	o.log.WithFields(logrus.Fields{
		"samples": len(pr.ThetaDeg),
		"v_up":    pr.VUp,
		"v_dn":    pr.VDn,
		"profile": params.RampProfile.String(),
	}).Debug("piston law generated")

	res, err := conjugate.Synthesizer{Workers: o.workers}.Synthesize(pr, params)
	if err != nil {
		return nil, fmt.Errorf("synthesize curves: %w", err)
	}
	o.log.WithFields(logrus.Fields{
		"iterations":   res.Convergence.Iterations,
		"residual_max": res.Convergence.ResidualMax,
		"converged":    !res.Convergence.UsedMaxIter,
	}).Debug("conjugate curves synthesized")

	planets, err := planet.Solve(res.Curves, pr.ThetaDeg, res.CenterDistance, params)
	if err != nil {
		return nil, fmt.Errorf("solve planets: %w", err)
	}

	diag := diagnostics.Compute(params, pr, res, planets)
	diag.BuildMs = float64(time.Since(start).Microseconds()) / 1000

	tables := &model.LitvinTables{
		Params:      params,
		Curves:      res.Curves,
		AlphaDeg:    append([]float64(nil), pr.ThetaDeg...),
		Planets:     planets,
		Diagnostics: diag,
	}
	if err := tables.Check(); err != nil {
		return nil, err
	}
	o.log.WithField("build_ms", diag.BuildMs).Debug("litvin tables built")
	return tables, nil
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
