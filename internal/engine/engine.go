// Package engine owns motion laws and synthesized tables behind opaque handles.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/camkin/internal/litvin"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/registry"
)

// ErrUnknownHandle is returned for handles that were never issued, were disposed or were
// evicted.
var ErrUnknownHandle = errors.New("unknown handle")

// Handle identifies a motion law or table set owned by an Engine.
type Handle = registry.Handle

// Options configures New. The zero value is usable.
type Options struct {
	// Capacity bounds each registry. Values <= 0 use registry.DefaultCapacity.
	Capacity int
	// Workers bounds batch and synthesis fan-out. Values <= 0 use GOMAXPROCS.
	Workers int
	Logger  logrus.FieldLogger
}

type Engine struct {
	laws    *registry.Registry[*motionlaw.MotionLaw]
	tables  *registry.Registry[*model.LitvinTables]
	workers int
	log     logrus.FieldLogger
}

func New(opts Options) (*Engine, error) {
	laws, err := registry.New[*motionlaw.MotionLaw](opts.Capacity)
	if err != nil {
		return nil, err
	}
	tables, err := registry.New[*model.LitvinTables](opts.Capacity)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{laws: laws, tables: tables, workers: opts.Workers, log: log}, nil
}

// CreateMotionLaw validates params and registers a new motion law.
func (e *Engine) CreateMotionLaw(params motionlaw.Parameters) (Handle, error) {
	law, err := motionlaw.New(params)
	if err != nil {
		return "", err
	}
	h := e.laws.Put(law)
	e.log.WithFields(logrus.Fields{"handle": h, "total_deg": law.TotalDuration()}).Info("motion law created")
	return h, nil
}

// UpdateMotionLaw replaces the parameters behind h. The old law stays in place when params
// are rejected.
func (e *Engine) UpdateMotionLaw(h Handle, params motionlaw.Parameters) error {
	if _, err := e.law(h); err != nil {
		return err
	}
	law, err := motionlaw.New(params)
	if err != nil {
		return err
	}
	if err := e.laws.Replace(h, law); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	e.log.WithField("handle", h).Info("motion law updated")
	return nil
}

// Evaluate returns one kinematic quantity at theta degrees.
func (e *Engine) Evaluate(h Handle, q motionlaw.Quantity, theta float64) (float64, error) {
	law, err := e.law(h)
	if err != nil {
		return 0, err
	}
	return law.Eval(q, theta), nil
}

// EvaluateBatch evaluates q at every angle on the engine's worker pool.
func (e *Engine) EvaluateBatch(h Handle, q motionlaw.Quantity, angles []float64) ([]float64, error) {
	law, err := e.law(h)
	if err != nil {
		return nil, err
	}
	return law.ParallelBatch(q, angles, e.workers), nil
}

func (e *Engine) AnalyzeKinematics(h Handle, n int) (motionlaw.KinematicAnalysis, error) {
	law, err := e.law(h)
	if err != nil {
		return motionlaw.KinematicAnalysis{}, err
	}
	analysis, err := law.AnalyzeKinematicsParallel(n, e.workers)
	if err != nil {
		return motionlaw.KinematicAnalysis{}, err
	}
	e.log.WithFields(logrus.Fields{
		"handle":       h,
		"points":       n,
		"max_velocity": analysis.MaxVelocity,
		"max_jerk":     analysis.MaxJerk,
	}).Debug("kinematics analyzed")
	return analysis, nil
}

func (e *Engine) BoundaryConditions(h Handle, times []float64) ([]motionlaw.BoundaryCondition, error) {
	law, err := e.law(h)
	if err != nil {
		return nil, err
	}
	return law.BoundaryConditions(times), nil
}

// ExportAnalysis analyzes n points and writes the result to path.
func (e *Engine) ExportAnalysis(h Handle, n int, path string) error {
	analysis, err := e.AnalyzeKinematics(h, n)
	if err != nil {
		return err
	}
	if err := writeFile(path, func(w io.Writer, format Format) error {
		if format == FormatCSV {
			return WriteAnalysisCSV(w, analysis)
		}
		return WriteJSON(w, analysis)
	}); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"handle": h, "path": path}).Info("analysis exported")
	return nil
}

func (e *Engine) DisposeMotionLaw(h Handle) error {
	if !e.laws.Delete(h) {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	e.log.WithField("handle", h).Info("motion law disposed")
	return nil
}

// BuildLitvin synthesizes a table set and registers it.
func (e *Engine) BuildLitvin(params model.LitvinParameters) (Handle, error) {
	tables, err := litvin.BuildTables(params, litvin.WithWorkers(e.workers), litvin.WithLogger(e.log))
	if err != nil {
		return "", err
	}
	h := e.tables.Put(tables)
	e.log.WithFields(logrus.Fields{
		"handle":     h,
		"samples":    len(tables.AlphaDeg),
		"iterations": tables.Diagnostics.IterCount,
		"build_ms":   tables.Diagnostics.BuildMs,
	}).Info("litvin tables built")
	return h, nil
}

// LitvinTables returns the tables behind h. Callers must treat the result as read-only.
func (e *Engine) LitvinTables(h Handle) (*model.LitvinTables, error) {
	tables, ok := e.tables.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return tables, nil
}

// ExportLitvin checks the tables behind h and writes them to path.
func (e *Engine) ExportLitvin(h Handle, path string) error {
	tables, err := e.LitvinTables(h)
	if err != nil {
		return err
	}
	if err := tables.Check(); err != nil {
		return err
	}
	if err := writeFile(path, func(w io.Writer, format Format) error {
		if format == FormatCSV {
			return WriteTablesCSV(w, tables)
		}
		return WriteJSON(w, tables)
	}); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"handle": h, "path": path}).Info("litvin tables exported")
	return nil
}

func (e *Engine) DisposeLitvin(h Handle) error {
	if !e.tables.Delete(h) {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	e.log.WithField("handle", h).Info("litvin tables disposed")
	return nil
}

func (e *Engine) law(h Handle) (*motionlaw.MotionLaw, error) {
	law, ok := e.laws.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return law, nil
}
