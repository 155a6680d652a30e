package engine

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
)

func newEngine(t *testing.T, capacity int) (*Engine, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e, err := New(Options{Capacity: capacity, Workers: 2, Logger: logger})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e, hook
}

func TestMotionLawLifecycle(t *testing.T) {
	e, hook := newEngine(t, 0)
	h, err := e.CreateMotionLaw(motionlaw.DefaultParameters())
	if err != nil {
		t.Fatalf("CreateMotionLaw failed: %v", err)
	}
	s, err := e.Evaluate(h, motionlaw.Displacement, 100)
	if err != nil || math.Abs(s-10) > 1e-9 {
		t.Fatalf("Evaluate = %g, %v; want 10", s, err)
	}

	params := motionlaw.DefaultParameters()
	params.MaxLift = 20
	if err := e.UpdateMotionLaw(h, params); err != nil {
		t.Fatalf("UpdateMotionLaw failed: %v", err)
	}
	if s, _ := e.Evaluate(h, motionlaw.Displacement, 100); math.Abs(s-20) > 1e-9 {
		t.Fatalf("updated displacement %g, want 20", s)
	}

	bad := motionlaw.DefaultParameters()
	bad.BaseRadius = -1
	if err := e.UpdateMotionLaw(h, bad); !errors.Is(err, kinerr.ErrParameterValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s, _ := e.Evaluate(h, motionlaw.Displacement, 100); math.Abs(s-20) > 1e-9 {
		t.Fatalf("rejected update replaced the law: %g", s)
	}

	if err := e.DisposeMotionLaw(h); err != nil {
		t.Fatalf("DisposeMotionLaw failed: %v", err)
	}
	if _, err := e.Evaluate(h, motionlaw.Velocity, 0); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle after dispose, got %v", err)
	}
	if err := e.DisposeMotionLaw(h); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle on double dispose, got %v", err)
	}
	if len(hook.AllEntries()) == 0 {
		t.Fatalf("expected lifecycle log entries")
	}
}

func TestUnknownHandles(t *testing.T) {
	e, _ := newEngine(t, 0)
	if _, err := e.AnalyzeKinematics("nope", 10); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("AnalyzeKinematics: %v", err)
	}
	if err := e.UpdateMotionLaw("nope", motionlaw.DefaultParameters()); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("UpdateMotionLaw: %v", err)
	}
	if _, err := e.LitvinTables("nope"); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("LitvinTables: %v", err)
	}
	if err := e.ExportLitvin("nope", filepath.Join(t.TempDir(), "x.json")); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("ExportLitvin: %v", err)
	}
	if err := e.DisposeLitvin("nope"); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("DisposeLitvin: %v", err)
	}
}

func TestEvictionMakesHandleUnknown(t *testing.T) {
	e, _ := newEngine(t, 1)
	first, _ := e.CreateMotionLaw(motionlaw.DefaultParameters())
	if _, err := e.CreateMotionLaw(motionlaw.DefaultParameters()); err != nil {
		t.Fatalf("CreateMotionLaw failed: %v", err)
	}
	if _, err := e.Evaluate(first, motionlaw.Jerk, 0); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected evicted handle to be unknown, got %v", err)
	}
}

func TestExportAnalysisFormats(t *testing.T) {
	e, _ := newEngine(t, 0)
	h, _ := e.CreateMotionLaw(motionlaw.DefaultParameters())
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "analysis.json")
	if err := e.ExportAnalysis(h, 50, jsonPath); err != nil {
		t.Fatalf("ExportAnalysis json failed: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded motionlaw.KinematicAnalysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded.Angles) != 50 || !strings.Contains(string(data), "\"max_velocity\"") {
		t.Fatalf("unexpected analysis export")
	}

	csvPath := filepath.Join(dir, "analysis.CSV")
	if err := e.ExportAnalysis(h, 50, csvPath); err != nil {
		t.Fatalf("ExportAnalysis csv failed: %v", err)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 51 || records[0][0] != "angle" || len(records[0]) != 5 {
		t.Fatalf("unexpected csv shape: %d rows, header %v", len(records), records[0])
	}
}

func TestLitvinLifecycle(t *testing.T) {
	e, _ := newEngine(t, 0)
	params := model.DefaultLitvinParameters()
	params.SamplingStepDeg = 2
	h, err := e.BuildLitvin(params)
	if err != nil {
		t.Fatalf("BuildLitvin failed: %v", err)
	}
	tables, err := e.LitvinTables(h)
	if err != nil || len(tables.AlphaDeg) != 180 {
		t.Fatalf("LitvinTables: %v", err)
	}

	dir := t.TempDir()
	if err := e.ExportLitvin(h, filepath.Join(dir, "tables.json")); err != nil {
		t.Fatalf("ExportLitvin json failed: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "tables.json"))
	var decoded model.LitvinTables
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode tables: %v", err)
	}
	if err := decoded.Check(); err != nil {
		t.Fatalf("round-tripped tables fail Check: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTablesCSV(&buf, tables); err != nil {
		t.Fatalf("WriteTablesCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 181 || !strings.HasPrefix(lines[0], "alpha_deg,r_cam") || !strings.Contains(lines[0], "p1_piston_s") {
		t.Fatalf("unexpected tables csv header %q (%d lines)", lines[0], len(lines))
	}

	if err := e.DisposeLitvin(h); err != nil {
		t.Fatalf("DisposeLitvin failed: %v", err)
	}
	if _, err := e.LitvinTables(h); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestExportLitvinRejectsMisaligned(t *testing.T) {
	e, _ := newEngine(t, 0)
	params := model.DefaultLitvinParameters()
	params.SamplingStepDeg = 4
	h, err := e.BuildLitvin(params)
	if err != nil {
		t.Fatalf("BuildLitvin failed: %v", err)
	}
	tables, _ := e.LitvinTables(h)
	tables.Curves.RCam = tables.Curves.RCam[:3]
	if err := e.ExportLitvin(h, filepath.Join(t.TempDir(), "t.json")); !errors.Is(err, kinerr.ErrCalculation) {
		t.Fatalf("expected calculation error, got %v", err)
	}
}

func TestBuildLitvinValidation(t *testing.T) {
	e, _ := newEngine(t, 0)
	params := model.DefaultLitvinParameters()
	params.RodLength = 0
	if _, err := e.BuildLitvin(params); !errors.Is(err, kinerr.ErrParameterValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
