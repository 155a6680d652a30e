package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/ramp"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Motion.MaxLift != nil || cfg.Litvin.RampProfile != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigTables(t *testing.T) {
	path := writeFile(t, "config.toml", `
[motion]
max_lift = 12.5
rpm = 1500.0

[litvin]
ramp_profile = "s7"
planet_count = 1
sampling_step_deg = 1.0

[output]
dir = "/tmp/camkin"
points = 500
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Motion.MaxLift == nil || *cfg.Motion.MaxLift != 12.5 {
		t.Fatalf("max_lift not decoded: %+v", cfg.Motion)
	}
	if cfg.Motion.BaseRadius != nil {
		t.Fatalf("unset field should stay nil")
	}
	if cfg.Output.Points == nil || *cfg.Output.Points != 500 {
		t.Fatalf("output points not decoded")
	}

	params := motionlaw.DefaultParameters()
	cfg.Motion.Apply(&params)
	if params.MaxLift != 12.5 || params.RPM != 1500 || params.BaseRadius != 25 {
		t.Fatalf("unexpected motion parameters %+v", params)
	}

	lp := model.DefaultLitvinParameters()
	if err := cfg.Litvin.Apply(&lp); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if lp.RampProfile != ramp.S7 || lp.PlanetCount != 1 || lp.SamplingStepDeg != 1 || lp.RodLength != 100 {
		t.Fatalf("unexpected litvin parameters %+v", lp)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeFile(t, "config.toml", "[motion\nmax_lift = ")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadParameterFileFormats(t *testing.T) {
	tomlPath := writeFile(t, "params.toml", "[motion]\nrise_duration = 60.0\n")
	jsonPath := writeFile(t, "params.json", `{"motion": {"rise_duration": 60}, "litvin": {"ramp_profile": "cycloidal"}}`)
	for _, path := range []string{tomlPath, jsonPath} {
		cfg, err := LoadParameterFile(path)
		if err != nil {
			t.Fatalf("LoadParameterFile(%s) failed: %v", filepath.Base(path), err)
		}
		if cfg.Motion.RiseDuration == nil || *cfg.Motion.RiseDuration != 60 {
			t.Fatalf("%s: rise_duration not decoded", filepath.Base(path))
		}
	}

	yamlPath := writeFile(t, "params.yaml", "motion: {}")
	if _, err := LoadParameterFile(yamlPath); !errors.Is(err, kinerr.ErrConfiguration) {
		t.Fatalf("expected configuration error for .yaml, got %v", err)
	}
	badJSON := writeFile(t, "bad.json", "{")
	if _, err := LoadParameterFile(badJSON); !errors.Is(err, kinerr.ErrConfiguration) {
		t.Fatalf("expected configuration error for bad json, got %v", err)
	}
	if _, err := LoadParameterFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing parameter file")
	}
}

func TestUnknownRampProfile(t *testing.T) {
	name := "trapezoid"
	cfg := LitvinConfig{RampProfile: &name}
	lp := model.DefaultLitvinParameters()
	if err := cfg.Apply(&lp); !errors.Is(err, kinerr.ErrParameterValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/xdg", "camkin", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := ResolveOutputPath("/out", "a.json"); got != filepath.Join("/out", "a.json") {
		t.Fatalf("relative path not joined: %q", got)
	}
	if got := ResolveOutputPath("/out", "/abs/a.json"); got != "/abs/a.json" {
		t.Fatalf("absolute path changed: %q", got)
	}
	if got := ResolveOutputPath("", "a.json"); got != "a.json" {
		t.Fatalf("empty dir changed path: %q", got)
	}
}

func TestDecodeParameterFileLayersOverConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[motion]\nmax_lift = 12.0\nrpm = 900.0\n")
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	for _, body := range []struct{ name, data string }{
		{"params.toml", "[motion]\nrpm = 1800.0\n\n[litvin]\nplanet_count = 1\n"},
		{"params.json", `{"motion": {"rpm": 1800}, "litvin": {"planet_count": 1}}`},
	} {
		layered := cfg
		layered.Motion.MaxLift = cloneFloat(cfg.Motion.MaxLift)
		layered.Motion.RPM = cloneFloat(cfg.Motion.RPM)
		if err := DecodeParameterFile(writeFile(t, body.name, body.data), &layered); err != nil {
			t.Fatalf("%s: decode failed: %v", body.name, err)
		}
		if layered.Motion.MaxLift == nil || *layered.Motion.MaxLift != 12 {
			t.Fatalf("%s: expected max_lift from config to survive, got %v", body.name, layered.Motion.MaxLift)
		}
		if *layered.Motion.RPM != 1800 {
			t.Fatalf("%s: expected rpm override, got %v", body.name, *layered.Motion.RPM)
		}
		if layered.Litvin.PlanetCount == nil || *layered.Litvin.PlanetCount != 1 {
			t.Fatalf("%s: expected planet_count from parameter file", body.name)
		}
	}
}

func TestFlatMotionParameterFiles(t *testing.T) {
	tomlPath := writeFile(t, "motion.toml", "base_circle_radius = 30.0\nmax_lift = 8.0\nrpm = 2500.0\n")
	jsonPath := writeFile(t, "motion.json", `{"base_circle_radius": 30, "max_lift": 8, "rpm": 2500}`)
	for _, path := range []string{tomlPath, jsonPath} {
		cfg, err := LoadParameterFile(path)
		if err != nil {
			t.Fatalf("LoadParameterFile(%s) failed: %v", filepath.Base(path), err)
		}
		p := motionlaw.DefaultParameters()
		cfg.Motion.Apply(&p)
		if p.BaseRadius != 30 || p.MaxLift != 8 || p.RPM != 2500 {
			t.Fatalf("%s: flat keys not applied: %+v", filepath.Base(path), p)
		}
	}

	both := writeFile(t, "both.toml", "base_circle_radius = 30.0\n\n[motion]\nbase_radius = 35.0\n")
	cfg, err := LoadParameterFile(both)
	if err != nil {
		t.Fatalf("LoadParameterFile failed: %v", err)
	}
	p := motionlaw.DefaultParameters()
	cfg.Motion.Apply(&p)
	if p.BaseRadius != 35 {
		t.Fatalf("expected base_radius to win, got %v", p.BaseRadius)
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
