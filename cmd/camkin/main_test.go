package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/camkin/internal/config"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/ramp"
)

func TestMotionFlagsOverrideConfig(t *testing.T) {
	flags := &motionFlags{}
	cmd := &cobra.Command{Use: "motion"}
	flags.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--rise", "80"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	rise := 70.0
	lift := 5.0
	got := flags.resolve(cmd, config.MotionConfig{RiseDuration: &rise, MaxLift: &lift})
	if got.RiseDuration != 80 {
		t.Fatalf("expected flag to win for rise, got %v", got.RiseDuration)
	}
	if got.MaxLift != 5 {
		t.Fatalf("expected config max_lift, got %v", got.MaxLift)
	}
	if got.RPM != motionlaw.DefaultParameters().RPM {
		t.Fatalf("expected default rpm, got %v", got.RPM)
	}
}

func TestLitvinFlagsLayering(t *testing.T) {
	flags := &litvinFlags{}
	cmd := &cobra.Command{Use: "litvin"}
	flags.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--ramp", "s7", "--planets", "1"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	step := 2.0
	profile := "cycloidal"
	got, err := flags.resolve(cmd, config.LitvinConfig{SamplingStepDeg: &step, RampProfile: &profile})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.RampProfile != ramp.S7 {
		t.Fatalf("expected --ramp to win, got %v", got.RampProfile)
	}
	if got.PlanetCount != 1 {
		t.Fatalf("expected 1 planet, got %d", got.PlanetCount)
	}
	if got.SamplingStepDeg != 2 {
		t.Fatalf("expected config step, got %v", got.SamplingStepDeg)
	}
	if got.MaxIter != model.DefaultLitvinParameters().MaxIter {
		t.Fatalf("expected default max_iter, got %d", got.MaxIter)
	}
}

func TestLitvinFlagsRejectUnknownRamp(t *testing.T) {
	flags := &litvinFlags{}
	cmd := &cobra.Command{Use: "litvin"}
	flags.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--ramp", "trapezoid"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := flags.resolve(cmd, config.LitvinConfig{}); err == nil {
		t.Fatalf("expected unknown ramp to fail")
	}
}

var templateKey = regexp.MustCompile(`^# ([a-z_]+ = )`)

func TestDefaultConfigTemplateMatchesDefaults(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		lines = append(lines, templateKey.ReplaceAllString(line, "$1"))
	}
	var cfg config.FileConfig
	if _, err := toml.Decode(strings.Join(lines, "\n"), &cfg); err != nil {
		t.Fatalf("decode uncommented template: %v", err)
	}

	motion := motionlaw.Parameters{}
	cfg.Motion.Apply(&motion)
	if motion != motionlaw.DefaultParameters() {
		t.Fatalf("motion template %+v differs from defaults", motion)
	}
	litvin := model.DefaultLitvinParameters()
	if err := cfg.Litvin.Apply(&litvin); err != nil {
		t.Fatalf("apply litvin template: %v", err)
	}
	if litvin != model.DefaultLitvinParameters() {
		t.Fatalf("litvin template %+v differs from defaults", litvin)
	}
	if cfg.Output.Points == nil || *cfg.Output.Points != defaultPoints {
		t.Fatalf("expected points %d in template", defaultPoints)
	}
}

func TestWriteConfigTemplateKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camkin", "config.toml")
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := os.WriteFile(path, []byte("[motion]\nrpm = 60.0\n"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("second write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "rpm = 60.0") {
		t.Fatalf("expected existing config to survive, got %q", data)
	}
}

func TestRootCommandRunsMotionAndProfiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := "[motion]\nmax_lift = 8.0\n\n[output]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"motion", "--config", cfgPath, "-n", "11", "-o", "analysis.csv"})
	if err := root.Execute(); err != nil {
		t.Fatalf("motion: %v", err)
	}
	if !strings.Contains(out.String(), "Kinematics (11 samples") {
		t.Fatalf("unexpected motion output: %q", out.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "analysis.csv"))
	if err != nil {
		t.Fatalf("expected export under output dir: %v", err)
	}
	if got := strings.Count(strings.TrimSpace(string(data)), "\n"); got != 11 {
		t.Fatalf("expected header plus 11 rows, got %d newlines", got)
	}

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profiles", "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("profiles: %v", err)
	}
	for _, p := range ramp.All() {
		if !strings.Contains(out.String(), p.String()) {
			t.Fatalf("expected profile %s in output", p)
		}
	}
}

func TestDefaultTimesSpanOneSweep(t *testing.T) {
	p := motionlaw.DefaultParameters()
	times := defaultTimes(p)
	last := times[len(times)-1]
	if want := p.TotalDuration() / (p.RPM * 6); last != want {
		t.Fatalf("expected last time %v, got %v", want, last)
	}
	if times[0] != 0 {
		t.Fatalf("expected first time 0, got %v", times[0])
	}
}
