package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates path with the commented template unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	m := motionlaw.DefaultParameters()
	l := model.DefaultLitvinParameters()
	return fmt.Sprintf(`# camkin configuration
# Uncomment a value to enable it. CLI flags and --params files override config values.

[motion]
# base_radius = %.1f         # Cam base circle radius (mm)
# max_lift = %.1f            # Maximum follower lift (mm)
# cam_duration = %.1f        # Cam duration (deg)
# rise_duration = %.1f       # Rise span (deg)
# dwell_duration = %.1f      # Dwell span (deg)
# fall_duration = %.1f       # Fall span (deg)
# jerk_limit = %.1f
# acceleration_limit = %.1f
# velocity_limit = %.1f
# rpm = %.1f

[litvin]
# ramp_profile = %q       # cycloidal, s5 or s7
# sampling_step_deg = %.1f
# rod_length = %.1f          # Piston stroke (mm)
# dwell_tdc_deg = %.1f
# dwell_bdc_deg = %.1f
# planet_count = %d
# carrier_offset_deg = %.1f
# journal_radius = %.1f
# interference_buffer = %.1f
# cam_r0 = %.1f
# cam_k_per_unit = %.1f
# center_distance_bias = %.1f
# center_distance_scale = %.1f
# arc_residual_tol_mm = %g
# max_iter = %d
# rpm = %.1f

[output]
# dir = "$HOME/camkin"       # Relative export paths are placed here
# points = %d                # Motion analysis samples
# workers = 0                # 0 uses every CPU
# plot = false               # Draw terminal charts by default
`,
		m.BaseRadius, m.MaxLift, m.CamDuration, m.RiseDuration, m.DwellDuration, m.FallDuration,
		m.JerkLimit, m.AccelerationLimit, m.VelocityLimit, m.RPM,
		l.RampProfile.String(), l.SamplingStepDeg, l.RodLength, l.DwellTDCDeg, l.DwellBDCDeg,
		l.PlanetCount, l.CarrierOffsetDeg, l.JournalRadius, l.InterferenceBuffer,
		l.CamR0, l.CamKPerUnit, l.CenterDistanceBias, l.CenterDistanceScale,
		l.ArcResidualTolMM, l.MaxIter, l.RPM,
		defaultPoints,
	)
}
