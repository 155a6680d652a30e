package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verte-zerg/camkin/internal/config"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/ramp"
)

// loadFileConfig reads the config file and, when --params is set, decodes the parameter file
// over it.
func loadFileConfig() (config.FileConfig, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if paramsPath == "" {
		return cfg, nil
	}
	if err := config.DecodeParameterFile(paramsPath, &cfg); err != nil {
		return config.FileConfig{}, err
	}
	return cfg, nil
}

// motionFlags binds one flag per motion law parameter.
type motionFlags struct {
	params motionlaw.Parameters
}

func (f *motionFlags) register(fs *pflag.FlagSet) {
	d := motionlaw.DefaultParameters()
	fs.Float64Var(&f.params.BaseRadius, "base-radius", d.BaseRadius, "cam base circle radius (mm)")
	fs.Float64Var(&f.params.MaxLift, "max-lift", d.MaxLift, "maximum follower lift (mm)")
	fs.Float64Var(&f.params.CamDuration, "cam-duration", d.CamDuration, "cam duration (deg)")
	fs.Float64Var(&f.params.RiseDuration, "rise", d.RiseDuration, "rise span (deg)")
	fs.Float64Var(&f.params.DwellDuration, "dwell", d.DwellDuration, "dwell span (deg)")
	fs.Float64Var(&f.params.FallDuration, "fall", d.FallDuration, "fall span (deg)")
	fs.Float64Var(&f.params.JerkLimit, "jerk-limit", d.JerkLimit, "jerk limit")
	fs.Float64Var(&f.params.AccelerationLimit, "accel-limit", d.AccelerationLimit, "acceleration limit")
	fs.Float64Var(&f.params.VelocityLimit, "velocity-limit", d.VelocityLimit, "velocity limit")
	fs.Float64Var(&f.params.RPM, "rpm", d.RPM, "cam speed (rev/min)")
}

// resolve applies config values for every flag the user did not set.
func (f *motionFlags) resolve(cmd *cobra.Command, cfg config.MotionConfig) motionlaw.Parameters {
	p := f.params
	applyFloatConfig(cmd, "base-radius", &p.BaseRadius, cfg.BaseRadius)
	applyFloatConfig(cmd, "max-lift", &p.MaxLift, cfg.MaxLift)
	applyFloatConfig(cmd, "cam-duration", &p.CamDuration, cfg.CamDuration)
	applyFloatConfig(cmd, "rise", &p.RiseDuration, cfg.RiseDuration)
	applyFloatConfig(cmd, "dwell", &p.DwellDuration, cfg.DwellDuration)
	applyFloatConfig(cmd, "fall", &p.FallDuration, cfg.FallDuration)
	applyFloatConfig(cmd, "jerk-limit", &p.JerkLimit, cfg.JerkLimit)
	applyFloatConfig(cmd, "accel-limit", &p.AccelerationLimit, cfg.AccelerationLimit)
	applyFloatConfig(cmd, "velocity-limit", &p.VelocityLimit, cfg.VelocityLimit)
	applyFloatConfig(cmd, "rpm", &p.RPM, cfg.RPM)
	return p
}

// litvinFlags binds the commonly tuned synthesis parameters. The rest come from the config
// or parameter file.
type litvinFlags struct {
	params  model.LitvinParameters
	profile string
}

func (f *litvinFlags) register(fs *pflag.FlagSet) {
	d := model.DefaultLitvinParameters()
	fs.StringVar(&f.profile, "ramp", d.RampProfile.String(), "ramp profile (cycloidal, s5, s7)")
	fs.Float64Var(&f.params.SamplingStepDeg, "step", d.SamplingStepDeg, "sampling step (deg)")
	fs.Float64Var(&f.params.RodLength, "stroke", d.RodLength, "piston stroke (mm)")
	fs.Float64Var(&f.params.RPM, "rpm", d.RPM, "carrier speed (rev/min)")
	fs.Float64Var(&f.params.DwellTDCDeg, "dwell-tdc", d.DwellTDCDeg, "TDC dwell (deg)")
	fs.Float64Var(&f.params.DwellBDCDeg, "dwell-bdc", d.DwellBDCDeg, "BDC dwell (deg)")
	fs.Float64Var(&f.params.CamR0, "cam-r0", d.CamR0, "cam base pitch radius (mm)")
	fs.Float64Var(&f.params.CamKPerUnit, "cam-k", d.CamKPerUnit, "cam radius gain per unit velocity (mm)")
	fs.Float64Var(&f.params.CenterDistanceBias, "center-distance", d.CenterDistanceBias, "center distance bias (mm)")
	fs.Float64Var(&f.params.ArcResidualTolMM, "tol", d.ArcResidualTolMM, "arc-length residual tolerance (mm)")
	fs.IntVar(&f.params.MaxIter, "max-iter", d.MaxIter, "maximum synthesis iterations")
	fs.IntVar(&f.params.PlanetCount, "planets", d.PlanetCount, "planet count (1 or 2)")
}

// resolve starts from defaults, applies the config file, then every flag the user set.
func (f *litvinFlags) resolve(cmd *cobra.Command, cfg config.LitvinConfig) (model.LitvinParameters, error) {
	p := model.DefaultLitvinParameters()
	if err := cfg.Apply(&p); err != nil {
		return p, err
	}
	flags := cmd.Flags()
	for name, pair := range map[string][2]*float64{
		"step":            {&p.SamplingStepDeg, &f.params.SamplingStepDeg},
		"stroke":          {&p.RodLength, &f.params.RodLength},
		"rpm":             {&p.RPM, &f.params.RPM},
		"dwell-tdc":       {&p.DwellTDCDeg, &f.params.DwellTDCDeg},
		"dwell-bdc":       {&p.DwellBDCDeg, &f.params.DwellBDCDeg},
		"cam-r0":          {&p.CamR0, &f.params.CamR0},
		"cam-k":           {&p.CamKPerUnit, &f.params.CamKPerUnit},
		"center-distance": {&p.CenterDistanceBias, &f.params.CenterDistanceBias},
		"tol":             {&p.ArcResidualTolMM, &f.params.ArcResidualTolMM},
	} {
		if flags.Changed(name) {
			*pair[0] = *pair[1]
		}
	}
	if flags.Changed("max-iter") {
		p.MaxIter = f.params.MaxIter
	}
	if flags.Changed("planets") {
		p.PlanetCount = f.params.PlanetCount
	}
	if flags.Changed("ramp") {
		profile, err := ramp.Parse(f.profile)
		if err != nil {
			return p, fmt.Errorf("--ramp: %w", err)
		}
		p.RampProfile = profile
	}
	return p, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

