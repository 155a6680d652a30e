// Package config provides configuration helpers and TOML parsing.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/camkin/internal/kinerr"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/ramp"
)

// FileConfig represents the TOML configuration file and standalone parameter files.
type FileConfig struct {
	Motion MotionConfig `toml:"motion" json:"motion"`
	Litvin LitvinConfig `toml:"litvin" json:"litvin"`
	Output OutputConfig `toml:"output" json:"output"`
}

// MotionConfig maps cam motion law settings. Nil means unset.
type MotionConfig struct {
	BaseRadius        *float64 `toml:"base_radius" json:"base_radius"`
	// BaseCircleRadius is the alternate key for BaseRadius. base_radius wins when both are set.
	BaseCircleRadius  *float64 `toml:"base_circle_radius" json:"base_circle_radius"`
	MaxLift           *float64 `toml:"max_lift" json:"max_lift"`
	CamDuration       *float64 `toml:"cam_duration" json:"cam_duration"`
	RiseDuration      *float64 `toml:"rise_duration" json:"rise_duration"`
	DwellDuration     *float64 `toml:"dwell_duration" json:"dwell_duration"`
	FallDuration      *float64 `toml:"fall_duration" json:"fall_duration"`
	JerkLimit         *float64 `toml:"jerk_limit" json:"jerk_limit"`
	AccelerationLimit *float64 `toml:"acceleration_limit" json:"acceleration_limit"`
	VelocityLimit     *float64 `toml:"velocity_limit" json:"velocity_limit"`
	RPM               *float64 `toml:"rpm" json:"rpm"`
}

// LitvinConfig maps synthesis settings. Nil means unset.
type LitvinConfig struct {
	UpFraction          *float64 `toml:"up_fraction" json:"up_fraction"`
	DwellTDCDeg         *float64 `toml:"dwell_tdc_deg" json:"dwell_tdc_deg"`
	DwellBDCDeg         *float64 `toml:"dwell_bdc_deg" json:"dwell_bdc_deg"`
	RampBeforeTDCDeg    *float64 `toml:"ramp_before_tdc_deg" json:"ramp_before_tdc_deg"`
	RampAfterTDCDeg     *float64 `toml:"ramp_after_tdc_deg" json:"ramp_after_tdc_deg"`
	RampBeforeBDCDeg    *float64 `toml:"ramp_before_bdc_deg" json:"ramp_before_bdc_deg"`
	RampAfterBDCDeg     *float64 `toml:"ramp_after_bdc_deg" json:"ramp_after_bdc_deg"`
	RampProfile         *string  `toml:"ramp_profile" json:"ramp_profile"`
	RodLength           *float64 `toml:"rod_length" json:"rod_length"`
	InterferenceBuffer  *float64 `toml:"interference_buffer" json:"interference_buffer"`
	JournalRadius       *float64 `toml:"journal_radius" json:"journal_radius"`
	JournalPhaseBetaDeg *float64 `toml:"journal_phase_beta_deg" json:"journal_phase_beta_deg"`
	SliderAxisDeg       *float64 `toml:"slider_axis_deg" json:"slider_axis_deg"`
	PlanetCount         *int     `toml:"planet_count" json:"planet_count"`
	CarrierOffsetDeg    *float64 `toml:"carrier_offset_deg" json:"carrier_offset_deg"`
	RingThicknessVisual *float64 `toml:"ring_thickness_visual" json:"ring_thickness_visual"`
	SamplingStepDeg     *float64 `toml:"sampling_step_deg" json:"sampling_step_deg"`
	RPM                 *float64 `toml:"rpm" json:"rpm"`
	CamR0               *float64 `toml:"cam_r0" json:"cam_r0"`
	CamKPerUnit         *float64 `toml:"cam_k_per_unit" json:"cam_k_per_unit"`
	CenterDistanceBias  *float64 `toml:"center_distance_bias" json:"center_distance_bias"`
	CenterDistanceScale *float64 `toml:"center_distance_scale" json:"center_distance_scale"`
	ArcResidualTolMM    *float64 `toml:"arc_residual_tol_mm" json:"arc_residual_tol_mm"`
	MaxIter             *int     `toml:"max_iter" json:"max_iter"`
}

// OutputConfig maps CLI output settings.
type OutputConfig struct {
	Dir     *string `toml:"dir" json:"dir"`
	Points  *int    `toml:"points" json:"points"`
	Workers *int    `toml:"workers" json:"workers"`
	Plot    *bool   `toml:"plot" json:"plot"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadParameterFile reads a parameter file in TOML or JSON, chosen by extension. Unlike
// LoadConfig the file must exist.
func LoadParameterFile(path string) (FileConfig, error) {
	var cfg FileConfig
	if err := DecodeParameterFile(path, &cfg); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// DecodeParameterFile decodes path over cfg. Keys absent from the file leave cfg untouched,
// so a parameter file layers over an already loaded config. Top-level motion keys, the
// flat layout of standalone motion parameter files, are read too; the [motion] table wins
// when both are present.
func DecodeParameterFile(path string, cfg *FileConfig) error {
	const op = "load parameter file"
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read parameter file: %w", err)
	}
	var decode func(v any) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		decode = func(v any) error {
			_, err := toml.Decode(string(data), v)
			return err
		}
	case ".json":
		decode = func(v any) error { return json.Unmarshal(data, v) }
	default:
		return kinerr.Configuration(op, "unsupported parameter file extension %q", ext)
	}
	if err := decode(&cfg.Motion); err != nil {
		return kinerr.Configuration(op, "decode %s: %v", path, err)
	}
	if err := decode(cfg); err != nil {
		return kinerr.Configuration(op, "decode %s: %v", path, err)
	}
	return nil
}

// Apply copies every set field onto p.
func (c MotionConfig) Apply(p *motionlaw.Parameters) {
	setFloat(&p.BaseRadius, c.BaseCircleRadius)
	setFloat(&p.BaseRadius, c.BaseRadius)
	setFloat(&p.MaxLift, c.MaxLift)
	setFloat(&p.CamDuration, c.CamDuration)
	setFloat(&p.RiseDuration, c.RiseDuration)
	setFloat(&p.DwellDuration, c.DwellDuration)
	setFloat(&p.FallDuration, c.FallDuration)
	setFloat(&p.JerkLimit, c.JerkLimit)
	setFloat(&p.AccelerationLimit, c.AccelerationLimit)
	setFloat(&p.VelocityLimit, c.VelocityLimit)
	setFloat(&p.RPM, c.RPM)
}

// Apply copies every set field onto p. An unknown ramp profile name is a validation error.
func (c LitvinConfig) Apply(p *model.LitvinParameters) error {
	setFloat(&p.UpFraction, c.UpFraction)
	setFloat(&p.DwellTDCDeg, c.DwellTDCDeg)
	setFloat(&p.DwellBDCDeg, c.DwellBDCDeg)
	setFloat(&p.RampBeforeTDCDeg, c.RampBeforeTDCDeg)
	setFloat(&p.RampAfterTDCDeg, c.RampAfterTDCDeg)
	setFloat(&p.RampBeforeBDCDeg, c.RampBeforeBDCDeg)
	setFloat(&p.RampAfterBDCDeg, c.RampAfterBDCDeg)
	setFloat(&p.RodLength, c.RodLength)
	setFloat(&p.InterferenceBuffer, c.InterferenceBuffer)
	setFloat(&p.JournalRadius, c.JournalRadius)
	setFloat(&p.JournalPhaseBetaDeg, c.JournalPhaseBetaDeg)
	setFloat(&p.SliderAxisDeg, c.SliderAxisDeg)
	setInt(&p.PlanetCount, c.PlanetCount)
	setFloat(&p.CarrierOffsetDeg, c.CarrierOffsetDeg)
	setFloat(&p.RingThicknessVisual, c.RingThicknessVisual)
	setFloat(&p.SamplingStepDeg, c.SamplingStepDeg)
	setFloat(&p.RPM, c.RPM)
	setFloat(&p.CamR0, c.CamR0)
	setFloat(&p.CamKPerUnit, c.CamKPerUnit)
	setFloat(&p.CenterDistanceBias, c.CenterDistanceBias)
	setFloat(&p.CenterDistanceScale, c.CenterDistanceScale)
	setFloat(&p.ArcResidualTolMM, c.ArcResidualTolMM)
	setInt(&p.MaxIter, c.MaxIter)
	if c.RampProfile != nil {
		profile, err := ramp.Parse(*c.RampProfile)
		if err != nil {
			return kinerr.Validation("litvin config", "ramp_profile", "%v", err)
		}
		p.RampProfile = profile
	}
	return nil
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}
