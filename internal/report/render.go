package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/ramp"
)

const sparkWidth = 48

// RenderAnalysis prints the kinematic maxima, RMS values and limit checks.
func RenderAnalysis(w io.Writer, a motionlaw.KinematicAnalysis, limits motionlaw.Parameters) error {
	if len(a.Angles) == 0 {
		_, err := fmt.Fprintln(w, "No samples.")
		return err
	}
	t := table{
		headers: []string{"Quantity", "Peak", "RMS", "Limit", "Status"},
		right:   map[int]bool{1: true, 2: true, 3: true},
	}
	t.add("velocity", num(a.MaxVelocity), "", num(limits.VelocityLimit), status(a.VelocityLimitExceeded))
	t.add("acceleration", num(a.MaxAcceleration), num(a.RMSAcceleration), num(limits.AccelerationLimit), status(a.AccelerationLimitExceeded))
	t.add("jerk", num(a.MaxJerk), num(a.RMSJerk), num(limits.JerkLimit), status(a.JerkLimitExceeded))

	last := a.Angles[len(a.Angles)-1]
	if _, err := fmt.Fprintf(w, "Kinematics (%d samples, 0-%.1f deg)\n", len(a.Angles), last); err != nil {
		return err
	}
	if _, err := io.WriteString(w, t.String()); err != nil {
		return err
	}
	for _, row := range []struct {
		name   string
		values []float64
	}{
		{"s", a.Displacement},
		{"v", a.Velocity},
		{"a", a.Acceleration},
		{"j", a.Jerk},
	} {
		if _, err := fmt.Fprintf(w, "%s |%s|\n", row.name, Sparkline(row.values, sparkWidth)); err != nil {
			return err
		}
	}
	return nil
}

// RenderBoundaryConditions prints one row per instant.
func RenderBoundaryConditions(w io.Writer, bcs []motionlaw.BoundaryCondition) error {
	if len(bcs) == 0 {
		_, err := fmt.Fprintln(w, "No boundary conditions.")
		return err
	}
	t := table{
		headers: []string{"Time (s)", "Angle (deg)", "Displacement", "Velocity", "Acceleration"},
		right:   map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true},
	}
	for _, bc := range bcs {
		t.add(strconv.FormatFloat(bc.Time, 'g', 6, 64), fmt.Sprintf("%.3f", bc.Angle), num(bc.Displacement), num(bc.Velocity), num(bc.Acceleration))
	}
	_, err := io.WriteString(w, t.String())
	return err
}

// RenderDiagnostics prints the diagnostics of a synthesized table set.
func RenderDiagnostics(w io.Writer, tables *model.LitvinTables) error {
	d := tables.Diagnostics
	p := tables.Params
	if _, err := fmt.Fprintf(w, "Litvin synthesis: %d samples, %s ramps, %d planet(s), C=%.3f mm\n",
		len(tables.AlphaDeg), p.RampProfile, len(tables.Planets), p.CenterDistance()); err != nil {
		return err
	}

	t := table{headers: []string{"Metric", "Value"}, right: map[int]bool{1: true}}
	t.add("iterations", fmt.Sprintf("%d/%d", d.IterCount, p.MaxIter))
	t.add("converged", yesNo(!d.UsedMaxIter))
	t.add("arc residual max", num(d.ArcLengthResidualMax))
	t.add("arc residual rms", num(d.ArcLengthResidualRMS))
	t.add("clearance min", num(d.ClearanceMin))
	t.add("clearance violations", strconv.Itoa(len(d.ClearanceViolations)))
	t.add("envelope clearance min", num(d.EnvelopeClearanceMin))
	t.add("envelope violations", strconv.Itoa(len(d.EnvelopeViolations)))
	t.add("tooth thickness min", num(d.ToothThicknessMin))
	t.add("curvature radius min", num(d.CurvatureRadiusMin))
	t.add("undercut", yesNo(d.UndercutFlag))
	t.add("tracking rms", num(d.TrackingRMS))
	t.add("accel max", num(d.AccelMax))
	t.add("jerk max (analytic)", num(d.JerkMax))
	t.add("jerk max (numeric)", num(d.JerkMaxNumeric))
	t.add("sliding mean", num(d.SlidingVelMean))
	t.add("sliding max", num(d.SlidingVelMax))
	t.add("suggested C inflation", num(d.SuggestedCenterDistanceInflation))
	t.add("build", fmt.Sprintf("%.2f ms", d.BuildMs))
	if _, err := io.WriteString(w, t.String()); err != nil {
		return err
	}

	if len(d.ClearanceViolations) > 0 {
		v := table{
			headers: []string{"Start (deg)", "End (deg)", "Min clearance"},
			right:   map[int]bool{0: true, 1: true, 2: true},
		}
		for _, cv := range d.ClearanceViolations {
			v.add(fmt.Sprintf("%.2f", cv.AlphaStartDeg), fmt.Sprintf("%.2f", cv.AlphaEndDeg), num(cv.MinClearance))
		}
		if _, err := io.WriteString(w, "\nClearance violations\n"+v.String()); err != nil {
			return err
		}
	}

	nvh := table{headers: []string{"Order", "Freq (Hz)", "Amplitude"}, right: map[int]bool{0: true, 1: true, 2: true}}
	for i, peak := range d.NvhPeaks {
		nvh.add(strconv.Itoa(i+1), fmt.Sprintf("%.1f", peak.FreqHz), num(peak.Amp))
	}
	if _, err := io.WriteString(w, "\nNVH\n"+nvh.String()); err != nil {
		return err
	}
	if len(d.Notes) > 0 {
		if _, err := fmt.Fprintln(w, "\nNotes"); err != nil {
			return err
		}
		for _, note := range d.Notes {
			if _, err := fmt.Fprintf(w, "- %s\n", note); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderProfiles lists the ramp shapes with their area and peak third derivative.
func RenderProfiles(w io.Writer) error {
	t := table{headers: []string{"Profile", "Integral", "Peak jerk", "Shape"}, right: map[int]bool{1: true, 2: true}}
	for _, p := range ramp.All() {
		samples := make([]float64, sparkWidth/2)
		for i := range samples {
			samples[i] = p.Eval(float64(i) / float64(len(samples)-1)).S
		}
		t.add(p.String(), fmt.Sprintf("%.4f", p.Integral(1)), fmt.Sprintf("%.2f", p.PeakJerk()), Sparkline(samples, 0))
	}
	_, err := io.WriteString(w, t.String())
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func status(exceeded bool) string {
	if exceeded {
		return "EXCEEDED"
	}
	return "ok"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
