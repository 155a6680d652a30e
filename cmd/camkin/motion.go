package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/camkin/internal/config"
	"github.com/verte-zerg/camkin/internal/motionlaw"
	"github.com/verte-zerg/camkin/internal/report"
)

const defaultPoints = 361

var (
	motionPoints int
	motionOut    string
	motionPNG    string
	motionPlot   bool
	bcTimes      []float64
)

func newMotionCmd() *cobra.Command {
	flags := &motionFlags{}
	cmd := &cobra.Command{
		Use:   "motion",
		Short: "Analyze a cam motion law",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMotion(cmd, flags)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVarP(&motionPoints, "points", "n", defaultPoints, "number of samples")
	cmd.Flags().StringVarP(&motionOut, "out", "o", "", "export analysis to a .json or .csv file")
	cmd.Flags().StringVar(&motionPNG, "png", "", "save a kinematics chart as PNG")
	cmd.Flags().BoolVar(&motionPlot, "plot", false, "draw the kinematics in the terminal")
	return cmd
}

func runMotion(cmd *cobra.Command, flags *motionFlags) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	params := flags.resolve(cmd, cfg.Motion)
	applyIntConfig(cmd, "points", &motionPoints, cfg.Output.Points)
	applyIntConfig(cmd, "workers", &workers, cfg.Output.Workers)
	applyBoolConfig(cmd, "plot", &motionPlot, cfg.Output.Plot)

	eng, err := newEngine()
	if err != nil {
		return err
	}
	h, err := eng.CreateMotionLaw(params)
	if err != nil {
		return err
	}
	defer func() { _ = eng.DisposeMotionLaw(h) }()

	analysis, err := eng.AnalyzeKinematics(h, motionPoints)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.RenderAnalysis(out, analysis, params); err != nil {
		return err
	}
	if motionPlot {
		fmt.Fprintln(out)
		if err := report.PlotSeries(out, "Kinematics vs cam angle", kinematicSeries(analysis), report.PlotOptions{}); err != nil {
			return err
		}
	}

	dir := outputDir(cfg.Output)
	if motionOut != "" {
		path := config.ResolveOutputPath(dir, motionOut)
		if err := eng.ExportAnalysis(h, motionPoints, path); err != nil {
			return fmt.Errorf("failed to export analysis: %w", err)
		}
		fmt.Fprintf(out, "Analysis written to %s\n", path)
	}
	if motionPNG != "" {
		path := config.ResolveOutputPath(dir, motionPNG)
		if err := report.SavePNG(path, "Cam kinematics", "cam angle (deg)", "value", analysis.Angles, kinematicSeries(analysis)); err != nil {
			return fmt.Errorf("failed to save chart: %w", err)
		}
		fmt.Fprintf(out, "Chart written to %s\n", path)
	}
	return nil
}

func newBCCmd() *cobra.Command {
	flags := &motionFlags{}
	cmd := &cobra.Command{
		Use:   "bc",
		Short: "Print boundary conditions at given times",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			params := flags.resolve(cmd, cfg.Motion)
			eng, err := newEngine()
			if err != nil {
				return err
			}
			h, err := eng.CreateMotionLaw(params)
			if err != nil {
				return err
			}
			times := bcTimes
			if len(times) == 0 {
				times = defaultTimes(params)
			}
			bcs, err := eng.BoundaryConditions(h, times)
			if err != nil {
				return err
			}
			return report.RenderBoundaryConditions(cmd.OutOrStdout(), bcs)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().Float64SliceVarP(&bcTimes, "time", "t", nil, "times in seconds (default: 10 points over one cam cycle)")
	return cmd
}

// defaultTimes spreads ten instants over the time it takes to sweep the cam duration.
func defaultTimes(p motionlaw.Parameters) []float64 {
	const n = 10
	omega := p.RPM * 6
	if omega <= 0 {
		return []float64{0}
	}
	cycle := p.TotalDuration() / omega
	times := make([]float64, n)
	for i := range times {
		times[i] = cycle * float64(i) / float64(n-1)
	}
	return times
}

func kinematicSeries(a motionlaw.KinematicAnalysis) []report.Series {
	return []report.Series{
		{Name: "displacement", Values: a.Displacement},
		{Name: "velocity", Values: a.Velocity},
		{Name: "acceleration", Values: a.Acceleration},
		{Name: "jerk", Values: a.Jerk},
	}
}

func outputDir(cfg config.OutputConfig) string {
	if cfg.Dir == nil {
		return ""
	}
	return os.ExpandEnv(*cfg.Dir)
}
