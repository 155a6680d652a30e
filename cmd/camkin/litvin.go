package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/camkin/internal/config"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/report"
	"github.com/verte-zerg/camkin/internal/viewer"
)

var (
	litvinOut  string
	litvinPNG  string
	litvinPlot bool
)

func newLitvinCmd() *cobra.Command {
	flags := &litvinFlags{}
	cmd := &cobra.Command{
		Use:   "litvin",
		Short: "Synthesize conjugate cam and ring pitch curves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLitvin(cmd, flags)
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&litvinOut, "out", "o", "", "export tables to a .json or .csv file")
	cmd.Flags().StringVar(&litvinPNG, "png", "", "save a pitch curve chart as PNG")
	cmd.Flags().BoolVar(&litvinPlot, "plot", false, "draw pitch radii and piston motion in the terminal")
	return cmd
}

func runLitvin(cmd *cobra.Command, flags *litvinFlags) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	params, err := flags.resolve(cmd, cfg.Litvin)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "workers", &workers, cfg.Output.Workers)
	applyBoolConfig(cmd, "plot", &litvinPlot, cfg.Output.Plot)

	eng, err := newEngine()
	if err != nil {
		return err
	}
	h, err := eng.BuildLitvin(params)
	if err != nil {
		return err
	}
	defer func() { _ = eng.DisposeLitvin(h) }()
	tables, err := eng.LitvinTables(h)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.RenderDiagnostics(out, tables); err != nil {
		return err
	}
	if litvinPlot {
		fmt.Fprintln(out)
		if err := report.PlotSeries(out, "Pitch radii (mm)", radiusSeries(tables), report.PlotOptions{Shared: true}); err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := report.PlotSeries(out, "Piston position", pistonSeries(tables), report.PlotOptions{Shared: true}); err != nil {
			return err
		}
	}

	dir := outputDir(cfg.Output)
	if litvinOut != "" {
		path := config.ResolveOutputPath(dir, litvinOut)
		if err := eng.ExportLitvin(h, path); err != nil {
			return fmt.Errorf("failed to export tables: %w", err)
		}
		fmt.Fprintf(out, "Tables written to %s\n", path)
	}
	if litvinPNG != "" {
		path := config.ResolveOutputPath(dir, litvinPNG)
		if err := report.SavePNG(path, "Pitch curves", "carrier angle (deg)", "radius (mm)", tables.AlphaDeg, radiusSeries(tables)); err != nil {
			return fmt.Errorf("failed to save chart: %w", err)
		}
		fmt.Fprintf(out, "Chart written to %s\n", path)
	}
	return nil
}

func newViewCmd() *cobra.Command {
	flags := &litvinFlags{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a synthesis interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadFileConfig()
			if err != nil {
				return err
			}
			params, err := flags.resolve(cmd, cfg.Litvin)
			if err != nil {
				return err
			}
			if err := params.Validate(); err != nil {
				return err
			}
			applyIntConfig(cmd, "workers", &workers, cfg.Output.Workers)
			program := tea.NewProgram(viewer.NewModel(params, workers), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run viewer: %w", err)
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List ramp profiles and their peak jerk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.RenderProfiles(cmd.OutOrStdout())
		},
	}
}

func radiusSeries(t *model.LitvinTables) []report.Series {
	return []report.Series{
		{Name: "r_cam", Values: t.Curves.RCam},
		{Name: "r_ring", Values: t.Curves.RRing},
	}
}

func pistonSeries(t *model.LitvinTables) []report.Series {
	series := make([]report.Series, 0, len(t.Planets))
	for i, p := range t.Planets {
		series = append(series, report.Series{Name: fmt.Sprintf("planet %d", i), Values: p.PistonS})
	}
	return series
}
