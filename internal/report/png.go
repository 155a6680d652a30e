package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 5 * vg.Inch
	pngDPI    = 150
)

// SavePNG writes a line chart of series against xs to path, creating parent directories.
func SavePNG(path, title, xlabel, ylabel string, xs []float64, series []Series) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := WritePNG(bw, title, xlabel, ylabel, xs, series); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write png: %w", err)
	}
	return f.Close()
}

// WritePNG encodes the chart to w. Every series must have len(xs) values.
func WritePNG(w io.Writer, title, xlabel, ylabel string, xs []float64, series []Series) error {
	if len(xs) == 0 || len(series) == 0 {
		return fmt.Errorf("plot data invalid: %d samples, %d series", len(xs), len(series))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	for i, s := range series {
		if len(s.Values) != len(xs) {
			return fmt.Errorf("series %q has %d values, want %d", s.Name, len(s.Values), len(xs))
		}
		pts := make(plotter.XYs, len(xs))
		for k := range xs {
			pts[k].X = xs[k]
			pts[k].Y = s.Values[k]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Dashes = plotutil.Dashes(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	c := vgimg.NewWith(vgimg.UseWH(pngWidth, pngHeight), vgimg.UseDPI(pngDPI))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.TextStyle.Font.Size = vg.Points(11)
	p.X.Padding = vg.Points(6)
	p.Y.Padding = vg.Points(6)
	p.X.Tick.Marker = evenTicker(9, "%.0f")
	p.Y.Tick.Marker = evenTicker(7, "%.3g")
}

// evenTicker labels count evenly spaced values across the axis range.
func evenTicker(count int, format string) plot.Ticker {
	count = max(count, 2)
	return plot.TickerFunc(func(lo, hi float64) []plot.Tick {
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil
		}
		if lo == hi {
			return []plot.Tick{{Value: lo, Label: fmt.Sprintf(format, lo)}}
		}
		step := (hi - lo) / float64(count-1)
		ticks := make([]plot.Tick, count)
		for i := range ticks {
			v := lo + float64(i)*step
			ticks[i] = plot.Tick{Value: v, Label: fmt.Sprintf(format, v)}
		}
		return ticks
	})
}
