// Package report renders kinematic results as terminal tables, braille plots and PNG charts.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named sequence of samples on a shared x grid.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls PlotSeries. Zero values select defaults.
type PlotOptions struct {
	Width  int
	Height int
	// Shared puts every series on one y range and labels the axis in data units.
	// Otherwise each series is scaled to its own range.
	Shared bool
	// Color forces ANSI colors. NO_COLOR still wins.
	Color bool
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisSep           = " │ "
	axisLabelWidth    = 9
	colorReset        = "\x1b[0m"
)

type dash struct {
	name   string
	period int
	onLen  int
}

var dashes = []dash{
	{name: "solid", period: 1, onLen: 1},
	{name: "dashed", period: 6, onLen: 3},
	{name: "dotted", period: 4, onLen: 1},
	{name: "dashdot", period: 8, onLen: 3},
}

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m", "\x1b[34m"}

func (d dash) on(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.onLen
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	w, h  int
	cells []uint8
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, cells: make([]uint8, w*h)}
}

// dotBits maps (column, row) inside a braille cell to its bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy*c.w+cx] |= dotBits[x%2][y%4]
}

func (c *canvas) at(cx, cy int) uint8 {
	return c.cells[cy*c.w+cx]
}

// line draws a Bresenham segment, keeping only the dots d allows.
func (c *canvas) line(x0, y0, x1, y1 int, d dash) {
	dx, sx := absInt(x1-x0), sign(x1-x0)
	dy, sy := -absInt(y1-y0), sign(y1-y0)
	e := dx + dy
	for {
		if d.on(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

type yRange struct{ lo, hi float64 }

func (r yRange) row(v float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	pos := (v - r.lo) / (r.hi - r.lo)
	row := int(math.Round((1 - pos) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

// PlotSeries renders the series as overlaid braille lines.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	ranges := make([]yRange, len(kept))
	resampled := make([][]float64, len(kept))
	for i, s := range kept {
		resampled[i] = Resample(s.Values, width)
		ranges[i] = spanOf(resampled[i])
	}
	own := append([]yRange(nil), ranges...)
	if opts.Shared {
		all := ranges[0]
		for _, r := range ranges[1:] {
			all.lo, all.hi = math.Min(all.lo, r.lo), math.Max(all.hi, r.hi)
		}
		for i := range ranges {
			ranges[i] = all
		}
	}

	layers := make([]*canvas, len(kept))
	for i, values := range resampled {
		c := newCanvas(width, height)
		d := dashes[i%len(dashes)]
		px, py := -1, -1
		for x, v := range values {
			nx, ny := 2*x, ranges[i].row(v, 4*height)
			if px >= 0 {
				c.line(px, py, nx, ny, d)
			} else if d.on(nx) {
				c.set(nx, ny)
			}
			px, py = nx, ny
		}
		layers[i] = c
	}

	color := useColor(w, opts.Color)
	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	if !opts.Shared {
		b.WriteString("Scaled per series; see min/max below.\n")
	}
	for i, s := range kept {
		fmt.Fprintf(&b, "%s: min=%s max=%s\n", s.Name, formatValue(own[i].lo), formatValue(own[i].hi))
	}
	labels := axisLabels(height, ranges[0], opts.Shared)
	for y := 0; y < height; y++ {
		b.WriteString(runewidth.FillLeft(labels[y], axisLabelWidth))
		b.WriteString(axisSep)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, c := range layers {
				if m := c.at(x, y); m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				b.WriteString(palette[owner%len(palette)] + string(ch) + colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	b.WriteString(legend(kept, color) + "\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the plot width that fits next to the axis in totalWidth columns.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-runewidth.StringWidth(axisSep), minPlotWidth)
}

// Resample maps values onto width points, averaging when shrinking and interpolating
// linearly when stretching.
func Resample(values []float64, width int) []float64 {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			lo := i * n / width
			hi := max((i+1)*n/width, lo+1)
			var sum float64
			for _, v := range values[lo:hi] {
				sum += v
			}
			out[i] = sum / float64(hi-lo)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			k := int(pos)
			if k >= n-1 {
				out[i] = values[n-1]
				continue
			}
			f := pos - float64(k)
			out[i] = values[k]*(1-f) + values[k+1]*f
		}
	}
	return out
}

func spanOf(values []float64) yRange {
	r := yRange{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, v := range values {
		r.lo, r.hi = math.Min(r.lo, v), math.Max(r.hi, v)
	}
	if math.IsInf(r.lo, 0) || math.IsInf(r.hi, 0) {
		return yRange{lo: -1, hi: 1}
	}
	if r.hi-r.lo < 1e-9 {
		r.lo--
		r.hi++
	}
	return r
}

func axisLabels(height int, r yRange, shared bool) []string {
	labels := make([]string, height)
	top, mid, bottom := "100%", "50%", "0%"
	if shared {
		top, mid, bottom = formatValue(r.hi), formatValue((r.lo+r.hi)/2), formatValue(r.lo)
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("⠁ %s (%s)", s.Name, dashes[i%len(dashes)].name)
		if color {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// formatValue keeps axis labels within axisLabelWidth columns.
func formatValue(v float64) string {
	a := math.Abs(v)
	if a != 0 && (a >= 1e5 || a < 1e-2) {
		return fmt.Sprintf("%.2e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
