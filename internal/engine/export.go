package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/motionlaw"
)

// Format is an export encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
)

// FormatFor picks the encoding from the file extension. Anything but .csv is JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteAnalysisCSV writes one row per sampled angle.
func WriteAnalysisCSV(w io.Writer, a motionlaw.KinematicAnalysis) error {
	header := []string{"angle", "displacement", "velocity", "acceleration", "jerk"}
	rows := make([][]float64, len(a.Angles))
	for i := range a.Angles {
		rows[i] = []float64{a.Angles[i], a.Displacement[i], a.Velocity[i], a.Acceleration[i], a.Jerk[i]}
	}
	return writeCSV(w, header, rows)
}

// WriteTablesCSV writes one row per carrier angle with the curves and every planet's
// trajectory. Diagnostics are only available in the JSON export.
func WriteTablesCSV(w io.Writer, t *model.LitvinTables) error {
	header := []string{"alpha_deg", "r_cam", "r_ring", "s_cam", "s_ring", "phi_of_theta_deg"}
	for p := range t.Planets {
		for _, col := range []string{"center_x", "center_y", "spin_psi_deg", "journal_x", "journal_y", "piston_s"} {
			header = append(header, fmt.Sprintf("p%d_%s", p, col))
		}
	}
	c := t.Curves
	rows := make([][]float64, len(t.AlphaDeg))
	for i, alpha := range t.AlphaDeg {
		row := []float64{alpha, c.RCam[i], c.RRing[i], c.SCam[i], c.SRing[i], c.PhiOfThetaDeg[i]}
		for _, p := range t.Planets {
			row = append(row, p.CenterX[i], p.CenterY[i], p.SpinPsiDeg[i], p.JournalX[i], p.JournalY[i], p.PistonS[i])
		}
		rows[i] = row
	}
	return writeCSV(w, header, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record[:len(row)]); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeFile(path string, encode func(io.Writer, Format) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := encode(f, FormatFor(path)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
