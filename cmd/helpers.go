package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/export"
	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
	"github.com/KaramelBytes/macrolens-cli/internal/upload"
)

const credentialHint = "⚠ FRED API key missing: run `macrolens config set fred_api_key <key>` or set MACROLENS_FRED_API_KEY"

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// isFileArg reports whether arg names a local file rather than a series id.
func isFileArg(arg string) bool {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return true
	}
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".csv", ".tsv", ".xlsx":
		return true
	}
	return false
}

// loadSeriesArg reads a file argument or fetches a series id. Fetch failures
// are returned as errors here; callers decide whether to degrade.
func loadSeriesArg(ctx context.Context, arg string) (*timeseries.Series, error) {
	if isFileArg(arg) {
		return upload.LoadSeries(arg)
	}
	out := newFetcher().Fetch(ctx, arg)
	if out.Err != nil {
		return out.Series, out.Err
	}
	return out.Series, nil
}

// outputPath places relative paths under output_dir.
func outputPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	dir := effectiveConfig().OutputDir
	if dir == "" || dir == "." {
		return p
	}
	return filepath.Join(dir, p)
}

func resolveStep(flag string) (forecast.Step, error) {
	if flag == "" {
		flag = effectiveConfig().ForecastStep
	}
	return forecast.ParseStep(flag)
}

func resolveHorizon(flag int, changed bool) int {
	if changed {
		return flag
	}
	return effectiveConfig().ForecastHorizon
}

func fmtValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func printForecast(w io.Writer, f *forecast.Forecasted, tail int) {
	hist := f.History()
	start := 0
	if tail > 0 && hist.Len() > tail {
		start = hist.Len() - tail
	}
	fmt.Fprintf(w, "%s: %d observations", f.Name, hist.Len())
	if hist.Dropped > 0 {
		fmt.Fprintf(w, " (%d rows skipped)", hist.Dropped)
	}
	fmt.Fprintln(w)
	for _, p := range hist.Points[start:] {
		fmt.Fprintf(w, "  %s  %s\n", p.Date.Format(export.DateLayout), export.FormatValue(p.Value))
	}
	if !f.Projected() {
		fmt.Fprintf(w, "⚠ No projection for %s (needs at least %d observations and a positive horizon)\n", f.Name, forecast.MinHistory)
		return
	}
	fmt.Fprintf(w, "Projection (%d × %s, slope %.6g/day):\n", f.Horizon, f.Step, f.Trend.Slope)
	for _, p := range f.Projection().Points {
		fmt.Fprintf(w, "  %s  %s  *\n", p.Date.Format(export.DateLayout), fmtValue(p.Value))
	}
}

func printMatrix(w io.Writer, m *panel.Matrix) {
	width := 8
	for _, c := range m.Columns {
		if len(c) > width {
			width = len(c)
		}
	}
	fmt.Fprintf(w, "%-*s", width+2, "")
	for _, c := range m.Columns {
		fmt.Fprintf(w, "%*s", width+2, c)
	}
	fmt.Fprintln(w)
	for i, c := range m.Columns {
		fmt.Fprintf(w, "%-*s", width+2, c)
		for j := range m.Columns {
			v := m.Values[i][j]
			cell := "n/a"
			if !math.IsNaN(v) {
				cell = fmt.Sprintf("%.3f", v)
			}
			fmt.Fprintf(w, "%*s", width+2, cell)
		}
		fmt.Fprintln(w)
	}
}
