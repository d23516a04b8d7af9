// Package export writes series, forecasts and panels to CSV and XLSX.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// DateLayout is the date format used in every export.
const DateLayout = "2006-01-02"

// SaveFile streams write into a temp file beside path and atomically
// renames it into place. Parent directories are created as needed.
func SaveFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func isXLSX(path string) bool { return strings.EqualFold(filepath.Ext(path), ".xlsx") }

// SaveSeries writes s to path as CSV, or XLSX when the extension says so.
func SaveSeries(path string, s *timeseries.Series) error {
	if isXLSX(path) {
		return SaveFile(path, func(w io.Writer) error { return WriteSeriesXLSX(w, s) })
	}
	return SaveFile(path, func(w io.Writer) error { return WriteSeriesCSV(w, s) })
}

// SaveForecast writes f to path as CSV or XLSX.
func SaveForecast(path string, f *forecast.Forecasted) error {
	if isXLSX(path) {
		return SaveFile(path, func(w io.Writer) error { return WriteForecastXLSX(w, f) })
	}
	return SaveFile(path, func(w io.Writer) error { return WriteForecastCSV(w, f) })
}

// SavePanel writes p to path as CSV or XLSX.
func SavePanel(path string, p *panel.Panel) error {
	if isXLSX(path) {
		return SaveFile(path, func(w io.Writer) error { return WritePanelXLSX(w, p) })
	}
	return SaveFile(path, func(w io.Writer) error { return WritePanelCSV(w, p) })
}
