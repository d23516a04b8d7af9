// Package upload reads user-supplied tabular files into series.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// ErrUnsupported indicates no loader handles the file's extension.
var ErrUnsupported = errors.New("unsupported file format")

// Options selects the columns (and, for workbooks, the sheet) to read.
type Options struct {
	DateColumn  string
	ValueColumn string
	Sheet       string
}

// DefaultOptions reads the canonical date and value columns.
func DefaultOptions() Options {
	return Options{DateColumn: "date", ValueColumn: "value"}
}

// Loader reads one file format into a table of raw strings.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (timeseries.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// LoadTable picks a loader by extension and reads path.
func LoadTable(path string, opt Options) (timeseries.Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return timeseries.Table{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// LoadSeries reads path and normalizes its date and value columns. The
// series is named after the file without its extension.
func LoadSeries(path string) (*timeseries.Series, error) {
	return LoadSeriesWith(path, DefaultOptions())
}

// LoadSeriesWith is LoadSeries with explicit column and sheet selection.
func LoadSeriesWith(path string, opt Options) (*timeseries.Series, error) {
	if opt.DateColumn == "" {
		opt.DateColumn = "date"
	}
	if opt.ValueColumn == "" {
		opt.ValueColumn = "value"
	}
	tbl, err := LoadTable(path, opt)
	if err != nil {
		return nil, err
	}
	s, err := timeseries.Normalize(tbl, opt.DateColumn, opt.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.Name = SeriesName(path)
	return s, nil
}

// SeriesName derives a display name from a file path.
func SeriesName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// table builds records from a header and data rows. Short rows are padded
// with empty cells; extra cells are ignored.
func table(header []string, rows [][]string) timeseries.Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	if len(cols) > 0 {
		cols[0] = strings.TrimPrefix(cols[0], "\ufeff")
	}
	t := timeseries.Table{Columns: cols, Records: make([]timeseries.Record, 0, len(rows))}
	for _, row := range rows {
		rec := make(timeseries.Record, len(cols))
		for i, c := range cols {
			if i < len(row) {
				rec[c] = row[i]
			} else {
				rec[c] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}
