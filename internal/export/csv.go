package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// FormatValue renders v with the fewest digits that parse back to the same
// float64. NaN renders as an empty cell.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSeriesCSV writes a `date,value` table.
func WriteSeriesCSV(w io.Writer, s *timeseries.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if s != nil {
		for _, p := range s.Points {
			if err := cw.Write([]string{p.Date.Format(DateLayout), FormatValue(p.Value)}); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecastCSV writes history and projection with an is_forecast flag.
func WriteForecastCSV(w io.Writer, f *forecast.Forecasted) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "value", "is_forecast"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range f.Points {
		row := []string{p.Date.Format(DateLayout), FormatValue(p.Value), strconv.FormatBool(p.IsForecast)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePanelCSV writes `date,<columns...>` with blank cells for gaps.
func WritePanelCSV(w io.Writer, p *panel.Panel) error {
	cw := csv.NewWriter(w)
	header := append([]string{"date"}, p.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
	for i, d := range p.Dates {
		row[0] = d.Format(DateLayout)
		for j, v := range p.Values[i] {
			row[j+1] = FormatValue(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
