package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// writeWorkbook fills the first sheet, renamed to sheet, row by row.
func writeWorkbook(w io.Writer, sheet string, header []any, rows func(yield func([]any) error) error) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	r := 2
	err := rows(func(vals []any) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		r++
		return f.SetSheetRow(sheet, cell, &vals)
	})
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// WriteSeriesXLSX writes a single `date,value` sheet.
func WriteSeriesXLSX(w io.Writer, s *timeseries.Series) error {
	name := "series"
	if s != nil && s.Name != "" {
		name = sheetName(s.Name)
	}
	return writeWorkbook(w, name, []any{"date", "value"}, func(yield func([]any) error) error {
		if s == nil {
			return nil
		}
		for _, p := range s.Points {
			if err := yield([]any{p.Date.Format(DateLayout), p.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteForecastXLSX writes history and projection with an is_forecast flag.
func WriteForecastXLSX(w io.Writer, fc *forecast.Forecasted) error {
	return writeWorkbook(w, "forecast", []any{"date", "value", "is_forecast"}, func(yield func([]any) error) error {
		for _, p := range fc.Points {
			if err := yield([]any{p.Date.Format(DateLayout), p.Value, p.IsForecast}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePanelXLSX writes the merged panel; gaps are left as empty cells.
func WritePanelXLSX(w io.Writer, p *panel.Panel) error {
	header := make([]any, 0, len(p.Columns)+1)
	header = append(header, "date")
	for _, c := range p.Columns {
		header = append(header, c)
	}
	return writeWorkbook(w, "panel", header, func(yield func([]any) error) error {
		for i, d := range p.Dates {
			row := make([]any, 0, len(p.Columns)+1)
			row = append(row, d.Format(DateLayout))
			for _, v := range p.Values[i] {
				row = append(row, cellValue(v))
			}
			if err := yield(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// sheetName trims a series name to Excel's sheet-name rules.
func sheetName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			r = '_'
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	return string(out)
}
