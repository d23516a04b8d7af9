package upload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Load reads the named sheet, or the first one. Cells are read raw so that
// date-formatted cells in the date column come back as serials, which are
// converted to ISO dates here.
func (xlsxLoader) Load(path string, opt Options) (timeseries.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return timeseries.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return timeseries.Table{}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return timeseries.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return timeseries.Table{}, nil
	}
	header, data := rows[0], rows[1:]

	dateCol := opt.DateColumn
	if dateCol == "" {
		dateCol = "date"
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), dateCol) {
			continue
		}
		for _, row := range data {
			if i < len(row) {
				row[i] = serialToDate(row[i])
			}
		}
	}
	return table(header, data), nil
}

// serialToDate rewrites an Excel date serial as YYYY-MM-DD. Four digit
// integers are left alone so that year columns keep meaning years.
func serialToDate(cell string) string {
	s := strings.TrimSpace(cell)
	if len(s) <= 4 {
		return cell
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return cell
	}
	return t.Format("2006-01-02")
}
