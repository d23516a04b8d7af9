package upload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, _ Options) (timeseries.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadDelimited(f, sniffDelimiter(path))
}

// ReadDelimited reads a header row followed by data rows. An empty input
// yields an empty table.
func ReadDelimited(r io.Reader, delim rune) (timeseries.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return timeseries.Table{}, nil
		}
		return timeseries.Table{}, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return timeseries.Table{}, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}
	return table(header, rows), nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
