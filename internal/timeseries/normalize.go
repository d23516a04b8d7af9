package timeseries

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one loosely typed input row (a decoded JSON object or a CSV row
// keyed by header).
type Record map[string]any

// Table is a batch of records plus the schema they were read with. Columns
// may be empty for JSON payloads, in which case the schema is the union of
// the record keys.
type Table struct {
	Columns []string
	Records []Record
}

// StructuralError reports that required columns are absent from the input
// schema. It is distinct from per-row parse failures, which are dropped.
type StructuralError struct {
	Missing   []string
	Available []string
}

func (e *StructuralError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("missing required column(s): %s (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// Schema returns the table's column names, falling back to the sorted union
// of record keys when no header was supplied.
func (t Table) Schema() []string {
	if len(t.Columns) > 0 {
		return t.Columns
	}
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range t.Records {
		for k := range r {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return cols
}

// Normalize converts t into a canonical Series using dateCol and valueCol,
// matched case-insensitively after trimming.
//
// Rows whose date or value does not parse are skipped. When two rows share
// a date, the later one in input order wins. An input without any schema
// yields an empty series; a schema lacking either column yields a
// *StructuralError.
func Normalize(t Table, dateCol, valueCol string) (*Series, error) {
	schema := t.Schema()
	out := Empty("")
	if len(schema) == 0 {
		return out, nil
	}
	dateKey, okDate := matchColumn(schema, dateCol)
	valueKey, okValue := matchColumn(schema, valueCol)
	if !okDate || !okValue {
		se := &StructuralError{Available: append([]string(nil), schema...)}
		if !okDate {
			se.Missing = append(se.Missing, canonicalName(dateCol))
		}
		if !okValue {
			se.Missing = append(se.Missing, canonicalName(valueCol))
		}
		return nil, se
	}

	points := make([]Point, 0, len(t.Records))
	for _, rec := range t.Records {
		d, ok := ParseDate(field(rec, dateKey))
		if !ok {
			out.Dropped++
			continue
		}
		v, ok := ParseValue(field(rec, valueKey))
		if !ok {
			out.Dropped++
			continue
		}
		points = append(points, Point{Date: d, Value: v})
	}

	// Stable sort keeps input order among equal dates so the dedupe pass
	// below can let the last one win.
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	for _, p := range points {
		n := len(out.Points)
		if n > 0 && out.Points[n-1].Date.Equal(p.Date) {
			out.Points[n-1] = p
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out, nil
}

func canonicalName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func matchColumn(schema []string, want string) (string, bool) {
	w := canonicalName(want)
	if w == "" {
		return "", false
	}
	for _, c := range schema {
		if canonicalName(c) == w {
			return c, true
		}
	}
	return "", false
}

// field looks up key directly and falls back to a case-insensitive scan for
// records whose keys differ in case from the schema.
func field(rec Record, key string) any {
	if v, ok := rec[key]; ok {
		return v
	}
	want := canonicalName(key)
	for k, v := range rec {
		if canonicalName(k) == want {
			return v
		}
	}
	return nil
}
