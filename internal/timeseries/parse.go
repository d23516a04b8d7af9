package timeseries

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Month-first slash dates win over
// day-first ones because the upstream sources are US based.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006-01",
	"2006/01",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2006",
	"January 2006",
}

// missingTokens are placeholders upstream sources use for "no observation".
// FRED reports gaps as a lone ".".
var missingTokens = map[string]struct{}{
	"":     {},
	".":    {},
	"-":    {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"nil":  {},
	"none": {},
}

// groupedNumber matches digits split into thousands groups by "," or "_",
// with an optional "." fraction. A decimal comma such as "1,5" does not match.
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(?:([,_])\d{3})(?:[,_]\d{3})*(?:\.\d+)?$`)

// ParseDate converts a raw field into a calendar date at midnight UTC.
// Bare four-digit years are promoted to January 1st of that year.
func ParseDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return Day(v), true
	case string:
		return parseDateString(v)
	case json.Number:
		return parseDateString(v.String())
	case float64:
		if v == math.Trunc(v) {
			return yearDate(int(v))
		}
		return time.Time{}, false
	case int:
		return yearDate(v)
	case int64:
		return yearDate(int(v))
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if s == "" {
		return time.Time{}, false
	}
	if len(s) == 4 && isDigits(s) {
		y, _ := strconv.Atoi(s)
		return yearDate(y)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

func yearDate(y int) (time.Time, bool) {
	if y < 1 || y > 9999 {
		return time.Time{}, false
	}
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseValue converts a raw field into a finite float. Missing tokens,
// non-numeric strings, NaN and infinities all report false.
func ParseValue(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		x, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		x, ok := parseNumericString(v)
		if !ok {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseNumericString(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.Trim(s, "\""))
	raw = strings.ReplaceAll(raw, " ", "")
	if _, missing := missingTokens[strings.ToLower(raw)]; missing {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, true
	}
	// Thousands separators as exported by spreadsheets ("1,234.5"). Anything
	// else with a comma is ambiguous and counts as non-numeric.
	m := groupedNumber.FindStringSubmatch(raw)
	if m == nil || strings.Count(raw, m[1]) != strings.Count(raw, ",")+strings.Count(raw, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, m[1], ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
