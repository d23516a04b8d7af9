package source

import (
	"fmt"
	"sort"
	"strings"
)

// Provider names the upstream API serving a series.
type Provider string

const (
	ProviderFRED      Provider = "fred"
	ProviderWorldBank Provider = "worldbank"
)

// SeriesInfo is catalog metadata used to route and label a fetch.
type SeriesInfo struct {
	ID        string
	Label     string
	Provider  Provider
	Country   string // World Bank only
	Indicator string // World Bank only
	Frequency string
	Unit      string
	Horizon   int // default forecast horizon
}

var catalog = map[string]SeriesInfo{
	"CPIAUCSL": {
		ID:        "CPIAUCSL",
		Label:     "US CPI (All Urban Consumers)",
		Provider:  ProviderFRED,
		Frequency: "monthly",
		Unit:      "index 1982-84=100",
		Horizon:   12,
	},
	"WALCL": {
		ID:        "WALCL",
		Label:     "Fed Balance Sheet (Total Assets)",
		Provider:  ProviderFRED,
		Frequency: "weekly",
		Unit:      "millions USD",
		Horizon:   12,
	},
	"IN.CPI": {
		ID:        "IN.CPI",
		Label:     "India CPI",
		Provider:  ProviderWorldBank,
		Country:   "IN",
		Indicator: "FP.CPI.TOTL",
		Frequency: "annual",
		Unit:      "index 2010=100",
		Horizon:   5,
	},
}

// Lookup resolves id against the catalog. Ids outside it are accepted with a
// provider prefix: "fred:<series>" or "wb:<country>/<indicator>".
func Lookup(id string) (SeriesInfo, error) {
	id = strings.TrimSpace(id)
	if si, ok := catalog[strings.ToUpper(id)]; ok {
		return si, nil
	}
	prefix, rest, found := strings.Cut(id, ":")
	if !found || rest == "" {
		return SeriesInfo{}, fmt.Errorf("%w: %q", ErrUnknownSeries, id)
	}
	switch strings.ToLower(prefix) {
	case "fred":
		rest = strings.ToUpper(rest)
		return SeriesInfo{ID: id, Label: rest, Provider: ProviderFRED, Horizon: 12}, nil
	case "wb", "worldbank":
		country, indicator, ok := strings.Cut(rest, "/")
		if !ok || country == "" || indicator == "" {
			return SeriesInfo{}, fmt.Errorf("%w: %q (want wb:<country>/<indicator>)", ErrUnknownSeries, id)
		}
		return SeriesInfo{
			ID:        id,
			Label:     strings.ToUpper(country) + " " + indicator,
			Provider:  ProviderWorldBank,
			Country:   strings.ToUpper(country),
			Indicator: indicator,
			Frequency: "annual",
			Horizon:   5,
		}, nil
	}
	return SeriesInfo{}, fmt.Errorf("%w: %q", ErrUnknownSeries, id)
}

// Catalog returns the known series ordered by id.
func Catalog() []SeriesInfo {
	out := make([]SeriesInfo, 0, len(catalog))
	for _, si := range catalog {
		out = append(out, si)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// remoteID is the identifier the provider expects.
func (si SeriesInfo) remoteID() string {
	if si.Provider == ProviderFRED {
		if _, rest, ok := strings.Cut(si.ID, ":"); ok {
			return strings.ToUpper(rest)
		}
	}
	return si.ID
}
