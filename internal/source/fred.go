package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// DefaultFREDBaseURL is the public FRED endpoint root.
const DefaultFREDBaseURL = "https://api.stlouisfed.org"

// FRED reads observations from the Federal Reserve Economic Data API.
type FRED struct {
	client  *Client
	apiKey  string
	baseURL string
}

// NewFRED returns a FRED adapter. An empty apiKey yields an adapter whose
// calls fail with *UnavailableError without touching the network.
func NewFRED(c *Client, apiKey, baseURL string) *FRED {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultFREDBaseURL
	}
	return &FRED{client: c, apiKey: strings.TrimSpace(apiKey), baseURL: strings.TrimRight(baseURL, "/")}
}

type fredObservations struct {
	Observations []timeseries.Record `json:"observations"`
}

// Observations fetches the full history of seriesID.
func (f *FRED) Observations(ctx context.Context, seriesID string) (*timeseries.Series, error) {
	if f.apiKey == "" {
		return nil, &UnavailableError{Source: "fred", Reason: "api key not configured (set fred_api_key or MACROLENS_FRED_API_KEY)"}
	}
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.apiKey)
	q.Set("file_type", "json")

	var payload fredObservations
	if err := f.client.getJSON(ctx, "fred", f.baseURL+"/fred/series/observations", q, &payload); err != nil {
		return nil, err
	}
	if len(payload.Observations) == 0 {
		return nil, &EmptyPayloadError{Source: "fred", ID: seriesID}
	}
	s, err := timeseries.Normalize(timeseries.Table{Records: payload.Observations}, "date", "value")
	if err != nil {
		return nil, fmt.Errorf("fred %s: %w", seriesID, err)
	}
	s.Name = seriesID
	return s, nil
}
