package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// DefaultWorldBankBaseURL is the public World Bank API root.
const DefaultWorldBankBaseURL = "https://api.worldbank.org"

// WorldBank reads country indicators from the World Bank open data API.
type WorldBank struct {
	client  *Client
	baseURL string
}

func NewWorldBank(c *Client, baseURL string) *WorldBank {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultWorldBankBaseURL
	}
	return &WorldBank{client: c, baseURL: strings.TrimRight(baseURL, "/")}
}

type wbMessage struct {
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

// Indicator fetches indicator for country. The payload is a two element
// array of paging metadata and observations; yearly dates map to January 1.
func (w *WorldBank) Indicator(ctx context.Context, country, indicator string) (*timeseries.Series, error) {
	id := country + "/" + indicator
	endpoint := fmt.Sprintf("%s/v2/country/%s/indicator/%s",
		w.baseURL, url.PathEscape(country), url.PathEscape(indicator))
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", "500")

	var parts []json.RawMessage
	if err := w.client.getJSON(ctx, "worldbank", endpoint, q, &parts); err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		// A single element is how the API reports invalid arguments.
		if len(parts) == 1 {
			var msg wbMessage
			if err := json.Unmarshal(parts[0], &msg); err == nil && len(msg.Message) > 0 {
				m := msg.Message[0]
				return nil, &NotFoundError{APIError: &APIError{Source: "worldbank", StatusCode: 200, Code: m.ID, Message: m.Value}}
			}
		}
		return nil, &EmptyPayloadError{Source: "worldbank", ID: id}
	}
	var records []timeseries.Record
	if err := json.Unmarshal(parts[1], &records); err != nil {
		return nil, fmt.Errorf("worldbank %s: decode observations: %w", id, err)
	}
	if len(records) == 0 {
		return nil, &EmptyPayloadError{Source: "worldbank", ID: id}
	}
	s, err := timeseries.Normalize(timeseries.Table{Records: records}, "date", "value")
	if err != nil {
		return nil, fmt.Errorf("worldbank %s: %w", id, err)
	}
	s.Name = id
	return s, nil
}
