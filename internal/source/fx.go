package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// DefaultFXBaseURL is the exchange-rate API root.
const DefaultFXBaseURL = "https://api.exchangerate.host"

// FX reads spot exchange rates.
type FX struct {
	client  *Client
	baseURL string
}

func NewFX(c *Client, baseURL string) *FX {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultFXBaseURL
	}
	return &FX{client: c, baseURL: strings.TrimRight(baseURL, "/")}
}

// Rate returns how many units of symbol one unit of base buys.
func (x *FX) Rate(ctx context.Context, base, symbol string) (float64, error) {
	base, symbol = strings.ToUpper(base), strings.ToUpper(symbol)
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", symbol)

	var payload struct {
		Rates map[string]any `json:"rates"`
	}
	if err := x.client.getJSON(ctx, "fx", x.baseURL+"/latest", q, &payload); err != nil {
		return 0, err
	}
	raw, ok := payload.Rates[symbol]
	if !ok {
		return 0, &EmptyPayloadError{Source: "fx", ID: base + symbol}
	}
	v, ok := timeseries.ParseValue(raw)
	if !ok {
		return 0, fmt.Errorf("fx %s%s: unparseable rate %v", base, symbol, raw)
	}
	return v, nil
}
