package source

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(base, key string) Settings {
	return Settings{
		FREDAPIKey:       key,
		FREDBaseURL:      base,
		WorldBankBaseURL: base,
		FXBaseURL:        base,
		Client: ClientOptions{
			Timeout:          2 * time.Second,
			RetryMaxAttempts: 1,
			RetryBaseDelay:   time.Millisecond,
			RetryMaxDelay:    time.Millisecond,
		},
	}
}

func TestLookup(t *testing.T) {
	si, err := Lookup("cpiaucsl")
	require.NoError(t, err)
	assert.Equal(t, ProviderFRED, si.Provider)

	si, err = Lookup("IN.CPI")
	require.NoError(t, err)
	assert.Equal(t, "FP.CPI.TOTL", si.Indicator)
	assert.Equal(t, 5, si.Horizon)

	si, err = Lookup("fred:gdp")
	require.NoError(t, err)
	assert.Equal(t, "GDP", si.remoteID())

	si, err = Lookup("wb:us/NY.GDP.MKTP.CD")
	require.NoError(t, err)
	assert.Equal(t, "US", si.Country)

	_, err = Lookup("nonsense")
	assert.ErrorIs(t, err, ErrUnknownSeries)
	_, err = Lookup("wb:US")
	assert.ErrorIs(t, err, ErrUnknownSeries)
}

func TestCatalogSorted(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 3)
	assert.Equal(t, "CPIAUCSL", c[0].ID)
	assert.Equal(t, "IN.CPI", c[1].ID)
	assert.Equal(t, "WALCL", c[2].ID)
}

func TestFetchDegradesToEmptySeries(t *testing.T) {
	f := NewFetcher(testSettings("http://127.0.0.1:1", ""), nil)

	out := f.Fetch(context.Background(), "CPIAUCSL")
	require.NotNil(t, out.Series)
	assert.True(t, out.Series.IsEmpty())
	assert.Equal(t, "CPIAUCSL", out.Series.Name)
	assert.True(t, IsUnavailable(out.Err))
	assert.False(t, out.OK())

	out = f.Fetch(context.Background(), "what")
	assert.True(t, errors.Is(out.Err, ErrUnknownSeries))
	assert.True(t, out.Series.IsEmpty())
}

func TestFetchAllIndependentSlots(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/fred/series/observations" && r.URL.Query().Get("series_id") == "CPIAUCSL":
			_, _ = w.Write([]byte(`{"observations":[{"date":"2021-01-01","value":"100"},{"date":"2021-02-01","value":"101"}]}`))
		case r.URL.Path == "/fred/series/observations":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/v2/country/IN/indicator/FP.CPI.TOTL":
			_, _ = w.Write([]byte(`[{"page":1},[{"date":"2020","value":150}]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	f := NewFetcher(testSettings(srv.URL, "key"), nil)

	outs := f.FetchAll(context.Background(), []string{"CPIAUCSL", "WALCL", "IN.CPI"})
	require.Len(t, outs, 3)

	assert.True(t, outs[0].OK())
	assert.Equal(t, 2, outs[0].Series.Len())

	var se *ServerError
	assert.ErrorAs(t, outs[1].Err, &se)
	assert.True(t, outs[1].Series.IsEmpty())
	assert.Equal(t, "WALCL", outs[1].Series.Name)

	assert.True(t, outs[2].OK())
	assert.Equal(t, "India CPI", outs[2].Label)
	assert.Equal(t, []float64{150}, outs[2].Series.Values())
}
