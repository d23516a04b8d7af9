package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestFREDObservations(t *testing.T) {
	var gotQuery map[string]string
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fred/series/observations" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"series_id": q.Get("series_id"), "api_key": q.Get("api_key"), "file_type": q.Get("file_type")}
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2021-02-01","value":"102.5"},
			{"date":"2021-01-01","value":"100"},
			{"date":"2021-03-01","value":"."}
		]}`))
	}))

	f := NewFRED(fastClient(), "k123", srv.URL)
	s, err := f.Observations(context.Background(), "CPIAUCSL")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"series_id": "CPIAUCSL", "api_key": "k123", "file_type": "json"}, gotQuery)
	assert.Equal(t, "CPIAUCSL", s.Name)
	assert.Equal(t, []time.Time{date(2021, 1, 1), date(2021, 2, 1)}, s.Dates())
	assert.Equal(t, []float64{100, 102.5}, s.Values())
	assert.Equal(t, 1, s.Dropped)
}

func TestFREDWithoutKeyIsUnavailable(t *testing.T) {
	f := NewFRED(fastClient(), "  ", "http://127.0.0.1:1")
	_, err := f.Observations(context.Background(), "CPIAUCSL")
	assert.True(t, IsUnavailable(err))
}

func TestFREDBadKeyIsAuthError(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":400,"error_message":"Bad Request.  The value for variable api_key is not registered."}`))
	}))
	_, err := NewFRED(fastClient(), "bad", srv.URL).Observations(context.Background(), "CPIAUCSL")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "400", ae.Code)
}

func TestFREDEmptyPayload(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations":[]}`))
	}))
	_, err := NewFRED(fastClient(), "k", srv.URL).Observations(context.Background(), "WALCL")
	var ee *EmptyPayloadError
	assert.ErrorAs(t, err, &ee)
}

func TestWorldBankIndicator(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/country/IN/indicator/FP.CPI.TOTL" || r.URL.Query().Get("format") != "json" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "500", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[{"page":1,"pages":1,"per_page":500,"total":3},[
			{"date":"2022","value":180.5,"countryiso3code":"IND"},
			{"date":"2021","value":null,"countryiso3code":"IND"},
			{"date":"2020","value":170,"countryiso3code":"IND"}
		]]`))
	}))
	s, err := NewWorldBank(fastClient(), srv.URL).Indicator(context.Background(), "IN", "FP.CPI.TOTL")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2020, 1, 1), date(2022, 1, 1)}, s.Dates())
	assert.Equal(t, []float64{170, 180.5}, s.Values())
}

func TestWorldBankErrorEnvelope(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"message":[{"id":"120","key":"Invalid value","value":"The provided parameter value is not valid"}]}]`))
	}))
	_, err := NewWorldBank(fastClient(), srv.URL).Indicator(context.Background(), "XX", "NOPE")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "120", nf.Code)
}

func TestWorldBankNullObservations(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"page":1,"pages":0,"total":0},null]`))
	}))
	_, err := NewWorldBank(fastClient(), srv.URL).Indicator(context.Background(), "IN", "FP.CPI.TOTL")
	var ee *EmptyPayloadError
	assert.ErrorAs(t, err, &ee)
}

func TestFXRate(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"base":  r.URL.Query().Get("base"),
			"rates": map[string]any{r.URL.Query().Get("symbols"): 83.25},
		})
	}))
	x := NewFX(fastClient(), srv.URL)
	v, err := x.Rate(context.Background(), "usd", "inr")
	require.NoError(t, err)
	assert.Equal(t, 83.25, v)
}

func TestFXMissingSymbol(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{}}`))
	}))
	_, err := NewFX(fastClient(), srv.URL).Rate(context.Background(), "USD", "INR")
	var ee *EmptyPayloadError
	assert.True(t, errors.As(err, &ee))
}
