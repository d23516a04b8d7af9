package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Set assigns one key from its string form. The result is validated.
func (c *Global) Set(key, val string) error {
	val = strings.TrimSpace(val)
	prev := *c
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "fred_api_key":
		c.FREDAPIKey = val
	case "fred_base_url":
		c.FREDBaseURL = val
	case "worldbank_base_url":
		c.WorldBankBaseURL = val
	case "fx_base_url":
		c.FXBaseURL = val
	case "http_timeout_sec":
		return c.setInt(&c.HTTPTimeoutSec, key, val, prev)
	case "retry_max_attempts":
		return c.setInt(&c.RetryMaxAttempts, key, val, prev)
	case "retry_base_delay_ms":
		return c.setInt(&c.RetryBaseDelayMs, key, val, prev)
	case "retry_max_delay_ms":
		return c.setInt(&c.RetryMaxDelayMs, key, val, prev)
	case "requests_per_second":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		c.RequestsPerSecond = f
	case "forecast_horizon":
		return c.setInt(&c.ForecastHorizon, key, val, prev)
	case "forecast_step":
		c.ForecastStep = strings.ToLower(val)
	case "output_dir":
		c.OutputDir = val
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.validateOrRestore(prev)
}

func (c *Global) setInt(dst *int, key, val string, prev Global) error {
	i, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid int for %s: %w", key, err)
	}
	*dst = i
	return c.validateOrRestore(prev)
}

func (c *Global) validateOrRestore(prev Global) error {
	if err := c.Validate(); err != nil {
		*c = prev
		return err
	}
	return nil
}

// Values returns key/value pairs in Keys order with the API key masked.
func (c *Global) Values() [][2]string {
	r := c.Redacted()
	vals := map[string]string{
		"fred_api_key":        r.FREDAPIKey,
		"fred_base_url":       r.FREDBaseURL,
		"worldbank_base_url":  r.WorldBankBaseURL,
		"fx_base_url":         r.FXBaseURL,
		"http_timeout_sec":    strconv.Itoa(r.HTTPTimeoutSec),
		"retry_max_attempts":  strconv.Itoa(r.RetryMaxAttempts),
		"retry_base_delay_ms": strconv.Itoa(r.RetryBaseDelayMs),
		"retry_max_delay_ms":  strconv.Itoa(r.RetryMaxDelayMs),
		"requests_per_second": strconv.FormatFloat(r.RequestsPerSecond, 'f', -1, 64),
		"forecast_horizon":    strconv.Itoa(r.ForecastHorizon),
		"forecast_step":       r.ForecastStep,
		"output_dir":          r.OutputDir,
		"log_level":           r.LogLevel,
	}
	out := make([][2]string, 0, len(Keys))
	for _, k := range Keys {
		out = append(out, [2]string{k, vals[k]})
	}
	return out
}
