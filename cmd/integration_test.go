package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sc := range c.Commands() {
		resetFlags(sc)
	}
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// isolate points HOME at a temp dir, runs from a temp working dir and
// routes every provider to a closed local port.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("MACROLENS_FRED_API_KEY", "")
	t.Setenv("MACROLENS_FRED_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("MACROLENS_WORLDBANK_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("MACROLENS_FX_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("MACROLENS_RETRY_MAX_ATTEMPTS", "1")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCLI_CalcRisk(t *testing.T) {
	isolate(t)
	out := runCmd(t, "calc", "risk", "--equity", "40", "--debt", "40", "--gold", "20")
	assert.Equal(t, "Score: 36.0 → MODERATE RISK\n", out)

	_, _, err := execute(t, "calc", "risk", "--equity", "90", "--debt", "40", "--gold", "20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 100")
}

func TestCLI_CalcInflation(t *testing.T) {
	isolate(t)
	out := runCmd(t, "calc", "inflation", "--initial", "100", "--rate", "6", "--years", "5")
	assert.Equal(t, "Future price after 5 years → ₹133.82\n", out)
}

func TestCLI_ForecastFromFile(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "cpi.csv", "date,value\n2021-01-01,100\n2021-02-01,102\n2021-03-01,104\n")

	out := runCmd(t, "forecast", in, "--horizon", "2", "-o", "fc.csv")
	assert.Contains(t, out, "cpi: 3 observations")
	assert.Contains(t, out, "2021-04-01")
	assert.Contains(t, out, "2021-05-01")

	data, err := os.ReadFile(filepath.Join(home, "fc.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "date,value,is_forecast", lines[0])
	assert.True(t, strings.HasSuffix(lines[5], ",true"))
	assert.True(t, strings.HasPrefix(lines[5], "2021-05-01,"))
}

func TestCLI_ForecastShortSeriesNoProjection(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "short.csv", "date,value\n2021-01-01,1\n2021-02-01,2\n")
	out := runCmd(t, "forecast", in, "--horizon", "4")
	assert.Contains(t, out, "No projection for short")
}

func TestCLI_ForecastUnavailableSource(t *testing.T) {
	isolate(t)
	_, stderr, err := execute(t, "forecast", "CPIAUCSL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key not configured")
	assert.Contains(t, stderr, "FRED API key missing")
}

func TestCLI_ForecastReportsSkippedRows(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "cpi.csv", "date,value\n2021-01-01,100\nnot-a-date,5\n2021-02-01,102\n2021-03-01,104\n")
	out := runCmd(t, "forecast", in, "--horizon", "1")
	assert.Contains(t, out, "cpi: 3 observations (1 rows skipped)")
}

func TestCLI_HorizonOutOfRange(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "cpi.csv", "date,value\n2021-01-01,100\n2021-02-01,102\n2021-03-01,104\n")

	_, _, err := execute(t, "forecast", in, "--horizon", "9223372036854775807")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--horizon must be between 0 and 1200")

	_, _, err = execute(t, "forecast", in, "--horizon", "1201")
	require.Error(t, err)

	_, _, err = execute(t, "correlate", in, "--horizon", "5000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--horizon must be between 0 and 1200")

	out := runCmd(t, "forecast", in, "--horizon", "1200", "--tail", "1")
	assert.Contains(t, out, "Projection (1200 × month")
}

func TestCLI_SeriesFetchDateRange(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k123" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error_message":"Bad Request. The value for variable api_key is not registered."}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"observations":[
			{"date":"2021-01-01","value":"100"},
			{"date":"2021-02-01","value":"."},
			{"date":"2021-03-01","value":"104"},
			{"date":"2021-04-01","value":"106"},
			{"date":"2021-05-01","value":"108"}]}`)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("MACROLENS_FRED_BASE_URL", srv.URL)
	t.Setenv("MACROLENS_FRED_API_KEY", "k123")

	out := runCmd(t, "series", "fetch", "CPIAUCSL", "--from", "2021-02-01", "--to", "2021-04-30")
	assert.Contains(t, out, "2 observations, 1 rows skipped")
	assert.Contains(t, out, "  2021-03-01  104\n  2021-04-01  106\n")
	assert.NotContains(t, out, "2021-05-01  108")

	_, _, err := execute(t, "series", "fetch", "CPIAUCSL", "--from", "2030-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no observations in the requested date range")

	_, _, err = execute(t, "series", "fetch", "CPIAUCSL", "--to", "someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")
}

func TestCLI_CorrelateSkipsBadFiles(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeCSV(t, dir, "a.csv", "date,value\n2021-01-01,100\n2021-02-01,102\n2021-03-01,104\n")
	writeCSV(t, dir, "b.csv", "Date,Value\n2021-01-01,10\n2021-03-01,30\n")
	writeCSV(t, dir, "bad.csv", "day,price\n2021-01-01,1\n")

	out := runCmd(t, "correlate", filepath.Join(dir, "*.csv"), "-o", "merged.csv")
	assert.Contains(t, out, "⚠ Skipping")
	assert.Contains(t, out, "bad.csv")
	assert.Contains(t, out, "Merged panel: 3 rows × 2 series")
	assert.Contains(t, out, "Strongest: a vs b (r = 1.000)")

	data, err := os.ReadFile(filepath.Join(home, "merged.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date,a,b\n2021-01-01,100,10\n2021-02-01,102,20\n2021-03-01,104,30\n", string(data))
}

func TestCLI_CorrelateNoUsableFiles(t *testing.T) {
	home := isolate(t)
	bad := writeCSV(t, home, "bad.csv", "day,price\n2021-01-01,1\n")
	_, _, err := execute(t, "correlate", bad)
	assert.Error(t, err)
}

func TestCLI_ReportDegradesWhenOffline(t *testing.T) {
	home := isolate(t)
	out, stderr, err := execute(t, "report", "-o", "summary.txt")
	require.NoError(t, err)
	assert.Contains(t, stderr, "FRED API key missing")
	assert.Contains(t, out, "US CPI: not available")
	assert.Contains(t, out, "India CPI: not available")
	assert.Contains(t, out, "Fed Balance Sheet: not available")
	assert.Contains(t, out, "USD → INR: not available")

	data, err := os.ReadFile(filepath.Join(home, "summary.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "RBI Macro Dashboard Report\nGenerated on: "))
}

func TestCLI_ReportPDF(t *testing.T) {
	home := isolate(t)
	runCmd(t, "report", "-o", "report.pdf")
	data, err := os.ReadFile(filepath.Join(home, "report.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCLI_InitConfigSetShow(t *testing.T) {
	home := isolate(t)
	out := runCmd(t, "init")
	assert.Contains(t, out, "✓ Config initialized")
	_, err := os.Stat(filepath.Join(home, ".macrolens", "config.yaml"))
	require.NoError(t, err)

	_, _, err = execute(t, "init")
	assert.Error(t, err, "init must not overwrite")

	runCmd(t, "config", "set", "forecast_horizon", "6")
	out = runCmd(t, "config", "show")
	assert.Contains(t, out, "forecast_horizon: 6\n")
	assert.Contains(t, out, "forecast_step: month\n")

	_, _, err = execute(t, "config", "set", "forecast_step", "weekly")
	assert.Error(t, err)
}

func TestCLI_SeriesList(t *testing.T) {
	isolate(t)
	out := runCmd(t, "series", "list")
	assert.Contains(t, out, "CPIAUCSL")
	assert.Contains(t, out, "IN.CPI")
	assert.Contains(t, out, "WALCL")
}

func TestExpandInputsDedupesAndSorts(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "date,value\n")
	b := writeCSV(t, dir, "b.csv", "date,value\n")
	files, err := expandInputs([]string{b, filepath.Join(dir, "*.csv"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	_, err = expandInputs([]string{filepath.Join(dir, "*.xlsx")})
	assert.Error(t, err)
}

func TestCLI_ReportPolicyChecklist(t *testing.T) {
	isolate(t)
	out := runCmd(t, "report", "--policy")
	assert.Contains(t, out, "Risks when US CPI rises:\n- USD strengthens\n")
}
