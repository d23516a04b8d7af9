// Package report assembles the plain-text macro summary and renders it.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

const (
	DefaultTitle     = "RBI Macro Dashboard Report"
	DefaultSMAPeriod = 12
	DefaultTopPairs  = 3
	timestampLayout  = "2006-01-02 15:04 UTC"
	dateLayout       = "2006-01-02"
)

var printer = message.NewPrinter(language.English)

// policyRisks is the static monetary policy checklist appended on request.
var policyRisks = []struct {
	Heading string
	Items   []string
}{
	{"Risks when interest rates increase", []string{"Borrowing cost rises", "GDP growth slows", "Bond prices fall", "Stock market correction", "EM currency depreciation"}},
	{"Risks when liquidity increases", []string{"Inflation rises", "Asset bubble risk", "Currency weakens", "Excessive credit growth"}},
	{"Risks when inflation rises", []string{"Purchasing power falls", "Corporate margins shrink", "Monetary tightening expected"}},
	{"Risks when US CPI rises", []string{"USD strengthens", "FPI outflows from India", "RBI may be forced to hike"}},
}

// Metric is one labeled figure of the report, in display order.
type Metric struct {
	Label string
	Value string
}

// Report is the rendered summary.
type Report struct {
	ID          string
	Title       string
	GeneratedAt time.Time
	Metrics     []Metric
	lines       []string
}

// Lines returns the report lines in order.
func (r *Report) Lines() []string { return append([]string(nil), r.lines...) }

// Text joins the lines with newlines.
func (r *Report) Text() string { return strings.Join(r.lines, "\n") }

// Builder collects inputs; any of them may be missing or empty.
type Builder struct {
	Title     string
	SMAPeriod int
	TopPairs  int
	Now       func() time.Time
	NewID     func() string

	// PolicyRisks appends the monetary policy risk checklist.
	PolicyRisks bool

	usCPI     *timeseries.Series
	indiaCPI  *timeseries.Series
	fed       *timeseries.Series
	usdinr    float64
	hasUSDINR bool
	extra     []*timeseries.Series
	forecasts []*forecast.Forecasted
	matrix    *panel.Matrix
}

func NewBuilder() *Builder {
	return &Builder{
		Title:     DefaultTitle,
		SMAPeriod: DefaultSMAPeriod,
		TopPairs:  DefaultTopPairs,
		Now:       time.Now,
		NewID:     func() string { return uuid.NewString() },
	}
}

func (b *Builder) USCPI(s *timeseries.Series) *Builder {
	b.usCPI = s
	return b
}

func (b *Builder) IndiaCPI(s *timeseries.Series) *Builder {
	b.indiaCPI = s
	return b
}

func (b *Builder) FedBalanceSheet(s *timeseries.Series) *Builder {
	b.fed = s
	return b
}

// USDINR records the exchange rate; a non-nil err or non-positive rate
// marks it unavailable.
func (b *Builder) USDINR(rate float64, err error) *Builder {
	b.usdinr, b.hasUSDINR = rate, err == nil && rate > 0
	return b
}

// Series adds an extra series whose moving average is reported.
func (b *Builder) Series(s *timeseries.Series) *Builder {
	b.extra = append(b.extra, s)
	return b
}

func (b *Builder) Forecast(f *forecast.Forecasted) *Builder {
	if f != nil {
		b.forecasts = append(b.forecasts, f)
	}
	return b
}

func (b *Builder) Correlations(m *panel.Matrix) *Builder {
	b.matrix = m
	return b
}

// Build renders the report.
func (b *Builder) Build() *Report {
	r := &Report{ID: b.NewID(), Title: b.Title, GeneratedAt: b.Now().UTC()}
	add := func(s string) { r.lines = append(r.lines, s) }
	metric := func(label, value string) { r.Metrics = append(r.Metrics, Metric{Label: label, Value: value}) }

	add(r.Title)
	add("Generated on: " + r.GeneratedAt.Format(timestampLayout))
	add("Report ID: " + r.ID)
	add("")

	if p, ok := b.usCPI.Last(); ok {
		add(fmt.Sprintf("Latest US CPI (CPIAUCSL): %s on %s", printer.Sprintf("%.2f", p.Value), p.Date.Format(dateLayout)))
		metric("US CPI", printer.Sprintf("%.2f", p.Value))
	} else {
		add("US CPI: not available (FRED key missing or API error)")
	}
	if p, ok := b.indiaCPI.Last(); ok {
		add(fmt.Sprintf("Latest India CPI (World Bank): %s on %s", printer.Sprintf("%.2f", p.Value), p.Date.Format(dateLayout)))
		metric("India CPI", printer.Sprintf("%.2f", p.Value))
	} else {
		add("India CPI: not available")
	}
	if p, ok := b.fed.Last(); ok {
		add("Latest Fed Balance Sheet (WALCL): " + printer.Sprintf("%.0f", p.Value))
		metric("Fed Balance Sheet", printer.Sprintf("%.0f", p.Value))
	} else {
		add("Fed Balance Sheet: not available")
	}
	if b.hasUSDINR {
		add(fmt.Sprintf("USD → INR: %.2f", b.usdinr))
		metric("USD/INR", fmt.Sprintf("%.2f", b.usdinr))
	} else {
		add("USD → INR: not available")
	}

	if avg := b.movingAverages(); len(avg) > 0 {
		add("")
		for _, l := range avg {
			add(l)
		}
	}
	if len(b.forecasts) > 0 {
		add("")
		for _, f := range b.forecasts {
			add(forecastLine(f))
		}
	}
	if b.matrix != nil {
		pairs := b.matrix.Pairs()
		if len(pairs) > b.TopPairs && b.TopPairs > 0 {
			pairs = pairs[:b.TopPairs]
		}
		if len(pairs) > 0 {
			add("")
			for _, pc := range pairs {
				add(fmt.Sprintf("Correlation %s vs %s: %.2f", pc.A, pc.B, pc.R))
			}
		}
	}

	if note, ok := b.cpiNote(); ok {
		add("")
		add(note)
	}
	if b.PolicyRisks {
		for _, sec := range policyRisks {
			add("")
			add(sec.Heading + ":")
			for _, item := range sec.Items {
				add("- " + item)
			}
		}
	}
	return r
}

func (b *Builder) movingAverages() []string {
	var out []string
	all := append([]*timeseries.Series{b.usCPI, b.indiaCPI, b.fed}, b.extra...)
	for _, s := range all {
		if s.IsEmpty() {
			continue
		}
		if v, ok := SMA(s, b.SMAPeriod); ok {
			out = append(out, fmt.Sprintf("%d-period moving average (%s): %s", b.SMAPeriod, s.Name, printer.Sprintf("%.2f", v)))
		} else {
			out = append(out, fmt.Sprintf("%d-period moving average (%s): not available (%d points)", b.SMAPeriod, s.Name, s.Len()))
		}
	}
	return out
}

// SMA returns the simple moving average of the last period values.
func SMA(s *timeseries.Series, period int) (float64, bool) {
	if period <= 0 || s.Len() < period {
		return 0, false
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(s.Values())))
	if len(out) == 0 {
		return 0, false
	}
	return out[len(out)-1], true
}

func forecastLine(f *forecast.Forecasted) string {
	proj := f.Projection()
	last, ok := proj.Last()
	if !ok {
		return fmt.Sprintf("Forecast %s: not available (needs at least %d points)", f.Name, forecast.MinHistory)
	}
	return fmt.Sprintf("Forecast %s: %s by %s (%d %s steps)",
		f.Name, printer.Sprintf("%.2f", last.Value), last.Date.Format(dateLayout), f.Horizon, f.Step)
}

func (b *Builder) cpiNote() (string, bool) {
	in, okIn := b.indiaCPI.Last()
	us, okUS := b.usCPI.Last()
	if !okIn || !okUS {
		return "", false
	}
	if in.Value > us.Value {
		return "Note: India CPI (latest annual) > US CPI (latest). Monitor RBI stance relative to global tightening.", true
	}
	return "Note: India CPI <= US CPI. Global considerations apply.", true
}
