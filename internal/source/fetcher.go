package source

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

// Settings carries what a Fetcher needs from configuration.
type Settings struct {
	FREDAPIKey       string
	FREDBaseURL      string
	WorldBankBaseURL string
	FXBaseURL        string
	Client           ClientOptions
}

// Outcome is the result of fetching one series. On failure Series is an
// empty series carrying the requested name and Err says why.
type Outcome struct {
	ID     string
	Label  string
	Series *timeseries.Series
	Err    error
}

// OK reports whether the fetch produced at least one observation.
func (o Outcome) OK() bool { return o.Err == nil && !o.Series.IsEmpty() }

// Fetcher routes series ids to the provider adapters.
type Fetcher struct {
	fred *FRED
	wb   *WorldBank
	fx   *FX
	log  *logrus.Logger
}

// NewFetcher builds adapters sharing one rate-limited client.
func NewFetcher(s Settings, log *logrus.Logger) *Fetcher {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	c := NewClient(s.Client, log)
	return &Fetcher{
		fred: NewFRED(c, s.FREDAPIKey, s.FREDBaseURL),
		wb:   NewWorldBank(c, s.WorldBankBaseURL),
		fx:   NewFX(c, s.FXBaseURL),
		log:  log,
	}
}

// Fetch retrieves one series. It never returns a nil Series.
func (f *Fetcher) Fetch(ctx context.Context, id string) Outcome {
	out := Outcome{ID: id, Label: id}
	info, err := Lookup(id)
	if err != nil {
		return f.fail(out, err)
	}
	out.Label = info.Label

	var s *timeseries.Series
	switch info.Provider {
	case ProviderFRED:
		s, err = f.fred.Observations(ctx, info.remoteID())
	case ProviderWorldBank:
		s, err = f.wb.Indicator(ctx, info.Country, info.Indicator)
	default:
		err = fmt.Errorf("%w: no provider for %q", ErrUnknownSeries, id)
	}
	if err != nil {
		return f.fail(out, err)
	}
	s.Name = id
	out.Series = s
	f.log.WithFields(logrus.Fields{
		"series":  id,
		"points":  s.Len(),
		"dropped": s.Dropped,
	}).Debug("fetched series")
	return out
}

func (f *Fetcher) fail(out Outcome, err error) Outcome {
	out.Series = timeseries.Empty(out.ID)
	out.Err = err
	f.log.WithField("series", out.ID).Warnf("fetch failed: %v", err)
	return out
}

// FetchAll fetches ids concurrently. Each outcome lands in its own slot in
// input order; one failure does not affect the others.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string) []Outcome {
	out := make([]Outcome, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			out[i] = f.Fetch(gctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Rate returns the spot FX rate for base to symbol.
func (f *Fetcher) Rate(ctx context.Context, base, symbol string) (float64, error) {
	v, err := f.fx.Rate(ctx, base, symbol)
	if err != nil {
		f.log.WithField("pair", base+symbol).Warnf("fx rate failed: %v", err)
		return 0, err
	}
	return v, nil
}
