package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/macrolens-cli/internal/export"
	"github.com/KaramelBytes/macrolens-cli/internal/source"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
)

var (
	seriesOutput string
	seriesTail   int
	seriesFrom   string
	seriesTo     string
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "List or fetch economic series",
	Example: `  macrolens series list
  macrolens series fetch CPIAUCSL -o us_cpi.csv
  macrolens series fetch wb:IN/FP.CPI.TOTL -o india.xlsx
  macrolens series fetch fred:UNRATE`,
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the built-in series catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s %-10s %-9s %-33s %s\n", "ID", "PROVIDER", "FREQ", "LABEL", "UNIT")
		for _, si := range source.Catalog() {
			fmt.Fprintf(out, "%-10s %-10s %-9s %-33s %s\n", si.ID, si.Provider, si.Frequency, si.Label, si.Unit)
		}
		fmt.Fprintln(out, "\nOther ids: fred:<SERIES_ID>, wb:<COUNTRY>/<INDICATOR>")
		return nil
	},
}

var seriesFetchCmd = &cobra.Command{
	Use:   "fetch <id>",
	Short: "Fetch a series, print its tail and optionally export it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseBound("--from", seriesFrom)
		if err != nil {
			return err
		}
		to, err := parseBound("--to", seriesTo)
		if err != nil {
			return err
		}
		out := newFetcher().Fetch(cmd.Context(), args[0])
		if out.Err != nil {
			if source.IsUnavailable(out.Err) {
				fmt.Fprintln(cmd.ErrOrStderr(), credentialHint)
			}
			return fmt.Errorf("fetch %s: %w", args[0], out.Err)
		}
		w := cmd.OutOrStdout()
		s := out.Series
		if !from.IsZero() || !to.IsZero() {
			dropped := s.Dropped
			s = s.Between(from, to)
			s.Dropped = dropped
			if s.IsEmpty() {
				return fmt.Errorf("%s: no observations in the requested date range", args[0])
			}
		}
		st := s.Stats()
		fmt.Fprintf(w, "✓ %s (%s): %d observations", out.Label, out.ID, st.Count)
		if s.Dropped > 0 {
			fmt.Fprintf(w, ", %d rows skipped", s.Dropped)
		}
		fmt.Fprintln(w)
		first, _ := s.First()
		last, _ := s.Last()
		fmt.Fprintf(w, "  range %s .. %s  min %s  max %s  mean %s\n",
			first.Date.Format(export.DateLayout), last.Date.Format(export.DateLayout),
			fmtValue(st.Min), fmtValue(st.Max), fmtValue(st.Mean))
		start := 0
		if seriesTail > 0 && s.Len() > seriesTail {
			start = s.Len() - seriesTail
		}
		for _, p := range s.Points[start:] {
			fmt.Fprintf(w, "  %s  %s\n", p.Date.Format(export.DateLayout), export.FormatValue(p.Value))
		}
		if seriesOutput != "" {
			path := outputPath(seriesOutput)
			if err := export.SaveSeries(path, s); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
		}
		return nil
	},
}

// parseBound reads an optional --from/--to date; empty means open.
func parseBound(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, ok := timeseries.ParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("%s: unrecognized date %q", flag, v)
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(seriesListCmd)
	seriesCmd.AddCommand(seriesFetchCmd)
	seriesFetchCmd.Flags().StringVarP(&seriesOutput, "output", "o", "", "write the series to a .csv or .xlsx file")
	seriesFetchCmd.Flags().IntVar(&seriesTail, "tail", 5, "number of latest observations to print (0 = all)")
	seriesFetchCmd.Flags().StringVar(&seriesFrom, "from", "", "keep observations on or after this date")
	seriesFetchCmd.Flags().StringVar(&seriesTo, "to", "", "keep observations on or before this date")
}
