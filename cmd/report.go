package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/macrolens-cli/internal/export"
	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/report"
	"github.com/KaramelBytes/macrolens-cli/internal/source"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
	"github.com/KaramelBytes/macrolens-cli/internal/upload"
)

var (
	reportOutput  string
	reportInclude []string
	reportTitle   string
	reportTop     int
	reportPolicy  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the macro summary report (text or PDF)",
	Example: `  macrolens report
  macrolens report -o rbi_macro_report.pdf
  macrolens report --include liquidity.csv -o summary.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := effectiveConfig()
		w := cmd.OutOrStdout()
		fetcher := newFetcher()

		outs := fetcher.FetchAll(ctx, []string{"CPIAUCSL", "IN.CPI", "WALCL"})
		missingKey := false
		for _, o := range outs {
			if o.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s unavailable: %v\n", o.ID, o.Err)
				missingKey = missingKey || source.IsUnavailable(o.Err)
			}
		}
		if missingKey {
			fmt.Fprintln(cmd.ErrOrStderr(), credentialHint)
		}
		us, india, fed := outs[0].Series, outs[1].Series, outs[2].Series
		rate, rateErr := fetcher.Rate(ctx, "USD", "INR")

		step, err := forecast.ParseStep(c.ForecastStep)
		if err != nil {
			step = forecast.StepMonth
		}
		b := report.NewBuilder().
			USCPI(us).
			IndiaCPI(india).
			FedBalanceSheet(fed).
			USDINR(rate, rateErr)
		if reportTitle != "" {
			b.Title = reportTitle
		}
		if reportTop > 0 {
			b.TopPairs = reportTop
		}
		b.PolicyRisks = reportPolicy
		if !us.IsEmpty() && c.ForecastHorizon > 0 {
			b.Forecast(forecast.Forecast(us, c.ForecastHorizon, step))
		}

		panelInput := map[string]*timeseries.Series{}
		for _, s := range []*timeseries.Series{us, india, fed} {
			if !s.IsEmpty() {
				panelInput[s.Name] = s
			}
		}
		if len(reportInclude) > 0 {
			files, err := expandInputs(reportInclude)
			if err != nil {
				return err
			}
			for _, path := range files {
				s, err := upload.LoadSeries(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipping %s: %v\n", path, err)
					continue
				}
				b.Series(s)
				panelInput[s.Name] = s
			}
		}
		if len(panelInput) >= 2 {
			_, m := panel.MergeAndCorrelate(panelInput)
			b.Correlations(m)
		}

		r := b.Build()
		fmt.Fprintln(w, r.Text())

		if reportOutput != "" {
			path := outputPath(reportOutput)
			var write func(io.Writer) error
			if strings.EqualFold(filepath.Ext(path), ".pdf") {
				write = func(out io.Writer) error { return report.WritePDF(out, r) }
			} else {
				write = func(out io.Writer) error {
					_, err := io.WriteString(out, r.Text()+"\n")
					return err
				}
			}
			if err := export.SaveFile(path, write); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a .pdf or text file")
	reportCmd.Flags().StringSliceVar(&reportInclude, "include", nil, "extra CSV/XLSX series (globs allowed) to average and correlate")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "report title")
	reportCmd.Flags().IntVar(&reportTop, "top", 0, "number of correlation pairs to list (default 3)")
	reportCmd.Flags().BoolVar(&reportPolicy, "policy", false, "append the monetary policy risk checklist")
}
