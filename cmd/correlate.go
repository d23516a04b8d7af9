package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/macrolens-cli/internal/export"
	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/panel"
	"github.com/KaramelBytes/macrolens-cli/internal/timeseries"
	"github.com/KaramelBytes/macrolens-cli/internal/upload"
)

var (
	corrOutput  string
	corrHorizon int
	corrStep    string
	corrTail    int
)

var correlateCmd = &cobra.Command{
	Use:   "correlate <files...>",
	Short: "Merge CSV/XLSX series on a shared calendar and correlate them",
	Example: `  macrolens correlate data/*.csv
  macrolens correlate cpi.csv liquidity.xlsx -o merged.csv --horizon 6`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if corrHorizon < 0 || corrHorizon > forecast.MaxHorizon {
			return fmt.Errorf("--horizon must be between 0 and %d", forecast.MaxHorizon)
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		series := map[string]*timeseries.Series{}
		for i, path := range files {
			s, err := upload.LoadSeries(path)
			if err != nil {
				var se *timeseries.StructuralError
				if errors.As(err, &se) {
					fmt.Fprintf(w, "⚠ Skipping %s: needs 'date' and 'value' columns (%v)\n", path, se)
				} else {
					fmt.Fprintf(w, "⚠ Skipping %s: %v\n", path, err)
				}
				continue
			}
			name := s.Name
			if _, dup := series[name]; dup {
				name = fmt.Sprintf("%s__%d", name, i+1)
			}
			series[name] = s.Rename(name)
			fmt.Fprintf(w, "[%d/%d] ✓ %s: %d observations\n", i+1, len(files), name, s.Len())
		}
		if len(series) == 0 {
			return fmt.Errorf("no usable series among %d file(s)", len(files))
		}

		p, m := panel.MergeAndCorrelate(series)
		fmt.Fprintf(w, "\nMerged panel: %d rows × %d series\n", p.Len(), len(p.Columns))
		tail := p.Tail(corrTail)
		for i, d := range tail.Dates {
			fmt.Fprintf(w, "  %s", d.Format(export.DateLayout))
			for _, v := range tail.Values[i] {
				fmt.Fprintf(w, "  %12s", fmtValue(v))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "\nCorrelation (pairwise complete):")
		printMatrix(w, m)
		if pairs := m.Pairs(); len(pairs) > 0 {
			fmt.Fprintf(w, "Strongest: %s vs %s (r = %.3f)\n", pairs[0].A, pairs[0].B, pairs[0].R)
		}

		if horizon := corrHorizon; horizon > 0 {
			step, err := resolveStep(corrStep)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "\nForecasts:")
			for _, col := range p.Columns {
				f := forecast.Forecast(p.Column(col), horizon, step)
				last, ok := f.Projection().Last()
				if !ok {
					fmt.Fprintf(w, "  %s: not enough observations\n", col)
					continue
				}
				fmt.Fprintf(w, "  %s: %s by %s\n", col, fmtValue(last.Value), last.Date.Format(export.DateLayout))
			}
		}

		if corrOutput != "" {
			path := outputPath(corrOutput)
			if err := export.SavePanel(path, p); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringVarP(&corrOutput, "output", "o", "", "write the merged panel to a .csv or .xlsx file")
	correlateCmd.Flags().IntVar(&corrHorizon, "horizon", 0, "also forecast each merged column this many steps")
	correlateCmd.Flags().StringVar(&corrStep, "step", "", "forecast step: month|30d (default from config)")
	correlateCmd.Flags().IntVar(&corrTail, "tail", 5, "number of merged rows to print")
}
