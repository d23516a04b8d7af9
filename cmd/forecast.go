package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/macrolens-cli/internal/export"
	"github.com/KaramelBytes/macrolens-cli/internal/forecast"
	"github.com/KaramelBytes/macrolens-cli/internal/source"
)

var (
	fcHorizon int
	fcStep    string
	fcOutput  string
	fcTail    int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <file|series-id>",
	Short: "Project a linear trend forward from a series",
	Example: `  macrolens forecast us_cpi.csv --horizon 12
  macrolens forecast CPIAUCSL --step 30d -o cpi_forecast.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := resolveStep(fcStep)
		if err != nil {
			return err
		}
		horizon := resolveHorizon(fcHorizon, cmd.Flags().Changed("horizon"))
		if horizon < 0 || horizon > forecast.MaxHorizon {
			return fmt.Errorf("--horizon must be between 0 and %d", forecast.MaxHorizon)
		}
		s, err := loadSeriesArg(cmd.Context(), args[0])
		if err != nil {
			if source.IsUnavailable(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), credentialHint)
			}
			return err
		}
		if s.IsEmpty() {
			return fmt.Errorf("%s: no usable observations", args[0])
		}
		f := forecast.Forecast(s, horizon, step)
		log.WithField("series", f.Name).WithField("points", s.Len()).Debug("forecast computed")

		w := cmd.OutOrStdout()
		printForecast(w, f, fcTail)
		if fcOutput != "" {
			path := outputPath(fcOutput)
			if err := export.SaveForecast(path, f); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().IntVar(&fcHorizon, "horizon", 12, "number of future points (default from config)")
	forecastCmd.Flags().StringVar(&fcStep, "step", "", "step between future points: month|30d (default from config)")
	forecastCmd.Flags().StringVarP(&fcOutput, "output", "o", "", "write history and projection to a .csv or .xlsx file")
	forecastCmd.Flags().IntVar(&fcTail, "tail", 5, "number of latest observations to print (0 = all)")
}
