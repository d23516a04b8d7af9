package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/macrolens-cli/internal/portfolio"
)

var (
	riskEquity float64
	riskDebt   float64
	riskGold   float64

	inflInitial float64
	inflRate    float64
	inflYears   int
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Portfolio riskometer and inflation calculator",
}

var calcRiskCmd = &cobra.Command{
	Use:     "risk",
	Short:   "Score an equity/debt/gold allocation",
	Example: `  macrolens calc risk --equity 40 --debt 40 --gold 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := portfolio.RiskScore(portfolio.Allocation{Equity: riskEquity, Debt: riskDebt, Gold: riskGold})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Score: %s\n", r)
		return nil
	},
}

var calcInflationCmd = &cobra.Command{
	Use:     "inflation",
	Short:   "Project a price forward at a constant inflation rate",
	Example: `  macrolens calc inflation --initial 100 --rate 6 --years 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := portfolio.ProjectPrice(inflInitial, inflRate, inflYears)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Future price after %d years → ₹%s\n", inflYears, v.StringFixed(2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcRiskCmd)
	calcCmd.AddCommand(calcInflationCmd)
	calcRiskCmd.Flags().Float64Var(&riskEquity, "equity", 40, "equity share in percent")
	calcRiskCmd.Flags().Float64Var(&riskDebt, "debt", 40, "debt share in percent")
	calcRiskCmd.Flags().Float64Var(&riskGold, "gold", 20, "gold/commodities share in percent")
	calcInflationCmd.Flags().Float64Var(&inflInitial, "initial", 100, "initial price")
	calcInflationCmd.Flags().Float64Var(&inflRate, "rate", 6, "annual inflation rate in percent")
	calcInflationCmd.Flags().IntVar(&inflYears, "years", 5, "number of years (>= 1)")
}
