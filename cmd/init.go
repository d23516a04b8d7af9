package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/macrolens-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	initForce   bool
	initFREDKey string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfgpkg.Path(cfgFile)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}
		c := cfgpkg.Defaults()
		if initFREDKey != "" {
			if err := c.Set("fred_api_key", initFREDKey); err != nil {
				return err
			}
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config initialized: %s\n", path)
		if c.FREDAPIKey == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ No FRED API key set; US series will be unavailable until you run `macrolens config set fred_api_key <key>`")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&initFREDKey, "fred-api-key", "", "FRED API key to store")
}
