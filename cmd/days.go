package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridarb/gridarb/config"
	"github.com/gridarb/gridarb/infra/dataset"
)

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Count the complete trading days in the configured dataset",
	RunE:  runDays,
}

func init() {
	rootCmd.AddCommand(daysCmd)
}

func runDays(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	series, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), series.Days(cfg.Market.PeriodsPerDay))
	return nil
}
