package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridarb/gridarb/app"
	"github.com/gridarb/gridarb/config"
	"github.com/gridarb/gridarb/infra/logger"
)

var (
	cfgPath string
	dayFlag int
)

var rootCmd = &cobra.Command{
	Use:   "gridarb",
	Short: "Two-stage battery trading optimiser",
	Long: "gridarb computes an optimal charge/discharge schedule for a grid-connected\n" +
		"battery trading sequentially in the day-ahead and intra-day markets.",
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().IntVar(&dayFlag, "day", -1, "trading day index, overrides the configured day")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	if dayFlag >= 0 {
		return svc.RunDay(ctx, dayFlag)
	}
	return svc.Run(ctx)
}
