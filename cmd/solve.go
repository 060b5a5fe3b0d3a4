package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fleetsim/ridepool/app"
	"github.com/fleetsim/ridepool/infra/logger"
)

var solveOutput string
var solveFormat string

var solveCmd = &cobra.Command{
	Use:   "solve <scenario.yaml>",
	Short: "Run one decision epoch from a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "assignment output path, stdout when empty")
	solveCmd.Flags().StringVar(&solveFormat, "format", "", "output format: json or csv")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if solveOutput != "" {
		cfg.Output.Path = solveOutput
	}
	if solveFormat != "" {
		cfg.Output.Format = solveFormat
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
	return svc.RunScenario(ctx, args[0])
}
