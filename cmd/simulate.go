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

var (
	simVehicles int
	simRequests int
	simCapacity int
	simOmega    float64
	simDelta    float64
	simPenalty  float64
	simSeed     int64
	simStrategy string
	simTimeout  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one decision epoch on a random scenario",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simVehicles, "vehicles", 0, "fleet size")
	simulateCmd.Flags().IntVar(&simRequests, "requests", 0, "number of requests")
	simulateCmd.Flags().IntVar(&simCapacity, "capacity", 0, "per-vehicle capacity")
	simulateCmd.Flags().Float64Var(&simOmega, "omega", 0, "max pickup wait in seconds")
	simulateCmd.Flags().Float64Var(&simDelta, "delta", 0, "max added delay in seconds")
	simulateCmd.Flags().Float64Var(&simPenalty, "penalty", 0, "cost per unserved request")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed")
	simulateCmd.Flags().StringVar(&simStrategy, "strategy", "", "assignment strategy: exact or greedy")
	simulateCmd.Flags().IntVar(&simTimeout, "timeout", 0, "exact solver timeout in seconds")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if simVehicles > 0 {
		cfg.Generator.Vehicles = simVehicles
	}
	if simRequests > 0 {
		cfg.Generator.Requests = simRequests
	}
	if simCapacity > 0 {
		cfg.Generator.Capacity = simCapacity
	}
	if simOmega > 0 {
		cfg.Epoch.MaxWaitSeconds = simOmega
	}
	if simDelta > 0 {
		cfg.Epoch.MaxDelaySeconds = simDelta
	}
	if simPenalty > 0 {
		cfg.Epoch.UnservedPenalty = simPenalty
	}
	if simSeed != 0 {
		cfg.Generator.Seed = simSeed
	}
	if simStrategy != "" {
		cfg.Dispatch.Strategy = simStrategy
	}
	if simTimeout > 0 {
		cfg.Dispatch.SolverTimeoutSeconds = simTimeout
	}
	if err := cfg.Validate(); err != nil {
		return err
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
	return svc.RunGenerated(ctx)
}
