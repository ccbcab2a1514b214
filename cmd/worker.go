package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background jobs that act on the selected data path.`,
}

var overdueWorkerCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark pending compliance requirements past their deadline as Overdue",
	Long:  `Periodically store Overdue on Pending requirements whose deadline has passed. Use --once for a single sweep.`,
	Run: func(cmd *cobra.Command, args []string) {
		startOverdueWorker()
	},
}

var (
	overdueInterval time.Duration
	overdueOnce     bool
)

func startOverdueWorker() {
	cfg := mustLoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if overdueOnce {
		moved, err := grc.EscalateOverdue(ctx, deps.Data, time.Now(), deps.Logger)
		if err != nil {
			deps.Logger.Error("overdue sweep failed", "error", err)
			os.Exit(1)
		}
		deps.Logger.Info("overdue sweep complete", "moved", moved)
		return
	}

	deps.Logger.Info("overdue worker is running. Press Ctrl+C to stop.", "interval", overdueInterval)
	grc.NewOverdueWorker(deps.Data, overdueInterval, deps.Logger).Run(ctx)
}

func init() {
	overdueWorkerCmd.Flags().DurationVar(&overdueInterval, "interval", time.Hour, "time between sweeps")
	overdueWorkerCmd.Flags().BoolVar(&overdueOnce, "once", false, "run a single sweep and exit")

	workerCmd.AddCommand(overdueWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
