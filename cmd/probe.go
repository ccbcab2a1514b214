package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JinxSeven/Risk-360/internal/connectivity"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the hosted backend is reachable",
	Long:  `Run the connectivity probe once and report which data path the server would select. Exits 2 in demo mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		runProbe()
	},
}

func runProbe() {
	cfg := mustLoadConfig()
	lg := logger.LoggerWrapper()
	ctx := context.Background()

	configured := cfg.Database.Configured() && !cfg.Backend.ForceDemo
	var pinger connectivity.Pinger
	if configured {
		db, err := initDB(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
			os.Exit(1)
		}
		pinger = db
	}

	probe := connectivity.NewDBProbe(pinger, configured, cfg.Backend.ProbeTimeout, lg)
	connected := probe.IsConnected(ctx)
	if closer, ok := pinger.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if connected {
		lg.Info("backend reachable", "mode", "remote")
		fmt.Println("remote")
		return
	}
	lg.Info("backend unavailable", "mode", "demo", "configured", configured)
	fmt.Println("demo")
	os.Exit(2)
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
