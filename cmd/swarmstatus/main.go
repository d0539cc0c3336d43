// swarmstatus aggregates the farmstand test-fixing agent swarm's status,
// progress, and log files into a single health snapshot, either once or on
// a fixed interval with a live terminal dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/farmstand/swarmstatus/internal/aggregator"
	"github.com/farmstand/swarmstatus/internal/config"
	"github.com/farmstand/swarmstatus/internal/render"
	"github.com/farmstand/swarmstatus/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "swarmstatus",
	Short: "Aggregate agent swarm status into a single health snapshot",
	Long: `swarmstatus monitors the test-fixing agent swarm through its shared
communication directory. Each cycle it reads every agent's status JSON,
progress markdown, and tool log, scores progress and health, and overwrites
aggregate-status.json with a consolidated snapshot.

Examples:
  # One-shot: write the snapshot and print it as JSON
  swarmstatus --once

  # Live dashboard, refreshing every 30s
  swarmstatus

  # Watch a different communication directory at a faster cadence
  swarmstatus --base /tmp/swarm --interval 10s`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().Bool("once", false, "aggregate once, print JSON, and exit")
	rootCmd.Flags().String("base", "", "communication directory (default "+config.DefaultBaseDir+")")
	rootCmd.Flags().String("config", ".swarmstatus.yaml", "path to config file")
	rootCmd.Flags().Duration("interval", 0, "cycle interval in continuous mode (default 30s)")
	rootCmd.Flags().Bool("json", false, "print raw JSON each cycle instead of the dashboard")
}

func run(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")
	base, _ := cmd.Flags().GetString("base")
	configPath, _ := cmd.Flags().GetString("config")
	interval, _ := cmd.Flags().GetDuration("interval")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if base != "" {
		cfg.BaseDir = base
	}
	if interval > 0 {
		cfg.Interval = interval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	agg := aggregator.New(cfg)

	if once {
		report, err := agg.Aggregate()
		if err != nil {
			return err
		}
		return printJSON(report)
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("%s\n", cyan("swarmstatus: watching "+cfg.BaseDir))
	fmt.Printf("Aggregating every %v. Press Ctrl+C to stop.\n", cfg.Interval)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	runner := aggregator.NewRunner(agg, cfg.Interval, func(report *types.AggregateReport) {
		if asJSON {
			if err := printJSON(report); err != nil {
				log.Printf("Error rendering report: %v", err)
			}
			return
		}
		render.ClearScreen(os.Stdout)
		render.Dashboard(os.Stdout, report, cfg)
	})

	if err := runner.Run(ctx); err != nil {
		return err
	}

	fmt.Println("\nswarmstatus stopped.")
	return nil
}

func printJSON(report *types.AggregateReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
