package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tmget/tm-downloader/internal/catalog"
	"github.com/tmget/tm-downloader/internal/config"
	"github.com/tmget/tm-downloader/internal/download"
	"github.com/tmget/tm-downloader/internal/plan"
	"github.com/tmget/tm-downloader/internal/platform"
	"github.com/tmget/tm-downloader/internal/report"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "tm-retry <html_file> [output_dir]",
	Short: "Re-attempt episodes missing from a downloaded collection",
	Long: `Re-parse the snapshot, compare the planned files against the output
directory, and download only the ones that are missing or empty. Downloads
run one at a time so failures are easy to read.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runRetry,
}

func init() {
	rootCmd.Flags().DurationVarP(&cfg.TaskTimeout, "task-timeout", "", config.DefaultTaskTimeout, "Time limit for a single download")
	rootCmd.Flags().StringVarP(&cfg.Tool, "tool", "", config.DefaultTool, "Download tool invoked once per episode")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRetry(cmd *cobra.Command, args []string) {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Checking for missing videos in %s...\n\n", cfg.OutputDir)

	episodes, err := catalog.ParseFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}
	if len(episodes) == 0 {
		log.Fatalf("No episodes found in %s", args[0])
	}

	missing := plan.Missing(plan.Build(episodes, cfg.OutputDir))
	if len(missing) == 0 {
		fmt.Println("✓ All videos downloaded successfully!")
		return
	}

	fmt.Printf("Found %d missing videos:\n\n", len(missing))
	for _, task := range missing {
		fmt.Printf("  - %s\n", task.GetDisplayName())
	}

	runner := &platform.ExecRunner{}
	service := download.NewService(runner, cfg)
	if err := service.CheckTool(); err != nil {
		log.Fatalf("Cannot download: %v", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Println("Retrying failed downloads (one at a time for better error messages)...")
	fmt.Printf("%s\n\n", strings.Repeat("=", 70))

	started := time.Now()
	outcomes := service.Run(ctx, missing, 1)

	summary := report.Summarize(outcomes, time.Since(started))
	report.RenderRetry(os.Stdout, summary)
}
