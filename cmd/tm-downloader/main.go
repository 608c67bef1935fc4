package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tmget/tm-downloader/internal/catalog"
	"github.com/tmget/tm-downloader/internal/config"
	"github.com/tmget/tm-downloader/internal/download"
	"github.com/tmget/tm-downloader/internal/model"
	"github.com/tmget/tm-downloader/internal/plan"
	"github.com/tmget/tm-downloader/internal/platform"
	"github.com/tmget/tm-downloader/internal/report"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "tm-downloader <html_file> [output_dir]",
	Short: "Download every episode referenced by a saved thoughtmaybe.com snapshot",
	Long: `Parse a saved HTML snapshot of thoughtmaybe.com series pages (one file,
many concatenated documents), plan one file per episode under
"(<year>) <series>/<nn> - <title>", and download everything in parallel
through wget. Files that already exist are skipped, so an interrupted run
can simply be started again.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runDownload,
}

func init() {
	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", 0, "Number of parallel downloads. Default (0) == size from a speed probe")
	rootCmd.Flags().DurationVarP(&cfg.TaskTimeout, "task-timeout", "", config.DefaultTaskTimeout, "Time limit for a single download")
	rootCmd.Flags().StringVarP(&cfg.Tool, "tool", "", config.DefaultTool, "Download tool invoked once per episode")
	rootCmd.Flags().BoolVarP(&cfg.NoProbe, "no-probe", "", false, "Skip the speed probe and use the default worker count")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Debug logging; disables the progress bar")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDownload(cmd *cobra.Command, args []string) {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("ThoughtMaybe Documentary Downloader")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Parsing %s...\n\n", args[0])

	content, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read %s: %v", args[0], err)
	}
	episodes := catalog.Parse(string(content))
	if len(episodes) == 0 {
		log.Fatalf("No episodes found in %s", args[0])
	}
	printListing(len(catalog.SplitDocuments(string(content))), episodes)

	tasks := plan.Build(episodes, cfg.OutputDir)

	runner := &platform.ExecRunner{}
	service := download.NewService(runner, cfg)
	if err := service.CheckTool(); err != nil {
		log.Fatalf("Cannot download: %v", err)
	}
	if err := platform.CreateDirectoryIfNotExists(cfg.OutputDir); err != nil {
		log.Fatalf("Cannot create output directory: %v", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		if cfg.NoProbe {
			workers = download.DefaultWorkers
		} else {
			workers = download.AutoWorkers(ctx, runner, tasks[0].Episode.SourceURL)
		}
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Starting download of %d videos...\n", len(tasks))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	var bar *progressbar.ProgressBar
	if !cfg.Verbose {
		bar = progressbar.Default(int64(len(tasks)), "downloading")
		service.SetOutcomeCallback(func(model.DownloadOutcome) {
			bar.Add(1)
		})
	}

	started := time.Now()
	outcomes := service.Run(ctx, tasks, workers)
	if bar != nil {
		bar.Exit()
	}

	summary := report.Summarize(outcomes, time.Since(started))
	report.Render(os.Stdout, summary, cfg.OutputDir)
}

// printListing reproduces the parse listing: one numbered line per series,
// then the overall totals.
func printListing(documents int, episodes []model.Episode) {
	fmt.Printf("Found %d documentaries in file\n\n", documents)

	counts := catalog.CountSeries(episodes)
	for i, series := range counts {
		fmt.Printf("  [%2d] (%s) %s - %d episode(s)\n",
			i+1, model.YearLabel(series.Year), series.Series, series.Episodes)
	}
	fmt.Printf("\nFound %d series with %d total episodes\n", len(counts), len(episodes))
}
