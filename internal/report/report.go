package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tmget/tm-downloader/internal/model"
)

// ruleWidth is the width of the `=` rules framing the summary blocks.
const ruleWidth = 70

// Summarize folds a run's outcomes into a RunSummary. Every outcome lands in
// exactly one of the three counters; bytes accumulate over fresh downloads
// only, elapsed time over everything the tool actually spent.
func Summarize(outcomes []model.DownloadOutcome, wall time.Duration) model.RunSummary {
	summary := model.RunSummary{Wall: wall}
	for _, outcome := range outcomes {
		summary.Cumulative += outcome.Elapsed
		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Succeeded():
			summary.Succeeded++
			summary.TotalBytes += outcome.Bytes
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, outcome)
		}
	}
	return summary
}

// Render writes the end-of-run summary block, the failed-download list, and
// the retry hint when anything failed.
func Render(w io.Writer, summary model.RunSummary, outputDir string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, "Download Complete!")
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "Success: %d | Failed: %d | Skipped: %d\n",
		summary.Succeeded, summary.Failed, summary.Skipped)
	fmt.Fprintf(w, "Total Downloaded: %s\n", humanize.Bytes(uint64(summary.TotalBytes)))
	fmt.Fprintf(w, "Total Time: %.1f minutes\n", summary.Wall.Minutes())
	fmt.Fprintf(w, "Average Speed: %.1f Mbps\n", summary.AverageMbps())
	fmt.Fprintf(w, "Cumulative Download Time: %.1f minutes\n", summary.Cumulative.Minutes())
	fmt.Fprintf(w, "Time Saved (Parallel): %.1f minutes\n", summary.TimeSaved().Minutes())
	fmt.Fprintf(w, "\nVideos organized in: %s\n", outputDir)
	fmt.Fprintln(w, rule())

	if len(summary.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d downloads failed:\n", summary.Failed)
	for _, failure := range summary.Failures {
		fmt.Fprintf(w, "  - %s: %s\n", failure.Task.GetDisplayName(), failure.ErrorSummary())
	}
	fmt.Fprintln(w, "\nRun tm-retry with the same arguments to attempt them again.")
}

// RenderRetry writes the summary block for a retry pass, listing what is
// still failing after the attempt.
func RenderRetry(w io.Writer, summary model.RunSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, "Retry Complete!")
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "Success: %d | Failed: %d | Skipped: %d\n",
		summary.Succeeded, summary.Failed, summary.Skipped)

	if len(summary.Failures) > 0 {
		fmt.Fprintln(w, "\nStill failing:")
		for _, failure := range summary.Failures {
			fmt.Fprintf(w, "  ✗ %s: %s\n", failure.Task.GetDisplayName(), failure.ErrorSummary())
		}
	}
	if summary.TotalBytes > 0 {
		fmt.Fprintf(w, "\nTotal Downloaded: %s\n", humanize.Bytes(uint64(summary.TotalBytes)))
		fmt.Fprintf(w, "Average Speed: %.1f Mbps\n", summary.AverageMbps())
	}
	fmt.Fprintln(w, rule())
}

func rule() string {
	return strings.Repeat("=", ruleWidth)
}
