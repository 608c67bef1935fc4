package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tmget/tm-downloader/internal/config"
	"github.com/tmget/tm-downloader/internal/model"
	"github.com/tmget/tm-downloader/internal/platform"
)

// Service downloads planned tasks through an external tool, keeping at most
// a fixed number of subprocesses in flight.
type Service struct {
	runner Runner
	cfg    config.Config

	statsMutex sync.Mutex
	active     int
	totalBytes int64
	totalTime  time.Duration

	onOutcome func(model.DownloadOutcome) // callback for progress reporting
}

// NewService creates a download service using the given tool runner.
func NewService(runner Runner, cfg config.Config) *Service {
	return &Service{runner: runner, cfg: cfg}
}

// SetOutcomeCallback sets the callback invoked after every finished task.
// The callback runs on worker goroutines and must be safe for concurrent use.
func (s *Service) SetOutcomeCallback(callback func(model.DownloadOutcome)) {
	s.onOutcome = callback
}

// CheckTool verifies the download tool is installed.
func (s *Service) CheckTool() error {
	if _, err := s.runner.LookPath(s.cfg.Tool); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", s.cfg.Tool, err)
	}
	return nil
}

// Run downloads every task with at most workers concurrent tool invocations,
// returning one outcome per attempted task in presentation order. Already
// complete files are skipped. Cancelling ctx kills in-flight subprocesses;
// tasks that never started yield no outcome.
func (s *Service) Run(ctx context.Context, tasks []model.DownloadTask, workers int) []model.DownloadOutcome {
	if workers < 1 {
		workers = 1
	}

	queue := make(chan model.DownloadTask)
	results := make(chan model.DownloadOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- s.runTask(ctx, task)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			if ctx.Err() != nil {
				return
			}
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]model.DownloadOutcome, 0, len(tasks))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	sortOutcomes(outcomes)
	return outcomes
}

// runTask executes a single task: skip, fetch, or fail. It always returns an
// outcome; errors are data here, not control flow.
func (s *Service) runTask(ctx context.Context, task model.DownloadTask) model.DownloadOutcome {
	if size, ok := platform.FileSize(task.DestPath); ok {
		log.Infof("[SKIP] %s (already exists, %.1f MB)", task.GetDisplayName(), megabytes(size))
		return s.recordOutcome(model.DownloadOutcome{
			Task:    task,
			Status:  model.TaskStatusCompleted,
			Skipped: true,
		})
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(task.DestPath)); err != nil {
		return s.recordOutcome(model.DownloadOutcome{
			Task:      task,
			Status:    model.TaskStatusError,
			ErrorText: fmt.Sprintf("create series directory: %v", err),
		})
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.TaskTimeout)
	defer cancel()

	active, avgMbps := s.beginTask()
	log.Infof("[START] %s | Active: %d | Avg: %.1f Mbps", task.GetDisplayName(), active, avgMbps)

	args := BuildFetchArgs(s.cfg, task.Episode.SourceURL, task.DestPath)
	started := time.Now()
	stdout, stderr, err := s.runner.Run(runCtx, s.cfg.Tool, args...)
	elapsed := time.Since(started)
	s.endTask()

	if err == nil {
		if size, ok := platform.FileSize(task.DestPath); ok {
			outcome := model.DownloadOutcome{
				Task:    task,
				Status:  model.TaskStatusCompleted,
				Bytes:   size,
				Elapsed: elapsed,
			}
			log.Infof("[DONE] %s | %.1f MB in %.1fs | %.1f Mbps",
				task.GetDisplayName(), megabytes(size), elapsed.Seconds(), outcome.Mbps())
			return s.recordOutcome(outcome)
		}
		err = errors.New("tool exited successfully but produced no file")
	}

	errText := failureText(stdout, stderr, err)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		errText = fmt.Sprintf("timed out after %s: %s", s.cfg.TaskTimeout, errText)
	}
	s.removePartial(task.DestPath)

	outcome := model.DownloadOutcome{
		Task:      task,
		Status:    model.TaskStatusError,
		Elapsed:   elapsed,
		ErrorText: errText,
	}
	log.Warnf("[FAILED] %s: %s", task.GetDisplayName(), outcome.ErrorSummary())
	return s.recordOutcome(outcome)
}

// beginTask marks a download in flight and reports the active count and the
// running average speed for the start line.
func (s *Service) beginTask() (int, float64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()
	s.active++
	return s.active, s.averageMbpsLocked()
}

func (s *Service) endTask() {
	s.statsMutex.Lock()
	s.active--
	s.statsMutex.Unlock()
}

// recordOutcome folds a finished task into the running statistics and hands
// it to the outcome callback.
func (s *Service) recordOutcome(outcome model.DownloadOutcome) model.DownloadOutcome {
	s.statsMutex.Lock()
	if outcome.Succeeded() && !outcome.Skipped {
		s.totalBytes += outcome.Bytes
		s.totalTime += outcome.Elapsed
	}
	s.statsMutex.Unlock()

	if s.onOutcome != nil {
		s.onOutcome(outcome)
	}
	return outcome
}

// averageMbpsLocked reads the running average over completed downloads.
// Callers hold statsMutex.
func (s *Service) averageMbpsLocked() float64 {
	if s.totalTime <= 0 {
		return 0
	}
	return float64(s.totalBytes) * 8 / (1024 * 1024) / s.totalTime.Seconds()
}

func (s *Service) removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debugf("remove partial %s: %v", path, err)
	}
}

// failureText preserves the tool's own words for the outcome record, falling
// back to the exec error when the tool said nothing.
func failureText(stdout, stderr string, err error) string {
	if text := strings.TrimSpace(stderr); text != "" {
		return text
	}
	if text := strings.TrimSpace(stdout); text != "" {
		return text
	}
	return err.Error()
}

// sortOutcomes restores presentation order: year, series, episode number.
func sortOutcomes(outcomes []model.DownloadOutcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i].Task.Episode, outcomes[j].Task.Episode
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Series != b.Series {
			return a.Series < b.Series
		}
		return a.Number < b.Number
	})
}

func megabytes(n int64) float64 {
	return float64(n) / (1024 * 1024)
}
