package plan

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmget/tm-downloader/internal/model"
)

const (
	// TaskIDPrefix namespaces generated task IDs
	TaskIDPrefix = "task-"

	// DefaultExtension is used when a source URL carries no file extension
	DefaultExtension = ".mp4"
)

// Characters that are invalid in file names are substituted, not stripped,
// so titles stay readable.
var nameReplacer = strings.NewReplacer(
	"<", "(",
	">", ")",
	":", " -",
	`"`, "'",
	"/", "-",
	`\`, "-",
	"|", "-",
	"?", "",
	"*", "",
)

// Build maps episodes onto download tasks rooted at outDir. The mapping is
// deterministic: the same episodes and outDir always yield the same paths.
func Build(episodes []model.Episode, outDir string) []model.DownloadTask {
	tasks := make([]model.DownloadTask, 0, len(episodes))
	for _, ep := range episodes {
		tasks = append(tasks, model.DownloadTask{
			ID:       generateTaskID(),
			Episode:  ep,
			DestPath: DestPath(ep, outDir),
		})
	}
	return tasks
}

// DestPath returns the destination file for an episode:
// <outDir>/(<year>) <series>/<NN> - <title><ext>
func DestPath(ep model.Episode, outDir string) string {
	dir := fmt.Sprintf("(%s) %s", model.YearLabel(ep.Year), ep.Series)
	name := SanitizeName(ep.Title)
	if ep.Number > 0 {
		name = fmt.Sprintf("%02d - %s", ep.Number, name)
	}
	return filepath.Join(outDir, SanitizeName(dir), name+Extension(ep.SourceURL))
}

// SanitizeName makes a string safe for use as a file or directory name.
func SanitizeName(name string) string {
	name = nameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.Trim(name, ". ")
}

// Extension returns the file extension of the source URL path, or
// DefaultExtension when the URL carries none.
func Extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultExtension
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return DefaultExtension
}

// Missing filters tasks to those whose destination file is absent or empty.
// Empty files are partial downloads left by an interrupted run.
func Missing(tasks []model.DownloadTask) []model.DownloadTask {
	var missing []model.DownloadTask
	for _, t := range tasks {
		info, err := os.Stat(t.DestPath)
		if err != nil || info.Size() == 0 {
			missing = append(missing, t)
		}
	}
	return missing
}

// generateTaskID generates a unique task ID using UUID v7 for better uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
