package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmget/tm-downloader/internal/model"
)

func TestDestPath(t *testing.T) {
	tests := []struct {
		name     string
		episode  model.Episode
		expected string
	}{
		{
			"regular episode",
			model.Episode{Series: "The Century of the Self", Year: 2002, Number: 1, Title: "Happiness Machines", SourceURL: "https://cdn.example.org/century-1.mp4"},
			filepath.Join("out", "(2002) The Century of the Self", "01 - Happiness Machines.mp4"),
		},
		{
			"unknown year",
			model.Episode{Series: "Oh Dearism", Year: 0, Number: 1, Title: "Oh Dearism", SourceURL: "https://cdn.example.org/ohdearism.mp4"},
			filepath.Join("out", "(Unknown) Oh Dearism", "01 - Oh Dearism.mp4"),
		},
		{
			"unnumbered episode",
			model.Episode{Series: "Bitter Lake", Year: 2015, Number: 0, Title: "Bitter Lake", SourceURL: "https://cdn.example.org/bitter.mp4"},
			filepath.Join("out", "(2015) Bitter Lake", "Bitter Lake.mp4"),
		},
		{
			"extension from source",
			model.Episode{Series: "Bitter Lake", Year: 2015, Number: 1, Title: "Bitter Lake", SourceURL: "https://cdn.example.org/bitter.webm"},
			filepath.Join("out", "(2015) Bitter Lake", "01 - Bitter Lake.webm"),
		},
		{
			"extension fallback",
			model.Episode{Series: "Bitter Lake", Year: 2015, Number: 1, Title: "Bitter Lake", SourceURL: "https://cdn.example.org/stream/84721"},
			filepath.Join("out", "(2015) Bitter Lake", "01 - Bitter Lake.mp4"),
		},
		{
			"title with colon",
			model.Episode{Series: "Can't Get You Out of My Head", Year: 2021, Number: 1, Title: "Part 1: Bloodshed on Wolf Mountain", SourceURL: "https://cdn.example.org/head-1.mp4"},
			filepath.Join("out", "(2021) Can't Get You Out of My Head", "01 - Part 1 - Bloodshed on Wolf Mountain.mp4"),
		},
	}

	for _, test := range tests {
		result := DestPath(test.episode, "out")
		if result != test.expected {
			t.Errorf("%s: DestPath() = %q, expected %q", test.name, result, test.expected)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Happiness Machines", "Happiness Machines"},
		{`He Said: "No"`, "He Said - 'No'"},
		{"What Is It Good For?", "What Is It Good For"},
		{"A/B Testing", "A-B Testing"},
		{`Back\Slash`, "Back-Slash"},
		{"Either|Or", "Either-Or"},
		{"<Secret> Rulers", "(Secret) Rulers"},
		{"Stars *** Censored", "Stars Censored"},
		{"  spaced   out  ", "spaced out"},
		{"Trailing dots...", "Trailing dots"},
	}

	for _, test := range tests {
		result := SanitizeName(test.input)
		if result != test.expected {
			t.Errorf("SanitizeName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://cdn.example.org/video.mp4", ".mp4"},
		{"https://cdn.example.org/video.webm", ".webm"},
		{"https://cdn.example.org/video.mp4?token=abc123", ".mp4"},
		{"https://cdn.example.org/stream/84721", ".mp4"},
		{"%zz", ".mp4"},
	}

	for _, test := range tests {
		result := Extension(test.url)
		if result != test.expected {
			t.Errorf("Extension(%q) = %q, expected %q", test.url, result, test.expected)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	episodes := []model.Episode{
		{Series: "The Trap", Year: 2007, Number: 1, Title: "F**k You Buddy", SourceURL: "https://cdn.example.org/trap-1.mp4"},
		{Series: "The Trap", Year: 2007, Number: 2, Title: "The Lonely Robot", SourceURL: "https://cdn.example.org/trap-2.mp4"},
	}

	first := Build(episodes, "out")
	second := Build(episodes, "out")

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2 tasks per build, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DestPath != second[i].DestPath {
			t.Errorf("Destination paths differ between builds: %q vs %q", first[i].DestPath, second[i].DestPath)
		}
	}
}

func TestBuild_TaskIDs(t *testing.T) {
	episodes := []model.Episode{
		{Series: "The Trap", Year: 2007, Number: 1, Title: "F**k You Buddy", SourceURL: "https://cdn.example.org/trap-1.mp4"},
		{Series: "The Trap", Year: 2007, Number: 2, Title: "The Lonely Robot", SourceURL: "https://cdn.example.org/trap-2.mp4"},
	}

	tasks := Build(episodes, "out")
	seen := make(map[string]bool)
	for _, task := range tasks {
		if !strings.HasPrefix(task.ID, TaskIDPrefix) {
			t.Errorf("Task ID %q missing prefix %q", task.ID, TaskIDPrefix)
		}
		if seen[task.ID] {
			t.Errorf("Duplicate task ID %q", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestBuild_DistinctEpisodesGetDistinctPaths(t *testing.T) {
	episodes := []model.Episode{
		{Series: "The Power of Nightmares", Year: 2004, Number: 1, Title: "Baby It's Cold Outside", SourceURL: "https://cdn.example.org/n1.mp4"},
		{Series: "The Power of Nightmares", Year: 2004, Number: 2, Title: "The Phantom Victory", SourceURL: "https://cdn.example.org/n2.mp4"},
		{Series: "The Power of Nightmares", Year: 2004, Number: 3, Title: "The Shadows in the Cave", SourceURL: "https://cdn.example.org/n3.mp4"},
		{Series: "The Mayfair Set", Year: 1999, Number: 1, Title: "Who Pays Wins", SourceURL: "https://cdn.example.org/m1.mp4"},
	}

	tasks := Build(episodes, "out")
	paths := make(map[string]bool)
	for _, task := range tasks {
		if paths[task.DestPath] {
			t.Errorf("Duplicate destination path %q", task.DestPath)
		}
		paths[task.DestPath] = true
	}
}

func TestMissing(t *testing.T) {
	dir := t.TempDir()
	episodes := []model.Episode{
		{Series: "The Trap", Year: 2007, Number: 1, Title: "F**k You Buddy", SourceURL: "https://cdn.example.org/trap-1.mp4"},
		{Series: "The Trap", Year: 2007, Number: 2, Title: "The Lonely Robot", SourceURL: "https://cdn.example.org/trap-2.mp4"},
		{Series: "The Trap", Year: 2007, Number: 3, Title: "We Will Force You To Be Free", SourceURL: "https://cdn.example.org/trap-3.mp4"},
		{Series: "Bitter Lake", Year: 2015, Number: 1, Title: "Bitter Lake", SourceURL: "https://cdn.example.org/bitter.mp4"},
		{Series: "HyperNormalisation", Year: 2016, Number: 1, Title: "HyperNormalisation", SourceURL: "https://cdn.example.org/hyper.mp4"},
	}
	tasks := Build(episodes, dir)

	// Two complete files, one empty file, two absent.
	writeFile(t, tasks[0].DestPath, []byte("video-bytes"))
	writeFile(t, tasks[3].DestPath, []byte("video-bytes"))
	writeFile(t, tasks[1].DestPath, nil)

	missing := Missing(tasks)
	if len(missing) != 3 {
		t.Fatalf("Expected 3 missing tasks, got %d", len(missing))
	}

	want := map[string]bool{
		tasks[1].DestPath: true,
		tasks[2].DestPath: true,
		tasks[4].DestPath: true,
	}
	for _, m := range missing {
		if !want[m.DestPath] {
			t.Errorf("Unexpected missing task %q", m.DestPath)
		}
	}
}

func TestMissingLargePlan(t *testing.T) {
	dir := t.TempDir()
	episodes := make([]model.Episode, 0, 56)
	for s := 0; s < 4; s++ {
		for e := 1; e <= 14; e++ {
			episodes = append(episodes, model.Episode{
				Series:    fmt.Sprintf("Series %d", s+1),
				Year:      1995 + s,
				Number:    e,
				Title:     fmt.Sprintf("Episode %d", e),
				SourceURL: fmt.Sprintf("https://cdn.example.org/s%d-e%d.mp4", s+1, e),
			})
		}
	}
	tasks := Build(episodes, dir)
	if len(tasks) != 56 {
		t.Fatalf("Expected 56 tasks, got %d", len(tasks))
	}

	holes := map[int]bool{7: true, 23: true, 41: true}
	for i, task := range tasks {
		if holes[i] {
			continue
		}
		writeFile(t, task.DestPath, []byte("video-bytes"))
	}

	missing := Missing(tasks)
	if len(missing) != 3 {
		t.Fatalf("Expected 3 missing tasks, got %d", len(missing))
	}
	for i, want := range []int{7, 23, 41} {
		if missing[i].DestPath != tasks[want].DestPath {
			t.Errorf("Expected missing[%d] to be %q, got %q", i, tasks[want].DestPath, missing[i].DestPath)
		}
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}
