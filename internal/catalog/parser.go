package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/tmget/tm-downloader/internal/model"
)

var (
	doctypeRe = regexp.MustCompile(`(?i)<!DOCTYPE html>`)
	yearRe    = regexp.MustCompile(`\d{4}`)
	ordinalRe = regexp.MustCompile(`(?i)\b(?:part|episode|ep\.?)\s*(\d{1,3})\b`)
)

// ParseFile reads the snapshot at path and extracts every episode in it.
func ParseFile(path string) ([]model.Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse splits a snapshot into its component documents and extracts episodes
// from each. Duplicate source URLs keep their first occurrence; the result is
// ordered by year, series, and episode number.
func Parse(content string) []model.Episode {
	documents := SplitDocuments(content)
	log.Debugf("snapshot contains %d documents", len(documents))

	var episodes []model.Episode
	seen := make(map[string]bool)
	for i, doc := range documents {
		parsed, err := parseDocument(doc)
		if err != nil {
			log.Debugf("document %d skipped: %v", i+1, err)
			continue
		}
		for _, ep := range parsed {
			if seen[ep.SourceURL] {
				log.Debugf("duplicate source dropped: %s", ep.SourceURL)
				continue
			}
			seen[ep.SourceURL] = true
			episodes = append(episodes, ep)
		}
	}

	SortEpisodes(episodes)
	return episodes
}

// SplitDocuments cuts a concatenated snapshot on its doctype declarations.
// Blank chunks are dropped; a snapshot without any doctype is treated as a
// single document.
func SplitDocuments(content string) []string {
	var documents []string
	for _, chunk := range doctypeRe.Split(content, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		documents = append(documents, chunk)
	}
	return documents
}

// SortEpisodes orders episodes for presentation: by year, then series, then
// episode number. Unknown years sort first.
func SortEpisodes(episodes []model.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Year != episodes[j].Year {
			return episodes[i].Year < episodes[j].Year
		}
		if episodes[i].Series != episodes[j].Series {
			return episodes[i].Series < episodes[j].Series
		}
		return episodes[i].Number < episodes[j].Number
	})
}

type videoSource struct {
	url   string
	title string // title attribute, usually empty
}

func parseDocument(content string) ([]model.Episode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	series := cleanText(doc.Find("h1.light-title.entry-title").First().Text())
	if series == "" {
		return nil, errors.New("no series title")
	}

	year := extractYear(doc)
	if year == 0 {
		series, year = splitTrailingYear(series)
	}

	sources := extractSources(doc)
	if len(sources) == 0 {
		return nil, errors.New("no video sources")
	}

	titles := extractPlaylistTitles(doc)

	episodes := make([]model.Episode, 0, len(sources))
	for i, src := range sources {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		if title == "" {
			title = src.title
		}
		if title == "" {
			title = series
		}
		title = stripSeriesPrefix(title, series)

		number := ordinalIn(title)
		if number == 0 {
			number = i + 1
		}

		episodes = append(episodes, model.Episode{
			Series:    series,
			Year:      year,
			Number:    number,
			Title:     title,
			SourceURL: src.url,
		})
	}
	return episodes, nil
}

// extractYear returns the first 4-digit year found in an item-date span,
// or 0 when the document carries none.
func extractYear(doc *goquery.Document) int {
	year := 0
	doc.Find("span.item-date").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := yearRe.FindString(s.Text()); m != "" {
			year, _ = strconv.Atoi(m)
			return false
		}
		return true
	})
	return year
}

// splitTrailingYear peels a trailing "(NNNN)" off a series title, so pages
// without an item-date span still get a year from the title itself.
func splitTrailingYear(series string) (string, int) {
	open := strings.LastIndex(series, "(")
	if open < 0 || !strings.HasSuffix(series, ")") {
		return series, 0
	}
	inner := series[open+1 : len(series)-1]
	if len(inner) != 4 || yearRe.FindString(inner) != inner {
		return series, 0
	}
	year, _ := strconv.Atoi(inner)
	return strings.TrimSpace(series[:open]), year
}

func extractSources(doc *goquery.Document) []videoSource {
	var sources []videoSource
	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" {
			return
		}
		if typ, hasType := s.Attr("type"); hasType && !strings.EqualFold(typ, "video/mp4") {
			return
		}
		title, _ := s.Attr("title")
		sources = append(sources, videoSource{url: src, title: cleanText(title)})
	})
	return sources
}

func extractPlaylistTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("div.playlist-title a").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, cleanText(s.Text()))
	})
	return titles
}

// stripSeriesPrefix removes a leading "Series — " from combined playlist
// titles so the episode part stands alone.
func stripSeriesPrefix(title, series string) string {
	if len(title) <= len(series) || !strings.HasPrefix(title, series) {
		return title
	}
	rest := strings.TrimSpace(title[len(series):])
	for _, sep := range []string{"—", "–", "-", ":"} {
		if strings.HasPrefix(rest, sep) {
			if stripped := strings.TrimSpace(strings.TrimPrefix(rest, sep)); stripped != "" {
				return stripped
			}
		}
	}
	return title
}

// ordinalIn extracts an explicit episode ordinal ("Part 3", "Episode 12",
// "Ep. 4") from a title, or 0 when the title carries none.
func ordinalIn(title string) int {
	m := ordinalRe.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// cleanText collapses whitespace and maps the typographic apostrophe to the
// ASCII one used throughout the collection's file names.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	return strings.Join(strings.Fields(s), " ")
}
