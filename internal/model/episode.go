package model

import "strconv"

// Episode represents a single downloadable video extracted from the snapshot.
// Episodes are immutable after parsing; SourceURL is unique across a catalog.
type Episode struct {
	Series    string // series page title
	Year      int    // release year, 0 when the page carries none
	Number    int    // 1-based position within the series, 0 when unassigned
	Title     string // episode title without the series prefix
	SourceURL string // direct video URL
}

// YearLabel renders a release year for directory names and listings.
// Unknown years (0) render as "Unknown".
func YearLabel(year int) string {
	if year == 0 {
		return "Unknown"
	}
	return strconv.Itoa(year)
}
