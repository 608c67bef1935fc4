package catalog

import "github.com/tmget/tm-downloader/internal/model"

// SeriesCount is one line of the parse listing: a series with its episode
// tally.
type SeriesCount struct {
	Series   string
	Year     int
	Episodes int
}

type seriesKey struct {
	year   int
	series string
}

// CountSeries tallies episodes per series, preserving the episode order.
func CountSeries(episodes []model.Episode) []SeriesCount {
	var counts []SeriesCount
	index := make(map[seriesKey]int)
	for _, ep := range episodes {
		key := seriesKey{year: ep.Year, series: ep.Series}
		if i, ok := index[key]; ok {
			counts[i].Episodes++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, SeriesCount{Series: ep.Series, Year: ep.Year, Episodes: 1})
	}
	return counts
}
