package genre

import "github.com/lepinkainen/cinefeed/internal/tmdb"

// Static slug tables, namespaced per media kind. Movie and TV catalogs use
// different ids for some genres, so a slug is only ever looked up in its own kind.
var (
	movieSlugToID = map[string]int{
		"action":          28,
		"adventure":       12,
		"animation":       16,
		"comedy":          35,
		"crime":           80,
		"documentary":     99,
		"drama":           18,
		"family":          10751,
		"fantasy":         14,
		"history":         36,
		"horror":          27,
		"music":           10402,
		"mystery":         9648,
		"romance":         10749,
		"science-fiction": 878,
		"tv-movie":        10770,
		"thriller":        53,
		"war":             10752,
		"western":         37,
	}

	tvSlugToID = map[string]int{
		"action-and-adventure": 10759,
		"animation":            16,
		"comedy":               35,
		"crime":                80,
		"documentary":          99,
		"drama":                18,
		"family":               10751,
		"kids":                 10762,
		"mystery":              9648,
		"news":                 10763,
		"reality":              10764,
		"sci-fi-and-fantasy":   10765,
		// legacy link target from the old site
		"sci-fi-fantasy":   10765,
		"soap":             10766,
		"talk":             10767,
		"war-and-politics": 10768,
		"western":          37,
	}
)

// staticID looks s up in the table for kind.
func staticID(kind tmdb.MediaKind, s string) (int, bool) {
	var table map[string]int
	switch kind {
	case tmdb.Movie:
		table = movieSlugToID
	case tmdb.TV:
		table = tvSlugToID
	default:
		return 0, false
	}
	id, ok := table[s]
	return id, ok
}
