package fetch

import (
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// itemRow is one media_items row: the item plus its place in the listing.
type itemRow struct {
	ListKey      string
	ListTitle    string
	MediaType    string
	Rank         int
	DisplayTitle string
	Year         int
	PosterURL    string
	FetchedAt    string
	tmdb.MediaItem
}

// listingRows numbers the listing's items from 1 in feed order.
func listingRows(l Listing, posters Posters) []itemRow {
	fetchedAt := l.FetchedAt.UTC().Format(time.RFC3339)

	rows := make([]itemRow, len(l.Items))
	for i, item := range l.Items {
		rows[i] = itemRow{
			ListKey:      l.Key,
			ListTitle:    l.Title,
			MediaType:    string(l.MediaType),
			Rank:         i + 1,
			DisplayTitle: item.DisplayTitle(),
			Year:         item.YearInt(),
			PosterURL:    posters.PosterURL(item.PosterPath),
			FetchedAt:    fetchedAt,
			MediaItem:    item,
		}
	}
	return rows
}

// rowToMap keys the row by datastore.MediaItemsColumns.
func rowToMap(row itemRow) map[string]any {
	return map[string]any{
		"list_key":          row.ListKey,
		"list_title":        row.ListTitle,
		"media_type":        row.MediaType,
		"rank":              row.Rank,
		"id":                row.ID,
		"display_title":     row.DisplayTitle,
		"title":             row.Title,
		"name":              row.Name,
		"year":              row.Year,
		"overview":          row.Overview,
		"release_date":      row.ReleaseDate,
		"first_air_date":    row.FirstAirDate,
		"poster_path":       row.PosterPath,
		"poster_url":        row.PosterURL,
		"backdrop_path":     row.BackdropPath,
		"genre_ids":         joinIDs(row.GenreIDs),
		"vote_average":      row.VoteAverage,
		"vote_count":        row.VoteCount,
		"popularity":        row.Popularity,
		"original_language": row.OriginalLang,
		"fetched_at":        row.FetchedAt,
	}
}

// joinIDs renders genre ids as "28,878".
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
