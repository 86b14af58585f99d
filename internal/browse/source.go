// Package browse holds the view-level state shared by the terminal browser,
// the HTTP API and the exporter. Each view owns its feeds; nothing is shared
// between views.
package browse

import (
	"context"
	"fmt"

	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// Source is the catalog the views read from. *tmdb.Client and
// tmdb.PersistentCatalog both satisfy it.
type Source interface {
	genre.Catalog
	CategoryPage(ctx context.Context, kind tmdb.MediaKind, category tmdb.Category, page int) (tmdb.Page, error)
	DiscoverPage(ctx context.Context, kind tmdb.MediaKind, genreID int, page int) (tmdb.Page, error)
}

// CategoryKey is the feed identity of a category listing, e.g. "movie/popular".
func CategoryKey(kind tmdb.MediaKind, category tmdb.Category) string {
	return fmt.Sprintf("%s/%s", kind, category)
}

// GenreKey is the feed identity of a genre listing, e.g. "tv/genre/10765".
func GenreKey(kind tmdb.MediaKind, genreID int) string {
	return fmt.Sprintf("%s/genre/%d", kind, genreID)
}

// CategorySource adapts a Source to the feed strategy for a category listing.
func CategorySource(source Source, kind tmdb.MediaKind, category tmdb.Category) feed.PageSource {
	return func(ctx context.Context, page int) (tmdb.Page, error) {
		return source.CategoryPage(ctx, kind, category, page)
	}
}

// DiscoverSource adapts a Source to the feed strategy for a genre listing.
func DiscoverSource(source Source, kind tmdb.MediaKind, genreID int) feed.PageSource {
	return func(ctx context.Context, page int) (tmdb.Page, error) {
		return source.DiscoverPage(ctx, kind, genreID, page)
	}
}

// SectionTitle is the heading for a category listing, e.g. "Top Rated Movies".
func SectionTitle(kind tmdb.MediaKind, category tmdb.Category) string {
	return category.Title() + " " + kind.Plural()
}
