package tmdb

import (
	"context"
	"fmt"
	"time"

	"github.com/lepinkainen/cinefeed/internal/cache"
)

// CachedGenres wraps a genre catalog for caching.
type CachedGenres struct {
	Genres []Genre `json:"genres"`
}

// CachedGenreList fetches the genre catalog with persistent caching.
// Cache key format: genres_{kind}_{language}
// Empty catalogs are not cached so a transient upstream glitch is not remembered.
func (c *Client) CachedGenreList(ctx context.Context, kind MediaKind) ([]Genre, bool, error) {
	cacheKey := fmt.Sprintf("genres_%s_%s", kind, c.language)

	result, fromCache, err := cache.GetOrFetchWithPolicy("tmdb_cache", cacheKey, func() (*CachedGenres, error) {
		genres, fetchErr := c.GenreList(ctx, kind)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return &CachedGenres{Genres: genres}, nil
	}, func(result *CachedGenres) bool {
		return result != nil && len(result.Genres) > 0
	})

	if err != nil {
		return nil, false, err
	}

	return result.Genres, fromCache, nil
}

// CachedCategoryPage fetches a category page, keeping it in the page cache for ttl.
// Cache key format: {kind}_{category}_{page}_{language}
func (c *Client) CachedCategoryPage(ctx context.Context, kind MediaKind, category Category, page int, ttl time.Duration) (Page, bool, error) {
	cacheKey := fmt.Sprintf("%s_%s_%d_%s", kind, category, normalizePage(page), c.language)
	return cache.GetOrFetchWithTTL("tmdb_page_cache", cacheKey, func() (Page, error) {
		return c.CategoryPage(ctx, kind, category, page)
	}, cache.FixedTTL[Page](ttl))
}

// CachedDiscoverPage fetches a discover page, keeping it in the page cache for ttl.
// Cache key format: discover_{kind}_{genreID}_{page}_{language}
func (c *Client) CachedDiscoverPage(ctx context.Context, kind MediaKind, genreID int, page int, ttl time.Duration) (Page, bool, error) {
	cacheKey := fmt.Sprintf("discover_%s_%d_%d_%s", kind, genreID, normalizePage(page), c.language)
	return cache.GetOrFetchWithTTL("tmdb_page_cache", cacheKey, func() (Page, error) {
		return c.DiscoverPage(ctx, kind, genreID, page)
	}, cache.FixedTTL[Page](ttl))
}

// PersistentCatalog serves genre catalogs and, when PageTTL is positive, list pages
// through the SQLite response cache.
type PersistentCatalog struct {
	*Client
	PageTTL time.Duration
}

// GenreList shadows Client.GenreList with the cached variant.
func (p PersistentCatalog) GenreList(ctx context.Context, kind MediaKind) ([]Genre, error) {
	genres, _, err := p.CachedGenreList(ctx, kind)
	return genres, err
}

// CategoryPage shadows Client.CategoryPage with the cached variant.
func (p PersistentCatalog) CategoryPage(ctx context.Context, kind MediaKind, category Category, page int) (Page, error) {
	if p.PageTTL <= 0 {
		return p.Client.CategoryPage(ctx, kind, category, page)
	}
	result, _, err := p.CachedCategoryPage(ctx, kind, category, page, p.PageTTL)
	return result, err
}

// DiscoverPage shadows Client.DiscoverPage with the cached variant.
func (p PersistentCatalog) DiscoverPage(ctx context.Context, kind MediaKind, genreID int, page int) (Page, error) {
	if p.PageTTL <= 0 {
		return p.Client.DiscoverPage(ctx, kind, genreID, page)
	}
	result, _, err := p.CachedDiscoverPage(ctx, kind, genreID, page, p.PageTTL)
	return result, err
}
