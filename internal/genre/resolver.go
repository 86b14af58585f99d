// Package genre resolves URL genre slugs to TMDB genre identifiers.
package genre

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/slug"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// Catalog supplies the genre catalog for a media kind.
type Catalog interface {
	GenreList(ctx context.Context, kind tmdb.MediaKind) ([]tmdb.Genre, error)
}

// Ref is a resolved genre.
type Ref struct {
	ID   int            `json:"id" yaml:"id"`
	Name string         `json:"name" yaml:"name"`
	Kind tmdb.MediaKind `json:"kind" yaml:"kind"`
}

// Entry is a catalog genre paired with its canonical slug.
type Entry struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// Resolver maps (kind, slug) pairs to genre references.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewResolver creates a Resolver backed by catalog. A nil logger uses slog.Default().
func NewResolver(catalog Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, logger: logger}
}

// catalogOnce fetches the catalog lazily, at most once.
type catalogOnce struct {
	fetch  func() ([]tmdb.Genre, error)
	done   bool
	genres []tmdb.Genre
	err    error
}

func (c *catalogOnce) get() ([]tmdb.Genre, error) {
	if !c.done {
		c.genres, c.err = c.fetch()
		c.done = true
	}
	return c.genres, c.err
}

// Resolve turns a raw URL segment into a genre reference.
//
// Lookup order: the static slug table for kind, then the catalog by slugified
// name, then the catalog by name with hyphens read as spaces. When nothing
// matches the error is a *errors.NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, kind tmdb.MediaKind, rawSlug string) (Ref, error) {
	s := slug.FromURL(rawSlug)
	if s == "" {
		return Ref{}, apperrors.NewNotFoundError(string(kind), s, nil)
	}

	catalog := &catalogOnce{fetch: func() ([]tmdb.Genre, error) {
		return r.catalog.GenreList(ctx, kind)
	}}

	if id, ok := staticID(kind, s); ok {
		return Ref{ID: id, Name: r.displayName(catalog, kind, id, s), Kind: kind}, nil
	}

	genres, err := catalog.get()
	if err != nil {
		r.logger.Warn("Genre catalog unavailable", "kind", kind, "slug", s, "error", err)
		return Ref{}, apperrors.NewNotFoundError(string(kind), s, err)
	}

	if g, ok := findBySlug(genres, s); ok {
		return Ref{ID: g.ID, Name: g.Name, Kind: kind}, nil
	}
	if g, ok := findBySpacedName(genres, s); ok {
		return Ref{ID: g.ID, Name: g.Name, Kind: kind}, nil
	}

	r.logger.Debug("Genre slug not found", "kind", kind, "slug", s, "catalog_size", len(genres))
	return Ref{}, apperrors.NewNotFoundError(string(kind), s, nil)
}

func findBySlug(genres []tmdb.Genre, s string) (tmdb.Genre, bool) {
	for _, g := range genres {
		if slug.Slugify(g.Name) == s {
			return g, true
		}
	}
	return tmdb.Genre{}, false
}

// findBySpacedName matches names that equal the slug with hyphens read as spaces.
func findBySpacedName(genres []tmdb.Genre, s string) (tmdb.Genre, bool) {
	spaced := strings.ReplaceAll(s, "-", " ")
	for _, g := range genres {
		if strings.ToLower(g.Name) == spaced {
			return g, true
		}
	}
	return tmdb.Genre{}, false
}

// displayName prefers the catalog name for id and falls back to a name derived from the slug.
func (r *Resolver) displayName(catalog *catalogOnce, kind tmdb.MediaKind, id int, s string) string {
	genres, err := catalog.get()
	if err != nil {
		r.logger.Warn("Genre name lookup failed, using slug", "kind", kind, "id", id, "error", err)
		return slug.DisplayName(s)
	}
	for _, g := range genres {
		if g.ID == id {
			return g.Name
		}
	}
	return slug.DisplayName(s)
}

// Directory lists every catalog genre for kind with its slug, in catalog order.
func (r *Resolver) Directory(ctx context.Context, kind tmdb.MediaKind) ([]Entry, error) {
	genres, err := r.catalog.GenreList(ctx, kind)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(genres))
	for _, g := range genres {
		entries = append(entries, Entry{ID: g.ID, Name: g.Name, Slug: slug.Slugify(g.Name)})
	}
	return entries, nil
}
