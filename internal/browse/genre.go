package browse

import (
	"context"
	"errors"

	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// ErrNoGenre is returned when a genre view is loaded before a genre was resolved.
var ErrNoGenre = errors.New("browse: no genre resolved")

// GenreView lists the titles of one genre.
type GenreView struct {
	source   Source
	resolver *genre.Resolver
	opts     []feed.Option

	ref      genre.Ref
	notFound *apperrors.NotFoundError
	feed     *feed.Feed
}

// NewGenreView creates an empty genre view.
func NewGenreView(source Source, resolver *genre.Resolver, opts ...feed.Option) *GenreView {
	return &GenreView{source: source, resolver: resolver, opts: opts}
}

// Open resolves rawSlug for kind and points the view's feed at that genre.
// An unresolvable slug leaves the view in the not-found state and returns the
// *errors.NotFoundError.
func (v *GenreView) Open(ctx context.Context, kind tmdb.MediaKind, rawSlug string) (genre.Ref, error) {
	ref, err := v.resolver.Resolve(ctx, kind, rawSlug)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			v.notFound = notFound
			v.ref = genre.Ref{}
			if v.feed != nil {
				v.feed.Close()
				v.feed = nil
			}
		}
		return genre.Ref{}, err
	}

	v.notFound = nil
	v.ref = ref

	key := GenreKey(ref.Kind, ref.ID)
	source := DiscoverSource(v.source, ref.Kind, ref.ID)
	if v.feed == nil {
		v.feed = feed.New(key, source, v.opts...)
	} else {
		v.feed.Reset(key, source)
	}
	return ref, nil
}

// NotFound reports whether the last Open failed to resolve its slug.
func (v *GenreView) NotFound() bool {
	return v.notFound != nil
}

// NotFoundError returns the error from the last failed Open, or nil.
func (v *GenreView) NotFoundError() *apperrors.NotFoundError {
	return v.notFound
}

// Ref returns the resolved genre.
func (v *GenreView) Ref() genre.Ref {
	return v.ref
}

// Title is the heading of the genre page, e.g. "Action Movies".
func (v *GenreView) Title() string {
	if v.ref.ID == 0 {
		return "Genre Not Found"
	}
	return v.ref.Name + " " + v.ref.Kind.Plural()
}

// Start loads the first page if nothing has been loaded yet.
func (v *GenreView) Start(ctx context.Context) (feed.State, error) {
	if v.feed == nil {
		return feed.State{}, ErrNoGenre
	}
	return v.feed.Start(ctx)
}

// LoadNext loads one more page.
func (v *GenreView) LoadNext(ctx context.Context) (feed.State, error) {
	if v.feed == nil {
		return feed.State{}, ErrNoGenre
	}
	return v.feed.LoadNext(ctx)
}

// State returns the current feed snapshot; empty before a genre is resolved.
func (v *GenreView) State() feed.State {
	if v.feed == nil {
		return feed.State{}
	}
	return v.feed.State()
}

// Close discards any in-flight response.
func (v *GenreView) Close() {
	if v.feed != nil {
		v.feed.Close()
	}
}
