package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu         sync.Mutex
	genres     map[tmdb.MediaKind][]tmdb.Genre
	totalPages int
	failKeys   map[string]error
	requests   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		genres: map[tmdb.MediaKind][]tmdb.Genre{
			tmdb.Movie: {{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}},
			tmdb.TV:    {{ID: 10765, Name: "Sci-Fi & Fantasy"}},
		},
		totalPages: 3,
		failKeys:   map[string]error{},
	}
}

func (f *fakeSource) GenreList(_ context.Context, kind tmdb.MediaKind) ([]tmdb.Genre, error) {
	return f.genres[kind], nil
}

func (f *fakeSource) page(key string, page int) (tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, fmt.Sprintf("%s?page=%d", key, page))
	if err := f.failKeys[key]; err != nil {
		return tmdb.Page{}, err
	}

	results := make([]tmdb.MediaItem, 20)
	for i := range results {
		results[i] = tmdb.MediaItem{
			ID:         page*100 + i,
			Title:      fmt.Sprintf("%s #%d", key, page*100+i),
			PosterPath: fmt.Sprintf("/%d.jpg", page*100+i),
		}
	}
	return tmdb.Page{Page: page, TotalPages: f.totalPages, Results: results}, nil
}

func (f *fakeSource) CategoryPage(_ context.Context, kind tmdb.MediaKind, category tmdb.Category, page int) (tmdb.Page, error) {
	return f.page(CategoryKey(kind, category), page)
}

func (f *fakeSource) DiscoverPage(_ context.Context, kind tmdb.MediaKind, genreID int, page int) (tmdb.Page, error) {
	return f.page(GenreKey(kind, genreID), page)
}

func (f *fakeSource) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func TestCategoryViewSelectClearsItems(t *testing.T) {
	source := newFakeSource()
	view := NewCategoryView(source, tmdb.Movie, tmdb.Popular)

	_, err := view.Start(context.Background())
	require.NoError(t, err)
	state, err := view.LoadNext(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Items, 40)

	require.True(t, view.Select(tmdb.Movie, tmdb.TopRated))
	assert.Empty(t, view.State().Items)
	assert.Equal(t, "Top Rated Movies", view.Title())

	state, err = view.Start(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Items, 20)
	assert.Contains(t, state.Items[0].Title, "movie/top_rated")

	assert.Equal(t, []string{
		"movie/popular?page=1",
		"movie/popular?page=2",
		"movie/top_rated?page=1",
	}, source.Requests())
}

func TestCategoryViewSelectSameCategory(t *testing.T) {
	view := NewCategoryView(newFakeSource(), tmdb.TV, tmdb.OnTheAir)
	_, err := view.Start(context.Background())
	require.NoError(t, err)

	assert.False(t, view.Select(tmdb.TV, tmdb.OnTheAir))
	assert.Len(t, view.State().Items, 20)
}

func TestCategoryViewNextWraps(t *testing.T) {
	view := NewCategoryView(newFakeSource(), tmdb.TV, tmdb.AiringToday)

	assert.Equal(t, tmdb.Popular, view.Next())
	assert.Equal(t, tmdb.TopRated, view.Next())
	assert.Equal(t, tmdb.TopRated, view.Category())
	assert.Equal(t, tmdb.TV, view.Kind())
}

func TestGenreViewOpen(t *testing.T) {
	source := newFakeSource()
	view := NewGenreView(source, genre.NewResolver(source, nil))

	ref, err := view.Open(context.Background(), tmdb.TV, "Sci-Fi%20%26%20Fantasy")
	require.NoError(t, err)
	assert.Equal(t, genre.Ref{ID: 10765, Name: "Sci-Fi & Fantasy", Kind: tmdb.TV}, ref)
	assert.False(t, view.NotFound())
	assert.Equal(t, "Sci-Fi & Fantasy TV Shows", view.Title())

	state, err := view.Start(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Items, 20)
	assert.Equal(t, []string{"tv/genre/10765?page=1"}, source.Requests())
}

func TestGenreViewNotFound(t *testing.T) {
	source := newFakeSource()
	view := NewGenreView(source, genre.NewResolver(source, nil))

	_, err := view.Open(context.Background(), tmdb.Movie, "action")
	require.NoError(t, err)
	_, err = view.Start(context.Background())
	require.NoError(t, err)

	_, err = view.Open(context.Background(), tmdb.Movie, "polka-documentaries")
	require.True(t, apperrors.IsNotFoundError(err))
	assert.True(t, view.NotFound())
	assert.Equal(t, "polka-documentaries", view.NotFoundError().Slug)
	assert.Equal(t, "Genre Not Found", view.Title())
	assert.Empty(t, view.State().Items)

	_, err = view.LoadNext(context.Background())
	require.ErrorIs(t, err, ErrNoGenre)

	// Recovers on the next successful open
	_, err = view.Open(context.Background(), tmdb.Movie, "drama")
	require.NoError(t, err)
	assert.False(t, view.NotFound())
	state, err := view.Start(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Items, 20)
}

func TestGenreViewOpenResetsOnGenreChange(t *testing.T) {
	source := newFakeSource()
	view := NewGenreView(source, genre.NewResolver(source, nil))

	_, err := view.Open(context.Background(), tmdb.Movie, "action")
	require.NoError(t, err)
	_, err = view.Start(context.Background())
	require.NoError(t, err)

	_, err = view.Open(context.Background(), tmdb.Movie, "drama")
	require.NoError(t, err)
	assert.Empty(t, view.State().Items)
}

func TestGenreViewStartBeforeOpen(t *testing.T) {
	view := NewGenreView(newFakeSource(), genre.NewResolver(newFakeSource(), nil))

	_, err := view.Start(context.Background())
	require.ErrorIs(t, err, ErrNoGenre)
	assert.Empty(t, view.State().Items)
}

func TestLandingSections(t *testing.T) {
	landing := NewLanding(newFakeSource())

	var titles []string
	for _, s := range landing.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Popular Movies",
		"Top Rated Movies",
		"Upcoming Movies",
		"Now Playing Movies",
		"Popular TV Shows",
		"Top Rated TV Shows",
		"On The Air TV Shows",
		"Airing Today TV Shows",
	}, titles)
}

func TestLandingLoadAllSections(t *testing.T) {
	source := newFakeSource()
	landing := NewLanding(source)

	require.NoError(t, landing.Load(context.Background()))
	assert.Len(t, source.Requests(), 8)

	for _, s := range landing.Sections {
		assert.Len(t, s.Feed.State().Items, 20)
		assert.Len(t, s.Visible(), feed.InitialWindow)
	}

	// Loading again does not refetch
	require.NoError(t, landing.Load(context.Background()))
	assert.Len(t, source.Requests(), 8)
}

func TestLandingLoadReportsFailuresIndependently(t *testing.T) {
	source := newFakeSource()
	source.failKeys["tv/on_the_air"] = errors.New("tmdb: unexpected status 500")
	landing := NewLanding(source)

	err := landing.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tv/on_the_air")

	for _, s := range landing.Sections {
		state := s.Feed.State()
		if s.Kind == tmdb.TV && s.Category == tmdb.OnTheAir {
			assert.Empty(t, state.Items)
			assert.NotEmpty(t, state.Err)
			continue
		}
		assert.Len(t, state.Items, 20)
	}
}

func TestLandingShowMore(t *testing.T) {
	landing := NewLanding(newFakeSource())
	require.NoError(t, landing.Load(context.Background()))

	state, err := landing.ShowMore(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, state.Items, 40)
	assert.Equal(t, feed.ExpandedWindow, landing.Sections[0].Limit())
	assert.Len(t, landing.Sections[0].Visible(), 20)

	_, err = landing.ShowMore(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, landing.Sections[0].Visible(), 40)

	// Other sections are untouched
	assert.Equal(t, feed.InitialWindow, landing.Sections[1].Limit())

	_, err = landing.ShowMore(context.Background(), 42)
	require.Error(t, err)
}
