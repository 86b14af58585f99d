package fetch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/cinefeed/internal/datastore"
	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/testutil"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type fakeSource struct {
	totalPages int
	requests   []string
}

func (f *fakeSource) GenreList(_ context.Context, kind tmdb.MediaKind) ([]tmdb.Genre, error) {
	if kind == tmdb.Movie {
		return []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 27, Name: "Horror"}}, nil
	}
	return []tmdb.Genre{{ID: 10765, Name: "Sci-Fi & Fantasy"}}, nil
}

func (f *fakeSource) page(key string, page int) (tmdb.Page, error) {
	f.requests = append(f.requests, fmt.Sprintf("%s?page=%d", key, page))
	results := make([]tmdb.MediaItem, 20)
	for i := range results {
		id := page*100 + i
		results[i] = tmdb.MediaItem{
			ID:          id,
			Title:       fmt.Sprintf("Title %d", id),
			PosterPath:  fmt.Sprintf("/p%d.jpg", id),
			ReleaseDate: "1999-03-31",
			GenreIDs:    []int{28, 878},
			VoteAverage: 8.2,
			VoteCount:   1000,
		}
	}
	results[0].PosterPath = ""
	return tmdb.Page{Page: page, TotalPages: f.totalPages, Results: results}, nil
}

func (f *fakeSource) CategoryPage(_ context.Context, kind tmdb.MediaKind, category tmdb.Category, page int) (tmdb.Page, error) {
	return f.page(fmt.Sprintf("%s/%s", kind, category), page)
}

func (f *fakeSource) DiscoverPage(_ context.Context, kind tmdb.MediaKind, genreID int, page int) (tmdb.Page, error) {
	return f.page(fmt.Sprintf("%s/genre/%d", kind, genreID), page)
}

type fakePosters struct {
	mu         sync.Mutex
	downloaded []string
	failID     int
}

func (p *fakePosters) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return "https://image.test/w500" + posterPath
}

func (p *fakePosters) DownloadPoster(_ context.Context, item tmdb.MediaItem, savePath string, _ int) error {
	if item.ID == p.failID {
		return errors.New("image decode failed")
	}
	p.mu.Lock()
	p.downloaded = append(p.downloaded, savePath)
	p.mu.Unlock()
	return os.WriteFile(savePath, []byte("jpeg"), 0o644)
}

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestLoadCategory(t *testing.T) {
	fixedNow(t)
	source := &fakeSource{totalPages: 5}

	listing, err := Load(context.Background(), source, Options{Kind: tmdb.Movie, Category: "top_rated", Pages: 2})
	require.NoError(t, err)

	assert.Equal(t, "movie/top_rated", listing.Key)
	assert.Equal(t, "Top Rated Movies", listing.Title)
	assert.Equal(t, "movie-top_rated", listing.Name())
	assert.Nil(t, listing.Genre)
	assert.Equal(t, 2, listing.Pages)
	assert.True(t, listing.HasMore)
	assert.Len(t, listing.Items, 40)
	assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), listing.FetchedAt)
	assert.Equal(t, []string{"movie/top_rated?page=1", "movie/top_rated?page=2"}, source.requests)
	assert.Equal(t, "Top Rated Movies: 40 titles from 2 page(s), more available", Describe(listing))
}

func TestLoadStopsWhenExhausted(t *testing.T) {
	source := &fakeSource{totalPages: 2}

	listing, err := Load(context.Background(), source, Options{Kind: tmdb.TV, Category: "popular", Pages: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, listing.Pages)
	assert.False(t, listing.HasMore)
	assert.Len(t, source.requests, 2)
	assert.Equal(t, "Popular TV Shows: 40 titles from 2 page(s)", Describe(listing))
}

func TestLoadGenre(t *testing.T) {
	source := &fakeSource{totalPages: 3}

	listing, err := Load(context.Background(), source, Options{Kind: tmdb.TV, Genre: "Sci-Fi%20%26%20Fantasy"})
	require.NoError(t, err)

	assert.Equal(t, "tv/genre/10765", listing.Key)
	assert.Equal(t, "Sci-Fi & Fantasy TV Shows", listing.Title)
	require.NotNil(t, listing.Genre)
	assert.Equal(t, 10765, listing.Genre.ID)
	assert.Equal(t, 1, listing.Pages)
	assert.Len(t, listing.Items, 20)
}

func TestLoadErrors(t *testing.T) {
	source := &fakeSource{totalPages: 3}

	_, err := Load(context.Background(), source, Options{Kind: tmdb.Movie})
	assert.EqualError(t, err, "exactly one of category or genre is required")

	_, err = Load(context.Background(), source, Options{Kind: tmdb.Movie, Category: "popular", Genre: "action"})
	assert.EqualError(t, err, "exactly one of category or genre is required")

	_, err = Load(context.Background(), source, Options{Kind: tmdb.Movie, Category: "airing_today"})
	assert.ErrorIs(t, err, tmdb.ErrInvalidCategory)

	_, err = Load(context.Background(), source, Options{Kind: tmdb.Movie, Genre: "underwater"})
	assert.True(t, apperrors.IsNotFoundError(err))

	assert.Empty(t, source.requests)
}

func TestExportWritesAllOutputs(t *testing.T) {
	fixedNow(t)
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	viper.Set("datasette.enabled", true)
	viper.Set("datasette.mode", "local")
	dbPath := testutil.SetupDatasetteDB(t, env)

	posters := &fakePosters{failID: 105}
	opts := Options{
		Kind:        tmdb.Movie,
		Genre:       "horror",
		Pages:       1,
		WriteJSON:   true,
		JSONOutput:  env.Path("json", "horror.json"),
		Markdown:    true,
		MarkdownDir: env.Path("markdown"),
		Posters:     true,
		PosterDir:   env.Path("posters"),
	}

	listing, err := Export(context.Background(), &fakeSource{totalPages: 1}, posters, opts)
	require.NoError(t, err)
	assert.Len(t, listing.Items, 20)

	// JSON keeps every item, including ones without a poster.
	var written Listing
	require.NoError(t, json.Unmarshal(env.ReadFile("json/horror.json"), &written))
	assert.Equal(t, "movie/genre/27", written.Key)
	assert.Len(t, written.Items, 20)

	// Markdown renders only displayable items.
	md := env.ReadFileString("markdown/Horror Movies.md")
	assert.Contains(t, md, `title: "Horror Movies"`)
	assert.Contains(t, md, "genre_id: 27")
	assert.Contains(t, md, "titles: 19")
	assert.Contains(t, md, "## 1. Title 101 (1999)")
	assert.NotContains(t, md, "Title 100")
	assert.Contains(t, md, "![](https://image.test/w500/p101.jpg)")
	assert.Contains(t, md, "> Rating: 8.2 (1000 votes)")
	assert.Contains(t, md, "> Decade: #year/1990s")
	assert.Contains(t, md, "[View on TMDB](https://www.themoviedb.org/movie/101)")

	// 19 items have posters and one download fails.
	assert.Len(t, posters.downloaded, 18)
	env.RequireFileExists("posters/Title 101 (1999).jpg")
	assert.False(t, env.FileExists("posters/Title 105 (1999).jpg"))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM media_items WHERE list_key = ?", "movie/genre/27").Scan(&count))
	assert.Equal(t, 20, count)

	var title, genreIDs, posterURL, fetchedAt string
	var rank, year int
	require.NoError(t, db.QueryRow(
		"SELECT display_title, rank, year, genre_ids, poster_url, fetched_at FROM media_items WHERE id = ?", 101,
	).Scan(&title, &rank, &year, &genreIDs, &posterURL, &fetchedAt))
	assert.Equal(t, "Title 101", title)
	assert.Equal(t, 2, rank)
	assert.Equal(t, 1999, year)
	assert.Equal(t, "28,878", genreIDs)
	assert.Equal(t, "https://image.test/w500/p101.jpg", posterURL)
	assert.Equal(t, "2026-03-04T05:06:07Z", fetchedAt)
}

func TestExportKeepsExistingPosters(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFile("posters/Title 101 (1999).jpg", []byte("old"))

	posters := &fakePosters{}
	_, err := Export(context.Background(), &fakeSource{totalPages: 1}, posters, Options{
		Kind:      tmdb.Movie,
		Category:  "popular",
		Posters:   true,
		PosterDir: env.Path("posters"),
	})
	require.NoError(t, err)

	assert.Len(t, posters.downloaded, 18)
	assert.Equal(t, "old", env.ReadFileString("posters/Title 101 (1999).jpg"))
}

func TestRowToMapMatchesSchemaColumns(t *testing.T) {
	listing := Listing{
		Key:       "tv/popular",
		Title:     "Popular TV Shows",
		MediaType: tmdb.TV,
		FetchedAt: time.Date(2026, 1, 1, 2, 0, 0, 0, time.FixedZone("EET", 2*60*60)),
		Items:     []tmdb.MediaItem{{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17", OriginalLang: "en"}},
	}

	row := rowToMap(listingRows(listing, &fakePosters{})[0])

	assert.Equal(t, "tv/popular", row["list_key"])
	assert.Equal(t, "tv", row["media_type"])
	assert.Equal(t, 1, row["rank"])
	assert.Equal(t, 1399, row["id"])
	assert.Equal(t, "Game of Thrones", row["display_title"])
	assert.Equal(t, 2011, row["year"])
	assert.Equal(t, "", row["poster_url"])
	assert.Equal(t, "", row["genre_ids"])
	assert.Equal(t, "en", row["original_language"])
	assert.Equal(t, "2026-01-01T00:00:00Z", row["fetched_at"])
	assert.Len(t, row, 21)

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, datastore.MediaItemsColumns, keys)
}

func TestRowToMapJoinsGenreIDs(t *testing.T) {
	listing := Listing{
		Key:       "movie/popular",
		MediaType: tmdb.Movie,
		Items:     []tmdb.MediaItem{{ID: 1, Title: "Heat", GenreIDs: []int{28, 878}, VoteAverage: 7.9}},
	}

	row := rowToMap(listingRows(listing, &fakePosters{})[0])

	assert.Equal(t, "28,878", row["genre_ids"])
	assert.Equal(t, 7.9, row["vote_average"])
}
