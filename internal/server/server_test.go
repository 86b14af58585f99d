package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/testutil"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu         sync.Mutex
	genres     map[tmdb.MediaKind][]tmdb.Genre
	genreErr   error
	pageErr    error
	totalPages int
	requests   []string
}

func newStubSource() *stubSource {
	return &stubSource{
		genres: map[tmdb.MediaKind][]tmdb.Genre{
			tmdb.Movie: {{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
			tmdb.TV: {
				{ID: 10759, Name: "Action & Adventure"},
				{ID: 10765, Name: "Sci-Fi & Fantasy"},
				{ID: 10768, Name: "War & Politics"},
			},
		},
		totalPages: 3,
	}
}

func (s *stubSource) GenreList(_ context.Context, kind tmdb.MediaKind) ([]tmdb.Genre, error) {
	if s.genreErr != nil {
		return nil, s.genreErr
	}
	return s.genres[kind], nil
}

func (s *stubSource) page(key string, page int) (tmdb.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, fmt.Sprintf("%s?page=%d", key, page))
	if s.pageErr != nil {
		return tmdb.Page{}, s.pageErr
	}

	results := make([]tmdb.MediaItem, 20)
	for i := range results {
		id := page*100 + i
		results[i] = tmdb.MediaItem{ID: id, Title: fmt.Sprintf("Title %d", id), PosterPath: fmt.Sprintf("/%d.jpg", id)}
	}
	// One item per page has no poster and is never rendered.
	results[19].PosterPath = ""
	return tmdb.Page{Page: page, TotalPages: s.totalPages, Results: results}, nil
}

func (s *stubSource) CategoryPage(_ context.Context, kind tmdb.MediaKind, category tmdb.Category, page int) (tmdb.Page, error) {
	return s.page(fmt.Sprintf("%s/%s", kind, category), page)
}

func (s *stubSource) DiscoverPage(_ context.Context, kind tmdb.MediaKind, genreID int, page int) (tmdb.Page, error) {
	return s.page(fmt.Sprintf("%s/genre/%d", kind, genreID), page)
}

func (s *stubSource) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

type listingBody struct {
	Data struct {
		Key     string           `json:"key"`
		Title   string           `json:"title"`
		Genre   *json.RawMessage `json:"genre"`
		Page    int              `json:"page"`
		HasMore bool             `json:"has_more"`
		Items   []tmdb.MediaItem `json:"items"`
	} `json:"data"`
	Success bool `json:"success"`
}

func newTestServer(source *stubSource) *Server {
	return New(source, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	rec := get(t, newTestServer(newStubSource()), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"status":"healthy"}}`, rec.Body.String())
}

func TestGenreDirectory(t *testing.T) {
	rec := get(t, newTestServer(newStubSource()), "/api/v1/genres/tv")
	require.Equal(t, http.StatusOK, rec.Code)

	golden := testutil.NewGoldenHelper(t, "testdata")
	golden.AssertGoldenJSON("genre_directory_tv.json", rec.Body.Bytes())
}

func TestGenreDirectory_UpstreamFailure(t *testing.T) {
	source := newStubSource()
	source.genreErr = apperrors.NewFetchError("https://api.themoviedb.org/3/genre/movie/list", http.StatusInternalServerError, "")

	rec := get(t, newTestServer(source), "/api/v1/genres/movie")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[Envelope](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "upstream catalog request failed", body.Error)
}

func TestGetGenre(t *testing.T) {
	srv := newTestServer(newStubSource())

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "catalog slug",
			path: "/api/v1/genres/movie/science-fiction",
			want: `{"success":true,"data":{"id":878,"name":"Science Fiction","kind":"movie","slug":"science-fiction","title":"Science Fiction Movies"}}`,
		},
		{
			name: "percent encoded name",
			path: "/api/v1/genres/tv/Sci-Fi%20%26%20Fantasy",
			want: `{"success":true,"data":{"id":10765,"name":"Sci-Fi & Fantasy","kind":"tv","slug":"sci-fi-and-fantasy","title":"Sci-Fi & Fantasy TV Shows"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestGetGenre_NotFound(t *testing.T) {
	rec := get(t, newTestServer(newStubSource()), "/api/v1/genres/movie/underwater-basket-weaving")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"genre \"underwater-basket-weaving\" not found"}`, rec.Body.String())
}

func TestGetGenre_DecodesSlugOnce(t *testing.T) {
	srv := newTestServer(newStubSource())

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "escaped percent sign",
			path: "/api/v1/genres/movie/a%2541",
			want: `{"success":false,"error":"genre \"a41\" not found"}`,
		},
		{
			name: "double encoded space",
			path: "/api/v1/genres/movie/Science%2520Fiction",
			want: `{"success":false,"error":"genre \"science20fiction\" not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestGenreItems(t *testing.T) {
	source := newStubSource()
	rec := get(t, newTestServer(source), "/api/v1/genres/movie/action/items?page=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[listingBody](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "movie/genre/28", body.Data.Key)
	assert.Equal(t, "Action Movies", body.Data.Title)
	require.NotNil(t, body.Data.Genre)
	assert.JSONEq(t, `{"id":28,"name":"Action","kind":"movie"}`, string(*body.Data.Genre))
	assert.Equal(t, 2, body.Data.Page)
	assert.True(t, body.Data.HasMore)
	assert.Len(t, body.Data.Items, 38)

	assert.Equal(t, []string{"movie/genre/28?page=1", "movie/genre/28?page=2"}, source.Requests())
}

func TestGenreItems_NotFoundMakesNoListRequest(t *testing.T) {
	source := newStubSource()
	rec := get(t, newTestServer(source), "/api/v1/genres/tv/nope/items")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, source.Requests())
}

func TestCategoryItems(t *testing.T) {
	source := newStubSource()
	srv := newTestServer(source)

	rec := get(t, srv, "/api/v1/movie/popular")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[listingBody](t, rec)
	assert.Equal(t, "movie/popular", body.Data.Key)
	assert.Equal(t, "Popular Movies", body.Data.Title)
	assert.Nil(t, body.Data.Genre)
	assert.Equal(t, 1, body.Data.Page)
	assert.True(t, body.Data.HasMore)
	assert.Len(t, body.Data.Items, 19)
}

func TestCategoryItems_StopsAtLastPage(t *testing.T) {
	source := newStubSource()
	rec := get(t, newTestServer(source), "/api/v1/tv/top_rated?page=5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[listingBody](t, rec)
	assert.Equal(t, 3, body.Data.Page)
	assert.False(t, body.Data.HasMore)
	assert.Len(t, body.Data.Items, 57)
	assert.Len(t, source.Requests(), 3)
}

func TestCategoryItems_BadRequests(t *testing.T) {
	srv := newTestServer(newStubSource())

	tests := []struct {
		name       string
		path       string
		wantError  string
		wantDetail map[string]string
	}{
		{
			name:       "unknown media type",
			path:       "/api/v1/books/popular",
			wantError:  "validation failed",
			wantDetail: map[string]string{"mediaType": "must be one of: movie tv"},
		},
		{
			name:      "category of the other kind",
			path:      "/api/v1/movie/on_the_air",
			wantError: "invalid category: \"on_the_air\" for movie",
		},
		{
			name:       "non-numeric page",
			path:       "/api/v1/movie/popular?page=two",
			wantError:  "validation failed",
			wantDetail: map[string]string{"page": "must be an integer"},
		},
		{
			name:       "page too large",
			path:       "/api/v1/movie/popular?page=11",
			wantError:  "validation failed",
			wantDetail: map[string]string{"page": "must be less than or equal to 10"},
		},
		{
			name:       "page zero",
			path:       "/api/v1/tv/popular?page=0",
			wantError:  "validation failed",
			wantDetail: map[string]string{"page": "must be greater than or equal to 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode[Envelope](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantDetail, body.Details)
		})
	}
}

func TestCategoryItems_UpstreamErrors(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		source := newStubSource()
		source.pageErr = fmt.Errorf("wrapped: %w", apperrors.NewFetchError("https://api.themoviedb.org/3/movie/popular", http.StatusServiceUnavailable, ""))

		rec := get(t, newTestServer(source), "/api/v1/movie/popular")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		source := newStubSource()
		source.pageErr = errors.Join(
			apperrors.NewFetchError("https://api.themoviedb.org/3/movie/popular", http.StatusTooManyRequests, ""),
			apperrors.NewRateLimitErrorWithRetry("tmdb: rate limited", 7*time.Second),
		)

		rec := get(t, newTestServer(source), "/api/v1/movie/popular")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "7", rec.Header().Get("Retry-After"))
	})

	t.Run("network error", func(t *testing.T) {
		source := newStubSource()
		source.pageErr = errors.New("dial tcp: connection refused")

		rec := get(t, newTestServer(source), "/api/v1/movie/popular")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "upstream catalog unavailable", decode[Envelope](t, rec).Error)
	})
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestServer(newStubSource()), "/api/v2/nothing/here/at-all")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, rec.Body.String())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{"slug": "is required", "page": "must be an integer"},
	}
	assert.Equal(t, "validation failed: page must be an integer; slug is required", err.Error())
}
