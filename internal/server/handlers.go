package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lepinkainen/cinefeed/internal/browse"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/slug"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

type directoryResponse struct {
	MediaType tmdb.MediaKind `json:"media_type"`
	Genres    []genre.Entry  `json:"genres"`
}

type genreResponse struct {
	genre.Ref
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// listingResponse is the accumulated state of a feed after Page pages.
type listingResponse struct {
	Key     string           `json:"key"`
	Title   string           `json:"title"`
	Genre   *genre.Ref       `json:"genre,omitempty"`
	Page    int              `json:"page"`
	HasMore bool             `json:"has_more"`
	Items   []tmdb.MediaItem `json:"items"`
}

// pager is the part of a view the listing handlers drive.
type pager interface {
	Start(ctx context.Context) (feed.State, error)
	LoadNext(ctx context.Context) (feed.State, error)
	Close()
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	success(w, map[string]string{"status": "healthy"}, s.logger)
}

func (s *Server) handleGenreDirectory(w http.ResponseWriter, r *http.Request) {
	req := directoryRequest{MediaType: chi.URLParam(r, "mediaType")}
	if err := s.validator.Validate(req); err != nil {
		handleError(w, err, s.logger)
		return
	}

	kind, err := tmdb.ParseMediaKind(req.MediaType)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	entries, err := s.resolver.Directory(r.Context(), kind)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	success(w, directoryResponse{MediaType: kind, Genres: entries}, s.logger)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenreRequest(r)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	kind, err := tmdb.ParseMediaKind(req.MediaType)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	ref, err := s.resolver.Resolve(r.Context(), kind, req.Slug)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	success(w, genreResponse{
		Ref:   ref,
		Slug:  slug.Slugify(ref.Name),
		Title: ref.Name + " " + kind.Plural(),
	}, s.logger)
}

func (s *Server) handleGenreItems(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGenreRequest(r)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	kind, err := tmdb.ParseMediaKind(req.MediaType)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	view := browse.NewGenreView(s.source, s.resolver, s.feedOpts...)
	defer view.Close()

	ref, err := view.Open(r.Context(), kind, req.Slug)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	state, err := loadPages(r.Context(), view, req.Page)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	resp := newListingResponse(browse.GenreKey(ref.Kind, ref.ID), view.Title(), state)
	resp.Genre = &ref
	success(w, resp, s.logger)
}

func (s *Server) handleCategoryItems(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	req := listRequest{
		MediaType: chi.URLParam(r, "mediaType"),
		Category:  chi.URLParam(r, "category"),
		Page:      page,
	}
	if err := s.validator.Validate(req); err != nil {
		handleError(w, err, s.logger)
		return
	}

	kind, err := tmdb.ParseMediaKind(req.MediaType)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}
	category, err := tmdb.ParseCategory(kind, req.Category)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	view := browse.NewCategoryView(s.source, kind, category, s.feedOpts...)
	defer view.Close()

	state, err := loadPages(r.Context(), view, req.Page)
	if err != nil {
		handleError(w, err, s.logger)
		return
	}

	success(w, newListingResponse(browse.CategoryKey(kind, category), view.Title(), state), s.logger)
}

func (s *Server) parseGenreRequest(r *http.Request) (genreRequest, error) {
	page, err := pageParam(r)
	if err != nil {
		return genreRequest{}, err
	}

	req := genreRequest{
		MediaType: chi.URLParam(r, "mediaType"),
		Slug:      chi.URLParam(r, "slug"),
		Page:      page,
	}
	return req, s.validator.Validate(req)
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"page": "must be an integer"},
		}
	}
	return page, nil
}

// loadPages drives p through the feed until pages pages are loaded or the
// listing is exhausted.
func loadPages(ctx context.Context, p pager, pages int) (feed.State, error) {
	state, err := p.Start(ctx)
	for err == nil && state.HasMore && state.Page <= pages {
		state, err = p.LoadNext(ctx)
	}
	return state, err
}

func newListingResponse(key, title string, state feed.State) listingResponse {
	items := feed.Displayable(state.Items)
	if items == nil {
		items = []tmdb.MediaItem{}
	}
	return listingResponse{
		Key:     key,
		Title:   title,
		Page:    state.Page - 1,
		HasMore: state.HasMore,
		Items:   items,
	}
}
