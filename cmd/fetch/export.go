// Package fetch exports a category or genre listing to JSON, markdown,
// poster files and the Datasette database.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lepinkainen/cinefeed/internal/browse"
	"github.com/lepinkainen/cinefeed/internal/cmdutil"
	"github.com/lepinkainen/cinefeed/internal/datastore"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/fileutil"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// DefaultPosterWidth is the width posters are resized to when none is given.
const DefaultPosterWidth = 500

// Posters downloads poster images and builds their URLs.
type Posters interface {
	PosterURL(posterPath string) string
	DownloadPoster(ctx context.Context, item tmdb.MediaItem, savePath string, maxWidth int) error
}

// Options selects the listing to export and the outputs to write.
// Exactly one of Category and Genre must be set.
type Options struct {
	Kind     tmdb.MediaKind
	Category string
	Genre    string
	Pages    int

	WriteJSON   bool
	JSONOutput  string
	Markdown    bool
	MarkdownDir string
	Posters     bool
	PosterDir   string
	PosterWidth int
	Overwrite   bool

	FeedOptions []feed.Option
}

// Listing is the exported form of a loaded feed.
type Listing struct {
	Key       string           `json:"key"`
	Title     string           `json:"title"`
	MediaType tmdb.MediaKind   `json:"media_type"`
	Genre     *genre.Ref       `json:"genre,omitempty"`
	Pages     int              `json:"pages"`
	HasMore   bool             `json:"has_more"`
	FetchedAt time.Time        `json:"fetched_at"`
	Items     []tmdb.MediaItem `json:"items"`
}

// Name is the base file name of the listing's outputs, e.g. "movie-top_rated".
func (l Listing) Name() string {
	return strings.ReplaceAll(l.Key, "/", "-")
}

// pager is the part of a browse view the exporter drives.
type pager interface {
	Start(ctx context.Context) (feed.State, error)
	LoadNext(ctx context.Context) (feed.State, error)
	Close()
}

// now is replaced in tests.
var now = time.Now

// Load resolves the listing named by opts and loads up to opts.Pages pages of it.
func Load(ctx context.Context, source browse.Source, opts Options) (Listing, error) {
	if (opts.Category == "") == (opts.Genre == "") {
		return Listing{}, errors.New("exactly one of category or genre is required")
	}
	pages := max(opts.Pages, 1)

	var (
		view    pager
		listing = Listing{MediaType: opts.Kind}
	)

	if opts.Category != "" {
		category, err := tmdb.ParseCategory(opts.Kind, opts.Category)
		if err != nil {
			return Listing{}, err
		}
		view = browse.NewCategoryView(source, opts.Kind, category, opts.FeedOptions...)
		listing.Key = browse.CategoryKey(opts.Kind, category)
		listing.Title = browse.SectionTitle(opts.Kind, category)
	} else {
		gv := browse.NewGenreView(source, genre.NewResolver(source, slog.Default()), opts.FeedOptions...)
		ref, err := gv.Open(ctx, opts.Kind, opts.Genre)
		if err != nil {
			return Listing{}, err
		}
		view = gv
		listing.Key = browse.GenreKey(ref.Kind, ref.ID)
		listing.Title = gv.Title()
		listing.Genre = &ref
	}
	defer view.Close()

	state, err := view.Start(ctx)
	for err == nil && state.HasMore && state.Page <= pages {
		slog.Debug("Loading next page", "listing", listing.Key, "page", state.Page)
		state, err = view.LoadNext(ctx)
	}
	if err != nil {
		return Listing{}, err
	}

	listing.Pages = state.Page - 1
	listing.HasMore = state.HasMore
	listing.FetchedAt = now().UTC()
	listing.Items = state.Items
	return listing, nil
}

// Export loads the listing and writes every output enabled in opts.
// Datasette output follows the datasette.* configuration.
func Export(ctx context.Context, source browse.Source, posters Posters, opts Options) (Listing, error) {
	listing, err := Load(ctx, source, opts)
	if err != nil {
		return Listing{}, err
	}
	slog.Info("Loaded listing", "listing", listing.Key, "pages", listing.Pages, "items", len(listing.Items), "has_more", listing.HasMore)

	paths := &cmdutil.ExportConfig{
		Name:         listing.Name(),
		JSONOutput:   opts.JSONOutput,
		WriteJSON:    opts.WriteJSON,
		PosterDir:    opts.PosterDir,
		WritePosters: opts.Posters,
	}
	if err := cmdutil.SetupExportPaths(paths); err != nil {
		return Listing{}, err
	}

	if opts.WriteJSON {
		if _, err := fileutil.WriteJSONFile(listing, paths.JSONOutput, opts.Overwrite); err != nil {
			return Listing{}, err
		}
	}

	if err := cmdutil.WriteToDatastore(listingRows(listing, posters), datastore.MediaItemsSchema, datastore.MediaItemsTable, listing.Title, rowToMap); err != nil {
		return Listing{}, err
	}

	if opts.Posters {
		downloaded := downloadPosters(ctx, posters, listing.Items, paths.PosterDir, opts.PosterWidth, opts.Overwrite)
		slog.Info("Downloaded posters", "dir", paths.PosterDir, "count", downloaded)
	}

	if opts.Markdown {
		dir := opts.MarkdownDir
		if dir == "" {
			dir = "markdown"
		}
		path := fileutil.GetMarkdownFilePath(listing.Title, dir)
		if err := fileutil.WriteMarkdownFile(path, renderMarkdown(listing, posters), opts.Overwrite); err != nil {
			return Listing{}, err
		}
	}

	return listing, nil
}

// downloadPosters saves the poster of every item that has one. Failures are
// logged and skipped. Existing files are kept unless overwrite is set.
func downloadPosters(ctx context.Context, posters Posters, items []tmdb.MediaItem, dir string, width int, overwrite bool) int {
	if width <= 0 {
		width = DefaultPosterWidth
	}

	downloaded := 0
	for _, item := range items {
		if !item.HasPoster() {
			continue
		}
		path := filepath.Join(dir, fileutil.PosterFilename(item.DisplayTitle(), item.YearInt()))
		if fileutil.FileExists(path) && !overwrite {
			slog.Debug("Poster already exists, skipping", "path", path)
			continue
		}
		if err := posters.DownloadPoster(ctx, item, path, width); err != nil {
			if ctx.Err() != nil {
				slog.Warn("Poster download cancelled", "error", ctx.Err())
				return downloaded
			}
			slog.Warn("Failed to download poster", "title", item.DisplayTitle(), "error", err)
			continue
		}
		downloaded++
	}
	return downloaded
}

// Describe is a one-line summary of an export for the CLI.
func Describe(l Listing) string {
	more := ""
	if l.HasMore {
		more = ", more available"
	}
	return fmt.Sprintf("%s: %d titles from %d page(s)%s", l.Title, len(l.Items), l.Pages, more)
}
