package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/lepinkainen/cinefeed/cmd/fetch"
	"github.com/lepinkainen/cinefeed/internal/browse"
	"github.com/lepinkainen/cinefeed/internal/config"
	"github.com/lepinkainen/cinefeed/internal/feed"
	"github.com/lepinkainen/cinefeed/internal/genre"
	"github.com/lepinkainen/cinefeed/internal/server"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
	"github.com/lepinkainen/cinefeed/internal/tui"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Catalog is everything the commands need from TMDB.
type Catalog interface {
	browse.Source
	fetch.Posters
}

var (
	newCatalog     = defaultCatalog
	browseCategory = tui.BrowseCategory
	browseGenre    = tui.BrowseGenre
	runExport      = fetch.Export
	runServer      = func(ctx context.Context, srv *server.Server, addr string) error { return srv.Run(ctx, addr) }
)

var stdout io.Writer = os.Stdout

// defaultCatalog builds a TMDB client from the global config, backed by the
// SQLite response cache.
func defaultCatalog() (Catalog, error) {
	if config.TMDBAPIKey == "" {
		return nil, errors.New("TMDB API key is required (set TMDB_API_KEY or TMDBAPIKey in config)")
	}

	client := tmdb.NewClient(config.TMDBAPIKey,
		tmdb.WithBaseURL(config.TMDBBaseURL),
		tmdb.WithLanguage(config.Language),
	)
	return tmdb.PersistentCatalog{Client: client, PageTTL: config.PageCacheTTL}, nil
}

func feedOptions() []feed.Option {
	opts := []feed.Option{feed.WithLogger(slog.Default())}
	if config.DedupFeeds {
		opts = append(opts, feed.WithDedup())
	}
	return opts
}

// BrowseCmd groups the browsing commands
type BrowseCmd struct {
	Home     HomeCmd     `cmd:"" help:"Print the landing page: every category of movies and TV shows"`
	Category CategoryCmd `cmd:"" help:"Browse a category interactively"`
	Genre    GenreCmd    `cmd:"" help:"Browse a genre interactively"`
}

// HomeCmd prints the landing sections
type HomeCmd struct {
	More []int `short:"m" help:"Show more of the section with this index (as printed in brackets); repeat to grow further"`
}

// CategoryCmd browses one category in the terminal UI
type CategoryCmd struct {
	MediaType string `arg:"" enum:"movie,tv" help:"movie or tv"`
	Category  string `arg:"" optional:"" default:"popular" help:"popular, top_rated, upcoming, now_playing, on_the_air or airing_today"`
}

// GenreCmd browses one genre in the terminal UI
type GenreCmd struct {
	MediaType string `arg:"" enum:"movie,tv" help:"movie or tv"`
	Slug      string `arg:"" help:"Genre slug or name, e.g. science-fiction"`
}

// GenresCmd lists a genre directory
type GenresCmd struct {
	MediaType string `arg:"" enum:"movie,tv" help:"movie or tv"`
	Format    string `short:"f" enum:"table,json,yaml" default:"table" help:"Output format: table, json or yaml"`
}

// ResolveCmd resolves a single slug
type ResolveCmd struct {
	MediaType string `arg:"" enum:"movie,tv" help:"movie or tv"`
	Slug      string `arg:"" help:"Genre slug or URL segment"`
	Format    string `short:"f" enum:"table,json,yaml" default:"table" help:"Output format: table, json or yaml"`
}

// FetchCmd exports a listing
type FetchCmd struct {
	MediaType   string `arg:"" enum:"movie,tv" help:"movie or tv"`
	Category    string `short:"c" help:"Category to export, e.g. top_rated" xor:"listing" required:""`
	Genre       string `short:"g" help:"Genre slug to export, e.g. horror" xor:"listing" required:""`
	Pages       int    `short:"p" help:"Number of pages to load" default:"1"`
	JSON        bool   `help:"Write the listing to a JSON file" default:"true" negatable:""`
	JSONOutput  string `help:"Path to JSON output file (defaults to json/<listing>.json)"`
	Markdown    bool   `help:"Write a markdown digest of the listing"`
	Posters     bool   `help:"Download and resize poster images"`
	PosterWidth int    `help:"Maximum poster width in pixels" default:"500"`
}

// ServeCmd runs the HTTP API
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr from config)"`
}

func (h *HomeCmd) Run(ctx context.Context) error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	landing := browse.NewLanding(catalog, feedOptions()...)
	defer landing.Close()

	for _, i := range h.More {
		if i < 0 || i >= len(landing.Sections) {
			return fmt.Errorf("section %d out of range (0-%d)", i, len(landing.Sections)-1)
		}
	}

	loadErr := landing.Load(ctx)
	if loadErr != nil {
		slog.Warn("Some sections failed to load", "error", loadErr)
	}

	for _, i := range h.More {
		if _, err := landing.ShowMore(ctx, i); err != nil {
			slog.Warn("Failed to load more", "section", landing.Sections[i].Title, "error", err)
		}
	}

	for i, section := range landing.Sections {
		fmt.Fprintf(stdout, "[%d] %s\n", i, section.Title)
		if state := section.Feed.State(); state.Err != "" {
			fmt.Fprintf(stdout, "  (failed to load: %s)\n\n", state.Err)
			continue
		}
		for n, item := range section.Visible() {
			fmt.Fprintf(stdout, "  %d. %s (%s)  %.1f\n", n+1, item.DisplayTitle(), item.Year(), item.VoteAverage)
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

func (c *CategoryCmd) Run(ctx context.Context) error {
	kind, err := tmdb.ParseMediaKind(c.MediaType)
	if err != nil {
		return err
	}
	category, err := tmdb.ParseCategory(kind, c.Category)
	if err != nil {
		return err
	}
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	view := browse.NewCategoryView(catalog, kind, category, feedOptions()...)
	return browseCategory(ctx, view, catalog.PosterURL)
}

func (g *GenreCmd) Run(ctx context.Context) error {
	kind, err := tmdb.ParseMediaKind(g.MediaType)
	if err != nil {
		return err
	}
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	view := browse.NewGenreView(catalog, genre.NewResolver(catalog, slog.Default()), feedOptions()...)

	// A NotFound result is rendered by the browser
	if _, err := view.Open(ctx, kind, g.Slug); err != nil && !view.NotFound() {
		return err
	}
	return browseGenre(ctx, view, catalog.PosterURL)
}

func (g *GenresCmd) Run(ctx context.Context) error {
	kind, err := tmdb.ParseMediaKind(g.MediaType)
	if err != nil {
		return err
	}
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	entries, err := genre.NewResolver(catalog, slog.Default()).Directory(ctx, kind)
	if err != nil {
		return err
	}

	if g.Format != "table" {
		return encode(g.Format, entries)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Name, e.Slug)
	}
	return w.Flush()
}

func (r *ResolveCmd) Run(ctx context.Context) error {
	kind, err := tmdb.ParseMediaKind(r.MediaType)
	if err != nil {
		return err
	}
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	ref, err := genre.NewResolver(catalog, slog.Default()).Resolve(ctx, kind, r.Slug)
	if err != nil {
		return err
	}
	if r.Format != "table" {
		return encode(r.Format, ref)
	}
	fmt.Fprintf(stdout, "%d\t%s\t%s\n", ref.ID, ref.Name, ref.Kind)
	return nil
}

// encode writes v to stdout as json or yaml.
func encode(format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func (f *FetchCmd) Run(ctx context.Context) error {
	kind, err := tmdb.ParseMediaKind(f.MediaType)
	if err != nil {
		return err
	}
	if f.Pages < 1 {
		return fmt.Errorf("pages must be at least 1, got %d", f.Pages)
	}
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	listing, err := runExport(ctx, catalog, catalog, fetch.Options{
		Kind:        kind,
		Category:    strings.TrimSpace(f.Category),
		Genre:       strings.TrimSpace(f.Genre),
		Pages:       f.Pages,
		WriteJSON:   f.JSON,
		JSONOutput:  f.JSONOutput,
		Markdown:    f.Markdown,
		MarkdownDir: viper.GetString("MarkdownOutputDir"),
		Posters:     f.Posters,
		PosterWidth: f.PosterWidth,
		Overwrite:   viper.GetBool("OverwriteFiles"),
		FeedOptions: feedOptions(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, fetch.Describe(listing))
	return nil
}

func (s *ServeCmd) Run(ctx context.Context) error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	addr := s.Addr
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	srv := server.New(catalog,
		server.WithLogger(slog.Default()),
		server.WithFeedOptions(feedOptions()...),
	)
	return runServer(ctx, srv, addr)
}
