package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/cinefeed/internal/cache"
	"github.com/lepinkainen/cinefeed/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CLI represents the complete command structure for the cinefeed application
type CLI struct {
	// Global flags
	Debug     bool   `help:"Enable debug logging"`
	LogFile   string `help:"Also write logs to this file, rotated (defaults to log.file from config)"`
	Dedup     bool   `help:"Drop titles already listed on earlier pages of the same listing"`
	Overwrite bool   `help:"Overwrite existing output files when exporting"`

	// Datasette flags
	Datasette   bool   `help:"Write exported listings to Datasette" default:"false"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./cinefeed.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Genre catalog cache time-to-live (e.g., 168h for a week)" default:"168h"`
	PageTTL     string `help:"List page cache time-to-live, 0 disables page caching" default:"15m"`

	Browse  BrowseCmd  `cmd:"" help:"Browse listings in the terminal"`
	Genres  GenresCmd  `cmd:"" help:"List the genres of a media type with their slugs"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a genre slug to its TMDB genre"`
	Fetch   FetchCmd   `cmd:"" help:"Export a listing to JSON, markdown, posters or Datasette"`
	Serve   ServeCmd   `cmd:"" help:"Serve the genre and listing JSON API"`
	Cache   CacheCmd   `cmd:"" help:"Manage the TMDB response cache"`
}

// CacheCmd groups the cache maintenance commands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Remove all cached entries of a source"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Remove expired cache entries"`
}

const (
	appName        = "cinefeed"
	appDescription = "Browse TMDB movie and TV listings by category or genre."
)

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
	)

	if err := initConfig(); err != nil {
		slog.Error("Failed to read config", "error", err)
		os.Exit(1)
	}

	logFile := cli.LogFile
	if logFile == "" {
		logFile = viper.GetString("log.file")
	}
	// Console logs would draw over the terminal browser
	console := !isInteractive(kctx.Command())
	initLogging(cli.Debug, console, logFile)

	updateGlobalConfig(&cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func isInteractive(command string) bool {
	return strings.HasPrefix(command, "browse category") || strings.HasPrefix(command, "browse genre")
}

func setConfigDefaults() {
	viper.SetDefault("tmdb.baseurl", "https://api.themoviedb.org/3")
	viper.SetDefault("tmdb.language", "en-US")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("PosterOutputDir", "./posters/")
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("feed.dedup", false)

	// Datasette defaults
	viper.SetDefault("datasette.enabled", false)
	viper.SetDefault("datasette.mode", "local")
	viper.SetDefault("datasette.dbfile", "./cinefeed.db")
	viper.SetDefault("datasette.database", "cinefeed")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "168h") // one week
	viper.SetDefault("cache.pagettl", "15m")
}

// initConfig reads config.yaml from the working directory, writing one with
// the defaults on first run.
func initConfig() error {
	setConfigDefaults()

	viper.AutomaticEnv()
	if err := viper.BindEnv("TMDBAPIKey", "TMDB_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind environment variable: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		slog.Info("Config file not found, writing default config file")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Could not write default config file", "error", err)
		}
	}

	return nil
}

// updateGlobalConfig applies flags on top of the config file and refreshes
// the config package globals.
func updateGlobalConfig(cli *CLI) {
	// Datasette config
	viper.Set("datasette.enabled", cli.Datasette || viper.GetBool("datasette.enabled"))
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	viper.Set("cache.pagettl", cli.PageTTL)

	if cli.Dedup {
		viper.Set("feed.dedup", true)
	}
	if cli.Overwrite {
		viper.Set("OverwriteFiles", true)
	}

	config.InitConfig()
}

// initLogging installs the humanlog handler. Output goes to stdout when
// console is set and to a rotated file when logFile is set.
func initLogging(debug, console bool, logFile string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	if console {
		writers = append(writers, os.Stdout)
	}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "could not create log directory: %v\n", err)
		} else {
			writers = append(writers, &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			})
		}
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	handler := humanlog.NewHandler(out, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
