package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// TMDBAPIKey is the API key for TheMovieDB
	TMDBAPIKey string
	// TMDBBaseURL overrides the TMDB API base URL (used for testing against a local server)
	TMDBBaseURL string
	// Language is sent as the language parameter on TMDB requests
	Language string
	// DedupFeeds drops items already seen on earlier pages of the same feed
	DedupFeeds bool
	// PageCacheTTL controls how long category and discover pages are cached; zero disables page caching
	PageCacheTTL time.Duration
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("tmdb.baseurl", "https://api.themoviedb.org/3")
	viper.SetDefault("tmdb.language", "en-US")
	viper.SetDefault("feed.dedup", false)
	viper.SetDefault("cache.pagettl", "15m")

	// Get values from viper
	TMDBAPIKey = viper.GetString("TMDBAPIKey")
	TMDBBaseURL = viper.GetString("tmdb.baseurl")
	Language = viper.GetString("tmdb.language")
	DedupFeeds = viper.GetBool("feed.dedup")
	PageCacheTTL = viper.GetDuration("cache.pagettl")
}
