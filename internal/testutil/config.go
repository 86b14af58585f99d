package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/cinefeed/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	TMDBAPIKey   string
	TMDBBaseURL  string
	Language     string
	DedupFeeds   bool
	PageCacheTTL time.Duration
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		TMDBAPIKey:   config.TMDBAPIKey,
		TMDBBaseURL:  config.TMDBBaseURL,
		Language:     config.Language,
		DedupFeeds:   config.DedupFeeds,
		PageCacheTTL: config.PageCacheTTL,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.TMDBAPIKey = state.TMDBAPIKey
	config.TMDBBaseURL = state.TMDBBaseURL
	config.Language = state.Language
	config.DedupFeeds = state.DedupFeeds
	config.PageCacheTTL = state.PageCacheTTL
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*ConfigState)

// WithTMDBAPIKey sets the TMDB API key.
func WithTMDBAPIKey(key string) SetTestConfigOption {
	return func(s *ConfigState) {
		s.TMDBAPIKey = key
	}
}

// WithTMDBBaseURL points the TMDB client at a test server.
func WithTMDBBaseURL(baseURL string) SetTestConfigOption {
	return func(s *ConfigState) {
		s.TMDBBaseURL = baseURL
	}
}

// WithDedupFeeds sets the DedupFeeds option.
func WithDedupFeeds(v bool) SetTestConfigOption {
	return func(s *ConfigState) {
		s.DedupFeeds = v
	}
}

// SetTestConfig sets up a test configuration with common defaults plus any options.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	ResetConfig(t)

	state := ConfigState{
		TMDBAPIKey: "test-tmdb-key",
		Language:   "en-US",
	}
	for _, opt := range opts {
		opt(&state)
	}
	RestoreConfigState(state)
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so a previously unset key keeps the test value
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")

	return cacheDir
}

// SetupDatasetteDB points datasette.dbfile at a database inside the test environment.
func SetupDatasetteDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("test.db")
	SetViperValue(t, "datasette.dbfile", dbPath)

	return dbPath
}
