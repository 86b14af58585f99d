package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "https://api.themoviedb.org/3", TMDBBaseURL)
	assert.Equal(t, "en-US", Language)
	assert.False(t, DedupFeeds)
	assert.Equal(t, 15*time.Minute, PageCacheTTL)
	assert.Empty(t, TMDBAPIKey)
}

func TestInitConfigReadsViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("TMDBAPIKey", "abc123")
	viper.Set("tmdb.language", "fi-FI")
	viper.Set("feed.dedup", true)
	viper.Set("cache.pagettl", "0s")

	InitConfig()

	assert.Equal(t, "abc123", TMDBAPIKey)
	assert.Equal(t, "fi-FI", Language)
	assert.True(t, DedupFeeds)
	assert.Zero(t, PageCacheTTL)
}
