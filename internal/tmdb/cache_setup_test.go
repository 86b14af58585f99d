package tmdb

import (
	"testing"

	"github.com/lepinkainen/cinefeed/internal/cache"
	"github.com/lepinkainen/cinefeed/internal/testutil"
	"github.com/spf13/viper"
)

func setupTMDBCache(t *testing.T) {
	t.Helper()

	// Reset any existing global cache to ensure isolation between tests
	if err := cache.ResetGlobalCache(); err != nil {
		t.Fatalf("Failed to reset global cache: %v", err)
	}

	viper.Reset()
	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
		viper.Reset()
	})

	testutil.SetupTestCache(t, testutil.NewTestEnv(t))

	cacheDB, err := cache.GetGlobalCache()
	if err != nil {
		t.Fatalf("Failed to init cache: %v", err)
	}
	for _, table := range []string{"tmdb_cache", "tmdb_page_cache"} {
		if err := cacheDB.ClearAll(table); err != nil {
			t.Fatalf("Failed to reset %s table: %v", table, err)
		}
	}
}
