package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: tmdb, genres, pages" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "source", i.Source, "database", cacheDB)

	tables, ok := SourceTables[i.Source]
	if !ok {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: %s", i.Source, validSources())
	}

	// Get or create cache database
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	var total int64
	for _, tableName := range tables {
		rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
		if err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		total += rowsDeleted
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", total)
	return nil
}

// PruneCacheCmd removes entries older than the configured TTL from every cache table.
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run() error {
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := configuredTTL()
	for tableName := range ValidCacheTableNames {
		if err := cacheInstance.ClearExpired(tableName, ttl); err != nil {
			return err
		}
	}
	return nil
}

func validSources() string {
	names := make([]string, 0, len(SourceTables))
	for name := range SourceTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
