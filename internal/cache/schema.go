package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency.
// ttl_seconds is zero unless the entry was stored with its own TTL.

// TMDBCacheSchema defines the schema for TMDB genre catalog cache
const TMDBCacheSchema = `
CREATE TABLE IF NOT EXISTS tmdb_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tmdb_cached_at ON tmdb_cache(cached_at);
`

// TMDBPageCacheSchema defines the schema for short-lived category and discover page cache
const TMDBPageCacheSchema = `
CREATE TABLE IF NOT EXISTS tmdb_page_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tmdb_page_cached_at ON tmdb_page_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	TMDBCacheSchema,
	TMDBPageCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"tmdb_cache":      true,
	"tmdb_page_cache": true,
}

// SourceTables maps the user-facing cache source names to their tables.
var SourceTables = map[string][]string{
	"tmdb":   {"tmdb_cache", "tmdb_page_cache"},
	"genres": {"tmdb_cache"},
	"pages":  {"tmdb_page_cache"},
}
