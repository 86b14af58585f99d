package datastore

// MediaItemsTable holds one row per title per exported listing.
const MediaItemsTable = "media_items"

// MediaItemsColumns lists the media_items columns in table order.
var MediaItemsColumns = []string{
	"list_key", "list_title", "media_type", "rank", "id", "display_title",
	"title", "name", "year", "overview", "release_date", "first_air_date",
	"poster_path", "poster_url", "backdrop_path", "genre_ids",
	"vote_average", "vote_count", "popularity", "original_language", "fetched_at",
}

// MediaItemsSchema is keyed by listing and title id, so re-exporting a
// listing refreshes its rows instead of duplicating them.
const MediaItemsSchema = `CREATE TABLE IF NOT EXISTS media_items (
	list_key TEXT NOT NULL,
	list_title TEXT NOT NULL,
	media_type TEXT NOT NULL,
	rank INTEGER NOT NULL,
	id INTEGER NOT NULL,
	display_title TEXT NOT NULL,
	title TEXT,
	name TEXT,
	year INTEGER,
	overview TEXT,
	release_date TEXT,
	first_air_date TEXT,
	poster_path TEXT,
	poster_url TEXT,
	backdrop_path TEXT,
	genre_ids TEXT,
	vote_average REAL,
	vote_count INTEGER,
	popularity REAL,
	original_language TEXT,
	fetched_at TEXT NOT NULL,
	PRIMARY KEY (list_key, id)
)`
