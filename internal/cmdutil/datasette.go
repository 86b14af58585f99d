package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/cinefeed/internal/datastore"
	"github.com/spf13/viper"
)

// DefaultDatasetteDatabase is the remote database name used when datasette.database is unset.
const DefaultDatasetteDatabase = "cinefeed"

// newStore builds the store for the configured datasette.mode.
var newStore = func(mode string) (datastore.Store, error) {
	switch mode {
	case "", "local":
		return datastore.NewSQLiteStore(viper.GetString("datasette.dbfile")), nil
	case "remote":
		return datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		), nil
	default:
		return nil, fmt.Errorf("invalid datasette mode: %q (use local or remote)", mode)
	}
}

// WriteToDatastore maps records to rows and writes them to the configured
// datastore when datasette.enabled is set. Otherwise it does nothing.
func WriteToDatastore[T any](records []T, schema, table, description string, mapper func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	mode := viper.GetString("datasette.mode")
	store, err := newStore(mode)
	if err != nil {
		return err
	}
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(schema); err != nil {
		return err
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = mapper(record)
	}

	database := viper.GetString("datasette.database")
	if database == "" {
		database = DefaultDatasetteDatabase
	}
	if err := store.BatchInsert(database, table, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", description, err)
	}

	slog.Info("Wrote records to Datasette", "what", description, "table", table, "count", len(rows), "mode", mode)
	return nil
}
