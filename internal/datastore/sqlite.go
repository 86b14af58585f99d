package datastore

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore implements the Store interface for local SQLite storage
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLiteStore instance
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		dbPath: dbPath,
	}
}

// Connect opens a connection to the SQLite database
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// CreateTable creates a new table with the given schema if it doesn't exist
func (s *SQLiteStore) CreateTable(schema string) error {
	if s.db == nil {
		return fmt.Errorf("failed to create table: store not connected")
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// BatchInsert upserts records into table in a single transaction. Columns are
// taken from the first record. The database argument names the Datasette
// database and is ignored for a local file.
func (s *SQLiteStore) BatchInsert(_ string, table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("failed to insert: store not connected")
	}
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid table name: %q", table)
	}

	columns := make([]string, 0, len(records[0]))
	for col := range records[0] {
		if !identifierPattern.MatchString(col) {
			return fmt.Errorf("invalid column name: %q", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after a commit returns sql.ErrTxDone
		_ = tx.Rollback()
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		placeholders,
	)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = record[col]
		}

		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
