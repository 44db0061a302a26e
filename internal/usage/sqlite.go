package usage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_sets (
	species  TEXT NOT NULL,
	name     TEXT NOT NULL,
	moves    TEXT NOT NULL, -- JSON array of move names
	item     TEXT NOT NULL DEFAULT '',
	ability  TEXT NOT NULL DEFAULT '',
	speed    INTEGER NOT NULL DEFAULT 0,
	weight   REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (species, name)
);
CREATE INDEX IF NOT EXISTS idx_usage_sets_species ON usage_sets(species);
`

// SQLiteStore serves the reference population from a usage-stat dump. All
// rows are read into memory at open time; battles then share the store
// without locking.
type SQLiteStore struct {
	sqlDB *sql.DB
	pop   *Population
}

// OpenSQLite opens (and if necessary initializes) a usage database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("usage db path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping usage db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure usage schema: %w", err)
	}

	store := &SQLiteStore{sqlDB: sqlDB}
	if err := store.loadAll(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// SpeciesSets implements Store.
func (s *SQLiteStore) SpeciesSets(species string) ([]Set, bool) {
	return s.pop.SpeciesSets(species)
}

// Insert adds or replaces one set row. Intended for import tooling and tests;
// call Reload afterwards to make new rows visible.
func (s *SQLiteStore) Insert(species string, set Set) error {
	moves, err := json.Marshal(set.Moves)
	if err != nil {
		return fmt.Errorf("marshal moves: %w", err)
	}
	_, err = s.sqlDB.Exec(
		`INSERT OR REPLACE INTO usage_sets (species, name, moves, item, ability, speed, weight)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		species, set.Name, string(moves), set.Item, set.Ability, set.Speed, set.Weight,
	)
	if err != nil {
		return fmt.Errorf("insert usage set: %w", err)
	}
	return nil
}

// Reload re-reads every row from the database.
func (s *SQLiteStore) Reload() error {
	return s.loadAll()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.sqlDB.Query(`SELECT species, name, moves, item, ability, speed, weight FROM usage_sets`)
	if err != nil {
		return fmt.Errorf("query usage sets: %w", err)
	}
	defer rows.Close()

	bySpecies := make(map[string][]Set)
	for rows.Next() {
		var species, movesJSON string
		var set Set
		if err := rows.Scan(&species, &set.Name, &movesJSON, &set.Item, &set.Ability, &set.Speed, &set.Weight); err != nil {
			return fmt.Errorf("scan usage set: %w", err)
		}
		if err := json.Unmarshal([]byte(movesJSON), &set.Moves); err != nil {
			return fmt.Errorf("unmarshal moves for %s/%s: %w", species, set.Name, err)
		}
		bySpecies[species] = append(bySpecies[species], set)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate usage sets: %w", err)
	}

	s.pop = NewPopulation(bySpecies)
	return nil
}
