package record

import (
	"database/sql"
	"fmt"
	"strings"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// sqliteBatchSize caps rows buffered per table before a transactional flush.
const sqliteBatchSize = 1000

// SQLiteDB mirrors the CSV tables into a SQLite database: one table per
// record type plus a run_meta key/value table. Inserts are buffered and
// flushed in transactions.
type SQLiteDB struct {
	db      *sql.DB
	pending map[string][]Row
	created map[string]bool
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return &SQLiteDB{
		db:      db,
		pending: make(map[string][]Row),
		created: make(map[string]bool),
	}, nil
}

// Begin stores the run metadata in the run_meta table.
func (s *SQLiteDB) Begin(meta RunMeta) error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS run_meta (key TEXT PRIMARY KEY, value TEXT)`)
	if err != nil {
		return fmt.Errorf("creating run_meta: %w", err)
	}
	kv := map[string]string{
		"run_id":         meta.RunID,
		"created_at":     meta.CreatedAt,
		"tool_version":   meta.ToolVersion,
		"schema_version": fmt.Sprintf("%d", meta.SchemaVersion),
		"name":           meta.Name,
		"seed":           fmt.Sprintf("%d", meta.Seed),
		"model":          meta.Model,
		"regime":         meta.Regime,
		"steps":          fmt.Sprintf("%d", meta.Steps),
		"replicates":     fmt.Sprintf("%d", meta.Replicates),
	}
	for k, v := range meta.Params {
		kv["param:"+k] = v
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning run_meta transaction: %w", err)
	}
	for k, v := range kv {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting run_meta %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// Write buffers a row, flushing the table's buffer when it reaches the
// batch size.
func (s *SQLiteDB) Write(table Table, row Row) error {
	if !s.created[table.Name] {
		cols := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			// Quoted: "cross" is an SQL keyword.
			cols[i] = `"` + c + `" TEXT`
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Name, strings.Join(cols, ", "))
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", table.Name, err)
		}
		s.created[table.Name] = true
	}
	if len(row) != len(table.Columns) {
		return fmt.Errorf("table %s: row has %d values, want %d", table.Name, len(row), len(table.Columns))
	}
	s.pending[table.Name] = append(s.pending[table.Name], row)
	if len(s.pending[table.Name]) >= sqliteBatchSize {
		return s.flush(table.Name, len(table.Columns))
	}
	return nil
}

func (s *SQLiteDB) flush(name string, nCols int) error {
	rows := s.pending[name]
	if len(rows) == 0 {
		return nil
	}
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", nCols), ", ") + ")"
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning %s transaction: %w", name, err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES %s", name, placeholders))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("preparing %s insert: %w", name, err)
	}
	for _, row := range rows {
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", name, err)
	}
	s.pending[name] = s.pending[name][:0]
	return nil
}

// Close flushes all buffered rows and closes the database.
func (s *SQLiteDB) Close() error {
	for _, table := range Tables {
		if err := s.flush(table.Name, len(table.Columns)); err != nil {
			_ = s.db.Close()
			return err
		}
	}
	return s.db.Close()
}
