package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CSVDir writes one CSV file per table into a directory, plus a run.yaml
// metadata sidecar. Files are created lazily on first row so empty tables
// leave no file behind.
type CSVDir struct {
	dir     string
	files   map[string]*os.File
	writers map[string]*csv.Writer
}

// NewCSVDir creates the output directory if needed.
func NewCSVDir(dir string) (*CSVDir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &CSVDir{
		dir:     dir,
		files:   make(map[string]*os.File),
		writers: make(map[string]*csv.Writer),
	}, nil
}

// Begin writes the run metadata sidecar.
func (c *CSVDir) Begin(meta RunMeta) error {
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("marshaling run metadata: %w", err)
	}
	path := filepath.Join(c.dir, "run.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}

// Write appends a row to the table's CSV file, creating it with a header
// row on first use.
func (c *CSVDir) Write(table Table, row Row) error {
	w, ok := c.writers[table.Name]
	if !ok {
		path := filepath.Join(c.dir, table.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		w = csv.NewWriter(f)
		if err := w.Write(table.Columns); err != nil {
			return fmt.Errorf("writing %s header: %w", table.Name, err)
		}
		c.files[table.Name] = f
		c.writers[table.Name] = w
	}
	if len(row) != len(table.Columns) {
		return fmt.Errorf("table %s: row has %d values, want %d", table.Name, len(row), len(table.Columns))
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing %s row: %w", table.Name, err)
	}
	return nil
}

// Close flushes and closes every open CSV file.
func (c *CSVDir) Close() error {
	var firstErr error
	for name, w := range c.writers {
		w.Flush()
		if err := w.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flushing %s: %w", name, err)
		}
	}
	for name, f := range c.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", name, err)
		}
	}
	return firstErr
}
