package cldf

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Write validates the dataset and writes every table, the metadata file and
// the bibliography into dir.
func (d *Dataset) Write(dir string) error {
	if err := d.Validate(); err != nil {
		return err
	}
	meta, err := d.Metadata()
	if err != nil {
		return err
	}
	if err := ValidateMetadata(meta); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range d.tables {
		data, err := t.CSV()
		if err != nil {
			return fmt.Errorf("encode %s: %w", t.URL, err)
		}
		if err := writeFile(filepath.Join(dir, t.URL), data); err != nil {
			return err
		}
	}
	if d.sources != nil {
		if err := writeFile(filepath.Join(dir, d.SourcesFile), d.sources.Raw()); err != nil {
			return err
		}
	}
	return writeFile(filepath.Join(dir, d.MetadataFile), meta)
}

// CSV encodes the table with a header row in column order.
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rec := make([]string, len(t.Columns))
	for _, r := range t.rows {
		for i, c := range t.Columns {
			rec[i] = Cell(c, r[c.Name])
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
