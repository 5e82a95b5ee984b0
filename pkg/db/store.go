package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/bib"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Counts reports the rows inserted per table.
type Counts map[string]int

// Load creates the schema of ds in db and inserts every row, all in one
// transaction.
func Load(ctx context.Context, db *sql.DB, ds *cldf.Dataset) (Counts, error) {
	s := SchemaFor(ds)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := InitDB(ctx, tx, s); err != nil {
		return nil, err
	}

	counts := Counts{}
	n, err := insertSources(ctx, tx, ds.Sources())
	if err != nil {
		return nil, err
	}
	counts[SourceTable] = n

	for _, t := range s.Tables {
		if t.source == nil {
			continue
		}
		if counts[t.Name], err = insertRows(ctx, tx, t); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Associations {
		t, _ := ds.Table(a.Left)
		if counts[a.Name], err = insertAssociation(ctx, tx, a, t); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

func insertSources(ctx context.Context, db DBExecutor, b *bib.Bibliography) (int, error) {
	if b == nil {
		return 0, nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)",
		quote(SourceTable), quote("ID"), quote("genre"), quote("author"), quote("year"), quote("title"))
	for _, key := range b.Keys() {
		e, _ := b.Get(key)
		if _, err := db.ExecContext(ctx, query, key, e.Type, nullable(e.Fields["author"]), nullable(e.Fields["year"]), nullable(e.Fields["title"])); err != nil {
			return 0, fmt.Errorf("insert source %s: %w", key, err)
		}
	}
	return b.Len(), nil
}

func insertRows(ctx context.Context, db DBExecutor, t Table) (int, error) {
	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quote(c.Name)
		marks[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(t.Name), strings.Join(names, ", "), strings.Join(marks, ", "))

	rows := t.source.Rows()
	for i, r := range rows {
		args := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			args[j] = sqlValue(c.def, r[c.Name])
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert %s row %d: %w", t.Name, i+1, err)
		}
	}
	return len(rows), nil
}

func insertAssociation(ctx context.Context, db DBExecutor, a Association, t *cldf.Table) (int, error) {
	cols := []string{quote(a.Left + "_ID"), quote(a.Right + "_ID")}
	marks := []string{"?", "?"}
	if a.Context {
		cols = append(cols, quote("context"))
		marks = append(marks, "?")
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(a.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))

	col, _ := t.Column(a.Column)
	pk, _ := t.Column(t.PrimaryKey)
	n := 0
	for _, r := range t.Rows() {
		id := cldf.Cell(pk, r[t.PrimaryKey])
		for _, v := range cldf.Values(col, r[a.Column]) {
			args := []any{id, v}
			if a.Context {
				key := cldf.SourceKey(v)
				args = []any{id, key, nullable(qualifier(v, key))}
			}
			if _, err := db.ExecContext(ctx, query, args...); err != nil {
				return 0, fmt.Errorf("insert %s %s -> %s: %w", a.Name, id, v, err)
			}
			n++
		}
	}
	return n, nil
}

// qualifier returns the text inside the [...] that follows key in ref.
func qualifier(ref, key string) string {
	q := strings.TrimSpace(strings.TrimPrefix(ref, key))
	return strings.TrimSuffix(strings.TrimPrefix(q, "["), "]")
}

// sqlValue converts a cell to a driver value. Empty cells become NULL.
func sqlValue(c cldf.Column, v any) any {
	switch x := v.(type) {
	case float64, int:
		return x
	case *float64:
		if x == nil {
			return nil
		}
		return *x
	}
	return nullable(cldf.Cell(c, v))
}

// nullable returns nil for "" (meaning no value) else the value.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
