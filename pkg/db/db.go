// Package db loads a CLDF dataset into a SQLite database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite database at path with foreign keys enforced.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// DDL returns the CREATE TABLE statements of s.
func (s Schema) DDL() []string {
	var stmts []string
	for _, t := range s.Tables {
		var defs []string
		for _, c := range t.Columns {
			def := quote(c.Name) + " " + c.Type
			if c.Name == t.PrimaryKey {
				def += " PRIMARY KEY NOT NULL"
			}
			defs = append(defs, def)
		}
		cols := make([]string, 0, len(t.ForeignKeys))
		for c := range t.ForeignKeys {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s)", quote(c), quote(t.ForeignKeys[c]), quote("ID")))
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(t.Name), strings.Join(defs, ",\n  ")))
	}
	for _, a := range s.Associations {
		defs := []string{
			quote(a.Left+"_ID") + " TEXT NOT NULL",
			quote(a.Right+"_ID") + " TEXT NOT NULL",
		}
		if a.Context {
			defs = append(defs, quote("context")+" TEXT")
		}
		defs = append(defs,
			fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s) ON DELETE CASCADE", quote(a.Left+"_ID"), quote(a.Left), quote("ID")),
			fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s) ON DELETE CASCADE", quote(a.Right+"_ID"), quote(a.Right), quote("ID")),
		)
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(a.Name), strings.Join(defs, ",\n  ")))
	}
	return stmts
}

// InitDB creates the tables of s.
func InitDB(ctx context.Context, db DBExecutor, s Schema) error {
	for _, stmt := range s.DDL() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
