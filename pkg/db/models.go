package db

import (
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
)

// SourceTable holds one row per bibliography entry.
const SourceTable = "SourceTable"

// Table is the SQL shape of one CLDF table.
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey string
	// ForeignKeys maps a scalar column to the table it references.
	ForeignKeys map[string]string

	source *cldf.Table
}

// Column is one SQL column.
type Column struct {
	Name string
	Type string
	// List columns are stored as their separator-joined text and expanded
	// into an association table.
	List bool

	def cldf.Column
}

// Association links the rows of a list-valued reference column to their
// targets. Context carries the [...] qualifier of source references.
type Association struct {
	Name    string
	Left    string
	Right   string
	Column  string
	Context bool
}

// Schema is the SQL form of a dataset.
type Schema struct {
	Tables       []Table
	Associations []Association
}

func sqlType(dt cldf.Datatype) string {
	switch dt.Base {
	case "decimal", "float", "double":
		return "REAL"
	case "integer", "int":
		return "INTEGER"
	}
	return "TEXT"
}

// SchemaFor derives the SQL schema of ds. Tables come referenced-first so
// rows can be inserted with foreign keys enforced.
func SchemaFor(ds *cldf.Dataset) Schema {
	present := map[string]bool{SourceTable: true}
	for _, t := range ds.Tables() {
		present[t.Component] = true
	}

	var s Schema
	var tables []Table
	for _, t := range ds.Tables() {
		st := Table{Name: t.Component, PrimaryKey: t.PrimaryKey, ForeignKeys: map[string]string{}, source: t}
		for _, c := range t.Columns {
			col := Column{Name: c.Name, Type: sqlType(c.Datatype), List: c.Separator != "", def: c}
			st.Columns = append(st.Columns, col)

			target := c.Reference
			if c.PropertyURL == cldf.Term("source") {
				target = SourceTable
			}
			if target == "" || !present[target] {
				continue
			}
			if col.List {
				s.Associations = append(s.Associations, Association{
					Name:    t.Component + "_" + target,
					Left:    t.Component,
					Right:   target,
					Column:  c.Name,
					Context: target == SourceTable,
				})
			} else {
				st.ForeignKeys[c.Name] = target
			}
		}
		tables = append(tables, st)
	}

	s.Tables = append([]Table{{
		Name:       SourceTable,
		PrimaryKey: "ID",
		Columns: []Column{
			{Name: "ID", Type: "TEXT"},
			{Name: "genre", Type: "TEXT"},
			{Name: "author", Type: "TEXT"},
			{Name: "year", Type: "TEXT"},
			{Name: "title", Type: "TEXT"},
		},
	}}, orderByReference(tables)...)
	return s
}

// orderByReference sorts tables so every foreign key target precedes the
// table referencing it. Cycles keep their declaration order.
func orderByReference(tables []Table) []Table {
	placed := map[string]bool{SourceTable: true}
	out := make([]Table, 0, len(tables))
	for len(out) < len(tables) {
		progress := false
		for _, t := range tables {
			if placed[t.Name] || !refsPlaced(t, placed) {
				continue
			}
			placed[t.Name] = true
			out = append(out, t)
			progress = true
		}
		if !progress {
			for _, t := range tables {
				if !placed[t.Name] {
					placed[t.Name] = true
					out = append(out, t)
				}
			}
		}
	}
	return out
}

func refsPlaced(t Table, placed map[string]bool) bool {
	for _, target := range t.ForeignKeys {
		if target != t.Name && !placed[target] {
			return false
		}
	}
	return true
}
