// Package cldf declares CLDF tables, collects their rows and writes them as
// CSV plus a JSON metadata description.
package cldf

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TermsURI is the CLDF ontology namespace.
const TermsURI = "http://cldf.clld.org/v1.0/terms.rdf#"

var (
	// ErrUnknownComponent is returned for a component name with no definition.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUndeclaredColumn is returned when a row carries a column its table
	// does not declare.
	ErrUndeclaredColumn = errors.New("undeclared column")
	// ErrNoTable is returned when a component has not been added.
	ErrNoTable = errors.New("table not declared")
)

// Term returns the full property URL of a CLDF term.
func Term(name string) string { return TermsURI + name }

// Datatype is a CSVW datatype. It marshals to a bare string when only Base
// is set.
type Datatype struct {
	Base    string `json:"base"`
	Format  string `json:"format,omitempty"`
	Minimum string `json:"minimum,omitempty"`
	Maximum string `json:"maximum,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d Datatype) MarshalJSON() ([]byte, error) {
	if d.Format == "" && d.Minimum == "" && d.Maximum == "" {
		return json.Marshal(d.Base)
	}
	type plain Datatype
	return json.Marshal(plain(d))
}

// UnmarshalJSON accepts both the bare-string and the object form.
func (d *Datatype) UnmarshalJSON(b []byte) error {
	var base string
	if err := json.Unmarshal(b, &base); err == nil {
		*d = Datatype{Base: base}
		return nil
	}
	type plain Datatype
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Datatype(p)
	return nil
}

// Column describes one CSV column.
type Column struct {
	Name        string
	PropertyURL string
	Datatype    Datatype
	Required    bool
	// Separator makes the column multivalued; list cells are joined with it.
	Separator string
	// Ordered marks a multivalued column whose element order is significant.
	Ordered bool
	// Reference names the component this column points at. The foreign key
	// is only emitted when that component is part of the dataset.
	Reference string
}

// Col returns a free-text string column.
func Col(name string) Column {
	return Column{Name: name, Datatype: Datatype{Base: "string"}}
}

// ListCol returns a multivalued string column.
func ListCol(name, separator string) Column {
	c := Col(name)
	c.Separator = separator
	return c
}

// OrderedListCol returns a multivalued column whose order is significant.
func OrderedListCol(name, separator string) Column {
	c := ListCol(name, separator)
	c.Ordered = true
	return c
}

// Table is one declared CLDF table and its rows.
type Table struct {
	Component string
	URL       string
	Columns   []Column
	// PrimaryKey is always a single column in this package.
	PrimaryKey string

	rows []Row
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Rows returns the assigned rows.
func (t *Table) Rows() []Row { return t.rows }

func (t *Table) addColumns(cols ...Column) error {
	for _, c := range cols {
		if c.Name == "" {
			return fmt.Errorf("%s: column without name", t.Component)
		}
		if _, dup := t.Column(c.Name); dup {
			return fmt.Errorf("%s: duplicate column %q", t.Component, c.Name)
		}
		if c.Datatype.Base == "" {
			c.Datatype.Base = "string"
		}
		t.Columns = append(t.Columns, c)
	}
	return nil
}

func (t *Table) clone() *Table {
	out := *t
	out.Columns = append([]Column(nil), t.Columns...)
	out.rows = nil
	return &out
}
