package cldf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/bib"
)

// Row maps column names to cell values. Supported value types are string,
// []string, float64, *float64, int and nil.
type Row map[string]any

// Record is implemented by typed table records.
type Record interface {
	Row() Row
}

// Properties are the dataset-level metadata.
type Properties struct {
	ID       string
	Title    string
	License  string
	URL      string
	Citation string
}

// Dataset is a CLDF StructureDataset under construction.
type Dataset struct {
	Properties Properties
	// MetadataFile is the metadata file name inside the output directory.
	MetadataFile string
	// SourcesFile is the bibliography file name inside the output directory.
	SourcesFile string

	tables  []*Table
	sources *bib.Bibliography
}

// NewStructureDataset returns a dataset holding only the ValueTable.
func NewStructureDataset(props Properties) *Dataset {
	vt, _ := componentDefinition(ValueTable)
	return &Dataset{
		Properties:   props,
		MetadataFile: "cldf-metadata.json",
		SourcesFile:  "sources.bib",
		tables:       []*Table{vt},
	}
}

// Tables returns the declared tables in declaration order.
func (d *Dataset) Tables() []*Table { return d.tables }

// Table returns the declared table for component.
func (d *Dataset) Table(component string) (*Table, bool) {
	for _, t := range d.tables {
		if t.Component == component {
			return t, true
		}
	}
	return nil, false
}

// AddComponent declares a standard component, optionally with extra
// columns. Adding a component twice is an error.
func (d *Dataset) AddComponent(component string, extra ...Column) error {
	if _, ok := d.Table(component); ok {
		return fmt.Errorf("component %s already declared", component)
	}
	t, ok := componentDefinition(component)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, component)
	}
	if err := t.addColumns(extra...); err != nil {
		return err
	}
	d.tables = append(d.tables, t)
	return nil
}

// AddColumns declares extra columns on an already declared table.
func (d *Dataset) AddColumns(component string, cols ...Column) error {
	t, ok := d.Table(component)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTable, component)
	}
	if len(t.rows) > 0 {
		return fmt.Errorf("%s: cannot add columns after rows were assigned", component)
	}
	return t.addColumns(cols...)
}

// AddForeignKey makes column of component reference the primary key of
// target.
func (d *Dataset) AddForeignKey(component, column, target string) error {
	t, ok := d.Table(component)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTable, component)
	}
	for i := range t.Columns {
		if t.Columns[i].Name == column {
			t.Columns[i].Reference = target
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s", ErrUndeclaredColumn, component, column)
}

// Assign replaces the rows of component. Every key of every row must be a
// declared column.
func (d *Dataset) Assign(component string, rows []Row) error {
	t, ok := d.Table(component)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTable, component)
	}
	for i, r := range rows {
		for _, name := range sortedKeys(r) {
			if _, ok := t.Column(name); !ok {
				return fmt.Errorf("%w: %s.%s (row %d)", ErrUndeclaredColumn, component, name, i+1)
			}
			if err := checkCellType(r[name]); err != nil {
				return fmt.Errorf("%s.%s (row %d): %w", component, name, i+1, err)
			}
		}
	}
	t.rows = append([]Row(nil), rows...)
	return nil
}

// AssignRecords converts typed records to rows and assigns them.
func AssignRecords[R Record](d *Dataset, component string, records []R) error {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}
	return d.Assign(component, rows)
}

// AddSources attaches the bibliography written as SourcesFile.
func (d *Dataset) AddSources(b *bib.Bibliography) { d.sources = b }

// Sources returns the attached bibliography, or nil.
func (d *Dataset) Sources() *bib.Bibliography { return d.sources }

func checkCellType(v any) error {
	switch v.(type) {
	case nil, string, []string, float64, *float64, int:
		return nil
	default:
		return fmt.Errorf("unsupported cell type %T", v)
	}
}

// Cell renders one cell as CSV text. Whitespace-only strings render empty.
func Cell(c Column, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if strings.TrimSpace(x) == "" {
			return ""
		}
		return x
	case []string:
		sep := c.Separator
		if sep == "" {
			sep = " "
		}
		return strings.Join(x, sep)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// Values returns the cell of column for r as a list: the elements for a
// multivalued column, or a single element for a non-empty scalar.
func Values(c Column, v any) []string {
	if l, ok := v.([]string); ok {
		return l
	}
	if s := Cell(c, v); s != "" {
		return []string{s}
	}
	return nil
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
