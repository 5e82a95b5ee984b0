package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/bib"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	return db
}

func fptr(f float64) *float64 { return &f }

func testDataset(t *testing.T) *cldf.Dataset {
	t.Helper()
	sources, err := bib.Parse([]byte("@book{Doe1999, author = {Doe, Jane}, title = {A grammar}, year = {1999}}\n"))
	if err != nil {
		t.Fatalf("parse bib: %v", err)
	}

	ds := cldf.NewStructureDataset(cldf.Properties{ID: "test"})
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("declare: %v", err)
		}
	}
	must(ds.AddComponent(cldf.LanguageTable))
	must(ds.AddComponent(cldf.ParameterTable))
	must(ds.AddComponent(cldf.CodeTable))
	must(ds.AddComponent(cldf.ExampleTable))
	must(ds.AddColumns(cldf.ValueTable, cldf.OrderedListCol("Example_IDs", ";")))
	must(ds.AddForeignKey(cldf.ValueTable, "Example_IDs", cldf.ExampleTable))

	must(ds.Assign(cldf.LanguageTable, []cldf.Row{
		{"ID": "stan1234", "Name": "Standard X", "Latitude": fptr(52.5), "Longitude": (*float64)(nil)},
	}))
	must(ds.Assign(cldf.ParameterTable, []cldf.Row{{"ID": "dom", "Name": "DOM"}}))
	must(ds.Assign(cldf.CodeTable, []cldf.Row{{"ID": "dom-split", "Parameter_ID": "dom", "Name": "split"}}))
	must(ds.Assign(cldf.ExampleTable, []cldf.Row{
		{"ID": "stan1234-1", "Language_ID": "stan1234", "Primary_Text": "a b", "Analyzed_Word": []string{"a", "b"}},
		{"ID": "stan1234-2", "Language_ID": "stan1234", "Primary_Text": "c"},
	}))
	must(ds.Assign(cldf.ValueTable, []cldf.Row{{
		"ID":           "stan1234-dom",
		"Language_ID":  "stan1234",
		"Parameter_ID": "dom",
		"Code_ID":      "dom-split",
		"Value":        "split",
		"Source":       []string{"Doe1999[12-14]", "Doe1999"},
		"Example_IDs":  []string{"stan1234-1", "stan1234-2"},
	}}))
	ds.AddSources(sources)
	return ds
}

func TestSchemaForOrdersReferencedTablesFirst(t *testing.T) {
	s := SchemaFor(testDataset(t))
	pos := map[string]int{}
	for i, tb := range s.Tables {
		pos[tb.Name] = i
	}
	if pos[SourceTable] != 0 {
		t.Fatalf("expected SourceTable first, got %v", pos)
	}
	if pos[cldf.ParameterTable] > pos[cldf.CodeTable] || pos[cldf.CodeTable] > pos[cldf.ValueTable] || pos[cldf.LanguageTable] > pos[cldf.ExampleTable] {
		t.Fatalf("unexpected table order %v", pos)
	}

	names := map[string]Association{}
	for _, a := range s.Associations {
		names[a.Name] = a
	}
	if _, ok := names["ValueTable_ExampleTable"]; !ok {
		t.Fatalf("missing ValueTable_ExampleTable in %v", names)
	}
	if a := names["ValueTable_SourceTable"]; !a.Context {
		t.Fatalf("expected context column on ValueTable_SourceTable, got %+v", a)
	}
}

func TestLoad(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	counts, err := Load(context.Background(), db, testDataset(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if counts[cldf.ValueTable] != 1 || counts[cldf.ExampleTable] != 2 || counts[SourceTable] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if counts["ValueTable_SourceTable"] != 2 || counts["ValueTable_ExampleTable"] != 2 {
		t.Fatalf("unexpected association counts %v", counts)
	}

	var joined string
	if err := db.QueryRow(`SELECT "Example_IDs" FROM "ValueTable" WHERE "ID" = ?`, "stan1234-dom").Scan(&joined); err != nil {
		t.Fatalf("query value: %v", err)
	}
	if joined != "stan1234-1;stan1234-2" {
		t.Fatalf("expected joined example ids, got %q", joined)
	}

	var lat sql.NullFloat64
	var lon sql.NullFloat64
	if err := db.QueryRow(`SELECT "Latitude", "Longitude" FROM "LanguageTable"`).Scan(&lat, &lon); err != nil {
		t.Fatalf("query language: %v", err)
	}
	if !lat.Valid || lat.Float64 != 52.5 || lon.Valid {
		t.Fatalf("unexpected coordinates %v %v", lat, lon)
	}

	rows, err := db.Query(`SELECT "SourceTable_ID", IFNULL("context", '') FROM "ValueTable_SourceTable" ORDER BY rowid`)
	if err != nil {
		t.Fatalf("query sources: %v", err)
	}
	defer rows.Close()
	var got []string
	for rows.Next() {
		var key, ctx string
		if err := rows.Scan(&key, &ctx); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, key+"|"+ctx)
	}
	if len(got) != 2 || got[0] != "Doe1999|12-14" || got[1] != "Doe1999|" {
		t.Fatalf("unexpected source links %v", got)
	}
}

func TestLoadEnforcesForeignKeys(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ds := testDataset(t)
	if err := ds.Assign(cldf.CodeTable, []cldf.Row{{"ID": "dom-split", "Parameter_ID": "nope", "Name": "split"}}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := Load(context.Background(), db, ds); err == nil {
		t.Fatalf("expected foreign key error")
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback of schema and rows, got %d tables", n)
	}
}

func TestQualifier(t *testing.T) {
	cases := map[string]string{
		"Doe1999[12-14]": "12-14",
		"Doe1999 [7]":    "7",
		"Doe1999":        "",
	}
	for ref, want := range cases {
		if got := qualifier(ref, cldf.SourceKey(ref)); got != want {
			t.Errorf("qualifier(%q) = %q, want %q", ref, got, want)
		}
	}
}
