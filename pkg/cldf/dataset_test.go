package cldf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/bib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	d := NewStructureDataset(Properties{ID: "test", Title: "Test dataset"})
	require.NoError(t, d.AddComponent(LanguageTable))
	require.NoError(t, d.AddComponent(ParameterTable))
	require.NoError(t, d.AddComponent(CodeTable, Col("Map_Icon")))
	require.NoError(t, d.AddComponent(ExampleTable, ListCol("Source", ";"), Col("Source_comment")))
	require.NoError(t, d.AddColumns(ValueTable, Col("Source_comment"), ListCol("Example_IDs", ";")))
	require.NoError(t, d.AddForeignKey(ValueTable, "Example_IDs", ExampleTable))

	sources, err := bib.Parse([]byte("@book{Smith2020, title = {T}, year = {2020}}\n"))
	require.NoError(t, err)
	d.AddSources(sources)
	return d
}

func fillTestDataset(t *testing.T, d *Dataset) {
	t.Helper()
	require.NoError(t, d.Assign(LanguageTable, []Row{
		{"ID": "stan1234", "Name": "Standard X", "Glottocode": "stan1234", "Latitude": ptr(52.5), "Longitude": ptr(13.4), "Macroarea": "Eurasia"},
	}))
	require.NoError(t, d.Assign(ParameterTable, []Row{{"ID": "dom", "Name": "DOM"}}))
	require.NoError(t, d.Assign(CodeTable, []Row{{"ID": "dom-split", "Parameter_ID": "dom", "Name": "split", "Map_Icon": "cff0000"}}))
	require.NoError(t, d.Assign(ExampleTable, []Row{
		{"ID": "stan1234-1", "Language_ID": "stan1234", "Primary_Text": "a b", "Analyzed_Word": []string{"a", "b"}, "Gloss": []string{"A", "B"}, "Translated_Text": "ab"},
	}))
	require.NoError(t, d.Assign(ValueTable, []Row{
		{"ID": "stan1234-dom", "Language_ID": "stan1234", "Parameter_ID": "dom", "Code_ID": "dom-split", "Value": "split",
			"Source": []string{"Smith2020[12]"}, "Source_comment": "personal communication", "Example_IDs": []string{"stan1234-1"}},
	}))
}

func TestAddComponent_Errors(t *testing.T) {
	d := NewStructureDataset(Properties{ID: "x"})
	assert.ErrorIs(t, d.AddComponent("FormTable"), ErrUnknownComponent)
	require.NoError(t, d.AddComponent(LanguageTable))
	assert.Error(t, d.AddComponent(LanguageTable))
	assert.Error(t, d.AddColumns(LanguageTable, Col("Name")), "duplicate column")
	assert.ErrorIs(t, d.AddColumns(ExampleTable, Col("Source")), ErrNoTable)
	assert.ErrorIs(t, d.AddForeignKey(ValueTable, "Nope", LanguageTable), ErrUndeclaredColumn)
}

func TestAssign_RejectsUndeclaredColumn(t *testing.T) {
	d := NewStructureDataset(Properties{ID: "x"})
	err := d.Assign(ValueTable, []Row{{"ID": "a", "Example_IDs": []string{"e"}}})
	assert.ErrorIs(t, err, ErrUndeclaredColumn)

	require.NoError(t, d.AddColumns(ValueTable, ListCol("Example_IDs", ";")))
	assert.NoError(t, d.Assign(ValueTable, []Row{{"ID": "a", "Example_IDs": []string{"e"}}}))
	assert.Error(t, d.AddColumns(ValueTable, Col("Late")), "columns are frozen once rows exist")
}

func TestAssign_RejectsUnsupportedType(t *testing.T) {
	d := NewStructureDataset(Properties{ID: "x"})
	err := d.Assign(ValueTable, []Row{{"ID": map[string]string{}}})
	assert.Error(t, err)
}

func TestCell(t *testing.T) {
	list := ListCol("L", ";")
	assert.Equal(t, "", Cell(Col("S"), "   "))
	assert.Equal(t, "x", Cell(Col("S"), "x"))
	assert.Equal(t, "a;b", Cell(list, []string{"a", "b"}))
	assert.Equal(t, "a\tb", Cell(Column{Separator: "\t"}, []string{"a", "b"}))
	assert.Equal(t, "", Cell(list, []string{}))
	assert.Equal(t, "-3.25", Cell(Col("F"), ptr(-3.25)))
	assert.Equal(t, "", Cell(Col("F"), (*float64)(nil)))
	assert.Equal(t, "10", Cell(Col("F"), 10.0))
	assert.Equal(t, "7", Cell(Col("I"), 7))
}

func TestTableCSV(t *testing.T) {
	d := newTestDataset(t)
	fillTestDataset(t, d)

	vt, ok := d.Table(ValueTable)
	require.True(t, ok)
	data, err := vt.CSV()
	require.NoError(t, err)
	assert.Equal(t,
		"ID,Language_ID,Parameter_ID,Value,Code_ID,Comment,Source,Source_comment,Example_IDs\n"+
			"stan1234-dom,stan1234,dom,split,dom-split,,Smith2020[12],personal communication,stan1234-1\n",
		string(data))

	et, _ := d.Table(ExampleTable)
	data, err = et.CSV()
	require.NoError(t, err)
	assert.Contains(t, string(data), "stan1234-1,stan1234,a b,a\tb,A\tB,ab,,,\n")
}

func TestValidate_OK(t *testing.T) {
	d := newTestDataset(t)
	fillTestDataset(t, d)
	assert.NoError(t, d.Validate())
}

func TestValidate_Problems(t *testing.T) {
	d := newTestDataset(t)
	fillTestDataset(t, d)
	require.NoError(t, d.Assign(ValueTable, []Row{
		{"ID": "v1", "Language_ID": "miss0000", "Parameter_ID": "dom", "Code_ID": "dom-split", "Example_IDs": []string{"stan1234-9"}, "Source": []string{"Nobody1900"}},
		{"ID": "v1", "Language_ID": "stan1234", "Parameter_ID": ""},
	}))

	err := d.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	joined := verr.Error()
	assert.Contains(t, joined, `Language_ID "miss0000" does not resolve in LanguageTable`)
	assert.Contains(t, joined, `Example_IDs "stan1234-9" does not resolve in ExampleTable`)
	assert.Contains(t, joined, `source "Nobody1900" not in bibliography`)
	assert.Contains(t, joined, `duplicate primary key "v1"`)
	assert.Contains(t, joined, "required column Parameter_ID is empty")
}

func TestSourceKey(t *testing.T) {
	assert.Equal(t, "Smith2020", SourceKey("Smith2020"))
	assert.Equal(t, "Smith2020", SourceKey("Smith2020[12-14]"))
	assert.Equal(t, "", SourceKey("[12]"))
	assert.Equal(t, "Doe1999", SourceKey("Doe1999 [3]"))
}

func TestMetadata(t *testing.T) {
	d := newTestDataset(t)
	fillTestDataset(t, d)

	raw, err := d.Metadata()
	require.NoError(t, err)
	require.NoError(t, ValidateMetadata(raw))

	var doc metadataDoc
	require.NoError(t, json.Unmarshal(raw, &struct {
		Tables *[]tableDoc `json:"tables"`
		Source *string     `json:"dc:source"`
	}{&doc.Tables, &doc.Source}))
	assert.Equal(t, "sources.bib", doc.Source)
	require.Len(t, doc.Tables, 5)
	assert.Equal(t, "values.csv", doc.Tables[0].URL)

	var exampleFK *fkDoc
	for _, fk := range doc.Tables[0].TableSchema.ForeignKeys {
		if fk.ColumnReference[0] == "Example_IDs" {
			fk := fk
			exampleFK = &fk
		}
	}
	require.NotNil(t, exampleFK, "Example_IDs foreign key declared")
	assert.Equal(t, "examples.csv", exampleFK.Reference.Resource)
	assert.Equal(t, []string{"ID"}, exampleFK.Reference.ColumnReference)
}

func TestMetadata_NoDanglingForeignKeys(t *testing.T) {
	d := NewStructureDataset(Properties{ID: "x"})
	raw, err := d.Metadata()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "foreignKeys", "targets are absent so no keys are emitted")
}

func TestValidateMetadata_Rejects(t *testing.T) {
	assert.Error(t, ValidateMetadata([]byte(`{"rdf:ID": "x", "tables": []}`)))
	assert.Error(t, ValidateMetadata([]byte(`not json`)))
}

func TestWrite_Idempotent(t *testing.T) {
	write := func() string {
		dir := t.TempDir()
		d := newTestDataset(t)
		fillTestDataset(t, d)
		require.NoError(t, d.Write(dir))
		return dir
	}
	a, b := write(), write()

	for _, name := range []string{"values.csv", "languages.csv", "parameters.csv", "codes.csv", "examples.csv", "cldf-metadata.json", "sources.bib"} {
		da, err := os.ReadFile(filepath.Join(a, name))
		require.NoError(t, err, name)
		db, err := os.ReadFile(filepath.Join(b, name))
		require.NoError(t, err, name)
		assert.Equal(t, da, db, name)
	}
}

func TestWrite_RefusesInvalid(t *testing.T) {
	d := newTestDataset(t)
	fillTestDataset(t, d)
	require.NoError(t, d.Assign(ValueTable, []Row{{"ID": "v", "Language_ID": "none", "Parameter_ID": "dom"}}))

	dir := filepath.Join(t.TempDir(), "cldf")
	require.Error(t, d.Write(dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
