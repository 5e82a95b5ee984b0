package cldf

// Component names.
const (
	LanguageTable  = "LanguageTable"
	ParameterTable = "ParameterTable"
	CodeTable      = "CodeTable"
	ValueTable     = "ValueTable"
	ExampleTable   = "ExampleTable"
)

var idDatatype = Datatype{Base: "string", Format: `[a-zA-Z0-9_\-]+`}

func idColumn() Column {
	return Column{Name: "ID", PropertyURL: Term("id"), Datatype: idDatatype, Required: true}
}

func termCol(name, term string) Column {
	return Column{Name: name, PropertyURL: Term(term), Datatype: Datatype{Base: "string"}}
}

func refCol(name, term, component string, required bool) Column {
	c := termCol(name, term)
	c.Required = required
	c.Reference = component
	return c
}

// components holds the default CLDF 1.x definition of each supported table.
var components = map[string]Table{
	LanguageTable: {
		Component:  LanguageTable,
		URL:        "languages.csv",
		PrimaryKey: "ID",
		Columns: []Column{
			idColumn(),
			termCol("Name", "name"),
			termCol("Macroarea", "macroarea"),
			{Name: "Latitude", PropertyURL: Term("latitude"), Datatype: Datatype{Base: "decimal", Minimum: "-90", Maximum: "90"}},
			{Name: "Longitude", PropertyURL: Term("longitude"), Datatype: Datatype{Base: "decimal", Minimum: "-180", Maximum: "180"}},
			termCol("Glottocode", "glottocode"),
			termCol("ISO639P3code", "iso639P3code"),
		},
	},
	ParameterTable: {
		Component:  ParameterTable,
		URL:        "parameters.csv",
		PrimaryKey: "ID",
		Columns: []Column{
			idColumn(),
			termCol("Name", "name"),
			termCol("Description", "description"),
		},
	},
	CodeTable: {
		Component:  CodeTable,
		URL:        "codes.csv",
		PrimaryKey: "ID",
		Columns: []Column{
			idColumn(),
			refCol("Parameter_ID", "parameterReference", ParameterTable, true),
			termCol("Name", "name"),
			termCol("Description", "description"),
		},
	},
	ValueTable: {
		Component:  ValueTable,
		URL:        "values.csv",
		PrimaryKey: "ID",
		Columns: []Column{
			idColumn(),
			refCol("Language_ID", "languageReference", LanguageTable, true),
			refCol("Parameter_ID", "parameterReference", ParameterTable, true),
			termCol("Value", "value"),
			refCol("Code_ID", "codeReference", CodeTable, false),
			termCol("Comment", "comment"),
			{Name: "Source", PropertyURL: Term("source"), Datatype: Datatype{Base: "string"}, Separator: ";"},
		},
	},
	ExampleTable: {
		Component:  ExampleTable,
		URL:        "examples.csv",
		PrimaryKey: "ID",
		Columns: []Column{
			idColumn(),
			refCol("Language_ID", "languageReference", LanguageTable, true),
			{Name: "Primary_Text", PropertyURL: Term("primaryText"), Datatype: Datatype{Base: "string"}, Required: true},
			{Name: "Analyzed_Word", PropertyURL: Term("analyzedWord"), Datatype: Datatype{Base: "string"}, Separator: "\t"},
			{Name: "Gloss", PropertyURL: Term("gloss"), Datatype: Datatype{Base: "string"}, Separator: "\t"},
			termCol("Translated_Text", "translatedText"),
			termCol("Comment", "comment"),
		},
	},
}

// componentDefinition returns a fresh copy of the named component.
func componentDefinition(name string) (*Table, bool) {
	t, ok := components[name]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}
