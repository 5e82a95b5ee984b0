package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/bib"
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
	"go.uber.org/zap"
)

// Inputs names the files read by Build.
type Inputs struct {
	Table      string
	Examples   string // optional; a missing file means no examples
	Sources    string
	Parameters string
	Codes      string
}

// Result is everything Build produced.
type Result struct {
	Languages    []Language
	Parameters   []Parameter
	Codes        []Code
	Examples     []Example
	Values       []Value
	Bibliography *bib.Bibliography
	Diagnostics  *Diagnostics
}

// Builder runs the conversion.
type Builder struct {
	Gazetteer Gazetteer
	Logger    *zap.Logger
}

// NewBuilder returns a Builder. A nil logger disables logging.
func NewBuilder(gaz Gazetteer, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{Gazetteer: gaz, Logger: logger}
}

// Build reads the inputs and returns the CLDF records. Reported problems are
// in Result.Diagnostics; anything else is returned as an error.
func (b *Builder) Build(in Inputs) (*Result, error) {
	rows, err := LoadRawTable(in.Table)
	if err != nil {
		return nil, err
	}
	_, parameters, err := LoadParameters(in.Parameters)
	if err != nil {
		return nil, err
	}
	codesByName, codes, err := LoadCodes(in.Codes)
	if err != nil {
		return nil, err
	}
	sources, err := bib.Load(in.Sources)
	if err != nil {
		return nil, err
	}

	var exampleRows []ExampleRow
	if in.Examples != "" {
		exampleRows, err = LoadExampleRows(in.Examples)
		if errors.Is(err, os.ErrNotExist) {
			b.Logger.Info("no examples file", zap.String("path", in.Examples))
			exampleRows, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	}
	b.Logger.Info("inputs loaded",
		zap.Int("rows", len(rows)),
		zap.Int("examples", len(exampleRows)),
		zap.Int("codes", len(codes)),
		zap.Int("sources", sources.Len()),
	)

	languages, err := MakeLanguages(rows, b.Gazetteer)
	if err != nil {
		return nil, err
	}

	diags := &Diagnostics{}
	examples := IndexExamples(exampleRows, sources)
	known := make(map[string]bool, len(languages))
	for _, l := range languages {
		known[l.ID] = true
	}
	for _, e := range examples.retain(func(lang string) bool { return known[lang] }) {
		diags.Add(Diagnostic{
			Kind:     OrphanExample,
			Severity: SeverityWarning,
			Table:    "examples",
			Line:     examples.Line(e.ID),
			Subject:  e.LanguageID,
		})
	}

	values, err := MakeValues(rows, codesByName, examples, sources, diags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Table, err)
	}

	b.Logger.Info("records built",
		zap.Int("languages", len(languages)),
		zap.Int("examples", len(examples.All())),
		zap.Int("example_languages", len(examples.Languages())),
		zap.Int("values", len(values)),
		zap.Int("diagnostics", diags.Len()),
	)

	return &Result{
		Languages:    languages,
		Parameters:   parameters,
		Codes:        codes,
		Examples:     examples.All(),
		Values:       values,
		Bibliography: sources,
		Diagnostics:  diags,
	}, nil
}

// NewCLDF declares the schema and assigns every table of r to a fresh
// StructureDataset.
func NewCLDF(props cldf.Properties, r *Result) (*cldf.Dataset, error) {
	ds := cldf.NewStructureDataset(props)
	if err := DeclareSchema(ds); err != nil {
		return nil, fmt.Errorf("declare schema: %w", err)
	}
	assign := []func() error{
		func() error { return cldf.AssignRecords(ds, cldf.LanguageTable, r.Languages) },
		func() error { return cldf.AssignRecords(ds, cldf.ParameterTable, r.Parameters) },
		func() error { return cldf.AssignRecords(ds, cldf.CodeTable, r.Codes) },
		func() error { return cldf.AssignRecords(ds, cldf.ExampleTable, r.Examples) },
		func() error { return cldf.AssignRecords(ds, cldf.ValueTable, r.Values) },
	}
	for _, fn := range assign {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	ds.AddSources(r.Bibliography)
	return ds, nil
}
