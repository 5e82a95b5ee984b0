package dataset

import "github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"

// DeclareSchema adds the components and extra columns the dataset needs.
// It must run before any rows are assigned.
func DeclareSchema(ds *cldf.Dataset) error {
	steps := []func() error{
		func() error { return ds.AddColumns(cldf.ValueTable, cldf.Col("Source_comment")) },
		func() error { return ds.AddComponent(cldf.LanguageTable) },
		func() error { return ds.AddComponent(cldf.ParameterTable) },
		func() error { return ds.AddComponent(cldf.CodeTable, cldf.Col("Map_Icon")) },
		func() error {
			return ds.AddComponent(cldf.ExampleTable,
				cldf.Column{Name: "Source", PropertyURL: cldf.Term("source"), Separator: ";"},
				cldf.Col("Source_comment"),
			)
		},
		func() error {
			ex := cldf.OrderedListCol("Example_IDs", ";")
			ex.PropertyURL = cldf.Term("exampleReference")
			return ds.AddColumns(cldf.ValueTable, ex)
		},
		func() error { return ds.AddForeignKey(cldf.ValueTable, "Example_IDs", cldf.ExampleTable) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
