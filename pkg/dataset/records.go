// Package dataset turns the curated DOM table, its examples and its
// bibliography into CLDF records.
package dataset

import (
	"github.com/cldf-datasets/bonmannsymmetrical/pkg/cldf"
)

// ParameterID is the single feature coded by the dataset.
const ParameterID = "dom"

// RawRow is one row of the curated classification table.
type RawRow struct {
	Line           int
	Language       string
	Glottocode     string `validate:"required"`
	Classification string `validate:"required"`
	Sources        string
}

// ExampleRow is one row of the examples table before numbering.
type ExampleRow struct {
	Line        int
	Glottocode  string
	PrimaryText string
	Gloss       string
	Translation string
	Source      string
}

// Language is a LanguageTable record.
type Language struct {
	ID        string
	Name      string
	ISO       string
	Latitude  *float64
	Longitude *float64
	Macroarea string
}

// Row implements cldf.Record.
func (l Language) Row() cldf.Row {
	return cldf.Row{
		"ID":           l.ID,
		"Name":         l.Name,
		"Glottocode":   l.ID,
		"ISO639P3code": l.ISO,
		"Latitude":     l.Latitude,
		"Longitude":    l.Longitude,
		"Macroarea":    l.Macroarea,
	}
}

// Parameter is a ParameterTable record.
type Parameter struct {
	ID           string `validate:"required"`
	Name         string `validate:"required"`
	Description  string
	OriginalName string `validate:"required"`
}

// Row implements cldf.Record.
func (p Parameter) Row() cldf.Row {
	return cldf.Row{"ID": p.ID, "Name": p.Name, "Description": p.Description}
}

// Code is a CodeTable record.
type Code struct {
	ID           string `validate:"required"`
	ParameterID  string `validate:"required"`
	Name         string `validate:"required"`
	Description  string
	MapIcon      string
	OriginalName string `validate:"required"`
}

// Row implements cldf.Record.
func (c Code) Row() cldf.Row {
	return cldf.Row{
		"ID":           c.ID,
		"Parameter_ID": c.ParameterID,
		"Name":         c.Name,
		"Description":  c.Description,
		"Map_Icon":     c.MapIcon,
	}
}

// Example is an ExampleTable record.
type Example struct {
	ID             string
	LanguageID     string
	PrimaryText    string
	AnalyzedWord   []string
	Gloss          []string
	TranslatedText string
	Source         []string
	SourceComment  string
}

// Row implements cldf.Record.
func (e Example) Row() cldf.Row {
	return cldf.Row{
		"ID":              e.ID,
		"Language_ID":     e.LanguageID,
		"Primary_Text":    e.PrimaryText,
		"Analyzed_Word":   e.AnalyzedWord,
		"Gloss":           e.Gloss,
		"Translated_Text": e.TranslatedText,
		"Source":          e.Source,
		"Source_comment":  e.SourceComment,
	}
}

// Value is a ValueTable record: one coded observation per raw row.
type Value struct {
	ID            string
	LanguageID    string
	ParameterID   string
	CodeID        string
	Value         string
	Source        []string
	SourceComment string
	ExampleIDs    []string
}

// Row implements cldf.Record.
func (v Value) Row() cldf.Row {
	return cldf.Row{
		"ID":             v.ID,
		"Language_ID":    v.LanguageID,
		"Parameter_ID":   v.ParameterID,
		"Code_ID":        v.CodeID,
		"Value":          v.Value,
		"Source":         v.Source,
		"Source_comment": v.SourceComment,
		"Example_IDs":    v.ExampleIDs,
	}
}
