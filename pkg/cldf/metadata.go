package cldf

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed metadata.schema.json
var metadataSchema []byte

const (
	structureDatasetURI = TermsURI + "StructureDataset"
	csvwContext         = "http://www.w3.org/ns/csvw"
	distributionType    = "http://www.w3.org/ns/dcat#Distribution"
)

type metadataDoc struct {
	Context    []any      `json:"@context"`
	Citation   string     `json:"dc:bibliographicCitation,omitempty"`
	ConformsTo string     `json:"dc:conformsTo"`
	Identifier string     `json:"dc:identifier,omitempty"`
	License    string     `json:"dc:license,omitempty"`
	Source     string     `json:"dc:source,omitempty"`
	Title      string     `json:"dc:title,omitempty"`
	ID         string     `json:"rdf:ID"`
	Type       string     `json:"rdf:type"`
	Tables     []tableDoc `json:"tables"`
}

type tableDoc struct {
	ConformsTo  string    `json:"dc:conformsTo"`
	URL         string    `json:"url"`
	TableSchema schemaDoc `json:"tableSchema"`
}

type schemaDoc struct {
	Columns     []columnDoc `json:"columns"`
	ForeignKeys []fkDoc     `json:"foreignKeys,omitempty"`
	PrimaryKey  []string    `json:"primaryKey"`
}

type columnDoc struct {
	Name        string   `json:"name"`
	Required    bool     `json:"required,omitempty"`
	PropertyURL string   `json:"propertyUrl,omitempty"`
	Datatype    Datatype `json:"datatype"`
	Separator   string   `json:"separator,omitempty"`
	Ordered     bool     `json:"ordered,omitempty"`
}

type fkDoc struct {
	ColumnReference []string `json:"columnReference"`
	Reference       fkRef    `json:"reference"`
}

type fkRef struct {
	Resource        string   `json:"resource"`
	ColumnReference []string `json:"columnReference"`
}

func (d *Dataset) metadataDoc() metadataDoc {
	doc := metadataDoc{
		Context:    []any{csvwContext, map[string]string{"@language": "en"}},
		Citation:   d.Properties.Citation,
		ConformsTo: structureDatasetURI,
		Identifier: d.Properties.URL,
		License:    d.Properties.License,
		Title:      d.Properties.Title,
		ID:         d.Properties.ID,
		Type:       distributionType,
	}
	if d.sources != nil {
		doc.Source = d.SourcesFile
	}
	for _, t := range d.tables {
		td := tableDoc{
			ConformsTo: TermsURI + t.Component,
			URL:        t.URL,
			TableSchema: schemaDoc{
				Columns:    make([]columnDoc, 0, len(t.Columns)),
				PrimaryKey: []string{t.PrimaryKey},
			},
		}
		for _, c := range t.Columns {
			td.TableSchema.Columns = append(td.TableSchema.Columns, columnDoc{
				Name:        c.Name,
				Required:    c.Required,
				PropertyURL: c.PropertyURL,
				Datatype:    c.Datatype,
				Separator:   c.Separator,
				Ordered:     c.Ordered,
			})
			if c.Reference == "" {
				continue
			}
			target, ok := d.Table(c.Reference)
			if !ok {
				continue
			}
			td.TableSchema.ForeignKeys = append(td.TableSchema.ForeignKeys, fkDoc{
				ColumnReference: []string{c.Name},
				Reference: fkRef{
					Resource:        target.URL,
					ColumnReference: []string{target.PrimaryKey},
				},
			})
		}
		doc.Tables = append(doc.Tables, td)
	}
	return doc
}

// Metadata returns the JSON metadata description, indented and terminated
// by a newline.
func (d *Dataset) Metadata() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(d.metadataDoc()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ValidateMetadata checks a metadata document against the embedded JSON
// Schema.
func ValidateMetadata(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(metadataSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("metadata schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid metadata: %s", strings.Join(msgs, "; "))
}
