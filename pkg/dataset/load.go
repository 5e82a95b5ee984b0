package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Dict is one CSV row keyed by header name. Cells are trimmed and empty
// cells are absent.
type Dict struct {
	Line   int
	Fields map[string]string
}

// ReadDicts reads a CSV file with a header row into trimmed dicts.
func ReadDicts(path string) ([]Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dicts, err := readDicts(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return dicts, nil
}

func readDicts(r io.Reader) ([]Dict, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []Dict
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		d := Dict{Line: line, Fields: make(map[string]string, len(rec))}
		for i, v := range rec {
			if i >= len(header) {
				break
			}
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				d.Fields[header[i]] = trimmed
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseRawTable converts dicts of the curated table into typed rows.
func ParseRawTable(dicts []Dict) ([]RawRow, error) {
	rows := make([]RawRow, 0, len(dicts))
	for _, d := range dicts {
		r := RawRow{
			Line:           d.Line,
			Language:       d.Fields["Language"],
			Glottocode:     d.Fields["Glottolog Code"],
			Classification: d.Fields["DOM Classification"],
			Sources:        d.Fields["Sources"],
		}
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("line %d: %w", d.Line, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// LoadRawTable reads and parses the curated table.
func LoadRawTable(path string) ([]RawRow, error) {
	dicts, err := ReadDicts(path)
	if err != nil {
		return nil, err
	}
	rows, err := ParseRawTable(dicts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// LoadExampleRows reads the examples table. Rows are kept as read, even
// without a glottocode; IndexExamples and Build do the filtering.
func LoadExampleRows(path string) ([]ExampleRow, error) {
	dicts, err := ReadDicts(path)
	if err != nil {
		return nil, err
	}
	rows := make([]ExampleRow, 0, len(dicts))
	for _, d := range dicts {
		r := ExampleRow{
			Line:        d.Line,
			Glottocode:  d.Fields["Glottocode"],
			PrimaryText: d.Fields["Primary_Text"],
			Gloss:       d.Fields["Gloss"],
			Translation: d.Fields["Translation"],
			Source:      d.Fields["Source"],
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// LoadParameters reads parameter definitions keyed by Original_Name, and
// returns them also in file order.
func LoadParameters(path string) (map[string]Parameter, []Parameter, error) {
	dicts, err := ReadDicts(path)
	if err != nil {
		return nil, nil, err
	}
	byName := make(map[string]Parameter, len(dicts))
	ordered := make([]Parameter, 0, len(dicts))
	for _, d := range dicts {
		p := Parameter{
			ID:           d.Fields["ID"],
			Name:         d.Fields["Name"],
			Description:  d.Fields["Description"],
			OriginalName: d.Fields["Original_Name"],
		}
		if err := validate.Struct(p); err != nil {
			return nil, nil, fmt.Errorf("%s: line %d: %w", path, d.Line, err)
		}
		if _, dup := byName[p.OriginalName]; dup {
			return nil, nil, fmt.Errorf("%s: line %d: duplicate Original_Name %q", path, d.Line, p.OriginalName)
		}
		byName[p.OriginalName] = p
		ordered = append(ordered, p)
	}
	return byName, ordered, nil
}

// LoadCodes reads code definitions keyed by Original_Name, and returns them
// also in file order.
func LoadCodes(path string) (map[string]Code, []Code, error) {
	dicts, err := ReadDicts(path)
	if err != nil {
		return nil, nil, err
	}
	byName := make(map[string]Code, len(dicts))
	ordered := make([]Code, 0, len(dicts))
	for _, d := range dicts {
		c := Code{
			ID:           d.Fields["ID"],
			ParameterID:  d.Fields["Parameter_ID"],
			Name:         d.Fields["Name"],
			Description:  d.Fields["Description"],
			MapIcon:      d.Fields["Map_Icon"],
			OriginalName: d.Fields["Original_Name"],
		}
		if c.ParameterID == "" {
			c.ParameterID = ParameterID
		}
		if err := validate.Struct(c); err != nil {
			return nil, nil, fmt.Errorf("%s: line %d: %w", path, d.Line, err)
		}
		if _, dup := byName[c.OriginalName]; dup {
			return nil, nil, fmt.Errorf("%s: line %d: duplicate Original_Name %q", path, d.Line, c.OriginalName)
		}
		byName[c.OriginalName] = c
		ordered = append(ordered, c)
	}
	return byName, ordered, nil
}
