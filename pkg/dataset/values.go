package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownCode is returned when a row's classification has no code.
var ErrUnknownCode = errors.New("unknown classification")

// MakeValue builds the Value of one raw row. Unknown and malformed citations
// go to diags and are left out of Source.
func MakeValue(row RawRow, codes map[string]Code, examples *ExampleIndex, keys KeySet, diags *Diagnostics) (Value, error) {
	code, ok := codes[row.Classification]
	if !ok {
		return Value{}, fmt.Errorf("line %d: %w: %q", row.Line, ErrUnknownCode, row.Classification)
	}

	p := PartitionCitations(row.Sources, keys)
	for _, c := range p.Rejected {
		d := Diagnostic{Table: "values", Line: row.Line, Subject: c.Text}
		if c.Kind == Malformed {
			d.Kind, d.Severity = MalformedCitation, SeverityError
		} else {
			d.Kind, d.Severity = UnknownSource, SeverityWarning
		}
		diags.Add(d)
	}

	return Value{
		ID:            row.Glottocode + "-" + ParameterID,
		LanguageID:    row.Glottocode,
		ParameterID:   ParameterID,
		CodeID:        code.ID,
		Value:         code.Name,
		Source:        p.Sources,
		SourceComment: p.Comment(),
		ExampleIDs:    examples.IDs(row.Glottocode),
	}, nil
}

// MakeValues builds one Value per raw row, in row order.
func MakeValues(rows []RawRow, codes map[string]Code, examples *ExampleIndex, keys KeySet, diags *Diagnostics) ([]Value, error) {
	out := make([]Value, 0, len(rows))
	for _, r := range rows {
		v, err := MakeValue(r, codes, examples, keys, diags)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
