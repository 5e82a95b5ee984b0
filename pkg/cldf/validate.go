package cldf

import (
	"fmt"
	"regexp"
	"strings"
)

// maxProblems bounds the problems reported by one Validate call.
const maxProblems = 50

// ValidationError lists every integrity problem found in a dataset.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset invalid (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

var sourceQualifier = regexp.MustCompile(`^(.*?)(\[[^\]]*\])?$`)

// SourceKey strips a trailing [...] qualifier from a source reference.
func SourceKey(ref string) string {
	m := sourceQualifier.FindStringSubmatch(ref)
	if m == nil {
		return ref
	}
	return strings.TrimSpace(m[1])
}

// Validate checks primary keys, required cells, foreign keys and source
// references across all tables.
func (d *Dataset) Validate() error {
	var problems []string
	report := func(format string, args ...any) {
		if len(problems) < maxProblems {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	keys := make(map[string]map[string]bool, len(d.tables))
	for _, t := range d.tables {
		pk, _ := t.Column(t.PrimaryKey)
		seen := make(map[string]bool, len(t.rows))
		for i, r := range t.rows {
			id := Cell(pk, r[t.PrimaryKey])
			switch {
			case id == "":
				report("%s row %d: empty primary key", t.Component, i+1)
			case seen[id]:
				report("%s row %d: duplicate primary key %q", t.Component, i+1, id)
			}
			seen[id] = true
			for _, c := range t.Columns {
				if c.Required && len(Values(c, r[c.Name])) == 0 {
					report("%s %s: required column %s is empty", t.Component, id, c.Name)
				}
			}
		}
		keys[t.Component] = seen
	}

	for _, t := range d.tables {
		for _, c := range t.Columns {
			targetKeys, fk := keys[c.Reference]
			isSource := c.PropertyURL == Term("source")
			if !fk && !isSource {
				continue
			}
			for i, r := range t.rows {
				for _, v := range Values(c, r[c.Name]) {
					switch {
					case fk && !targetKeys[v]:
						report("%s row %d: %s %q does not resolve in %s", t.Component, i+1, c.Name, v, c.Reference)
					case isSource && (d.sources == nil || !d.sources.Has(SourceKey(v))):
						report("%s row %d: source %q not in bibliography", t.Component, i+1, v)
					}
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
