package dataset

import (
	"strconv"
	"strings"
)

// ExampleIndex holds numbered examples, in input order overall and grouped
// by language.
type ExampleIndex struct {
	examples   []Example
	byLanguage map[string][]string
	lines      map[string]int
}

// All returns every example in input order.
func (x *ExampleIndex) All() []Example {
	if x == nil {
		return nil
	}
	return x.examples
}

// IDs returns the example identifiers of language, in order. It never
// returns nil.
func (x *ExampleIndex) IDs(language string) []string {
	if x == nil {
		return []string{}
	}
	ids := x.byLanguage[language]
	if ids == nil {
		return []string{}
	}
	return append([]string(nil), ids...)
}

// Languages returns the languages that have examples, in order of first
// appearance.
func (x *ExampleIndex) Languages() []string {
	if x == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, e := range x.examples {
		if !seen[e.LanguageID] {
			seen[e.LanguageID] = true
			out = append(out, e.LanguageID)
		}
	}
	return out
}

// Line returns the input line of the example with id.
func (x *ExampleIndex) Line(id string) int { return x.lines[id] }

// Tokens splits a tab-separated token field, trimming every token and
// dropping empty ones.
func Tokens(field string) []string {
	var out []string
	for _, t := range strings.Split(field, "\t") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IndexExamples numbers the usable example rows per language. Rows without
// primary-text tokens or without a translation are dropped. Source cells are
// split like value citations: known keys go to Source, everything else to
// Source_comment.
func IndexExamples(rows []ExampleRow, keys KeySet) *ExampleIndex {
	x := &ExampleIndex{
		byLanguage: make(map[string][]string),
		lines:      make(map[string]int),
	}
	for _, r := range rows {
		words := Tokens(r.PrimaryText)
		translation := strings.TrimSpace(r.Translation)
		if len(words) == 0 || translation == "" {
			continue
		}

		n := len(x.byLanguage[r.Glottocode]) + 1
		id := r.Glottocode + "-" + strconv.Itoa(n)

		p := PartitionCitations(r.Source, keys)
		comment := p.Notes
		for _, c := range p.Rejected {
			comment = append(comment, c.Text)
		}

		x.examples = append(x.examples, Example{
			ID:             id,
			LanguageID:     r.Glottocode,
			PrimaryText:    strings.Join(words, " "),
			AnalyzedWord:   words,
			Gloss:          Tokens(r.Gloss),
			TranslatedText: translation,
			Source:         p.Sources,
			SourceComment:  strings.Join(comment, "; "),
		})
		x.byLanguage[r.Glottocode] = append(x.byLanguage[r.Glottocode], id)
		x.lines[id] = r.Line
	}
	return x
}

// retain keeps only the examples whose language satisfies keep and returns
// the dropped ones. Numbering is per language, so it is unaffected.
func (x *ExampleIndex) retain(keep func(language string) bool) []Example {
	var kept, dropped []Example
	for _, e := range x.examples {
		if keep(e.LanguageID) {
			kept = append(kept, e)
		} else {
			dropped = append(dropped, e)
		}
	}
	for lang := range x.byLanguage {
		if !keep(lang) {
			delete(x.byLanguage, lang)
		}
	}
	x.examples = kept
	return dropped
}
