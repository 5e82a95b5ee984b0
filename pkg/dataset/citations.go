package dataset

import (
	"regexp"
	"strings"
)

// CitationKind tags a classified citation.
type CitationKind int

const (
	// PersonalComm is a personal communication or field-notes attribution.
	PersonalComm CitationKind = iota
	// BibKey is a bibliography reference, possibly with a [...] qualifier.
	BibKey
	// Malformed is a citation whose key cannot be isolated.
	Malformed
)

func (k CitationKind) String() string {
	switch k {
	case PersonalComm:
		return "personal-communication"
	case BibKey:
		return "bibkey"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// KeySet is the part of a bibliography the classifier needs. Resolve
// returns the bibliography's spelling of key.
type KeySet interface {
	Resolve(key string) (string, bool)
}

// Citation is one classified element of a citation list.
type Citation struct {
	Kind CitationKind
	// Text is the citation as written.
	Text string
	// Key and Qualifier are set for BibKey. A known Key is spelled as in the
	// bibliography.
	Key       string
	Qualifier string
	// Known reports whether Key is in the bibliography.
	Known bool
}

var (
	citationSep = regexp.MustCompile(`\s*;\s*`)
	citationKey = regexp.MustCompile(`^(.*?)(\[[^\]]*\])?$`)
)

var personalMarkers = []string{"personal communication", "field notes"}

// SplitCitations splits a citation-list cell on semicolons, ignoring the
// whitespace around them. Empty elements are dropped.
func SplitCitations(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	var out []string
	for _, s := range citationSep.Split(cell, -1) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClassifyCitation classifies one citation string. The personal
// communication check runs before any key parsing.
func ClassifyCitation(text string, keys KeySet) Citation {
	for _, m := range personalMarkers {
		if strings.Contains(text, m) {
			return Citation{Kind: PersonalComm, Text: text}
		}
	}

	m := citationKey.FindStringSubmatch(text)
	if m == nil || m[1] == "" || strings.ContainsAny(m[1], "[]") {
		return Citation{Kind: Malformed, Text: text}
	}
	key := strings.TrimSpace(m[1])
	known := false
	if keys != nil {
		if canonical, ok := keys.Resolve(key); ok {
			key, known = canonical, true
		}
	}
	return Citation{
		Kind:      BibKey,
		Text:      text,
		Key:       key,
		Qualifier: m[2],
		Known:     known,
	}
}

// Ref returns the normalized source reference key[qualifier].
func (c Citation) Ref() string {
	return c.Key + c.Qualifier
}

// ClassifyCitations splits and classifies a citation-list cell.
func ClassifyCitations(cell string, keys KeySet) []Citation {
	parts := SplitCitations(cell)
	out := make([]Citation, len(parts))
	for i, s := range parts {
		out[i] = ClassifyCitation(s, keys)
	}
	return out
}

// Partition is a classified citation list split by destination.
type Partition struct {
	// Sources are the known bibliography citations as normalized refs.
	Sources []string
	// Notes are the personal-communication citations.
	Notes []string
	// Rejected are unknown keys and malformed citations.
	Rejected []Citation
}

// Comment joins the notes for a Source_comment cell.
func (p Partition) Comment() string {
	return strings.Join(p.Notes, "; ")
}

// PartitionCitations classifies cell and partitions the result once.
// Order is preserved and nothing is deduplicated.
func PartitionCitations(cell string, keys KeySet) Partition {
	var p Partition
	for _, c := range ClassifyCitations(cell, keys) {
		switch {
		case c.Kind == PersonalComm:
			p.Notes = append(p.Notes, c.Text)
		case c.Kind == BibKey && c.Known:
			p.Sources = append(p.Sources, c.Ref())
		default:
			p.Rejected = append(p.Rejected, c)
		}
	}
	return p
}
