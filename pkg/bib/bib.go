// Package bib wraps a parsed BibTeX bibliography.
package bib

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/nickng/bibtex"
)

// Entry is one bibliography record.
type Entry struct {
	Key    string
	Type   string
	Fields map[string]string
}

// Bibliography is the parsed sources file. The raw bytes are kept so the
// file can be copied into the CLDF directory unchanged.
type Bibliography struct {
	raw     []byte
	entries map[string]Entry
	order   []string
}

// Load reads and parses a BibTeX file. Syntax errors are returned.
func Load(path string) (*Bibliography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return b, nil
}

// Parse parses BibTeX source. As in BibTeX itself, text outside @type{...}
// blocks is a comment, and so is an @comment block.
func Parse(data []byte) (*Bibliography, error) {
	blocks, want := entryBlocks(data)
	parsed, err := bibtex.Parse(bytes.NewReader(blocks))
	if err != nil {
		return nil, err
	}
	if len(parsed.Entries) != want {
		return nil, fmt.Errorf("parsed %d of %d entries", len(parsed.Entries), want)
	}

	b := &Bibliography{
		raw:     data,
		entries: make(map[string]Entry, len(parsed.Entries)),
	}
	for _, e := range parsed.Entries {
		fields := make(map[string]string, len(e.Fields))
		for name, v := range e.Fields {
			fields[name] = v.String()
		}
		folded := strings.ToLower(e.CiteName)
		if _, dup := b.entries[folded]; !dup {
			b.order = append(b.order, e.CiteName)
		}
		b.entries[folded] = Entry{Key: e.CiteName, Type: e.Type, Fields: fields}
	}
	return b, nil
}

// entryBlocks returns the @type{...} and @type(...) blocks of data joined by
// newlines, and how many of them are bibliography entries rather than
// @string or @preamble. An unterminated block is kept with the rest of the
// input so the parser reports it.
func entryBlocks(data []byte) ([]byte, int) {
	var out bytes.Buffer
	entries := 0
	i := 0
	for {
		at := bytes.IndexByte(data[i:], '@')
		if at < 0 {
			break
		}
		start := i + at
		j := start + 1
		for j < len(data) && isSpace(data[j]) {
			j++
		}
		nameStart := j
		for j < len(data) && isNameByte(data[j]) {
			j++
		}
		typ := strings.ToLower(string(data[nameStart:j]))
		for j < len(data) && isSpace(data[j]) {
			j++
		}
		if typ == "" || j >= len(data) || (data[j] != '{' && data[j] != '(') {
			i = start + 1
			continue
		}

		end := blockEnd(data, j)
		if end < 0 {
			out.Write(data[start:])
			if typ != "comment" && typ != "string" && typ != "preamble" {
				entries++
			}
			break
		}
		switch typ {
		case "comment":
		case "string", "preamble":
			out.Write(data[start:end])
			out.WriteByte('\n')
		default:
			out.Write(data[start:end])
			out.WriteByte('\n')
			entries++
		}
		i = end
	}
	return out.Bytes(), entries
}

// blockEnd returns the index just past the delimiter closing the block
// opened at data[open], or -1.
func blockEnd(data []byte, open int) int {
	depth := 0
	for k := open + 1; k < len(data); k++ {
		switch data[k] {
		case '{':
			depth++
		case '}':
			if depth == 0 && data[open] == '{' {
				return k + 1
			}
			depth--
		case ')':
			if depth == 0 && data[open] == '(' {
				return k + 1
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Resolve returns the key of the entry matching key case-insensitively.
func (b *Bibliography) Resolve(key string) (string, bool) {
	e, ok := b.entries[strings.ToLower(key)]
	return e.Key, ok
}

// Has reports whether key names an entry. Keys compare case-insensitively.
func (b *Bibliography) Has(key string) bool {
	_, ok := b.Resolve(key)
	return ok
}

// Get returns the entry for key.
func (b *Bibliography) Get(key string) (Entry, bool) {
	e, ok := b.entries[strings.ToLower(key)]
	return e, ok
}

// Keys returns the entry keys in file order.
func (b *Bibliography) Keys() []string {
	return append([]string(nil), b.order...)
}

// Len returns the number of entries.
func (b *Bibliography) Len() int { return len(b.entries) }

// Raw returns the original file contents.
func (b *Bibliography) Raw() []byte { return b.raw }
