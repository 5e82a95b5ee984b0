// Package glottolog looks up languoid metadata in a Glottolog geo dump
// (languages_and_dialects_geo.csv).
package glottolog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a requested glottocode is absent.
var ErrNotFound = errors.New("glottocode not found")

// Languoid is the gazetteer record for one glottocode.
type Languoid struct {
	ID         string
	Name       string
	ISO        string
	Level      string
	Latitude   *float64
	Longitude  *float64
	Macroareas []string
}

// Catalog is an in-memory index of the dump keyed by glottocode.
type Catalog struct {
	index map[string]Languoid
}

// Open reads the dump at path.
func Open(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

// Read parses the dump from r. The header must name at least glottocode;
// name, isocodes, level, macroarea, latitude and longitude are optional.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := col["glottocode"]; !ok {
		return nil, fmt.Errorf("missing glottocode column in header %v", header)
	}

	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	c := &Catalog{index: make(map[string]Languoid)}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := get(rec, "glottocode")
		if id == "" {
			continue
		}
		lat, err := parseCoord(get(rec, "latitude"))
		if err != nil {
			return nil, fmt.Errorf("line %d: latitude: %w", line, err)
		}
		lon, err := parseCoord(get(rec, "longitude"))
		if err != nil {
			return nil, fmt.Errorf("line %d: longitude: %w", line, err)
		}
		c.index[id] = Languoid{
			ID:         id,
			Name:       get(rec, "name"),
			ISO:        firstOf(get(rec, "isocodes")),
			Level:      get(rec, "level"),
			Latitude:   lat,
			Longitude:  lon,
			Macroareas: splitList(get(rec, "macroarea")),
		}
	}
	return c, nil
}

// Languoids returns the records for ids. Any unknown id is an error.
func (c *Catalog) Languoids(ids []string) (map[string]Languoid, error) {
	out := make(map[string]Languoid, len(ids))
	for _, id := range ids {
		lg, ok := c.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		out[id] = lg
	}
	return out, nil
}

// Len returns the number of indexed languoids.
func (c *Catalog) Len() int { return len(c.index) }

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstOf(s string) string {
	if l := splitList(strings.ReplaceAll(s, " ", ";")); len(l) > 0 {
		return l[0]
	}
	return ""
}
