package dataset

import (
	"errors"
	"fmt"

	"github.com/cldf-datasets/bonmannsymmetrical/pkg/glottolog"
)

// ErrUnknownLanguage is returned when the gazetteer lacks a glottocode.
var ErrUnknownLanguage = errors.New("unknown language")

// Gazetteer resolves glottocodes to languoid metadata.
type Gazetteer interface {
	Languoids(ids []string) (map[string]glottolog.Languoid, error)
}

// MakeLanguages returns one Language per distinct glottocode in rows, in
// first-seen order. When one glottocode appears with several names the last
// name wins.
func MakeLanguages(rows []RawRow, gaz Gazetteer) ([]Language, error) {
	var ids []string
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		if _, seen := names[r.Glottocode]; !seen {
			ids = append(ids, r.Glottocode)
		}
		names[r.Glottocode] = r.Language
	}

	languoids, err := gaz.Languoids(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownLanguage, err)
	}

	out := make([]Language, 0, len(ids))
	for _, id := range ids {
		lg, ok := languoids[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
		}
		macroarea := ""
		if len(lg.Macroareas) > 0 {
			macroarea = lg.Macroareas[0]
		}
		out = append(out, Language{
			ID:        id,
			Name:      names[id],
			ISO:       lg.ISO,
			Latitude:  lg.Latitude,
			Longitude: lg.Longitude,
			Macroarea: macroarea,
		})
	}
	return out, nil
}
