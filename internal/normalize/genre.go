package normalize

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mahabbalab/mahabba-server/internal/domain"
)

// GenreTable holds the single-letter genre codes used by older catalogue
// exports. It is immutable once built.
type GenreTable struct {
	letters map[string]domain.GenreCode
}

// NewGenreTable builds a table from letter -> code assignments.
// Letters are matched case-insensitively; entries with unknown codes are skipped.
func NewGenreTable(letters map[string]domain.GenreCode) GenreTable {
	m := make(map[string]domain.GenreCode, len(letters))
	for letter, code := range letters {
		if !code.Valid() {
			continue
		}
		m[strings.ToLower(strings.TrimSpace(letter))] = code
	}
	return GenreTable{letters: m}
}

// DefaultGenreTable returns the catalogue letter codes:
// b=BIO, d=DEV, n=PHI, p=POE, r=RHE, k=THE.
func DefaultGenreTable() GenreTable {
	return NewGenreTable(map[string]domain.GenreCode{
		"b": domain.GenreBiography,
		"d": domain.GenreDevotion,
		"n": domain.GenrePhilosophy,
		"p": domain.GenrePoetry,
		"r": domain.GenreRhetoric,
		"k": domain.GenreTheology,
	})
}

// Letter looks up a single-letter code.
func (t GenreTable) Letter(s string) (domain.GenreCode, bool) {
	code, ok := t.letters[strings.ToLower(s)]
	return code, ok
}

// Genre resolves a raw genre cell to a GenreCode.
//
// Resolution order matters and is fixed:
//  1. the whole value, upper-cased, equals a code ("poe" -> POE)
//  2. the value is a known letter code ("p" -> POE)
//  3. scanning codes in display order, the value starts with the code
//     ("Poetry" -> POE) or contains it as a separate token ("ms-THE-3" -> THE)
//
// Anything else has no value.
func Genre(raw string, table GenreTable) (domain.GenreCode, bool) {
	v := strings.TrimSpace(fold(raw))
	if v == "" {
		return "", false
	}

	upper := strings.ToUpper(v)
	if code := domain.GenreCode(upper); code.Valid() {
		return code, true
	}

	if code, ok := table.Letter(v); ok {
		return code, true
	}

	tokens := strings.FieldsFunc(upper, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, code := range domain.Genres {
		if strings.HasPrefix(upper, string(code)) || slices.Contains(tokens, string(code)) {
			return code, true
		}
	}

	return "", false
}
