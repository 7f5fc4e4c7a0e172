package domain

// GenreCode identifies one of the six literary genres a text can belong to.
type GenreCode string

// Genre codes, declared in display order.
const (
	GenreBiography  GenreCode = "BIO" // biography, tabaqat, manaqib
	GenreDevotion   GenreCode = "DEV" // devotional and mystical works
	GenrePhilosophy GenreCode = "PHI" // philosophy and ethics
	GenrePoetry     GenreCode = "POE" // poetry and diwans
	GenreRhetoric   GenreCode = "RHE" // adab, rhetoric, belles-lettres
	GenreTheology   GenreCode = "THE" // theology, law, exegesis
)

// Genres lists every genre code in fixed display order.
// Presentation layers index per-genre series by this order.
//
//nolint:gochecknoglobals // Closed enumeration
var Genres = []GenreCode{
	GenreBiography,
	GenreDevotion,
	GenrePhilosophy,
	GenrePoetry,
	GenreRhetoric,
	GenreTheology,
}

// Valid reports whether g is one of the six known codes.
func (g GenreCode) Valid() bool {
	switch g {
	case GenreBiography, GenreDevotion, GenrePhilosophy, GenrePoetry, GenreRhetoric, GenreTheology:
		return true
	default:
		return false
	}
}

// Index returns the display position of g, or -1 for an unknown code.
func (g GenreCode) Index() int {
	for i, code := range Genres {
		if code == g {
			return i
		}
	}
	return -1
}

// Label returns the English display name of the genre.
func (g GenreCode) Label() string {
	switch g {
	case GenreBiography:
		return "Biography"
	case GenreDevotion:
		return "Devotion"
	case GenrePhilosophy:
		return "Philosophy"
	case GenrePoetry:
		return "Poetry"
	case GenreRhetoric:
		return "Rhetoric"
	case GenreTheology:
		return "Theology"
	default:
		return string(g)
	}
}

func (g GenreCode) String() string {
	return string(g)
}
