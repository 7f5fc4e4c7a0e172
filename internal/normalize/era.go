package normalize

import "math"

// Century range boundaries used to tell a century number from an AH year.
const (
	MinDirectCentury = 1
	MaxDirectCentury = 30
	MinYearAH        = 50
	MaxYearAH        = 2000
)

// Century interprets v as either a century or an AH year.
//
// Values in [1,30] are centuries already (fractions are truncated). Values in
// [50,2000] are AH years and map to floor((v-1)/100)+1. Everything else,
// including the 31-49 gap, has no value.
func Century(v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}

	if v >= MinDirectCentury && v <= MaxDirectCentury {
		return int(math.Floor(v)), true
	}

	if v >= MinYearAH && v <= MaxYearAH {
		c := int(math.Floor((v-1)/100)) + 1
		if c >= MinDirectCentury && c <= MaxDirectCentury {
			return c, true
		}
	}

	return 0, false
}

// CenturyOf parses raw with Number and resolves the result with Century.
func CenturyOf(raw string) (int, bool) {
	v, ok := Number(raw)
	if !ok {
		return 0, false
	}
	return Century(v)
}
