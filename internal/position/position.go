// Package position places records with only a century on a continuous year axis.
//
// The placement is a pure function of the century and a seed string, so a
// record lands on the same pseudo-year on every page load without any state
// being stored.
package position

import (
	"hash/fnv"
	"strings"
)

// span is the number of years in one century bucket.
const span = 100

// YearApprox returns a deterministic pseudo-year inside century:
// (century-1)*100 < year <= century*100.
//
// The seed is hashed with 32-bit FNV-1a over its UTF-8 bytes, scaled to
// [0,1) by dividing by 2^32, and mapped onto the century's 100 slots.
func YearApprox(century int, seed string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	unit := float64(h.Sum32()) / (1 << 32)
	offset := int(unit * span)
	return (century-1)*span + offset + 1
}

// Seed picks the identifying string for a record: identifier, else title,
// else author. Values are trimmed; the first non-empty one wins.
func Seed(identifier, title, author string) string {
	for _, s := range []string{identifier, title, author} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
