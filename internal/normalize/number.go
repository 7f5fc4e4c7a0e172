package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Matches a string that is entirely one decimal number.
	cleanNumber = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)
	// Matches the first number embedded in free text ("400 AH", "c. 7th").
	embeddedNumber = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)
)

// Number parses a numeric cell.
//
// A lone decimal comma is read as a decimal point ("1,25" -> 1.25). When the
// trimmed value is not a clean number, the first embedded numeric token is
// used instead, so "400 AH" yields 400. Returns false when no numeric token
// exists or the value is not finite.
func Number(raw string) (float64, bool) {
	s := strings.TrimSpace(fold(raw))
	if s == "" {
		return 0, false
	}

	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	// A clean number that overflows is rejected, not rescanned for a token.
	if cleanNumber.MatchString(s) {
		return parseFinite(s)
	}

	token := embeddedNumber.FindString(s)
	if token == "" {
		return 0, false
	}
	return parseFinite(token)
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 2.0
)

// ClampScore forces v into [MinScore, MaxScore].
func ClampScore(v float64) float64 {
	switch {
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

// Score parses an affect score cell and clamps it into [0,2].
func Score(raw string) (float64, bool) {
	v, ok := Number(raw)
	if !ok {
		return 0, false
	}
	return ClampScore(v), true
}
