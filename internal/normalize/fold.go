package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fold rewrites locale-specific characters into their ASCII equivalents
// before parsing. NFKC takes care of full-width digits and compatibility
// forms; Arabic-Indic and Extended Arabic-Indic digits are mapped by hand
// because they are distinct code points that NFKC keeps.
func fold(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r == '٫': // Arabic decimal separator
			return '.'
		case r == '٬': // Arabic thousands separator
			return -1
		case r == '−': // minus sign
			return '-'
		case r == 0:
			return -1
		}
		return r
	}, s)
}
