package report

import (
	"fmt"
	"strings"
	"unicode"
)

// reservedFilenameChars are characters that are illegal or unsafe in file
// names on at least one supported platform.
const reservedFilenameChars = `/\:*?"<>|`

// SynthesizeFilename derives the output file name for a case report:
// Case_{op_number}_{first_name}_{last_name}_{case_date}.pdf. The result is
// deterministic for identical inputs. Unsafe characters are substituted,
// never rejected, so the name can never escape the target directory.
// Uniqueness is not guaranteed; collision handling belongs to the caller.
func SynthesizeFilename(opNumber int, firstName, lastName, caseDate string) string {
	return fmt.Sprintf("Case_%d_%s_%s_%s.pdf",
		opNumber,
		sanitizeComponent(firstName),
		sanitizeComponent(lastName),
		sanitizeComponent(CanonicalDate(caseDate)),
	)
}

// sanitizeComponent substitutes '_' for path separators, reserved
// punctuation, control characters and interior whitespace.
func sanitizeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch {
		case strings.ContainsRune(reservedFilenameChars, r):
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
