package report

import (
	"strings"
	"time"
)

// Display placeholders. Narrative fields fall back to NotSpecified,
// fixed-width table cells to NotAvailable.
const (
	NotSpecified = "Not specified"
	NotAvailable = "N/A"
)

// CellBudget is the character budget for free text rendered into a
// fixed-width table cell.
const CellBudget = 50

// dateLayouts are the stored date forms the clinic application has written
// over time. The first layout is the canonical output form.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// DisplayText maps an optional narrative field to its display string.
func DisplayText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

// DisplayCell maps an optional tabular field to its display string.
func DisplayCell(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// CanonicalDate reformats a stored date or timestamp to YYYY-MM-DD.
// An empty value stays empty; a value in no known layout is returned
// unchanged rather than destroyed.
func CanonicalDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return trimmed
}

// DisplayDate renders an optional date for a narrative or key/value row.
func DisplayDate(s string) string {
	return DisplayText(CanonicalDate(s))
}

// DisplayDateCell renders an optional date for a table cell.
func DisplayDateCell(s string) string {
	return DisplayCell(CanonicalDate(s))
}

// Truncate shortens s to at most budget characters, appending "..." when
// content was dropped. Counting is per rune so a multi-byte character is
// never split. Strings already within budget are returned unmodified.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= 3 {
		return string(runes[:budget])
	}
	return string(runes[:budget-3]) + "..."
}
