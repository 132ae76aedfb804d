package report

import "testing"

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: NotSpecified},
		{name: "whitespace_only", input: "   ", want: NotSpecified},
		{name: "value", input: "toothache", want: "toothache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayText(tt.input); got != tt.want {
				t.Errorf("DisplayText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayCell(t *testing.T) {
	if got := DisplayCell(""); got != NotAvailable {
		t.Errorf("DisplayCell(\"\") = %q, want %q", got, NotAvailable)
	}
	if got := DisplayCell("500mg"); got != "500mg" {
		t.Errorf("DisplayCell(500mg) = %q, want unchanged", got)
	}
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already_canonical", input: "2025-12-24", want: "2025-12-24"},
		{name: "stored_timestamp", input: "2025-12-24 09:30:00", want: "2025-12-24"},
		{name: "rfc3339", input: "2025-12-24T09:30:00Z", want: "2025-12-24"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace", input: "  ", want: ""},
		{name: "unknown_form_kept", input: "next Tuesday", want: "next Tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalDate(tt.input); got != tt.want {
				t.Errorf("CanonicalDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayDate_EmptyFallsBack(t *testing.T) {
	if got := DisplayDate(""); got != NotSpecified {
		t.Errorf("DisplayDate(\"\") = %q, want %q", got, NotSpecified)
	}
	if got := DisplayDateCell(""); got != NotAvailable {
		t.Errorf("DisplayDateCell(\"\") = %q, want %q", got, NotAvailable)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		budget int
		want   string
	}{
		{name: "short_unmodified", input: "short note", budget: 50, want: "short note"},
		{name: "exact_budget_unmodified", input: "abcde", budget: 5, want: "abcde"},
		{name: "over_budget", input: "abcdefghij", budget: 8, want: "abcde..."},
		{name: "zero_budget", input: "abc", budget: 0, want: ""},
		{name: "tiny_budget", input: "abcdef", budget: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.budget); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.budget, got, tt.want)
			}
		})
	}
}

// Truncation counts runes, so a multi-byte character at the cut point is
// dropped whole, never split.
func TestTruncate_MultiByte(t *testing.T) {
	input := "caries dentaire sévère côté gauche, molaire numéro dix-huit"
	got := Truncate(input, CellBudget)

	runes := []rune(got)
	if len(runes) > CellBudget {
		t.Errorf("Truncate produced %d runes, budget is %d", len(runes), CellBudget)
	}
	want := string([]rune(input)[:CellBudget-3]) + "..."
	if got != want {
		t.Errorf("Truncate = %q, want %q", got, want)
	}
}

func TestTruncate_Idempotent(t *testing.T) {
	input := "révision"
	once := Truncate(input, CellBudget)
	twice := Truncate(once, CellBudget)
	if once != input || twice != once {
		t.Errorf("Truncate not idempotent on short input: %q -> %q -> %q", input, once, twice)
	}
}
