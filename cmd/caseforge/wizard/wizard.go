// Package wizard implements the interactive export flow: pick a patient,
// pick one of their cases, choose where the report goes, run the export.
package wizard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/caseforge/internal/report"
	"github.com/mrsinham/caseforge/internal/store"
	"github.com/rs/zerolog"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Run drives the interactive export. dbPath may be empty; the wizard then
// asks for it.
func Run(dbPath string) error {
	fmt.Println(titleStyle.Render("caseforge - case report export"))
	fmt.Println()

	if dbPath == "" {
		dbPath = "clinic.db"
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Clinic database").
					Description("Path to the clinic SQLite database").
					Value(&dbPath).
					Validate(validateFileExists),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	} else if err := validateFileExists(dbPath); err != nil {
		return err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	patient, err := selectPatient(ctx, db)
	if err != nil {
		return err
	}

	clinicalCase, err := selectCase(ctx, db, patient)
	if err != nil {
		return err
	}

	defaultName := report.SynthesizeFilename(
		clinicalCase.OpNumber, patient.FirstName, patient.LastName, clinicalCase.CaseDate)

	outputDir := "."
	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Value(&outputDir).
				Validate(validateDirExists),
			huh.NewConfirm().
				Title(fmt.Sprintf("Write %s?", defaultName)).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Export cancelled.")
		return nil
	}

	exporter := report.NewExporter(db, report.DefaultStyle(), zerolog.Nop())
	result, err := exporter.Export(ctx, report.CaseRef{
		CaseID:    clinicalCase.ID,
		PatientID: patient.ID,
	}, filepath.Join(outputDir, defaultName))
	if err != nil {
		return fmt.Errorf("export case %d: %w", clinicalCase.ID, err)
	}

	fmt.Println(successStyle.Render("✓ Report written"))
	fmt.Printf("  %s\n", result.Path)
	if result.Degraded > 0 {
		fmt.Println(noticeStyle.Render(
			fmt.Sprintf("  %d scan image(s) rendered as placeholders", result.Degraded)))
	}
	return nil
}

func selectPatient(ctx context.Context, db *store.CaseStore) (*store.Patient, error) {
	patients, err := db.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, fmt.Errorf("no patients in database")
	}

	options := make([]huh.Option[uint], 0, len(patients))
	for _, p := range patients {
		label := fmt.Sprintf("%s, %s", p.LastName, p.FirstName)
		if p.Phone != "" {
			label += " (" + p.Phone + ")"
		}
		options = append(options, huh.NewOption(label, p.ID))
	}

	var selected uint
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uint]().
				Title("Patient").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	for i := range patients {
		if patients[i].ID == selected {
			return &patients[i], nil
		}
	}
	return nil, fmt.Errorf("patient %d not in list", selected)
}

func selectCase(ctx context.Context, db *store.CaseStore, patient *store.Patient) (*store.Case, error) {
	cases, err := db.ListCases(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("patient %s %s has no cases", patient.FirstName, patient.LastName)
	}

	options := make([]huh.Option[uint], 0, len(cases))
	for _, c := range cases {
		label := fmt.Sprintf("OP %d - %s - %s", c.OpNumber, c.CaseDate, c.CaseStatus)
		options = append(options, huh.NewOption(label, c.ID))
	}

	var selected uint
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uint]().
				Title("Case").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].ID == selected {
			return &cases[i], nil
		}
	}
	return nil, fmt.Errorf("case %d not in list", selected)
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("not found: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
