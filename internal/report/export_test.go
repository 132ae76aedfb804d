package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrsinham/caseforge/internal/store"
	"github.com/rs/zerolog"
)

// fakeFetcher is an in-memory Fetcher with the same ownership semantics as
// the real store.
type fakeFetcher struct {
	patients map[uint]*store.Patient
	cases    map[uint]*store.Case
	plans    map[uint][]store.TreatmentPlanItem
	scans    map[uint][]store.ScanImage
}

func (f *fakeFetcher) FetchPatient(_ context.Context, patientID uint) (*store.Patient, error) {
	p, ok := f.patients[patientID]
	if !ok {
		return nil, fmt.Errorf("patient %d: %w", patientID, store.ErrNotFound)
	}
	return p, nil
}

func (f *fakeFetcher) FetchCase(_ context.Context, caseID, patientID uint) (*store.Case, error) {
	c, ok := f.cases[caseID]
	if !ok || c.PatientID != patientID {
		return nil, fmt.Errorf("case %d: %w", caseID, store.ErrNotFound)
	}
	return c, nil
}

func (f *fakeFetcher) FetchTreatmentPlan(_ context.Context, caseID uint) ([]store.TreatmentPlanItem, error) {
	return f.plans[caseID], nil
}

func (f *fakeFetcher) FetchScanImages(_ context.Context, caseID uint) ([]store.ScanImage, error) {
	return f.scans[caseID], nil
}

func johnDoeFetcher() *fakeFetcher {
	return &fakeFetcher{
		patients: map[uint]*store.Patient{
			1: {ID: 1, FirstName: "John", LastName: "Doe", Gender: "Male"},
		},
		cases: map[uint]*store.Case{
			1: {
				ID: 1, PatientID: 1, OpNumber: 1,
				CaseDate:       "2025-12-24",
				CaseStatus:     "Open",
				ChiefComplaint: "Toothache in lower left molar",
			},
		},
		plans: map[uint][]store.TreatmentPlanItem{},
		scans: map[uint][]store.ScanImage{},
	}
}

func newTestExporter(f Fetcher) *Exporter {
	return NewExporter(f, DefaultStyle(), zerolog.Nop())
}

// Scenario: minimal case, empty treatment plan, no scans. The export
// succeeds and the synthesized name matches the identity fields.
func TestExport_MinimalCase(t *testing.T) {
	fetcher := johnDoeFetcher()
	exporter := newTestExporter(fetcher)
	ctx := context.Background()
	ref := CaseRef{CaseID: 1, PatientID: 1}

	name, err := exporter.DefaultFilename(ctx, ref)
	if err != nil {
		t.Fatalf("DefaultFilename: %v", err)
	}
	if name != "Case_1_John_Doe_2025-12-24.pdf" {
		t.Errorf("DefaultFilename = %q, want Case_1_John_Doe_2025-12-24.pdf", name)
	}

	outPath := filepath.Join(t.TempDir(), name)
	result, err := exporter.Export(ctx, ref, outPath)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Degraded != 0 {
		t.Errorf("Degraded = %d, want 0", result.Degraded)
	}

	assertPDF(t, outPath)
}

// Accented record text exports cleanly end to end; the synthesized name
// keeps the accented letters (they are legal filename characters).
func TestExport_AccentedNames(t *testing.T) {
	fetcher := &fakeFetcher{
		patients: map[uint]*store.Patient{
			1: {ID: 1, FirstName: "Renée", LastName: "Müller", Address: "12 rue de l'Hôpital"},
		},
		cases: map[uint]*store.Case{
			1: {
				ID: 1, PatientID: 1, OpNumber: 7,
				CaseDate:       "2026-01-15",
				CaseStatus:     "Open",
				ChiefComplaint: "Douleur sévère à la molaire côté gauche",
				VitalsTemp:     "37.2 °C",
			},
		},
		plans: map[uint][]store.TreatmentPlanItem{},
		scans: map[uint][]store.ScanImage{},
	}
	exporter := newTestExporter(fetcher)
	ctx := context.Background()
	ref := CaseRef{CaseID: 1, PatientID: 1}

	name, err := exporter.DefaultFilename(ctx, ref)
	if err != nil {
		t.Fatalf("DefaultFilename: %v", err)
	}
	if name != "Case_7_Renée_Müller_2026-01-15.pdf" {
		t.Errorf("DefaultFilename = %q, want Case_7_Renée_Müller_2026-01-15.pdf", name)
	}

	outPath := filepath.Join(t.TempDir(), name)
	if _, err := exporter.Export(ctx, ref, outPath); err != nil {
		t.Fatalf("Export: %v", err)
	}
	assertPDF(t, outPath)
}

// Scenario: 3 treatment plan rows and 2 scan images, one pointing to a
// deleted file. Success with advisory count 1.
func TestExport_DegradedAttachment(t *testing.T) {
	dir := t.TempDir()
	fetcher := johnDoeFetcher()
	fetcher.plans[1] = []store.TreatmentPlanItem{
		{ID: 1, CaseID: 1, ItemType: "Medication", Name: "Amoxicillin", Dosage: "500mg", Frequency: "TID", DurationDays: 5, Status: "Ongoing"},
		{ID: 2, CaseID: 1, ItemType: "Procedure", Name: "Root canal treatment", Status: "Planned"},
		{ID: 3, CaseID: 1, ItemType: "Advice", Name: "Soft diet", Notes: "Avoid chewing on the left side until the crown is placed"},
	}
	fetcher.scans[1] = []store.ScanImage{
		{ID: 2, CaseID: 1, FilePath: writeTestPNG(t, dir, "opg.png", 60, 40), ScanType: "OPG", UploadedAt: time.Now()},
		{ID: 1, CaseID: 1, FilePath: filepath.Join(dir, "deleted.png"), ScanType: "Periapical X-Ray"},
	}

	exporter := newTestExporter(fetcher)
	outPath := filepath.Join(dir, "report.pdf")
	result, err := exporter.Export(context.Background(), CaseRef{CaseID: 1, PatientID: 1}, outPath)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", result.Degraded)
	}
	assertPDF(t, outPath)
}

// Scenario: unknown case identifier. NotFound failure and no file on disk.
func TestExport_UnknownCase(t *testing.T) {
	exporter := newTestExporter(johnDoeFetcher())
	outPath := filepath.Join(t.TempDir(), "nothing.pdf")

	_, err := exporter.Export(context.Background(), CaseRef{CaseID: 99, PatientID: 1}, outPath)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Export error = %v, want ErrNotFound", err)
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("no file may exist at the output path after a NotFound failure")
	}
}

// Ownership mismatch is NotFound, not a different error class.
func TestExport_OwnershipMismatch(t *testing.T) {
	fetcher := johnDoeFetcher()
	fetcher.patients[2] = &store.Patient{ID: 2, FirstName: "Jane", LastName: "Roe"}

	exporter := newTestExporter(fetcher)
	outPath := filepath.Join(t.TempDir(), "nothing.pdf")
	_, err := exporter.Export(context.Background(), CaseRef{CaseID: 1, PatientID: 2}, outPath)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Export error = %v, want ErrNotFound", err)
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("no file may exist at the output path after an ownership failure")
	}
}

// An unwritable destination fails the export and leaves nothing behind.
func TestExport_WriteFailure(t *testing.T) {
	exporter := newTestExporter(johnDoeFetcher())
	outPath := filepath.Join(t.TempDir(), "missing-subdir", "report.pdf")

	_, err := exporter.Export(context.Background(), CaseRef{CaseID: 1, PatientID: 1}, outPath)
	if err == nil {
		t.Fatal("export into a missing directory should fail")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("no file may exist at the output path after a write failure")
	}

	// No stray temp files either.
	entries, readErr := os.ReadDir(filepath.Dir(filepath.Dir(outPath)))
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if e.Name() != "missing-subdir" && filepath.Ext(e.Name()) == ".pdf" {
			t.Errorf("stray artifact left behind: %s", e.Name())
		}
	}
}

// Structural output does not depend on where the export runs; two passes
// over the same records produce documents of identical page count and
// section layout.
func TestExport_RepeatedRunsAgree(t *testing.T) {
	dir := t.TempDir()
	fetcher := johnDoeFetcher()
	fetcher.scans[1] = []store.ScanImage{
		{ID: 1, CaseID: 1, FilePath: filepath.Join(dir, "gone.png"), ScanType: "CBCT"},
	}
	exporter := newTestExporter(fetcher)

	pathA := filepath.Join(dir, "a.pdf")
	pathB := filepath.Join(dir, "b.pdf")
	resA, err := exporter.Export(context.Background(), CaseRef{CaseID: 1, PatientID: 1}, pathA)
	if err != nil {
		t.Fatal(err)
	}
	resB, err := exporter.Export(context.Background(), CaseRef{CaseID: 1, PatientID: 1}, pathB)
	if err != nil {
		t.Fatal(err)
	}
	if resA.Degraded != resB.Degraded {
		t.Errorf("degraded counts differ: %d vs %d", resA.Degraded, resB.Degraded)
	}
	assertPDF(t, pathA)
	assertPDF(t, pathB)
}

// assertPDF checks that path holds a complete PDF artifact.
func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Errorf("output has no PDF trailer; file may be truncated")
	}
}
