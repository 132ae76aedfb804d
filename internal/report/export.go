package report

import (
	"context"
	"fmt"
	"time"

	"github.com/mrsinham/caseforge/internal/store"
	"github.com/rs/zerolog"
)

// Fetcher is the read-only record store contract the engine exports
// against. *store.CaseStore satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchPatient(ctx context.Context, patientID uint) (*store.Patient, error)
	FetchCase(ctx context.Context, caseID, patientID uint) (*store.Case, error)
	FetchTreatmentPlan(ctx context.Context, caseID uint) ([]store.TreatmentPlanItem, error)
	FetchScanImages(ctx context.Context, caseID uint) ([]store.ScanImage, error)
}

// CaseRef identifies one case and its owning patient.
type CaseRef struct {
	CaseID    uint
	PatientID uint
}

// Result reports a completed export. Degraded counts attachments that
// rendered as placeholders; a non-zero count is advisory, not an error.
type Result struct {
	Path     string
	Degraded int
}

// Exporter assembles case report documents. It holds no state between
// exports; concurrent exports to distinct output paths are safe.
type Exporter struct {
	fetcher Fetcher
	style   Style
	log     zerolog.Logger
}

// NewExporter returns an exporter over the given record store.
func NewExporter(fetcher Fetcher, style Style, log zerolog.Logger) *Exporter {
	return &Exporter{fetcher: fetcher, style: style, log: log}
}

// Export performs one synchronous export pass: fetch the four record
// groups, render the sections in their fixed order, and write the
// paginated document to outputPath. On any fatal error no file is left at
// outputPath. Per-attachment failures are recovered in the document and
// surfaced only through Result.Degraded.
func (e *Exporter) Export(ctx context.Context, ref CaseRef, outputPath string) (Result, error) {
	c, err := e.fetcher.FetchCase(ctx, ref.CaseID, ref.PatientID)
	if err != nil {
		return Result{}, err
	}
	patient, err := e.fetcher.FetchPatient(ctx, ref.PatientID)
	if err != nil {
		return Result{}, err
	}
	plan, err := e.fetcher.FetchTreatmentPlan(ctx, ref.CaseID)
	if err != nil {
		return Result{}, err
	}
	scans, err := e.fetcher.FetchScanImages(ctx, ref.CaseID)
	if err != nil {
		return Result{}, err
	}

	data := &caseData{
		patient:      patient,
		clinicalCase: c,
		plan:         plan,
		attachments:  LoadAttachments(scans),
		generatedAt:  time.Now(),
	}

	degraded := 0
	for _, block := range data.attachments {
		if block.Degraded() {
			degraded++
			e.log.Warn().
				Str("path", block.Scan.FilePath).
				Str("reason", block.Reason).
				Msg("scan image degraded to placeholder")
		}
	}

	doc, err := assemble(e.style, data)
	if err != nil {
		return Result{}, err
	}

	if err := doc.writeTo(outputPath); err != nil {
		return Result{}, err
	}

	e.log.Info().
		Uint("case", ref.CaseID).
		Str("path", outputPath).
		Int("pages", doc.pageCount()).
		Int("degraded", degraded).
		Msg("case report written")

	return Result{Path: outputPath, Degraded: degraded}, nil
}

// assemble runs the section registry over the fetched data: one pass, in
// the fixed order, skipping absent sections and honoring fresh-page
// demands.
func assemble(style Style, data *caseData) (*Document, error) {
	doc := newDocument(style)
	for _, s := range sections() {
		if !s.present(data) {
			continue
		}
		if s.freshPage {
			doc.pageBreak()
		}
		if err := s.render(doc, data); err != nil {
			return nil, fmt.Errorf("render %s section: %w", s.name, err)
		}
	}
	return doc, nil
}

// DefaultFilename synthesizes the conventional output name for a case from
// the same identity fields an export would fetch. It does not touch the
// filesystem and makes no uniqueness guarantee.
func (e *Exporter) DefaultFilename(ctx context.Context, ref CaseRef) (string, error) {
	c, err := e.fetcher.FetchCase(ctx, ref.CaseID, ref.PatientID)
	if err != nil {
		return "", err
	}
	patient, err := e.fetcher.FetchPatient(ctx, ref.PatientID)
	if err != nil {
		return "", err
	}
	return SynthesizeFilename(c.OpNumber, patient.FirstName, patient.LastName, c.CaseDate), nil
}
