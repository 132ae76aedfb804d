package report

import (
	"fmt"
	"time"

	"github.com/mrsinham/caseforge/internal/store"
)

// caseData is the point-in-time view of one case assembled for a single
// export. It is built fresh per export and discarded afterwards.
type caseData struct {
	patient      *store.Patient
	clinicalCase *store.Case
	plan         []store.TreatmentPlanItem
	attachments  []AttachmentBlock
	generatedAt  time.Time
}

// section is one independently omissible unit of the document. Sections
// are evaluated once, in registry order; a false predicate skips the
// section entirely, heading included.
type section struct {
	name      string
	present   func(*caseData) bool
	freshPage bool
	render    func(*Document, *caseData) error
}

func always(*caseData) bool { return true }

// sections returns the fixed total order of the report. The registry is
// the only branching in the emission path: a straight-line pass with no
// way back to an earlier section.
func sections() []section {
	return []section{
		{name: "Title", present: always, render: renderTitle},
		{name: "Patient Information", present: always, render: renderPatientInfo},
		{name: "Case Information", present: always, render: renderCaseInfo},
		{name: "Chief Complaint", present: always, render: renderChiefComplaint},
		{name: "Medical & Dental History", present: always, render: renderHistory},
		{name: "Clinical Examination & Diagnosis", present: always, render: renderExamination},
		{name: "Vital Signs", present: hasVitals, render: renderVitals},
		{name: "Treatment Plan", present: hasPlan, render: renderTreatmentPlan},
		{name: "Patient Consent", present: hasConsent, render: renderConsent},
		{name: "Scan Images", present: hasScans, freshPage: true, render: renderScanImages},
		{name: "Generated", present: always, render: renderFooter},
	}
}

func hasVitals(d *caseData) bool {
	c := d.clinicalCase
	return c.VitalsBP != "" || c.VitalsHR != "" || c.VitalsTemp != "" || c.VitalsWeight != ""
}

func hasPlan(d *caseData) bool { return len(d.plan) > 0 }

func hasConsent(d *caseData) bool {
	return d.clinicalCase.ConsentObtained || d.clinicalCase.ConsentDate != ""
}

func hasScans(d *caseData) bool { return len(d.attachments) > 0 }

func renderTitle(doc *Document, d *caseData) error {
	doc.title(doc.style.ClinicName, "Clinical Case Report")
	return nil
}

func renderPatientInfo(doc *Document, d *caseData) error {
	p := d.patient
	doc.heading("Patient Information")
	return doc.keyValueTable([][2]string{
		{"Name", DisplayText(p.FirstName + " " + p.LastName)},
		{"Gender", DisplayText(p.Gender)},
		{"Date of Birth", DisplayDate(p.DOB)},
		{"Phone", DisplayText(p.Phone)},
		{"Email", DisplayText(p.Email)},
		{"Address", DisplayText(p.Address)},
	})
}

func renderCaseInfo(doc *Document, d *caseData) error {
	c := d.clinicalCase
	doc.heading("Case Information")
	rows := [][2]string{
		{"OP Number", fmt.Sprintf("%d", c.OpNumber)},
		{"Case Date", DisplayDate(c.CaseDate)},
		{"Status", DisplayText(c.CaseStatus)},
		{"Follow-up Date", DisplayDate(c.FollowUpDate)},
	}
	if c.ClosedDate != "" {
		rows = append(rows, [2]string{"Closed Date", DisplayDate(c.ClosedDate)})
	}
	return doc.keyValueTable(rows)
}

func renderChiefComplaint(doc *Document, d *caseData) error {
	doc.heading("Chief Complaint")
	doc.paragraph(DisplayText(d.clinicalCase.ChiefComplaint))
	return nil
}

func renderHistory(doc *Document, d *caseData) error {
	c := d.clinicalCase
	doc.heading("Medical & Dental History")
	doc.labeledParagraph("Past Medical History", DisplayText(c.MedicalHistory))
	doc.labeledParagraph("Past Dental History", DisplayText(c.DentalHistory))
	return nil
}

func renderExamination(doc *Document, d *caseData) error {
	c := d.clinicalCase
	doc.heading("Clinical Examination & Diagnosis")
	doc.labeledParagraph("Examination", DisplayText(c.Examination))
	doc.labeledParagraph("Diagnosis", DisplayText(c.Diagnosis))
	return nil
}

func renderVitals(doc *Document, d *caseData) error {
	c := d.clinicalCase
	doc.heading("Vital Signs")
	return doc.keyValueTable([][2]string{
		{"Blood Pressure", DisplayCell(c.VitalsBP)},
		{"Heart Rate", DisplayCell(c.VitalsHR)},
		{"Temperature", DisplayCell(c.VitalsTemp)},
		{"Weight", DisplayCell(c.VitalsWeight)},
	})
}

func renderTreatmentPlan(doc *Document, d *caseData) error {
	doc.heading("Treatment Plan")

	t := Table{
		Header: []string{"Type", "Name", "Dosage", "Freq", "Days", "Start", "End", "Status", "Notes"},
		Wide:   map[int]bool{8: true},
	}
	for _, item := range d.plan {
		days := NotAvailable
		if item.DurationDays > 0 {
			days = fmt.Sprintf("%d", item.DurationDays)
		}
		t.Rows = append(t.Rows, []string{
			DisplayCell(item.ItemType),
			Truncate(DisplayCell(item.Name), CellBudget),
			DisplayCell(item.Dosage),
			DisplayCell(item.Frequency),
			days,
			DisplayDateCell(item.StartDate),
			DisplayDateCell(item.EndDate),
			DisplayCell(item.Status),
			Truncate(DisplayCell(item.Notes), CellBudget),
		})
	}
	return doc.dataTable(t)
}

func renderConsent(doc *Document, d *caseData) error {
	c := d.clinicalCase
	doc.heading("Patient Consent")
	consent := "No"
	if c.ConsentObtained {
		consent = "Yes"
	}
	return doc.keyValueTable([][2]string{
		{"Consent Obtained", consent},
		{"Consent Date", DisplayDate(c.ConsentDate)},
		{"Consent Form", DisplayText(c.ConsentFilePath)},
	})
}

func renderScanImages(doc *Document, d *caseData) error {
	doc.heading("Scan Images")
	for i, block := range d.attachments {
		if err := doc.attachment(block); err != nil {
			return err
		}
		if i < len(d.attachments)-1 || doc.style.BreakAfterLastImage {
			doc.pageBreak()
		}
	}
	return nil
}

func renderFooter(doc *Document, d *caseData) error {
	doc.footer("Generated on " + d.generatedAt.Format("2006-01-02 15:04"))
	return nil
}
