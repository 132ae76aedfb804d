package report

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// rowHeight is the line height for body text and table rows, inches.
const rowHeight = 0.24

// Document sequences rendered section blocks into an A4 page stream.
// Natural overflow breaks are delegated to the underlying flow layout;
// Document only inserts the explicit breaks the section policy demands.
type Document struct {
	pdf      *fpdf.Fpdf
	style    Style
	tr       func(string) string
	pageW    float64
	pageH    float64
	contentW float64
	imageSeq int
}

func newDocument(style Style) *Document {
	pdf := fpdf.New("P", "in", "A4", "")
	pdf.SetMargins(style.MarginInches, style.MarginInches, style.MarginInches)
	pdf.SetAutoPageBreak(true, style.MarginInches)
	pdf.SetTitle(style.ClinicName, true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	return &Document{
		pdf:   pdf,
		style: style,
		// The core fonts are cp1252; UTF-8 record text must be
		// translated before every cell or it renders as mojibake.
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		pageW:    pageW,
		pageH:    pageH,
		contentW: pageW - 2*style.MarginInches,
	}
}

// pageBreak starts a fresh page.
func (d *Document) pageBreak() {
	d.pdf.AddPage()
}

// pageCount returns the number of pages emitted so far.
func (d *Document) pageCount() int {
	return d.pdf.PageCount()
}

// title renders the document title block: clinic name over a subtitle.
func (d *Document) title(text, subtitle string) {
	d.pdf.SetFont(d.style.FontFamily, "B", d.style.TitleSize)
	d.pdf.SetTextColor(d.style.Accent.R, d.style.Accent.G, d.style.Accent.B)
	d.pdf.CellFormat(d.contentW, 0.4, d.tr(text), "", 1, "C", false, 0, "")

	d.pdf.SetFont(d.style.FontFamily, "", d.style.HeadingSize)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.CellFormat(d.contentW, 0.3, d.tr(subtitle), "", 1, "C", false, 0, "")
	d.pdf.Ln(0.15)
}

// heading renders a section heading with an underline rule.
func (d *Document) heading(text string) {
	d.pdf.SetFont(d.style.FontFamily, "B", d.style.HeadingSize)
	d.pdf.SetTextColor(d.style.Accent.R, d.style.Accent.G, d.style.Accent.B)
	d.pdf.CellFormat(d.contentW, 0.3, d.tr(text), "", 1, "L", false, 0, "")

	y := d.pdf.GetY()
	d.pdf.SetDrawColor(d.style.Accent.R, d.style.Accent.G, d.style.Accent.B)
	d.pdf.Line(d.style.MarginInches, y, d.style.MarginInches+d.contentW, y)
	d.pdf.Ln(0.1)
}

// paragraph renders wrapped body text across the content width.
func (d *Document) paragraph(text string) {
	d.pdf.SetFont(d.style.FontFamily, "", d.style.BaseSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(d.contentW, rowHeight, d.tr(text), "", "L", false)
	d.pdf.Ln(0.08)
}

// labeledParagraph renders a bold inline label followed by body text.
func (d *Document) labeledParagraph(label, text string) {
	d.pdf.SetFont(d.style.FontFamily, "B", d.style.BaseSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(d.contentW, rowHeight, d.tr(label), "", 1, "L", false, 0, "")
	d.paragraph(text)
}

// keyValueTable renders a two-column label/value table with banding on the
// alternate rows. Key/value tables always render, even when every value is
// a placeholder.
func (d *Document) keyValueTable(rows [][2]string) error {
	t := Table{Wide: map[int]bool{1: true}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row[0], row[1]})
	}
	widths, err := t.ColumnWidths(d.contentW)
	if err != nil {
		return err
	}
	if widths == nil {
		return nil
	}

	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetDrawColor(200, 200, 200)
	d.pdf.SetFillColor(d.style.Banding.R, d.style.Banding.G, d.style.Banding.B)
	for i, row := range t.Rows {
		fill := i%2 == 1
		d.pdf.SetFont(d.style.FontFamily, "B", d.style.BaseSize)
		d.pdf.CellFormat(widths[0], rowHeight, d.tr(row[0]), "1", 0, "L", fill, 0, "")
		d.pdf.SetFont(d.style.FontFamily, "", d.style.BaseSize)
		d.pdf.CellFormat(widths[1], rowHeight, d.tr(row[1]), "1", 1, "L", fill, 0, "")
	}
	d.pdf.Ln(0.12)
	return nil
}

// dataTable renders a header row plus banded data rows. Cell text is
// expected to be pre-truncated to the cell budget.
func (d *Document) dataTable(t Table) error {
	widths, err := t.ColumnWidths(d.contentW)
	if err != nil {
		return err
	}
	if widths == nil {
		return nil
	}

	d.pdf.SetDrawColor(200, 200, 200)

	if len(t.Header) > 0 {
		d.pdf.SetFont(d.style.FontFamily, "B", d.style.BaseSize)
		d.pdf.SetTextColor(255, 255, 255)
		d.pdf.SetFillColor(d.style.Accent.R, d.style.Accent.G, d.style.Accent.B)
		for i, cell := range t.Header {
			ln := 0
			if i == len(t.Header)-1 {
				ln = 1
			}
			d.pdf.CellFormat(widths[i], rowHeight, d.tr(cell), "1", ln, "C", true, 0, "")
		}
	}

	d.pdf.SetFont(d.style.FontFamily, "", d.style.BaseSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFillColor(d.style.Banding.R, d.style.Banding.G, d.style.Banding.B)
	for r, row := range t.Rows {
		fill := r%2 == 1
		for i, cell := range row {
			ln := 0
			if i == len(row)-1 {
				ln = 1
			}
			d.pdf.CellFormat(widths[i], rowHeight, d.tr(cell), "1", ln, "L", fill, 0, "")
		}
	}
	d.pdf.Ln(0.12)
	return nil
}

// attachment renders one scan image block: caption, then either the
// decoded image fit within the configured display box, or a bordered
// placeholder carrying the diagnostic reason and the stored path.
func (d *Document) attachment(block AttachmentBlock) error {
	d.pdf.SetFont(d.style.FontFamily, "B", d.style.BaseSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(d.contentW, rowHeight, d.tr(DisplayCell(block.Scan.ScanType)), "", 1, "L", false, 0, "")

	d.pdf.SetFont(d.style.FontFamily, "", d.style.BaseSize-1)
	d.pdf.SetTextColor(90, 90, 90)
	uploaded := block.Scan.UploadedAt.Format("2006-01-02")
	d.pdf.CellFormat(d.contentW, rowHeight, "Uploaded: "+uploaded, "", 1, "L", false, 0, "")
	if block.Scan.Notes != "" {
		d.pdf.MultiCell(d.contentW, rowHeight, d.tr("Notes: "+block.Scan.Notes), "", "L", false)
	}
	d.pdf.Ln(0.05)

	if block.Degraded() {
		d.placeholder(block.Reason, block.Scan.FilePath)
		return nil
	}

	bounds := block.Image.Bounds()
	outW, outH := fitWithin(bounds.Dx(), bounds.Dy(), d.style.ImageBoxWidth, d.style.ImageBoxHeight)

	var buf bytes.Buffer
	if err := png.Encode(&buf, block.Image); err != nil {
		// Encoding a decoded image should not fail; degrade anyway
		// rather than abort the document.
		d.placeholder(fmt.Sprintf("could not embed image: %v", err), block.Scan.FilePath)
		return nil
	}

	name := fmt.Sprintf("scan-%d", d.imageSeq)
	d.imageSeq++
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)

	y := d.pdf.GetY()
	if y+outH > d.pageH-d.style.MarginInches {
		d.pdf.AddPage()
		y = d.pdf.GetY()
	}
	x := d.style.MarginInches + (d.contentW-outW)/2
	d.pdf.ImageOptions(name, x, y, outW, outH, false, opts, 0, "")
	d.pdf.SetY(y + outH + 0.1)
	return nil
}

// placeholder renders the substitute block for an attachment that could
// not be loaded.
func (d *Document) placeholder(reason, storedPath string) {
	d.pdf.SetFont(d.style.FontFamily, "B", d.style.BaseSize)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.SetFillColor(245, 245, 245)

	lines := []string{
		"Image unavailable",
		reason,
		"Stored path: " + storedPath,
	}
	for i, line := range lines {
		border := "LR"
		if i == 0 {
			border = "LTR"
		}
		if i == len(lines)-1 {
			border = "LBR"
		}
		if i > 0 {
			d.pdf.SetFont(d.style.FontFamily, "", d.style.BaseSize-1)
		}
		d.pdf.CellFormat(d.contentW, rowHeight, d.tr(line), border, 1, "L", true, 0, "")
	}
	d.pdf.Ln(0.1)
}

// footer renders the generation timestamp line.
func (d *Document) footer(text string) {
	d.pdf.Ln(0.1)
	d.pdf.SetFont(d.style.FontFamily, "I", d.style.BaseSize-1)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.CellFormat(d.contentW, rowHeight, d.tr(text), "", 1, "L", false, 0, "")
}

// writeTo finalizes the page stream into a single file at path. The
// document is first written to a temporary file in the destination
// directory and renamed into place, so a failure never leaves a truncated
// artifact behind.
func (d *Document) writeTo(path string) error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("assemble document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".caseforge-*.pdf")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := d.pdf.Output(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize output file: %w", err)
	}
	return nil
}
