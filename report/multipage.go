package report

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"newsdesk/pdfdraw"
)

// renderMultipagePDF is the long-form layout kept for clients that still
// archive the pre-compact reports: a cover page, a clickable table of
// contents, then one section per page. Section pages start at page 3, so a
// section's TOC entry points at page index+3.
func renderMultipagePDF(doc *Document) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)

	writeCoverPage(pdf, doc)
	writeContentsPage(pdf, doc)

	for i := range doc.Sections {
		writeSectionPage(pdf, fmt.Sprintf("mp_viz_%d", i), &doc.Sections[i])
	}

	if pdf.Err() {
		return nil, fmt.Errorf("multipage layout: %w", pdf.Error())
	}
	return pdf, nil
}

func writeCoverPage(pdf *fpdf.Fpdf, doc *Document) {
	pdf.AddPage()

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, 210, 297, "F")

	// corner decorations
	pdf.SetFillColor(colorAccent[0], colorAccent[1], colorAccent[2])
	pdfdraw.Circle(pdf, 185, 30, 18, "F")
	pdf.SetFillColor(colorPrimaryLight[0], colorPrimaryLight[1], colorPrimaryLight[2])
	pdfdraw.Ellipse(pdf, 20, 270, 26, 14, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 28)
	pdf.SetXY(15, 100)
	pdf.CellFormat(180, 14, "CREDIT RISK REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.SetXY(15, 120)
	pdf.CellFormat(180, 10, strings.ToUpper(doc.CompanyName), "", 1, "C", false, 0, "")

	if doc.Industry != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.SetXY(15, 134)
		pdf.CellFormat(180, 8, doc.Industry, "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "I", 10)
	pdf.SetXY(15, 260)
	pdf.CellFormat(180, 6, "Generated: "+doc.GeneratedAt.Format("January 2, 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.SetXY(15, 267)
	pdf.CellFormat(180, 6, "Confidential: For authorized use only", "", 1, "C", false, 0, "")
}

func writeContentsPage(pdf *fpdf.Fpdf, doc *Document) {
	pdf.AddPage()

	pdf.SetFillColor(colorPrimaryLight[0], colorPrimaryLight[1], colorPrimaryLight[2])
	pdfdraw.RoundedRect(pdf, 15, 20, 180, 16, 4, "F", pdfdraw.CornersAll)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetXY(20, 24)
	pdf.CellFormat(170, 8, "Table of Contents", "", 1, "L", false, 0, "")

	y := 46.0
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		page := i + 3

		link := pdfdraw.LinkTo(pdf, page)

		pdf.SetFillColor(colorAccent[0], colorAccent[1], colorAccent[2])
		pdfdraw.Circle(pdf, 20, y+4, 1.2, "F")

		pdf.SetFont("Arial", "", 11)
		pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
		pdf.SetXY(25, y)
		pdf.CellFormat(150, 8, sec.Title, "", 0, "L", false, link, "")
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", page), "", 1, "R", false, link, "")

		y += 10
	}
}

func writeSectionPage(pdf *fpdf.Fpdf, vizName string, sec *Section) {
	pdf.AddPage()

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdfdraw.RoundedRect(pdf, 15, 15, 180, 12, 3, "F", pdfdraw.CornerTopRight+pdfdraw.CornerBottomRight)

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(20, 17)
	pdf.CellFormat(170, 8, sec.Title, "", 1, "L", false, 0, "")

	pdf.SetY(34)

	if sec.IsMapping() {
		writeSectionTable(pdf, sec)
	} else if text := strings.TrimSpace(sec.Text); text != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
		pdf.SetX(15)
		pdf.MultiCell(180, 6, text, "", "L", false)
		pdf.Ln(4)
	}

	if sec.Visualization != nil {
		placeVisualization(pdf, vizName, sec, 110)
	}
}

// writeSectionTable renders the full-width one-pair-per-row table used on the
// roomier per-section pages.
func writeSectionTable(pdf *fpdf.Fpdf, sec *Section) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetX(15)
	pdf.CellFormat(80, 8, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(100, 8, "Value", "1", 1, "L", true, 0, "")

	pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
	for i, k := range sec.Keys {
		fill := i%2 == 1
		pdf.SetFillColor(colorPrimaryLight[0], colorPrimaryLight[1], colorPrimaryLight[2])
		pdf.SetX(15)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(80, 7, k, "1", 0, "L", fill, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(100, 7, sec.Data[k], "1", 1, "L", fill, 0, "")
	}
	pdf.Ln(4)
}
