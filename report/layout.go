package report

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Report palette (print RGB).
var (
	colorPrimary      = [3]int{30, 24, 71}    // dark navy #1E1847
	colorPrimaryLight = [3]int{232, 231, 240} // #E8E7F0
	colorAccent       = [3]int{45, 199, 122}  // green #2DC77A
	colorTextBody     = [3]int{60, 60, 60}
	colorTextMuted    = [3]int{150, 150, 150}
)

const (
	// Visualizations are skipped below this y position (mm) so the page
	// never overflows.
	vizPositionLimit = 240.0

	// Chart height budget: full when the section is the last one drawn,
	// reduced while more sections still need space.
	vizFullHeight    = 80.0
	vizReducedHeight = 50.0

	// Free-text sections are hard-capped to hold the one-page guarantee.
	// Deliberately lossy.
	textCharCap = 300
)

// renderCompactPDF lays the whole document out on a single A4 page: compact
// header band, sections in canonical order, adaptive chart heights, footer.
// Auto page breaks are off; the budget rules above keep content inside the
// page instead.
func renderCompactPDF(doc *Document) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	addCompactHeader(pdf, doc)

	currentY := 32.0
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		pdf.SetY(currentY)

		addSectionTitle(pdf, sec.Title)

		if sec.IsMapping() {
			addDataTable(pdf, sec)
		} else {
			addTextBlock(pdf, sec.Text, sec.Type == SectionRecommendations)
		}

		if sec.Visualization != nil && pdf.GetY() < vizPositionLimit {
			maxH := vizFullHeight
			if i < len(doc.Sections)-1 {
				maxH = vizReducedHeight
			}
			placeVisualization(pdf, fmt.Sprintf("viz_%d", i), sec, maxH)
		}

		currentY = pdf.GetY() + 3
	}

	addCompactFooter(pdf, doc)

	if pdf.Err() {
		return nil, fmt.Errorf("compact layout: %w", pdf.Error())
	}
	return pdf, nil
}

func addCompactHeader(pdf *fpdf.Fpdf, doc *Document) {
	// header band
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, 210, 15, "F")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(10, 4)
	pdf.CellFormat(190, 8, "CREDIT RISK REPORT", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetXY(10, 17)
	pdf.CellFormat(180, 8, strings.ToUpper(doc.CompanyName), "", 1, "L", false, 0, "")

	if doc.Industry != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(10, 24)
		industryText := "Industry: " + doc.Industry
		if doc.SubIndustry != "" {
			industryText += " | " + doc.SubIndustry
		}
		dateText := "Generated: " + doc.GeneratedAt.Format("January 2, 2006")
		pdf.CellFormat(95, 4, industryText, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 4, dateText, "", 1, "R", false, 0, "")
	}

	pdf.SetY(30)
}

func addSectionTitle(pdf *fpdf.Fpdf, title string) {
	y := pdf.GetY()

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetXY(10, y)
	pdf.CellFormat(180, 6, strings.ToUpper(title), "", 1, "L", false, 0, "")

	pdf.SetDrawColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetLineWidth(0.2)
	pdf.Line(10, y+6, 190, y+6)

	pdf.Ln(2)
}

// addDataTable lays key/value pairs out two per row to save vertical space:
// label bold in the primary color, value plain.
func addDataTable(pdf *fpdf.Fpdf, sec *Section) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetXY(10, pdf.GetY()+2)
	pdf.CellFormat(60, 5, "METRIC", "", 0, "L", false, 0, "")
	pdf.CellFormat(120, 5, "VALUE", "", 1, "L", false, 0, "")

	rowY := pdf.GetY()
	keys := sec.Keys

	for i := 0; i < len(keys); i += 2 {
		pdf.SetXY(10, rowY)
		pdf.SetFont("Arial", "B", 8)
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		pdf.CellFormat(60, 5, keys[i], "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
		pdf.CellFormat(30, 5, sec.Data[keys[i]], "", 0, "L", false, 0, "")

		if i+1 < len(keys) {
			pdf.SetXY(110, rowY)
			pdf.SetFont("Arial", "B", 8)
			pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
			pdf.CellFormat(40, 5, keys[i+1], "", 0, "L", false, 0, "")

			pdf.SetFont("Arial", "", 8)
			pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
			pdf.CellFormat(40, 5, sec.Data[keys[i+1]], "", 0, "L", false, 0, "")
		}

		rowY += 5
	}

	pdf.SetY(rowY + 1)
}

func addTextBlock(pdf *fpdf.Fpdf, text string, isRecommendation bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > textCharCap {
		text = text[:textCharCap] + "..."
	}

	if isRecommendation {
		y := pdf.GetY()
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		pdf.SetXY(10, y)
		pdf.CellFormat(180, 5, "RECOMMENDATIONS:", "", 1, "L", false, 0, "")
		pdf.SetXY(10, y+5)
	} else {
		pdf.SetX(10)
	}

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(colorTextBody[0], colorTextBody[1], colorTextBody[2])
	pdf.MultiCell(180, 4, text, "", "L", false)
	pdf.Ln(1)
}

// placeVisualization embeds a chart image. Undecodable image data is skipped
// without touching the fpdf error state, so a bad chart never sinks the
// whole document.
func placeVisualization(pdf *fpdf.Fpdf, name string, sec *Section, maxHeight float64) {
	if _, err := png.DecodeConfig(bytes.NewReader(sec.Visualization.PNG)); err != nil {
		return
	}

	y := pdf.GetY() + 1
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(sec.Visualization.PNG))
	pdf.ImageOptions(name, 15, y, 160, maxHeight, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetY(y + maxHeight + 2)
}

func addCompactFooter(pdf *fpdf.Fpdf, doc *Document) {
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.SetXY(10, 290)
	footer := "Generated: " + doc.GeneratedAt.Format("2006-01-02") + " | Confidential: For authorized use only"
	pdf.CellFormat(190, 5, footer, "", 0, "C", false, 0, "")
}
