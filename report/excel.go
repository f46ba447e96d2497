package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Company Information"

// renderExcel writes the document into a single-sheet workbook: company and
// generation date on top, then every section as a title row, a styled header
// row of metric names and a value row. Column widths track the longest cell
// per column so nothing is clipped on open.
func renderExcel(doc *Document) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("value style: %w", err)
	}

	f.SetCellValue(excelSheetName, "A1", "Company")
	f.SetCellValue(excelSheetName, "B1", doc.CompanyName)
	f.SetCellValue(excelSheetName, "A2", "Generated")
	f.SetCellValue(excelSheetName, "B2", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellStyle(excelSheetName, "A1", "A2", headerStyle)

	// widest stringified value per column, 1-based
	colWidths := map[int]int{1: len("Generated"), 2: len(doc.CompanyName)}
	noteWidth := func(col int, s string) {
		if len(s) > colWidths[col] {
			colWidths[col] = len(s)
		}
	}
	noteWidth(2, doc.GeneratedAt.Format("2006-01-02 15:04:05"))

	row := 4
	for i := range doc.Sections {
		sec := &doc.Sections[i]

		titleCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(excelSheetName, titleCell, sec.Title)
		f.SetCellStyle(excelSheetName, titleCell, titleCell, titleStyle)
		noteWidth(1, sec.Title)
		row++

		if sec.IsMapping() {
			for col, k := range sec.Keys {
				headCell, _ := excelize.CoordinatesToCellName(col+1, row)
				valCell, _ := excelize.CoordinatesToCellName(col+1, row+1)
				f.SetCellValue(excelSheetName, headCell, k)
				f.SetCellStyle(excelSheetName, headCell, headCell, headerStyle)
				f.SetCellValue(excelSheetName, valCell, sec.Data[k])
				f.SetCellStyle(excelSheetName, valCell, valCell, valueStyle)
				noteWidth(col+1, k)
				noteWidth(col+1, sec.Data[k])
			}
			row += 2
		} else if sec.Text != "" {
			textCell, _ := excelize.CoordinatesToCellName(1, row)
			f.SetCellValue(excelSheetName, textCell, sec.Text)
			f.SetCellStyle(excelSheetName, textCell, textCell, valueStyle)
			row++
		}

		row++ // blank spacer row between sections
	}

	for col, maxLen := range colWidths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		f.SetColWidth(excelSheetName, name, name, float64(maxLen+2))
	}

	return f, nil
}
