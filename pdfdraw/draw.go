// Package pdfdraw adds vector primitives on top of fpdf's generic path
// operations: selectively-rounded rectangles, Bezier ellipses and clickable
// internal page links. Only MoveTo/LineTo/CurveBezierCubicTo/ClosePath/
// DrawPath and the link registry are used, so nothing here depends on a
// particular library's shape helpers.
package pdfdraw

import (
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
)

// cornerK approximates a quarter circle with one cubic Bezier segment.
// The exact constant is 1 - 4/3*(sqrt(2)-1) = 0.4477; the reports have
// always used 0.4 and the difference is not visible at print sizes.
const cornerK = 0.4

// Corner identifiers for RoundedRect, matching the report codebase's
// historical "1234" convention.
const (
	CornerTopRight    = "1"
	CornerBottomRight = "2"
	CornerBottomLeft  = "3"
	CornerTopLeft     = "4"
	CornersAll        = "1234"
)

// RoundedRect draws a rectangle at (x, y) with the given width, height and
// corner radius. styleStr is "F" (fill), "D" (stroke) or "FD" (both).
// corners selects which of the four corners are rounded; any corner not
// named stays square.
func RoundedRect(pdf *fpdf.Fpdf, x, y, w, h, r float64, styleStr, corners string) {
	k := r * cornerK

	pdf.MoveTo(x+r, y)

	// top right
	if strings.Contains(corners, CornerTopRight) {
		pdf.LineTo(x+w-r, y)
		pdf.CurveBezierCubicTo(x+w-k, y, x+w, y+k, x+w, y+r)
	} else {
		pdf.LineTo(x+w, y)
	}

	// bottom right
	if strings.Contains(corners, CornerBottomRight) {
		pdf.LineTo(x+w, y+h-r)
		pdf.CurveBezierCubicTo(x+w, y+h-k, x+w-k, y+h, x+w-r, y+h)
	} else {
		pdf.LineTo(x+w, y+h)
	}

	// bottom left
	if strings.Contains(corners, CornerBottomLeft) {
		pdf.LineTo(x+r, y+h)
		pdf.CurveBezierCubicTo(x+k, y+h, x, y+h-k, x, y+h-r)
	} else {
		pdf.LineTo(x, y+h)
	}

	// top left
	if strings.Contains(corners, CornerTopLeft) {
		pdf.LineTo(x, y+r)
		pdf.CurveBezierCubicTo(x, y+k, x+k, y, x+r, y)
	} else {
		pdf.LineTo(x, y)
	}

	pdf.ClosePath()
	pdf.DrawPath(normalizeStyle(styleStr))
}

// Ellipse draws an ellipse centered at (cx, cy) with radii rx and ry, built
// from four cubic Bezier segments using the standard circular-arc kappa.
func Ellipse(pdf *fpdf.Fpdf, cx, cy, rx, ry float64, styleStr string) {
	kappa := 4.0 / 3.0 * (math.Sqrt2 - 1)
	lx := kappa * rx
	ly := kappa * ry

	pdf.MoveTo(cx+rx, cy)
	pdf.CurveBezierCubicTo(cx+rx, cy-ly, cx+lx, cy-ry, cx, cy-ry)
	pdf.CurveBezierCubicTo(cx-lx, cy-ry, cx-rx, cy-ly, cx-rx, cy)
	pdf.CurveBezierCubicTo(cx-rx, cy+ly, cx-lx, cy+ry, cx, cy+ry)
	pdf.CurveBezierCubicTo(cx+lx, cy+ry, cx+rx, cy+ly, cx+rx, cy)
	pdf.ClosePath()
	pdf.DrawPath(normalizeStyle(styleStr))
}

// Circle is a convenience wrapper for an ellipse with equal radii.
func Circle(pdf *fpdf.Fpdf, cx, cy, r float64, styleStr string) {
	Ellipse(pdf, cx, cy, r, r, styleStr)
}

// LinkTo allocates a link target pointing at the top of an absolute page
// number within the document. The returned id can be attached to cells.
func LinkTo(pdf *fpdf.Fpdf, page int) int {
	id := pdf.AddLink()
	pdf.SetLink(id, 0, page)
	return id
}

// PageLink registers a clickable rectangular region on the current page that
// jumps to the top of the given absolute page number.
func PageLink(pdf *fpdf.Fpdf, x, y, w, h float64, page int) int {
	id := LinkTo(pdf, page)
	pdf.Link(x, y, w, h, id)
	return id
}

func normalizeStyle(styleStr string) string {
	switch styleStr {
	case "F", "f":
		return "F"
	case "FD", "DF", "B":
		return "FD"
	default:
		return "D"
	}
}
