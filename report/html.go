package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// htmlSection is the template-facing view of a section: chart images are
// carried as data URIs so the output stays a single self-contained file.
type htmlSection struct {
	Title    string
	Keys     []string
	Data     map[string]string
	Text     string
	ChartURI template.URL
}

type htmlReport struct {
	CompanyName string
	Industry    string
	SubIndustry string
	Generated   string
	Sections    []htmlSection
}

// renderHTML writes the document as a standalone HTML page.
func renderHTML(w io.Writer, doc *Document) error {
	view := htmlReport{
		CompanyName: doc.CompanyName,
		Industry:    doc.Industry,
		SubIndustry: doc.SubIndustry,
		Generated:   doc.GeneratedAt.Format("January 2, 2006 15:04"),
	}
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		hs := htmlSection{
			Title: sec.Title,
			Keys:  sec.Keys,
			Data:  sec.Data,
			Text:  sec.Text,
		}
		if sec.Visualization != nil {
			hs.ChartURI = template.URL(sec.Visualization.DataURI())
		}
		view.Sections = append(view.Sections, hs)
	}

	if err := reportTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
