package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"newsdesk/metrics"
	"newsdesk/models"
)

// Format selects the artifact type of a generated report.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatHTML  Format = "html"
)

// Layout selects between the single-page compact PDF and the legacy
// multipage layout. Non-PDF formats ignore it.
type Layout string

const (
	LayoutCompact   Layout = "compact"
	LayoutMultipage Layout = "multipage"
)

// Template presets expand to fixed section lists. An unknown template name
// leaves the requested sections untouched.
var Templates = map[string][]string{
	"standard":  {"company_info", "risk_profile", "financial_metrics"},
	"executive": {"company_info", "risk_profile", "recommendations"},
	"detailed": {"company_info", "risk_profile", "financial_metrics", "historical_data",
		"industry_comparison", "news_analysis", "recommendations"},
}

var (
	// ErrNotFound reports that the requested company has no record.
	ErrNotFound = errors.New("company not found")
	// ErrValidation reports a request that can never produce a report.
	ErrValidation = errors.New("invalid report request")
)

// WriteError wraps a filesystem failure while persisting an artifact,
// carrying the path that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write report %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// CompanyStore is the lookup surface the generator needs from the database
// layer.
type CompanyStore interface {
	GetCompanyRecord(ctx context.Context, name string) (*models.CompanyRecord, error)
}

// Request describes one report to generate. Template, when set, overrides
// Sections with the preset's list.
type Request struct {
	Company  string
	Sections []string
	Format   Format
	Template string
	Layout   Layout
}

// Result describes a generated artifact on disk.
type Result struct {
	Path        string
	Filename    string
	Format      Format
	GeneratedAt time.Time
}

// Generator turns report requests into artifacts. It owns no database state:
// callers record history and scheduling, the generator only reads company
// data and writes files.
type Generator struct {
	store     CompanyStore
	outputDir string
	log       *logrus.Entry
}

func NewGenerator(store CompanyStore, outputDir string, log *logrus.Entry) *Generator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Generator{store: store, outputDir: outputDir, log: log}
}

// Generate runs the full pipeline for one request: resolve the template,
// validate, load the company, derive metrics, build and visualize the
// document, lay it out in the requested format and write the artifact.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Template != "" {
		if preset, ok := Templates[req.Template]; ok {
			req.Sections = preset
		}
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	rec, err := g.store.GetCompanyRecord(ctx, req.Company)
	if err != nil {
		// Store failures surface as not-found so a bad company name and a
		// missing row behave identically at the API edge.
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Company)
	}

	dm := metrics.Derive(*rec)
	doc := BuildDocument(rec, dm, req.Sections)
	AttachVisualizations(doc, rec, dm, g.log)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, &WriteError{Path: g.outputDir, Err: err}
	}

	path := uniqueArtifactPath(g.outputDir, req.Company, doc.GeneratedAt, extensionFor(req.Format))
	if err := g.writeArtifact(path, req, doc); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}

	g.log.WithFields(logrus.Fields{
		"company":  req.Company,
		"format":   req.Format,
		"sections": len(doc.Sections),
		"path":     path,
	}).Info("report generated")

	return &Result{
		Path:        path,
		Filename:    filepath.Base(path),
		Format:      req.Format,
		GeneratedAt: doc.GeneratedAt,
	}, nil
}

func (g *Generator) writeArtifact(path string, req Request, doc *Document) error {
	switch req.Format {
	case FormatPDF:
		var (
			pdf *fpdf.Fpdf
			err error
		)
		if req.Layout == LayoutMultipage {
			pdf, err = renderMultipagePDF(doc)
		} else {
			pdf, err = renderCompactPDF(doc)
		}
		if err != nil {
			return err
		}
		if err := pdf.OutputFileAndClose(path); err != nil {
			return &WriteError{Path: path, Err: err}
		}

	case FormatExcel:
		wb, err := renderExcel(doc)
		if err != nil {
			return err
		}
		if err := wb.SaveAs(path); err != nil {
			return &WriteError{Path: path, Err: err}
		}

	case FormatHTML:
		f, err := os.Create(path)
		if err != nil {
			return &WriteError{Path: path, Err: err}
		}
		if err := renderHTML(f, doc); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
		if err := f.Close(); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	return nil
}

func validateRequest(req *Request) error {
	if req.Company == "" {
		return fmt.Errorf("%w: company name is required", ErrValidation)
	}
	if len(req.Sections) == 0 {
		return fmt.Errorf("%w: at least one section is required", ErrValidation)
	}
	switch req.Format {
	case FormatPDF, FormatExcel, FormatHTML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrValidation, req.Format)
	}
	return nil
}

func extensionFor(f Format) string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatHTML:
		return "html"
	default:
		return "pdf"
	}
}
