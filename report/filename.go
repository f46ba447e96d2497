package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sanitize replaces every non-alphanumeric character in a company name with
// an underscore, one underscore per character.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ArtifactName builds the canonical artifact filename:
// {sanitized_company}_{YYYYMMDD_HHMMSS}.{ext}
func ArtifactName(company string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", Sanitize(company), ts.Format("20060102_150405"), ext)
}

// uniqueArtifactPath returns a path in dir for the canonical name, appending
// a short random token when a same-second artifact already exists so that
// concurrent requests never collide.
func uniqueArtifactPath(dir, company string, ts time.Time, ext string) string {
	path := filepath.Join(dir, ArtifactName(company, ts, ext))
	if _, err := os.Stat(path); err != nil {
		return path
	}
	token := uuid.NewString()[:8]
	name := fmt.Sprintf("%s_%s_%s.%s", Sanitize(company), ts.Format("20060102_150405"), token, ext)
	return filepath.Join(dir, name)
}

// ContentTypeFor maps an artifact filename to its download MIME type.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".html":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
