package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"JR Industries, Inc.": "JR_Industries__Inc_",
		"Acme":                "Acme",
		"A-B/C":               "A_B_C",
		"Solar  Co":           "Solar__Co",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)
	got := ArtifactName("JR Industries, Inc.", ts, "pdf")
	want := "JR_Industries__Inc__20240315_093045.pdf"
	if got != want {
		t.Fatalf("ArtifactName = %q, want %q", got, want)
	}
}

func TestUniqueArtifactPathAvoidsCollision(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

	first := uniqueArtifactPath(dir, "Acme", ts, "pdf")
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	second := uniqueArtifactPath(dir, "Acme", ts, "pdf")
	if second == first {
		t.Fatal("expected a distinct path for a same-second artifact")
	}
	base := filepath.Base(second)
	if !strings.HasPrefix(base, "Acme_20240315_093045_") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("unexpected collision-avoiding name %q", base)
	}
}

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"a.pdf":  "application/pdf",
		"a.PDF":  "application/pdf",
		"a.xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.html": "text/html",
		"a.bin":  "application/octet-stream",
		"a":      "application/octet-stream",
	}
	for name, want := range cases {
		if got := ContentTypeFor(name); got != want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}
