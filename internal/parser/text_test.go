package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractTextPlain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "Hello world.")

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "Hello world." {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", "")

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("empty file must not error, got %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestExtractTextStripsFrontmatter(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: Notes\ntags: [a, b]\n---\n# Heading\n\nBody text."
	path := writeFile(t, dir, "doc.md", content)

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if strings.Contains(text, "title: Notes") {
		t.Errorf("frontmatter not stripped: %q", text)
	}
	if !strings.Contains(text, "Body text.") {
		t.Errorf("body missing: %q", text)
	}
}

func TestExtractTextKeepsMalformedFrontmatter(t *testing.T) {
	dir := t.TempDir()
	content := "---\n: not yaml ::\n---\nBody."
	path := writeFile(t, dir, "doc.md", content)

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Body.") {
		t.Errorf("body missing: %q", text)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.pdf", "%PDF-1.4")

	_, err := ExtractText(path)
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("want ExtractionError, got %v", err)
	}
	if extErr.Path != path {
		t.Errorf("error path = %q, want %q", extErr.Path, path)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "absent.txt"))
	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("want ExtractionError, got %v", err)
	}
}

func TestExtractAllAccumulatesWarnings(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "Fine.")
	bad := writeFile(t, dir, "bad.docx", "binary")

	docs, warnings := ExtractAll([]string{good, bad, filepath.Join(dir, "missing.txt")})

	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if docs[0].Name != "good.txt" {
		t.Errorf("doc name = %q", docs[0].Name)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %d, want 2: %v", len(warnings), warnings)
	}
}

func TestExtractAllEmptyInput(t *testing.T) {
	docs, warnings := ExtractAll(nil)
	if len(docs) != 0 || len(warnings) != 0 {
		t.Errorf("expected empty results, got %d docs %d warnings", len(docs), len(warnings))
	}
}
