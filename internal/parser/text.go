// Package parser extracts plain text from document files.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a successfully extracted document.
type Document struct {
	Path string
	Name string
	Text string
}

// ExtractionError reports a single unreadable or unsupported file. It is
// non-fatal: callers accumulate these as warnings and continue the batch.
type ExtractionError struct {
	Path   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

// supportedExtensions are the formats handled natively. Everything else is
// the responsibility of an upstream converter.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// ExtractText reads a file and returns its plain-text content. Markdown
// files have YAML frontmatter stripped. Empty files return an empty string,
// not an error.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return "", &ExtractionError{Path: path, Reason: fmt.Sprintf("unsupported format %q", ext)}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Reason: err.Error()}
	}

	text := string(content)
	if ext == ".md" || ext == ".markdown" {
		text = stripFrontmatter(text)
	}

	return text, nil
}

// ExtractAll extracts every file in order. Individual failures never abort
// the batch; they are returned as warning strings alongside the documents
// that did extract.
func ExtractAll(paths []string) ([]Document, []string) {
	docs := make([]Document, 0, len(paths))
	var warnings []string

	for _, path := range paths {
		text, err := ExtractText(path)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		docs = append(docs, Document{
			Path: path,
			Name: filepath.Base(path),
			Text: text,
		})
	}

	return docs, warnings
}

// stripFrontmatter removes a leading YAML frontmatter block. Malformed YAML
// is left in place rather than guessed at.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	endIdx := strings.Index(content[4:], "\n---")
	if endIdx <= 0 {
		return content
	}

	frontmatterYAML := content[4 : 4+endIdx]
	var fm map[string]any
	if err := yaml.Unmarshal([]byte(frontmatterYAML), &fm); err != nil {
		return content
	}

	return strings.TrimPrefix(content[4+endIdx+4:], "\n")
}
