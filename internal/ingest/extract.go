package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one 1-based page.
type Page struct {
	Number int
	Text   string
}

// Document is a source file split into non-empty pages.
type Document struct {
	Name  string
	Pages []Page
}

// ExtractPDF reads the plain text of every page, skipping pages without text.
func ExtractPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	doc := Document{Name: filepath.Base(path)}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("page %d of %s: %w", i, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Number: i, Text: text})
	}
	return doc, nil
}

// ExtractText reads a plain-text file. Form feeds separate pages.
func ExtractText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Name: filepath.Base(path)}
	for i, chunk := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Text: chunk})
	}
	return doc, nil
}

// ListSources returns the .pdf and .txt files directly inside dir, sorted by name.
func ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Extract dispatches on the file extension.
func Extract(path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ExtractPDF(path)
	}
	return ExtractText(path)
}
