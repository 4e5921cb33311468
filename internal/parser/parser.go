// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/studyhive/internal/textseg"
)

// Document is the text extracted from one piece of study material.
type Document struct {
	Title     string `json:"title"`
	Format    string `json:"format"` // source extension without the dot
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
}

// extractor pulls plain text out of one file format.
type extractor func(filePath string) (string, error)

var extractors = map[string]extractor{
	".pdf":  extractPDF,
	".docx": extractDOCX,
	".txt":  extractText,
	".md":   extractText,
	".xlsx": extractExcel,
	".xls":  extractExcel,
	".html": extractHTML,
	".htm":  extractHTML,
	".eml":  extractEmail,
}

// ParseFile extracts a Document from a study material file, routed by
// extension.
func ParseFile(filePath string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	extract, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	text, err := extract(filePath)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	doc := &Document{
		Title:     titleFromFilename(filePath),
		Format:    strings.TrimPrefix(ext, "."),
		Text:      text,
		WordCount: textseg.CountWords(text),
	}
	log.Printf("ParseFile: %s format=%s chars=%d words=%d", filepath.Base(filePath), doc.Format, len(text), doc.WordCount)
	return doc, nil
}

// ParseUpload extracts a Document from uploaded file bytes. The data is
// staged to a temp file because the PDF and DOCX extractors work from paths.
func ParseUpload(filename string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := extractors[ext]; !ok {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	tmp, err := os.CreateTemp("", "studyhive-upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	doc, err := ParseFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	doc.Title = titleFromFilename(filename)
	return doc, nil
}

// IsSupportedFile reports whether the extension has an extractor.
func IsSupportedFile(filePath string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// IsTemporaryFile reports whether a file looks like an editor or OS temp
// artifact (e.g. ~$notes.docx) that the inbox watcher should ignore.
func IsTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	return strings.HasPrefix(base, "~$") ||
		strings.HasPrefix(base, "._") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".crdownload") ||
		strings.HasSuffix(base, ".part")
}

// titleFromFilename turns "cell-biology_notes.pdf" into "cell biology notes".
func titleFromFilename(filePath string) string {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
