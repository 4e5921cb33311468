// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gen2brain/go-fitz"
	"github.com/mnako/letters"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// extractText reads plain text files (.txt, .md) verbatim.
func extractText(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("no content in text file: %s", filePath)
	}
	return string(content), nil
}

// extractPDF extracts page text from a PDF via go-fitz (MuPDF). Pages that
// fail to render are skipped; the document fails only when nothing at all
// could be extracted.
func extractPDF(filePath string) (string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from PDF: %s", filePath)
	}
	return text, nil
}

// extractDOCX extracts the editable content of a DOCX file.
func extractDOCX(filePath string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer doc.Close()

	text := strings.TrimSpace(doc.Editable().GetContent())
	if text == "" {
		return "", fmt.Errorf("no text extracted from DOCX: %s", filePath)
	}
	return text, nil
}

// extractHTML extracts visible text from an HTML file, dropping script,
// style and noscript subtrees.
func extractHTML(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML: %s", filePath)
	}
	return text, nil
}

// extractExcel flattens spreadsheet rows into labeled lines, one sheet per
// block, so tabular study material (vocabulary lists, formula sheets)
// survives as text.
func extractExcel(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for sheetIdx, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		if sheetIdx > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheetName)

		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				cell = strings.TrimSpace(cell)
				if cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				b.WriteString(strings.Join(cells, " | "))
				b.WriteString("\n")
			}
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no content extracted from Excel file: %s", filePath)
	}
	return text, nil
}

// extractEmail extracts the subject and body of an EML file, preferring the
// plain-text body over HTML.
func extractEmail(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open EML file: %w", err)
	}
	defer file.Close()

	email, err := letters.ParseEmail(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse EML file: %w", err)
	}

	var b strings.Builder
	if email.Headers.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n\n", email.Headers.Subject)
	}
	if email.Text != "" {
		b.WriteString(email.Text)
	} else if email.HTML != "" {
		b.WriteString(email.HTML)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no content extracted from EML: %s", filePath)
	}
	return text, nil
}
