// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"regexp"
	"strings"
)

var (
	markdownHeaderLine = regexp.MustCompile(`^#{1,6}\s+\S`)
	numberedHeaderLine = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]\s+\S`)
	allCapsHeaderLine  = regexp.MustCompile(`^[A-Z][A-Z\s\-&()]*[A-Z)]$`)
	titleCaseLine      = regexp.MustCompile(`^(?:[A-Z][a-z]+\s+){1,6}[A-Z][a-z]+$`)
)

// header marks a detected section header within the document.
type header struct {
	line  int
	title string
}

// documentStructure is the result of the structure-detection scan.
type documentStructure struct {
	lines   []string
	headers []header
}

// detectStructure scans the document line by line for markdown headers,
// numbered section headers, ALL-CAPS header-like lines and short Title-Case
// lines.
func detectStructure(text string) documentStructure {
	lines := strings.Split(text, "\n")
	ds := documentStructure{lines: lines}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case markdownHeaderLine.MatchString(line):
			title := strings.TrimSpace(strings.TrimLeft(line, "# "))
			ds.headers = append(ds.headers, header{line: i, title: title})
		case numberedHeaderLine.MatchString(line) && len(line) <= 80 && !strings.HasSuffix(line, "."):
			ds.headers = append(ds.headers, header{line: i, title: line})
		case isAllCapsHeader(line):
			ds.headers = append(ds.headers, header{line: i, title: line})
		case len(line) <= 60 && titleCaseLine.MatchString(line) && isOwnLine(lines, i):
			ds.headers = append(ds.headers, header{line: i, title: line})
		}
	}
	return ds
}

// isAllCapsHeader reports whether a line looks like an ALL-CAPS section
// header: 5-80 characters, uppercase letters with limited punctuation, no
// trailing period.
func isAllCapsHeader(line string) bool {
	if len(line) < 5 || len(line) > 80 {
		return false
	}
	if strings.HasSuffix(line, ".") {
		return false
	}
	return allCapsHeaderLine.MatchString(line)
}

// isOwnLine reports whether line i is surrounded by blank lines (or the
// document edges), which is what separates a Title-Case header from an
// ordinary short sentence.
func isOwnLine(lines []string, i int) bool {
	above := i == 0 || strings.TrimSpace(lines[i-1]) == ""
	below := i == len(lines)-1 || strings.TrimSpace(lines[i+1]) == ""
	return above && below
}

// section is a contiguous span of the document, optionally titled.
type section struct {
	title     string
	content   string
	hasHeader bool
}

// sectionsByHeader splits the document at header boundaries: each header
// owns the text through the start of the next header. Content before the
// first header becomes an untitled leading section when non-trivial.
func sectionsByHeader(ds documentStructure) []section {
	var sections []section

	if ds.headers[0].line > 0 {
		lead := strings.TrimSpace(strings.Join(ds.lines[:ds.headers[0].line], "\n"))
		if len(lead) >= 30 {
			sections = append(sections, section{title: deriveTitle(lead), content: lead})
		}
	}

	for i, h := range ds.headers {
		end := len(ds.lines)
		if i+1 < len(ds.headers) {
			end = ds.headers[i+1].line
		}
		content := strings.TrimSpace(strings.Join(ds.lines[h.line:end], "\n"))
		if content == "" {
			continue
		}
		sections = append(sections, section{title: h.title, content: content, hasHeader: true})
	}
	return sections
}

// deriveTitle builds a short title from the first words of a span.
func deriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return "Untitled section"
	}
	n := len(words)
	if n > 6 {
		n = 6
	}
	title := strings.Join(words[:n], " ")
	title = strings.TrimRight(title, ".,:;")
	if len(words) > 6 {
		title += "..."
	}
	return title
}
