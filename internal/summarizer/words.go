// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package summarizer

import (
	"regexp"
	"strings"
)

var (
	wordCountLine = regexp.MustCompile(`(?i)\n?\s*word count:\s*[\d,]+\s*$`)
	bracketTag    = regexp.MustCompile(`\[[^\[\]]{1,60}\]`)
	whitespaceRun = regexp.MustCompile(`[\t ]+`)
)

// StripWordCountLine removes a trailing "Word count: N" line that the
// generator sometimes appends to drafts.
func StripWordCountLine(draft string) string {
	return strings.TrimSpace(wordCountLine.ReplaceAllString(draft, ""))
}

// CountDraftWords counts the whitespace-delimited tokens of a draft after
// normalizing line breaks and tabs and stripping bracket-tag markup.
func CountDraftWords(draft string) int {
	draft = StripWordCountLine(draft)
	draft = strings.ReplaceAll(draft, "\r\n", "\n")
	draft = bracketTag.ReplaceAllString(draft, " ")
	draft = whitespaceRun.ReplaceAllString(draft, " ")
	return len(strings.Fields(draft))
}
