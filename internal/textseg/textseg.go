// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package textseg

import (
	"regexp"
	"strings"
)

// Words-per-minute assumed for reading time estimates.
const ReadingWPM = 200

var (
	sentenceBoundary = regexp.MustCompile(`([.!?])\s+([A-Z])`)
	multiNewline     = regexp.MustCompile(`\n{3,}`)
	multiSpace       = regexp.MustCompile(`[ \t]+`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
)

// abbreviations whose trailing period must not end a sentence.
var abbreviations = []string{
	"Dr.", "Mr.", "Mrs.", "Ms.", "Prof.", "Sr.", "Jr.", "St.",
	"etc.", "i.e.", "e.g.", "vs.", "cf.", "al.", "Fig.", "No.",
}

const periodMask = "\x01"

// SegmentSentences splits text into sentences on sentence-ending punctuation
// followed by whitespace and an uppercase letter. Fragments under 10
// characters are dropped. Abbreviations and decimals are NOT protected; use
// ExtractSentences when that matters.
func SegmentSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Insert a hard break marker after each boundary, then split on it.
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00$2")
	parts := strings.Split(marked, "\x00")

	var sentences []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 10 {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// ExtractSentences splits text into sentences like SegmentSentences but
// protects abbreviations and decimal numbers by masking their periods before
// splitting and restoring them afterwards.
func ExtractSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	masked := text
	for _, abbr := range abbreviations {
		replacement := strings.ReplaceAll(abbr, ".", periodMask)
		masked = strings.ReplaceAll(masked, abbr, replacement)
	}
	// Decimal numbers: 3.14 -> 3<mask>14
	masked = decimalPeriod.ReplaceAllString(masked, "$1"+periodMask+"$2")

	sentences := SegmentSentences(masked)
	for i, s := range sentences {
		sentences[i] = strings.ReplaceAll(s, periodMask, ".")
	}
	return sentences
}

var decimalPeriod = regexp.MustCompile(`(\d)\.(\d)`)

// SegmentParagraphs splits text on blank lines. Fragments shorter than
// minLen characters (after trimming) are dropped; minLen <= 0 uses the
// default of 50.
func SegmentParagraphs(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = 50
	}

	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if len(p) >= minLen {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingSeconds estimates reading time at ReadingWPM words/minute.
func EstimateReadingSeconds(text string) float64 {
	return float64(CountWords(text)) / ReadingWPM * 60
}

// CountSyllables approximates the syllable count of a single word by
// counting vowel groups, with a silent-e correction. Always returns >= 1
// for non-empty words.
func CountSyllables(word string) int {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	// Silent trailing e doesn't add a syllable.
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// Normalize collapses runs of spaces and tabs, normalizes curly quotes and
// long dashes to their ASCII forms, and collapses 3+ consecutive newlines
// down to a paragraph break.
func Normalize(text string) string {
	replacer := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
		"\r\n", "\n",
	)
	text = replacer.Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
