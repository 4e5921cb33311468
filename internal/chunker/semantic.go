// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"log"
	"regexp"
	"strings"

	"github.com/studyhive/internal/textseg"
)

var definitionMarker = regexp.MustCompile(`(?i)\b(?:is defined as|refers to|means|is called|is known as)\b`)

// DivideSemantic splits a document into semantic chunks. It prefers
// header-based sectioning when the document shows at least two structural
// headers, and falls back to semantic paragraph grouping otherwise.
// Returns ErrInputTooShort when the trimmed input is under 100 characters.
func (c *Chunker) DivideSemantic(text string) ([]Chunk, error) {
	if len(strings.TrimSpace(text)) < 100 {
		return nil, ErrInputTooShort
	}

	text = textseg.Normalize(text)
	ds := detectStructure(text)

	var sections []section
	if len(ds.headers) >= 2 {
		log.Printf("DivideSemantic: header sectioning, headers=%d", len(ds.headers))
		sections = sectionsByHeader(ds)
	} else {
		log.Printf("DivideSemantic: semantic paragraph grouping")
		sections = c.groupParagraphs(text)
	}

	// Enforce the word-count cap with sentence-level splitting.
	var spans []section
	for _, s := range sections {
		if textseg.CountWords(s.content) > c.limits.MaxChunkWords {
			spans = append(spans, c.splitAtSentences(s)...)
		} else {
			spans = append(spans, s)
		}
	}

	chunks := make([]Chunk, 0, len(spans))
	for i, s := range spans {
		chunks = append(chunks, buildChunk(s, i))
	}

	chunks = c.refine(chunks)
	log.Printf("DivideSemantic: produced %d chunks", len(chunks))
	return chunks, nil
}

// groupParagraphs accumulates paragraphs into sections, breaking when the
// word budget overflows, topic similarity drops, a discourse transition
// opens the next paragraph, or definition density shifts. A section below
// the minimum size is never broken early by the soft triggers.
func (c *Chunker) groupParagraphs(text string) []section {
	paragraphs := textseg.SegmentParagraphs(text, 30)
	if len(paragraphs) == 0 {
		return []section{{title: deriveTitle(text), content: text}}
	}

	var sections []section
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, "\n\n")
		sections = append(sections, section{title: deriveTitle(content), content: content})
		current = nil
		currentWords = 0
	}

	for _, p := range paragraphs {
		pWords := textseg.CountWords(p)

		if len(current) > 0 {
			if currentWords+pWords > c.limits.MaxChunkWords {
				// Hard budget overflow forces a break.
				flush()
			} else if currentWords >= c.limits.MinChunkWords && c.shouldBreak(current, currentWords, p) {
				flush()
			}
		}

		current = append(current, p)
		currentWords += pWords
	}
	flush()

	return sections
}

// shouldBreak evaluates the soft break triggers against the next paragraph.
func (c *Chunker) shouldBreak(current []string, currentWords int, next string) bool {
	target := c.limits.TargetChunkWords

	if currentWords >= int(float64(target)*0.7) {
		running := strings.Join(current, "\n\n")
		if topicSimilarity(running, next) < 0.2 {
			return true
		}
	}

	if currentWords >= int(float64(target)*0.8) && startsWithTransition(next) {
		return true
	}

	if currentWords >= target {
		running := strings.Join(current, "\n\n")
		if definitionHeavy(running) && !definitionHeavy(next) {
			return true
		}
	}

	return false
}

// topicSimilarity is the Jaccard similarity between the significant-word
// sets of two spans.
func topicSimilarity(a, b string) float64 {
	setA := keywordSet(a)
	setB := keywordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

var keywordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

func keywordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		set[w] = true
	}
	return set
}

// definitionHeavy reports whether a span contains at least two definition
// markers or one marker per couple of sentences.
func definitionHeavy(text string) bool {
	matches := len(definitionMarker.FindAllString(text, -1))
	if matches >= 2 {
		return true
	}
	sentences := len(textseg.ExtractSentences(text))
	return matches >= 1 && sentences <= 3
}

// splitAtSentences breaks an oversized section at the sentence level,
// preferring a sentence that opens with a discourse transition within two
// sentences of the natural budget boundary.
func (c *Chunker) splitAtSentences(s section) []section {
	sentences := textseg.ExtractSentences(s.content)
	if len(sentences) == 0 {
		// Degenerate: no extractable sentences. Emit as-is rather than loop.
		log.Printf("splitAtSentences: no sentences extracted, emitting section unchanged")
		return []section{s}
	}

	var out []section
	start := 0
	part := 0

	wordCount := func(from, to int) int {
		n := 0
		for i := from; i < to; i++ {
			n += textseg.CountWords(sentences[i])
		}
		return n
	}

	for start < len(sentences) {
		words := 0
		end := start
		for end < len(sentences) {
			n := textseg.CountWords(sentences[end])
			if words > 0 && words+n > c.limits.MaxChunkWords {
				break
			}
			words += n
			end++
		}

		// Look near the natural break for a transition-opening sentence,
		// never past the word budget.
		if end < len(sentences) {
			for _, cand := range []int{end, end - 1, end + 1, end - 2, end + 2} {
				if cand > start && cand < len(sentences) && startsWithTransition(sentences[cand]) &&
					wordCount(start, cand) <= c.limits.MaxChunkWords {
					end = cand
					break
				}
			}
		}

		if end <= start {
			// Forced advance so splitting always makes progress.
			log.Printf("splitAtSentences: degenerate advance at sentence %d, forcing", start)
			end = start + 1
		}

		content := strings.Join(sentences[start:end], " ")
		title := s.title
		if part > 0 {
			title = s.title + " (cont.)"
		}
		out = append(out, section{title: title, content: content, hasHeader: s.hasHeader && part == 0})
		start = end
		part++

		if part > 1000 {
			// Hard stop against runaway splitting; return best effort.
			log.Printf("splitAtSentences: loop guard tripped, returning best-effort output")
			break
		}
	}
	return out
}
