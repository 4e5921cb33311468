// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/studyhive/internal/textseg"
)

const maxKeyConcepts = 20

var stopWords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "they": true,
	"have": true, "been": true, "will": true, "would": true, "could": true,
	"should": true, "which": true, "their": true, "about": true, "there": true,
	"these": true, "those": true, "then": true, "them": true, "were": true,
	"when": true, "where": true, "what": true, "your": true, "more": true,
	"some": true, "such": true, "than": true, "also": true, "into": true,
	"only": true, "other": true, "because": true, "between": true, "through": true,
	"during": true, "before": true, "after": true, "above": true, "below": true,
	"over": true, "under": true, "each": true, "most": true, "very": true,
	"same": true, "being": true, "does": true, "both": true, "many": true,
	"while": true, "however": true, "therefore": true,
}

var (
	capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	acronym           = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	hyphenated        = regexp.MustCompile(`\b[a-zA-Z]+(?:-[a-zA-Z]+)+\b`)
	technicalSuffix   = regexp.MustCompile(`\b[a-zA-Z]{3,}(?:tion|sion|ment|ness|ity|ism|ology|graphy)\b`)

	definitionPattern = regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z\s-]{2,40}?)\s+(?:is|are|means|refers to|(?:is\s+)?defined as)\s+([^.!?\n]{10,})`)
	colonDefinition   = regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s-]{2,40}):\s*(.{10,})$`)

	doubleQuoted  = regexp.MustCompile(`"([^"]{3,40})"`)
	boldSpan      = regexp.MustCompile(`\*\*([^*]{3,40})\*\*`)
	italicSpan    = regexp.MustCompile(`\*([^*]{3,40})\*`)
	allCapsPhrase = regexp.MustCompile(`\b[A-Z][A-Z\s]{1,28}[A-Z]\b`)

	lowercaseWord = regexp.MustCompile(`\b[a-z]{4,}\b`)

	innerCapsRun = regexp.MustCompile(`[A-Z]{2,}`)
)

// ExtractConcepts runs the regex extraction passes over text and returns the
// ranked concept list, at most 20 entries, sorted by importance descending.
// Extraction never fails; unusable input yields an empty slice.
func ExtractConcepts(text string) []ConceptInfo {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := textseg.ExtractSentences(text)
	concepts := make(map[string]*ConceptInfo)

	collectTechnicalTerms(text, concepts)
	collectDefinedTerms(text, concepts)
	collectEmphasizedTerms(text, concepts)
	collectFrequentTerms(text, concepts)

	attachContext(sentences, concepts)
	scoreConcepts(text, concepts)

	ranked := make([]ConceptInfo, 0, len(concepts))
	for _, c := range concepts {
		ranked = append(ranked, *c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})

	markMainConcepts(ranked)

	if len(ranked) > maxKeyConcepts {
		ranked = ranked[:maxKeyConcepts]
	}
	return ranked
}

// addConcept merges a discovered term into the concept map. The same
// normalized term found again increments frequency and unions definitions.
func addConcept(concepts map[string]*ConceptInfo, term, definition string) {
	term = strings.TrimSpace(term)
	key := strings.ToLower(term)
	if key == "" || len(key) < 3 || stopWords[key] {
		return
	}

	c, ok := concepts[key]
	if !ok {
		c = &ConceptInfo{Term: term, Frequency: 1}
		concepts[key] = c
	} else {
		c.Frequency++
	}

	if definition != "" {
		definition = strings.TrimSpace(definition)
		for _, d := range c.Definitions {
			if d == definition {
				return
			}
		}
		c.Definitions = append(c.Definitions, definition)
	}
}

// Pass 1: capitalized phrases, acronyms, hyphenated words, technical suffixes.
func collectTechnicalTerms(text string, concepts map[string]*ConceptInfo) {
	for _, m := range capitalizedPhrase.FindAllString(text, -1) {
		addConcept(concepts, m, "")
	}
	for _, m := range acronym.FindAllString(text, -1) {
		addConcept(concepts, m, "")
	}
	for _, m := range hyphenated.FindAllString(text, -1) {
		addConcept(concepts, m, "")
	}
	for _, m := range technicalSuffix.FindAllString(text, -1) {
		addConcept(concepts, m, "")
	}
}

// Pass 2: "X is/are/means/refers to/defined as Y" and "X: Y" patterns.
func collectDefinedTerms(text string, concepts map[string]*ConceptInfo) {
	for _, m := range definitionPattern.FindAllStringSubmatch(text, -1) {
		addConcept(concepts, m[1], m[2])
	}
	for _, m := range colonDefinition.FindAllStringSubmatch(text, -1) {
		addConcept(concepts, m[1], m[2])
	}
}

// Pass 3: quoted, markdown-emphasized, and ALL-CAPS spans.
func collectEmphasizedTerms(text string, concepts map[string]*ConceptInfo) {
	for _, m := range doubleQuoted.FindAllStringSubmatch(text, -1) {
		addConcept(concepts, m[1], "")
	}
	for _, m := range boldSpan.FindAllStringSubmatch(text, -1) {
		addConcept(concepts, m[1], "")
	}
	for _, m := range italicSpan.FindAllStringSubmatch(text, -1) {
		addConcept(concepts, m[1], "")
	}
	for _, m := range allCapsPhrase.FindAllString(text, -1) {
		if len(m) >= 3 && len(m) <= 30 {
			addConcept(concepts, m, "")
		}
	}
}

// Pass 4: lowercase words of 4+ chars appearing at least 3 times.
func collectFrequentTerms(text string, concepts map[string]*ConceptInfo) {
	counts := make(map[string]int)
	for _, w := range lowercaseWord.FindAllString(text, -1) {
		counts[w]++
	}
	for w, n := range counts {
		if n >= 3 && !stopWords[w] {
			key := strings.ToLower(w)
			if c, ok := concepts[key]; ok {
				// Frequency reflects actual occurrence count when we have it.
				if n > c.Frequency {
					c.Frequency = n
				}
			} else {
				concepts[key] = &ConceptInfo{Term: w, Frequency: n}
			}
		}
	}
}

// attachContext records up to 3 example sentences per concept.
func attachContext(sentences []string, concepts map[string]*ConceptInfo) {
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for key, c := range concepts {
			if len(c.Context) >= 3 {
				continue
			}
			if strings.Contains(lower, key) {
				c.Context = append(c.Context, s)
			}
		}
	}
}

// scoreConcepts computes importance on a 0-10 scale:
// frequency contributes up to 3 (frequency/2), a definition adds 2, a term
// length in [4,25] adds 1, appearing in the first 20% of the document adds 2,
// multiple context sentences add 1, and technical-looking casing adds 1.
func scoreConcepts(text string, concepts map[string]*ConceptInfo) {
	earlyBoundary := len(text) / 5
	lowerEarly := strings.ToLower(text[:earlyBoundary])

	for key, c := range concepts {
		score := math.Min(float64(c.Frequency)/2, 3)

		if len(c.Definitions) > 0 {
			score += 2
		}
		if n := len(c.Term); n >= 4 && n <= 25 {
			score++
		}
		if strings.Contains(lowerEarly, key) {
			score += 2
		}
		if len(c.Context) > 1 {
			score++
		}
		if looksTechnical(c.Term) {
			score++
		}

		c.Importance = clamp(score, 0, 10)
	}
}

// looksTechnical reports whether a term is capitalized or contains a run of
// two or more uppercase letters.
func looksTechnical(term string) bool {
	if term == "" {
		return false
	}
	if term[0] >= 'A' && term[0] <= 'Z' {
		return true
	}
	return innerCapsRun.MatchString(term)
}

// markMainConcepts flags the top max(3, ceil(30%)) concepts by rank, plus any
// concept whose importance exceeds 7 regardless of rank. The slice must
// already be sorted by importance descending.
func markMainConcepts(ranked []ConceptInfo) {
	topN := int(math.Ceil(float64(len(ranked)) * 0.3))
	if topN < 3 {
		topN = 3
	}
	for i := range ranked {
		if i < topN || ranked[i].Importance > 7 {
			ranked[i].IsMainConcept = true
		}
	}
}
