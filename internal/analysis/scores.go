// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/studyhive/internal/textseg"
)

var (
	numberedList   = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	markdownHeader = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

var abstractVocabulary = []string{
	"theory", "concept", "principle", "framework", "paradigm", "hypothesis",
	"methodology", "phenomenon", "abstraction", "epistemology", "ontology",
	"axiom", "postulate",
}

// ContentQuality scores overall content quality 0-10 from word count, main
// concepts, topic coherence, definitions and structural markers.
func ContentQuality(text string, concepts []ConceptInfo, topics []TopicInfo) float64 {
	score := 0.0

	words := textseg.CountWords(text)
	switch {
	case words >= 100 && words <= 5000:
		score += 2
	case words > 50:
		score++
	}

	mainCount := 0
	definedCount := 0
	for _, c := range concepts {
		if c.IsMainConcept {
			mainCount++
		}
		if len(c.Definitions) > 0 {
			definedCount++
		}
	}
	score += math.Min(float64(mainCount)*0.5, 3)
	score += math.Min(float64(definedCount)*0.5, 2)

	if len(topics) > 0 {
		var sum float64
		for _, t := range topics {
			sum += t.CoherenceScore
		}
		avg := sum / float64(len(topics))
		score += math.Min(avg/5, 2)
	}

	if strings.Contains(text, "\n\n") || numberedList.MatchString(text) || markdownHeader.MatchString(text) {
		score++
	}

	return clamp(score, 0, 10)
}

// EducationalValue scores 0-10 from high-importance concepts, objectives,
// strong relationships, definitions and context breadth.
func EducationalValue(concepts []ConceptInfo, objectives []string, rels []ConceptRelationship) float64 {
	score := 0.0

	highImportance := 0
	definedCount := 0
	multiContext := 0
	for _, c := range concepts {
		if c.Importance > 7 {
			highImportance++
		}
		if len(c.Definitions) > 0 {
			definedCount++
		}
		if len(c.Context) > 1 {
			multiContext++
		}
	}
	score += math.Min(float64(highImportance), 3)
	score += math.Min(float64(len(objectives))*0.5, 2)

	strong := 0
	for _, r := range rels {
		if r.Strength > 0.7 {
			strong++
		}
	}
	score += math.Min(float64(strong)*0.5, 2)
	score += math.Min(float64(definedCount)*0.5, 2)
	if multiContext > 0 {
		score++
	}

	return clamp(score, 0, 10)
}

// Readability computes a simplified Flesch Reading Ease score, rescaled to
// 1-10. Higher means easier to read.
func Readability(text string) float64 {
	sentences := textseg.SegmentSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 5 // neutral default for degenerate input
	}

	totalSyllables := 0
	for _, w := range words {
		totalSyllables += textseg.CountSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(totalSyllables) / float64(len(words))

	flesch := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return clamp(flesch/10, 1, 10)
}

// AssessDifficulty classifies content difficulty from readability, technical
// term density, abstract vocabulary and very-high-importance concepts.
// Total score <= 1 is basic, <= 3 intermediate, above that advanced.
func AssessDifficulty(text string, concepts []ConceptInfo, readability float64) DifficultyLevel {
	score := 0

	switch {
	case readability < 4:
		score += 2
	case readability < 6:
		score++
	}

	technical := 0
	veryHigh := 0
	for _, c := range concepts {
		if looksTechnical(c.Term) {
			technical++
		}
		if c.Importance > 8 {
			veryHigh++
		}
	}
	switch {
	case technical > 8:
		score += 2
	case technical > 4:
		score++
	}

	lower := strings.ToLower(text)
	for _, word := range abstractVocabulary {
		if strings.Contains(lower, word) {
			score++
			break
		}
	}

	if veryHigh > 0 {
		score++
	}

	switch {
	case score <= 1:
		return DifficultyBasic
	case score <= 3:
		return DifficultyIntermediate
	default:
		return DifficultyAdvanced
	}
}

// TopicCoherence is the mean of the per-topic coherence scores, 0-10.
func TopicCoherence(topics []TopicInfo) float64 {
	if len(topics) == 0 {
		return 0
	}
	var sum float64
	for _, t := range topics {
		sum += t.CoherenceScore
	}
	return clamp(sum/float64(len(topics)), 0, 10)
}
