// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package analysis

import (
	"github.com/studyhive/internal/textseg"
)

// Analyze runs the full extraction and scoring pipeline over one unit of
// text (a whole document or a single chunk) and returns its aggregate
// analysis. It never fails: unusable input degrades to empty results with
// neutral scores.
func Analyze(text string) ContentAnalysis {
	paragraphs := textseg.SegmentParagraphs(text, 30)
	concepts := ExtractConcepts(text)
	topics := ExtractTopics(paragraphs, concepts)
	rels := ExtractRelationships(text, concepts)
	objectives := DeriveLearningObjectives(concepts, topics)

	readability := Readability(text)

	terms := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if c.IsMainConcept {
			terms = append(terms, c.Term)
		}
	}

	return ContentAnalysis{
		KeyConcepts:             concepts,
		MainTopics:              topics,
		LearningObjectives:      objectives,
		ImportantTerms:          terms,
		ConceptualRelationships: rels,
		DifficultyLevel:         AssessDifficulty(text, concepts, readability),
		ContentQuality:          ContentQuality(text, concepts, topics),
		EducationalValue:        EducationalValue(concepts, objectives, rels),
		ReadabilityScore:        readability,
		TopicCoherence:          TopicCoherence(topics),
	}
}
