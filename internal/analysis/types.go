// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package analysis

// DifficultyLevel classifies how demanding a piece of content is to study.
type DifficultyLevel string

const (
	DifficultyBasic        DifficultyLevel = "basic"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ConceptInfo is a candidate key term surfaced by the extraction passes.
// Concepts are keyed by their normalized (lowercase, trimmed) term; repeat
// discoveries increment Frequency and union Definitions.
type ConceptInfo struct {
	Term          string   `json:"term"`
	Frequency     int      `json:"frequency"`
	Importance    float64  `json:"importance"`
	Context       []string `json:"context"`     // up to 3 example sentences
	Definitions   []string `json:"definitions"` // extracted definition phrases
	IsMainConcept bool     `json:"isMainConcept"`
}

// TopicInfo is a cluster of paragraphs sharing a dominant concept.
type TopicInfo struct {
	Topic          string   `json:"topic"`
	Relevance      float64  `json:"relevance"`
	Keywords       []string `json:"keywords"` // up to 5
	CoherenceScore float64  `json:"coherenceScore"`
}

// ConceptRelationship links two concepts, either through a definition that
// mentions the other term or through sentence-level co-occurrence.
type ConceptRelationship struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Type     string  `json:"type"` // "defines" or "co-occurs"
	Strength float64 `json:"strength"`
}

// ContentAnalysis is the aggregate result for a unit of text, either a whole
// document or a single chunk.
type ContentAnalysis struct {
	KeyConcepts             []ConceptInfo         `json:"keyConcepts"` // ranked, <= 20
	MainTopics              []TopicInfo           `json:"mainTopics"`  // ranked, <= 8
	LearningObjectives      []string              `json:"learningObjectives"`
	ImportantTerms          []string              `json:"importantTerms"`
	ConceptualRelationships []ConceptRelationship `json:"conceptualRelationships"`
	DifficultyLevel         DifficultyLevel       `json:"difficultyLevel"`
	ContentQuality          float64               `json:"contentQuality"`
	EducationalValue        float64               `json:"educationalValue"`
	ReadabilityScore        float64               `json:"readabilityScore"`
	TopicCoherence          float64               `json:"topicCoherence"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
