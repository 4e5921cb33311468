// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"errors"
	"strings"

	"github.com/studyhive/internal/analysis"
	"github.com/studyhive/internal/textseg"
)

// ErrInputTooShort is returned when the trimmed input is under 100 characters.
var ErrInputTooShort = errors.New("input text too short: need at least 100 characters")

// Limits parameterizes the chunking engine. The word-budget and time-budget
// strategies share one engine and differ only in their stopping criterion.
type Limits struct {
	MinChunkWords    int // sections below this are never broken early
	TargetChunkWords int
	MaxChunkWords    int // hard cap, enforced by sentence-level splitting
}

// DefaultLimits matches the production thresholds.
func DefaultLimits() Limits {
	return Limits{
		MinChunkWords:    150,
		TargetChunkWords: 300,
		MaxChunkWords:    500,
	}
}

// Boundaries describes how cleanly a chunk starts and ends.
type Boundaries struct {
	StartsWithHeader       bool    `json:"startsWithHeader"`
	EndsWithConclusion     bool    `json:"endsWithConclusion"`
	ConceptualCompleteness float64 `json:"conceptualCompleteness"` // 0-10
}

// Chunk is a bounded, ordered slice of a source document carrying its own
// locally-scoped analysis metadata.
type Chunk struct {
	Content            string                   `json:"content"`
	Index              int                      `json:"index"`
	Title              string                   `json:"title"`
	Topics             []string                 `json:"topics"`
	KeyConcepts        []string                 `json:"keyConcepts"`
	LearningObjectives []string                 `json:"learningObjectives"`
	EducationalValue   float64                  `json:"educationalValue"`
	DifficultyLevel    analysis.DifficultyLevel `json:"difficultyLevel"`
	WordCount          int                      `json:"wordCount"`
	ReadingTimeSec     float64                  `json:"readingTimeSec"`
	TargetTimeSec      float64                  `json:"targetTimeSec,omitempty"` // time-budget strategy only
	LowValue           bool                     `json:"lowValue,omitempty"`      // educational value in [3,4)
	SemanticBoundaries Boundaries               `json:"semanticBoundaries"`
}

// Chunker is the shared chunking engine.
type Chunker struct {
	limits Limits
}

// New creates a chunker with the given limits; zero-value fields fall back
// to the defaults.
func New(limits Limits) *Chunker {
	def := DefaultLimits()
	if limits.MinChunkWords <= 0 {
		limits.MinChunkWords = def.MinChunkWords
	}
	if limits.TargetChunkWords <= 0 {
		limits.TargetChunkWords = def.TargetChunkWords
	}
	if limits.MaxChunkWords <= 0 {
		limits.MaxChunkWords = def.MaxChunkWords
	}
	return &Chunker{limits: limits}
}

// discourse transitions that signal a natural topic boundary.
var transitionWords = []string{
	"however", "therefore", "in conclusion", "furthermore", "moreover",
	"additionally", "on the other hand", "in contrast", "for example",
	"in summary", "to illustrate", "consequently", "as a result",
	"nevertheless", "meanwhile", "subsequently", "finally", "lastly",
}

var conclusionMarkers = []string{
	"in conclusion", "in summary", "to summarize", "overall", "finally",
	"to conclude", "in short",
}

func startsWithTransition(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, w := range transitionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}

func endsWithConclusion(content string) bool {
	sentences := textseg.ExtractSentences(content)
	if len(sentences) == 0 {
		return false
	}
	last := strings.ToLower(sentences[len(sentences)-1])
	for _, m := range conclusionMarkers {
		if strings.Contains(last, m) {
			return true
		}
	}
	return false
}
