// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"log"
	"math"
	"strings"

	"github.com/studyhive/internal/analysis"
	"github.com/studyhive/internal/textseg"
)

// buildChunk computes locally-scoped analysis metadata for one content span.
func buildChunk(s section, index int) Chunk {
	content := strings.TrimSpace(s.content)
	a := analysis.Analyze(content)

	topics := make([]string, 0, len(a.MainTopics))
	for _, t := range a.MainTopics {
		topics = append(topics, t.Topic)
	}

	concepts := make([]string, 0, len(a.KeyConcepts))
	for _, c := range a.KeyConcepts {
		concepts = append(concepts, c.Term)
	}

	hasHeader := s.hasHeader || headerLike(content)

	return Chunk{
		Content:            content,
		Index:              index,
		Title:              s.title,
		Topics:             topics,
		KeyConcepts:        concepts,
		LearningObjectives: a.LearningObjectives,
		EducationalValue:   a.EducationalValue,
		DifficultyLevel:    a.DifficultyLevel,
		WordCount:          textseg.CountWords(content),
		ReadingTimeSec:     textseg.EstimateReadingSeconds(content),
		SemanticBoundaries: Boundaries{
			StartsWithHeader:       hasHeader,
			EndsWithConclusion:     endsWithConclusion(content),
			ConceptualCompleteness: completeness(hasHeader, endsWithConclusion(content), len(a.KeyConcepts)),
		},
	}
}

// headerLike reports whether the first line of content looks like a header.
func headerLike(content string) bool {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	line = strings.TrimSpace(line)
	return markdownHeaderLine.MatchString(line) ||
		(numberedHeaderLine.MatchString(line) && len(line) <= 80) ||
		isAllCapsHeader(line)
}

// completeness scores how self-contained a chunk looks, 0-10.
func completeness(hasHeader, hasConclusion bool, conceptCount int) float64 {
	score := 5.0
	if hasHeader {
		score += 2
	}
	if hasConclusion {
		score += 2
	}
	score += math.Min(float64(conceptCount)*0.2, 1)
	if score > 10 {
		score = 10
	}
	return score
}

// refine walks the chunk list merging undersized chunks with their
// successor when the merge stays within the budget, drops chunks whose
// educational value falls below 3, flags values in [3,4) as low-value, and
// re-indexes densely from 0.
func (c *Chunker) refine(chunks []Chunk) []Chunk {
	var merged []Chunk
	for i := 0; i < len(chunks); i++ {
		cur := chunks[i]
		if cur.WordCount < c.limits.MinChunkWords && i+1 < len(chunks) {
			next := chunks[i+1]
			if cur.WordCount+next.WordCount <= c.limits.MaxChunkWords {
				cur = mergeChunks(cur, next)
				i++ // consume the neighbor
			}
		}
		merged = append(merged, cur)
	}

	var kept []Chunk
	for _, ch := range merged {
		if len(merged) > 1 && ch.EducationalValue < 3 {
			log.Printf("refine: dropping chunk %q educationalValue=%.1f", ch.Title, ch.EducationalValue)
			continue
		}
		if ch.EducationalValue >= 3 && ch.EducationalValue < 4 {
			ch.LowValue = true
		}
		kept = append(kept, ch)
	}

	// The drop pass must not eliminate the whole document. Keep the
	// best-scoring chunk so callers always get a degraded result over none.
	if len(kept) == 0 && len(merged) > 0 {
		best := merged[0]
		for _, ch := range merged[1:] {
			if ch.EducationalValue > best.EducationalValue {
				best = ch
			}
		}
		best.LowValue = true
		log.Printf("refine: all chunks below value threshold, keeping %q educationalValue=%.1f", best.Title, best.EducationalValue)
		kept = append(kept, best)
	}

	for i := range kept {
		kept[i].Index = i
	}
	return kept
}

// mergeChunks concatenates two adjacent chunks: content joined with a blank
// line, topic/concept/objective lists unioned, max of educational value and
// boundary completeness, word counts summed.
func mergeChunks(a, b Chunk) Chunk {
	merged := a
	merged.Content = a.Content + "\n\n" + b.Content
	merged.Topics = unionStrings(a.Topics, b.Topics)
	merged.KeyConcepts = unionStrings(a.KeyConcepts, b.KeyConcepts)
	merged.LearningObjectives = unionStrings(a.LearningObjectives, b.LearningObjectives)
	merged.EducationalValue = math.Max(a.EducationalValue, b.EducationalValue)
	merged.WordCount = a.WordCount + b.WordCount
	merged.ReadingTimeSec = a.ReadingTimeSec + b.ReadingTimeSec
	merged.SemanticBoundaries.EndsWithConclusion = b.SemanticBoundaries.EndsWithConclusion
	merged.SemanticBoundaries.ConceptualCompleteness = math.Max(
		a.SemanticBoundaries.ConceptualCompleteness, b.SemanticBoundaries.ConceptualCompleteness)
	if b.DifficultyLevel == analysis.DifficultyAdvanced || a.DifficultyLevel == analysis.DifficultyAdvanced {
		merged.DifficultyLevel = analysis.DifficultyAdvanced
	}
	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
