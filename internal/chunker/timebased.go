// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"log"
	"math"
	"strings"

	"github.com/studyhive/internal/textseg"
)

const (
	// DefaultTargetSeconds is the default per-chunk reading-time budget.
	DefaultTargetSeconds = 180
	minTargetSeconds     = 120
	maxTargetSeconds     = 900
)

// DivideTimeBased splits a document into chunks sized by an estimated
// reading-time budget instead of a word budget. The target is clamped to
// [120, 900] seconds. Returns ErrInputTooShort when the trimmed input is
// under 100 characters.
func (c *Chunker) DivideTimeBased(text string, targetSeconds float64) ([]Chunk, error) {
	if len(strings.TrimSpace(text)) < 100 {
		return nil, ErrInputTooShort
	}
	if targetSeconds <= 0 {
		targetSeconds = DefaultTargetSeconds
	}
	targetSeconds = math.Min(math.Max(targetSeconds, minTargetSeconds), maxTargetSeconds)

	text = textseg.Normalize(text)
	totalWords := textseg.CountWords(text)
	totalTime := textseg.EstimateReadingSeconds(text)

	// Short documents become a single chunk.
	if totalTime <= targetSeconds*1.2 {
		ch := buildChunk(section{title: deriveTitle(text), content: text}, 0)
		ch.TargetTimeSec = targetSeconds
		return []Chunk{ch}, nil
	}

	estimatedChunks := int(math.Ceil(totalTime / targetSeconds))
	targetWords := float64(totalWords) / float64(estimatedChunks)
	log.Printf("DivideTimeBased: totalWords=%d totalTime=%.0fs estimatedChunks=%d targetWords=%.0f",
		totalWords, totalTime, estimatedChunks, targetWords)

	paragraphs := textseg.SegmentParagraphs(text, 30)
	if len(paragraphs) == 0 {
		paragraphs = []string{text}
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
		// Break only once the chunk holds at least 70% of its target;
		// otherwise keep accumulating even past the overflow line.
		if len(current) > 0 &&
			float64(currentWords) >= targetWords*0.7 &&
			float64(currentWords+pWords) > targetWords*1.3 {
			flush()
		}
		current = append(current, p)
		currentWords += pWords
	}
	flush()

	chunks := make([]Chunk, 0, len(sections))
	for i, s := range sections {
		ch := buildChunk(s, i)
		ch.TargetTimeSec = targetSeconds
		chunks = append(chunks, ch)
	}

	chunks = mergeShortTimeChunks(chunks, targetSeconds)

	for i := range chunks {
		chunks[i].Index = i
	}
	log.Printf("DivideTimeBased: produced %d chunks", len(chunks))
	return chunks, nil
}

// mergeShortTimeChunks merges any chunk under 50% of the time target with
// its immediate successor, provided the combined reading time stays within
// 130% of the target. Merged titles are joined with "&".
func mergeShortTimeChunks(chunks []Chunk, targetSeconds float64) []Chunk {
	var out []Chunk
	for i := 0; i < len(chunks); i++ {
		cur := chunks[i]
		if cur.ReadingTimeSec < targetSeconds*0.5 && i+1 < len(chunks) {
			next := chunks[i+1]
			if cur.ReadingTimeSec+next.ReadingTimeSec <= targetSeconds*1.3 {
				merged := mergeChunks(cur, next)
				merged.Title = cur.Title + " & " + next.Title
				merged.TargetTimeSec = targetSeconds
				out = append(out, merged)
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}
