// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package summarizer

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/studyhive/internal/ai"
)

// maxAdjustAttempts bounds the length-adjustment retry loop.
const maxAdjustAttempts = 4

// LengthBand is the acceptable word-count range for a finished summary.
type LengthBand struct {
	Min   int
	Max   int
	Ideal int
}

// Contains reports whether n falls inside the band.
func (b LengthBand) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// AdjustLength iteratively asks the generator to resize draft until its word
// count falls inside band, up to maxAdjustAttempts attempts. A draft already
// in band is returned untouched. After the attempt budget is spent the last
// draft is returned as a best-effort result; that soft convergence failure
// is logged, not an error. A failed generator call propagates as a hard
// error.
func AdjustLength(ctx context.Context, gen ai.Generator, draft string, band LengthBand, maxTokens int) (string, error) {
	draft = StripWordCountLine(draft)

	for attempt := 0; attempt < maxAdjustAttempts; attempt++ {
		words := CountDraftWords(draft)
		if band.Contains(words) {
			log.Printf("AdjustLength: converged attempt=%d words=%d band=[%d,%d]", attempt, words, band.Min, band.Max)
			return draft, nil
		}

		instruction := rewriteInstruction(draft, words, band)
		log.Printf("AdjustLength: attempt=%d words=%d band=[%d,%d]", attempt+1, words, band.Min, band.Max)

		out, err := gen.Generate(ctx, instruction, maxTokens)
		if err != nil {
			return "", fmt.Errorf("length adjustment attempt %d: %w", attempt+1, err)
		}
		draft = StripWordCountLine(out)
	}

	words := CountDraftWords(draft)
	if !band.Contains(words) {
		log.Printf("AdjustLength: did not converge after %d attempts, returning best effort words=%d band=[%d,%d]",
			maxAdjustAttempts, words, band.Min, band.Max)
	}
	return draft, nil
}

// rewriteInstruction builds the expand/contract instruction for one retry.
// The instruction restricts the generator to information already present in
// the draft; that restriction is advisory text, not locally verified.
func rewriteInstruction(draft string, words int, band LengthBand) string {
	var direction, change string
	var gap int
	if words < band.Min {
		direction = "EXPAND"
		gap = band.Ideal - words
		change = "longer"
	} else {
		direction = "REDUCE"
		gap = words - band.Ideal
		change = "shorter"
	}
	// A draft can strip to zero words (e.g. only a word-count line came back).
	pct := 100
	if words > 0 {
		pct = int(math.Round(float64(gap) / float64(words) * 100))
	}

	return fmt.Sprintf(
		"%s the following summary. It is currently %d words; it must be between %d and %d words (ideally about %d). "+
			"Make it roughly %d words (%d%%) %s. "+
			"Only use information already present in the summary below; do not invent new facts, examples, or citations. "+
			"Return only the rewritten summary with no commentary.\n\n%s",
		direction, words, band.Min, band.Max, band.Ideal, gap, pct, change, draft)
}
