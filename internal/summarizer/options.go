// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package summarizer

import (
	"fmt"
	"strings"
)

// Options shapes the summary the generator is asked to produce.
type Options struct {
	StudyPurpose     string `json:"studyPurpose"`     // e.g. "exam preparation"
	SubjectType      string `json:"subjectType"`      // e.g. "biology"
	StudyFormat      string `json:"studyFormat"`      // e.g. "outline", "prose"
	KnowledgeLevel   string `json:"knowledgeLevel"`   // e.g. "beginner"
	DetailLevel      string `json:"detailLevel"`      // "brief" | "standard" | "detailed"
	TargetPercentage int    `json:"targetPercentage"` // summary size as % of source, overrides DetailLevel
	IncludeExamples  bool   `json:"includeExamples"`
	IncludeCitations bool   `json:"includeCitations"`
}

// TargetBand derives the acceptable summary word range from the options and
// the source word count. TargetPercentage wins over DetailLevel; the band is
// +/- 20% around the ideal with a floor of 50 words.
func (o Options) TargetBand(sourceWords int) LengthBand {
	pct := o.TargetPercentage
	if pct <= 0 {
		switch o.DetailLevel {
		case "brief":
			pct = 10
		case "detailed":
			pct = 40
		default:
			pct = 25
		}
	}

	ideal := sourceWords * pct / 100
	if ideal < 50 {
		ideal = 50
	}
	band := LengthBand{
		Min:   ideal * 80 / 100,
		Max:   ideal * 120 / 100,
		Ideal: ideal,
	}
	if band.Min < 30 {
		band.Min = 30
	}
	return band
}

// chunkPrompt builds the generation prompt for one chunk.
func chunkPrompt(opts Options, chunkTitle, content string, concepts []string) string {
	var b strings.Builder

	b.WriteString("Summarize the following study material")
	if opts.StudyPurpose != "" {
		fmt.Fprintf(&b, " for %s", opts.StudyPurpose)
	}
	if opts.SubjectType != "" {
		fmt.Fprintf(&b, " (subject: %s)", opts.SubjectType)
	}
	b.WriteString(".\n")

	if opts.KnowledgeLevel != "" {
		fmt.Fprintf(&b, "Write for a %s-level reader.\n", opts.KnowledgeLevel)
	}
	if opts.StudyFormat != "" {
		fmt.Fprintf(&b, "Use %s format.\n", opts.StudyFormat)
	}
	if len(concepts) > 0 {
		limit := len(concepts)
		if limit > 8 {
			limit = 8
		}
		fmt.Fprintf(&b, "Be sure to cover these key concepts: %s.\n", strings.Join(concepts[:limit], ", "))
	}
	if opts.IncludeExamples {
		b.WriteString("Keep concrete examples from the source where they aid understanding.\n")
	}
	if opts.IncludeCitations {
		b.WriteString("Preserve any citations or references present in the source.\n")
	}
	b.WriteString("Only use information present in the material below; do not add outside knowledge.\n\n")

	if chunkTitle != "" {
		fmt.Fprintf(&b, "Section: %s\n\n", chunkTitle)
	}
	b.WriteString(content)
	return b.String()
}

// mergePrompt builds the final instruction that merges per-chunk summaries
// into one coherent document.
func mergePrompt(opts Options, parts []string) string {
	var b strings.Builder
	b.WriteString("Merge the following section summaries into one coherent summary. ")
	b.WriteString("Remove duplicated points, keep the original section order, and do not introduce information absent from the sections.\n")
	if opts.StudyFormat != "" {
		fmt.Fprintf(&b, "Use %s format.\n", opts.StudyFormat)
	}
	for i, p := range parts {
		fmt.Fprintf(&b, "\n--- Section %d ---\n%s\n", i+1, p)
	}
	return b.String()
}
