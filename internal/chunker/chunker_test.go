// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/studyhive/internal/textseg"
)

// educationalParagraph builds a paragraph of roughly n words with enough
// defined terms to survive the low-value filter.
func educationalParagraph(topic string, n int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s is defined as the central idea of this section and appears throughout. ", topic))
	b.WriteString(fmt.Sprintf("The %s framework refers to a collection of related principles students must learn. ", topic))
	filler := fmt.Sprintf("Understanding %s requires careful study of its components and their interactions across many examples. ", topic)
	for b.Len() < n*6 {
		b.WriteString(filler)
	}
	return strings.TrimSpace(b.String())
}

func headeredDocument() string {
	return "# Photosynthesis Overview\n\n" + educationalParagraph("Photosynthesis", 200) +
		"\n\n# Cellular Respiration\n\n" + educationalParagraph("Respiration", 200) +
		"\n\n# Energy Transfer\n\n" + educationalParagraph("Energy", 200)
}

func TestDivideSemanticTooShort(t *testing.T) {
	c := New(DefaultLimits())
	_, err := c.DivideSemantic(strings.Repeat("a", 99))
	if err != ErrInputTooShort {
		t.Fatalf("expected ErrInputTooShort, got %v", err)
	}
}

func TestDivideSemanticMinimumLength(t *testing.T) {
	c := New(DefaultLimits())
	text := "Photosynthesis is defined as the process plants use to convert light energy into chemical energy stores."
	if len(text) < 100 {
		t.Fatalf("test input must be at least 100 characters, got %d", len(text))
	}
	chunks, err := c.DivideSemantic(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk for minimal input, got %d", len(chunks))
	}
}

func TestDivideSemanticHeaderSectioning(t *testing.T) {
	c := New(DefaultLimits())
	chunks, err := c.DivideSemantic(headeredDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for a headered document, got %d", len(chunks))
	}

	foundHeader := false
	for _, ch := range chunks {
		if ch.SemanticBoundaries.StartsWithHeader {
			foundHeader = true
		}
	}
	if !foundHeader {
		t.Error("expected at least one chunk starting with a header")
	}
}

func TestDivideSemanticWordBounds(t *testing.T) {
	c := New(DefaultLimits())
	chunks, err := c.DivideSemantic(headeredDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ch := range chunks {
		if ch.WordCount > c.limits.MaxChunkWords {
			t.Errorf("chunk %d has %d words, exceeds max %d", ch.Index, ch.WordCount, c.limits.MaxChunkWords)
		}
	}
}

func TestDivideSemanticIndexesDense(t *testing.T) {
	c := New(DefaultLimits())
	chunks, err := c.DivideSemantic(headeredDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk at position %d has index %d", i, ch.Index)
		}
	}
}

func TestDivideSemanticCoverage(t *testing.T) {
	c := New(DefaultLimits())
	doc := headeredDocument()
	chunks, err := c.DivideSemantic(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every surviving chunk's content must come from the source document.
	total := 0
	for _, ch := range chunks {
		total += ch.WordCount
		for _, para := range strings.Split(ch.Content, "\n\n") {
			para = strings.TrimSpace(para)
			line := strings.SplitN(para, "\n", 2)[0]
			if !strings.Contains(doc, line) {
				t.Errorf("chunk content not found in source: %q", line)
			}
		}
	}
	if total == 0 {
		t.Fatal("chunks carry no content")
	}
}

func TestDivideSemanticOversizedSectionSplit(t *testing.T) {
	c := New(DefaultLimits())
	// One giant headerless paragraph well past the max budget.
	text := educationalParagraph("Thermodynamics", 1200)
	chunks, err := c.DivideSemantic(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected an oversized section to split, got %d chunks", len(chunks))
	}
	for _, ch := range chunks {
		if ch.WordCount > c.limits.MaxChunkWords {
			t.Errorf("split chunk still oversized: %d words", ch.WordCount)
		}
	}
}

func TestGroupParagraphsPreservesSequence(t *testing.T) {
	c := New(DefaultLimits())
	var paras []string
	for i := 0; i < 10; i++ {
		paras = append(paras, educationalParagraph(fmt.Sprintf("Topic%c", 'A'+i), 120))
	}
	text := strings.Join(paras, "\n\n")

	sections := c.groupParagraphs(text)
	if len(sections) == 0 {
		t.Fatal("no sections produced")
	}

	var contents []string
	for _, s := range sections {
		contents = append(contents, s.content)
	}
	got := strings.Join(contents, "\n\n")
	want := strings.Join(textseg.SegmentParagraphs(text, 30), "\n\n")
	if got != want {
		t.Fatalf("grouped sections do not reconstruct the paragraph sequence:\ngot  %d chars\nwant %d chars", len(got), len(want))
	}
}

func TestSectionsByHeaderPreservesSequence(t *testing.T) {
	pa := educationalParagraph("Alpha", 80)
	pb := educationalParagraph("Beta", 80)
	pc := educationalParagraph("Gamma", 80)
	text := "# Alpha Section\n\n" + pa + "\n\n# Beta Section\n\n" + pb + "\n\n# Gamma Section\n\n" + pc

	ds := detectStructure(text)
	sections := sectionsByHeader(ds)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	var contents []string
	for _, s := range sections {
		contents = append(contents, s.content)
	}
	if strings.Join(contents, "\n\n") != text {
		t.Fatal("header sections do not reconstruct the document")
	}
	for i, want := range []string{"Alpha Section", "Beta Section", "Gamma Section"} {
		if sections[i].title != want {
			t.Errorf("section %d title = %q, want %q", i, sections[i].title, want)
		}
	}
}

func TestSectionsByHeaderKeepsUntitledLead(t *testing.T) {
	lead := educationalParagraph("Preface", 60)
	text := lead + "\n\n# First Section\n\n" + educationalParagraph("First", 60)

	ds := detectStructure(text)
	sections := sectionsByHeader(ds)
	if len(sections) != 2 {
		t.Fatalf("expected lead + headed section, got %d sections", len(sections))
	}
	if sections[0].hasHeader {
		t.Error("lead section must not claim a header")
	}
	if sections[0].content != lead {
		t.Error("lead content lost or altered")
	}
}

func TestRefineMergesUndersized(t *testing.T) {
	c := New(DefaultLimits())
	small := Chunk{Content: "alpha", WordCount: 50, EducationalValue: 6}
	next := Chunk{Content: "beta", WordCount: 200, EducationalValue: 7}
	out := c.refine([]Chunk{small, next})
	if len(out) != 1 {
		t.Fatalf("expected merge into 1 chunk, got %d", len(out))
	}
	if out[0].WordCount != 250 {
		t.Errorf("merged word count = %d, want 250", out[0].WordCount)
	}
	if out[0].EducationalValue != 7 {
		t.Errorf("merged educational value = %f, want max 7", out[0].EducationalValue)
	}
}

func TestRefineKeepsSoleChunk(t *testing.T) {
	c := New(DefaultLimits())
	// A sole chunk survives even below the value threshold.
	sole := Chunk{Content: "only", WordCount: 30, EducationalValue: 1}
	out := c.refine([]Chunk{sole})
	if len(out) != 1 {
		t.Fatalf("sole chunk must never be dropped, got %d chunks", len(out))
	}
}

func TestRefineDropsLowValueAmongMany(t *testing.T) {
	c := New(DefaultLimits())
	good := Chunk{Content: "good", WordCount: 300, EducationalValue: 8}
	junk := Chunk{Content: "junk", WordCount: 300, EducationalValue: 1}
	out := c.refine([]Chunk{good, junk})
	if len(out) != 1 {
		t.Fatalf("expected low-value chunk dropped, got %d chunks", len(out))
	}
	if out[0].Content != "good" {
		t.Errorf("wrong chunk survived: %q", out[0].Content)
	}
}

func TestRefineKeepsBestWhenAllLowValue(t *testing.T) {
	c := New(DefaultLimits())
	chunks := []Chunk{
		{Content: "first", WordCount: 300, EducationalValue: 0},
		{Content: "second", WordCount: 300, EducationalValue: 2},
		{Content: "third", WordCount: 300, EducationalValue: 1},
	}
	out := c.refine(chunks)
	if len(out) != 1 {
		t.Fatalf("expected the best chunk kept when all score low, got %d chunks", len(out))
	}
	if out[0].Content != "second" {
		t.Errorf("wrong chunk survived: %q", out[0].Content)
	}
	if !out[0].LowValue {
		t.Error("surviving low-score chunk should be flagged LowValue")
	}
	if out[0].Index != 0 {
		t.Errorf("surviving chunk index = %d, want 0", out[0].Index)
	}
}

func TestDivideSemanticAllLowValueStillYieldsChunk(t *testing.T) {
	c := New(DefaultLimits())
	// Dense unique-token prose: no definitions, no recurring concepts, so
	// every section scores near zero educational value.
	var words []string
	for i := 0; i < 1200; i++ {
		words = append(words, fmt.Sprintf("tok%d", i))
	}
	var paras []string
	for i := 0; i < 6; i++ {
		paras = append(paras, strings.Join(words[i*200:(i+1)*200], " "))
	}
	text := strings.Join(paras, "\n\n")

	chunks, err := c.DivideSemantic(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk even when every section scores low")
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk at position %d has index %d", i, ch.Index)
		}
	}
}

func TestRefineFlagsLowValue(t *testing.T) {
	c := New(DefaultLimits())
	borderline := Chunk{Content: "borderline", WordCount: 300, EducationalValue: 3.5}
	other := Chunk{Content: "other", WordCount: 300, EducationalValue: 8}
	out := c.refine([]Chunk{borderline, other})
	if len(out) != 2 {
		t.Fatalf("expected both chunks kept, got %d", len(out))
	}
	if !out[0].LowValue {
		t.Error("expected borderline chunk flagged LowValue")
	}
	if out[1].LowValue {
		t.Error("healthy chunk must not be flagged LowValue")
	}
}

func TestDivideTimeBasedTooShort(t *testing.T) {
	c := New(DefaultLimits())
	_, err := c.DivideTimeBased("too short", 180)
	if err != ErrInputTooShort {
		t.Fatalf("expected ErrInputTooShort, got %v", err)
	}
}

func TestDivideTimeBasedSingleChunk(t *testing.T) {
	c := New(DefaultLimits())
	// ~300 words reads in ~90s, within 1.2x of a 120s minimum-clamped target.
	text := educationalParagraph("Economics", 300)
	chunks, err := c.DivideTimeBased(text, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(chunks))
	}
	if chunks[0].TargetTimeSec != 120 {
		t.Errorf("target time = %f, want 120", chunks[0].TargetTimeSec)
	}
}

func TestDivideTimeBasedClampsTarget(t *testing.T) {
	c := New(DefaultLimits())
	text := educationalParagraph("History", 300)
	chunks, err := c.DivideTimeBased(text, 5) // below the 120s floor
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0].TargetTimeSec != 120 {
		t.Errorf("target not clamped to floor: %f", chunks[0].TargetTimeSec)
	}
}

func TestDivideTimeBasedMultipleChunks(t *testing.T) {
	c := New(DefaultLimits())
	var parts []string
	for i := 0; i < 8; i++ {
		parts = append(parts, educationalParagraph(fmt.Sprintf("Subject%c", 'A'+i), 250))
	}
	text := strings.Join(parts, "\n\n")

	chunks, err := c.DivideTimeBased(text, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for a long document, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk at position %d has index %d", i, ch.Index)
		}
		if ch.TargetTimeSec != 120 {
			t.Errorf("chunk %d target time = %f, want 120", i, ch.TargetTimeSec)
		}
	}
}

func TestMergeShortTimeChunksJoinsTitles(t *testing.T) {
	a := Chunk{Title: "Intro", Content: "a", ReadingTimeSec: 30, WordCount: 100}
	b := Chunk{Title: "Body", Content: "b", ReadingTimeSec: 60, WordCount: 200}
	out := mergeShortTimeChunks([]Chunk{a, b}, 120)
	if len(out) != 1 {
		t.Fatalf("expected merge, got %d chunks", len(out))
	}
	if out[0].Title != "Intro & Body" {
		t.Errorf("merged title = %q", out[0].Title)
	}
	if out[0].ReadingTimeSec != 90 {
		t.Errorf("merged reading time = %f, want 90", out[0].ReadingTimeSec)
	}
}

func TestMergeShortTimeChunksRespectsCeiling(t *testing.T) {
	a := Chunk{Title: "A", Content: "a", ReadingTimeSec: 50, WordCount: 160}
	b := Chunk{Title: "B", Content: "b", ReadingTimeSec: 130, WordCount: 430}
	out := mergeShortTimeChunks([]Chunk{a, b}, 120)
	if len(out) != 2 {
		t.Fatalf("merge exceeding 130%% of target must not happen, got %d chunks", len(out))
	}
}

func TestDetectStructureHeaders(t *testing.T) {
	text := "# Markdown Header\nbody text here\n\n1. Numbered Section Header\nmore body\n\nSECTION IN CAPS\nfinal body"
	ds := detectStructure(text)
	if len(ds.headers) != 3 {
		t.Fatalf("expected 3 headers, got %d: %+v", len(ds.headers), ds.headers)
	}
	if ds.headers[0].title != "Markdown Header" {
		t.Errorf("markdown header title = %q", ds.headers[0].title)
	}
}

func TestDetectStructureTitleCaseNeedsOwnLine(t *testing.T) {
	inline := "Some Words Here in the middle of a paragraph\nmore text on the next line directly"
	ds := detectStructure(inline)
	for _, h := range ds.headers {
		if strings.HasPrefix(h.title, "Some Words") {
			t.Errorf("title-case line inside a paragraph must not be a header: %+v", h)
		}
	}

	own := "Plant Biology Basics\n\nThis paragraph follows a blank line after the title line above."
	ds = detectStructure(own)
	if len(ds.headers) != 1 || ds.headers[0].title != "Plant Biology Basics" {
		t.Errorf("expected the isolated title-case line as a header, got %+v", ds.headers)
	}
}

func TestDeriveTitle(t *testing.T) {
	long := "Photosynthesis converts light energy into chemical energy inside chloroplasts"
	title := deriveTitle(long)
	if !strings.HasSuffix(title, "...") {
		t.Errorf("long content should produce a truncated title: %q", title)
	}
	if got := deriveTitle(""); got != "Untitled section" {
		t.Errorf("empty content title = %q", got)
	}
}

func TestStartsWithTransition(t *testing.T) {
	if !startsWithTransition("However, the outcome differed.") {
		t.Error("expected transition detection for However")
	}
	if startsWithTransition("Plants convert light into sugar.") {
		t.Error("unexpected transition detection")
	}
}
