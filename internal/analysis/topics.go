// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studyhive/internal/textseg"
)

const maxTopics = 8

// ExtractTopics clusters paragraphs by their dominant concept and returns the
// ranked topic list, at most 8 entries by relevance. Paragraphs whose
// dominant concept cannot be determined are silently excluded.
func ExtractTopics(paragraphs []string, concepts []ConceptInfo) []TopicInfo {
	if len(paragraphs) == 0 || len(concepts) == 0 {
		return nil
	}

	// Group paragraphs under the single highest-importance concept each one
	// contains (case-insensitive substring match).
	groups := make(map[string][]string)
	for _, p := range paragraphs {
		lower := strings.ToLower(p)
		var dominant *ConceptInfo
		for i := range concepts {
			if !strings.Contains(lower, strings.ToLower(concepts[i].Term)) {
				continue
			}
			if dominant == nil || concepts[i].Importance > dominant.Importance {
				dominant = &concepts[i]
			}
		}
		if dominant == nil {
			continue
		}
		groups[dominant.Term] = append(groups[dominant.Term], p)
	}

	var topics []TopicInfo
	for term, members := range groups {
		topics = append(topics, buildTopic(term, members, concepts))
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Relevance > topics[j].Relevance
	})
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	return topics
}

// buildTopic derives relevance, keywords and coherence for one paragraph
// group. Relevance is the mean importance of concepts appearing in the
// group; coherence is the mean of (appearance fraction x importance) over
// those concepts, capped at 10.
func buildTopic(term string, members []string, concepts []ConceptInfo) TopicInfo {
	lowerMembers := make([]string, len(members))
	for i, m := range members {
		lowerMembers[i] = strings.ToLower(m)
	}

	var present []ConceptInfo
	var importanceSum float64
	var coherenceSum float64

	for _, c := range concepts {
		needle := strings.ToLower(c.Term)
		appearances := 0
		for _, m := range lowerMembers {
			if strings.Contains(m, needle) {
				appearances++
			}
		}
		if appearances == 0 {
			continue
		}
		present = append(present, c)
		importanceSum += c.Importance
		fraction := float64(appearances) / float64(len(members))
		coherenceSum += fraction * c.Importance
	}

	topic := TopicInfo{Topic: term}
	if len(present) > 0 {
		topic.Relevance = importanceSum / float64(len(present))
		topic.CoherenceScore = clamp(coherenceSum/float64(len(present)), 0, 10)

		sort.SliceStable(present, func(i, j int) bool {
			return present[i].Importance > present[j].Importance
		})
		for i := 0; i < len(present) && i < 5; i++ {
			topic.Keywords = append(topic.Keywords, present[i].Term)
		}
	}
	return topic
}

// ExtractRelationships links concepts through definitions that mention other
// terms (strength 0.9) and through sentence-level co-occurrence (strength
// scaled by shared sentence count, capped at 1).
func ExtractRelationships(text string, concepts []ConceptInfo) []ConceptRelationship {
	if len(concepts) < 2 {
		return nil
	}

	var rels []ConceptRelationship
	seen := make(map[string]bool)

	add := func(from, to, relType string, strength float64) {
		key := from + "|" + to + "|" + relType
		if seen[key] || from == to {
			return
		}
		seen[key] = true
		rels = append(rels, ConceptRelationship{From: from, To: to, Type: relType, Strength: strength})
	}

	for i := range concepts {
		for _, def := range concepts[i].Definitions {
			lowerDef := strings.ToLower(def)
			for j := range concepts {
				if i == j {
					continue
				}
				if strings.Contains(lowerDef, strings.ToLower(concepts[j].Term)) {
					add(concepts[i].Term, concepts[j].Term, "defines", 0.9)
				}
			}
		}
	}

	sentences := textseg.ExtractSentences(text)
	cooccur := make(map[[2]int]int)
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for i := range concepts {
			if !strings.Contains(lower, strings.ToLower(concepts[i].Term)) {
				continue
			}
			for j := i + 1; j < len(concepts); j++ {
				if strings.Contains(lower, strings.ToLower(concepts[j].Term)) {
					cooccur[[2]int{i, j}]++
				}
			}
		}
	}
	for pair, n := range cooccur {
		strength := clamp(float64(n)*0.3, 0, 1)
		add(concepts[pair[0]].Term, concepts[pair[1]].Term, "co-occurs", strength)
	}

	return rels
}

// DeriveLearningObjectives phrases study objectives from the main concepts
// and topics. Defined concepts become "Define ..." objectives; the rest
// become "Explain ..."; each topic adds a summarize objective. Capped at 8.
func DeriveLearningObjectives(concepts []ConceptInfo, topics []TopicInfo) []string {
	var objectives []string
	for _, c := range concepts {
		if !c.IsMainConcept {
			continue
		}
		if len(c.Definitions) > 0 {
			objectives = append(objectives, fmt.Sprintf("Define %s and explain its significance", c.Term))
		} else {
			objectives = append(objectives, fmt.Sprintf("Explain the role of %s", c.Term))
		}
		if len(objectives) >= 6 {
			break
		}
	}
	for _, t := range topics {
		objectives = append(objectives, fmt.Sprintf("Summarize the key points about %s", t.Topic))
		if len(objectives) >= 8 {
			break
		}
	}
	return objectives
}
