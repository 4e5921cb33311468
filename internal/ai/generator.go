// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"fmt"
)

// Generator is the black-box text generation boundary. Implementations call
// an external model and return its text output. Callers never retry a
// failed call themselves; only the length-adjustment loop re-invokes the
// generator, with fresh instructions, inside its own bounded attempt count.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GenerationError reports a provider-side failure: a non-success status, a
// safety block, or empty output.
type GenerationError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation failed: status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

// IsGenerationError reports whether err is a GenerationError.
func IsGenerationError(err error) bool {
	_, ok := err.(*GenerationError)
	return ok
}
