// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIGenerator calls the OpenAI Chat API. Outbound calls are paced by a
// client-side rate limiter so bursts of chunk summaries don't trip provider
// limits.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenAIGenerator creates a generator from explicit settings. An empty
// model falls back to gpt-4o-mini.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		url:    defaultChatURL,
		client: &http.Client{Timeout: 60 * time.Second},
		// 2 requests/second sustained, small burst headroom.
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}, nil
}

// NewOpenAIGeneratorFromEnv reads OPENAI_API_KEY and OPENAI_MODEL.
func NewOpenAIGeneratorFromEnv() (*OpenAIGenerator, error) {
	return NewOpenAIGenerator(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
}

// Generate sends the prompt and returns the model's text output. Returns a
// *GenerationError on provider failure, safety block, or empty output.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a study assistant that produces faithful summaries of source material. Never invent information that is not present in the provided text.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"max_tokens":  maxTokens,
		"temperature": 0.3,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{
			StatusCode: resp.StatusCode,
			Reason:     "provider returned non-success status",
			Body:       string(body),
		}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", &GenerationError{Reason: "no choices in response"}
	}
	choice := result.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", &GenerationError{Reason: "output blocked by safety filter"}
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", &GenerationError{Reason: "empty output"}
	}
	return text, nil
}

// SetEndpoint overrides the API URL, used by tests against a local stub.
func (g *OpenAIGenerator) SetEndpoint(url string) {
	g.url = url
}
