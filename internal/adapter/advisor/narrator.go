// Package advisor holds the Gemini-backed narrative generator for
// advisor reports. The generator is optional: when it is absent or
// failing, reports degrade to their heuristic content.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiNarrator generates advisor report narratives via the Gemini API.
// It implements ports.NarrativeGenerator.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGeminiNarrator creates a Gemini client. Credentials come from the
// standard GOOGLE_API_KEY / GOOGLE_GENAI_* environment variables.
func NewGeminiNarrator(ctx context.Context, model string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

// Narrative returns a short free-text narrative for the given prompt.
func (g *GeminiNarrator) Narrative(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
