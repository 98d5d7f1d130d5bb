package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"repolingo/internal/domain/ports/adapter"
)

var _ adapter.TranslationProvider = (*GeminiTranslator)(nil)

type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGeminiTranslator creates a Gemini-backed provider using the official SDK.
func NewGeminiTranslator(ctx context.Context, apiKey, baseURL, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiTranslator{client: c, model: model}, nil
}

func (g *GeminiTranslator) Translate(ctx context.Context, body, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following software repository activity text into %s. "+
			"Preserve markdown, code blocks and inline code untouched. Reply with the translation only.\n\n%s",
		targetLanguage, body)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini translate: %w", err)
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", errors.New("gemini translate: empty response")
	}
	return text, nil
}
