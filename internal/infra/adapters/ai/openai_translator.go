package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"repolingo/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.TranslationProvider = (*OpenAITranslator)(nil)

// OpenAITranslator translates via the Chat Completions API. Source bodies
// are clipped to an input-token budget before the call so an oversized
// release note can't blow the model's context window.
type OpenAITranslator struct {
	client    openai.Client
	model     string
	maxTokens int
	encoder   *tiktoken.Tiktoken
}

func NewOpenAITranslator(apiKey, baseURL, model string, maxInputTokens int) (*OpenAITranslator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if maxInputTokens <= 0 {
		maxInputTokens = 8192
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	// cl100k covers the chat model family; without an encoder we skip the
	// clip rather than fail construction.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}

	return &OpenAITranslator{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxInputTokens,
		encoder:   enc,
	}, nil
}

func (o *OpenAITranslator) Translate(ctx context.Context, body, targetLanguage string) (string, error) {
	body = o.clip(body)

	prompt := fmt.Sprintf(
		"You are a translator for software repository activity (release notes, issues, pull requests). "+
			"Translate the user's text into %s. Preserve markdown, code blocks and inline code untouched. "+
			"Reply with the translation only.", targetLanguage)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(body),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("openai translate: no choice content")
}

func (o *OpenAITranslator) clip(body string) string {
	if o.encoder == nil {
		return body
	}
	ids := o.encoder.Encode(body, nil, nil)
	if len(ids) <= o.maxTokens {
		return body
	}
	return o.encoder.Decode(ids[:o.maxTokens])
}
