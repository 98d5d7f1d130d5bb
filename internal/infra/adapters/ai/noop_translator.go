package ai

import (
	"context"
	"fmt"
	"time"

	"repolingo/internal/domain/ports/adapter"
)

var _ adapter.TranslationProvider = (*NoopTranslator)(nil)

// NoopTranslator is a dev-mode provider: it echoes the body tagged with the
// target language instead of calling a real backend.
type NoopTranslator struct{}

func NewNoopTranslator() *NoopTranslator {
	return &NoopTranslator{}
}

func (n *NoopTranslator) Translate(ctx context.Context, body, targetLanguage string) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return fmt.Sprintf("[%s] %s", targetLanguage, body), nil
}
