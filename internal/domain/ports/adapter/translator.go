package adapter

import "context"

// TranslationProvider turns source text into translated text. Providers may
// fail transiently (rate limits, auth, malformed responses); callers treat
// any error uniformly as a job failure.
type TranslationProvider interface {
	Translate(ctx context.Context, body, targetLanguage string) (string, error)
}
