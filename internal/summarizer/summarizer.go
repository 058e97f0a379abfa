package summarizer

import "context"

// Summarizer produces a short natural-language summary of article text in
// the requested language.
type Summarizer interface {
	Summarize(ctx context.Context, text, language string) (string, error)
}

// fallbackLimit is the rune cap applied when no summary can be generated.
const fallbackLimit = 200

// Fallback returns the summary used when summarization is unavailable or
// fails: the original text truncated to 200 runes.
func Fallback(text string) string {
	runes := []rune(text)
	if len(runes) <= fallbackLimit {
		return text
	}
	return string(runes[:fallbackLimit]) + "..."
}
