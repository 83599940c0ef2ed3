package token

import (
	"polyc/internal/source"
)

// Token is one lexeme with its location. Text is the NFC-normalized
// spelling for identifiers and the raw spelling otherwise.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}
