// Package tokens estimates token counts for transcript entries and
// telemetry attributes.
package tokens

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Estimator counts tokens with the cl100k_base encoding. A failed codec
// lookup degrades to a character heuristic rather than erroring; counts
// here are informational only.
type Estimator struct {
	once  sync.Once
	codec tokenizer.Codec
}

func NewEstimator() *Estimator {
	return &Estimator{}
}

// Count returns the estimated token count of text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}

	e.once.Do(func() {
		codec, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			e.codec = codec
		}
	})

	if e.codec != nil {
		if ids, _, err := e.codec.Encode(text); err == nil {
			return len(ids)
		}
	}

	// Rough fallback: one token per four characters.
	return (len(text) + 3) / 4
}
