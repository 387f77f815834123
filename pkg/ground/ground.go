// Package ground maps free-text mention surface forms to canonical
// vocabulary identifiers (CURIEs). The Gateway interface is injected
// into the annotation parsers at construction; the vocabulary-file
// grounder in this package is the production implementation, and tests
// substitute stubs.
package ground

import "context"

// Match is one ranked vocabulary match for a surface form. Identifier is
// a colon-prefixed CURIE (e.g. "hgnc:1100"); Score is in [0,1].
type Match struct {
	Identifier string
	Score      float64
}

// Gateway resolves mention text to a ranked list of vocabulary
// identifiers, ordered by descending score. Semantic types without a
// configured backend yield an empty result, never an error.
// Implementations must be safe for concurrent use.
type Gateway interface {
	Ground(ctx context.Context, text string, semanticType string) ([]Match, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, text string, semanticType string) ([]Match, error)

// Ground calls f.
func (f GatewayFunc) Ground(ctx context.Context, text string, semanticType string) ([]Match, error) {
	return f(ctx, text, semanticType)
}
