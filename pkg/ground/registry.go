package ground

import "context"

// Registry dispatches grounding calls to per-family grounders by
// semantic type. Semantic types without a registered grounder yield an
// empty result. The registry is read-only after construction and safe
// for concurrent use by parallel document workers.
type Registry struct {
	grounders map[string]*Grounder
}

// RegistryFiles names the vocabulary term file for each grounder family.
// Empty paths are skipped; the corresponding semantic types then ground
// to nothing.
type RegistryFiles struct {
	Gene     string
	Disease  string
	Chemical string
	Organism string
	Anatomy  string
}

// Semantic types sharing a grounder family: DNA mentions resolve against
// the gene vocabulary, cell lines against the anatomy vocabulary, and
// drugs against the chemical vocabulary.
var familyByType = map[string]string{
	"gene":      "gene",
	"DNA":       "gene",
	"disease":   "disease",
	"drug":      "chemical",
	"species":   "organism",
	"cell_type": "anatomy",
	"cell_line": "anatomy",
}

// NewRegistry builds a registry from loaded grounders. Nil grounders are
// permitted and behave as unconfigured families.
func NewRegistry(byFamily map[string]*Grounder) *Registry {
	grounders := make(map[string]*Grounder)
	for semanticType, family := range familyByType {
		if g := byFamily[family]; g.Loaded() {
			grounders[semanticType] = g
		}
	}
	return &Registry{grounders: grounders}
}

// NewRegistryFromFiles loads every configured vocabulary file and builds
// the registry.
func NewRegistryFromFiles(files RegistryFiles) (*Registry, error) {
	byFamily := make(map[string]*Grounder)

	load := func(family, path string) error {
		if path == "" {
			return nil
		}
		g, err := NewGrounderFromFile(path)
		if err != nil {
			return err
		}
		byFamily[family] = g
		return nil
	}

	if err := load("gene", files.Gene); err != nil {
		return nil, err
	}
	if err := load("disease", files.Disease); err != nil {
		return nil, err
	}
	if err := load("chemical", files.Chemical); err != nil {
		return nil, err
	}
	if err := load("organism", files.Organism); err != nil {
		return nil, err
	}
	if err := load("anatomy", files.Anatomy); err != nil {
		return nil, err
	}

	return NewRegistry(byFamily), nil
}

// Ground implements Gateway. Unknown semantic types and unconfigured
// families return an empty result, never an error.
func (r *Registry) Ground(ctx context.Context, text string, semanticType string) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, ok := r.grounders[semanticType]
	if !ok {
		return nil, nil
	}
	return g.Ground(text)
}
