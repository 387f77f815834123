package ground

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrNotLoaded is returned when a grounder is queried before its
// vocabulary has been loaded.
var ErrNotLoaded = errors.New("grounder vocabulary not loaded")

// VocabTerm is one vocabulary entry as stored in the grounder term files:
// a surface form bound to an identifier within a source vocabulary.
// Status distinguishes primary names from synonyms.
type VocabTerm struct {
	NormText  string `json:"norm_text"`
	Text      string `json:"text"`
	DB        string `json:"db"`
	ID        string `json:"id"`
	EntryName string `json:"entry_name"`
	Status    string `json:"status"`
	Source    string `json:"source"`
}

// CURIE returns the term's identifier in prefix:local form.
func (t VocabTerm) CURIE() string {
	return t.DB + ":" + t.ID
}

const (
	statusName = "name"

	scoreSynonym   = 0.5
	scoreNameBonus = 0.3
	scoreCaseBonus = 0.2
)

// Grounder grounds surface forms against a single vocabulary family
// (e.g. genes, diseases). It has an explicit two-state lifecycle: a
// zero-value Grounder is Unloaded and every Ground call returns
// ErrNotLoaded until a vocabulary has been loaded. Once loaded the
// grounder is immutable and safe for concurrent use.
type Grounder struct {
	loaded  bool
	entries map[string][]VocabTerm
}

// NewGrounder builds a loaded Grounder from an in-memory term list.
func NewGrounder(terms []VocabTerm) *Grounder {
	entries := make(map[string][]VocabTerm)
	for _, term := range terms {
		key := term.NormText
		if key == "" {
			key = Normalize(term.Text)
		}
		if key == "" {
			continue
		}
		entries[key] = append(entries[key], term)
	}
	return &Grounder{loaded: true, entries: entries}
}

// NewGrounderFromFile loads a JSON vocabulary term file.
func NewGrounderFromFile(path string) (*Grounder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var terms []VocabTerm
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	return NewGrounder(terms), nil
}

// Loaded reports whether the grounder carries a vocabulary.
func (g *Grounder) Loaded() bool {
	return g != nil && g.loaded
}

// Ground returns ranked matches for the given surface form, best first.
// Exact primary-name matches score above synonym matches, and matches
// that preserve the original casing score above case-insensitive ones.
// An unknown surface form yields an empty result.
func (g *Grounder) Ground(text string) ([]Match, error) {
	if !g.Loaded() {
		return nil, ErrNotLoaded
	}

	norm := Normalize(text)
	if norm == "" {
		return nil, nil
	}

	candidates := g.entries[norm]
	if len(candidates) == 0 {
		return nil, nil
	}

	best := make(map[string]float64, len(candidates))
	for _, term := range candidates {
		score := scoreSynonym
		if term.Status == statusName {
			score += scoreNameBonus
		}
		if term.Text == text {
			score += scoreCaseBonus
		}
		curie := term.CURIE()
		if score > best[curie] {
			best[curie] = score
		}
	}

	matches := make([]Match, 0, len(best))
	for curie, score := range best {
		matches = append(matches, Match{Identifier: curie, Score: score})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Identifier < matches[j].Identifier
	})

	return matches, nil
}

// Normalize produces the lookup key for a surface form: lowercased with
// whitespace runs collapsed to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
