package ground

import (
	"context"
	"reflect"
	"testing"
)

func geneTerms() []VocabTerm {
	return []VocabTerm{
		{NormText: "brca1", Text: "BRCA1", DB: "hgnc", ID: "1100", EntryName: "BRCA1", Status: "name", Source: "hgnc"},
		{NormText: "brca1", Text: "breast cancer 1", DB: "mesh", ID: "D019398", EntryName: "BRCA1", Status: "synonym", Source: "mesh"},
		{NormText: "tp53", Text: "TP53", DB: "hgnc", ID: "11998", EntryName: "TP53", Status: "name", Source: "hgnc"},
	}
}

func TestGrounderRanking(t *testing.T) {
	g := NewGrounder(geneTerms())

	matches, err := g.Ground("BRCA1")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}

	want := []Match{
		{Identifier: "hgnc:1100", Score: 1.0},
		{Identifier: "mesh:D019398", Score: 0.5},
	}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Ground() = %#v, want %#v", matches, want)
	}
}

func TestGrounderCaseInsensitiveLookup(t *testing.T) {
	g := NewGrounder(geneTerms())

	matches, err := g.Ground("brca1")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Ground() returned %d matches, want 2", len(matches))
	}
	// Case-insensitive primary-name match outranks the synonym but loses
	// the casing bonus.
	if matches[0].Identifier != "hgnc:1100" || matches[0].Score != 0.8 {
		t.Errorf("top match = %+v, want hgnc:1100 at 0.8", matches[0])
	}
}

func TestGrounderUnknownSurfaceForm(t *testing.T) {
	g := NewGrounder(geneTerms())

	matches, err := g.Ground("no such gene")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Ground() = %#v, want empty", matches)
	}
}

func TestGrounderNotLoaded(t *testing.T) {
	var g Grounder
	if _, err := g.Ground("BRCA1"); err != ErrNotLoaded {
		t.Errorf("Ground() on zero-value grounder error = %v, want ErrNotLoaded", err)
	}
	if g.Loaded() {
		t.Error("zero-value grounder reports Loaded")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BRCA1", "brca1"},
		{"  breast   cancer  1 ", "breast cancer 1"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(map[string]*Grounder{
		"gene": NewGrounder(geneTerms()),
	})
	ctx := context.Background()

	matches, err := reg.Ground(ctx, "TP53", "gene")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Identifier != "hgnc:11998" {
		t.Errorf("gene dispatch = %#v, want hgnc:11998", matches)
	}

	// DNA shares the gene vocabulary.
	matches, err = reg.Ground(ctx, "TP53", "DNA")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("DNA dispatch = %#v, want one match", matches)
	}

	// Unconfigured family grounds to nothing, without error.
	matches, err = reg.Ground(ctx, "melanoma", "disease")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("unconfigured family = %#v, want empty", matches)
	}

	// Unknown semantic type grounds to nothing.
	matches, err = reg.Ground(ctx, "anything", "mutation")
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("unknown type = %#v, want empty", matches)
	}
}
