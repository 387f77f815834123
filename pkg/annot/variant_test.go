package annot

import "testing"

func TestCanonicalVariantID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantFound bool
	}{
		{name: "RS# marker form", input: "RS#:12345", want: "rs12345", wantFound: true},
		{name: "bare rs form", input: "rs98765", want: "rs98765", wantFound: true},
		{name: "HGVS notation has no rsID", input: "c.123A>T", wantFound: false},
		{name: "RS# marker lowercased", input: "rs#:4242", want: "rs4242", wantFound: true},
		{name: "marker wins over embedded rs digits", input: "rs111;RS#:222", want: "rs222", wantFound: true},
		{name: "rsID not at end of string", input: "rs123 variant", wantFound: false},
		{name: "tmVar style compound tail", input: "p.V600E;RS#:113488022", want: "rs113488022", wantFound: true},
		{name: "empty input", input: "", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := CanonicalVariantID(tt.input)
			if found != tt.wantFound {
				t.Fatalf("CanonicalVariantID(%q) found = %v, want %v", tt.input, found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("CanonicalVariantID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
