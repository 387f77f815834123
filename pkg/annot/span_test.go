package annot

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string(nil),
		},
		{
			name: "single sentence",
			text: "BRCA1 is a tumor suppressor gene.",
			want: []string{"BRCA1 is a tumor suppressor gene."},
		},
		{
			name: "multiple sentences",
			text: "TP53 is mutated. The effect is unclear! Is it causal?",
			want: []string{
				"TP53 is mutated.",
				"The effect is unclear!",
				"Is it causal?",
			},
		},
		{
			name: "trailing bracket stays with sentence",
			text: "Expression was reduced (p < 0.05). A second finding followed.",
			want: []string{
				"Expression was reduced (p < 0.05).",
				"A second finding followed.",
			},
		},
		{
			name: "decimal number does not split",
			text: "Risk rose 2.5 fold in carriers. Controls were stable.",
			want: []string{
				"Risk rose 2.5 fold in carriers.",
				"Controls were stable.",
			},
		},
		{
			name: "numeric listing stays in one sentence",
			text: "We report three results. 1. First 2. Second 3. Third. Done!",
			want: []string{
				"We report three results.",
				"1. First 2. Second 3. Third.",
				"Done!",
			},
		},
		{
			name: "no terminal punctuation",
			text: "fragment without punctuation",
			want: []string{"fragment without punctuation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSentenceIndexBoundaries(t *testing.T) {
	text := "First sentence. Second sentence. Third."
	idx := NewSentenceIndex(text, SplitSentences, 1)

	want := []SentenceBoundary{
		{Start: 0, End: 15},
		{Start: 16, End: 32},
		{Start: 33, End: 39},
	}
	if got := idx.Boundaries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Boundaries() = %#v, want %#v", got, want)
	}

	for i, b := range want {
		if text[b.Start:b.End] == "" {
			t.Fatalf("boundary %d maps to empty text", i)
		}
	}
}

func TestSentenceFor(t *testing.T) {
	idx := NewSentenceIndex("First sentence. Second sentence.", SplitSentences, 1)

	tests := []struct {
		name      string
		start     int
		end       int
		wantIdx   int
		wantFound bool
	}{
		{name: "span in first sentence", start: 0, end: 5, wantIdx: 0, wantFound: true},
		{name: "span in second sentence", start: 16, end: 22, wantIdx: 1, wantFound: true},
		{name: "span equal to sentence", start: 0, end: 15, wantIdx: 0, wantFound: true},
		{name: "span crossing boundary", start: 10, end: 20, wantFound: false},
		{name: "span past end of text", start: 100, end: 110, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := idx.SentenceFor(tt.start, tt.end)
			if found != tt.wantFound {
				t.Fatalf("SentenceFor(%d, %d) found = %v, want %v", tt.start, tt.end, found, tt.wantFound)
			}
			if found && got != tt.wantIdx {
				t.Errorf("SentenceFor(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.wantIdx)
			}
		})
	}
}

func TestSentenceIndexContainmentProperty(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta."
	idx := NewSentenceIndex(text, SplitSentences, 1)
	bounds := idx.Boundaries()

	for start := 0; start < len(text); start++ {
		for end := start + 1; end <= len(text); end++ {
			i, ok := idx.SentenceFor(start, end)
			if !ok {
				continue
			}
			if start < bounds[i].Start || end > bounds[i].End {
				t.Fatalf("span [%d,%d) reported inside sentence %d [%d,%d)", start, end, i, bounds[i].Start, bounds[i].End)
			}
		}
	}
}
