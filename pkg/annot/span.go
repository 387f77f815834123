package annot

import "strings"

// SentenceBoundary is a half-open [Start,End) character range of one
// sentence within a document.
type SentenceBoundary struct {
	Start int
	End   int
}

// SplitFunc splits raw document text into sentences. The aligner does not
// care how the split is produced, only that the sentences appear in
// document order.
type SplitFunc func(text string) []string

// SentenceIndex maps character spans to the sentence that contains them.
// Boundaries are computed by walking the split sentences in order and
// accumulating offsets, assuming a fixed-width separator between
// consecutive sentences. This is an approximation: if the tokenizer
// swallowed or produced extra separator characters, spans near sentence
// edges may fail to align, which callers must treat as a soft miss.
type SentenceIndex struct {
	boundaries []SentenceBoundary
}

// NewSentenceIndex builds a SentenceIndex from raw text and a splitter.
// gap is the assumed separator width between consecutive sentences; a
// value <= 0 defaults to 1.
func NewSentenceIndex(text string, split SplitFunc, gap int) *SentenceIndex {
	if gap <= 0 {
		gap = 1
	}
	idx := &SentenceIndex{}
	if split == nil || strings.TrimSpace(text) == "" {
		return idx
	}
	start := 0
	for _, sentence := range split(text) {
		end := start + len(sentence)
		idx.boundaries = append(idx.boundaries, SentenceBoundary{Start: start, End: end})
		start = end + gap
	}
	return idx
}

// Boundaries returns the computed sentence ranges in document order.
func (s *SentenceIndex) Boundaries() []SentenceBoundary {
	return s.boundaries
}

// SentenceFor returns the index of the sentence whose range fully
// contains [start,end). It reports false when no sentence contains the
// span, e.g. when the span crosses a sentence boundary.
func (s *SentenceIndex) SentenceFor(start, end int) (int, bool) {
	for i, b := range s.boundaries {
		if start >= b.Start && end <= b.End {
			return i, true
		}
	}
	return 0, false
}

// SplitSentences is the default sentence splitter. It breaks text at
// terminal punctuation, keeping trailing quote and bracket characters
// with the sentence that ends in them. A period after a digit does not
// break when followed by a digit (decimals like "0.05") or a space
// (numeric listings like "1. First item").
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}

		if i > 0 && text[i-1] >= '0' && text[i-1] <= '9' &&
			i+1 < len(text) &&
			(text[i+1] == ' ' || (text[i+1] >= '0' && text[i+1] <= '9')) {
			continue
		}

		j := i + 1
		for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
			current.WriteByte(text[j])
			j++
		}
		for j < len(text) && (text[j] == '"' || text[j] == '\'' || text[j] == ')' ||
			text[j] == ']' || text[j] == '}') {
			current.WriteByte(text[j])
			j++
		}

		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()

		// Skip the single separator the boundary accounting assumes.
		if j < len(text) && text[j] == ' ' {
			j++
		}
		i = j - 1
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}
