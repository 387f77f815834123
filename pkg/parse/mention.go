package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/glkb/annograph/pkg/annot"
	"github.com/glkb/annograph/pkg/ground"
	"github.com/glkb/annograph/pkg/logger"
)

// SourceMentionStream tags records produced by the mention stream parser.
const SourceMentionStream = "BERN2"

// MentionInput is one document entry of a mention-stream export: the
// document ID, optionally the full text (needed for sentence alignment),
// and the flat list of typed mentions with global character offsets.
type MentionInput struct {
	DocID    string          `json:"pmid"`
	Text     string          `json:"text,omitempty"`
	Mentions []MentionRecord `json:"annotations"`
}

// MentionRecord is a single mention as exported by the annotator.
type MentionRecord struct {
	Text           string   `json:"mention"`
	Type           string   `json:"obj"`
	Span           Span     `json:"span"`
	LocalID        string   `json:"id,omitempty"`
	Prob           *float64 `json:"prob,omitempty"`
	NormalizedName string   `json:"normalizedName,omitempty"`
}

// Span is a half-open character range.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// DecodeMentionStream reads a mention-stream export: a JSON array of
// per-document entries.
func DecodeMentionStream(r io.Reader) ([]MentionInput, error) {
	var entries []MentionInput
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode mention stream: %w", err)
	}
	return entries, nil
}

// MentionParser converts mention-stream input into per-document graph
// records. Grounding is delegated to the injected gateway; sentence
// splitting to the injected splitter.
type MentionParser struct {
	gateway ground.Gateway
	split   annot.SplitFunc
	gap     int
}

// NewMentionParser creates a parser using the given grounding gateway
// and the default sentence splitter.
func NewMentionParser(gateway ground.Gateway) *MentionParser {
	return &MentionParser{
		gateway: gateway,
		split:   annot.SplitSentences,
		gap:     1,
	}
}

// WithSplitter replaces the sentence splitter. gap is the assumed
// separator width between consecutive sentences.
func (p *MentionParser) WithSplitter(split annot.SplitFunc, gap int) *MentionParser {
	p.split = split
	p.gap = gap
	return p
}

// MentionID derives the deterministic mention node ID. Reprocessing the
// same input always yields identical IDs, which makes re-ingestion
// idempotent.
func MentionID(docID string, charStart, charEnd int, semanticType string) string {
	return fmt.Sprintf("ent-%s-%d-%d-%s", docID, charStart, charEnd, semanticType)
}

// ParseDocument consumes one document's mention records and builds its
// graph record. Malformed records are skipped with a diagnostic; a
// grounding backend failure aborts the whole document so that no partial
// output is emitted.
func (p *MentionParser) ParseDocument(ctx context.Context, input MentionInput) (*annot.Document, error) {
	if input.DocID == "" {
		return nil, fmt.Errorf("mention stream entry has no document ID")
	}

	doc := annot.NewDocument(input.DocID)
	docNode := annot.DocNodeID(input.DocID)
	seen := NewSeenLinks()

	var sentences *annot.SentenceIndex
	if strings.TrimSpace(input.Text) != "" {
		sentences = annot.NewSentenceIndex(input.Text, p.split, p.gap)
	}

	for _, rec := range input.Mentions {
		if rec.Text == "" || rec.Type == "" || rec.Span.Begin < 0 || rec.Span.End <= rec.Span.Begin {
			logger.Warn("Skipping malformed mention record",
				"doc", input.DocID, "text", rec.Text, "type", rec.Type,
				"start", rec.Span.Begin, "end", rec.Span.End)
			continue
		}
		if input.Text != "" && rec.Span.End > len(input.Text) {
			logger.Warn("Skipping mention with out-of-range span",
				"doc", input.DocID, "end", rec.Span.End, "len", len(input.Text))
			continue
		}

		mention := &annot.Mention{
			ID:        MentionID(input.DocID, rec.Span.Begin, rec.Span.End, rec.Type),
			Text:      rec.Text,
			CharStart: rec.Span.Begin,
			CharEnd:   rec.Span.End,
			Type:      rec.Type,
			Source:    SourceMentionStream,
			Prob:      rec.Prob,
		}
		if rec.Type == annot.TypeMutation {
			mention.NormalizedName = rec.NormalizedName
		} else {
			mention.NormalizedName = strings.ToLower(rec.Text)
		}
		doc.Mentions = append(doc.Mentions, mention)

		doc.Contains = append(doc.Contains, annot.Containment{
			ContainerID: docNode,
			ContainedID: mention.ID,
			Source:      SourceMentionStream,
		})
		if sentences != nil {
			if idx, ok := sentences.SentenceFor(rec.Span.Begin, rec.Span.End); ok {
				doc.Contains = append(doc.Contains, annot.Containment{
					ContainerID: annot.SentenceNodeID(input.DocID, idx),
					ContainedID: mention.ID,
					Source:      SourceMentionStream,
				})
			}
		}

		matches, err := p.gateway.Ground(ctx, rec.Text, rec.Type)
		if err != nil {
			return nil, fmt.Errorf("grounding %q (%s): %w", rec.Text, rec.Type, err)
		}
		if len(matches) > 0 {
			top := matches[0]
			if !seen.AlreadyLinked(mention.ID, top.Identifier) {
				score := top.Score
				doc.TermContains = append(doc.TermContains, annot.TermContainment{
					DocID:          docNode,
					Identifier:     top.Identifier,
					Text:           mention.Text,
					Type:           mention.Type,
					CharStart:      mention.CharStart,
					CharEnd:        mention.CharEnd,
					Source:         SourceMentionStream,
					NormalizedName: mention.NormalizedName,
					Prob:           mention.Prob,
				})
				doc.Groundings = append(doc.Groundings, annot.GroundingLink{
					MentionID:  mention.ID,
					Identifier: top.Identifier,
					Score:      &score,
					Source:     SourceMentionStream,
				})
			}
			seen.MarkLinked(mention.ID, top.Identifier)
		}

		if rec.Type == annot.TypeMutation {
			if rsID, ok := annot.CanonicalVariantID(mention.NormalizedName); ok && !seen.AlreadyLinked(mention.ID, rsID) {
				doc.TermContains = append(doc.TermContains, annot.TermContainment{
					DocID:          docNode,
					Identifier:     rsID,
					Text:           mention.Text,
					Type:           mention.Type,
					CharStart:      mention.CharStart,
					CharEnd:        mention.CharEnd,
					Source:         SourceMentionStream,
					NormalizedName: mention.NormalizedName,
					Prob:           mention.Prob,
				})
				// Derived identifier, not a ranked match: no score.
				doc.Groundings = append(doc.Groundings, annot.GroundingLink{
					MentionID:  mention.ID,
					Identifier: rsID,
					Source:     SourceMentionStream,
				})
				seen.MarkLinked(mention.ID, rsID)
			}
		}
	}

	return doc, nil
}
