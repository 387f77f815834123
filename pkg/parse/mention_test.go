package parse

import (
	"context"
	"reflect"
	"testing"

	"github.com/glkb/annograph/pkg/annot"
	"github.com/glkb/annograph/pkg/ground"
)

func stubGateway(matches map[string][]ground.Match) ground.Gateway {
	return ground.GatewayFunc(func(_ context.Context, text, _ string) ([]ground.Match, error) {
		return matches[text], nil
	})
}

func floatPtr(f float64) *float64 { return &f }

func TestMentionParserDeterministicIDs(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))
	input := MentionInput{
		DocID: "123",
		Mentions: []MentionRecord{
			{Text: "BRCA1", Type: "gene", Span: Span{Begin: 10, End: 15}},
			{Text: "melanoma", Type: "disease", Span: Span{Begin: 20, End: 28}},
		},
	}

	first, err := parser.ParseDocument(context.Background(), input)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	second, err := parser.ParseDocument(context.Background(), input)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	if !reflect.DeepEqual(first.Mentions, second.Mentions) {
		t.Error("re-parsing identical input produced different mentions")
	}
	if !reflect.DeepEqual(first.Contains, second.Contains) {
		t.Error("re-parsing identical input produced different containment edges")
	}
	if got, want := first.Mentions[0].ID, "ent-123-10-15-gene"; got != want {
		t.Errorf("mention ID = %q, want %q", got, want)
	}
}

func TestMentionParserTopMatchOnly(t *testing.T) {
	gw := stubGateway(map[string][]ground.Match{
		"BRCA1": {
			{Identifier: "hgnc:1", Score: 0.9},
			{Identifier: "hgnc:2", Score: 0.4},
		},
	})
	parser := NewMentionParser(gw)

	doc, err := parser.ParseDocument(context.Background(), MentionInput{
		DocID: "1",
		Mentions: []MentionRecord{
			{Text: "BRCA1", Type: "gene", Span: Span{Begin: 0, End: 5}},
		},
	})
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	if len(doc.Groundings) != 1 {
		t.Fatalf("got %d grounding edges, want 1", len(doc.Groundings))
	}
	g := doc.Groundings[0]
	if g.Identifier != "hgnc:1" || g.Score == nil || *g.Score != 0.9 {
		t.Errorf("grounding edge = %+v, want hgnc:1 at 0.9", g)
	}
	if len(doc.TermContains) != 1 || doc.TermContains[0].Identifier != "hgnc:1" {
		t.Errorf("term containment = %+v, want single hgnc:1 edge", doc.TermContains)
	}
}

func TestMentionParserSentenceAlignment(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))

	// "BRCA1" sits in sentence 0, "TP53" in sentence 1. The span 14..20
	// crosses the boundary and must not produce a sentence edge.
	text := "BRCA1 is here. TP53 is there."
	doc, err := parser.ParseDocument(context.Background(), MentionInput{
		DocID: "42",
		Text:  text,
		Mentions: []MentionRecord{
			{Text: "BRCA1", Type: "gene", Span: Span{Begin: 0, End: 5}},
			{Text: "TP53", Type: "gene", Span: Span{Begin: 15, End: 19}},
			{Text: ". TP53", Type: "gene", Span: Span{Begin: 13, End: 19}},
		},
	})
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	var sentenceEdges []annot.Containment
	for _, c := range doc.Contains {
		if c.ContainerID != annot.DocNodeID("42") {
			sentenceEdges = append(sentenceEdges, c)
		}
	}
	want := []annot.Containment{
		{ContainerID: "pmid42_0", ContainedID: "ent-42-0-5-gene", Source: SourceMentionStream},
		{ContainerID: "pmid42_1", ContainedID: "ent-42-15-19-gene", Source: SourceMentionStream},
	}
	if !reflect.DeepEqual(sentenceEdges, want) {
		t.Errorf("sentence containment edges = %+v, want %+v", sentenceEdges, want)
	}
}

func TestMentionParserMutationCanonicalID(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))

	doc, err := parser.ParseDocument(context.Background(), MentionInput{
		DocID: "7",
		Mentions: []MentionRecord{
			{Text: "V600E", Type: "mutation", Span: Span{Begin: 3, End: 8}, NormalizedName: "RS#:12345"},
			{Text: "c.123A>T", Type: "mutation", Span: Span{Begin: 20, End: 28}, NormalizedName: "c.123A>T"},
		},
	})
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	if len(doc.Groundings) != 1 {
		t.Fatalf("got %d grounding edges, want 1", len(doc.Groundings))
	}
	g := doc.Groundings[0]
	if g.Identifier != "rs12345" {
		t.Errorf("canonical ID = %q, want rs12345", g.Identifier)
	}
	if g.Score != nil {
		t.Errorf("derived identifier carries score %v, want none", *g.Score)
	}
	if len(doc.TermContains) != 1 || doc.TermContains[0].Identifier != "rs12345" {
		t.Errorf("term containment = %+v, want single rs12345 edge", doc.TermContains)
	}
}

func TestMentionParserNormalizedNameFallback(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))

	doc, err := parser.ParseDocument(context.Background(), MentionInput{
		DocID: "9",
		Mentions: []MentionRecord{
			{Text: "BRCA1", Type: "gene", Span: Span{Begin: 0, End: 5}, Prob: floatPtr(0.99)},
		},
	})
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if got := doc.Mentions[0].NormalizedName; got != "brca1" {
		t.Errorf("NormalizedName = %q, want lowercased surface form", got)
	}
	if doc.Mentions[0].Prob == nil || *doc.Mentions[0].Prob != 0.99 {
		t.Error("probability not carried through")
	}
}

func TestMentionParserSkipsMalformedRecords(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))

	doc, err := parser.ParseDocument(context.Background(), MentionInput{
		DocID: "5",
		Mentions: []MentionRecord{
			{Text: "", Type: "gene", Span: Span{Begin: 0, End: 5}},
			{Text: "ok", Type: "", Span: Span{Begin: 0, End: 2}},
			{Text: "bad", Type: "gene", Span: Span{Begin: 5, End: 5}},
			{Text: "good", Type: "gene", Span: Span{Begin: 0, End: 4}},
		},
	})
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(doc.Mentions) != 1 || doc.Mentions[0].Text != "good" {
		t.Errorf("mentions = %+v, want only the well-formed record", doc.Mentions)
	}
}

func TestMentionParserMissingDocID(t *testing.T) {
	parser := NewMentionParser(stubGateway(nil))
	if _, err := parser.ParseDocument(context.Background(), MentionInput{}); err == nil {
		t.Error("ParseDocument() with empty document ID returned nil error")
	}
}
