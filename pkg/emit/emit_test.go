package emit

import (
	"reflect"
	"testing"

	"github.com/glkb/annograph/pkg/annot"
)

func TestEscapeNeutralizesDelimiters(t *testing.T) {
	d := DefaultDelimiters()
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a;b", "a b"},
		{"a|b", "a b"},
		{"line\nbreak", "line break"},
		{`say "hi"`, `say ""hi""`},
		{"a;b|c\nd", "a b c d"},
	}
	for _, tt := range tests {
		if got := d.Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValueRender(t *testing.T) {
	d := DefaultDelimiters()

	if got := String("a;b").Render(d); got != "a b" {
		t.Errorf("String render = %q, want %q", got, "a b")
	}
	if got := Number(0.9).Render(d); got != "0.9" {
		t.Errorf("Number render = %q, want %q", got, "0.9")
	}
	if got := Number(42).Render(d); got != "42" {
		t.Errorf("Number render = %q, want %q", got, "42")
	}
	if got := StringList([]string{"a;x", "b"}).Render(d); got != "a x|b" {
		t.Errorf("StringList render = %q, want %q", got, "a x|b")
	}
}

func TestFieldsFor(t *testing.T) {
	if got := FieldsFor("event_binding"); !reflect.DeepEqual(got, eventFields) {
		t.Errorf("event label fields = %v, want %v", got, eventFields)
	}
	if got := FieldsFor("genomic_mention"); len(got) != 7 {
		t.Errorf("mention fields = %v, want 7 entries", got)
	}
	if got := FieldsFor("no_such_label"); got != nil {
		t.Errorf("unknown label fields = %v, want nil", got)
	}
}

func TestFilterDropsUnknownAndZero(t *testing.T) {
	props := filter(LabelMappedTo, map[string]Value{
		"source":   String("DEM"),
		"score":    Number(0.5),
		"bogus":    String("dropped"),
		"role":     String("not in table"),
		"emptyish": String(""),
	})
	want := []Property{
		{Key: "source", Value: String("DEM")},
		{Key: "score", Value: Number(0.5)},
	}
	if !reflect.DeepEqual(props, want) {
		t.Errorf("filter() = %+v, want %+v", props, want)
	}
}

func TestRecordsOrdering(t *testing.T) {
	score := 0.9
	doc := annot.NewDocument("1")
	doc.Events["T2"] = &annot.Event{
		ID: "dem_event_1_T2", LocalID: "T2", Label: "event_binding",
		Text: "binds", CharStart: 10, CharEnd: 15, Source: "DEM",
	}
	doc.EventOrder = []string{"T2"}
	doc.Terms["T1"] = &annot.Term{
		ID: "dem_ent_1_T1", LocalID: "T1", Text: "BRCA1",
		CharStart: 0, CharEnd: 5, Type: "Protein", Source: "DEM",
	}
	doc.TermOrder = []string{"T1"}
	doc.AddLink("E1", &annot.RoleLink{
		HeadID: "dem_ent_1_T1", TailID: "dem_event_1_T2",
		Role: "Theme", Text: "BRCA1", Source: "DEM", Factuality: "Speculated",
	})
	doc.Contains = []annot.Containment{
		{ContainerID: "pmid1", ContainedID: "dem_event_1_T2", Source: "DEM"},
		{ContainerID: "pmid1", ContainedID: "dem_ent_1_T1", Source: "DEM"},
	}
	doc.Groundings = []annot.GroundingLink{
		{MentionID: "dem_ent_1_T1", Identifier: "hgnc:1100", Score: &score, Source: "DEM"},
	}
	doc.TermContains = []annot.TermContainment{
		{DocID: "pmid1", Identifier: "hgnc:1100", Text: "BRCA1", Type: "Protein", CharStart: 0, CharEnd: 5, Source: "DEM"},
	}

	nodes, edges := Records(doc)

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].ID != "dem_event_1_T2" || nodes[0].Label != "event_binding" {
		t.Errorf("first node = %+v, want the event", nodes[0])
	}
	if nodes[1].ID != "dem_ent_1_T1" || nodes[1].Label != LabelMention {
		t.Errorf("second node = %+v, want the term", nodes[1])
	}

	wantLabels := []string{LabelInEvent, LabelContainMention, LabelContainMention, LabelMappedTo, LabelContainTerm}
	if len(edges) != len(wantLabels) {
		t.Fatalf("got %d edges, want %d", len(edges), len(wantLabels))
	}
	for i, want := range wantLabels {
		if edges[i].Label != want {
			t.Errorf("edge[%d].Label = %q, want %q", i, edges[i].Label, want)
		}
	}

	inEvent := edges[0]
	wantProps := []Property{
		{Key: "text", Value: String("BRCA1")},
		{Key: "source", Value: String("DEM")},
		{Key: "role", Value: String("Theme")},
		{Key: "factuality", Value: String("Speculated")},
	}
	if !reflect.DeepEqual(inEvent.Props, wantProps) {
		t.Errorf("in_event props = %+v, want %+v", inEvent.Props, wantProps)
	}

	mapped := edges[3]
	if mapped.Head != "dem_ent_1_T1" || mapped.Tail != "hgnc:1100" {
		t.Errorf("mapped_to edge = %+v", mapped)
	}
	if !reflect.DeepEqual(mapped.Props, []Property{
		{Key: "source", Value: String("DEM")},
		{Key: "score", Value: Number(0.9)},
	}) {
		t.Errorf("mapped_to props = %+v", mapped.Props)
	}
}

func TestRecordsMentionNode(t *testing.T) {
	prob := 0.99
	doc := annot.NewDocument("42")
	doc.Mentions = []*annot.Mention{{
		ID: "ent-42-0-5-gene", Text: "BRCA1", CharStart: 0, CharEnd: 5,
		Type: "gene", Source: "BERN2", Prob: &prob, NormalizedName: "brca1",
	}}

	nodes, edges := Records(doc)
	if len(nodes) != 1 || len(edges) != 0 {
		t.Fatalf("got %d nodes, %d edges; want 1, 0", len(nodes), len(edges))
	}
	want := []Property{
		{Key: "text", Value: String("BRCA1")},
		{Key: "char_start", Value: Number(0)},
		{Key: "char_end", Value: Number(5)},
		{Key: "type", Value: String("gene")},
		{Key: "source", Value: String("BERN2")},
		{Key: "normalized_name", Value: String("brca1")},
		{Key: "prob", Value: Number(0.99)},
	}
	if !reflect.DeepEqual(nodes[0].Props, want) {
		t.Errorf("mention props = %+v, want %+v", nodes[0].Props, want)
	}
}
