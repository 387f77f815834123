// Package emit renders finalized document records as node and edge
// tuples for the downstream graph bulk loader. Property maps are
// filtered per node/edge label through explicit field tables, so the
// output schema is fixed at compile time rather than discovered by
// reflection.
package emit

import (
	"strings"

	"github.com/glkb/annograph/pkg/annot"
)

// Node and edge labels of the output graph.
const (
	LabelMention     = "genomic_mention"
	LabelEventPrefix = "event_"

	LabelInEvent        = "in_event"
	LabelContainMention = "contain_mention"
	LabelMappedTo       = "mapped_to"
	LabelContainTerm    = "contain_term"
)

// Property is one key/value entry of an ordered property map.
type Property struct {
	Key   string
	Value Value
}

// Node is one node tuple of the output stream.
type Node struct {
	ID    string
	Label string
	Props []Property
}

// Edge is one edge tuple of the output stream.
type Edge struct {
	Head  string
	Tail  string
	Label string
	Props []Property
}

// fieldsByLabel is the allow-list of property names per label, in
// output column order. Fields a record does not carry are dropped.
var fieldsByLabel = map[string][]string{
	LabelMention:        {"text", "char_start", "char_end", "type", "source", "normalized_name", "prob"},
	LabelInEvent:        {"text", "source", "char_start", "char_end", "role", "factuality"},
	LabelContainMention: {"source"},
	LabelMappedTo:       {"source", "score"},
	LabelContainTerm:    {"text", "char_start", "char_end", "type", "source", "normalized_name", "prob"},
}

var eventFields = []string{"text", "char_start", "char_end", "source"}

// FieldsFor returns the ordered allow-list for a label. Event labels
// share one table keyed by their common prefix.
func FieldsFor(label string) []string {
	if fields, ok := fieldsByLabel[label]; ok {
		return fields
	}
	if strings.HasPrefix(label, LabelEventPrefix) {
		return eventFields
	}
	return nil
}

// filter keeps the allow-listed properties of a label in table order,
// dropping zero values and unknown keys.
func filter(label string, props map[string]Value) []Property {
	var out []Property
	for _, field := range FieldsFor(label) {
		if v, ok := props[field]; ok && !v.IsZero() {
			out = append(out, Property{Key: field, Value: v})
		}
	}
	return out
}

// Records converts one finalized document into its node and edge
// streams. Nodes come out in declaration order (events, terms,
// mentions); edges in role-link, containment, grounding, term-
// containment order, each preserving input order within its group.
func Records(doc *annot.Document) ([]Node, []Edge) {
	var nodes []Node
	var edges []Edge

	for _, localID := range doc.EventOrder {
		event := doc.Events[localID]
		nodes = append(nodes, Node{
			ID:    event.ID,
			Label: event.Label,
			Props: filter(event.Label, map[string]Value{
				"text":       String(event.Text),
				"char_start": Number(float64(event.CharStart)),
				"char_end":   Number(float64(event.CharEnd)),
				"source":     String(event.Source),
			}),
		})
	}
	for _, localID := range doc.TermOrder {
		term := doc.Terms[localID]
		nodes = append(nodes, Node{
			ID:    term.ID,
			Label: LabelMention,
			Props: filter(LabelMention, map[string]Value{
				"text":       String(term.Text),
				"char_start": Number(float64(term.CharStart)),
				"char_end":   Number(float64(term.CharEnd)),
				"type":       String(term.Type),
				"source":     String(term.Source),
			}),
		})
	}
	for _, mention := range doc.Mentions {
		props := map[string]Value{
			"text":            String(mention.Text),
			"char_start":      Number(float64(mention.CharStart)),
			"char_end":        Number(float64(mention.CharEnd)),
			"type":            String(mention.Type),
			"source":          String(mention.Source),
			"normalized_name": String(mention.NormalizedName),
		}
		if mention.Prob != nil {
			props["prob"] = Number(*mention.Prob)
		}
		nodes = append(nodes, Node{ID: mention.ID, Label: LabelMention, Props: filter(LabelMention, props)})
	}

	for _, localID := range doc.LinkOrder {
		for _, link := range doc.Links[localID] {
			edges = append(edges, Edge{
				Head:  link.HeadID,
				Tail:  link.TailID,
				Label: LabelInEvent,
				Props: filter(LabelInEvent, map[string]Value{
					"text":       String(link.Text),
					"source":     String(link.Source),
					"role":       String(link.Role),
					"factuality": String(link.Factuality),
				}),
			})
		}
	}
	for _, c := range doc.Contains {
		edges = append(edges, Edge{
			Head:  c.ContainerID,
			Tail:  c.ContainedID,
			Label: LabelContainMention,
			Props: filter(LabelContainMention, map[string]Value{
				"source": String(c.Source),
			}),
		})
	}
	for _, g := range doc.Groundings {
		props := map[string]Value{"source": String(g.Source)}
		if g.Score != nil {
			props["score"] = Number(*g.Score)
		}
		edges = append(edges, Edge{
			Head:  g.MentionID,
			Tail:  g.Identifier,
			Label: LabelMappedTo,
			Props: filter(LabelMappedTo, props),
		})
	}
	for _, tc := range doc.TermContains {
		props := map[string]Value{
			"text":            String(tc.Text),
			"char_start":      Number(float64(tc.CharStart)),
			"char_end":        Number(float64(tc.CharEnd)),
			"type":            String(tc.Type),
			"source":          String(tc.Source),
			"normalized_name": String(tc.NormalizedName),
		}
		if tc.Prob != nil {
			props["prob"] = Number(*tc.Prob)
		}
		edges = append(edges, Edge{
			Head:  tc.DocID,
			Tail:  tc.Identifier,
			Label: LabelContainTerm,
			Props: filter(LabelContainTerm, props),
		})
	}

	return nodes, edges
}
