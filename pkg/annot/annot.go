// Package annot defines the canonical typed graph produced by the
// annotation parsers: mentions, terms, events, and the role-labeled
// links between them. All records are scoped to a single document parse
// and are read-only after parsing, except RoleLink.Factuality which a
// later factuality annotation line may set.
package annot

import "strconv"

// Semantic types recognized by the grounding registry. Raw type tags
// outside this set are preserved on nodes but ground to nothing.
const (
	TypeGene     = "gene"
	TypeDisease  = "disease"
	TypeDrug     = "drug"
	TypeSpecies  = "species"
	TypeCellType = "cell_type"
	TypeCellLine = "cell_line"
	TypeDNA      = "DNA"
	TypeRNA      = "RNA"
	TypeMutation = "mutation"
)

// EventTriggerTypes is the closed vocabulary of biological event classes.
// A standoff term whose annotation label is in this set is recorded as an
// event trigger instead of a term.
var EventTriggerTypes = map[string]bool{
	"Gene_expression":     true,
	"Transcription":       true,
	"Protein_catabolism":  true,
	"Phosphorylation":     true,
	"Localization":        true,
	"Binding":             true,
	"Regulation":          true,
	"Positive_regulation": true,
	"Negative_regulation": true,
}

// Mention is a typed entity mention from a flat per-document mention
// stream, with global character offsets into the document text.
type Mention struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	CharStart      int      `json:"char_start"`
	CharEnd        int      `json:"char_end"`
	Type           string   `json:"type"`
	Source         string   `json:"source"`
	Prob           *float64 `json:"prob,omitempty"`
	NormalizedName string   `json:"normalized_name,omitempty"`
}

// Grounding is one ranked vocabulary match attached to a term.
type Grounding struct {
	Identifier string  `json:"identifier"`
	Score      float64 `json:"score"`
}

// Term is a standoff entity annotation, keyed by its annotation-file
// local ID (T<n>).
type Term struct {
	ID        string      `json:"id"`
	LocalID   string      `json:"local_id"`
	Text      string      `json:"text"`
	CharStart int         `json:"char_start"`
	CharEnd   int         `json:"char_end"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Grounding []Grounding `json:"grounding,omitempty"`
}

// Event is a standoff event trigger. Participants collects the local IDs
// of arguments this event has been linked to; it is parser bookkeeping
// and is never emitted.
type Event struct {
	ID           string `json:"id"`
	LocalID      string `json:"local_id"`
	Type         string `json:"type"`
	Label        string `json:"label"`
	Text         string `json:"text"`
	CharStart    int    `json:"char_start"`
	CharEnd      int    `json:"char_end"`
	Source       string `json:"source"`
	Participants map[string]struct{} `json:"-"`
}

// AddParticipant records an argument local ID on the event.
func (e *Event) AddParticipant(localID string) {
	if e.Participants == nil {
		e.Participants = make(map[string]struct{})
	}
	e.Participants[localID] = struct{}{}
}

// RoleLink is a role-labeled edge from an argument (term or event) to the
// event it participates in. Factuality is the only field in the model
// that may be set after link creation.
type RoleLink struct {
	HeadID     string `json:"head"`
	TailID     string `json:"tail"`
	Role       string `json:"role"`
	Text       string `json:"text"`
	Source     string `json:"source"`
	Factuality string `json:"factuality,omitempty"`
}

// GroundingLink maps a mention or term to a matched vocabulary
// identifier. Score is nil for derived identifiers (e.g. canonical rsIDs)
// that carry no ranking.
type GroundingLink struct {
	MentionID  string   `json:"head"`
	Identifier string   `json:"tail"`
	Score      *float64 `json:"score,omitempty"`
	Source     string   `json:"source"`
}

// Containment is a plain container→contained edge (document→mention,
// sentence→mention, document→event).
type Containment struct {
	ContainerID string `json:"head"`
	ContainedID string `json:"tail"`
	Source      string `json:"source"`
}

// TermContainment is a document→vocabulary-identifier edge carrying the
// surface form that produced the match as provenance.
type TermContainment struct {
	DocID          string   `json:"head"`
	Identifier     string   `json:"tail"`
	Text           string   `json:"text,omitempty"`
	Type           string   `json:"type,omitempty"`
	CharStart      int      `json:"char_start,omitempty"`
	CharEnd        int      `json:"char_end,omitempty"`
	Source         string   `json:"source"`
	NormalizedName string   `json:"normalized_name,omitempty"`
	Prob           *float64 `json:"prob,omitempty"`
}

// Document is the in-memory record built by one document parse session.
// Maps are keyed by annotation-file local IDs; the *Order slices preserve
// input order so emission is deterministic.
type Document struct {
	ID string

	Mentions []*Mention

	Terms      map[string]*Term
	TermOrder  []string
	Events     map[string]*Event
	EventOrder []string

	// Links is keyed by the local link-instantiation ID (E<n> line ID) so
	// a later factuality line can back-patch every link it produced.
	Links     map[string][]*RoleLink
	LinkOrder []string

	Contains     []Containment
	Groundings   []GroundingLink
	TermContains []TermContainment
}

// NewDocument returns an empty per-document record.
func NewDocument(id string) *Document {
	return &Document{
		ID:     id,
		Terms:  make(map[string]*Term),
		Events: make(map[string]*Event),
		Links:  make(map[string][]*RoleLink),
	}
}

// LinkCount reports the number of role links recorded for the document.
func (d *Document) LinkCount() int {
	n := 0
	for _, links := range d.Links {
		n += len(links)
	}
	return n
}

// AddLink appends a role link under its local link-instantiation ID.
func (d *Document) AddLink(localID string, link *RoleLink) {
	if _, ok := d.Links[localID]; !ok {
		d.LinkOrder = append(d.LinkOrder, localID)
	}
	d.Links[localID] = append(d.Links[localID], link)
}

// DocNodeID returns the graph node ID of a document.
func DocNodeID(docID string) string {
	return "pmid" + docID
}

// SentenceNodeID returns the graph node ID of a sentence within a document.
func SentenceNodeID(docID string, index int) string {
	return DocNodeID(docID) + "_" + strconv.Itoa(index)
}
