package parse

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/glkb/annograph/pkg/annot"
	"github.com/glkb/annograph/pkg/ground"
	"github.com/glkb/annograph/pkg/logger"
)

// SourceStandoff tags records produced by the standoff event parser.
const SourceStandoff = "DEM"

const maxStandoffLine = 1024 * 1024

var (
	spaceBeforePunct = regexp.MustCompile(` ([^a-zA-Z\d\s]+)`)
	spaceAfterPunct  = regexp.MustCompile(`([^a-zA-Z\d\s]+) `)
)

// normalizeSpacing strips the isolated spaces the upstream tokenizer
// inserts around punctuation ("IL - 2" becomes "IL-2").
func normalizeSpacing(text string) string {
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = spaceAfterPunct.ReplaceAllString(text, "$1")
	return text
}

// StandoffParser is a line-oriented state machine over standoff event
// annotation files. Document blocks are delimited by "### <doc_id>"
// header lines; within a block, tab-separated T (term/trigger), E
// (event instance), and M (factuality) lines build up the document
// record. A document is kept only if it produced at least one role
// link, so truncated blocks emit nothing.
type StandoffParser struct {
	gateway ground.Gateway
}

// NewStandoffParser creates a parser using the given grounding gateway.
// Standoff terms are grounded against the gene vocabulary, matching the
// annotator's output domain.
func NewStandoffParser(gateway ground.Gateway) *StandoffParser {
	return &StandoffParser{gateway: gateway}
}

// TermNodeID derives the graph node ID of a standoff term.
func TermNodeID(docID, localID string) string {
	return "dem_ent_" + docID + "_" + localID
}

// EventNodeID derives the graph node ID of a standoff event trigger.
func EventNodeID(docID, localID string) string {
	return "dem_event_" + docID + "_" + localID
}

// Parse consumes a standoff annotation stream and returns the finalized
// document records in input order. Unresolvable argument references are
// skipped silently; malformed lines are skipped with a diagnostic.
func (p *StandoffParser) Parse(ctx context.Context, r io.Reader) ([]*annot.Document, error) {
	var out []*annot.Document

	var doc *annot.Document
	seen := NewSeenLinks()
	// Event-instance local ID (E<n>) to trigger local ID (T<n>), needed
	// to resolve secondary-event arguments to their canonical event.
	instanceTrigger := make(map[string]string)

	finalize := func() {
		if doc != nil && doc.LinkCount() > 0 {
			out = append(out, doc)
		} else if doc != nil {
			logger.Debug("Discarding document without role links", "doc", doc.ID)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStandoffLine)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()

		if strings.HasPrefix(line, "###") {
			finalize()
			doc = annot.NewDocument(strings.TrimSpace(line[3:]))
			seen.Reset()
			instanceTrigger = make(map[string]string)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if doc == nil {
			logger.Warn("Skipping annotation line before first document header")
			continue
		}

		fields := strings.Split(line, "\t")
		switch line[0] {
		case 'T':
			p.handleTerm(ctx, doc, fields)
		case 'E':
			p.handleEventInstance(doc, seen, instanceTrigger, fields)
		case 'M':
			p.handleFactuality(doc, fields)
		default:
			logger.Warn("Skipping unrecognized annotation line", "doc", doc.ID, "tag", string(line[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	finalize()
	return out, nil
}

// handleTerm processes a T line: localID, annotation label, char start,
// char end, surface text. Labels in the event-trigger vocabulary become
// events; everything else becomes a grounded term.
func (p *StandoffParser) handleTerm(ctx context.Context, doc *annot.Document, fields []string) {
	if len(fields) < 5 {
		logger.Warn("Skipping malformed term line", "doc", doc.ID, "fields", len(fields))
		return
	}
	localID, label := fields[0], fields[1]
	start, err1 := strconv.Atoi(fields[2])
	end, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || start < 0 || end <= start {
		logger.Warn("Skipping term line with bad span", "doc", doc.ID, "local_id", localID)
		return
	}
	text := normalizeSpacing(fields[4])
	docNode := annot.DocNodeID(doc.ID)

	if annot.EventTriggerTypes[label] {
		event := &annot.Event{
			ID:        EventNodeID(doc.ID, localID),
			LocalID:   localID,
			Type:      label,
			Label:     "event_" + strings.ToLower(label),
			Text:      text,
			CharStart: start,
			CharEnd:   end,
			Source:    SourceStandoff,
		}
		// A repeated local ID replaces the node but must not emit twice.
		if _, ok := doc.Events[localID]; !ok {
			doc.EventOrder = append(doc.EventOrder, localID)
		}
		doc.Events[localID] = event
		doc.Contains = append(doc.Contains, annot.Containment{
			ContainerID: docNode,
			ContainedID: event.ID,
			Source:      SourceStandoff,
		})
		return
	}

	term := &annot.Term{
		ID:        TermNodeID(doc.ID, localID),
		LocalID:   localID,
		Text:      text,
		CharStart: start,
		CharEnd:   end,
		Type:      label,
		Source:    SourceStandoff,
	}
	matches, err := p.gateway.Ground(ctx, text, annot.TypeGene)
	if err != nil {
		logger.Warn("Grounding failed for standoff term", "doc", doc.ID, "text", text, "error", err)
	}
	for _, m := range matches {
		term.Grounding = append(term.Grounding, annot.Grounding{Identifier: m.Identifier, Score: m.Score})
	}
	if _, ok := doc.Terms[localID]; !ok {
		doc.TermOrder = append(doc.TermOrder, localID)
	}
	doc.Terms[localID] = term
	doc.Contains = append(doc.Contains, annot.Containment{
		ContainerID: docNode,
		ContainedID: term.ID,
		Source:      SourceStandoff,
	})
	for _, g := range term.Grounding {
		score := g.Score
		doc.Groundings = append(doc.Groundings, annot.GroundingLink{
			MentionID:  term.ID,
			Identifier: g.Identifier,
			Score:      &score,
			Source:     SourceStandoff,
		})
		doc.TermContains = append(doc.TermContains, annot.TermContainment{
			DocID:      docNode,
			Identifier: g.Identifier,
			Text:       term.Text,
			Type:       term.Type,
			CharStart:  term.CharStart,
			CharEnd:    term.CharEnd,
			Source:     SourceStandoff,
		})
	}
}

// handleEventInstance processes an E line: localID then a space-separated
// argument list whose first element names the trigger ("Type:T<n>") and
// whose remainder are "role:argID" pairs. Term arguments link term to
// event; event arguments link the referenced event to this one. Repeated
// (event, argument) declarations collapse to a single link.
func (p *StandoffParser) handleEventInstance(doc *annot.Document, seen *SeenLinks, instanceTrigger map[string]string, fields []string) {
	if len(fields) < 2 {
		logger.Warn("Skipping malformed event line", "doc", doc.ID)
		return
	}
	localID := fields[0]
	parts := strings.Fields(fields[1])
	if len(parts) == 0 || !strings.Contains(parts[0], ":") {
		logger.Warn("Skipping event line without trigger reference", "doc", doc.ID, "local_id", localID)
		return
	}
	triggerID := parts[0][strings.Index(parts[0], ":")+1:]
	instanceTrigger[localID] = triggerID

	event, ok := doc.Events[triggerID]
	if !ok {
		return
	}

	for _, arg := range parts[1:] {
		role, argID, ok := strings.Cut(arg, ":")
		if !ok {
			logger.Warn("Skipping malformed event argument", "doc", doc.ID, "arg", arg)
			continue
		}
		switch {
		case strings.HasPrefix(argID, "T"):
			term, ok := doc.Terms[argID]
			if !ok {
				continue
			}
			event.AddParticipant(argID)
			if !seen.AlreadyLinked(triggerID, argID) {
				doc.AddLink(localID, &annot.RoleLink{
					HeadID: term.ID,
					TailID: event.ID,
					Role:   role,
					Text:   term.Text,
					Source: SourceStandoff,
				})
			}
			seen.MarkLinked(triggerID, argID)
		case strings.HasPrefix(argID, "E"):
			// Secondary event: resolve the referenced instance to its
			// trigger and record a direct event-to-event link. Nested
			// arguments are not expanded to their leaf terms.
			refTrigger, ok := instanceTrigger[argID]
			if !ok {
				continue
			}
			refEvent, ok := doc.Events[refTrigger]
			if !ok {
				continue
			}
			event.AddParticipant(argID)
			if !seen.AlreadyLinked(triggerID, argID) {
				doc.AddLink(localID, &annot.RoleLink{
					HeadID: refEvent.ID,
					TailID: event.ID,
					Role:   role,
					Text:   refEvent.Text,
					Source: SourceStandoff,
				})
			}
			seen.MarkLinked(triggerID, argID)
		}
	}
}

// handleFactuality processes an M line: localID then "<value> <E-line ID>".
// Every role link recorded under that event-instance ID gets the value.
func (p *StandoffParser) handleFactuality(doc *annot.Document, fields []string) {
	if len(fields) < 2 {
		logger.Warn("Skipping malformed factuality line", "doc", doc.ID)
		return
	}
	parts := strings.Fields(fields[1])
	if len(parts) < 2 {
		logger.Warn("Skipping factuality line without event reference", "doc", doc.ID)
		return
	}
	value, linkID := parts[0], parts[1]
	for _, link := range doc.Links[linkID] {
		link.Factuality = value
	}
}
