package bulk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glkb/annograph/pkg/emit"
)

func TestWriteNodes(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, emit.DefaultDelimiters())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	nodes := []emit.Node{
		{
			ID:    "ent-1-0-5-gene",
			Label: "genomic_mention",
			Props: []emit.Property{
				{Key: "text", Value: emit.String("BRCA1")},
				{Key: "type", Value: emit.String("gene")},
				{Key: "source", Value: emit.String("BERN2")},
			},
		},
		{
			ID:    "dem_event_1_T3",
			Label: "event_binding",
			Props: []emit.Property{
				{Key: "text", Value: emit.String("binds; tightly")},
				{Key: "source", Value: emit.String("DEM")},
			},
		},
	}
	if err := w.WriteNodes(nodes); err != nil {
		t.Fatalf("WriteNodes() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "nodes_genomic_mention.csv"))
	if err != nil {
		t.Fatalf("reading mention file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("mention file has %d lines, want 2", len(lines))
	}
	wantHeader := ":ID;text;char_start;char_end;type;source;normalized_name;prob;:LABEL"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow := "ent-1-0-5-gene;BRCA1;;;gene;BERN2;;;genomic_mention"
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}

	data, err = os.ReadFile(filepath.Join(dir, "nodes_event_binding.csv"))
	if err != nil {
		t.Fatalf("reading event file: %v", err)
	}
	lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// The field separator inside the property value must be escaped away.
	if !strings.Contains(lines[1], "binds  tightly") {
		t.Errorf("event row = %q, want escaped text", lines[1])
	}
}

func TestWriteEdges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, emit.DefaultDelimiters())
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	edges := []emit.Edge{
		{
			Head:  "dem_ent_1_T1",
			Tail:  "dem_event_1_T3",
			Label: "in_event",
			Props: []emit.Property{
				{Key: "role", Value: emit.String("Theme")},
				{Key: "source", Value: emit.String("DEM")},
			},
		},
		{
			Head:  "pmid1",
			Tail:  "dem_ent_1_T1",
			Label: "contain_mention",
			Props: []emit.Property{
				{Key: "source", Value: emit.String("DEM")},
			},
		},
	}
	if err := w.WriteEdges(edges); err != nil {
		t.Fatalf("WriteEdges() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "edges_in_event.csv"))
	if err != nil {
		t.Fatalf("reading in_event file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	wantHeader := ":START_ID;text;source;char_start;char_end;role;factuality;:END_ID;:TYPE"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow := "dem_ent_1_T1;;DEM;;;Theme;;dem_event_1_T3;in_event"
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}

	if _, err := os.Stat(filepath.Join(dir, "edges_contain_mention.csv")); err != nil {
		t.Errorf("contain_mention file missing: %v", err)
	}
}
