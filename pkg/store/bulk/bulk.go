// Package bulk writes node and edge records as delimiter-separated
// files for the graph database's offline bulk importer. One file per
// label, with the importer's :ID/:LABEL and :START_ID/:END_ID/:TYPE
// header columns.
package bulk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glkb/annograph/pkg/emit"
)

// Writer renders record streams into an output directory.
type Writer struct {
	dir    string
	delims emit.Delimiters
}

// NewWriter creates a writer targeting dir, creating it if needed.
func NewWriter(dir string, delims emit.Delimiters) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir, delims: delims}, nil
}

// WriteNodes writes one file per node label. Every file carries the
// label's full column set; records missing a property leave the column
// empty.
func (w *Writer) WriteNodes(nodes []emit.Node) error {
	grouped, order := groupNodes(nodes)
	for _, label := range order {
		path := filepath.Join(w.dir, "nodes_"+sanitizeLabel(label)+".csv")
		if err := w.writeNodeFile(path, label, grouped[label]); err != nil {
			return err
		}
	}
	return nil
}

// WriteEdges writes one file per edge label.
func (w *Writer) WriteEdges(edges []emit.Edge) error {
	grouped, order := groupEdges(edges)
	for _, label := range order {
		path := filepath.Join(w.dir, "edges_"+sanitizeLabel(label)+".csv")
		if err := w.writeEdgeFile(path, label, grouped[label]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeNodeFile(path, label string, nodes []emit.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create node file: %w", err)
	}
	defer f.Close()
	buf := bufio.NewWriter(f)

	fields := emit.FieldsFor(label)
	header := append([]string{":ID"}, fields...)
	header = append(header, ":LABEL")
	if _, err := buf.WriteString(strings.Join(header, w.delims.Field) + w.delims.Record); err != nil {
		return err
	}

	for _, node := range nodes {
		props := propMap(node.Props)
		row := make([]string, 0, len(header))
		row = append(row, w.delims.Escape(node.ID))
		for _, field := range fields {
			if v, ok := props[field]; ok {
				row = append(row, v.Render(w.delims))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, w.delims.Escape(node.Label))
		if _, err := buf.WriteString(strings.Join(row, w.delims.Field) + w.delims.Record); err != nil {
			return err
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush node file: %w", err)
	}
	return nil
}

func (w *Writer) writeEdgeFile(path, label string, edges []emit.Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create edge file: %w", err)
	}
	defer f.Close()
	buf := bufio.NewWriter(f)

	fields := emit.FieldsFor(label)
	header := append([]string{":START_ID"}, fields...)
	header = append(header, ":END_ID", ":TYPE")
	if _, err := buf.WriteString(strings.Join(header, w.delims.Field) + w.delims.Record); err != nil {
		return err
	}

	for _, edge := range edges {
		props := propMap(edge.Props)
		row := make([]string, 0, len(header))
		row = append(row, w.delims.Escape(edge.Head))
		for _, field := range fields {
			if v, ok := props[field]; ok {
				row = append(row, v.Render(w.delims))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, w.delims.Escape(edge.Tail), w.delims.Escape(edge.Label))
		if _, err := buf.WriteString(strings.Join(row, w.delims.Field) + w.delims.Record); err != nil {
			return err
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush edge file: %w", err)
	}
	return nil
}

func propMap(props []emit.Property) map[string]emit.Value {
	m := make(map[string]emit.Value, len(props))
	for _, p := range props {
		m[p.Key] = p.Value
	}
	return m
}

func groupNodes(nodes []emit.Node) (map[string][]emit.Node, []string) {
	grouped := make(map[string][]emit.Node)
	var order []string
	for _, node := range nodes {
		if _, ok := grouped[node.Label]; !ok {
			order = append(order, node.Label)
		}
		grouped[node.Label] = append(grouped[node.Label], node)
	}
	return grouped, order
}

func groupEdges(edges []emit.Edge) (map[string][]emit.Edge, []string) {
	grouped := make(map[string][]emit.Edge)
	var order []string
	for _, edge := range edges {
		if _, ok := grouped[edge.Label]; !ok {
			order = append(order, edge.Label)
		}
		grouped[edge.Label] = append(grouped[edge.Label], edge)
	}
	return grouped, order
}

func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, label)
}
