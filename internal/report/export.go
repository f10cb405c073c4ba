package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/network"
)

// NamedGraph pairs a graph with a stable file-friendly name.
type NamedGraph struct {
	Name  string
	Graph *model.RelationGraph
}

// Graphs lists every network of a run as pass_<team>, duel_<team> and
// proximity_<team>, where team is the passing or attacking side.
func Graphs(res *analysis.Result) []NamedGraph {
	var out []NamedGraph
	for _, p := range res.Passes {
		out = append(out, NamedGraph{Name: fileName(model.NetworkPass, p.Team), Graph: p.Graph})
	}
	for _, c := range res.Confrontations {
		out = append(out, NamedGraph{Name: fileName(c.Kind, c.Attacking), Graph: c.Graph})
	}
	return out
}

// WriteMatrixCSV writes the adjacency matrix of g with a header row of column
// players and the row player in the first column.
func WriteMatrixCSV(w io.Writer, g *model.RelationGraph) error {
	m := network.AdjacencyMatrix(g)
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, m.Cols...)); err != nil {
		return err
	}
	for i, row := range m.Rows {
		rec := make([]string, 0, len(m.Cols)+1)
		rec = append(rec, row)
		for _, v := range m.Cells[i] {
			rec = append(rec, strconv.Itoa(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MatrixDoc is the YAML form of one adjacency matrix.
type MatrixDoc struct {
	Name  string   `yaml:"name"`
	Rows  []string `yaml:"rows"`
	Cols  []string `yaml:"cols"`
	Cells [][]int  `yaml:"cells,flow"`
}

// ExportDoc is the YAML export of a whole run.
type ExportDoc struct {
	Analysis View        `yaml:"analysis"`
	Matrices []MatrixDoc `yaml:"matrices"`
}

// WriteYAML writes the run view followed by every adjacency matrix.
func WriteYAML(w io.Writer, res *analysis.Result) error {
	doc := ExportDoc{Analysis: NewView(res)}
	for _, ng := range Graphs(res) {
		m := network.AdjacencyMatrix(ng.Graph)
		doc.Matrices = append(doc.Matrices, MatrixDoc{Name: ng.Name, Rows: m.Rows, Cols: m.Cols, Cells: m.Cells})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func fileName(kind model.NetworkKind, team string) string {
	b := make([]rune, 0, len(team))
	for _, r := range team {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, r)
		case r >= 'A' && r <= 'Z':
			b = append(b, r+'a'-'A')
		default:
			if len(b) > 0 && b[len(b)-1] != '-' {
				b = append(b, '-')
			}
		}
	}
	return string(kind) + "_" + string(b)
}
