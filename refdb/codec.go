package refdb

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/dagmatch/dag"
)

type wireNode struct {
	Label  string    `json:"label"`
	Extent float64   `json:"extent"`
	Radius []float64 `json:"radius,omitempty"`
	Cost   float64   `json:"cost"`
	Type   string    `json:"type,omitempty"`
}

type wireEdge struct {
	From   dag.NodeID `json:"from"`
	To     dag.NodeID `json:"to"`
	Weight float64    `json:"weight"`
}

type wireDAG struct {
	ID    string     `json:"id"`
	Class string     `json:"class,omitempty"`
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

type wireTail struct {
	Entries []Entry `json:"entries"`
	MaxTSV  int     `json:"max_tsv"`
}

// MarshalDAG encodes the raw structure of g.
func MarshalDAG(g *dag.DAG) ([]byte, error) {
	w := wireDAG{ID: g.ID(), Class: g.Class()}
	for _, n := range g.Nodes() {
		w.Nodes = append(w.Nodes, wireNode{
			Label:  n.Label,
			Extent: n.Attr.Extent,
			Radius: n.Attr.Radius,
			Cost:   n.Attr.Cost,
			Type:   n.Attr.Type,
		})
	}
	for _, e := range g.Edges() {
		w.Edges = append(w.Edges, wireEdge{From: e.From, To: e.To, Weight: e.Weight})
	}

	return json.Marshal(&w)
}

// UnmarshalDAG rebuilds a DAG from MarshalDAG output. opts are applied
// before the stored id and class.
func UnmarshalDAG(raw []byte, opts ...dag.Option) (*dag.DAG, error) {
	var w wireDAG
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	gopts := append(append([]dag.Option(nil), opts...), dag.WithID(w.ID), dag.WithClass(w.Class))
	b := dag.NewBuilder(gopts...)
	for _, n := range w.Nodes {
		b.AddNode(n.Label, dag.Attributes{Extent: n.Extent, Radius: n.Radius, Cost: n.Cost, Type: n.Type})
	}
	for _, e := range w.Edges {
		b.AddEdge(e.From, e.To, e.Weight)
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptIndex, w.ID, err)
	}

	return g, nil
}
