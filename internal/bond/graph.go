package bond

import (
	"fmt"
	"sort"
)

// Graph is a validated bond list with a node index. The topology never
// changes after NewGraph; the bonds' causality marks may.
type Graph struct {
	bonds    []*Bond
	byNumber map[int]*Bond
	incident map[string][]*Bond
	nodes    []Endpoint
}

// NewGraph indexes bonds and checks the structural rules every model must
// satisfy before causality can be assigned.
func NewGraph(bonds []*Bond) (*Graph, error) {
	g := &Graph{
		bonds:    make([]*Bond, 0, len(bonds)),
		byNumber: make(map[int]*Bond, len(bonds)),
		incident: make(map[string][]*Bond),
	}

	seen := make(map[string]Endpoint)
	for _, b := range bonds {
		if b == nil {
			return nil, fmt.Errorf("%w: nil bond", ErrInvalidBond)
		}
		if b.Number <= 0 {
			return nil, fmt.Errorf("%w: bond number %d must be positive", ErrInvalidBond, b.Number)
		}
		if b.Source.Name == "" || b.Dest.Name == "" {
			return nil, fmt.Errorf("%w: bond %d has an empty endpoint", ErrInvalidBond, b.Number)
		}
		if b.Source.Name == b.Dest.Name {
			return nil, fmt.Errorf("%w: bond %d connects %s to itself", ErrInvalidBond, b.Number, b.Source.Name)
		}
		if _, dup := g.byNumber[b.Number]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateBond, b.Number)
		}
		g.byNumber[b.Number] = b
		g.bonds = append(g.bonds, b)
		for _, ep := range []Endpoint{b.Source, b.Dest} {
			g.incident[ep.Name] = append(g.incident[ep.Name], b)
			seen[ep.Name] = ep
		}
	}

	sort.Slice(g.bonds, func(i, j int) bool { return g.bonds[i].Number < g.bonds[j].Number })
	for name := range g.incident {
		list := g.incident[name]
		sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	}

	g.nodes = make([]Endpoint, 0, len(seen))
	for _, ep := range seen {
		g.nodes = append(g.nodes, ep)
	}
	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i].Name < g.nodes[j].Name })

	if err := g.checkArity(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) checkArity() error {
	for _, n := range g.nodes {
		bonds := g.incident[n.Name]
		switch {
		case n.Kind.IsTwoPort() && len(bonds) != 2:
			return &ModelingError{Node: n.Name, Bonds: Numbers(bonds),
				Reason: fmt.Sprintf("two-port has %d bonds, must have exactly 2", len(bonds))}
		case n.Kind.IsJunction() && len(bonds) < 2:
			return &ModelingError{Node: n.Name, Bonds: Numbers(bonds),
				Reason: "junction needs at least 2 bonds"}
		case n.Kind.IsOnePort() && len(bonds) != 1:
			return &ModelingError{Node: n.Name, Bonds: Numbers(bonds),
				Reason: fmt.Sprintf("one-port element has %d bonds, must have exactly 1", len(bonds))}
		}
	}
	return nil
}

// Bonds returns the bonds in ascending number order.
func (g *Graph) Bonds() []*Bond { return g.bonds }

// Bond looks a bond up by number.
func (g *Graph) Bond(number int) (*Bond, bool) {
	b, ok := g.byNumber[number]
	return b, ok
}

// Incident returns the bonds attached to node in ascending number order.
func (g *Graph) Incident(node string) []*Bond { return g.incident[node] }

// Nodes returns every endpoint of the graph sorted by name.
func (g *Graph) Nodes() []Endpoint { return g.nodes }

// Node resolves a node name to its endpoint.
func (g *Graph) Node(name string) (Endpoint, error) {
	if _, ok := g.incident[name]; !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return NewEndpoint(name), nil
}

// Undetermined returns the bonds still lacking causality.
func (g *Graph) Undetermined() []*Bond {
	var out []*Bond
	for _, b := range g.bonds {
		if !b.Determined() {
			out = append(out, b)
		}
	}
	return out
}

// Complete reports whether every bond has a causality.
func (g *Graph) Complete() bool { return len(g.Undetermined()) == 0 }

// Causalities snapshots the causality mark of every bond keyed by number.
func (g *Graph) Causalities() map[int]Causality {
	out := make(map[int]Causality, len(g.bonds))
	for _, b := range g.bonds {
		out[b.Number] = b.Causality
	}
	return out
}

// ClearCausality resets every bond to Undetermined.
func (g *Graph) ClearCausality() {
	for _, b := range g.bonds {
		b.ClearCausality()
	}
}

// Clone deep-copies the bonds so the copy can be assigned independently.
func (g *Graph) Clone() *Graph {
	bonds := make([]*Bond, len(g.bonds))
	for i, b := range g.bonds {
		bonds[i] = b.Clone()
	}
	c, err := NewGraph(bonds)
	if err != nil {
		// the source graph already passed validation
		panic(err)
	}
	return c
}

// Numbers lists the bond numbers of bonds in the given order.
func Numbers(bonds []*Bond) []int {
	out := make([]int, len(bonds))
	for i, b := range bonds {
		out[i] = b.Number
	}
	return out
}
