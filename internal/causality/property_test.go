package causality

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/san-kum/bondsim/internal/bond"
)

var elementPrefixes = []string{"I", "C", "R"}

// chainGraph builds a source followed by alternating 1- and 0-junctions in
// series, each carrying one element picked by kinds.
func chainGraph(source string, kinds []int) (*bond.Graph, error) {
	junction := func(k int) string {
		if k%2 == 0 {
			return fmt.Sprintf("1_%d", k)
		}
		return fmt.Sprintf("0_%d", k)
	}

	n := 1
	bonds := []*bond.Bond{bond.New(n, source, junction(0), true)}
	for k, kind := range kinds {
		n++
		elem := fmt.Sprintf("%s_%d", elementPrefixes[kind], k)
		bonds = append(bonds, bond.New(n, junction(k), elem, true))
		if k+1 < len(kinds) {
			n++
			bonds = append(bonds, bond.New(n, junction(k), junction(k+1), k%2 == 0))
		}
	}
	return bond.NewGraph(bonds)
}

func sourceName(flow bool) string {
	if flow {
		return "SF"
	}
	return "SE"
}

func TestAssignProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	kinds := gen.SliceOf(gen.IntRange(0, len(elementPrefixes)-1)).
		SuchThat(func(v []int) bool { return len(v) > 0 })
	flowSource := gen.Bool()

	properties.Property("series chains are assigned completely", prop.ForAll(
		func(sf bool, ks []int) bool {
			g, err := chainGraph(sourceName(sf), ks)
			if err != nil {
				return false
			}
			if _, err := Assign(g); err != nil {
				return false
			}
			return g.Complete()
		},
		flowSource, kinds,
	))

	properties.Property("every junction has exactly one strong bond", prop.ForAll(
		func(sf bool, ks []int) bool {
			g, err := chainGraph(sourceName(sf), ks)
			if err != nil {
				return false
			}
			if _, err := Assign(g); err != nil {
				return false
			}
			for _, n := range g.Nodes() {
				if n.Kind.IsJunction() && strongCount(g, n) != 1 {
					return false
				}
			}
			return true
		},
		flowSource, kinds,
	))

	properties.Property("sources keep their own causality", prop.ForAll(
		func(sf bool, ks []int) bool {
			g, err := chainGraph(sourceName(sf), ks)
			if err != nil {
				return false
			}
			if _, err := Assign(g); err != nil {
				return false
			}
			for _, b := range g.Bonds() {
				for _, ep := range []bond.Endpoint{b.Source, b.Dest} {
					switch ep.Kind {
					case bond.KindSE:
						if !b.EffortAt(ep.Name) {
							return false
						}
					case bond.KindSF:
						if !b.FlowAt(ep.Name) {
							return false
						}
					}
				}
			}
			return true
		},
		flowSource, kinds,
	))

	properties.Property("assigning twice changes nothing", prop.ForAll(
		func(sf bool, ks []int) bool {
			g, err := chainGraph(sourceName(sf), ks)
			if err != nil {
				return false
			}
			if _, err := Assign(g); err != nil {
				return false
			}
			first := g.Causalities()
			res, err := Assign(g)
			if err != nil {
				return false
			}
			return res.Total() == 0 && cmp.Equal(first, g.Causalities())
		},
		flowSource, kinds,
	))

	properties.Property("a clone assigns the same as the original", prop.ForAll(
		func(sf bool, ks []int) bool {
			g, err := chainGraph(sourceName(sf), ks)
			if err != nil {
				return false
			}
			c := g.Clone()
			if _, err := Assign(g); err != nil {
				return false
			}
			if c.Complete() {
				return false
			}
			if _, err := Assign(c); err != nil {
				return false
			}
			if diff := cmp.Diff(g.Causalities(), c.Causalities()); diff != "" {
				t.Logf("causality mismatch (-orig +clone):\n%s", diff)
				return false
			}
			return true
		},
		flowSource, kinds,
	))

	properties.TestingRun(t)
}
