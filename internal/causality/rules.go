package causality

import (
	"github.com/san-kum/bondsim/internal/bond"
)

// A 0-junction shares one effort among its bonds, a 1-junction one flow. The
// strong bond is the single bond that supplies that shared quantity: the
// junction computes flow on it (0) or effort on it (1).
func isStrong(node bond.Endpoint, b *bond.Bond) bool {
	if node.Kind == bond.KindZero {
		return b.FlowAt(node.Name)
	}
	return b.EffortAt(node.Name)
}

func strongCausality(node bond.Endpoint, b *bond.Bond) bond.Causality {
	if node.Kind == bond.KindZero {
		return b.FlowCausality(node.Name)
	}
	return b.EffortCausality(node.Name)
}

func weakCausality(node bond.Endpoint, b *bond.Bond) bond.Causality {
	if node.Kind == bond.KindZero {
		return b.EffortCausality(node.Name)
	}
	return b.FlowCausality(node.Name)
}

func (r *run) visitJunction(node bond.Endpoint) error {
	var strong, open []*bond.Bond
	bonds := r.g.Incident(node.Name)
	for _, b := range bonds {
		switch {
		case !b.Determined():
			open = append(open, b)
		case isStrong(node, b):
			strong = append(strong, b)
		}
	}

	switch {
	case len(strong) > 1:
		return &bond.ModelingError{Node: node.Name, Bonds: bond.Numbers(strong),
			Reason: "more than one strong bond"}
	case len(strong) == 1:
		for _, b := range open {
			if err := r.set(b, weakCausality(node, b)); err != nil {
				return err
			}
		}
	case len(open) == 1:
		return r.set(open[0], strongCausality(node, open[0]))
	case len(open) == 0:
		return &bond.ModelingError{Node: node.Name, Bonds: bond.Numbers(bonds),
			Reason: "no strong bond"}
	}
	return nil
}

func (r *run) checkJunction(node bond.Endpoint) error {
	bonds := r.g.Incident(node.Name)
	var strong []*bond.Bond
	for _, b := range bonds {
		if !b.Determined() {
			return nil
		}
		if isStrong(node, b) {
			strong = append(strong, b)
		}
	}
	switch len(strong) {
	case 1:
		return nil
	case 0:
		return &bond.ModelingError{Node: node.Name, Bonds: bond.Numbers(bonds),
			Reason: "no strong bond"}
	default:
		return &bond.ModelingError{Node: node.Name, Bonds: bond.Numbers(strong),
			Reason: "more than one strong bond"}
	}
}

// A transformer passes effort through: it computes effort on exactly one of
// its bonds. A gyrator crosses effort and flow: it computes effort on both
// bonds or on neither.
func twoPortConsistent(node bond.Endpoint, a, b *bond.Bond) bool {
	ea, eb := a.EffortAt(node.Name), b.EffortAt(node.Name)
	if node.Kind == bond.KindTF {
		return ea != eb
	}
	return ea == eb
}

func twoPortReason(node bond.Endpoint) string {
	if node.Kind == bond.KindTF {
		return "transformer must compute effort on exactly one bond"
	}
	return "gyrator must compute the same variable on both bonds"
}

func (r *run) visitTwoPort(node bond.Endpoint) error {
	bonds := r.g.Incident(node.Name)
	a, b := bonds[0], bonds[1]
	if !a.Determined() && !b.Determined() {
		return nil
	}
	if a.Determined() && b.Determined() {
		return r.checkTwoPort(node)
	}

	known, other := a, b
	if !a.Determined() {
		known, other = b, a
	}
	effortOut := known.EffortAt(node.Name)
	if node.Kind == bond.KindTF {
		effortOut = !effortOut
	}
	if effortOut {
		return r.set(other, other.EffortCausality(node.Name))
	}
	return r.set(other, other.FlowCausality(node.Name))
}

func (r *run) checkTwoPort(node bond.Endpoint) error {
	bonds := r.g.Incident(node.Name)
	a, b := bonds[0], bonds[1]
	if !a.Determined() || !b.Determined() {
		return nil
	}
	if !twoPortConsistent(node, a, b) {
		return &bond.ModelingError{Node: node.Name, Bonds: bond.Numbers(bonds),
			Reason: twoPortReason(node)}
	}
	return nil
}
