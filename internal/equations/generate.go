package equations

import (
	"fmt"
	"sort"

	"github.com/san-kum/bondsim/internal/algebra"
	"github.com/san-kum/bondsim/internal/bond"
)

// Equation is one generated relation with the node it came from.
type Equation struct {
	algebra.Equation
	Node  string
	Bonds []int
}

// State is an energy variable of a storage element and its time derivative.
type State struct {
	Bond       int
	Element    string
	Kind       bond.Kind
	Symbol     string
	Derivative string
}

type System struct {
	Equations []Equation

	// Unknowns holds the efforts and flows in bond order followed by the
	// state derivatives.
	Unknowns []string

	// Variables are the effort and flow symbols in bond order.
	Variables []Symbol

	States     []State
	Parameters []string
	Inputs     []string
}

// Derivatives lists the state derivative names in state order.
func (s *System) Derivatives() []string {
	out := make([]string, len(s.States))
	for i, st := range s.States {
		out[i] = st.Derivative
	}
	return out
}

// StateNames lists the state variable names in state order.
func (s *System) StateNames() []string {
	out := make([]string, len(s.States))
	for i, st := range s.States {
		out[i] = st.Symbol
	}
	return out
}

// Relations strips node information for the solver.
func (s *System) Relations() []algebra.Equation {
	out := make([]algebra.Equation, len(s.Equations))
	for i, eq := range s.Equations {
		out[i] = eq.Equation
	}
	return out
}

type generator struct {
	ctx *Context
	g   *bond.Graph
	sys *System
}

// Generate emits the constitutive law of every element and the conservation
// laws of every junction. Each equation has the quantity the node computes
// under the assigned causality on its left-hand side.
func Generate(ctx *Context, g *bond.Graph) (*System, error) {
	if open := g.Undetermined(); len(open) > 0 {
		return nil, fmt.Errorf("%w: bonds %v", ErrCausalityRequired, bond.Numbers(open))
	}

	gen := &generator{ctx: ctx, g: g, sys: &System{}}
	for _, b := range g.Bonds() {
		ctx.Effort(b.Number)
		ctx.Flow(b.Number)
		for _, name := range []string{EffortName(b.Number), FlowName(b.Number)} {
			s, _ := ctx.Lookup(name)
			gen.sys.Variables = append(gen.sys.Variables, s)
			gen.sys.Unknowns = append(gen.sys.Unknowns, name)
		}
	}

	for _, n := range g.Nodes() {
		var err error
		switch {
		case n.Kind.IsJunction():
			err = gen.junction(n)
		case n.Kind.IsTwoPort():
			gen.twoPort(n)
		case n.Kind.IsOnePort():
			gen.onePort(n, g.Incident(n.Name)[0])
		}
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(gen.sys.States, func(i, j int) bool { return gen.sys.States[i].Bond < gen.sys.States[j].Bond })
	for _, st := range gen.sys.States {
		gen.sys.Unknowns = append(gen.sys.Unknowns, st.Derivative)
	}
	gen.sys.Parameters = ctx.Names(RoleParameter)
	gen.sys.Inputs = ctx.Names(RoleInput)
	return gen.sys, nil
}

func (gen *generator) emit(node string, lhs, rhs algebra.Expr, bonds ...int) {
	gen.sys.Equations = append(gen.sys.Equations, Equation{
		Equation: algebra.Eq(lhs, rhs),
		Node:     node,
		Bonds:    bonds,
	})
}

func (gen *generator) onePort(n bond.Endpoint, b *bond.Bond) {
	ctx := gen.ctx
	e, f := ctx.Effort(b.Number), ctx.Flow(b.Number)
	switch n.Kind {
	case bond.KindSE:
		gen.emit(n.Name, e, ctx.Input(n.Name), b.Number)
	case bond.KindSF:
		gen.emit(n.Name, f, ctx.Input(n.Name), b.Number)
	case bond.KindR:
		r := ctx.Parameter(n.Name)
		if b.EffortAt(n.Name) {
			gen.emit(n.Name, e, r.Mul(f), b.Number)
		} else {
			gen.emit(n.Name, f, e.Div(r), b.Number)
		}
	case bond.KindI:
		p, i := ctx.Momentum(b.Number, n.Name), ctx.Parameter(n.Name)
		pdot := ctx.MomentumRate(b.Number, n.Name)
		gen.emit(n.Name, f, p.Div(i), b.Number)
		gen.emit(n.Name, pdot, e, b.Number)
		gen.addState(b.Number, n, p, pdot)
	case bond.KindC:
		q, c := ctx.Displacement(b.Number, n.Name), ctx.Parameter(n.Name)
		qdot := ctx.DisplacementRate(b.Number, n.Name)
		gen.emit(n.Name, e, q.Div(c), b.Number)
		gen.emit(n.Name, qdot, f, b.Number)
		gen.addState(b.Number, n, q, qdot)
	}
}

func (gen *generator) addState(number int, n bond.Endpoint, state, rate algebra.Expr) {
	gen.sys.States = append(gen.sys.States, State{
		Bond:       number,
		Element:    n.Name,
		Kind:       n.Kind,
		Symbol:     state.String(),
		Derivative: rate.String(),
	})
}

// twoPort orders the bonds so that bond 1 carries power away from the
// element, falling back to the lower bond number.
func (gen *generator) twoPort(n bond.Endpoint) {
	bonds := gen.g.Incident(n.Name)
	b1, b2 := bonds[0], bonds[1]
	if b1.PowerInto(n.Name) && !b2.PowerInto(n.Name) {
		b1, b2 = b2, b1
	}

	ctx := gen.ctx
	m := ctx.Parameter(n.Name)
	e1, f1 := ctx.Effort(b1.Number), ctx.Flow(b1.Number)
	e2, f2 := ctx.Effort(b2.Number), ctx.Flow(b2.Number)
	nums := []int{b1.Number, b2.Number}

	if n.Kind == bond.KindTF {
		if b1.EffortAt(n.Name) {
			gen.emit(n.Name, e1, m.Mul(e2), nums...)
			gen.emit(n.Name, f2, m.Mul(f1), nums...)
		} else {
			gen.emit(n.Name, e2, e1.Div(m), nums...)
			gen.emit(n.Name, f1, f2.Div(m), nums...)
		}
		return
	}

	if b1.EffortAt(n.Name) {
		gen.emit(n.Name, e1, m.Mul(f2), nums...)
		gen.emit(n.Name, e2, m.Mul(f1), nums...)
	} else {
		gen.emit(n.Name, f2, e1.Div(m), nums...)
		gen.emit(n.Name, f1, e2.Div(m), nums...)
	}
}

// junction emits the shared-variable equalities against the strong bond and
// solves the signed balance for the strong bond's other variable. A bond
// carrying power into the junction counts positive.
func (gen *generator) junction(n bond.Endpoint) error {
	bonds := gen.g.Incident(n.Name)
	var strong *bond.Bond
	for _, b := range bonds {
		computed := b.EffortAt(n.Name)
		if n.Kind == bond.KindZero {
			computed = b.FlowAt(n.Name)
		}
		if !computed {
			continue
		}
		if strong != nil {
			return &bond.ModelingError{Node: n.Name, Bonds: bond.Numbers(bonds),
				Reason: "more than one strong bond"}
		}
		strong = b
	}
	if strong == nil {
		return &bond.ModelingError{Node: n.Name, Bonds: bond.Numbers(bonds),
			Reason: "no strong bond"}
	}

	shared, summed := gen.ctx.Effort, gen.ctx.Flow
	if n.Kind == bond.KindOne {
		shared, summed = gen.ctx.Flow, gen.ctx.Effort
	}

	sum := algebra.Zero()
	for _, b := range bonds {
		if b == strong {
			continue
		}
		gen.emit(n.Name, shared(b.Number), shared(strong.Number), b.Number, strong.Number)
		if b.PowerInto(n.Name) {
			sum = sum.Add(summed(b.Number))
		} else {
			sum = sum.Sub(summed(b.Number))
		}
	}

	// sign_s*x_s + sum = 0 and sign_s is its own inverse.
	rhs := sum.Neg()
	if !strong.PowerInto(n.Name) {
		rhs = sum
	}
	gen.emit(n.Name, summed(strong.Number), rhs, bond.Numbers(bonds)...)
	return nil
}
