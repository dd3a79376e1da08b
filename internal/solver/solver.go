package solver

import (
	"fmt"

	"github.com/san-kum/bondsim/internal/algebra"
	"github.com/san-kum/bondsim/internal/equations"
)

// Solver eliminates unknowns from a set of equations. The result maps each
// determined unknown to an explicit expression; an inconsistent set yields an
// empty map.
type Solver interface {
	Solve(eqs []algebra.Equation, unknowns []string) (map[string]algebra.Expr, error)
}

// SolverFunc adapts a plain function to Solver.
type SolverFunc func(eqs []algebra.Equation, unknowns []string) (map[string]algebra.Expr, error)

func (f SolverFunc) Solve(eqs []algebra.Equation, unknowns []string) (map[string]algebra.Expr, error) {
	return f(eqs, unknowns)
}

// Exact is the default solver: exact elimination over rational expressions.
var Exact Solver = SolverFunc(algebra.Solve)

const notFound = "not found"

type StateEquation struct {
	Derivative string
	State      string
	Element    string
	Expr       algebra.Expr
	Text       string
	Resolved   bool
}

// Solution is a solved effort or flow, reported alongside the states.
type Solution struct {
	Name string
	Bond int
	Role equations.Role
	Expr algebra.Expr
	Text string
}

type Report struct {
	States    []StateEquation
	Auxiliary []Solution
}

func (r *Report) Resolved() []StateEquation {
	var out []StateEquation
	for _, s := range r.States {
		if s.Resolved {
			out = append(out, s)
		}
	}
	return out
}

func (r *Report) Unresolved() []StateEquation {
	var out []StateEquation
	for _, s := range r.States {
		if !s.Resolved {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a state equation by derivative name.
func (r *Report) Lookup(derivative string) (StateEquation, bool) {
	for _, s := range r.States {
		if s.Derivative == derivative {
			return s, true
		}
	}
	return StateEquation{}, false
}

// Resolve solves sys for its state derivatives. A derivative the solver
// cannot express in states, parameters and inputs alone is reported as
// unresolved; only a solver failure is an error.
func Resolve(sys *equations.System, s Solver) (*Report, error) {
	if s == nil {
		s = Exact
	}
	sol, err := s.Solve(sys.Relations(), sys.Unknowns)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	unknown := make(map[string]bool, len(sys.Unknowns))
	for _, u := range sys.Unknowns {
		unknown[u] = true
	}
	explicit := func(name string) (algebra.Expr, bool) {
		x, ok := sol[name]
		if !ok {
			return algebra.Expr{}, false
		}
		for _, sym := range x.Symbols() {
			if unknown[sym] {
				return algebra.Expr{}, false
			}
		}
		return x, true
	}

	rep := &Report{}
	for _, st := range sys.States {
		se := StateEquation{Derivative: st.Derivative, State: st.Symbol, Element: st.Element}
		if x, ok := explicit(st.Derivative); ok {
			se.Expr, se.Resolved = x, true
			se.Text = st.Derivative + " = " + x.String()
		} else {
			se.Text = st.Derivative + " = " + notFound
		}
		rep.States = append(rep.States, se)
	}

	for _, v := range sys.Variables {
		x, ok := explicit(v.Name)
		if !ok {
			continue
		}
		rep.Auxiliary = append(rep.Auxiliary, Solution{
			Name: v.Name,
			Bond: v.Bond,
			Role: v.Role,
			Expr: x,
			Text: v.Name + " = " + x.String(),
		})
	}
	return rep, nil
}
