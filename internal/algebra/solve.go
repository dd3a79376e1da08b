package algebra

import "fmt"

// Equation states LHS = RHS.
type Equation struct {
	LHS Expr
	RHS Expr
}

func Eq(lhs, rhs Expr) Equation { return Equation{LHS: lhs, RHS: rhs} }

func (e Equation) String() string {
	return e.LHS.String() + " = " + e.RHS.String()
}

// Residual returns LHS - RHS.
func (e Equation) Residual() Expr { return e.LHS.Sub(e.RHS) }

// Linear splits x into sum(coefs[v]*v) + constant over vars. Symbols not in
// vars are treated as constants. x must be linear in vars and vars must not
// appear in its denominator.
func Linear(x Expr, vars []string) (map[string]Expr, Expr, error) {
	x = x.valid()
	isVar := make(map[string]bool, len(vars))
	for _, v := range vars {
		isVar[v] = true
	}
	for _, t := range x.den {
		for _, f := range t.mono {
			if isVar[f.name] {
				return nil, Expr{}, fmt.Errorf("%w: %s appears in a denominator", ErrNonlinear, f.name)
			}
		}
	}

	coefNum := make(map[string]Poly)
	constNum := Poly{}
	for _, t := range x.num {
		found := ""
		for _, f := range t.mono {
			if !isVar[f.name] {
				continue
			}
			if f.exp != 1 || found != "" {
				return nil, Expr{}, fmt.Errorf("%w: term %s", ErrNonlinear, formatTerm(t))
			}
			found = f.name
		}
		if found == "" {
			constNum.addTerm(t)
			continue
		}
		p, ok := coefNum[found]
		if !ok {
			p = Poly{}
			coefNum[found] = p
		}
		p.addTerm(term{mono: t.mono.without(found), coef: t.coef})
	}

	coefs := make(map[string]Expr, len(coefNum))
	for v, p := range coefNum {
		if p.isZero() {
			continue
		}
		coefs[v] = normalize(p, x.den)
	}
	return coefs, normalize(constNum, x.den), nil
}

type row struct {
	coefs map[string]Expr
	konst Expr
	used  bool
}

// sub sets r to r - k*o.
func (r *row) sub(k Expr, o *row) {
	for v, c := range o.coefs {
		next := r.coefs[v].valid().Sub(k.Mul(c))
		if next.IsZero() {
			delete(r.coefs, v)
			continue
		}
		r.coefs[v] = next
	}
	r.konst = r.konst.Sub(k.Mul(o.konst))
}

// Solve eliminates unknowns from a linear system by Gauss-Jordan elimination.
// Symbols outside unknowns are treated as known parameters. The result maps
// each unknown that the system determines uniquely to its explicit
// expression. Unknowns left free are omitted. An inconsistent system yields
// an empty map and no error.
func Solve(eqs []Equation, unknowns []string) (map[string]Expr, error) {
	rows := make([]*row, 0, len(eqs))
	for i, eq := range eqs {
		coefs, konst, err := Linear(eq.Residual(), unknowns)
		if err != nil {
			return nil, fmt.Errorf("equation %d (%s): %w", i, eq, err)
		}
		rows = append(rows, &row{coefs: coefs, konst: konst})
	}

	pivots := make(map[string]*row)
	for {
		r, u := choosePivot(rows, unknowns)
		if r == nil {
			break
		}
		r.used = true
		pivots[u] = r

		inv := One().Div(r.coefs[u])
		for v, c := range r.coefs {
			r.coefs[v] = c.Mul(inv)
		}
		r.konst = r.konst.Mul(inv)

		for _, o := range rows {
			if o == r {
				continue
			}
			if k, ok := o.coefs[u]; ok {
				o.sub(k, r)
			}
		}
	}

	for _, r := range rows {
		if !r.used && len(r.coefs) == 0 && !r.konst.IsZero() {
			return map[string]Expr{}, nil
		}
	}

	out := make(map[string]Expr, len(pivots))
	for u, r := range pivots {
		if len(r.coefs) != 1 {
			continue
		}
		out[u] = r.konst.Neg()
	}
	return out, nil
}

// choosePivot prefers rows with the fewest unknowns, then the simplest
// coefficient. Ties go to the earlier equation and the earlier unknown.
func choosePivot(rows []*row, unknowns []string) (*row, string) {
	var best *row
	bestVar := ""
	bestN, bestCost := 0, 0
	for _, r := range rows {
		if r.used || len(r.coefs) == 0 {
			continue
		}
		for _, u := range unknowns {
			c, ok := r.coefs[u]
			if !ok {
				continue
			}
			n, cost := len(r.coefs), c.Complexity()
			if best == nil || n < bestN || (n == bestN && cost < bestCost) {
				best, bestVar, bestN, bestCost = r, u, n, cost
			}
		}
	}
	return best, bestVar
}
