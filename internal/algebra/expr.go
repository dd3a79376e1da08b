package algebra

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// Expr is an exact rational expression num/den over named symbols. The zero
// value is not valid; build expressions with Sym, Const or Rat.
type Expr struct {
	num Poly
	den Poly
}

func Sym(name string) Expr { return Expr{num: polySym(name), den: polyOne()} }

func Const(n int64) Expr { return Rat(big.NewRat(n, 1)) }

func Rat(r *big.Rat) Expr { return Expr{num: polyConst(r), den: polyOne()} }

func Zero() Expr { return Const(0) }

func One() Expr { return Const(1) }

func (x Expr) valid() Expr {
	if x.den == nil {
		return Zero()
	}
	return x
}

// normalize folds monomial denominators into the numerator, strips the
// common monomial factor, scales the denominator to a unit leading
// coefficient and cancels exact polynomial division in either direction.
func normalize(num, den Poly) Expr {
	if num.isZero() {
		return Zero()
	}
	if q, ok := divExact(num, den); ok {
		return Expr{num: q, den: polyOne()}
	}

	shift := term{mono: den.floor().inv(), coef: big.NewRat(1, 1)}
	num, den = num.mulTerm(shift), den.mulTerm(shift)

	if len(num) > 1 {
		if q, ok := divExact(den, num); ok {
			if t, single := q.single(); single {
				inv := term{mono: t.mono.inv(), coef: new(big.Rat).Inv(t.coef)}
				return Expr{num: polyOne().mulTerm(inv), den: polyOne()}
			}
			num, den = polyOne(), q
		}
	}

	lead := den.leading(den.vars())
	scale := term{coef: new(big.Rat).Inv(lead.coef)}
	return Expr{num: num.mulTerm(scale), den: den.mulTerm(scale)}
}

func (x Expr) Add(y Expr) Expr {
	x, y = x.valid(), y.valid()
	if x.den.equal(y.den) {
		return normalize(x.num.add(y.num), x.den)
	}
	return normalize(x.num.mul(y.den).add(y.num.mul(x.den)), x.den.mul(y.den))
}

func (x Expr) Neg() Expr {
	x = x.valid()
	return Expr{num: x.num.neg(), den: x.den}
}

func (x Expr) Sub(y Expr) Expr { return x.Add(y.Neg()) }

func (x Expr) Mul(y Expr) Expr {
	x, y = x.valid(), y.valid()
	return normalize(x.num.mul(y.num), x.den.mul(y.den))
}

// Div returns x/y. Like big.Rat.Quo it panics when y is zero.
func (x Expr) Div(y Expr) Expr {
	x, y = x.valid(), y.valid()
	if y.IsZero() {
		panic(ErrDivideByZero)
	}
	return normalize(x.num.mul(y.den), x.den.mul(y.num))
}

// Quo is Div with the zero check reported as an error.
func (x Expr) Quo(y Expr) (Expr, error) {
	if y.valid().IsZero() {
		return Expr{}, ErrDivideByZero
	}
	return x.Div(y), nil
}

func (x Expr) IsZero() bool { return x.valid().num.isZero() }

// Equal reports mathematical equality.
func (x Expr) Equal(y Expr) bool {
	x, y = x.valid(), y.valid()
	return x.num.mul(y.den).equal(y.num.mul(x.den))
}

// Symbols lists every symbol in x, sorted.
func (x Expr) Symbols() []string {
	x = x.valid()
	set := make(map[string]bool)
	x.num.symbols(set)
	x.den.symbols(set)
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Has reports whether symbol appears in x.
func (x Expr) Has(symbol string) bool {
	for _, s := range x.Symbols() {
		if s == symbol {
			return true
		}
	}
	return false
}

// Eval evaluates x numerically. Every symbol must have a value.
func (x Expr) Eval(values map[string]float64) (float64, error) {
	x = x.valid()
	n, err := evalPoly(x.num, values)
	if err != nil {
		return 0, err
	}
	d, err := evalPoly(x.den, values)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, ErrDivideByZero
	}
	return n / d, nil
}

func evalPoly(p Poly, values map[string]float64) (float64, error) {
	sum := 0.0
	for _, t := range p {
		c, _ := t.coef.Float64()
		for _, f := range t.mono {
			v, ok := values[f.name]
			if !ok {
				return 0, fmt.Errorf("%w: %s", ErrUnboundSymbol, f.name)
			}
			c *= math.Pow(v, float64(f.exp))
		}
		sum += c
	}
	return sum, nil
}

// Complexity is a rough size measure used to pick simple pivots.
func (x Expr) Complexity() int {
	x = x.valid()
	n := 0
	for _, t := range x.num {
		n += 1 + len(t.mono)
	}
	if !x.den.isOne() {
		for _, t := range x.den {
			n += 2 + len(t.mono)
		}
	}
	return n
}

func (x Expr) String() string {
	x = x.valid()
	if x.den.isOne() {
		return x.num.String()
	}
	num := x.num.String()
	if len(x.num) > 1 {
		num = "(" + num + ")"
	}
	return num + "/(" + x.den.String() + ")"
}
