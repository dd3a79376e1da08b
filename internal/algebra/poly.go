package algebra

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

type factor struct {
	name string
	exp  int
}

// monomial is a product of symbols raised to non-zero integer powers,
// sorted by symbol name. Negative powers are allowed.
type monomial []factor

func (m monomial) key() string {
	var sb strings.Builder
	for i, f := range m {
		if i > 0 {
			sb.WriteByte('*')
		}
		sb.WriteString(f.name)
		if f.exp != 1 {
			sb.WriteByte('^')
			sb.WriteString(strconv.Itoa(f.exp))
		}
	}
	return sb.String()
}

func (m monomial) exp(name string) int {
	for _, f := range m {
		if f.name == name {
			return f.exp
		}
	}
	return 0
}

func (m monomial) mul(o monomial) monomial {
	out := make(monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) || j < len(o) {
		switch {
		case j == len(o) || (i < len(m) && m[i].name < o[j].name):
			out = append(out, m[i])
			i++
		case i == len(m) || o[j].name < m[i].name:
			out = append(out, o[j])
			j++
		default:
			if e := m[i].exp + o[j].exp; e != 0 {
				out = append(out, factor{m[i].name, e})
			}
			i++
			j++
		}
	}
	return out
}

func (m monomial) inv() monomial {
	out := make(monomial, len(m))
	for i, f := range m {
		out[i] = factor{f.name, -f.exp}
	}
	return out
}

func (m monomial) without(name string) monomial {
	out := make(monomial, 0, len(m))
	for _, f := range m {
		if f.name != name {
			out = append(out, f)
		}
	}
	return out
}

// divides reports whether m divides o as ordinary (non-negative) monomials.
func (m monomial) divides(o monomial) bool {
	for _, f := range m {
		if o.exp(f.name) < f.exp {
			return false
		}
	}
	return true
}

type term struct {
	mono monomial
	coef *big.Rat
}

// Poly is a Laurent polynomial with rational coefficients, keyed by
// monomial. The zero polynomial is the empty map. Polys are treated as
// immutable values.
type Poly map[string]term

func polyConst(r *big.Rat) Poly {
	if r.Sign() == 0 {
		return Poly{}
	}
	return Poly{"": {mono: nil, coef: new(big.Rat).Set(r)}}
}

func polyOne() Poly { return polyConst(big.NewRat(1, 1)) }

func polySym(name string) Poly {
	m := monomial{{name, 1}}
	return Poly{m.key(): {mono: m, coef: big.NewRat(1, 1)}}
}

func (p Poly) isZero() bool { return len(p) == 0 }

func (p Poly) addTerm(t term) {
	if t.coef.Sign() == 0 {
		return
	}
	k := t.mono.key()
	if cur, ok := p[k]; ok {
		sum := new(big.Rat).Add(cur.coef, t.coef)
		if sum.Sign() == 0 {
			delete(p, k)
			return
		}
		p[k] = term{mono: cur.mono, coef: sum}
		return
	}
	p[k] = term{mono: t.mono, coef: new(big.Rat).Set(t.coef)}
}

func (p Poly) add(q Poly) Poly {
	out := make(Poly, len(p)+len(q))
	for _, t := range p {
		out.addTerm(t)
	}
	for _, t := range q {
		out.addTerm(t)
	}
	return out
}

func (p Poly) neg() Poly {
	out := make(Poly, len(p))
	for k, t := range p {
		out[k] = term{mono: t.mono, coef: new(big.Rat).Neg(t.coef)}
	}
	return out
}

func (p Poly) sub(q Poly) Poly { return p.add(q.neg()) }

func (p Poly) mul(q Poly) Poly {
	out := make(Poly, len(p)*len(q))
	for _, a := range p {
		for _, b := range q {
			out.addTerm(term{mono: a.mono.mul(b.mono), coef: new(big.Rat).Mul(a.coef, b.coef)})
		}
	}
	return out
}

func (p Poly) mulTerm(t term) Poly {
	out := make(Poly, len(p))
	for _, a := range p {
		out.addTerm(term{mono: a.mono.mul(t.mono), coef: new(big.Rat).Mul(a.coef, t.coef)})
	}
	return out
}

func (p Poly) equal(q Poly) bool {
	if len(p) != len(q) {
		return false
	}
	for k, t := range p {
		u, ok := q[k]
		if !ok || t.coef.Cmp(u.coef) != 0 {
			return false
		}
	}
	return true
}

// single returns the only term of a one-term polynomial.
func (p Poly) single() (term, bool) {
	if len(p) != 1 {
		return term{}, false
	}
	for _, t := range p {
		return t, true
	}
	return term{}, false
}

func (p Poly) isOne() bool {
	t, ok := p.single()
	return ok && len(t.mono) == 0 && t.coef.Cmp(big.NewRat(1, 1)) == 0
}

func (p Poly) symbols(into map[string]bool) {
	for _, t := range p {
		for _, f := range t.mono {
			into[f.name] = true
		}
	}
}

func (p Poly) vars() []string {
	set := make(map[string]bool)
	p.symbols(set)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// floor is the largest monomial dividing every term: per symbol, the minimum
// exponent over all terms (absent symbols count as 0).
func (p Poly) floor() monomial {
	var out monomial
	for _, v := range p.vars() {
		lo := 0
		first := true
		for _, t := range p {
			e := t.mono.exp(v)
			if first || e < lo {
				lo = e
				first = false
			}
		}
		if lo != 0 {
			out = append(out, factor{v, lo})
		}
	}
	return out
}

// lexLess orders monomials lexicographically by exponent vector over vars.
func lexLess(a, b monomial, vars []string) bool {
	for _, v := range vars {
		ea, eb := a.exp(v), b.exp(v)
		if ea != eb {
			return ea < eb
		}
	}
	return false
}

func (p Poly) leading(vars []string) term {
	var lead term
	first := true
	for _, t := range p {
		if first || lexLess(lead.mono, t.mono, vars) {
			lead = t
			first = false
		}
	}
	return lead
}

const maxDivisionSteps = 4096

// divExact returns p/d when d divides p exactly in the Laurent ring.
func divExact(p, d Poly) (Poly, bool) {
	if d.isZero() {
		return nil, false
	}
	if p.isZero() {
		return Poly{}, true
	}
	if t, ok := d.single(); ok {
		inv := term{mono: t.mono.inv(), coef: new(big.Rat).Inv(t.coef)}
		return p.mulTerm(inv), true
	}

	// Shift both into ordinary polynomials, divide, then shift back.
	sp, sd := p.floor().inv(), d.floor().inv()
	num := p.mulTerm(term{mono: sp, coef: big.NewRat(1, 1)})
	den := d.mulTerm(term{mono: sd, coef: big.NewRat(1, 1)})

	set := make(map[string]bool)
	num.symbols(set)
	den.symbols(set)
	vars := make([]string, 0, len(set))
	for v := range set {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	lead := den.leading(vars)
	quo := Poly{}
	rem := num
	for steps := 0; !rem.isZero(); steps++ {
		if steps > maxDivisionSteps {
			return nil, false
		}
		lt := rem.leading(vars)
		if !lead.mono.divides(lt.mono) {
			return nil, false
		}
		q := term{mono: lt.mono.mul(lead.mono.inv()), coef: new(big.Rat).Quo(lt.coef, lead.coef)}
		quo.addTerm(q)
		rem = rem.sub(den.mulTerm(q))
	}
	// p/d = (num/sp) / (den/sd) = quo * sd / sp
	return quo.mulTerm(term{mono: sd.mul(sp.inv()), coef: big.NewRat(1, 1)}), true
}

// sortedTerms orders terms for display: positive coefficients first, then
// by positive factors and negative factors case-insensitively, constants
// last.
func (p Poly) sortedTerms() []term {
	out := make([]term, 0, len(p))
	for _, t := range p {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if si, sj := out[i].coef.Sign(), out[j].coef.Sign(); si != sj {
			return si > sj
		}
		a, b := out[i].mono, out[j].mono
		if (len(a) == 0) != (len(b) == 0) {
			return len(b) == 0
		}
		ka, kb := displayKey(a), displayKey(b)
		if ka != kb {
			return ka < kb
		}
		return a.key() < b.key()
	})
	return out
}

func displayKey(m monomial) string {
	var pos, neg []string
	for _, f := range m {
		if f.exp > 0 {
			pos = append(pos, strings.ToLower(f.name))
		} else {
			neg = append(neg, strings.ToLower(f.name))
		}
	}
	return strings.Join(pos, "*") + "/" + strings.Join(neg, "*")
}

func (p Poly) String() string {
	if p.isZero() {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.sortedTerms() {
		neg := t.coef.Sign() < 0
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(formatTerm(t))
	}
	return sb.String()
}

func formatTerm(t term) string {
	abs := new(big.Rat).Abs(t.coef)
	var num, den []string
	if !abs.Num().IsInt64() || abs.Num().Int64() != 1 {
		num = append(num, abs.Num().String())
	}
	if !abs.IsInt() {
		den = append(den, abs.Denom().String())
	}
	for _, f := range t.mono {
		switch {
		case f.exp == 1:
			num = append(num, f.name)
		case f.exp > 1:
			num = append(num, f.name+"^"+strconv.Itoa(f.exp))
		case f.exp == -1:
			den = append(den, f.name)
		default:
			den = append(den, f.name+"^"+strconv.Itoa(-f.exp))
		}
	}
	s := "1"
	if len(num) > 0 {
		s = strings.Join(num, "*")
	}
	switch len(den) {
	case 0:
		return s
	case 1:
		return s + "/" + den[0]
	default:
		return s + "/(" + strings.Join(den, "*") + ")"
	}
}
