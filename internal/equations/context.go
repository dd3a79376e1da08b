package equations

import (
	"fmt"
	"sort"

	"github.com/san-kum/bondsim/internal/algebra"
)

// Role classifies a symbol by the physical quantity it stands for.
type Role int

const (
	RoleEffort Role = iota
	RoleFlow
	RoleMomentum
	RoleDisplacement
	RoleMomentumRate
	RoleDisplacementRate
	RoleParameter
	RoleInput
)

func (r Role) String() string {
	switch r {
	case RoleEffort:
		return "effort"
	case RoleFlow:
		return "flow"
	case RoleMomentum:
		return "momentum"
	case RoleDisplacement:
		return "displacement"
	case RoleMomentumRate:
		return "momentum-rate"
	case RoleDisplacementRate:
		return "displacement-rate"
	case RoleParameter:
		return "parameter"
	case RoleInput:
		return "input"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Unknown reports whether symbols of this role are solved for.
func (r Role) Unknown() bool {
	switch r {
	case RoleEffort, RoleFlow, RoleMomentumRate, RoleDisplacementRate:
		return true
	}
	return false
}

// Symbol is one interned name. Bond is zero for parameters and inputs.
type Symbol struct {
	Name string
	Role Role
	Bond int
	Node string
}

func (s Symbol) Expr() algebra.Expr { return algebra.Sym(s.Name) }

// Context is the symbol registry of one derivation. Asking for the same name
// twice returns the same symbol. A Context is not safe for concurrent use;
// give each graph its own.
type Context struct {
	symbols map[string]Symbol
	order   []string
}

func NewContext() *Context {
	return &Context{symbols: make(map[string]Symbol)}
}

// Symbol interns name with the given role. A name that is already registered
// keeps its first role.
func (c *Context) Symbol(name string, role Role, bond int, node string) algebra.Expr {
	if _, ok := c.symbols[name]; !ok {
		c.symbols[name] = Symbol{Name: name, Role: role, Bond: bond, Node: node}
		c.order = append(c.order, name)
	}
	return algebra.Sym(name)
}

func (c *Context) Effort(bond int) algebra.Expr {
	return c.Symbol(EffortName(bond), RoleEffort, bond, "")
}

func (c *Context) Flow(bond int) algebra.Expr {
	return c.Symbol(FlowName(bond), RoleFlow, bond, "")
}

func (c *Context) Momentum(bond int, node string) algebra.Expr {
	return c.Symbol(fmt.Sprintf("p_%d", bond), RoleMomentum, bond, node)
}

func (c *Context) Displacement(bond int, node string) algebra.Expr {
	return c.Symbol(fmt.Sprintf("q_%d", bond), RoleDisplacement, bond, node)
}

func (c *Context) MomentumRate(bond int, node string) algebra.Expr {
	return c.Symbol(fmt.Sprintf("pdot_%d", bond), RoleMomentumRate, bond, node)
}

func (c *Context) DisplacementRate(bond int, node string) algebra.Expr {
	return c.Symbol(fmt.Sprintf("qdot_%d", bond), RoleDisplacementRate, bond, node)
}

// Parameter names an element's constant after the element node.
func (c *Context) Parameter(node string) algebra.Expr {
	return c.Symbol(node, RoleParameter, 0, node)
}

// Input names a source value after the source node.
func (c *Context) Input(node string) algebra.Expr {
	return c.Symbol(node, RoleInput, 0, node)
}

func EffortName(bond int) string { return fmt.Sprintf("e_%d", bond) }

func FlowName(bond int) string { return fmt.Sprintf("f_%d", bond) }

func (c *Context) Lookup(name string) (Symbol, bool) {
	s, ok := c.symbols[name]
	return s, ok
}

func (c *Context) Len() int { return len(c.order) }

// Symbols returns the symbols of the given roles in registration order. With
// no roles it returns all of them.
func (c *Context) Symbols(roles ...Role) []Symbol {
	want := make(map[Role]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	var out []Symbol
	for _, name := range c.order {
		s := c.symbols[name]
		if len(roles) == 0 || want[s.Role] {
			out = append(out, s)
		}
	}
	return out
}

// Names returns sorted symbol names for the given roles.
func (c *Context) Names(roles ...Role) []string {
	syms := c.Symbols(roles...)
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	sort.Strings(out)
	return out
}
