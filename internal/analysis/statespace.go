package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/bondsim/internal/algebra"
	"github.com/san-kum/bondsim/internal/equations"
	"github.com/san-kum/bondsim/internal/solver"
)

var (
	// ErrUnresolved indicates a state derivative the solver could not express.
	ErrUnresolved = errors.New("analysis: unresolved state derivative")

	// ErrAffine indicates a derivative with a term free of states and inputs.
	ErrAffine = errors.New("analysis: derivative has a constant term")

	// ErrNoStates indicates a model without storage elements.
	ErrNoStates = errors.New("analysis: model has no states")
)

// Symbolic is the state-space form with one row per state derivative.
type Symbolic struct {
	States []string
	Inputs []string
	A      [][]algebra.Expr
	B      [][]algebra.Expr
}

// Extract reads A and B off the resolved derivatives. Every derivative must
// be resolved and linear in the states and inputs.
func Extract(sys *equations.System, rep *solver.Report) (*Symbolic, error) {
	s := &Symbolic{States: sys.StateNames(), Inputs: sys.Inputs}
	if len(s.States) == 0 {
		return nil, ErrNoStates
	}

	vars := append(append([]string{}, s.States...), s.Inputs...)
	for _, st := range sys.States {
		se, ok := rep.Lookup(st.Derivative)
		if !ok || !se.Resolved {
			return nil, fmt.Errorf("%w: %s", ErrUnresolved, st.Derivative)
		}
		coefs, konst, err := algebra.Linear(se.Expr, vars)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.Derivative, err)
		}
		if !konst.IsZero() {
			return nil, fmt.Errorf("%w: %s has %s", ErrAffine, st.Derivative, konst)
		}
		s.A = append(s.A, row(coefs, s.States))
		s.B = append(s.B, row(coefs, s.Inputs))
	}
	return s, nil
}

func row(coefs map[string]algebra.Expr, names []string) []algebra.Expr {
	out := make([]algebra.Expr, len(names))
	for i, n := range names {
		if c, ok := coefs[n]; ok {
			out[i] = c
		} else {
			out[i] = algebra.Zero()
		}
	}
	return out
}

// StateSpace is a numeric linear model.
type StateSpace struct {
	States []string
	Inputs []string
	A      *mat.Dense
	B      *mat.Dense
}

// Eval substitutes parameter values into A and B.
func (s *Symbolic) Eval(params map[string]float64) (*StateSpace, error) {
	n, m := len(s.States), len(s.Inputs)
	ss := &StateSpace{
		States: s.States,
		Inputs: s.Inputs,
		A:      mat.NewDense(n, n, nil),
	}
	if m > 0 {
		ss.B = mat.NewDense(n, m, nil)
	}

	for i := 0; i < n; i++ {
		for j, x := range s.A[i] {
			v, err := x.Eval(params)
			if err != nil {
				return nil, fmt.Errorf("A[%s,%s]: %w", s.States[i], s.States[j], err)
			}
			ss.A.Set(i, j, v)
		}
		for j, x := range s.B[i] {
			v, err := x.Eval(params)
			if err != nil {
				return nil, fmt.Errorf("B[%s,%s]: %w", s.States[i], s.Inputs[j], err)
			}
			ss.B.Set(i, j, v)
		}
	}
	return ss, nil
}

func (ss *StateSpace) StateIndex(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	for i, s := range ss.States {
		if s == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

func (ss *StateSpace) InputIndex(name string) (int, error) {
	if len(ss.Inputs) == 0 {
		return 0, errors.New("model has no inputs")
	}
	if name == "" {
		return 0, nil
	}
	for i, s := range ss.Inputs {
		if s == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown input %q", name)
}

// Eigenvalues returns the eigenvalues of A.
func (ss *StateSpace) Eigenvalues() ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(ss.A, mat.EigenNone); !ok {
		return nil, errors.New("eigen decomposition did not converge")
	}
	return eig.Values(nil), nil
}

// Stable reports whether every eigenvalue has a negative real part.
func (ss *StateSpace) Stable() (bool, error) {
	vals, err := ss.Eigenvalues()
	if err != nil {
		return false, err
	}
	for _, v := range vals {
		if real(v) >= 0 {
			return false, nil
		}
	}
	return true, nil
}

// Mode describes one eigenvalue. NaturalFreq is in rad/s.
type Mode struct {
	Value        complex128
	NaturalFreq  float64
	DampingRatio float64
}

func (ss *StateSpace) Modes() ([]Mode, error) {
	vals, err := ss.Eigenvalues()
	if err != nil {
		return nil, err
	}
	out := make([]Mode, len(vals))
	for i, v := range vals {
		wn := cmplx.Abs(v)
		zeta := math.NaN()
		if wn > 0 {
			zeta = -real(v) / wn
		}
		out[i] = Mode{Value: v, NaturalFreq: wn, DampingRatio: zeta}
	}
	return out, nil
}
