package algebra

import "errors"

var (
	// ErrNonlinear indicates an equation that is not linear in the unknowns.
	ErrNonlinear = errors.New("algebra: equation is not linear in the unknowns")

	// ErrDivideByZero indicates division by an expression that is identically zero.
	ErrDivideByZero = errors.New("algebra: division by zero")

	// ErrUnboundSymbol indicates a symbol with no value during evaluation.
	ErrUnboundSymbol = errors.New("algebra: unbound symbol")
)
