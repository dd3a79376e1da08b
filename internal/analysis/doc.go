// Package analysis turns derived state equations into a numeric linear
// model and characterizes it.
//
// The package works on the resolved output of the solver:
//
//   - [Extract]: symbolic state-space form ẋ = A x + B u
//   - [Symbolic.Eval]: numeric matrices for a set of parameter values
//   - [StateSpace.Eigenvalues]: natural modes of the model
//   - [StateSpace.FrequencyResponse]: gain and phase from one input to one state
//
// # Stability
//
// The model is asymptotically stable when every eigenvalue of A has a
// negative real part:
//
//	sym, _ := analysis.Extract(sys, report)
//	ss, _ := sym.Eval(params)
//	if ok, _ := ss.Stable(); ok {
//	    // every mode decays
//	}
package analysis
